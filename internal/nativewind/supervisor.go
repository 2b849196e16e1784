package nativewind

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BrowserslistNoise prefixes a compiler warning that native projects always trigger.
const BrowserslistNoise = "[Browserslist] Could not parse"

const stdoutChunkSize = 1 << 20

// Launcher turns a Command into an unstarted process.
type Launcher func(ctx context.Context, c Command) (*exec.Cmd, error)

// Result reports a finished one-shot run.
type Result struct {
	ExitCode int
	Err      error
}

// Supervisor runs the utility-class compiler in one-shot or watch mode.
type Supervisor struct {
	launch Launcher
	log    *zap.Logger
}

// SupervisorOption customizes supervisor dependencies, primarily for tests.
type SupervisorOption func(*Supervisor)

// WithLauncher overrides child process construction.
func WithLauncher(l Launcher) SupervisorOption {
	return func(s *Supervisor) {
		if l != nil {
			s.launch = l
		}
	}
}

// WithLogger sets the supervisor logger.
func WithLogger(log *zap.Logger) SupervisorOption {
	return func(s *Supervisor) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSupervisor creates a supervisor launching commands through the shell.
func NewSupervisor(opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		launch: func(ctx context.Context, c Command) (*exec.Cmd, error) { return c.Exec(ctx) },
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("supervisor")
	return s
}

// RunOnce runs the compiler to completion. Output is discarded and the exit
// status is only reported back, never acted on.
func (s *Supervisor) RunOnce(ctx context.Context, c Command) Result {
	cmd, err := s.launch(ctx, c)
	if err != nil {
		return Result{ExitCode: -1, Err: fmt.Errorf("launch compiler: %w", err)}
	}
	cmd.Stdout = nil
	cmd.Stderr = nil

	s.log.Debug("Running compiler", zap.Strings("args", cmd.Args))
	err = cmd.Run()

	res := Result{Err: err}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	} else if err != nil {
		res.ExitCode = -1
	}
	s.log.Debug("Compiler exited", zap.Int("code", res.ExitCode), zap.Error(err))
	return res
}

// Watch is a running watch-mode compiler.
type Watch struct {
	cmd    *exec.Cmd
	events chan Event
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Watch starts the compiler and returns immediately. Events arrive on
// Watch.Events until the process exits or ctx is cancelled.
func (s *Supervisor) Watch(ctx context.Context, c Command) (*Watch, error) {
	ctx, cancel := context.WithCancel(ctx)

	cmd, err := s.launch(ctx, c)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("launch compiler: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("start compiler: %w", err)
	}
	s.log.Info("Watching", zap.Strings("args", cmd.Args), zap.Int("pid", cmd.Process.Pid))

	w := &Watch{
		cmd:    cmd,
		events: make(chan Event),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(w.done)
		defer close(w.events)
		defer cancel()

		var g errgroup.Group
		g.Go(func() error { return w.pumpStdout(ctx, stdout) })
		g.Go(func() error { return w.pumpStderr(ctx, stderr) })
		pumpErr := g.Wait()

		waitErr := cmd.Wait()
		if ctx.Err() != nil {
			// Stopped on purpose; the kill status is not a failure.
			waitErr = nil
		}
		w.err = multierr.Append(pumpErr, waitErr)
		s.log.Debug("Compiler stopped", zap.Error(w.err))
	}()

	return w, nil
}

// Events yields compiler output units and diagnostics in arrival order. The
// channel closes once the process has exited; it is never reopened.
func (w *Watch) Events() <-chan Event {
	return w.events
}

// Stop kills the compiler and waits for it to exit.
func (w *Watch) Stop() error {
	w.cancel()
	return w.Wait()
}

// Wait blocks until the compiler has exited and both streams are drained.
// Callers must keep reading Events, or Wait never returns.
func (w *Watch) Wait() error {
	<-w.done
	return w.err
}

func (w *Watch) emit(ctx context.Context, ev Event) bool {
	select {
	case w.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// pumpStdout forwards every read as one output unit.
func (w *Watch) pumpStdout(ctx context.Context, r io.Reader) error {
	buf := make([]byte, stdoutChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 && !w.emit(ctx, Event{Kind: EventOutput, Text: string(buf[:n])}) {
			return nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read stdout: %w", err)
		}
	}
}

// pumpStderr forwards non-empty stderr lines, dropping Browserslist noise.
func (w *Watch) pumpStderr(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !surfaceDiagnostic(line) {
			continue
		}
		if !w.emit(ctx, Event{Kind: EventDiagnostic, Text: line}) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("read stderr: %w", err)
	}
	return nil
}

// surfaceDiagnostic reports whether a trimmed stderr line reaches the user.
func surfaceDiagnostic(line string) bool {
	return line != "" && !strings.HasPrefix(line, BrowserslistNoise)
}
