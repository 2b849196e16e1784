package nativewind

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Hook starts the compiler pipeline from the bundler's transform-options call.
type Hook struct {
	opts       Options
	cache      CacheDir
	resolver   *Resolver
	supervisor *Supervisor
	writer     *Writer
	reporter   *Reporter
	log        *zap.Logger

	// Watch processes outlive the bundler call that started them.
	ctx    context.Context
	cancel context.CancelFunc

	once    sync.Once
	session *Session

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// ErrHookClosed is returned by Start once Close has been called.
var ErrHookClosed = errors.New("hook closed")

// Session is the pipeline a hook starts on its first bundler call.
type Session struct {
	Entry   string // Entry point of the call that started it
	Input   CSSInput
	Command Command
	Result  Result // One-shot runs only

	err   error
	watch *Watch
}

// Watching reports whether the session runs a watch-mode compiler.
func (s *Session) Watching() bool {
	return s.watch != nil
}

// Wait blocks until a watch-mode compiler exits. One-shot sessions return
// immediately.
func (s *Session) Wait() error {
	if s.watch == nil {
		return nil
	}
	return s.watch.Wait()
}

// New secures the cache directory and prepares the pipeline. Failing to secure
// the cache is the only fatal error.
func New(opts Options) (*Hook, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	cache, err := SecureCacheDir(opts.ProjectRoot, opts.CacheName)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &Hook{
		opts:     opts,
		cache:    cache,
		resolver: NewResolver(opts.ProjectRoot, cache, opts.Placeholders, opts.Logger),
		supervisor: NewSupervisor(
			WithLauncher(opts.Launcher),
			WithLogger(opts.Logger),
		),
		writer:   NewWriter(cache, opts.Deriver, opts.Registry, opts.RegistryModule, opts.Logger),
		reporter: NewReporter(opts.Diagnostics, opts.UseColors),
		log:      opts.Logger.Named("hook"),
		ctx:      ctx,
		cancel:   cancel,
	}
	h.log.Debug("Cache directory secured", zap.String("dir", cache.Dir))
	return h, nil
}

func (o Options) withDefaults() (Options, error) {
	if o.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return o, fmt.Errorf("get working directory: %w", err)
		}
		o.ProjectRoot = wd
	}
	if o.CacheName == "" {
		o.CacheName = DefaultCacheName
	}
	if o.Runner == "" {
		o.Runner = DefaultRunner
	}
	if o.NodeEnv == "" {
		o.NodeEnv = os.Getenv(EnvNode)
	}
	if o.Placeholders == nil {
		o.Placeholders = []string{DefaultPlaceholder}
	}
	if o.Registry == "" {
		o.Registry = DefaultRegistry
	}
	if o.RegistryModule == "" {
		o.RegistryModule = DefaultRegistryModule
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Deriver == nil {
		o.Deriver = NewStyleTableDeriver(o.Logger)
	}
	if o.Diagnostics == nil {
		o.Diagnostics = os.Stderr
	}
	return o, nil
}

// Cache returns the secured cache directory.
func (h *Hook) Cache() CacheDir {
	return h.cache
}

// Wrap returns cfg with its transform-options retrieval wrapped. The wrapper
// starts the pipeline, then returns whatever the original returns.
func (h *Hook) Wrap(cfg BundlerConfig) BundlerConfig {
	original := cfg.Transformer.GetTransformOptions

	wrapped := cfg
	wrapped.Transformer.GetTransformOptions = func(ctx context.Context, entryPoints []string, opts TransformOptions) (any, error) {
		var entry string
		if len(entryPoints) > 0 {
			entry = entryPoints[0]
		}

		if _, err := h.Start(ctx, entry, opts); err != nil {
			h.reporter.Failure(err)
		}

		if original == nil {
			return nil, nil
		}
		return original(ctx, entryPoints, opts)
	}
	return wrapped
}

// Start runs the pipeline once per hook. Later calls return the first session
// whatever their entry point. One-shot mode blocks until the compiler exits;
// watch mode returns once the process is running.
func (h *Hook) Start(ctx context.Context, entry string, opts TransformOptions) (*Session, error) {
	if h.isClosed() {
		return nil, ErrHookClosed
	}

	h.once.Do(func() {
		s := &Session{Entry: entry}
		s.err = h.run(ctx, s, opts)
		h.session = s
	})
	if h.session == nil {
		// Close won the latch.
		return nil, ErrHookClosed
	}
	return h.session, h.session.err
}

func (h *Hook) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *Hook) run(ctx context.Context, s *Session, opts TransformOptions) error {
	platform := opts.Platform
	if platform == "" {
		platform = h.opts.Platform
	}
	watch := Development(h.opts.NodeEnv)

	input, err := h.resolver.Resolve(s.Entry)
	if err != nil {
		return fmt.Errorf("resolve css input: %w", err)
	}
	s.Input = input
	s.Command = Command{
		Runner: h.opts.Runner,
		Args:   CompilerArgs(input.Path, h.opts.Postcss, watch),
		Env: CompilerEnv{
			OutputPath: h.cache.OutputBase(),
			Native:     platform != WebPlatform,
		},
		Dir: h.opts.ProjectRoot,
	}
	h.log.Debug("Starting compiler",
		zap.String("entry", s.Entry),
		zap.String("input", input.Path),
		zap.String("kind", string(input.Kind)),
		zap.Bool("watch", watch),
		zap.String("platform", platform))

	if !watch {
		s.Result = h.supervisor.RunOnce(ctx, s.Command)
		return nil
	}

	w, err := h.supervisor.Watch(h.ctx, s.Command)
	if err != nil {
		return err
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return multierr.Append(ErrHookClosed, w.Stop())
	}
	s.watch = w
	h.wg.Add(1)
	h.mu.Unlock()

	go func() {
		defer h.wg.Done()
		h.writer.Consume(w.Events(), h.reporter.Diagnostic)
	}()
	return nil
}

// Close stops the watch-mode compiler, if any, and waits for pending writes.
// Start fails with ErrHookClosed afterwards.
func (h *Hook) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	h.cancel()

	// Waits for an in-flight Start.
	h.once.Do(func() {})

	var err error
	if h.session != nil {
		err = h.session.Wait()
	}
	h.wg.Wait()
	return err
}
