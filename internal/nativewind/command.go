package nativewind

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Child process environment variables.
const (
	EnvOutput = "NATIVEWIND_OUTPUT"
	EnvNative = "NATIVEWIND_NATIVE"
	EnvNode   = "NODE_ENV"
)

// CompilerEnv is handed to the compiler process only; the host environment is
// left untouched.
type CompilerEnv struct {
	OutputPath string
	Native     bool
}

// Environ returns the KEY=value pairs to append to the child environment.
func (e CompilerEnv) Environ() []string {
	env := []string{EnvOutput + "=" + e.OutputPath}
	if e.Native {
		env = append(env, EnvNative+"=true")
	}
	return env
}

// Command is a fully built compiler invocation.
type Command struct {
	Runner string
	Args   []string
	Env    CompilerEnv
	Dir    string
}

// CompilerArgs builds the tailwind arguments passed to the runner.
func CompilerArgs(input, postcss string, watch bool) []string {
	args := []string{"tailwind", "-i", input}
	if postcss != "" {
		args = append(args, "--postcss", postcss)
	}
	if watch {
		args = append(args, "--watch", "--poll")
	}
	return args
}

// Development reports whether nodeEnv selects watch mode.
func Development(nodeEnv string) bool {
	return nodeEnv != "production"
}

// ShellLine renders the command as a single quoted shell line.
func (c Command) ShellLine() (string, error) {
	parts := make([]string, 0, len(c.Args)+1)
	for _, s := range append([]string{c.Runner}, c.Args...) {
		q, err := syntax.Quote(s, syntax.LangPOSIX)
		if err != nil {
			return "", fmt.Errorf("quote %q: %w", s, err)
		}
		parts = append(parts, q)
	}
	return strings.Join(parts, " "), nil
}

// Exec builds the *exec.Cmd. The runner is resolved by the shell so package
// runner shims (npx.cmd and friends) work the same everywhere.
func (c Command) Exec(ctx context.Context) (*exec.Cmd, error) {
	line, err := c.ShellLine()
	if err != nil {
		return nil, err
	}

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", line)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", line)
	}
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), c.Env.Environ()...)
	setProcessGroup(cmd)
	return cmd, nil
}
