package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yacobolo/nativewind/internal/nativewind"
	"go.uber.org/zap"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile styles once (NODE_ENV=production)",
	Long: `Resolve the CSS entry and run the Tailwind CLI once.
The command blocks until the compiler exits.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, _ []string) error {
	session, hook, err := startPipeline(cmd.Context(), "production")
	if err != nil {
		return err
	}
	defer hook.Close()

	if !getBoolWithFallback("quiet", "quiet", false) {
		fmt.Printf("Compiled %s (%s)\n", session.Input.Path, session.Input.Kind)
		fmt.Printf("  Style module: %s\n", hook.Cache().ModulePath())
	}

	if session.Result.ExitCode < 0 && session.Result.Err != nil {
		return session.Result.Err
	}
	if session.Result.ExitCode != 0 {
		return fmt.Errorf("compiler exited with code %d", session.Result.ExitCode)
	}
	return nil
}

// startPipeline wraps an empty bundler config, calls its transform-options
// hook once and returns the session that call started.
func startPipeline(ctx context.Context, nodeEnv string) (*nativewind.Session, *nativewind.Hook, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	log := zap.NewNop()
	if !getBoolWithFallback("quiet", "quiet", false) {
		var err error
		log, err = newLogger(getBoolWithFallback("verbose", "verbose", false), getBoolWithFallback("color", "color", false))
		if err != nil {
			return nil, nil, fmt.Errorf("create logger: %w", err)
		}
	}

	opts := buildOptions()
	opts.NodeEnv = nodeEnv
	opts.Logger = log
	opts.UseColors = nativewind.ShouldUseColors(opts.UseColors, os.Stderr)

	hook, err := nativewind.New(opts)
	if err != nil {
		return nil, nil, err
	}

	entry := entryPath()
	call := nativewind.TransformOptions{Dev: nodeEnv != "production", Platform: opts.Platform}
	cfg := hook.Wrap(nativewind.BundlerConfig{})
	if _, err := cfg.Transformer.GetTransformOptions(ctx, []string{entry}, call); err != nil {
		_ = hook.Close()
		return nil, nil, err
	}

	// The wrapper has already run the pipeline; this returns the same session.
	session, err := hook.Start(ctx, entry, call)
	if err != nil {
		_ = hook.Close()
		return nil, nil, err
	}
	return session, hook, nil
}
