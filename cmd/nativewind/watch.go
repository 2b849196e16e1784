package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the compiler running and rewrite the style module on change",
	Long: `Run the Tailwind CLI with --watch --poll. Every rebuild rewrites the
style module. Stops on SIGINT/SIGTERM.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, hook, err := startPipeline(ctx, "development")
	if err != nil {
		return err
	}

	if !getBoolWithFallback("quiet", "quiet", false) {
		fmt.Printf("Watching %s (%s)\n", session.Input.Path, session.Input.Kind)
		fmt.Printf("  Style module: %s\n", hook.Cache().ModulePath())
	}

	exited := make(chan error, 1)
	go func() { exited <- session.Wait() }()

	select {
	case <-ctx.Done():
		return hook.Close()
	case err := <-exited:
		if err != nil {
			err = fmt.Errorf("compiler stopped: %w", err)
		}
		return multierr.Append(err, hook.Close())
	}
}
