package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nativewind",
	Short: "Run the Tailwind CLI and keep a native style module up to date",
	Long: `Finds the project's CSS entry, runs the Tailwind CLI against it and
rewrites <cache>/output.js with the compiled styles.
Production builds compile once; development keeps the compiler watching.`,
	// Default behavior: run build when no subcommand is given.
	// We must call loadConfig here because PreRunE of buildCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runBuild(cmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.Bool("quiet", false, "Suppress all output (exit code only)")
	pf.Bool("color", false, "Force color output")
	pf.String("config", ".nativewind.yaml", "Config file path")
	pf.String("root", "", "Project root (default: working directory)")
	pf.String("main", "", "Main module path as the bundler reports it (default: node_modules/expo/AppEntry.js)")
	pf.String("platform", "", "Target platform (anything but \"web\" runs in native mode)")
	pf.String("postcss", "", "Custom PostCSS config forwarded to the compiler")
	pf.String("runner", "", "Package runner used to resolve the compiler (default: npx)")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
