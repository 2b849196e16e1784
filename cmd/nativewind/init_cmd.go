package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .nativewind.yaml config file",
	Long:  `Create a .nativewind.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".nativewind.yaml"); err == nil && !force {
			return fmt.Errorf(".nativewind.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".nativewind.yaml", []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Println("Created .nativewind.yaml")
		return nil
	},
}

const defaultConfig = `# nativewind configuration

# Shared settings
verbose: false
color: false

# Compiler invocation: <runner> tailwind -i <input> [--postcss <path>]
compiler:
  runner: npx
  postcss: ""              # e.g. postcss.config.js

# Entry resolution
entry:
  main: node_modules/expo/AppEntry.js
  platform: ios            # anything but "web" runs in native mode
  placeholders:            # entries replaced by the first App.{ts,tsx,cjs,mjs,js}
    - "node_modules/expo/AppEntry.js"

# Generated style module
module:
  cache: nativewind        # node_modules/.cache/<cache>
  registry: NativeWindStyleSheet
  require: nativewind/dist/style-sheet
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
