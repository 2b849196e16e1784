package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/yacobolo/nativewind/internal/nativewind"
)

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".nativewind.yaml"
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// CLI flags (highest precedence, only flags that were explicitly set)
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// Environment variables (NATIVEWIND_* prefix)
	if err := k.Load(env.Provider("NATIVEWIND_", ".", func(s string) string {
		// NATIVEWIND_COMPILER_POSTCSS -> compiler.postcss
		// NATIVEWIND_ENTRY_PLATFORM -> entry.platform
		// NATIVEWIND_VERBOSE -> verbose
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "NATIVEWIND_")),
			"_", ".",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildOptions constructs the pipeline Options from koanf state. NodeEnv is
// left to the command. Quiet discards compiler diagnostics.
func buildOptions() nativewind.Options {
	opts := nativewind.Options{
		ProjectRoot:    getStringWithFallback("root", "root", ""),
		Postcss:        getStringWithFallback("postcss", "compiler.postcss", ""),
		Runner:         getStringWithFallback("runner", "compiler.runner", nativewind.DefaultRunner),
		Platform:       getStringWithFallback("platform", "entry.platform", ""),
		CacheName:      getString("module.cache", nativewind.DefaultCacheName),
		Registry:       getString("module.registry", nativewind.DefaultRegistry),
		RegistryModule: getString("module.require", nativewind.DefaultRegistryModule),
		UseColors:      getBoolWithFallback("color", "color", false),
	}

	if getBoolWithFallback("quiet", "quiet", false) {
		opts.Diagnostics = io.Discard
	}

	if placeholders := k.Strings("entry.placeholders"); len(placeholders) > 0 {
		opts.Placeholders = placeholders
	} else {
		opts.Placeholders = []string{nativewind.DefaultPlaceholder}
	}

	return opts
}

// entryPath returns the main module the pipeline starts from.
func entryPath() string {
	return getStringWithFallback("main", "entry.main", nativewind.DefaultPlaceholder)
}

// getString returns a config-file-only key or the default.
func getString(key, defaultVal string) string {
	if v := k.String(key); v != "" {
		return v
	}
	return defaultVal
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}
