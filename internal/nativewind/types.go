package nativewind

import (
	"context"
	"io"

	"go.uber.org/zap"
)

// Defaults applied by Options.withDefaults.
const (
	DefaultCacheName      = "nativewind"
	DefaultRunner         = "npx"
	DefaultRegistry       = "NativeWindStyleSheet"
	DefaultRegistryModule = "nativewind/dist/style-sheet"
	DefaultPlaceholder    = "node_modules/expo/AppEntry.js"

	// WebPlatform is the only platform that does not run the compiler in native mode.
	WebPlatform = "web"
)

// InputKind tells which branch produced a CSSInput.
type InputKind string

const (
	// InputResolved means a .css literal was found in the main module.
	InputResolved InputKind = "resolved"
	// InputSynthesized means the default input.css in the cache dir is used.
	InputSynthesized InputKind = "synthesized"
)

// CSSInput is the compiler's -i argument together with how it was found.
type CSSInput struct {
	Kind    InputKind
	Path    string // Absolute path, always an existing file
	Literal string // Verbatim string literal from the main module (resolved only)
}

// EventKind distinguishes compiler stdout units from stderr diagnostics.
type EventKind int

const (
	EventOutput EventKind = iota
	EventDiagnostic
)

// Event is one unit emitted by a watch-mode compiler.
type Event struct {
	Kind EventKind
	Text string
}

// TransformOptions are the per-call options passed by the bundler.
// Dev and Hot are accepted but not consumed.
type TransformOptions struct {
	Dev      bool
	Hot      bool
	Platform string
}

// GetTransformOptionsFunc is the bundler's transform-options retrieval hook.
type GetTransformOptionsFunc func(ctx context.Context, entryPoints []string, opts TransformOptions) (any, error)

// TransformerConfig is the bundler's transformer section.
type TransformerConfig struct {
	GetTransformOptions GetTransformOptionsFunc
	Extra               map[string]any
}

// BundlerConfig is the subset of the bundler configuration the hook touches.
// Everything in Extra passes through unchanged.
type BundlerConfig struct {
	Transformer TransformerConfig
	Extra       map[string]any
}

// Options configures the hook and everything it drives.
type Options struct {
	Postcss        string   // Custom PostCSS config, forwarded as --postcss
	ProjectRoot    string   // Defaults to the working directory
	CacheName      string   // Cache namespace (default "nativewind")
	Runner         string   // Package runner resolving the compiler (default "npx")
	NodeEnv        string   // "production" selects one-shot mode
	Placeholders   []string // Doublestar patterns for framework bootstrap entries
	Registry       string   // Style registry identifier in output.js
	RegistryModule string   // require() path of the style registry
	Deriver        Deriver
	Logger         *zap.Logger
	Diagnostics    io.Writer // Where prefixed compiler diagnostics go (default stderr)
	UseColors      bool
	Platform       string   // Fallback platform when a call does not carry one
	Launcher       Launcher // Overrides process construction (tests)
}
