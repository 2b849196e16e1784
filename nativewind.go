// Package nativewind runs the Tailwind CLI alongside a module bundler and turns
// its output into a style module a native UI runtime can import.
//
// The bundler integration wraps the transform-options hook; the first call for
// an entry point finds the project's CSS entry, starts the compiler and keeps
// <cache>/output.js up to date:
//
//	cfg, hook, err := nativewind.WithNativeWind(bundlerConfig, nativewind.Options{
//		Postcss: "postcss.config.js",
//	})
//	if err != nil {
//		return err
//	}
//	defer hook.Close()
//
// # Modes
//
// With NODE_ENV=production the compiler runs once and the call blocks until it
// exits. Otherwise it runs with --watch --poll and every rebuild rewrites the
// style module.
//
// # CLI Tool
//
// The same pipeline is available without a bundler:
//
//	go install github.com/yacobolo/nativewind/cmd/nativewind@latest
//	nativewind watch --main App.tsx --platform ios
package nativewind

import (
	core "github.com/yacobolo/nativewind/internal/nativewind"
)

type (
	Options                 = core.Options
	TransformOptions        = core.TransformOptions
	BundlerConfig           = core.BundlerConfig
	TransformerConfig       = core.TransformerConfig
	GetTransformOptionsFunc = core.GetTransformOptionsFunc
	Hook                    = core.Hook
	Session                 = core.Session
	CSSInput                = core.CSSInput
	Deriver                 = core.Deriver
	DeriverFunc             = core.DeriverFunc
	StyleTable              = core.StyleTable
)

// ErrNoCacheDir is returned when no project cache directory can be secured.
var ErrNoCacheDir = core.ErrNoCacheDir

// ErrHookClosed is returned by Hook.Start after Hook.Close.
var ErrHookClosed = core.ErrHookClosed

// New secures the cache directory and returns a hook ready to wrap a bundler
// configuration.
func New(opts Options) (*Hook, error) {
	return core.New(opts)
}

// WithNativeWind wraps cfg's transform-options retrieval. The returned hook
// owns any watch-mode compiler; Close it when the bundler shuts down.
func WithNativeWind(cfg BundlerConfig, opts Options) (BundlerConfig, *Hook, error) {
	hook, err := core.New(opts)
	if err != nil {
		return BundlerConfig{}, nil, err
	}
	return hook.Wrap(cfg), hook, nil
}
