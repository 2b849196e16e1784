package nativewind

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, root string) (*Resolver, CacheDir) {
	t.Helper()
	cache, err := SecureCacheDir(root, "nativewind")
	require.NoError(t, err)
	return NewResolver(root, cache, []string{DefaultPlaceholder}, nil), cache
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func assertSynthesized(t *testing.T, input CSSInput, cache CacheDir) {
	t.Helper()
	assert.Equal(t, InputSynthesized, input.Kind)
	assert.Equal(t, cache.InputPath(), input.Path)
	assert.Empty(t, input.Literal)

	data, err := os.ReadFile(input.Path)
	require.NoError(t, err)
	assert.Equal(t, "@tailwind components;@tailwind utilities;", string(data))
}

func TestResolve_CSSImport(t *testing.T) {
	tests := []struct {
		name    string
		main    string
		source  string
		css     string
		literal string
		extra   []string
	}{
		{
			name:    "double quoted",
			main:    "App.tsx",
			source:  "import \"./global.css\";\nexport default function App() {}",
			css:     "global.css",
			literal: "./global.css",
		},
		{
			name:    "single quoted",
			main:    "index.js",
			source:  "require('./styles/app.css')",
			css:     "styles/app.css",
			literal: "./styles/app.css",
		},
		{
			name:    "parent directory from nested main",
			main:    "src/App.tsx",
			source:  `import "../theme/global.css"`,
			css:     "theme/global.css",
			literal: "../theme/global.css",
		},
		{
			name:    "bare path resolves against root",
			main:    "App.js",
			source:  `import "styles/tw.css"`,
			css:     "styles/tw.css",
			literal: "styles/tw.css",
		},
		{
			name:    "first literal wins",
			main:    "App.js",
			source:  "import './a.css'\nimport './b.css'",
			css:     "a.css",
			literal: "./a.css",
			extra:   []string{"b.css"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newProject(t)
			writeFile(t, filepath.Join(root, tt.main), tt.source)
			writeFile(t, filepath.Join(root, tt.css), "@tailwind utilities;")
			for _, f := range tt.extra {
				writeFile(t, filepath.Join(root, f), "")
			}

			r, _ := newTestResolver(t, root)
			input, err := r.Resolve(tt.main)
			require.NoError(t, err)

			assert.Equal(t, InputResolved, input.Kind)
			assert.Equal(t, tt.literal, input.Literal)
			assert.Equal(t, filepath.Join(root, filepath.FromSlash(tt.css)), input.Path)
			assert.True(t, filepath.IsAbs(input.Path))
		})
	}
}

func TestResolve_AbsoluteMain(t *testing.T) {
	root := newProject(t)
	main := filepath.Join(root, "App.tsx")
	writeFile(t, main, `import "./global.css"`)
	writeFile(t, filepath.Join(root, "global.css"), "")

	r, _ := newTestResolver(t, root)
	input, err := r.Resolve(main)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "global.css"), input.Path)
}

func TestResolve_BootstrapPlaceholder(t *testing.T) {
	root := newProject(t)
	writeFile(t, filepath.Join(root, "App.tsx"), `import "./global.css";`)
	writeFile(t, filepath.Join(root, "global.css"), "@tailwind base;")

	r, _ := newTestResolver(t, root)
	input, err := r.Resolve("node_modules/expo/AppEntry.js")
	require.NoError(t, err)

	assert.Equal(t, InputResolved, input.Kind)
	assert.Equal(t, "./global.css", input.Literal)
	assert.Equal(t, filepath.Join(root, "global.css"), input.Path)
}

func TestResolve_BootstrapPicksFirstListedAppFile(t *testing.T) {
	root := newProject(t)
	// Listing order is lexical: "App.js" sorts before "app.tsx".
	writeFile(t, filepath.Join(root, "App.js"), `import "./first.css"`)
	writeFile(t, filepath.Join(root, "app.tsx"), `import "./second.css"`)
	writeFile(t, filepath.Join(root, "first.css"), "")
	writeFile(t, filepath.Join(root, "second.css"), "")

	r, _ := newTestResolver(t, root)
	input, err := r.Resolve(DefaultPlaceholder)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "first.css"), input.Path)
}

func TestFindAppFile(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		dirs  []string
		want  string
	}{
		{name: "tsx", files: []string{"App.tsx"}, want: "App.tsx"},
		{name: "case insensitive", files: []string{"APP.MJS"}, want: "APP.MJS"},
		{name: "cjs", files: []string{"README.md", "app.cjs"}, want: "app.cjs"},
		{name: "unrelated extension", files: []string{"app.json", "webapp.js"}, want: ""},
		{name: "directory ignored", dirs: []string{"app.js"}, want: ""},
		{name: "empty", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newProject(t)
			for _, f := range tt.files {
				writeFile(t, filepath.Join(root, f), "")
			}
			for _, d := range tt.dirs {
				require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0755))
			}

			r, _ := newTestResolver(t, root)
			got, ok := r.findAppFile()
			if tt.want == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, filepath.Join(root, tt.want), got)
		})
	}
}

func TestResolve_PlaceholderWithoutAppFile(t *testing.T) {
	root := newProject(t)

	r, cache := newTestResolver(t, root)
	input, err := r.Resolve(DefaultPlaceholder)
	require.NoError(t, err)
	assertSynthesized(t, input, cache)
}

func TestResolve_Fallbacks(t *testing.T) {
	tests := []struct {
		name   string
		main   string
		source string
	}{
		{name: "empty main", main: ""},
		{name: "missing main", main: "does-not-exist.tsx"},
		{name: "no css literal", main: "App.tsx", source: `import React from "react";`},
		{name: "css literal names missing file", main: "App.tsx", source: `import "./missing.css"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newProject(t)
			if tt.source != "" {
				writeFile(t, filepath.Join(root, tt.main), tt.source)
			}

			r, cache := newTestResolver(t, root)
			input, err := r.Resolve(tt.main)
			require.NoError(t, err)
			assertSynthesized(t, input, cache)
		})
	}
}

func TestIsPlaceholder(t *testing.T) {
	r := NewResolver(t.TempDir(), CacheDir{}, []string{DefaultPlaceholder, "**/bootstrap/*.js"}, nil)

	assert.True(t, r.isPlaceholder("node_modules/expo/AppEntry.js"))
	assert.True(t, r.isPlaceholder("packages/bootstrap/index.js"))
	assert.False(t, r.isPlaceholder("node_modules/expo/AppEntry.tsx"))
	assert.False(t, r.isPlaceholder("App.tsx"))
	assert.False(t, r.isPlaceholder(""))

	root := t.TempDir()
	abs := NewResolver(root, CacheDir{}, []string{DefaultPlaceholder}, nil)
	assert.True(t, abs.isPlaceholder(filepath.Join(root, "node_modules", "expo", "AppEntry.js")))
	assert.False(t, abs.isPlaceholder(filepath.Join(root, "App.js")))
}
