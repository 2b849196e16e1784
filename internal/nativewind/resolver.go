package nativewind

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// DefaultInputCSS is written to the cache when no CSS import can be found.
const DefaultInputCSS = "@tailwind components;@tailwind utilities;"

var (
	appFilePattern   = regexp.MustCompile(`(?i)^app\.(ts|tsx|cjs|mjs|js)$`)
	cssImportPattern = regexp.MustCompile(`["']([^"'\r\n]+\.css)["']`)
)

// Resolver finds the CSS file the compiler should start from.
type Resolver struct {
	root         string
	cache        CacheDir
	placeholders []string
	log          *zap.Logger
}

// NewResolver creates a resolver for the project rooted at root.
func NewResolver(root string, cache CacheDir, placeholders []string, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		root:         root,
		cache:        cache,
		placeholders: placeholders,
		log:          log.Named("resolver"),
	}
}

// Resolve returns the CSS input for main. Lookup failures fall through to the
// synthesized default; only failing to write that default is an error.
func (r *Resolver) Resolve(main string) (CSSInput, error) {
	if r.isPlaceholder(main) {
		if app, ok := r.findAppFile(); ok {
			r.log.Debug("Substituted bootstrap entry", zap.String("entry", main), zap.String("app", app))
			main = app
		}
	}

	if input, ok := r.scanMain(main); ok {
		return input, nil
	}

	if err := r.cache.WriteInput(DefaultInputCSS); err != nil {
		return CSSInput{}, err
	}
	return CSSInput{Kind: InputSynthesized, Path: r.cache.InputPath()}, nil
}

func (r *Resolver) isPlaceholder(main string) bool {
	if main == "" {
		return false
	}
	candidates := []string{filepath.ToSlash(main)}
	if filepath.IsAbs(main) {
		if rel, err := filepath.Rel(r.root, main); err == nil && !strings.HasPrefix(rel, "..") {
			candidates = append(candidates, filepath.ToSlash(rel))
		}
	}
	for _, pattern := range r.placeholders {
		for _, c := range candidates {
			if ok, err := doublestar.Match(pattern, c); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// findAppFile returns the first top-level App.{ts,tsx,cjs,mjs,js} in listing order.
func (r *Resolver) findAppFile() (string, bool) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		r.log.Debug("Cannot list project root", zap.Error(err))
		return "", false
	}
	for _, e := range entries {
		if e.IsDir() || !appFilePattern.MatchString(e.Name()) {
			continue
		}
		return filepath.Join(r.root, e.Name()), true
	}
	return "", false
}

func (r *Resolver) scanMain(main string) (CSSInput, bool) {
	if main == "" {
		return CSSInput{}, false
	}
	if !filepath.IsAbs(main) {
		main = filepath.Join(r.root, main)
	}

	// #nosec G304 - main is the bundler's own entry point
	content, err := os.ReadFile(main)
	if err != nil {
		r.log.Debug("Cannot read main module", zap.String("main", main), zap.Error(err))
		return CSSInput{}, false
	}

	m := cssImportPattern.FindSubmatch(content)
	if m == nil {
		r.log.Debug("No CSS import in main module", zap.String("main", main))
		return CSSInput{}, false
	}

	literal := string(m[1])
	path := r.literalPath(main, literal)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		r.log.Debug("CSS import does not name a file", zap.String("literal", literal), zap.String("path", path))
		return CSSInput{}, false
	}

	return CSSInput{Kind: InputResolved, Path: path, Literal: literal}, true
}

// literalPath resolves relative imports against the importing file and bare
// ones against the project root.
func (r *Resolver) literalPath(main, literal string) string {
	switch {
	case filepath.IsAbs(literal):
		return filepath.Clean(literal)
	case strings.HasPrefix(literal, "./"), strings.HasPrefix(literal, "../"):
		return filepath.Join(filepath.Dir(main), filepath.FromSlash(literal))
	default:
		return filepath.Join(r.root, filepath.FromSlash(literal))
	}
}
