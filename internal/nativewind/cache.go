package nativewind

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoCacheDir is returned when no project cache directory can be secured.
var ErrNoCacheDir = errors.New("unable to secure cache directory")

const (
	outputBaseName = "output"
	inputFileName  = "input.css"
)

// CacheDir is the project-scoped directory holding generated artifacts.
type CacheDir struct {
	Dir string
}

// SecureCacheDir locates (and creates) <pkg>/node_modules/.cache/<name> for the
// package enclosing root, honouring $CACHE_DIR. The generated module is
// initialised empty so importing it never fails.
func SecureCacheDir(root, name string) (CacheDir, error) {
	dir, err := findCacheDir(root, name)
	if err != nil {
		return CacheDir{}, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return CacheDir{}, fmt.Errorf("%w: create %s: %v", ErrNoCacheDir, dir, err)
	}

	c := CacheDir{Dir: dir}
	if err := c.WriteModule(""); err != nil {
		return CacheDir{}, fmt.Errorf("%w: %v", ErrNoCacheDir, err)
	}
	return c, nil
}

func findCacheDir(root, name string) (string, error) {
	switch env := os.Getenv("CACHE_DIR"); env {
	case "", "true", "false", "1", "0":
	default:
		return filepath.Join(env, name), nil
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCacheDir, err)
	}

	pkgDir, ok := findPackageDir(abs)
	if !ok {
		return "", fmt.Errorf("%w: no package.json above %s", ErrNoCacheDir, abs)
	}

	nodeModules := filepath.Join(pkgDir, "node_modules")
	if info, err := os.Stat(nodeModules); err == nil && !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrNoCacheDir, nodeModules)
	}

	return filepath.Join(nodeModules, ".cache", name), nil
}

// findPackageDir walks up from dir to the nearest directory with a package.json.
func findPackageDir(dir string) (string, bool) {
	for {
		if info, err := os.Stat(filepath.Join(dir, "package.json")); err == nil && !info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// OutputBase is the extensionless output path published to the compiler.
func (c CacheDir) OutputBase() string {
	return filepath.Join(c.Dir, outputBaseName)
}

// ModulePath is the generated style module the application imports.
func (c CacheDir) ModulePath() string {
	return c.OutputBase() + ".js"
}

// InputPath is the synthesized default stylesheet.
func (c CacheDir) InputPath() string {
	return filepath.Join(c.Dir, inputFileName)
}

// WriteModule replaces the generated style module.
func (c CacheDir) WriteModule(content string) error {
	return writeFileAtomic(c.ModulePath(), content)
}

// WriteInput replaces the synthesized default stylesheet.
func (c CacheDir) WriteInput(content string) error {
	return writeFileAtomic(c.InputPath(), content)
}

// writeFileAtomic writes through a temp file and rename so readers never see a
// partial file.
func writeFileAtomic(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
