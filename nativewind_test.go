package nativewind_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yacobolo/nativewind"
)

func TestWithNativeWind(t *testing.T) {
	cacheRoot := t.TempDir()
	t.Setenv("CACHE_DIR", cacheRoot)

	cfg, hook, err := nativewind.WithNativeWind(nativewind.BundlerConfig{
		Extra: map[string]any{"projectRoot": "/app"},
	}, nativewind.Options{ProjectRoot: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = hook.Close() })

	assert.NotNil(t, cfg.Transformer.GetTransformOptions)
	assert.Equal(t, "/app", cfg.Extra["projectRoot"])
	assert.Equal(t, filepath.Join(cacheRoot, "nativewind"), hook.Cache().Dir)

	data, err := os.ReadFile(hook.Cache().ModulePath())
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestNew_NoPackage(t *testing.T) {
	t.Setenv("CACHE_DIR", "")
	root := t.TempDir()
	for dir := root; ; dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, "package.json")); err == nil {
			t.Skip("a package.json exists above the temp dir")
		}
		if filepath.Dir(dir) == dir {
			break
		}
	}

	_, err := nativewind.New(nativewind.Options{ProjectRoot: root})
	assert.ErrorIs(t, err, nativewind.ErrNoCacheDir)
}
