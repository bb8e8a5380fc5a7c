package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	if os.Getenv("HOME") == "" {
		t.Setenv("HOME", "/tmp")
	}

	assert.Equal(t, AppName, filepath.Base(CacheDir()))
}

func TestDefaultConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	assert.Empty(t, DefaultConfigFile())

	dir := filepath.Join(home, AppName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(""), 0o644))
	assert.Equal(t, filepath.Join(dir, "config.toml"), DefaultConfigFile())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(""), 0o644))
	assert.Equal(t, filepath.Join(dir, "config.yaml"), DefaultConfigFile())
}

func TestValidateOutputPath(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "out.yaml")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o644))

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "new file", path: filepath.Join(dir, "new.yaml")},
		{name: "existing file", path: existing},
		{name: "directory", path: dir, wantErr: true},
		{name: "empty", path: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sp500.yaml")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be cleaned up")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteFileAtomicReplacesLargerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sp500.json")
	require.NoError(t, WriteFileAtomic(path, []byte(strings.Repeat("x", 1<<20)), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("{}"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "missing", "out.yaml"), []byte("x"), 0o644)
	assert.Error(t, err)
}
