package xdg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_CACHE_HOME", "/cache")
	t.Setenv("XDG_CONFIG_DIRS", "/a"+string(filepath.ListSeparator)+"/b")

	d := New()
	assert.Equal(t, "/cfg", d.ConfigHome())
	assert.Equal(t, filepath.Join("/cache", "answers"), d.AppCacheDir("answers"))
	assert.Equal(t, filepath.Join("/cfg", "answers"), d.AppConfigDir("answers"))
	assert.Equal(t, []string{"/cfg", "/a", "/b"}, d.ConfigDirs())
}

func TestDefaultsUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("XDG_CONFIG_DIRS", "")

	d := New()
	assert.Equal(t, filepath.Join(home, ".config"), d.ConfigHome())
	assert.Equal(t, filepath.Join(home, ".cache"), d.CacheHome())
	assert.Equal(t, []string{filepath.Join(home, ".config"), "/etc/xdg"}, d.ConfigDirs())
}

func TestFindConfig(t *testing.T) {
	home, system := t.TempDir(), t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("XDG_CONFIG_DIRS", system)

	d := New()
	assert.Equal(t, "", d.FindConfig("answers", "config.toml"))

	require.NoError(t, os.MkdirAll(filepath.Join(system, "answers"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(system, "answers", "config.toml"), nil, 0644))
	assert.Equal(t, filepath.Join(system, "answers", "config.toml"), d.FindConfig("answers", "config.toml"))

	require.NoError(t, os.MkdirAll(filepath.Join(home, "answers"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "answers", "config.toml"), nil, 0644))
	assert.Equal(t, filepath.Join(home, "answers", "config.toml"), d.FindConfig("answers", "config.toml"))
}
