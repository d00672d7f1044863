// Package xdg resolves XDG base directories for the application.
package xdg

import (
	"os"
	"path/filepath"
)

// Dirs holds the XDG base directories that the tool reads from.
type Dirs struct {
	configHome string
	cacheHome  string
	configDirs []string
}

// New reads the XDG environment, falling back to the standard defaults under the
// user's home directory.
func New() *Dirs {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
		if homeDir == "" {
			homeDir = os.TempDir()
		}
	}

	d := &Dirs{}

	d.configHome = os.Getenv("XDG_CONFIG_HOME")
	if d.configHome == "" {
		d.configHome = filepath.Join(homeDir, ".config")
	}

	d.cacheHome = os.Getenv("XDG_CACHE_HOME")
	if d.cacheHome == "" {
		d.cacheHome = filepath.Join(homeDir, ".cache")
	}

	if env := os.Getenv("XDG_CONFIG_DIRS"); env != "" {
		d.configDirs = filepath.SplitList(env)
	} else {
		d.configDirs = []string{"/etc/xdg"}
	}
	return d
}

func (d *Dirs) ConfigHome() string { return d.configHome }

func (d *Dirs) CacheHome() string { return d.cacheHome }

// ConfigDirs returns the preference-ordered config base directories.
func (d *Dirs) ConfigDirs() []string {
	return append([]string{d.configHome}, d.configDirs...)
}

func (d *Dirs) AppConfigDir(app string) string {
	return filepath.Join(d.configHome, app)
}

func (d *Dirs) AppCacheDir(app string) string {
	return filepath.Join(d.cacheHome, app)
}

// FindConfig returns the first existing <dir>/<app>/<name> in ConfigDirs
// order, or "" when there is none.
func (d *Dirs) FindConfig(app, name string) string {
	for _, dir := range d.ConfigDirs() {
		p := filepath.Join(dir, app, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}
