// Package paths resolves the default locations of brewpkg's own files.
package paths

import (
	"os"
	"path/filepath"
)

// AppName names the brewpkg subdirectories
const AppName = "brewpkg"

// Resolver computes base directories from HOME and the XDG variables
type Resolver struct {
	homeDir string
	getenv  func(string) string
}

// NewResolver creates a Resolver for the current user
func NewResolver() *Resolver {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		homeDir = os.Getenv("HOME")
	}
	if homeDir == "" {
		homeDir = "."
	}
	return NewResolverWithEnv(homeDir, os.Getenv)
}

// NewResolverWithEnv creates a Resolver with an explicit home and environment
func NewResolverWithEnv(homeDir string, getenv func(string) string) *Resolver {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &Resolver{homeDir: homeDir, getenv: getenv}
}

// ConfigDir returns $XDG_CONFIG_HOME/brewpkg, or ~/.config/brewpkg
func (r *Resolver) ConfigDir() string {
	return filepath.Join(r.xdg("XDG_CONFIG_HOME", ".config"), AppName)
}

// DataDir returns $XDG_DATA_HOME/brewpkg, or ~/.local/share/brewpkg
func (r *Resolver) DataDir() string {
	return filepath.Join(r.xdg("XDG_DATA_HOME", filepath.Join(".local", "share")), AppName)
}

// DBFile returns the default run journal path
func (r *Resolver) DBFile() string {
	return filepath.Join(r.DataDir(), "runs.db")
}

// LogFile returns the default log file path
func (r *Resolver) LogFile() string {
	return filepath.Join(r.DataDir(), AppName+".log")
}

// xdg returns the XDG variable when it is an absolute path, else ~/fallback
func (r *Resolver) xdg(name, fallback string) string {
	if v := r.getenv(name); v != "" && filepath.IsAbs(v) {
		return v
	}
	return filepath.Join(r.homeDir, fallback)
}
