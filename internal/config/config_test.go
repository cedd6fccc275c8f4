package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// will use defaults if no config file exists
	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.NotEmpty(t, cfg.Logging.Level)
	assert.NotEmpty(t, cfg.Paths.DataDir)
	assert.NotEmpty(t, cfg.Homebrew.Binary)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[homebrew]
owner = "admin"
binary = "/opt/homebrew/bin/brew"
timeout = 900

[logging]
level = "debug"
color = "never"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "admin", cfg.Homebrew.Owner)
	assert.Equal(t, "/opt/homebrew/bin/brew", cfg.Homebrew.Binary)
	assert.Equal(t, 900, cfg.Homebrew.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "never", cfg.Logging.Color)
	assert.NotEmpty(t, cfg.Paths.DBFile, "defaults still apply")
}

func TestLoadFile_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[homebrew]\nowner = \"admin\"\n"), 0644))
	t.Setenv("BREWPKG_HOMEBREW_OWNER", "builder")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "builder", cfg.Homebrew.Owner)
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[logging]\ncolor = \"rainbow\"\n"), 0644))

	_, err := LoadFile(path)
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Homebrew: HomebrewConfig{Timeout: -1}}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Logging: LoggingConfig{Color: "auto"}}
	assert.NoError(t, cfg.Validate())
}

func TestExpandPath(t *testing.T) {
	homeDir, _ := os.UserHomeDir()
	t.Setenv("BREWPKG_TEST_DIR", "/srv/brew")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty path", input: "", want: ""},
		{name: "absolute path", input: "/usr/local/bin", want: "/usr/local/bin"},
		{name: "home expansion", input: "~/test", want: filepath.Join(homeDir, "test")},
		{name: "env expansion", input: "$BREWPKG_TEST_DIR/runs.db", want: "/srv/brew/runs.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandPath(tt.input))
		})
	}
}
