package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matt-steen/todo-tracker/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	cfg, err := config.NewConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Nil(err)
	assert.Equal(config.DefaultAddr, cfg.Addr)
	assert.Equal(config.DefaultDBPath, cfg.DBPath)
	assert.Equal(config.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(config.DefaultLogFile, cfg.LogFile)
}

func TestNewConfigFile(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "todo.yml")

	writeFile(t, path, "addr: \"127.0.0.1:9000\"\ndb_path: /var/lib/todo.sqlite\nlog_level: debug\n")

	cfg, err := config.NewConfig(path)
	assert.Nil(err)
	assert.Equal("127.0.0.1:9000", cfg.Addr)
	assert.Equal("/var/lib/todo.sqlite", cfg.DBPath)
	assert.Equal("debug", cfg.LogLevel)
	assert.Equal(config.DefaultLogFile, cfg.LogFile)
}

func TestNewConfigLocalOverlay(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "todo.yml")

	writeFile(t, path, "addr: \":8000\"\ndb_path: todo.sqlite\n")
	writeFile(t, filepath.Join(dir, "todo.local.yml"), "db_path: local.sqlite\n")

	cfg, err := config.NewConfig(path)
	assert.Nil(err)
	assert.Equal(":8000", cfg.Addr)
	assert.Equal("local.sqlite", cfg.DBPath)
}
