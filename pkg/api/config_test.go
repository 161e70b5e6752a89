package api

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
host: 0.0.0.0
port: 9090
read_timeout: 5s
max_move_workers: 16
cache_size: -1
external_port: 4321
log_level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Host)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 5*time.Second, cfg.ReadTimeout)
	require.Equal(t, 16, cfg.MaxMoveWorkers)
	require.Equal(t, -1, cfg.CacheSize)
	require.Equal(t, 4321, cfg.ExternalPort)
	require.Equal(t, "debug", cfg.LogLevel)

	def := DefaultConfig()
	require.Equal(t, def.WriteTimeout, cfg.WriteTimeout)
	require.Equal(t, def.MaxSelfPlayWorkers, cfg.MaxSelfPlayWorkers)
	require.Equal(t, def.MaxNodes, cfg.MaxNodes)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "port: [1, 2]\n"))
	require.ErrorContains(t, err, "parse config")

	_, err = LoadConfig(writeConfig(t, "port: 70000\n"))
	require.ErrorContains(t, err, "out of range")

	_, err = LoadConfig(writeConfig(t, "max_nodes: -3\n"))
	require.ErrorContains(t, err, "max_nodes")
}

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}
