package api

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Host               string        `yaml:"host"`                  // Host to bind to (default "localhost")
	Port               int           `yaml:"port"`                  // Port to listen on (default 8080)
	ReadTimeout        time.Duration `yaml:"read_timeout"`          // Read timeout (default 30s)
	WriteTimeout       time.Duration `yaml:"write_timeout"`         // Write timeout (default 30s, 0 for long SSE streams)
	IdleTimeout        time.Duration `yaml:"idle_timeout"`          // Idle timeout (default 60s)
	MaxMoveWorkers     int           `yaml:"max_move_workers"`      // Max concurrent move generations (default 100)
	MaxSelfPlayWorkers int           `yaml:"max_self_play_workers"` // Max concurrent self-play streams (default 4)
	CacheSize          int           `yaml:"cache_size"`            // Move cache entries (0 = default, negative = disabled)
	MaxNodes           int           `yaml:"max_nodes"`             // Search node budget per request (0 = unlimited)
	MaxTurns           int           `yaml:"max_turns"`             // Turn limit for streamed self-play (0 = game default)
	ExternalPort       int           `yaml:"external_port"`         // FIBS line protocol port (0 = disabled)
	LogLevel           string        `yaml:"log_level"`             // zerolog level name (default "info")
}

// DefaultConfig returns a ServerConfig with sensible defaults.
func DefaultConfig() ServerConfig {
	return ServerConfig{
		Host:               "localhost",
		Port:               8080,
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       30 * time.Second,
		IdleTimeout:        60 * time.Second,
		MaxMoveWorkers:     100,
		MaxSelfPlayWorkers: 4,
		MaxNodes:           1_000_000,
		MaxTurns:           500,
		LogLevel:           "info",
	}
}

// LoadConfig reads a YAML config file over DefaultConfig. Keys missing from
// the file keep their defaults.
func LoadConfig(path string) (ServerConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports settings that cannot be served.
func (c ServerConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.ExternalPort < 0 || c.ExternalPort > 65535 {
		return fmt.Errorf("external_port %d out of range", c.ExternalPort)
	}
	if c.MaxNodes < 0 {
		return fmt.Errorf("max_nodes must not be negative")
	}
	return nil
}
