// Package startup implements the Startup Orchestrator: environment
// validation, module discovery and initialization, transport
// attachment, and graceful shutdown.
package startup

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/revittco/mcptoolkit/internal/dbtools"
)

// Config holds the runtime options consumed from the environment. None
// of it is owned by the kernel; it is an external collaborator per the
// environment contract.
type Config struct {
	LogLevel slog.Level

	DBPoolSize            int
	DBPoolMinIdle         int
	DBConnectionTimeoutMs int
	DBIdleTimeoutMs       int
	DBMaxLifetimeMs       int
	DBLeakDetectionMs     int

	WebConnectTimeoutMs int
	WebReadTimeoutMs    int
	WebMaxPageSizeBytes int
	WebUserAgent        string

	// PresetConnections are database connections the orchestrator opens
	// automatically at startup, read from the file at MCPTOOLKIT_CONFIG
	// (mcptoolkit.yaml). Absent or unreadable, presets are simply empty.
	PresetConnections []PresetConnection
}

// PresetConnection names one entry of a mcptoolkit.yaml's
// preset_connections list.
type PresetConnection struct {
	ID     string               `yaml:"id"`
	Config dbtools.DatabaseConfig `yaml:"-"`
}

// fileConfig is the top-level shape of mcptoolkit.yaml.
type fileConfig struct {
	PresetConnections []struct {
		ID       string `yaml:"id"`
		Type     string `yaml:"type"`
		File     string `yaml:"file,omitempty"`
		Host     string `yaml:"host,omitempty"`
		Port     int    `yaml:"port,omitempty"`
		Database string `yaml:"database,omitempty"`
		Username string `yaml:"username,omitempty"`
		Password string `yaml:"password,omitempty"`
	} `yaml:"preset_connections"`
}

// LoadConfig reads MCPTOOLKIT_* environment variables, falling back to
// the numeric defaults given throughout the component design, then
// overlays any preset database connections named in MCPTOOLKIT_CONFIG.
func LoadConfig() Config {
	cfg := Config{
		LogLevel: parseLogLevel(envOr("MCPTOOLKIT_LOG_LEVEL", "info")),

		DBPoolSize:            envInt("MCPTOOLKIT_DB_POOL_SIZE", 10),
		DBPoolMinIdle:         envInt("MCPTOOLKIT_DB_POOL_MIN_IDLE", 2),
		DBConnectionTimeoutMs: envInt("MCPTOOLKIT_DB_CONNECT_TIMEOUT_MS", 30000),
		DBIdleTimeoutMs:       envInt("MCPTOOLKIT_DB_IDLE_TIMEOUT_MS", 600000),
		DBMaxLifetimeMs:       envInt("MCPTOOLKIT_DB_MAX_LIFETIME_MS", 1800000),
		DBLeakDetectionMs:     envInt("MCPTOOLKIT_DB_LEAK_DETECTION_MS", 60000),

		WebConnectTimeoutMs: envInt("MCPTOOLKIT_WEB_CONNECT_TIMEOUT_MS", 10000),
		WebReadTimeoutMs:    envInt("MCPTOOLKIT_WEB_READ_TIMEOUT_MS", 10000),
		WebMaxPageSizeBytes: envInt("MCPTOOLKIT_WEB_MAX_PAGE_SIZE_BYTES", 50000),
		WebUserAgent:        envOr("MCPTOOLKIT_WEB_USER_AGENT", ""),
	}

	if path := os.Getenv("MCPTOOLKIT_CONFIG"); path != "" {
		presets, err := loadPresetConnections(path)
		if err != nil {
			slog.Warn("ignoring unreadable config file", "path", path, "error", err)
		} else {
			cfg.PresetConnections = presets
		}
	}

	return cfg
}

// loadPresetConnections reads and parses a mcptoolkit.yaml file into the
// connect_database configs the orchestrator opens at startup.
func loadPresetConnections(path string) ([]PresetConnection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	presets := make([]PresetConnection, 0, len(fc.PresetConnections))
	for _, p := range fc.PresetConnections {
		presets = append(presets, PresetConnection{
			ID: p.ID,
			Config: dbtools.DatabaseConfig{
				Type:     p.Type,
				File:     p.File,
				Host:     p.Host,
				Port:     p.Port,
				Database: p.Database,
				Username: p.Username,
				Password: p.Password,
			},
		})
	}
	return presets, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
