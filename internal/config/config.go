// Package config holds the bootstrap configuration needed before the
// database is open: where the database lives, what address to bind, and
// how to configure logging. Everything that can change at runtime (upstream
// servers, log retention, …) lives in the settings table instead, see
// internal/store.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config is the process-level bootstrap configuration.
type Config struct {
	DBPath     string
	Host       string
	Port       int
	LogLevel   string
	JSONLogs   bool
	WorkerPool int // workers per UDP socket, <=0 means package default
}

const (
	// DefaultDBPath is where the database lives if nothing else is specified.
	DefaultDBPath = "localdnspro.db"
	// DefaultHost is the bind address for the UDP listener.
	DefaultHost = "0.0.0.0"
	// DefaultPort is the bind port for the UDP listener.
	DefaultPort = 53
)

// Default returns the configuration baseline before flags or environment
// variables are applied.
func Default() Config {
	return Config{
		DBPath:   DefaultDBPath,
		Host:     DefaultHost,
		Port:     DefaultPort,
		LogLevel: "INFO",
	}
}

// ApplyEnv overlays LOCALDNSPRO_* environment variables onto cfg.
func ApplyEnv(cfg Config) Config {
	if v := os.Getenv("LOCALDNSPRO_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("LOCALDNSPRO_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("LOCALDNSPRO_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("LOCALDNSPRO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToUpper(v)
	}
	if v := os.Getenv("LOCALDNSPRO_JSON_LOGS"); v != "" {
		cfg.JSONLogs = v == "1" || strings.EqualFold(v, "true")
	}
	return cfg
}
