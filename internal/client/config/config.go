package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the NoteFlow CLI.
//
// Fields:
//   - StoreDriver: key/value backend holding the notes (sqlite, pebble or file).
//   - StorePath: directory the backend keeps its data in.
//   - AIEndpointAddr: host:port (or URL) of the AI helper server.
//   - AISecret: shared HS256 secret for bearer tokens; empty disables auth.
//   - AIRequestTimeout: per-request timeout for AI calls.
//   - OnlineCheckInterval: how often the CLI probes the AI server; zero disables it.
//   - LogLevel / LogFile: diagnostics; with no file, logs go to stderr.
type Config struct {
	StoreDriver         string
	StorePath           string
	AIEndpointAddr      string
	AISecret            string
	AIRequestTimeout    time.Duration
	OnlineCheckInterval time.Duration
	LogLevel            string
	LogFile             string
}

// DefaultStorePath is the per-user data directory, or ".noteflow" when the
// user config dir cannot be determined.
func DefaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".noteflow"
	}
	return filepath.Join(dir, "noteflow")
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StoreDriver = "sqlite"
	c.StorePath = DefaultStorePath()
	c.AIEndpointAddr = "127.0.0.1:8080"
	c.AISecret = ""
	c.AIRequestTimeout = 30 * time.Second
	c.OnlineCheckInterval = 30 * time.Second
	c.LogLevel = "warn"
	c.LogFile = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
