// Package config handles configuration for the AI helper server, including
// defaults, a JSON overlay, environment variables and command-line flags.
package config

import "time"

// Config holds runtime settings for the NoteFlow AI server.
//
// Fields:
//   - EndpointAddr: bind address of the HTTP API.
//   - SecretKey: HMAC secret for verifying client JWTs (HS256). Empty disables auth.
//   - GroqAPIKey: credential for the hosted model. Empty switches every
//     endpoint to its local fallback.
//   - GroqBaseURL / GroqModel: OpenAI-compatible endpoint and model name.
//   - UpstreamTimeout: timeout of a single call to the hosted model.
//   - RateLimitRPS / RateLimitBurst: limiter shared by all upstream calls.
//   - LogFormat / LogLevel: slog handler selection.
type Config struct {
	EndpointAddr    string
	SecretKey       string
	GroqAPIKey      string
	GroqBaseURL     string
	GroqModel       string
	UpstreamTimeout time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	LogFormat       string
	LogLevel        string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.SecretKey = ""
	c.GroqAPIKey = ""
	c.GroqBaseURL = "https://api.groq.com/openai/v1"
	c.GroqModel = "llama-3.1-8b-instant"
	c.UpstreamTimeout = 30 * time.Second
	c.RateLimitRPS = 2
	c.RateLimitBurst = 4
	c.LogFormat = "json"
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment (and .env) and finally from
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
