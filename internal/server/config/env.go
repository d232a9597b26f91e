package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// EnvConfig lists the environment variables the server reads.
type EnvConfig struct {
	EndpointAddr    string        `env:"NOTEFLOW_ENDPOINT_ADDR"`
	SecretKey       string        `env:"NOTEFLOW_SECRET_KEY"`
	GroqAPIKey      string        `env:"GROQ_API_KEY"`
	GroqBaseURL     string        `env:"GROQ_BASE_URL"`
	GroqModel       string        `env:"GROQ_MODEL"`
	UpstreamTimeout time.Duration `env:"NOTEFLOW_UPSTREAM_TIMEOUT"`
	RateLimitRPS    float64       `env:"NOTEFLOW_RATE_LIMIT_RPS"`
	RateLimitBurst  int           `env:"NOTEFLOW_RATE_LIMIT_BURST"`
	LogFormat       string        `env:"NOTEFLOW_LOG_FORMAT"`
	LogLevel        string        `env:"NOTEFLOW_LOG_LEVEL"`
}

// envFile is loaded into the process environment when present. Variables
// that are already set win over the file.
var envFile = ".env"

// parseEnv overlays config with set environment variables. A malformed
// value panics, like a malformed JSON file.
func parseEnv(config *Config) {
	_ = godotenv.Load(envFile)

	var e EnvConfig
	if err := cleanenv.ReadEnv(&e); err != nil {
		panic(err)
	}

	merge(config, overlay(e))
}
