package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/noteflow/internal/flagx"
	"github.com/dmitrijs2005/noteflow/internal/timex"
)

// JsonConfig is the DTO read from the -c/-config file. The timeout accepts
// strings such as "30s" or integer nanoseconds.
type JsonConfig struct {
	EndpointAddr    string         `json:"endpoint_addr"`
	SecretKey       string         `json:"secret_key"`
	GroqAPIKey      string         `json:"groq_api_key"`
	GroqBaseURL     string         `json:"groq_base_url"`
	GroqModel       string         `json:"groq_model"`
	UpstreamTimeout timex.Duration `json:"upstream_timeout"`
	RateLimitRPS    float64        `json:"rate_limit_rps"`
	RateLimitBurst  int            `json:"rate_limit_burst"`
	LogFormat       string         `json:"log_format"`
	LogLevel        string         `json:"log_level"`
}

// parseJson overlays config with the non-zero values of the JSON file named
// by -c or -config. It panics if the file cannot be read or parsed.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	merge(config, overlay{
		EndpointAddr:    c.EndpointAddr,
		SecretKey:       c.SecretKey,
		GroqAPIKey:      c.GroqAPIKey,
		GroqBaseURL:     c.GroqBaseURL,
		GroqModel:       c.GroqModel,
		UpstreamTimeout: time.Duration(c.UpstreamTimeout.Duration),
		RateLimitRPS:    c.RateLimitRPS,
		RateLimitBurst:  c.RateLimitBurst,
		LogFormat:       c.LogFormat,
		LogLevel:        c.LogLevel,
	})
}

// overlay is a partial Config; zero fields are not applied.
type overlay Config

func merge(dst *Config, src overlay) {
	str := func(d *string, v string) {
		if v != "" {
			*d = v
		}
	}
	str(&dst.EndpointAddr, src.EndpointAddr)
	str(&dst.SecretKey, src.SecretKey)
	str(&dst.GroqAPIKey, src.GroqAPIKey)
	str(&dst.GroqBaseURL, src.GroqBaseURL)
	str(&dst.GroqModel, src.GroqModel)
	if src.UpstreamTimeout > 0 {
		dst.UpstreamTimeout = src.UpstreamTimeout
	}
	if src.RateLimitRPS > 0 {
		dst.RateLimitRPS = src.RateLimitRPS
	}
	if src.RateLimitBurst > 0 {
		dst.RateLimitBurst = src.RateLimitBurst
	}
	str(&dst.LogFormat, src.LogFormat)
	str(&dst.LogLevel, src.LogLevel)
}
