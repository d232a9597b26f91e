package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/noteflow/internal/flagx"
	"github.com/dmitrijs2005/noteflow/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify the timeout either as a
// string like "30s" or as integer nanoseconds.
type JsonConfig struct {
	StoreDriver         string         `json:"store_driver"`
	StorePath           string         `json:"store_path"`
	AIEndpointAddr      string         `json:"ai_endpoint_addr"`
	AISecret            string         `json:"ai_secret"`
	AIRequestTimeout    timex.Duration `json:"ai_request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	LogLevel            string         `json:"log_level"`
	LogFile             string         `json:"log_file"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Fields absent from the file keep their current value.
// Panics on read or unmarshal errors.
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

	setString(&config.StoreDriver, c.StoreDriver)
	setString(&config.StorePath, c.StorePath)
	setString(&config.AIEndpointAddr, c.AIEndpointAddr)
	setString(&config.AISecret, c.AISecret)
	if c.AIRequestTimeout.Duration > 0 {
		config.AIRequestTimeout = time.Duration(c.AIRequestTimeout.Duration)
	}
	if c.OnlineCheckInterval.Duration > 0 {
		config.OnlineCheckInterval = time.Duration(c.OnlineCheckInterval.Duration)
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFile, c.LogFile)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
