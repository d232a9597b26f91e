package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "sqlite", c.StoreDriver)
	assert.Equal(t, DefaultStorePath(), c.StorePath)
	assert.Equal(t, "127.0.0.1:8080", c.AIEndpointAddr)
	assert.Empty(t, c.AISecret)
	assert.Equal(t, 30*time.Second, c.AIRequestTimeout)
	assert.Equal(t, 30*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Empty(t, c.LogFile)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, 30*time.Second, cfg.AIRequestTimeout)
}

func TestDefaultStorePath(t *testing.T) {
	assert.NotEmpty(t, DefaultStorePath())
}
