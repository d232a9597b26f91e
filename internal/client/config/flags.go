package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/noteflow/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   store driver: sqlite, pebble or file
//	-s string   store directory
//	-a string   address of the AI server
//	-k string   shared secret for AI server tokens
//	-t int      AI request timeout in seconds
//	-i int      AI server check interval in seconds (0 disables)
//	-l string   log level
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-a", "-k", "-t", "-i", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StoreDriver, "d", cfg.StoreDriver, "store driver (sqlite|pebble|file)")
	fs.StringVar(&cfg.StorePath, "s", cfg.StorePath, "store directory")
	fs.StringVar(&cfg.AIEndpointAddr, "a", cfg.AIEndpointAddr, "address and port of the AI server")
	fs.StringVar(&cfg.AISecret, "k", cfg.AISecret, "shared secret for AI server tokens")
	timeout := fs.Int("t", int(cfg.AIRequestTimeout.Seconds()), "AI request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "AI server check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.AIRequestTimeout = time.Duration(*timeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
