package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/noteflow/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-k string   JWT HMAC secret key
//	-m string   model name
//	-t int      upstream timeout, seconds
//	-r float    upstream requests per second
//	-b int      upstream burst
//	-f string   log format (json|text)
//
// Only recognised flags are parsed (see flagx.FilterArgs). The upstream API
// key has no flag so it never shows up in process listings.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-k", "-m", "-t", "-r", "-b", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.SecretKey, "k", config.SecretKey, "secret key")
	fs.StringVar(&config.GroqModel, "m", config.GroqModel, "model name")
	upstreamTimeout := fs.Int("t", int(config.UpstreamTimeout.Seconds()), "upstream timeout (in seconds)")
	fs.Float64Var(&config.RateLimitRPS, "r", config.RateLimitRPS, "upstream requests per second")
	fs.IntVar(&config.RateLimitBurst, "b", config.RateLimitBurst, "upstream burst")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format (json|text)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.UpstreamTimeout = time.Duration(*upstreamTimeout) * time.Second
}
