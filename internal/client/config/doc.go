// Package config loads runtime configuration for the NoteFlow CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   store driver: sqlite, pebble or file
//	-s string   store directory
//	-a string   address:port of the AI server
//	-k string   shared secret for AI server tokens
//	-t int      AI request timeout (seconds)
//	-i int      AI server check interval (seconds, 0 disables)
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "store_driver": "file",
//	  "store_path": "/home/me/.config/noteflow",
//	  "ai_endpoint_addr": "127.0.0.1:8080",
//	  "ai_secret": "change-me",
//	  "ai_request_timeout": "30s",
//	  "online_check_interval": "30s",
//	  "log_level": "info",
//	  "log_file": "/tmp/noteflow.log"
//	}
package config
