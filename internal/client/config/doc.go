// Package config loads runtime configuration for the gophchat CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  3. Environment variables prefixed with GOPHCHAT_ (caarlos0/env).
//  4. Command-line flags, which override everything else.
//
// Durations in files use timex.Duration, so "1500ms" and 1500000000 are
// both accepted:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "messaging_endpoint_addr": "127.0.0.1:50052",
//	  "splash_min_duration": "1500ms",
//	  "splash_max_duration": "5s",
//	  "session_backend": "sqlite"
//	}
//
// The same keys work in YAML.
package config
