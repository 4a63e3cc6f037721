package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gophchat/internal/flagx"
)

var knownFlags = []string{
	"-a", "-t", "-u", "-m", "-d", "-s", "-r", "-l",
	"-splash-min", "-splash-max", "-timeout", "-i",
}

// parseFlags overlays cfg with command-line flags.
//
//	-a string      auth gRPC endpoint (host:port)
//	-t string      auth transport: grpc or http
//	-u string      auth HTTP base URL
//	-m string      messaging gRPC endpoint (host:port)
//	-d string      data directory
//	-s string      session backend: sqlite or redis
//	-r string      redis URL
//	-l int         log level (slog: -4 debug, 0 info, 4 warn, 8 error)
//	-splash-min    auto-login floor, e.g. 1500ms
//	-splash-max    auto-login ceiling, e.g. 5s
//	-timeout       per-request timeout
//	-i             online check interval
//
// Unknown arguments are filtered out with flagx.FilterArgs so -c/-config
// and anything meant for other components pass through.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("gophchat", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "auth gRPC endpoint")
	fs.StringVar(&cfg.AuthTransport, "t", cfg.AuthTransport, "auth transport (grpc|http)")
	fs.StringVar(&cfg.AuthHTTPBaseURL, "u", cfg.AuthHTTPBaseURL, "auth HTTP base URL")
	fs.StringVar(&cfg.MessagingEndpointAddr, "m", cfg.MessagingEndpointAddr, "messaging gRPC endpoint")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.SessionBackend, "s", cfg.SessionBackend, "session backend (sqlite|redis)")
	fs.StringVar(&cfg.RedisURL, "r", cfg.RedisURL, "redis URL")
	fs.IntVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.DurationVar(&cfg.SplashMinDuration, "splash-min", cfg.SplashMinDuration, "auto-login floor")
	fs.DurationVar(&cfg.SplashMaxDuration, "splash-max", cfg.SplashMaxDuration, "auto-login ceiling")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "request timeout")
	fs.DurationVar(&cfg.OnlineCheckInterval, "i", cfg.OnlineCheckInterval, "online check interval")

	return fs.Parse(args)
}
