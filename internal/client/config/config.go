package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/gophchat/internal/flagx"
)

const (
	TransportGRPC = "grpc"
	TransportHTTP = "http"

	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "GOPHCHAT_"

// Config holds runtime settings for the gophchat CLI.
type Config struct {
	ServerEndpointAddr    string `env:"SERVER_ADDR"`
	AuthTransport         string `env:"AUTH_TRANSPORT"`
	AuthHTTPBaseURL       string `env:"AUTH_HTTP_URL"`
	MessagingEndpointAddr string `env:"MESSAGING_ADDR"`

	// SplashMinDuration and SplashMaxDuration are the auto-login floor and
	// ceiling.
	SplashMinDuration time.Duration `env:"SPLASH_MIN"`
	SplashMaxDuration time.Duration `env:"SPLASH_MAX"`

	RequestTimeout      time.Duration `env:"REQUEST_TIMEOUT"`
	OnlineCheckInterval time.Duration `env:"ONLINE_CHECK_INTERVAL"`

	DataDir        string `env:"DATA_DIR"`
	DatabaseFile   string `env:"DATABASE_FILE"`
	SessionBackend string `env:"SESSION_BACKEND"`
	RedisURL       string `env:"REDIS_URL"`
	// VaultSecret, when set, seals the stored session at rest.
	VaultSecret string `env:"VAULT_SECRET"`

	LogLevel int `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.AuthTransport = TransportGRPC
	c.AuthHTTPBaseURL = "http://127.0.0.1:8080/api"
	c.MessagingEndpointAddr = "127.0.0.1:50052"
	c.SplashMinDuration = 1500 * time.Millisecond
	c.SplashMaxDuration = 5000 * time.Millisecond
	c.RequestTimeout = 12 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.DataDir = ".gophchat"
	c.DatabaseFile = "client.db"
	c.SessionBackend = BackendSQLite
	c.RedisURL = "redis://127.0.0.1:6379/0"
	c.LogLevel = 0
}

// DatabasePath is DatabaseFile resolved against DataDir.
func (c *Config) DatabasePath() string {
	if filepath.IsAbs(c.DatabaseFile) {
		return c.DatabaseFile
	}
	return filepath.Join(c.DataDir, c.DatabaseFile)
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.AuthTransport != TransportGRPC && c.AuthTransport != TransportHTTP {
		errs = append(errs, fmt.Errorf("unknown auth transport %q", c.AuthTransport))
	}
	if c.SessionBackend != BackendSQLite && c.SessionBackend != BackendRedis {
		errs = append(errs, fmt.Errorf("unknown session backend %q", c.SessionBackend))
	}
	if c.SplashMinDuration < 0 || c.SplashMaxDuration <= 0 {
		errs = append(errs, errors.New("splash durations must be positive"))
	}
	if c.SplashMinDuration > c.SplashMaxDuration {
		errs = append(errs, fmt.Errorf("splash min %s exceeds max %s", c.SplashMinDuration, c.SplashMaxDuration))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	return errors.Join(errs...)
}

// Load builds a Config from defaults, then the config file named by -c or
// -config, then GOPHCHAT_* variables from environ, then flags. Later
// sources take precedence.
func Load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigFileFlag(args); path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := parseEnv(cfg, environ); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], env.ToMap(os.Environ()))
}

func parseEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("failed to parse env: %w", err)
	}
	return nil
}
