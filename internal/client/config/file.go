package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophchat/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk form. Pointers distinguish "absent" from zero
// so a file only overrides what it mentions.
type fileConfig struct {
	ServerEndpointAddr    *string         `json:"server_endpoint_addr" yaml:"server_endpoint_addr"`
	AuthTransport         *string         `json:"auth_transport" yaml:"auth_transport"`
	AuthHTTPBaseURL       *string         `json:"auth_http_url" yaml:"auth_http_url"`
	MessagingEndpointAddr *string         `json:"messaging_endpoint_addr" yaml:"messaging_endpoint_addr"`
	SplashMinDuration     *timex.Duration `json:"splash_min_duration" yaml:"splash_min_duration"`
	SplashMaxDuration     *timex.Duration `json:"splash_max_duration" yaml:"splash_max_duration"`
	RequestTimeout        *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	OnlineCheckInterval   *timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	DataDir               *string         `json:"data_dir" yaml:"data_dir"`
	DatabaseFile          *string         `json:"database_file" yaml:"database_file"`
	SessionBackend        *string         `json:"session_backend" yaml:"session_backend"`
	RedisURL              *string         `json:"redis_url" yaml:"redis_url"`
	VaultSecret           *string         `json:"vault_secret" yaml:"vault_secret"`
	LogLevel              *int            `json:"log_level" yaml:"log_level"`
}

// parseFile overlays cfg with a JSON or YAML file, chosen by extension.
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *fileConfig) apply(cfg *Config) {
	setString(&cfg.ServerEndpointAddr, fc.ServerEndpointAddr)
	setString(&cfg.AuthTransport, fc.AuthTransport)
	setString(&cfg.AuthHTTPBaseURL, fc.AuthHTTPBaseURL)
	setString(&cfg.MessagingEndpointAddr, fc.MessagingEndpointAddr)
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.DatabaseFile, fc.DatabaseFile)
	setString(&cfg.SessionBackend, fc.SessionBackend)
	setString(&cfg.RedisURL, fc.RedisURL)
	setString(&cfg.VaultSecret, fc.VaultSecret)

	if fc.SplashMinDuration != nil {
		cfg.SplashMinDuration = fc.SplashMinDuration.Duration
	}
	if fc.SplashMaxDuration != nil {
		cfg.SplashMaxDuration = fc.SplashMaxDuration.Duration
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
