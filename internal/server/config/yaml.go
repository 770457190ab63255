package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/lingobook/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for YAML decoding. Pointer fields tell an absent
// key apart from a zero value, so only keys present in the file override.
type fileConfig struct {
	HTTPAddr       *string         `yaml:"http_addr"`
	GRPCAddr       *string         `yaml:"grpc_addr"`
	DatabaseDSN    *string         `yaml:"database_dsn"`
	SecretKey      *string         `yaml:"secret_key"`
	SessionTTL     *timex.Duration `yaml:"session_ttl"`
	CookieName     *string         `yaml:"cookie_name"`
	CookieSecure   *bool           `yaml:"cookie_secure"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	ReviewWindow   *timex.Duration `yaml:"review_window"`

	Log struct {
		Backend *string `yaml:"backend"`
		Level   *string `yaml:"level"`
		Format  *string `yaml:"format"`
	} `yaml:"log"`

	S3 struct {
		RootUser     *string `yaml:"root_user"`
		RootPassword *string `yaml:"root_password"`
		Bucket       *string `yaml:"bucket"`
		Region       *string `yaml:"region"`
		BaseEndpoint *string `yaml:"base_endpoint"`
	} `yaml:"s3"`

	Redis struct {
		Addr     *string         `yaml:"addr"`
		Password *string         `yaml:"password"`
		DB       *int            `yaml:"db"`
		IconTTL  *timex.Duration `yaml:"icon_ttl"`
	} `yaml:"redis"`

	ShutdownTimeout *timex.Duration `yaml:"shutdown_timeout"`
}

func parseYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := &fileConfig{}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.HTTPAddr, fc.HTTPAddr)
	setString(&cfg.GRPCAddr, fc.GRPCAddr)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setString(&cfg.SecretKey, fc.SecretKey)
	setDuration(&cfg.SessionTTL, fc.SessionTTL)
	setString(&cfg.CookieName, fc.CookieName)
	if fc.CookieSecure != nil {
		cfg.CookieSecure = *fc.CookieSecure
	}
	if fc.AllowedOrigins != nil {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
	setDuration(&cfg.ReviewWindow, fc.ReviewWindow)

	setString(&cfg.LogBackend, fc.Log.Backend)
	setString(&cfg.LogLevel, fc.Log.Level)
	setString(&cfg.LogFormat, fc.Log.Format)

	setString(&cfg.S3RootUser, fc.S3.RootUser)
	setString(&cfg.S3RootPassword, fc.S3.RootPassword)
	setString(&cfg.S3Bucket, fc.S3.Bucket)
	setString(&cfg.S3Region, fc.S3.Region)
	setString(&cfg.S3BaseEndpoint, fc.S3.BaseEndpoint)

	setString(&cfg.RedisAddr, fc.Redis.Addr)
	setString(&cfg.RedisPassword, fc.Redis.Password)
	if fc.Redis.DB != nil {
		cfg.RedisDB = *fc.Redis.DB
	}
	setDuration(&cfg.IconCacheTTL, fc.Redis.IconTTL)
	setDuration(&cfg.ShutdownTimeout, fc.ShutdownTimeout)

	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *timex.Duration) {
	if src != nil {
		*dst = src.Duration
	}
}
