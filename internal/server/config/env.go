package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "LINGOBOOK_"

// loadDotEnv is a seam so tests do not pick up a .env in the working dir.
var loadDotEnv = func() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// parseEnv loads .env into the process environment (existing variables win)
// and then overlays every LINGOBOOK_* variable that lookup finds.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if err := loadDotEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	str := func(key string, dst *string) {
		if v, ok := lookup(envPrefix + key); ok {
			*dst = v
		}
	}

	var errs []error
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(envPrefix + key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = d
		}
	}

	str("HTTP_ADDR", &cfg.HTTPAddr)
	str("GRPC_ADDR", &cfg.GRPCAddr)
	str("DATABASE_DSN", &cfg.DatabaseDSN)
	str("SECRET_KEY", &cfg.SecretKey)
	dur("SESSION_TTL", &cfg.SessionTTL)
	str("COOKIE_NAME", &cfg.CookieName)
	if v, ok := lookup(envPrefix + "COOKIE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sCOOKIE_SECURE: %w", envPrefix, err))
		} else {
			cfg.CookieSecure = b
		}
	}
	if v, ok := lookup(envPrefix + "ALLOWED_ORIGINS"); ok {
		cfg.AllowedOrigins = splitList(v)
	}
	dur("REVIEW_WINDOW", &cfg.ReviewWindow)

	str("LOG_BACKEND", &cfg.LogBackend)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)

	str("S3_ROOT_USER", &cfg.S3RootUser)
	str("S3_ROOT_PASSWORD", &cfg.S3RootPassword)
	str("S3_BUCKET", &cfg.S3Bucket)
	str("S3_REGION", &cfg.S3Region)
	str("S3_BASE_ENDPOINT", &cfg.S3BaseEndpoint)

	str("REDIS_ADDR", &cfg.RedisAddr)
	str("REDIS_PASSWORD", &cfg.RedisPassword)
	if v, ok := lookup(envPrefix + "REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sREDIS_DB: %w", envPrefix, err))
		} else {
			cfg.RedisDB = n
		}
	}
	dur("ICON_CACHE_TTL", &cfg.IconCacheTTL)
	dur("SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)

	return errors.Join(errs...)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
