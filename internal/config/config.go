// Package config loads application configuration from environment
// variables.  A .env file is honored when present (godotenv); real
// environment variables always win.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding variable is absent or invalid.
const (
	DefaultAccessExpiry     = 15 * time.Minute
	DefaultRefreshExpiry    = 7 * 24 * time.Hour
	DefaultBcryptCost       = 12
	DefaultLockoutThreshold = 5
	DefaultLockoutDuration  = 5 * time.Minute
)

// Config holds all runtime configuration values.
type Config struct {
	Env  string // "dev", "test" or "prod"
	Port string // HTTP port to listen on

	DBUser string
	DBPass string // optional
	DBHost string
	DBPort string
	DBName string

	AccessSecret  string        // signs access tokens
	RefreshSecret string        // signs refresh tokens; must differ from AccessSecret
	AccessExpiry  time.Duration // access token validity window
	RefreshExpiry time.Duration // refresh token validity window

	BcryptCost       int
	LockoutThreshold int           // failed attempts before the account locks
	LockoutDuration  time.Duration // how long a lock lasts

	MongoURI string // audit sink; empty disables the consumer
	MongoDB  string
	AMQPURL  string // audit broker; empty falls back to the local default
}

// Load reads configuration from the environment.  Required variables are
// enforced by must() and abort startup when missing; tunables fall back to
// their defaults with a logged warning when the configured value does not
// parse.
func Load() Config {
	_ = godotenv.Load() // missing .env is fine

	cfg := Config{
		Env:    must("APP_ENV"),
		Port:   must("APP_PORT"),
		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		AccessSecret:  must("JWT_ACCESS_SECRET"),
		RefreshSecret: must("JWT_REFRESH_SECRET"),
		AccessExpiry:  expiry("JWT_ACCESS_EXPIRE", DefaultAccessExpiry),
		RefreshExpiry: expiry("JWT_REFRESH_EXPIRE", DefaultRefreshExpiry),

		BcryptCost:       optInt("BCRYPT_ROUNDS", DefaultBcryptCost),
		LockoutThreshold: optInt("LOCKOUT_THRESHOLD", DefaultLockoutThreshold),
		LockoutDuration:  expiry("LOCKOUT_DURATION", DefaultLockoutDuration),

		MongoURI: os.Getenv("MONGO_URI"),
		MongoDB:  envStr("MONGO_DB", "courier_logs"),
		AMQPURL:  os.Getenv("RABBITMQ_URL"),
	}
	if cfg.AMQPURL == "" {
		cfg.AMQPURL = os.Getenv("AMQP_URL")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		log.Fatal("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	return cfg
}

// Production reports whether cookies should carry the Secure attribute.
func (c Config) Production() bool {
	return strings.EqualFold(c.Env, "prod") || strings.EqualFold(c.Env, "production")
}

// must retrieves a required environment variable or aborts startup.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func optInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, falling back to %d", key, v, def)
		return def
	}
	return n
}

// expiry parses a duration variable, accepting Go duration syntax plus a
// day suffix ("7d").  An unparsable value falls back to the default; the
// fallback is logged but never fatal.
func expiry(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := ParseExpiry(v)
	if err != nil || d <= 0 {
		log.Printf("config: invalid %s=%q, falling back to %s", key, v, def)
		return def
	}
	return d
}

// ParseExpiry parses an expiry string.  "15m", "12h30m" and "7d" are all
// accepted; days are converted to hours since time.ParseDuration has no
// day unit.
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		days, err := strconv.ParseFloat(strings.TrimSuffix(s, "d"), 64)
		if err != nil {
			return 0, fmt.Errorf("parse expiry %q: %w", s, err)
		}
		return time.Duration(days * 24 * float64(time.Hour)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parse expiry %q: %w", s, err)
	}
	return d, nil
}
