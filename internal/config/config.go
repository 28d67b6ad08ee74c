package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/glabrego/lemmy-cli/internal/api"
	"github.com/glabrego/lemmy-cli/internal/logger"
)

const (
	defaultDBPath      = "lemmy.db"
	defaultLogPath     = "lemmy.log"
	defaultLogLevel    = "info"
	defaultRateLimit   = 5.0
	defaultHTTPTimeout = 10 * time.Second
)

// Config holds runtime settings for the CLI app.
type Config struct {
	Host        string
	Username    string
	Password    string
	TOTP        string
	Flavor      api.Flavor
	DBPath      string
	LogPath     string
	LogLevel    string
	MetricsAddr string
	RateLimit   float64
	HTTPTimeout time.Duration
	UserAgent   string
}

// LoadDotEnv loads the first .env file found among paths, or ./.env when
// none are given. Variables already set in the environment win.
func LoadDotEnv(paths ...string) bool {
	if len(paths) == 0 {
		return godotenv.Load() == nil
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err == nil {
			return true
		}
	}
	return false
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Host:        os.Getenv("LEMMY_HOST"),
		Username:    os.Getenv("LEMMY_USERNAME"),
		Password:    os.Getenv("LEMMY_PASSWORD"),
		TOTP:        os.Getenv("LEMMY_TOTP"),
		DBPath:      os.Getenv("LEMMY_DB_PATH"),
		LogPath:     os.Getenv("LEMMY_LOG_PATH"),
		LogLevel:    os.Getenv("LEMMY_LOG_LEVEL"),
		MetricsAddr: os.Getenv("LEMMY_METRICS_ADDR"),
		UserAgent:   os.Getenv("LEMMY_USER_AGENT"),
	}

	flavor, err := api.ParseFlavor(os.Getenv("LEMMY_FLAVOR"))
	if err != nil {
		return Config{}, fmt.Errorf("LEMMY_FLAVOR: %w", err)
	}
	cfg.Flavor = flavor

	cfg.RateLimit = defaultRateLimit
	if raw := strings.TrimSpace(os.Getenv("LEMMY_RATE_LIMIT")); raw != "" {
		cfg.RateLimit, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("LEMMY_RATE_LIMIT must be a number: %s", raw)
		}
	}
	cfg.HTTPTimeout = defaultHTTPTimeout
	if raw := strings.TrimSpace(os.Getenv("LEMMY_HTTP_TIMEOUT")); raw != "" {
		cfg.HTTPTimeout, err = time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("LEMMY_HTTP_TIMEOUT must be a duration: %s", raw)
		}
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.LogPath == "" {
		cfg.LogPath = defaultLogPath
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// HasCredentials reports whether the environment asks for a fresh sign-in
// instead of restoring the saved account.
func (c Config) HasCredentials() bool {
	return c.Host != "" && c.Username != ""
}

func (c Config) Validate() error {
	if c.Username != "" && c.Host == "" {
		return errors.New("LEMMY_HOST is required when LEMMY_USERNAME is set")
	}
	if c.Password != "" && c.Username == "" {
		return errors.New("LEMMY_USERNAME is required when LEMMY_PASSWORD is set")
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LEMMY_LOG_LEVEL: %w", err)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("LEMMY_RATE_LIMIT must not be negative: %v", c.RateLimit)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("LEMMY_HTTP_TIMEOUT must be positive: %s", c.HTTPTimeout)
	}
	if strings.Contains(c.Host, "/") && !strings.HasPrefix(c.Host, "http") {
		return fmt.Errorf("LEMMY_HOST must be a host name or URL: %s", c.Host)
	}
	return nil
}
