// Package config reads the application settings that sit outside the LLM
// layer from MINDSYNC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ScreeningStore selects where in-progress HTTP screenings are parked.
type ScreeningStore string

const (
	StoreMemory ScreeningStore = "memory"
	StoreRedis  ScreeningStore = "redis"
)

const (
	DefaultAddr         = ":8080"
	DefaultRedisAddr    = "localhost:6379"
	DefaultScreeningTTL = 30 * time.Minute
	DefaultHistoryLimit = 20
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds process-level settings.
type Config struct {
	DBPath         string
	LexiconPath    string // empty means the built-in word lists
	Addr           string
	ScreeningStore ScreeningStore
	RedisAddr      string
	ScreeningTTL   time.Duration
	HistoryLimit   int // turns of chat history handed to the companion
	LogLevel       string
	LogFormat      string
}

// Default returns the configuration used when no variables are set.
// DBPath is left empty; Load fills it from the home directory.
func Default() Config {
	return Config{
		Addr:           DefaultAddr,
		ScreeningStore: StoreMemory,
		RedisAddr:      DefaultRedisAddr,
		ScreeningTTL:   DefaultScreeningTTL,
		HistoryLimit:   DefaultHistoryLimit,
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// Load reads the environment over Default. Malformed numbers and durations
// are reported rather than silently ignored.
func Load() (Config, error) {
	cfg := Default()

	cfg.DBPath = os.Getenv("MINDSYNC_DB")
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".mindsync", "mindsync.db")
	}

	cfg.LexiconPath = os.Getenv("MINDSYNC_LEXICON")

	if v := os.Getenv("MINDSYNC_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("MINDSYNC_SCREENING_STORE"); v != "" {
		store, err := ParseScreeningStore(v)
		if err != nil {
			return Config{}, err
		}
		cfg.ScreeningStore = store
	}
	if v := os.Getenv("MINDSYNC_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("MINDSYNC_SCREENING_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("MINDSYNC_SCREENING_TTL %q: %w", v, ErrInvalidConfig)
		}
		cfg.ScreeningTTL = d
	}
	if v := os.Getenv("MINDSYNC_HISTORY_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("MINDSYNC_HISTORY_LIMIT %q: %w", v, ErrInvalidConfig)
		}
		cfg.HistoryLimit = n
	}
	if v := os.Getenv("MINDSYNC_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MINDSYNC_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	return cfg, nil
}

func ParseScreeningStore(s string) (ScreeningStore, error) {
	switch ScreeningStore(strings.ToLower(strings.TrimSpace(s))) {
	case StoreMemory:
		return StoreMemory, nil
	case StoreRedis:
		return StoreRedis, nil
	default:
		return "", fmt.Errorf("screening store %q: %w", s, ErrInvalidConfig)
	}
}
