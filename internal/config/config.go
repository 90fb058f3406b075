// Package config loads service settings from MCQBOT_* environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the service configuration. LLM provider settings live in
// llm.Config.
type Config struct {
	// Server
	Addr string

	// Storage
	DBPath string

	// Quiz
	Cooldown    time.Duration
	MaxAttempts int
	RecentLimit int
	Structured  bool
	Images      bool

	// Scheduler; zero disables scheduled delivery.
	ScheduleInterval time.Duration

	// Logging
	LogLevel slog.Level
}

// Load reads configuration from the environment. Unset variables keep
// their defaults; malformed values are an error.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:        getEnv("MCQBOT_ADDR", ":8080"),
		DBPath:      getEnv("MCQBOT_DB", ""),
		Cooldown:    5 * time.Second,
		MaxAttempts: 3,
		RecentLimit: 5,
		LogLevel:    slog.LevelInfo,
	}

	var err error
	if cfg.Cooldown, err = getEnvAsDuration("MCQBOT_COOLDOWN", cfg.Cooldown); err != nil {
		return nil, err
	}
	if cfg.ScheduleInterval, err = getEnvAsDuration("MCQBOT_SCHEDULE_INTERVAL", 0); err != nil {
		return nil, err
	}
	if cfg.MaxAttempts, err = getEnvAsInt("MCQBOT_MAX_ATTEMPTS", cfg.MaxAttempts); err != nil {
		return nil, err
	}
	if cfg.RecentLimit, err = getEnvAsInt("MCQBOT_RECENT_LIMIT", cfg.RecentLimit); err != nil {
		return nil, err
	}
	if cfg.Images, err = getEnvAsBool("MCQBOT_IMAGES", false); err != nil {
		return nil, err
	}
	if cfg.Structured, err = getEnvAsBool("MCQBOT_STRUCTURED", false); err != nil {
		return nil, err
	}
	if cfg.LogLevel, err = ParseLevel(getEnv("MCQBOT_LOG_LEVEL", "info")); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("MCQBOT_ADDR must not be empty")
	}
	if c.Cooldown < 0 {
		return fmt.Errorf("MCQBOT_COOLDOWN must not be negative")
	}
	if c.ScheduleInterval < 0 {
		return fmt.Errorf("MCQBOT_SCHEDULE_INTERVAL must not be negative")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("MCQBOT_MAX_ATTEMPTS must be at least 1")
	}
	if c.RecentLimit < 0 {
		return fmt.Errorf("MCQBOT_RECENT_LIMIT must not be negative")
	}
	return nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultVal, nil
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return val, nil
}

func getEnvAsBool(key string, defaultVal bool) (bool, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultVal, nil
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return val, nil
}

// getEnvAsDuration accepts Go durations ("30m") or bare seconds ("90").
func getEnvAsDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultVal, nil
	}
	if secs, err := strconv.Atoi(valStr); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return val, nil
}
