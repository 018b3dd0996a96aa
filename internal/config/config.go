// Package config loads Studly configuration from command-line flags,
// environment variables, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Storage backends.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	App         AppConfig
	Logger      LoggerConfig
	Storage     StorageConfig
	Server      ServerConfig
	Auth        AuthConfig
	Badges      BadgeConfig
	Leaderboard LeaderboardConfig
	Sessions    SessionConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
	// File enables a rotating JSON log file when non-empty.
	File          string
	FileMaxSizeMB int
}

// StorageConfig selects and locates the session/unlock/user store.
type StorageConfig struct {
	Backend  string // badger or sqlite (default: badger)
	BasePath string // data directory (default: ~/Studly/data)
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port           string        // Server port (default: 8080)
	ReadTimeout    time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout   time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout    time.Duration // HTTP idle timeout (default: 60s)
	AllowedOrigins []string      // CORS origins (default: *)
}

// AuthConfig holds bearer token configuration.
type AuthConfig struct {
	// TokenKeyHex is the shared PASETO v4 symmetric key, 64 hex characters.
	// When empty a key is loaded from or generated into the data directory.
	TokenKeyHex string
	// AccessTokenDuration is the lifetime of tokens minted by the seed tool.
	AccessTokenDuration time.Duration
}

// BadgeConfig holds badge evaluation configuration.
type BadgeConfig struct {
	// CatalogPath points at a YAML badge catalog. Empty uses the built-in catalog.
	CatalogPath string
	// WatchCatalog reloads the catalog file when it changes.
	WatchCatalog bool
	// RatchetUnlocks keeps a badge unlocked once earned, even if the metric later drops.
	RatchetUnlocks bool
	// RequireActiveStreak only counts a streak whose latest day is today or yesterday.
	RequireActiveStreak bool
}

// LeaderboardConfig holds leaderboard fan-out configuration.
type LeaderboardConfig struct {
	FetchTimeout       time.Duration // per-user fetch deadline (default: 2s)
	MaxConcurrency     int           // simultaneous per-user fetches (default: 16)
	DefaultLimit       int           // default rows returned (default: 10)
	MaxLimit           int           // cap on requested rows (default: 100)
	RateLimitPerMinute int           // leaderboard requests per user per minute (default: 30)
}

// SessionConfig holds study session configuration.
type SessionConfig struct {
	// MaxProjectedLength bounds how far in the future a session's projected end may lie.
	MaxProjectedLength    time.Duration
	DefaultPlannedMinutes int
}

// LoadConfig loads configuration from the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("studly", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := fs.String("log-file", "", "Rotating log file path")
	storageBackend := fs.String("storage-backend", "", "Storage backend (badger, sqlite)")
	dataPath := fs.String("data-path", "", "Base path for stored data")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	allowedOrigins := fs.String("allowed-origins", "", "Comma separated CORS origins (default: *)")

	tokenKey := fs.String("token-key", "", "PASETO v4 key as 64 hex characters")
	accessTokenDuration := fs.String("access-token-duration", "", "Access token lifetime (e.g., 15m)")

	catalogPath := fs.String("badge-catalog", "", "Path to badge catalog YAML")
	watchCatalog := fs.String("watch-badge-catalog", "", "Reload badge catalog on change (default: true)")
	ratchet := fs.String("badge-ratchet", "", "Keep earned badges unlocked (default: true)")
	activeStreak := fs.String("badge-active-streak", "", "Only count streaks ending today or yesterday (default: false)")

	fetchTimeout := fs.String("leaderboard-fetch-timeout", "", "Per-user fetch timeout (default: 2s)")
	maxConcurrency := fs.String("leaderboard-concurrency", "", "Concurrent per-user fetches (default: 16)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:         getConfigValue(*logLevel, "LOG_LEVEL", "info"),
			File:          getConfigValue(*logFile, "LOG_FILE", ""),
			FileMaxSizeMB: getIntConfigValue("", "LOG_FILE_MAX_SIZE_MB", 50),
		},
		Storage: StorageConfig{
			Backend:  strings.ToLower(getConfigValue(*storageBackend, "STORAGE_BACKEND", BackendBadger)),
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			AllowedOrigins: splitList(getConfigValue(*allowedOrigins, "ALLOWED_ORIGINS", "*")),
		},
		Auth: AuthConfig{
			TokenKeyHex: getConfigValue(*tokenKey, "AUTH_TOKEN_KEY", ""),
		},
		Badges: BadgeConfig{
			CatalogPath:         getConfigValue(*catalogPath, "BADGE_CATALOG_PATH", ""),
			WatchCatalog:        getBoolConfigValue(*watchCatalog, "BADGE_CATALOG_WATCH", true),
			RatchetUnlocks:      getBoolConfigValue(*ratchet, "BADGE_RATCHET_UNLOCKS", true),
			RequireActiveStreak: getBoolConfigValue(*activeStreak, "BADGE_REQUIRE_ACTIVE_STREAK", false),
		},
		Leaderboard: LeaderboardConfig{
			MaxConcurrency:     getIntConfigValue(*maxConcurrency, "LEADERBOARD_MAX_CONCURRENCY", 16),
			DefaultLimit:       getIntConfigValue("", "LEADERBOARD_DEFAULT_LIMIT", 10),
			MaxLimit:           getIntConfigValue("", "LEADERBOARD_MAX_LIMIT", 100),
			RateLimitPerMinute: getIntConfigValue("", "LEADERBOARD_RATE_LIMIT", 30),
		},
		Sessions: SessionConfig{
			DefaultPlannedMinutes: getIntConfigValue("", "SESSION_DEFAULT_PLANNED_MINUTES", 60),
		},
	}

	durations := []struct {
		flagValue string
		envKey    string
		def       string
		target    *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{*accessTokenDuration, "ACCESS_TOKEN_DURATION", "15m", &cfg.Auth.AccessTokenDuration},
		{*fetchTimeout, "LEADERBOARD_FETCH_TIMEOUT", "2s", &cfg.Leaderboard.FetchTimeout},
		{"", "SESSION_MAX_PROJECTED_LENGTH", "24h", &cfg.Sessions.MaxProjectedLength},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.target = parsed
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if cfg.Badges.CatalogPath != "" {
		expanded, err := expandPath(cfg.Badges.CatalogPath, "")
		if err != nil {
			return nil, fmt.Errorf("invalid badge catalog path: %w", err)
		}
		cfg.Badges.CatalogPath = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Storage.Backend {
	case BackendBadger, BackendSQLite:
	default:
		return fmt.Errorf("invalid storage backend: %s (must be badger or sqlite)", c.Storage.Backend)
	}

	if c.Storage.BasePath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if c.Auth.TokenKeyHex != "" && len(c.Auth.TokenKeyHex) != 64 {
		return fmt.Errorf("auth token key must be 64 hex characters, got %d", len(c.Auth.TokenKeyHex))
	}

	if c.Leaderboard.FetchTimeout <= 0 {
		return errors.New("leaderboard fetch timeout must be positive")
	}
	if c.Leaderboard.MaxConcurrency < 1 {
		return errors.New("leaderboard concurrency must be at least 1")
	}
	if c.Leaderboard.DefaultLimit < 1 || c.Leaderboard.DefaultLimit > c.Leaderboard.MaxLimit {
		return fmt.Errorf("leaderboard default limit %d must be between 1 and max limit %d",
			c.Leaderboard.DefaultLimit, c.Leaderboard.MaxLimit)
	}

	if c.Sessions.MaxProjectedLength <= 0 {
		return errors.New("session max projected length must be positive")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and defaults to ~/Studly/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Studly", "data")

	expanded, err := expandPath(c.Storage.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Storage.BasePath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

func splitList(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Env vars already set take precedence over the file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
