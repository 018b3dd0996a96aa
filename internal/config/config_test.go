package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Storage: StorageConfig{Backend: BackendBadger, BasePath: "/some/path"},
		Leaderboard: LeaderboardConfig{
			FetchTimeout:   2 * time.Second,
			MaxConcurrency: 4,
			DefaultLimit:   10,
			MaxLimit:       100,
		},
		Sessions: SessionConfig{MaxProjectedLength: 24 * time.Hour},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Storage.Backend = "postgres" },
			wantErr: "invalid storage backend",
		},
		{
			name:    "empty data path",
			mutate:  func(c *Config) { c.Storage.BasePath = "" },
			wantErr: "data path cannot be empty",
		},
		{
			name:    "short token key",
			mutate:  func(c *Config) { c.Auth.TokenKeyHex = "abcd" },
			wantErr: "64 hex characters",
		},
		{
			name:    "zero fetch timeout",
			mutate:  func(c *Config) { c.Leaderboard.FetchTimeout = 0 },
			wantErr: "fetch timeout must be positive",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Leaderboard.MaxConcurrency = 0 },
			wantErr: "concurrency must be at least 1",
		},
		{
			name:    "default limit above max",
			mutate:  func(c *Config) { c.Leaderboard.DefaultLimit = 500 },
			wantErr: "default limit",
		},
		{
			name:    "zero projected length",
			mutate:  func(c *Config) { c.Sessions.MaxProjectedLength = 0 },
			wantErr: "projected length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())

	cfg, err := Load([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, BackendBadger, cfg.Storage.Backend)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 2*time.Second, cfg.Leaderboard.FetchTimeout)
	assert.Equal(t, 16, cfg.Leaderboard.MaxConcurrency)
	assert.Equal(t, 24*time.Hour, cfg.Sessions.MaxProjectedLength)
	assert.True(t, cfg.Badges.RatchetUnlocks)
	assert.False(t, cfg.Badges.RequireActiveStreak)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("STORAGE_BACKEND", "badger")
	t.Setenv("LEADERBOARD_FETCH_TIMEOUT", "5s")

	cfg, err := Load([]string{
		"-env-file", filepath.Join(t.TempDir(), "missing.env"),
		"-storage-backend", "sqlite",
		"-badge-ratchet", "false",
		"-allowed-origins", "https://a.example, https://b.example",
	})
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, 5*time.Second, cfg.Leaderboard.FetchTimeout)
	assert.False(t, cfg.Badges.RatchetUnlocks)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("LEADERBOARD_FETCH_TIMEOUT", "soon")

	_, err := Load([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LEADERBOARD_FETCH_TIMEOUT")
}

func TestExpandDataPath_EmptyUsesDefault(t *testing.T) {
	cfg := &Config{}

	require.NoError(t, cfg.expandDataPath())

	homeDir, _ := os.UserHomeDir() //nolint:errcheck // Test setup
	assert.Equal(t, filepath.Join(homeDir, "Studly", "data"), cfg.Storage.BasePath)
}

func TestExpandDataPath_TildeExpansion(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{BasePath: "~/my-data"}}

	require.NoError(t, cfg.expandDataPath())

	homeDir, _ := os.UserHomeDir() //nolint:errcheck // Test setup
	assert.Equal(t, filepath.Join(homeDir, "my-data"), cfg.Storage.BasePath)
}

func TestExpandDataPath_RelativePath(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{BasePath: "relative/path"}}

	require.NoError(t, cfg.expandDataPath())

	assert.True(t, filepath.IsAbs(cfg.Storage.BasePath))
	assert.True(t, strings.HasSuffix(cfg.Storage.BasePath, filepath.Join("relative", "path")))
}

func TestGetConfigValue_Precedence(t *testing.T) {
	assert.Equal(t, "flag-value", getConfigValue("flag-value", "TEST_ENV_KEY", "default-value"))

	t.Setenv("TEST_ENV_KEY", "env-value")
	assert.Equal(t, "env-value", getConfigValue("", "TEST_ENV_KEY", "default-value"))

	assert.Equal(t, "default-value", getConfigValue("", "NONEXISTENT_KEY", "default-value"))
}

func TestGetBoolConfigValue(t *testing.T) {
	assert.True(t, getBoolConfigValue("yes", "UNUSED", false))
	assert.True(t, getBoolConfigValue("1", "UNUSED", false))
	assert.False(t, getBoolConfigValue("off", "UNUSED", true))
	assert.True(t, getBoolConfigValue("", "NONEXISTENT_BOOL", true))
}

func TestGetIntConfigValue(t *testing.T) {
	assert.Equal(t, 12, getIntConfigValue("12", "UNUSED", 3))
	assert.Equal(t, 3, getIntConfigValue("twelve", "UNUSED", 3))
	assert.Equal(t, 3, getIntConfigValue("", "NONEXISTENT_INT", 3))
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")

	content := `# Test env file
STUDLY_TEST_ENV=staging
# Comment line

STUDLY_TEST_QUOTED="some value"
STUDLY_TEST_SINGLE='another value'
  STUDLY_TEST_SPACES  =  value with spaces  
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	for _, key := range []string{"STUDLY_TEST_ENV", "STUDLY_TEST_QUOTED", "STUDLY_TEST_SINGLE", "STUDLY_TEST_SPACES"} {
		t.Setenv(key, "")
		os.Unsetenv(key) //nolint:errcheck // Test setup
	}

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "staging", os.Getenv("STUDLY_TEST_ENV"))
	assert.Equal(t, "some value", os.Getenv("STUDLY_TEST_QUOTED"))
	assert.Equal(t, "another value", os.Getenv("STUDLY_TEST_SINGLE"))
	assert.Equal(t, "value with spaces", os.Getenv("STUDLY_TEST_SPACES"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("VALID_KEY=valid\nINVALID LINE WITHOUT EQUALS\n"), 0o644))

	err := loadEnvFile(envFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	assert.Error(t, loadEnvFile("/nonexistent/file/.env"))
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	t.Setenv("STUDLY_TEST_VAR", "original-value")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("STUDLY_TEST_VAR=new-value"), 0o644))

	require.NoError(t, loadEnvFile(envFile))
	assert.Equal(t, "original-value", os.Getenv("STUDLY_TEST_VAR"))
}
