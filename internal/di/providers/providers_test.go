package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HaMeD1379/Studly-sub001/internal/config"
	"github.com/HaMeD1379/Studly-sub001/internal/domain"
)

func TestOpenBackend(t *testing.T) {
	for _, backend := range []string{config.BackendBadger, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := &config.Config{Storage: config.StorageConfig{Backend: backend, BasePath: t.TempDir()}}

			db, path, err := OpenBackend(cfg, nil)
			require.NoError(t, err)
			defer db.Close()

			assert.Contains(t, path, cfg.Storage.BasePath)
			require.NoError(t, db.Ping(t.Context()))

			name := "Alice"
			require.NoError(t, db.UpsertUser(t.Context(), &domain.User{ID: "usr-alice", DisplayName: &name}))
			users, err := db.ListUsers(t.Context())
			require.NoError(t, err)
			require.Len(t, users, 1)
			assert.Equal(t, "usr-alice", users[0].ID)
		})
	}
}

func TestOpenBackend_Unknown(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Backend: "postgres", BasePath: t.TempDir()}}

	_, _, err := OpenBackend(cfg, nil)
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestServiceConfig(t *testing.T) {
	cfg := &config.Config{
		Badges: config.BadgeConfig{RatchetUnlocks: false, RequireActiveStreak: true},
		Leaderboard: config.LeaderboardConfig{
			FetchTimeout:   500 * time.Millisecond,
			MaxConcurrency: 4,
			MaxLimit:       50,
		},
		Sessions: config.SessionConfig{MaxProjectedLength: 6 * time.Hour},
	}

	svcCfg := ServiceConfig(cfg)

	assert.Equal(t, 500*time.Millisecond, svcCfg.FetchTimeout)
	assert.Equal(t, 4, svcCfg.MaxConcurrency)
	assert.Equal(t, 10, svcCfg.DefaultLimit, "unset values keep defaults")
	assert.Equal(t, 50, svcCfg.MaxLimit)
	assert.Equal(t, 6*time.Hour, svcCfg.MaxProjectedLength)
	assert.Equal(t, 60, svcCfg.DefaultPlannedMinutes)
	assert.True(t, svcCfg.Badges.IgnoreUnlockRecords, "ratchet off ignores unlock records")
	assert.True(t, svcCfg.Badges.RequireActiveStreak)
	assert.NotNil(t, svcCfg.Now)
}
