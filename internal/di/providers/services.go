package providers

import (
	"github.com/samber/do/v2"

	"github.com/HaMeD1379/Studly-sub001/internal/badge"
	"github.com/HaMeD1379/Studly-sub001/internal/config"
	"github.com/HaMeD1379/Studly-sub001/internal/logger"
	"github.com/HaMeD1379/Studly-sub001/internal/metrics"
	"github.com/HaMeD1379/Studly-sub001/internal/service"
)

// ProvideServiceConfig maps application configuration onto service tunables.
func ProvideServiceConfig(i do.Injector) (service.Config, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return ServiceConfig(cfg), nil
}

// ServiceConfig builds service tunables from cfg, falling back to defaults for unset values.
func ServiceConfig(cfg *config.Config) service.Config {
	svcCfg := service.DefaultConfig()
	if cfg.Leaderboard.FetchTimeout > 0 {
		svcCfg.FetchTimeout = cfg.Leaderboard.FetchTimeout
	}
	if cfg.Leaderboard.MaxConcurrency > 0 {
		svcCfg.MaxConcurrency = cfg.Leaderboard.MaxConcurrency
	}
	if cfg.Leaderboard.DefaultLimit > 0 {
		svcCfg.DefaultLimit = cfg.Leaderboard.DefaultLimit
	}
	if cfg.Leaderboard.MaxLimit > 0 {
		svcCfg.MaxLimit = cfg.Leaderboard.MaxLimit
	}
	if cfg.Sessions.MaxProjectedLength > 0 {
		svcCfg.MaxProjectedLength = cfg.Sessions.MaxProjectedLength
	}
	if cfg.Sessions.DefaultPlannedMinutes > 0 {
		svcCfg.DefaultPlannedMinutes = cfg.Sessions.DefaultPlannedMinutes
	}
	svcCfg.Badges = badge.Options{
		IgnoreUnlockRecords: !cfg.Badges.RatchetUnlocks,
		RequireActiveStreak: cfg.Badges.RequireActiveStreak,
	}
	return svcCfg
}

// ProvideStatsService provides the period summary service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	svcCfg := do.MustInvoke[service.Config](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatsService(storeHandle, svcCfg, m, log.Logger), nil
}

// ProvideBadgeService provides the badge evaluation service.
func ProvideBadgeService(i do.Injector) (*service.BadgeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	catalogHandle := do.MustInvoke[*CatalogHandle](i)
	svcCfg := do.MustInvoke[service.Config](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBadgeService(catalogHandle, storeHandle, storeHandle, svcCfg, m, log.Logger), nil
}

// ProvideLeaderboardService provides the leaderboard service.
func ProvideLeaderboardService(i do.Injector) (*service.LeaderboardService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	catalogHandle := do.MustInvoke[*CatalogHandle](i)
	svcCfg := do.MustInvoke[service.Config](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLeaderboardService(
		storeHandle, storeHandle, storeHandle, storeHandle, catalogHandle,
		svcCfg, m, log.Logger,
	), nil
}

// ProvideSessionService provides the study session service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	svcCfg := do.MustInvoke[service.Config](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle, storeHandle, svcCfg, m, log.Logger), nil
}
