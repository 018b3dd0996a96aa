// Package di provides dependency injection configuration for the Studly server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/HaMeD1379/Studly-sub001/internal/auth"
	"github.com/HaMeD1379/Studly-sub001/internal/config"
	"github.com/HaMeD1379/Studly-sub001/internal/di/providers"
	"github.com/HaMeD1379/Studly-sub001/internal/logger"
	"github.com/HaMeD1379/Studly-sub001/internal/metrics"
	"github.com/HaMeD1379/Studly-sub001/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideMetrics)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideCatalog)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideServiceConfig)
	do.Provide(injector, providers.ProvideStatsService)
	do.Provide(injector, providers.ProvideBadgeService)
	do.Provide(injector, providers.ProvideLeaderboardService)
	do.Provide(injector, providers.ProvideSessionService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*metrics.Metrics](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.CatalogHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.StatsService](injector)
	_ = do.MustInvoke[*service.BadgeService](injector)
	_ = do.MustInvoke[*service.LeaderboardService](injector)
	_ = do.MustInvoke[*service.SessionService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
