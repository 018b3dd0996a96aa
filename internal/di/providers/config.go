// Package providers contains dependency injection providers for the Studly server.
package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/HaMeD1379/Studly-sub001/internal/config"
	"github.com/HaMeD1379/Studly-sub001/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	logCfg := logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	}
	if cfg.Logger.File != "" {
		logCfg.File = &logger.FileConfig{
			Path:       cfg.Logger.File,
			MaxSizeMB:  cfg.Logger.FileMaxSizeMB,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		}
	}

	log := logger.New(logCfg)

	log.Info("Starting Studly Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"storage_backend", cfg.Storage.Backend,
		"data_path", cfg.Storage.BasePath,
	)

	return log, nil
}

// ProvideSlogLogger provides access to the underlying slog.Logger for packages that need it.
func ProvideSlogLogger(i do.Injector) (*slog.Logger, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return log.Logger, nil
}
