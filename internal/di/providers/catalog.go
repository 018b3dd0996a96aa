package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/HaMeD1379/Studly-sub001/internal/catalog"
	"github.com/HaMeD1379/Studly-sub001/internal/config"
	"github.com/HaMeD1379/Studly-sub001/internal/logger"
	"github.com/HaMeD1379/Studly-sub001/internal/metrics"
)

// CatalogHandle wraps the badge catalog with its watcher lifecycle.
type CatalogHandle struct {
	*catalog.Catalog
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *CatalogHandle) Shutdown() error {
	h.cancel()
	return nil
}

// ProvideCatalog loads the badge catalog and starts watching its file when enabled.
func ProvideCatalog(i do.Injector) (*CatalogHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	m := do.MustInvoke[*metrics.Metrics](i)

	cat, err := catalog.New(cfg.Badges.CatalogPath, log.Logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	handle := &CatalogHandle{Catalog: cat, cancel: cancel}

	if cfg.Badges.WatchCatalog && cat.Path() != "" {
		cat.OnReloadError(func(error) { m.CatalogReloadFailures.Inc() })
		if err := cat.Watch(ctx); err != nil {
			// Non-fatal: the catalog still serves the snapshot loaded at startup.
			log.Warn("Badge catalog watcher unavailable", "path", cat.Path(), "error", err)
		} else {
			log.Info("Watching badge catalog", "path", cat.Path())
		}
	}

	return handle, nil
}
