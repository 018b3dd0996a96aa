package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/HaMeD1379/Studly-sub001/internal/api"
	"github.com/HaMeD1379/Studly-sub001/internal/auth"
	"github.com/HaMeD1379/Studly-sub001/internal/config"
	"github.com/HaMeD1379/Studly-sub001/internal/logger"
	"github.com/HaMeD1379/Studly-sub001/internal/metrics"
	"github.com/HaMeD1379/Studly-sub001/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.api.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Stats:       do.MustInvoke[*service.StatsService](i),
		Badges:      do.MustInvoke[*service.BadgeService](i),
		Leaderboard: do.MustInvoke[*service.LeaderboardService](i),
		Sessions:    do.MustInvoke[*service.SessionService](i),
	}

	handler := api.NewServer(services, tokens, storeHandle, m, api.Options{
		AllowedOrigins:       cfg.Server.AllowedOrigins,
		LeaderboardPerMinute: cfg.Leaderboard.RateLimitPerMinute,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}
