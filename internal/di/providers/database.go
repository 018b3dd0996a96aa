package providers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/do/v2"

	"github.com/HaMeD1379/Studly-sub001/internal/config"
	"github.com/HaMeD1379/Studly-sub001/internal/domain"
	"github.com/HaMeD1379/Studly-sub001/internal/logger"
	"github.com/HaMeD1379/Studly-sub001/internal/service"
	"github.com/HaMeD1379/Studly-sub001/internal/store"
	"github.com/HaMeD1379/Studly-sub001/internal/store/sqlite"
)

// Backend is the full storage surface used by the server and seed tool.
// Both the badger and sqlite stores implement it.
type Backend interface {
	service.SessionStore
	service.SessionWriter
	service.UnlockStore
	service.FriendChecker
	service.UserDirectory

	UpsertUser(ctx context.Context, user *domain.User) error
	AddFriendship(ctx context.Context, userID, friendID string, at time.Time) error
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Backend = (*store.Store)(nil)
	_ Backend = (*sqlite.Store)(nil)
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	Backend
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the configured storage backend.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	backend, path, err := OpenBackend(cfg, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "backend", cfg.Storage.Backend, "path", path)

	return &StoreHandle{Backend: backend}, nil
}

// OpenBackend opens the store selected by cfg.Storage.Backend.
func OpenBackend(cfg *config.Config, logger *slog.Logger) (Backend, string, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.Storage.BasePath, 0o755); err != nil {
			return nil, "", fmt.Errorf("create data directory: %w", err)
		}
		path := filepath.Join(cfg.Storage.BasePath, "studly.db")
		db, err := sqlite.Open(path, logger)
		if err != nil {
			return nil, path, err
		}
		return db, path, nil
	case config.BackendBadger:
		path := filepath.Join(cfg.Storage.BasePath, "db")
		db, err := store.New(path, logger)
		if err != nil {
			return nil, path, err
		}
		return db, path, nil
	default:
		return nil, "", fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
