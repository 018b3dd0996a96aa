package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/HaMeD1379/Studly-sub001/internal/badge"
	"github.com/HaMeD1379/Studly-sub001/internal/domain"
	"github.com/HaMeD1379/Studly-sub001/internal/errors"
	"github.com/HaMeD1379/Studly-sub001/internal/metrics"
	"github.com/HaMeD1379/Studly-sub001/internal/summary"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// BadgeStatusResult is one user's evaluated badge catalog.
type BadgeStatusResult struct {
	Badges        []domain.BadgeStatus `json:"badges"`
	UnlockedCount int                  `json:"unlocked_count"`
	// NextUnlock is the locked badge closest to unlocking, if any.
	NextUnlock  *domain.BadgeStatus `json:"next_unlock,omitempty"`
	Diagnostics []domain.Diagnostic `json:"diagnostics"`
}

// BadgeService evaluates badges and records new unlocks.
type BadgeService struct {
	catalog  BadgeCatalog
	sessions SessionStore
	unlocks  UnlockStore
	cfg      Config
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewBadgeService creates a new badge service.
func NewBadgeService(catalog BadgeCatalog, sessions SessionStore, unlocks UnlockStore, cfg Config, m *metrics.Metrics, logger *slog.Logger) *BadgeService {
	return &BadgeService{
		catalog:  catalog,
		sessions: sessions,
		unlocks:  unlocks,
		cfg:      cfg.withDefaults(),
		metrics:  m,
		logger:   logger,
	}
}

// userActivity is what badge evaluation needs for one user.
type userActivity struct {
	sessions    []domain.StudySession
	unlocks     []domain.UnlockRecord
	unlocksOK   bool
	sessionsOK  bool
	diagnostics []domain.Diagnostic
}

// fetchActivity loads a user's completed sessions and unlock records
// concurrently. Failures become diagnostics.
func fetchActivity(ctx context.Context, cfg Config, m *metrics.Metrics, logger *slog.Logger, sessions SessionStore, unlocks UnlockStore, userID string, now time.Time) userActivity {
	var (
		act                    userActivity
		sessionsErr, unlockErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		act.sessions, sessionsErr = fetch(ctx, cfg.FetchTimeout, m, sourceSessions, func(ctx context.Context) ([]domain.StudySession, error) {
			return sessions.FetchSessions(ctx, userID, domain.AllTime(now).From, now)
		})
		return nil
	})
	g.Go(func() error {
		act.unlocks, unlockErr = fetch(ctx, cfg.FetchTimeout, m, sourceUnlocks, func(ctx context.Context) ([]domain.UnlockRecord, error) {
			return unlocks.GetUnlocks(ctx, userID)
		})
		return nil
	})
	_ = g.Wait()

	act.sessionsOK = sessionsErr == nil
	act.unlocksOK = unlockErr == nil
	if sessionsErr != nil {
		act.diagnostics = append(act.diagnostics, fetchFailure(logger, userID, sourceSessions, sessionsErr))
	}
	if unlockErr != nil {
		act.diagnostics = append(act.diagnostics, fetchFailure(logger, userID, sourceUnlocks, unlockErr))
	}
	return act
}

// evaluate runs the badge evaluator over fetched activity.
func (a userActivity) evaluate(catalog []domain.BadgeDefinition, now time.Time, opts badge.Options) ([]domain.BadgeStatus, []domain.Diagnostic, error) {
	sum, diags := summary.Aggregate(a.sessions, domain.AllTime(now))
	statuses, err := badge.Evaluate(badge.Input{
		Summary:  sum,
		Sessions: a.sessions,
		Catalog:  catalog,
		Unlocks:  a.unlocks,
		Now:      now,
		Options:  opts,
	})
	return statuses, diags, err
}

// GetBadgeStatus evaluates every catalog badge for userID.
//
// Badges newly unlocked by their metric are recorded with the current time.
// Recording is skipped when unlock records could not be read, so a transient
// failure never overwrites an earlier EarnedAt.
func (s *BadgeService) GetBadgeStatus(ctx context.Context, userID string) (*BadgeStatusResult, error) {
	if userID == "" {
		return nil, errors.Validation("user ID is required")
	}
	now := s.cfg.Now()

	ctx, span := tracer.Start(ctx, "BadgeService.GetBadgeStatus", trace.WithAttributes(
		attribute.String("user_id", userID),
	))
	defer span.End()

	var (
		catalog    []domain.BadgeDefinition
		catalogErr error
		act        userActivity
	)
	var g errgroup.Group
	g.Go(func() error {
		catalog, catalogErr = fetch(ctx, s.cfg.FetchTimeout, s.metrics, sourceCatalog, s.catalog.ListBadgeDefinitions)
		return nil
	})
	g.Go(func() error {
		act = fetchActivity(ctx, s.cfg, s.metrics, s.logger, s.sessions, s.unlocks, userID, now)
		return nil
	})
	_ = g.Wait()

	result := &BadgeStatusResult{
		Badges:      []domain.BadgeStatus{},
		Diagnostics: act.diagnostics,
	}
	if result.Diagnostics == nil {
		result.Diagnostics = []domain.Diagnostic{}
	}
	if catalogErr != nil {
		span.RecordError(catalogErr)
		result.Diagnostics = append(result.Diagnostics, fetchFailure(s.logger, userID, sourceCatalog, catalogErr))
		return result, nil
	}

	statuses, diags, err := act.evaluate(catalog, now, s.cfg.Badges)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	result.Diagnostics = append(result.Diagnostics, diags...)

	if act.unlocksOK && act.sessionsOK {
		result.Diagnostics = append(result.Diagnostics, s.recordNewUnlocks(ctx, userID, statuses, now)...)
	}

	result.Badges = statuses
	result.UnlockedCount = badge.CountUnlocked(statuses)
	result.NextUnlock = badge.NextUnlock(statuses)
	span.SetAttributes(attribute.Int("unlocked", result.UnlockedCount))
	return result, nil
}

// recordNewUnlocks persists badges unlocked by their metric that have no
// record yet, and stamps EarnedAt on the ones written.
func (s *BadgeService) recordNewUnlocks(ctx context.Context, userID string, statuses []domain.BadgeStatus, now time.Time) []domain.Diagnostic {
	var diags []domain.Diagnostic
	for i := range statuses {
		st := &statuses[i]
		if !badge.NeedsRecord(*st) {
			continue
		}

		rec := domain.UnlockRecord{UserID: userID, BadgeName: st.Badge.Name, EarnedAt: now}
		created, err := fetch(ctx, s.cfg.FetchTimeout, s.metrics, sourceUnlocks, func(ctx context.Context) (bool, error) {
			return s.unlocks.RecordUnlock(ctx, rec)
		})
		if err != nil {
			diags = append(diags, fetchFailure(s.logger, userID, sourceUnlocks, err))
			continue
		}
		if !created {
			// A concurrent request recorded it first; its time stands.
			continue
		}

		earned := now
		st.EarnedAt = &earned
		if s.metrics != nil {
			s.metrics.BadgeUnlocksRecorded.Inc()
		}
		s.logger.Info("badge unlocked",
			"user_id", userID,
			"badge", st.Badge.Name,
		)
	}
	return diags
}
