package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/HaMeD1379/Studly-sub001/internal/badge"
	"github.com/HaMeD1379/Studly-sub001/internal/domain"
	"github.com/HaMeD1379/Studly-sub001/internal/errors"
	"github.com/HaMeD1379/Studly-sub001/internal/leaderboard"
	"github.com/HaMeD1379/Studly-sub001/internal/metrics"
	"github.com/HaMeD1379/Studly-sub001/internal/summary"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// LeaderboardQuery selects one leaderboard.
type LeaderboardQuery struct {
	Scope      domain.LeaderboardScope
	Metric     domain.LeaderboardMetric
	SelfUserID string
	// Window applies to the studyTime metric. Empty means allTime.
	Window domain.WindowKind
	// Limit caps Entries. Zero means the configured default.
	Limit int
}

// LeaderboardResult is one ranked leaderboard.
type LeaderboardResult struct {
	ComputationID string                    `json:"computation_id"`
	Scope         domain.LeaderboardScope   `json:"scope"`
	Metric        domain.LeaderboardMetric  `json:"metric"`
	WindowKind    domain.WindowKind         `json:"window_kind"`
	Window        domain.Window             `json:"window"`
	Entries       []domain.LeaderboardEntry `json:"entries"`
	// Self is the caller's row, present even when Limit cut it from Entries.
	Self *domain.LeaderboardEntry `json:"self,omitempty"`
	// TotalUsers counts ranked users before Limit was applied.
	TotalUsers int `json:"total_users"`
	// Excluded counts users left out because their data could not be fetched.
	Excluded       int                 `json:"excluded"`
	CommunityTotal int64               `json:"community_total"`
	Diagnostics    []domain.Diagnostic `json:"diagnostics"`
}

// LeaderboardService ranks users by study time or badge count.
type LeaderboardService struct {
	users    UserDirectory
	friends  FriendChecker
	sessions SessionStore
	unlocks  UnlockStore
	catalog  BadgeCatalog
	cfg      Config
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewLeaderboardService creates a new leaderboard service.
func NewLeaderboardService(
	users UserDirectory,
	friends FriendChecker,
	sessions SessionStore,
	unlocks UnlockStore,
	catalog BadgeCatalog,
	cfg Config,
	m *metrics.Metrics,
	logger *slog.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		users:    users,
		friends:  friends,
		sessions: sessions,
		unlocks:  unlocks,
		catalog:  catalog,
		cfg:      cfg.withDefaults(),
		metrics:  m,
		logger:   logger,
	}
}

// userOutcome is one user's slot in the fan-out. Each goroutine writes only
// its own slot.
type userOutcome struct {
	input       leaderboard.Input
	excluded    bool
	diagnostics []domain.Diagnostic
	err         error
}

// GetLeaderboard computes a fresh leaderboard.
//
// Enum values are validated before any fetch. Per-user fetches run
// concurrently, each under its own timeout; a user whose data cannot be
// fetched is excluded and reported in Diagnostics rather than failing the
// board. Only configuration errors fail the request.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, q LeaderboardQuery) (*LeaderboardResult, error) {
	if !q.Scope.Valid() {
		return nil, errors.Configurationf("unknown leaderboard scope %q (must be global or friends)", string(q.Scope))
	}
	if !q.Metric.Valid() {
		return nil, errors.Configurationf("unknown leaderboard metric %q (must be studyTime or badgeCount)", string(q.Metric))
	}
	if q.Window == "" {
		q.Window = domain.WindowAllTime
	}
	if q.SelfUserID == "" {
		return nil, errors.Validation("user ID is required")
	}
	if q.Limit < 0 {
		return nil, errors.Validationf("limit must not be negative, got %d", q.Limit)
	}
	limit := q.Limit
	if limit == 0 {
		limit = s.cfg.DefaultLimit
	}
	limit = min(limit, s.cfg.MaxLimit)

	now := s.cfg.Now()
	window, err := q.Window.Resolve(now)
	if err != nil {
		return nil, err
	}

	computationID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "LeaderboardService.GetLeaderboard", trace.WithAttributes(
		attribute.String("computation_id", computationID),
		attribute.String("scope", string(q.Scope)),
		attribute.String("metric", string(q.Metric)),
		attribute.String("window", string(q.Window)),
	))
	defer span.End()

	result := &LeaderboardResult{
		ComputationID: computationID,
		Scope:         q.Scope,
		Metric:        q.Metric,
		WindowKind:    q.Window,
		Window:        window,
		Entries:       []domain.LeaderboardEntry{},
		Diagnostics:   []domain.Diagnostic{},
	}

	users, err := fetch(ctx, s.cfg.FetchTimeout, s.metrics, sourceUsers, s.users.ListUsers)
	if err != nil {
		span.RecordError(err)
		result.Diagnostics = append(result.Diagnostics, fetchFailure(s.logger, "", sourceUsers, err))
		return result, nil
	}
	users = withSelf(users, q.SelfUserID)

	if q.Scope == domain.ScopeFriends {
		var diags []domain.Diagnostic
		users, diags = s.friendsOf(ctx, users, q.SelfUserID)
		result.Diagnostics = append(result.Diagnostics, diags...)
		result.Excluded += len(diags)
	}

	var catalog []domain.BadgeDefinition
	if q.Metric == domain.LeaderboardBadgeCount {
		catalog, err = fetch(ctx, s.cfg.FetchTimeout, s.metrics, sourceCatalog, s.catalog.ListBadgeDefinitions)
		if err != nil {
			span.RecordError(err)
			result.Diagnostics = append(result.Diagnostics, fetchFailure(s.logger, "", sourceCatalog, err))
			return result, nil
		}
	}

	outcomes := make([]userOutcome, len(users))
	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrency)
	for i, u := range users {
		g.Go(func() error {
			outcomes[i] = s.measure(ctx, u, q.Metric, window, catalog, now)
			return nil
		})
	}
	_ = g.Wait()

	// Single-threaded reduction over the collected outcomes.
	inputs := make([]leaderboard.Input, 0, len(outcomes))
	for _, o := range outcomes {
		if o.err != nil {
			span.RecordError(o.err)
			span.SetStatus(codes.Error, o.err.Error())
			return nil, o.err
		}
		result.Diagnostics = append(result.Diagnostics, o.diagnostics...)
		if o.excluded {
			result.Excluded++
			continue
		}
		inputs = append(inputs, o.input)
	}

	ranked := leaderboard.Rank(inputs, q.SelfUserID)
	result.Entries = leaderboard.Top(ranked, limit)
	result.Self = leaderboard.Self(ranked)
	result.TotalUsers = len(ranked)
	result.CommunityTotal = leaderboard.Total(ranked)

	if s.metrics != nil {
		s.metrics.LeaderboardRuns.WithLabelValues(string(q.Scope), string(q.Metric)).Inc()
		s.metrics.LeaderboardExcluded.Add(float64(result.Excluded))
	}
	span.SetAttributes(
		attribute.Int("ranked", result.TotalUsers),
		attribute.Int("excluded", result.Excluded),
	)
	s.logger.Info("leaderboard computed",
		"computation_id", computationID,
		"scope", q.Scope,
		"metric", q.Metric,
		"window", q.Window,
		"ranked", result.TotalUsers,
		"excluded", result.Excluded,
	)
	return result, nil
}

// measure computes one user's metric value.
func (s *LeaderboardService) measure(ctx context.Context, u domain.User, metric domain.LeaderboardMetric, window domain.Window, catalog []domain.BadgeDefinition, now time.Time) userOutcome {
	out := userOutcome{input: leaderboard.Input{UserID: u.ID, DisplayName: u.DisplayName}}

	switch metric {
	case domain.LeaderboardStudyTime:
		sessions, err := fetch(ctx, s.cfg.FetchTimeout, s.metrics, sourceSessions, func(ctx context.Context) ([]domain.StudySession, error) {
			return s.sessions.FetchSessions(ctx, u.ID, window.From, window.To)
		})
		if err != nil {
			out.excluded = true
			out.diagnostics = append(out.diagnostics, fetchFailure(s.logger, u.ID, sourceSessions, err))
			return out
		}
		sum, diags := summary.Aggregate(sessions, window)
		out.input.MetricValue = sum.TotalMinutesStudied
		out.diagnostics = append(out.diagnostics, diags...)

	case domain.LeaderboardBadgeCount:
		act := fetchActivity(ctx, s.cfg, s.metrics, s.logger, s.sessions, s.unlocks, u.ID, now)
		out.diagnostics = append(out.diagnostics, act.diagnostics...)
		if !act.sessionsOK || !act.unlocksOK {
			out.excluded = true
			return out
		}
		statuses, diags, err := act.evaluate(catalog, now, s.cfg.Badges)
		if err != nil {
			out.err = err
			return out
		}
		out.input.MetricValue = int64(badge.CountUnlocked(statuses))
		out.diagnostics = append(out.diagnostics, diags...)
	}

	if s.metrics != nil {
		s.metrics.MalformedSessions.Add(float64(countKind(out.diagnostics, domain.DiagnosticMalformedSession)))
	}
	return out
}

// friendsOf narrows users to self plus the users self is friends with.
// Membership checks fan out like metric fetches; a failed check excludes
// that user.
func (s *LeaderboardService) friendsOf(ctx context.Context, users []domain.User, selfUserID string) ([]domain.User, []domain.Diagnostic) {
	var (
		mu      sync.Mutex
		members = make(map[string]bool)
		diags   []domain.Diagnostic
	)

	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrency)
	for _, u := range users {
		if u.ID == selfUserID {
			continue
		}
		g.Go(func() error {
			ok, err := fetch(ctx, s.cfg.FetchTimeout, s.metrics, sourceFriends, func(ctx context.Context) (bool, error) {
				return s.friends.IsFriend(ctx, selfUserID, u.ID)
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				diags = append(diags, fetchFailure(s.logger, u.ID, sourceFriends, err))
				return nil
			}
			members[u.ID] = ok
			return nil
		})
	}
	_ = g.Wait()

	return leaderboard.FilterScope(users, selfUserID, func(id string) bool { return members[id] }), diags
}

// withSelf appends the caller when the directory does not list them, so a
// caller with no activity still gets a zero row.
func withSelf(users []domain.User, selfUserID string) []domain.User {
	for _, u := range users {
		if u.ID == selfUserID {
			return users
		}
	}
	return append(users, domain.User{ID: selfUserID})
}

func countKind(diags []domain.Diagnostic, kind domain.DiagnosticKind) int {
	n := 0
	for _, d := range diags {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
