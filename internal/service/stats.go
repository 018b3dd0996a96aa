package service

import (
	"context"
	"log/slog"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
	"github.com/HaMeD1379/Studly-sub001/internal/errors"
	"github.com/HaMeD1379/Studly-sub001/internal/metrics"
	"github.com/HaMeD1379/Studly-sub001/internal/summary"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PeriodSummaryResult is one user's summary for one window.
type PeriodSummaryResult struct {
	WindowKind domain.WindowKind       `json:"window_kind"`
	Window     domain.Window           `json:"window"`
	Summary    domain.PeriodSummary    `json:"summary"`
	Subjects   []domain.SubjectSummary `json:"subjects"`
	// InProgress lists sessions still running at request time. They are
	// not counted in Summary.
	InProgress  []domain.StudySession `json:"in_progress"`
	Diagnostics []domain.Diagnostic   `json:"diagnostics"`
}

// StatsService computes per-user period summaries.
type StatsService struct {
	sessions SessionStore
	cfg      Config
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(sessions SessionStore, cfg Config, m *metrics.Metrics, logger *slog.Logger) *StatsService {
	return &StatsService{
		sessions: sessions,
		cfg:      cfg.withDefaults(),
		metrics:  m,
		logger:   logger,
	}
}

// GetPeriodSummary summarizes userID's sessions that concluded inside the
// window. A failed session fetch yields a zero summary with a diagnostic.
func (s *StatsService) GetPeriodSummary(ctx context.Context, userID string, kind domain.WindowKind) (*PeriodSummaryResult, error) {
	if userID == "" {
		return nil, errors.Validation("user ID is required")
	}
	now := s.cfg.Now()
	window, err := kind.Resolve(now)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "StatsService.GetPeriodSummary", trace.WithAttributes(
		attribute.String("user_id", userID),
		attribute.String("window", string(kind)),
	))
	defer span.End()

	result := &PeriodSummaryResult{
		WindowKind:  kind,
		Window:      window,
		Summary:     domain.NewPeriodSummary(),
		Subjects:    []domain.SubjectSummary{},
		InProgress:  []domain.StudySession{},
		Diagnostics: []domain.Diagnostic{},
	}

	// Sessions still running have a projected EndTime after now, so the
	// upper bound reaches past now to surface them.
	sessions, err := fetch(ctx, s.cfg.FetchTimeout, s.metrics, sourceSessions, func(ctx context.Context) ([]domain.StudySession, error) {
		return s.sessions.FetchSessions(ctx, userID, window.From, now.Add(s.cfg.MaxProjectedLength))
	})
	if err != nil {
		span.RecordError(err)
		result.Diagnostics = append(result.Diagnostics, fetchFailure(s.logger, userID, sourceSessions, err))
		return result, nil
	}

	sum, diags := summary.Aggregate(sessions, window)
	s.countMalformed(diags)

	result.Summary = sum
	result.Subjects = summary.Subjects(sum)
	result.InProgress = append(result.InProgress, summary.InProgress(sessions, now)...)
	result.Diagnostics = append(result.Diagnostics, forUser(diags, userID)...)

	span.SetAttributes(
		attribute.Int64("total_minutes", sum.TotalMinutesStudied),
		attribute.Int("sessions_logged", sum.SessionsLogged),
	)
	s.logger.Debug("period summary computed",
		"user_id", userID,
		"window", kind,
		"total_minutes", sum.TotalMinutesStudied,
		"sessions", sum.SessionsLogged,
		"skipped", len(diags),
	)
	return result, nil
}

func (s *StatsService) countMalformed(diags []domain.Diagnostic) {
	if s.metrics == nil {
		return
	}
	s.metrics.MalformedSessions.Add(float64(len(diags)))
}
