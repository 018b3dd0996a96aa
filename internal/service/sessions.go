package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
	"github.com/HaMeD1379/Studly-sub001/internal/errors"
	"github.com/HaMeD1379/Studly-sub001/internal/id"
	"github.com/HaMeD1379/Studly-sub001/internal/metrics"
	"github.com/HaMeD1379/Studly-sub001/internal/store"
	"github.com/HaMeD1379/Studly-sub001/internal/validation"
)

// StartSessionInput starts a study session.
type StartSessionInput struct {
	Subject string `json:"subject" validate:"required,notblank,max=100"`
	// PlannedMinutes is the projected length. Zero uses the default.
	PlannedMinutes int `json:"planned_minutes" validate:"gte=0"`
}

// SessionService manages the study session lifecycle.
type SessionService struct {
	writer    SessionWriter
	sessions  SessionStore
	validator *validation.Validator
	cfg       Config
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(writer SessionWriter, sessions SessionStore, cfg Config, m *metrics.Metrics, logger *slog.Logger) *SessionService {
	return &SessionService{
		writer:    writer,
		sessions:  sessions,
		validator: validation.New(),
		cfg:       cfg.withDefaults(),
		metrics:   m,
		logger:    logger,
	}
}

// StartSession creates a session starting now, projected to end after the
// planned minutes.
func (s *SessionService) StartSession(ctx context.Context, userID string, in StartSessionInput) (*domain.StudySession, error) {
	if userID == "" {
		return nil, errors.Validation("user ID is required")
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	planned := in.PlannedMinutes
	if planned == 0 {
		planned = s.cfg.DefaultPlannedMinutes
	}
	if maxMinutes := int(s.cfg.MaxProjectedLength / time.Minute); planned > maxMinutes {
		return nil, errors.ValidationWithDetails("validation failed", map[string]string{
			"planned_minutes": "must not exceed " + (time.Duration(maxMinutes) * time.Minute).String(),
		})
	}

	sessionID, err := id.Generate(id.PrefixSession)
	if err != nil {
		return nil, errors.Internal("failed to generate session ID").WithCause(err)
	}

	session := domain.NewStudySession(sessionID, userID, strings.TrimSpace(in.Subject), s.cfg.Now(), planned)
	if err := s.writer.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("study session started",
		"session_id", session.ID,
		"user_id", userID,
		"subject", session.Subject,
		"planned_minutes", planned,
	)
	return session, nil
}

// StopSession closes a running session at the current time. Only the owner
// may stop it, and only once.
func (s *SessionService) StopSession(ctx context.Context, userID, sessionID string) (*domain.StudySession, error) {
	session, err := s.writer.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("study session %s not found", sessionID)
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, errors.Forbidden("cannot stop another user's session")
	}
	if session.IsStopped() {
		return nil, errors.Conflictf("study session %s already stopped", sessionID)
	}

	now := s.cfg.Now()
	if !session.IsActive(now) {
		return nil, errors.Conflictf("study session %s already ended", sessionID)
	}

	stopped, err := s.writer.StopSession(ctx, sessionID, now)
	if err != nil {
		if errors.Is(err, store.ErrSessionStopped) {
			return nil, errors.Conflictf("study session %s already stopped", sessionID)
		}
		return nil, err
	}

	s.logger.Info("study session stopped",
		"session_id", sessionID,
		"user_id", userID,
		"total_minutes", stopped.TotalMinutes,
	)
	return stopped, nil
}

// ListSessions returns userID's sessions concluding in the window, plus any
// still running, ordered by end time.
func (s *SessionService) ListSessions(ctx context.Context, userID string, kind domain.WindowKind) ([]domain.StudySession, error) {
	if userID == "" {
		return nil, errors.Validation("user ID is required")
	}
	now := s.cfg.Now()
	window, err := kind.Resolve(now)
	if err != nil {
		return nil, err
	}

	return fetch(ctx, s.cfg.FetchTimeout, s.metrics, sourceSessions, func(ctx context.Context) ([]domain.StudySession, error) {
		return s.sessions.FetchSessions(ctx, userID, window.From, now.Add(s.cfg.MaxProjectedLength))
	})
}
