package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
	"github.com/HaMeD1379/Studly-sub001/internal/store"
)

// sessionColumns is the ordered list of columns selected in session queries.
// Must match the scan order in scanSession.
const sessionColumns = `id, user_id, subject, start_time, end_time, total_minutes, stopped_at, created_at`

func scanSession(scanner interface{ Scan(dest ...any) error }) (domain.StudySession, error) {
	var (
		s         domain.StudySession
		startTime string
		endTime   string
		stoppedAt sql.NullString
		createdAt string
	)

	err := scanner.Scan(
		&s.ID,
		&s.UserID,
		&s.Subject,
		&startTime,
		&endTime,
		&s.TotalMinutes,
		&stoppedAt,
		&createdAt,
	)
	if err != nil {
		return s, err
	}

	if s.StartTime, err = parseTime(startTime); err != nil {
		return s, err
	}
	if s.EndTime, err = parseTime(endTime); err != nil {
		return s, err
	}
	if s.StoppedAt, err = parseNullableTime(stoppedAt); err != nil {
		return s, err
	}
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return s, err
	}
	return s, nil
}

// CreateSession inserts a new study session.
// Returns store.ErrAlreadyExists if the session ID already exists.
func (s *Store) CreateSession(ctx context.Context, session *domain.StudySession) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO study_sessions (
			id, user_id, subject, start_time, end_time, end_time_ns,
			total_minutes, stopped_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		session.Subject,
		formatTime(session.StartTime),
		formatTime(session.EndTime),
		session.EndTime.UnixNano(),
		session.TotalMinutes,
		nullTimeString(session.StoppedAt),
		formatTime(session.CreatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("study session already exists")
	}
	return err
}

// GetSession retrieves a session by ID.
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *Store) GetSession(ctx context.Context, id string) (*domain.StudySession, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM study_sessions WHERE id = ?`, id)

	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// StopSession closes a running session at the given instant. The update is
// guarded on stopped_at so concurrent stops cannot both succeed.
func (s *Store) StopSession(ctx context.Context, id string, at time.Time) (*domain.StudySession, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.IsStopped() {
		return nil, store.ErrSessionStopped
	}

	session.Stop(at)

	res, err := s.db.ExecContext(ctx, `
		UPDATE study_sessions
		SET end_time = ?, end_time_ns = ?, total_minutes = ?, stopped_at = ?
		WHERE id = ? AND stopped_at IS NULL`,
		formatTime(session.EndTime),
		session.EndTime.UnixNano(),
		session.TotalMinutes,
		nullTimeString(session.StoppedAt),
		id,
	)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, store.ErrSessionStopped
	}
	return session, nil
}

// FetchSessions returns the user's sessions whose end time lies in
// [from, to), ordered by end time.
func (s *Store) FetchSessions(ctx context.Context, userID string, from, to time.Time) ([]domain.StudySession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sessionColumns+` FROM study_sessions
		WHERE user_id = ? AND end_time_ns >= ? AND end_time_ns < ?
		ORDER BY end_time_ns, id`,
		userID, from.UnixNano(), to.UnixNano())
	if err != nil {
		return []domain.StudySession{}, err
	}
	defer rows.Close()

	sessions := []domain.StudySession{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return []domain.StudySession{}, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return []domain.StudySession{}, err
	}
	return sessions, nil
}
