package domain

import (
	"fmt"
	"time"
)

// StudySession is one bounded period of study by one user on one subject.
//
// A session is created when the user starts studying, with EndTime set to the
// projected end. It is mutated exactly once when the user stops, and is
// immutable afterward. TotalMinutes is authoritative for aggregation; it is
// not recomputed from the timestamps.
type StudySession struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Subject      string    `json:"subject"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	TotalMinutes int       `json:"total_minutes"`
	// StoppedAt is set once when the user stops the session.
	StoppedAt *time.Time `json:"stopped_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewStudySession creates a session that starts at now and is projected to
// run for plannedMinutes.
func NewStudySession(id, userID, subject string, now time.Time, plannedMinutes int) *StudySession {
	return &StudySession{
		ID:           id,
		UserID:       userID,
		Subject:      subject,
		StartTime:    now,
		EndTime:      now.Add(time.Duration(plannedMinutes) * time.Minute),
		TotalMinutes: plannedMinutes,
		CreatedAt:    now,
	}
}

// IsActive reports whether the session is still running at now.
// The comparison is strict: a session ending exactly at now is complete.
func (s *StudySession) IsActive(now time.Time) bool {
	return s.EndTime.After(now)
}

// IsStopped reports whether the user already stopped the session.
func (s *StudySession) IsStopped() bool {
	return s.StoppedAt != nil
}

// Stop closes the session at now. Minutes are whole elapsed minutes.
func (s *StudySession) Stop(now time.Time) {
	if now.Before(s.StartTime) {
		now = s.StartTime
	}
	s.EndTime = now
	s.TotalMinutes = int(now.Sub(s.StartTime) / time.Minute)
	stopped := now
	s.StoppedAt = &stopped
}

// Validate reports a *MalformedSessionError when the session violates its
// invariants.
func (s *StudySession) Validate() error {
	switch {
	case s.EndTime.Before(s.StartTime):
		return &MalformedSessionError{SessionID: s.ID, Reason: "end time before start time"}
	case s.TotalMinutes < 0:
		return &MalformedSessionError{SessionID: s.ID, Reason: fmt.Sprintf("negative total minutes %d", s.TotalMinutes)}
	default:
		return nil
	}
}

// MalformedSessionError describes a session record that cannot be aggregated.
type MalformedSessionError struct {
	SessionID string
	Reason    string
}

func (e *MalformedSessionError) Error() string {
	return fmt.Sprintf("malformed session %s: %s", e.SessionID, e.Reason)
}
