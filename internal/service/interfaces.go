// Package service orchestrates adapter fetches and threads the results
// through the aggregation, badge and ranking packages.
package service

import (
	"context"
	"time"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
)

// SessionStore returns a user's sessions whose EndTime falls in [from, to).
// On failure it returns an empty slice and an error.
type SessionStore interface {
	FetchSessions(ctx context.Context, userID string, from, to time.Time) ([]domain.StudySession, error)
}

// BadgeCatalog lists badge definitions in catalog order.
type BadgeCatalog interface {
	ListBadgeDefinitions(ctx context.Context) ([]domain.BadgeDefinition, error)
}

// UnlockStore reads and writes unlock records. RecordUnlock keeps the first
// record per (user, badge) and reports whether a new one was written.
type UnlockStore interface {
	GetUnlocks(ctx context.Context, userID string) ([]domain.UnlockRecord, error)
	RecordUnlock(ctx context.Context, rec domain.UnlockRecord) (bool, error)
}

// FriendChecker answers friend-set membership.
type FriendChecker interface {
	IsFriend(ctx context.Context, userID, otherID string) (bool, error)
}

// UserDirectory lists the users a global leaderboard ranks.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// SessionWriter persists the session lifecycle.
type SessionWriter interface {
	CreateSession(ctx context.Context, session *domain.StudySession) error
	GetSession(ctx context.Context, id string) (*domain.StudySession, error)
	StopSession(ctx context.Context, id string, at time.Time) (*domain.StudySession, error)
}
