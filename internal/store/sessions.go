package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
	"github.com/dgraph-io/badger/v4"
)

// CreateSession stores a session and its user/end-time index atomically.
func (s *Store) CreateSession(ctx context.Context, session *domain.StudySession) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := sessionKey(session.ID)
		if _, err := txn.Get(key); err == nil {
			return ErrAlreadyExists.WithMessage("study session already exists")
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := setJSON(txn, key, session); err != nil {
			return fmt.Errorf("set session: %w", err)
		}
		if err := txn.Set(sessionUserEndKey(session.UserID, session.EndTime, session.ID), []byte(session.ID)); err != nil {
			return fmt.Errorf("set user index: %w", err)
		}
		return nil
	})
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(ctx context.Context, id string) (*domain.StudySession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var session domain.StudySession
	err := s.db.View(func(txn *badger.Txn) error {
		err := getJSON(txn, sessionKey(id), &session)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// StopSession closes a running session at the given instant. The end-time
// index entry moves with the new end. A session can only be stopped once.
func (s *Store) StopSession(ctx context.Context, id string, at time.Time) (*domain.StudySession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var session domain.StudySession
	err := s.db.Update(func(txn *badger.Txn) error {
		err := getJSON(txn, sessionKey(id), &session)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		if session.IsStopped() {
			return ErrSessionStopped
		}

		oldIdx := sessionUserEndKey(session.UserID, session.EndTime, session.ID)
		session.Stop(at)

		if err := txn.Delete(oldIdx); err != nil {
			return fmt.Errorf("delete user index: %w", err)
		}
		if err := setJSON(txn, sessionKey(session.ID), &session); err != nil {
			return fmt.Errorf("set session: %w", err)
		}
		if err := txn.Set(sessionUserEndKey(session.UserID, session.EndTime, session.ID), []byte(session.ID)); err != nil {
			return fmt.Errorf("set user index: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// FetchSessions returns the user's sessions whose EndTime lies in [from, to),
// ordered by EndTime. It walks the user/end-time index from the first key at
// or after from and stops at the first key at or after to.
func (s *Store) FetchSessions(ctx context.Context, userID string, from, to time.Time) ([]domain.StudySession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(sessionUserPrefix(userID))
	start := []byte(sessionUserPrefix(userID) + sortableTime(from))
	stop := []byte(sessionUserPrefix(userID) + sortableTime(to))

	sessions := []domain.StudySession{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		var ids []string
		for it.Seek(start); it.ValidForPrefix(prefix); it.Next() {
			if string(it.Item().Key()) >= string(stop) {
				break
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(val []byte) error {
				ids = append(ids, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}

		for _, id := range ids {
			var session domain.StudySession
			if err := getJSON(txn, sessionKey(id), &session); err != nil {
				return fmt.Errorf("load session %s: %w", id, err)
			}
			sessions = append(sessions, session)
		}
		return nil
	})
	if err != nil {
		return []domain.StudySession{}, err
	}
	return sessions, nil
}
