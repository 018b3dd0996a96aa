package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
	"github.com/dgraph-io/badger/v4"
)

// UpsertUser creates or replaces a directory record.
func (s *Store) UpsertUser(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, userKey(user.ID), user)
	})
}

// GetUser retrieves a directory record by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user domain.User
	err := s.db.View(func(txn *badger.Txn) error {
		err := getJSON(txn, userKey(id), &user)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every directory record ordered by ID.
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	users := []domain.User{}
	err := s.db.View(func(txn *badger.Txn) error {
		return iteratePrefix(txn, userPrefix, func(item *badger.Item) error {
			return item.Value(func(val []byte) error {
				var u domain.User
				if err := json.Unmarshal(val, &u); err != nil {
					return fmt.Errorf("decode user %s: %w", item.Key(), err)
				}
				users = append(users, u)
				return nil
			})
		})
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// AddFriendship links two users in both directions.
func (s *Store) AddFriendship(ctx context.Context, userID, friendID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if userID == friendID {
		return ErrInvalidInput.WithMessage("a user cannot befriend themselves")
	}

	f := domain.NewFriendship(userID, friendID, at)
	return s.db.Update(func(txn *badger.Txn) error {
		if err := setJSON(txn, friendKey(userID, friendID), f); err != nil {
			return err
		}
		return setJSON(txn, friendKey(friendID, userID), f)
	})
}

// RemoveFriendship unlinks two users.
func (s *Store) RemoveFriendship(ctx context.Context, userID, friendID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(friendKey(userID, friendID)); err != nil {
			return err
		}
		return txn.Delete(friendKey(friendID, userID))
	})
}

// IsFriend reports whether the two users share an accepted friendship.
func (s *Store) IsFriend(ctx context.Context, userID, otherID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.exists(friendKey(userID, otherID))
}

// ListFriendIDs returns the IDs of a user's friends, ordered by ID.
func (s *Store) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := friendPrefix + userID + ":"
	ids := []string{}
	err := s.db.View(func(txn *badger.Txn) error {
		return iteratePrefix(txn, prefix, func(item *badger.Item) error {
			ids = append(ids, string(item.Key()[len(prefix):]))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
