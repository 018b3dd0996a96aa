package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
	"github.com/dgraph-io/badger/v4"
)

// GetUnlocks returns every unlock record for a user, ordered by badge name.
func (s *Store) GetUnlocks(ctx context.Context, userID string) ([]domain.UnlockRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := []domain.UnlockRecord{}
	err := s.db.View(func(txn *badger.Txn) error {
		return iteratePrefix(txn, unlockUserPrefix(userID), func(item *badger.Item) error {
			return item.Value(func(val []byte) error {
				var rec domain.UnlockRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				records = append(records, rec)
				return nil
			})
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// RecordUnlock persists an unlock. The first record for a user and badge
// wins; later calls leave it untouched and report created == false.
func (s *Store) RecordUnlock(ctx context.Context, rec domain.UnlockRecord) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	created := false
	err := s.db.Update(func(txn *badger.Txn) error {
		key := unlockKey(rec.UserID, rec.BadgeName)
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		created = true
		return setJSON(txn, key, rec)
	})
	if errors.Is(err, badger.ErrConflict) {
		// A concurrent writer recorded the same unlock first.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return created, nil
}
