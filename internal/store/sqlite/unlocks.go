package sqlite

import (
	"context"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
)

// GetUnlocks returns every unlock record for a user, ordered by badge name.
func (s *Store) GetUnlocks(ctx context.Context, userID string) ([]domain.UnlockRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, badge_name, earned_at FROM badge_unlocks
		WHERE user_id = ? ORDER BY badge_name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.UnlockRecord{}
	for rows.Next() {
		var (
			rec      domain.UnlockRecord
			earnedAt string
		)
		if err := rows.Scan(&rec.UserID, &rec.BadgeName, &earnedAt); err != nil {
			return nil, err
		}
		if rec.EarnedAt, err = parseTime(earnedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// RecordUnlock persists an unlock. The first record for a user and badge
// wins; later calls leave it untouched and report created == false.
func (s *Store) RecordUnlock(ctx context.Context, rec domain.UnlockRecord) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO badge_unlocks (user_id, badge_name, earned_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, badge_name) DO NOTHING`,
		rec.UserID, rec.BadgeName, formatTime(rec.EarnedAt))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
