package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
	"github.com/HaMeD1379/Studly-sub001/internal/store"
)

func scanUser(scanner interface{ Scan(dest ...any) error }) (domain.User, error) {
	var (
		u           domain.User
		displayName sql.NullString
		createdAt   string
	)
	if err := scanner.Scan(&u.ID, &displayName, &createdAt); err != nil {
		return u, err
	}
	if displayName.Valid {
		name := displayName.String
		u.DisplayName = &name
	}
	var err error
	u.CreatedAt, err = parseTime(createdAt)
	return u, err
}

// UpsertUser creates or replaces a directory record.
func (s *Store) UpsertUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, display_name, created_at) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET display_name = excluded.display_name`,
		user.ID, nullableString(user.DisplayName), formatTime(user.CreatedAt))
	return err
}

// GetUser retrieves a directory record by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, display_name, created_at FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns every directory record ordered by ID.
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, display_name, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// AddFriendship links two users in both directions.
func (s *Store) AddFriendship(ctx context.Context, userID, friendID string, at time.Time) error {
	if userID == friendID {
		return store.ErrInvalidInput.WithMessage("a user cannot befriend themselves")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, pair := range [][2]string{{userID, friendID}, {friendID, userID}} {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO friendships (user_id, friend_id, created_at) VALUES (?, ?, ?)
			ON CONFLICT (user_id, friend_id) DO NOTHING`,
			pair[0], pair[1], formatTime(at)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RemoveFriendship unlinks two users.
func (s *Store) RemoveFriendship(ctx context.Context, userID, friendID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM friendships
		WHERE (user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)`,
		userID, friendID, friendID, userID)
	return err
}

// IsFriend reports whether the two users share an accepted friendship.
func (s *Store) IsFriend(ctx context.Context, userID, otherID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM friendships WHERE user_id = ? AND friend_id = ?`, userID, otherID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListFriendIDs returns the IDs of a user's friends, ordered by ID.
func (s *Store) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT friend_id FROM friendships WHERE user_id = ? ORDER BY friend_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
