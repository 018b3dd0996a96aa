package leaderboard

import "github.com/HaMeD1379/Studly-sub001/internal/domain"

// FilterScope keeps selfUserID and every user for which isMember is true,
// preserving input order. It is how callers build a friends-only board.
func FilterScope(users []domain.User, selfUserID string, isMember func(userID string) bool) []domain.User {
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.ID == selfUserID || isMember(u.ID) {
			out = append(out, u)
		}
	}
	return out
}
