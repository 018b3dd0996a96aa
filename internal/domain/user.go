package domain

import "time"

// User is a directory record. DisplayName may be absent; it is shown verbatim.
type User struct {
	ID          string    `json:"id"`
	DisplayName *string   `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Friendship is an accepted, symmetric friend link. The pair is stored with
// the lexically smaller id first.
type Friendship struct {
	UserA     string    `json:"user_a"`
	UserB     string    `json:"user_b"`
	CreatedAt time.Time `json:"created_at"`
}

// NewFriendship orders the pair so a and b map to the same record.
func NewFriendship(a, b string, now time.Time) Friendship {
	if b < a {
		a, b = b, a
	}
	return Friendship{UserA: a, UserB: b, CreatedAt: now}
}

// Other returns the member of the pair that is not userID.
func (f Friendship) Other(userID string) string {
	if f.UserA == userID {
		return f.UserB
	}
	return f.UserA
}
