package domain

import "github.com/HaMeD1379/Studly-sub001/internal/errors"

// LeaderboardScope selects which users are ranked.
type LeaderboardScope string

// LeaderboardScope constants.
const (
	ScopeGlobal  LeaderboardScope = "global"
	ScopeFriends LeaderboardScope = "friends"
)

// Valid checks if the scope is valid.
func (s LeaderboardScope) Valid() bool {
	return s == ScopeGlobal || s == ScopeFriends
}

// LeaderboardMetric defines the ranking metric.
type LeaderboardMetric string

// LeaderboardMetric constants.
const (
	LeaderboardStudyTime  LeaderboardMetric = "studyTime"
	LeaderboardBadgeCount LeaderboardMetric = "badgeCount"
)

// Valid checks if the metric is valid.
func (m LeaderboardMetric) Valid() bool {
	return m == LeaderboardStudyTime || m == LeaderboardBadgeCount
}

// ParseLeaderboardScope converts a string to a LeaderboardScope.
func ParseLeaderboardScope(s string) (LeaderboardScope, error) {
	scope := LeaderboardScope(s)
	if !scope.Valid() {
		return "", errors.Configurationf("unknown leaderboard scope %q (must be global or friends)", s)
	}
	return scope, nil
}

// ParseLeaderboardMetric converts a string to a LeaderboardMetric.
func ParseLeaderboardMetric(s string) (LeaderboardMetric, error) {
	m := LeaderboardMetric(s)
	if !m.Valid() {
		return "", errors.Configurationf("unknown leaderboard metric %q (must be studyTime or badgeCount)", s)
	}
	return m, nil
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	UserID      string  `json:"user_id"`
	DisplayName *string `json:"display_name"`
	Rank        int     `json:"rank"`
	MetricValue int64   `json:"metric_value"`
	IsSelf      bool    `json:"is_self"`
}
