// Package leaderboard orders users by a metric and assigns standard
// competition ranks ("1224" ranking).
package leaderboard

import (
	"cmp"
	"slices"
	"strings"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
	"golang.org/x/text/cases"
)

// Input is one user's value for the metric being ranked.
type Input struct {
	UserID      string
	DisplayName *string
	MetricValue int64
}

// Rank orders entries by MetricValue descending and assigns ranks.
//
// Equal values share a rank and the next distinct value skips ahead by the
// size of the tie (100, 100, 60 ranks as 1, 1, 3). Within a tie, rows are
// ordered by display name under Unicode case folding; rows without a name come
// after named rows, and UserID breaks any remaining tie so the output is fully
// deterministic. IsSelf is set only on selfUserID's row.
//
// Rank does not filter: callers pass exactly the users to rank.
func Rank(entries []Input, selfUserID string) []domain.LeaderboardEntry {
	folder := cases.Fold()
	rows := make([]foldedInput, len(entries))
	for i, e := range entries {
		rows[i] = foldedInput{Input: e}
		if e.DisplayName != nil {
			rows[i].key = folder.String(*e.DisplayName)
		}
	}

	slices.SortFunc(rows, compareRows)

	out := make([]domain.LeaderboardEntry, len(rows))
	for i, r := range rows {
		rank := i + 1
		if i > 0 && r.MetricValue == rows[i-1].MetricValue {
			rank = out[i-1].Rank
		}
		out[i] = domain.LeaderboardEntry{
			UserID:      r.UserID,
			DisplayName: r.DisplayName,
			Rank:        rank,
			MetricValue: r.MetricValue,
			IsSelf:      r.UserID == selfUserID,
		}
	}
	return out
}

type foldedInput struct {
	Input
	key string
}

func compareRows(a, b foldedInput) int {
	if c := cmp.Compare(b.MetricValue, a.MetricValue); c != 0 {
		return c
	}
	switch {
	case a.DisplayName == nil && b.DisplayName != nil:
		return 1
	case a.DisplayName != nil && b.DisplayName == nil:
		return -1
	}
	if c := strings.Compare(a.key, b.key); c != 0 {
		return c
	}
	return strings.Compare(a.UserID, b.UserID)
}

// Self returns the entry flagged IsSelf, or nil.
func Self(entries []domain.LeaderboardEntry) *domain.LeaderboardEntry {
	for i := range entries {
		if entries[i].IsSelf {
			e := entries[i]
			return &e
		}
	}
	return nil
}

// Top returns at most limit entries. A non-positive limit returns all of them.
func Top(entries []domain.LeaderboardEntry, limit int) []domain.LeaderboardEntry {
	if limit <= 0 || limit >= len(entries) {
		return entries
	}
	return entries[:limit]
}

// Total sums the metric over entries.
func Total(entries []domain.LeaderboardEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.MetricValue
	}
	return total
}
