package leaderboard

import (
	"testing"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func name(s string) *string { return &s }

func ranks(entries []domain.LeaderboardEntry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Rank
	}
	return out
}

func ids(entries []domain.LeaderboardEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.UserID
	}
	return out
}

func TestRank_CompetitionRanking(t *testing.T) {
	got := Rank([]Input{
		{UserID: "a", DisplayName: name("A"), MetricValue: 100},
		{UserID: "b", DisplayName: name("B"), MetricValue: 100},
		{UserID: "c", DisplayName: name("C"), MetricValue: 60},
	}, "")

	assert.Equal(t, []int{1, 1, 3}, ranks(got))
}

func TestRank_AliceBobCarol(t *testing.T) {
	got := Rank([]Input{
		{UserID: "carol", DisplayName: name("Carol"), MetricValue: 60},
		{UserID: "bob", DisplayName: name("Bob"), MetricValue: 100},
		{UserID: "alice", DisplayName: name("Alice"), MetricValue: 100},
	}, "carol")

	require.Len(t, got, 3)
	assert.Equal(t, []string{"alice", "bob", "carol"}, ids(got))
	assert.Equal(t, []int{1, 1, 3}, ranks(got))
	assert.False(t, got[0].IsSelf)
	assert.False(t, got[1].IsSelf)
	assert.True(t, got[2].IsSelf)

	self := Self(got)
	require.NotNil(t, self)
	assert.Equal(t, 3, self.Rank)
}

func TestRank_TieBreakIsCaseInsensitive(t *testing.T) {
	got := Rank([]Input{
		{UserID: "1", DisplayName: name("bob"), MetricValue: 50},
		{UserID: "2", DisplayName: name("Alice"), MetricValue: 50},
		{UserID: "3", DisplayName: name("ÄRGER"), MetricValue: 50},
		{UserID: "4", DisplayName: name("Carl"), MetricValue: 50},
	}, "")

	assert.Equal(t, []string{"2", "1", "4", "3"}, ids(got))
	assert.Equal(t, []int{1, 1, 1, 1}, ranks(got))
}

func TestRank_NilNamesSortLastAndPassThrough(t *testing.T) {
	got := Rank([]Input{
		{UserID: "z-anon", MetricValue: 10},
		{UserID: "a-anon", MetricValue: 10},
		{UserID: "named", DisplayName: name("Zed"), MetricValue: 10},
	}, "a-anon")

	assert.Equal(t, []string{"named", "a-anon", "z-anon"}, ids(got))
	assert.Nil(t, got[1].DisplayName)
	assert.True(t, got[1].IsSelf)
}

func TestRank_SelfAbsentIsNotSynthesized(t *testing.T) {
	got := Rank([]Input{{UserID: "a", MetricValue: 1}}, "missing")

	require.Len(t, got, 1)
	assert.Nil(t, Self(got))
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil, "me"))
}

func TestRank_StableUnderPermutation(t *testing.T) {
	in := []Input{
		{UserID: "u1", DisplayName: name("Dana"), MetricValue: 30},
		{UserID: "u2", DisplayName: name("dana"), MetricValue: 30},
		{UserID: "u3", DisplayName: name("Eve"), MetricValue: 90},
		{UserID: "u4", MetricValue: 30},
		{UserID: "u5", DisplayName: name("Finn"), MetricValue: 0},
	}
	want := Rank(in, "u2")

	reversed := make([]Input, len(in))
	for i := range in {
		reversed[len(in)-1-i] = in[i]
	}
	rotated := append(append([]Input{}, in[2:]...), in[:2]...)

	assert.Equal(t, want, Rank(reversed, "u2"))
	assert.Equal(t, want, Rank(rotated, "u2"))
	assert.Equal(t, []int{1, 2, 2, 2, 5}, ranks(want))
}

func TestRank_RankInvariants(t *testing.T) {
	in := []Input{
		{UserID: "a", MetricValue: 5}, {UserID: "b", MetricValue: 9}, {UserID: "c", MetricValue: 9},
		{UserID: "d", MetricValue: 1}, {UserID: "e", MetricValue: 5}, {UserID: "f", MetricValue: 5},
	}

	got := Rank(in, "")

	for i, e := range got {
		strictlyGreater := 0
		for _, other := range got {
			if other.MetricValue > e.MetricValue {
				strictlyGreater++
			}
		}
		assert.Equal(t, strictlyGreater+1, e.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].MetricValue, e.MetricValue)
		}
	}
}

func TestTopAndTotal(t *testing.T) {
	got := Rank([]Input{{UserID: "a", MetricValue: 3}, {UserID: "b", MetricValue: 2}, {UserID: "c", MetricValue: 1}}, "")

	assert.Len(t, Top(got, 2), 2)
	assert.Len(t, Top(got, 0), 3)
	assert.Len(t, Top(got, 10), 3)
	assert.Equal(t, int64(6), Total(got))
}
