package service

import (
	"testing"
	"time"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
	"github.com/HaMeD1379/Studly-sub001/internal/errors"
	"github.com/HaMeD1379/Studly-sub001/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPeriodSummary_Today(t *testing.T) {
	sessions := newFakeSessions()
	sessions.add(
		completed("s1", "alice", "Math", fixedNow.Add(-5*time.Hour), 90),
		completed("s2", "alice", "Bio", fixedNow.Add(-3*time.Hour), 45),
		completed("s3", "alice", "Math", fixedNow.AddDate(0, 0, -1), 30),
		completed("s4", "bob", "Math", fixedNow.Add(-time.Hour), 20),
	)
	svc := NewStatsService(sessions, testConfig(), metrics.New(), testLogger())

	res, err := svc.GetPeriodSummary(t.Context(), "alice", domain.WindowToday)
	require.NoError(t, err)

	assert.Equal(t, int64(135), res.Summary.TotalMinutesStudied)
	assert.Equal(t, 2, res.Summary.SessionsLogged)
	assert.Equal(t, domain.SubjectSummary{Subject: "Math", TotalMinutes: 90, SessionsLogged: 1}, res.Summary.SubjectSummaries["Math"])
	assert.Equal(t, domain.SubjectSummary{Subject: "Bio", TotalMinutes: 45, SessionsLogged: 1}, res.Summary.SubjectSummaries["Bio"])
	require.Len(t, res.Subjects, 2)
	assert.Equal(t, "Math", res.Subjects[0].Subject)
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), res.Window.From)
	assert.Equal(t, fixedNow, res.Window.To)
}

func TestGetPeriodSummary_WeekAndAllTime(t *testing.T) {
	sessions := newFakeSessions()
	sessions.add(
		completed("s1", "alice", "Math", fixedNow.Add(-time.Hour), 10),
		completed("s2", "alice", "Math", time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC), 20),  // Sunday
		completed("s3", "alice", "Math", time.Date(2025, 3, 8, 23, 0, 0, 0, time.UTC), 40), // Saturday
	)
	svc := NewStatsService(sessions, testConfig(), nil, testLogger())

	week, err := svc.GetPeriodSummary(t.Context(), "alice", domain.WindowWeek)
	require.NoError(t, err)
	assert.Equal(t, int64(30), week.Summary.TotalMinutesStudied)

	all, err := svc.GetPeriodSummary(t.Context(), "alice", domain.WindowAllTime)
	require.NoError(t, err)
	assert.Equal(t, int64(70), all.Summary.TotalMinutesStudied)
}

func TestGetPeriodSummary_InProgressNotCounted(t *testing.T) {
	sessions := newFakeSessions()
	running := domain.NewStudySession("s-run", "alice", "Math", fixedNow.Add(-30*time.Minute), 60)
	sessions.add(*running, completed("s1", "alice", "Math", fixedNow.Add(-2*time.Hour), 25))
	svc := NewStatsService(sessions, testConfig(), nil, testLogger())

	res, err := svc.GetPeriodSummary(t.Context(), "alice", domain.WindowToday)
	require.NoError(t, err)

	assert.Equal(t, int64(25), res.Summary.TotalMinutesStudied)
	require.Len(t, res.InProgress, 1)
	assert.Equal(t, "s-run", res.InProgress[0].ID)
}

func TestGetPeriodSummary_MalformedSkipped(t *testing.T) {
	sessions := newFakeSessions()
	bad := completed("s-bad", "alice", "Math", fixedNow.Add(-time.Hour), 10)
	bad.TotalMinutes = -5
	sessions.add(bad, completed("s1", "alice", "Math", fixedNow.Add(-time.Hour), 15))
	svc := NewStatsService(sessions, testConfig(), metrics.New(), testLogger())

	res, err := svc.GetPeriodSummary(t.Context(), "alice", domain.WindowToday)
	require.NoError(t, err)

	assert.Equal(t, int64(15), res.Summary.TotalMinutesStudied)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, domain.DiagnosticMalformedSession, res.Diagnostics[0].Kind)
	assert.Equal(t, "s-bad", res.Diagnostics[0].SessionID)
	assert.Equal(t, "alice", res.Diagnostics[0].UserID)
}

func TestGetPeriodSummary_FetchFailureIsZeroSummary(t *testing.T) {
	sessions := newFakeSessions()
	sessions.fail["alice"] = true
	svc := NewStatsService(sessions, testConfig(), nil, testLogger())

	res, err := svc.GetPeriodSummary(t.Context(), "alice", domain.WindowToday)
	require.NoError(t, err)

	assert.Zero(t, res.Summary.TotalMinutesStudied)
	assert.Zero(t, res.Summary.SessionsLogged)
	assert.NotNil(t, res.Summary.SubjectSummaries)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, domain.DiagnosticDataFetchFailure, res.Diagnostics[0].Kind)
	assert.Equal(t, sourceSessions, res.Diagnostics[0].Source)
}

func TestGetPeriodSummary_Rejects(t *testing.T) {
	svc := NewStatsService(newFakeSessions(), testConfig(), nil, testLogger())

	_, err := svc.GetPeriodSummary(t.Context(), "alice", domain.WindowKind("month"))
	assert.ErrorIs(t, err, errors.ErrConfiguration)

	_, err = svc.GetPeriodSummary(t.Context(), "", domain.WindowToday)
	assert.ErrorIs(t, err, errors.ErrValidation)
}
