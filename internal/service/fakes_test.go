package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedNow is a Wednesday.
var fixedNow = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.FetchTimeout = 200 * time.Millisecond
	cfg.Now = func() time.Time { return fixedNow }
	return cfg
}

func strPtr(s string) *string { return &s }

func completed(id, userID, subject string, end time.Time, minutes int) domain.StudySession {
	return domain.StudySession{
		ID:           id,
		UserID:       userID,
		Subject:      subject,
		StartTime:    end.Add(-time.Duration(minutes) * time.Minute),
		EndTime:      end,
		TotalMinutes: minutes,
		CreatedAt:    end.Add(-time.Duration(minutes) * time.Minute),
	}
}

var errBackend = errors.New("backend unavailable")

type fakeSessions struct {
	byUser map[string][]domain.StudySession
	fail   map[string]bool
	hang   map[string]bool
	panics map[string]bool
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		byUser: map[string][]domain.StudySession{},
		fail:   map[string]bool{},
		hang:   map[string]bool{},
		panics: map[string]bool{},
	}
}

func (f *fakeSessions) add(s ...domain.StudySession) {
	for _, sess := range s {
		f.byUser[sess.UserID] = append(f.byUser[sess.UserID], sess)
	}
}

func (f *fakeSessions) FetchSessions(_ context.Context, userID string, from, to time.Time) ([]domain.StudySession, error) {
	switch {
	case f.fail[userID]:
		return []domain.StudySession{}, errBackend
	case f.panics[userID]:
		panic("corrupt row")
	case f.hang[userID]:
		// Ignores its context on purpose.
		time.Sleep(2 * time.Second)
	}
	out := []domain.StudySession{}
	for _, s := range f.byUser[userID] {
		if !s.EndTime.Before(from) && s.EndTime.Before(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeCatalog struct {
	defs []domain.BadgeDefinition
	err  error
}

func (f *fakeCatalog) ListBadgeDefinitions(context.Context) ([]domain.BadgeDefinition, error) {
	return f.defs, f.err
}

type fakeUnlocks struct {
	mu      sync.Mutex
	records map[string][]domain.UnlockRecord
	failGet bool
}

func newFakeUnlocks() *fakeUnlocks {
	return &fakeUnlocks{records: map[string][]domain.UnlockRecord{}}
}

func (f *fakeUnlocks) GetUnlocks(_ context.Context, userID string) ([]domain.UnlockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return nil, errBackend
	}
	return append([]domain.UnlockRecord(nil), f.records[userID]...), nil
}

func (f *fakeUnlocks) RecordUnlock(_ context.Context, rec domain.UnlockRecord) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records[rec.UserID] {
		if r.BadgeName == rec.BadgeName {
			return false, nil
		}
	}
	f.records[rec.UserID] = append(f.records[rec.UserID], rec)
	return true, nil
}

func (f *fakeUnlocks) count(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records[userID])
}

type fakeFriends struct {
	pairs map[[2]string]bool
	fail  map[string]bool
}

func (f *fakeFriends) IsFriend(_ context.Context, userID, otherID string) (bool, error) {
	if f.fail[otherID] {
		return false, errBackend
	}
	return f.pairs[[2]string{userID, otherID}] || f.pairs[[2]string{otherID, userID}], nil
}

type fakeUsers struct {
	users []domain.User
	err   error
}

func (f *fakeUsers) ListUsers(context.Context) ([]domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.User(nil), f.users...), nil
}
