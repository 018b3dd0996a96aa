// Package badge evaluates badge unlock state and progress from a user's
// aggregated study activity.
package badge

import (
	"math"
	"time"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
	"github.com/HaMeD1379/Studly-sub001/internal/errors"
)

// Options tunes evaluation.
type Options struct {
	// IgnoreUnlockRecords evaluates unlock state purely on current metrics,
	// so a badge can appear locked again after its metric drops. Records
	// still supply EarnedAt for badges that are unlocked. The default keeps
	// every recorded unlock.
	IgnoreUnlockRecords bool
	// RequireActiveStreak counts a streak only while its latest day is today
	// or yesterday.
	RequireActiveStreak bool
}

// Input is everything Evaluate needs for one user.
type Input struct {
	// Summary is the user's all-time summary.
	Summary domain.PeriodSummary
	// Sessions feed the streak metric.
	Sessions []domain.StudySession
	Catalog  []domain.BadgeDefinition
	Unlocks  []domain.UnlockRecord
	Now      time.Time
	Options  Options
}

// Evaluate returns one status per catalog entry, in catalog order.
//
// A badge is unlocked when its metric reaches the threshold or when an
// unlock record exists for it. A catalog entry with a non-positive threshold
// or an unknown metric fails the whole evaluation with a configuration error.
func Evaluate(in Input) ([]domain.BadgeStatus, error) {
	records := make(map[string]domain.UnlockRecord, len(in.Unlocks))
	for _, r := range in.Unlocks {
		if existing, ok := records[r.BadgeName]; !ok || r.EarnedAt.Before(existing.EarnedAt) {
			records[r.BadgeName] = r
		}
	}

	var streak int64
	var streakDone bool

	statuses := make([]domain.BadgeStatus, 0, len(in.Catalog))
	for _, def := range in.Catalog {
		if def.Threshold <= 0 {
			return nil, errors.Configurationf("badge %q has non-positive threshold %v", def.Name, def.Threshold)
		}

		var value int64
		switch def.Metric {
		case domain.MetricTotalMinutes:
			value = in.Summary.TotalMinutesStudied
		case domain.MetricSessionCount:
			value = int64(in.Summary.SessionsLogged)
		case domain.MetricStreakDays:
			if !streakDone {
				streak = int64(StreakDays(in.Sessions, in.Now, in.Options.RequireActiveStreak))
				streakDone = true
			}
			value = streak
		default:
			return nil, errors.Configurationf("badge %q has unknown metric %q", def.Name, def.Metric)
		}

		status := domain.BadgeStatus{
			Badge:           def,
			CurrentValue:    value,
			ProgressPercent: Progress(value, def.Threshold),
		}

		rec, recorded := records[def.Name]
		metMetric := float64(value) >= def.Threshold
		switch {
		case recorded && (metMetric || !in.Options.IgnoreUnlockRecords):
			earned := rec.EarnedAt
			status.Unlocked = true
			status.EarnedAt = &earned
		case metMetric:
			status.Unlocked = true
		}

		if status.Unlocked {
			status.ProgressPercent = 100
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}

// Progress returns round(100 * value / threshold) clamped to [0, 100].
// threshold must be positive.
func Progress(value int64, threshold float64) int {
	pct := math.Round(100 * float64(value) / threshold)
	switch {
	case pct <= 0:
		return 0
	case pct >= 100:
		return 100
	default:
		return int(pct)
	}
}

// NeedsRecord reports whether s is unlocked by its metric but has no unlock
// record yet.
func NeedsRecord(s domain.BadgeStatus) bool {
	return s.Unlocked && s.EarnedAt == nil
}

// CountUnlocked returns how many statuses are unlocked.
func CountUnlocked(statuses []domain.BadgeStatus) int {
	n := 0
	for _, s := range statuses {
		if s.Unlocked {
			n++
		}
	}
	return n
}

// NextUnlock returns the locked badge closest to unlocking. Ties keep
// catalog order. It returns nil when every badge is unlocked.
func NextUnlock(statuses []domain.BadgeStatus) *domain.BadgeStatus {
	var next *domain.BadgeStatus
	for i := range statuses {
		s := &statuses[i]
		if s.Unlocked {
			continue
		}
		if next == nil || s.ProgressPercent > next.ProgressPercent {
			next = s
		}
	}
	return next
}
