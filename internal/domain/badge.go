package domain

import "time"

// BadgeMetric names the quantity a badge threshold is measured against.
type BadgeMetric string

// BadgeMetric constants.
const (
	MetricTotalMinutes BadgeMetric = "totalMinutes"
	MetricSessionCount BadgeMetric = "sessionCount"
	MetricStreakDays   BadgeMetric = "streakDays"
)

// Valid returns true if the metric is a recognized value.
func (m BadgeMetric) Valid() bool {
	switch m {
	case MetricTotalMinutes, MetricSessionCount, MetricStreakDays:
		return true
	default:
		return false
	}
}

// BadgeDefinition is a catalog entry. Name is the catalog key.
type BadgeDefinition struct {
	Name        string      `json:"name" yaml:"name" validate:"required,max=64"`
	Description string      `json:"description" yaml:"description" validate:"max=512"`
	Metric      BadgeMetric `json:"metric" yaml:"metric" validate:"required,oneof=totalMinutes sessionCount streakDays"`
	Threshold   float64     `json:"threshold" yaml:"threshold" validate:"gt=0"`
}

// UnlockRecord marks that a user earned a badge. Records are never removed.
type UnlockRecord struct {
	UserID    string    `json:"user_id"`
	BadgeName string    `json:"badge_name"`
	EarnedAt  time.Time `json:"earned_at"`
}

// BadgeStatus is the evaluated state of one badge for one user.
// Unlocked implies ProgressPercent == 100.
type BadgeStatus struct {
	Badge           BadgeDefinition `json:"badge"`
	Unlocked        bool            `json:"unlocked"`
	EarnedAt        *time.Time      `json:"earned_at,omitempty"`
	ProgressPercent int             `json:"progress_percent"`
	CurrentValue    int64           `json:"current_value"`
}
