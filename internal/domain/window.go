package domain

import (
	"time"

	"github.com/HaMeD1379/Studly-sub001/internal/errors"
)

// WindowKind names a time window relative to now.
type WindowKind string

// WindowKind constants.
const (
	WindowToday   WindowKind = "today"
	WindowWeek    WindowKind = "week"
	WindowAllTime WindowKind = "allTime"
)

// Valid returns true if the kind is a recognized value.
func (k WindowKind) Valid() bool {
	switch k {
	case WindowToday, WindowWeek, WindowAllTime:
		return true
	default:
		return false
	}
}

// ParseWindowKind converts a string to a WindowKind.
func ParseWindowKind(s string) (WindowKind, error) {
	k := WindowKind(s)
	if !k.Valid() {
		return "", errors.Configurationf("unknown window kind %q (must be today, week, or allTime)", s)
	}
	return k, nil
}

// Resolve returns the concrete window for this kind at now.
func (k WindowKind) Resolve(now time.Time) (Window, error) {
	switch k {
	case WindowToday:
		return Today(now), nil
	case WindowWeek:
		return CurrentWeek(now), nil
	case WindowAllTime:
		return AllTime(now), nil
	default:
		return Window{}, errors.Configurationf("unknown window kind %q", string(k))
	}
}

// Window is a half-open time range [From, To).
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// Today returns the window from local midnight of now's day until now.
func Today(now time.Time) Window {
	return Window{From: startOfDay(now), To: now}
}

// CurrentWeek returns the window from the most recent Sunday at 00:00
// (today, if today is Sunday) until now.
func CurrentWeek(now time.Time) Window {
	day := startOfDay(now)
	return Window{From: day.AddDate(0, 0, -int(day.Weekday())), To: now}
}

// AllTime returns the window from the Unix epoch until now.
func AllTime(now time.Time) Window {
	return Window{From: time.Unix(0, 0).In(now.Location()), To: now}
}

// startOfDay zeroes the time of day in t's own location. Building the value
// from the calendar date keeps DST transitions and month/year rollovers out
// of the arithmetic.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
