package service

import (
	"time"

	"github.com/HaMeD1379/Studly-sub001/internal/badge"
)

// Config carries the tunables shared by the services.
type Config struct {
	// FetchTimeout bounds every individual adapter call.
	FetchTimeout time.Duration
	// MaxConcurrency bounds in-flight per-user fetches on a leaderboard.
	MaxConcurrency int
	// DefaultLimit and MaxLimit bound leaderboard page size.
	DefaultLimit int
	MaxLimit     int
	// MaxProjectedLength caps a session's planned length, and is how far past
	// now the stats fetch looks for sessions still in progress.
	MaxProjectedLength    time.Duration
	DefaultPlannedMinutes int
	Badges                badge.Options
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns the defaults used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		FetchTimeout:          2 * time.Second,
		MaxConcurrency:        16,
		DefaultLimit:          10,
		MaxLimit:              100,
		MaxProjectedLength:    24 * time.Hour,
		DefaultPlannedMinutes: 60,
		Now:                   time.Now,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = d.FetchTimeout
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = d.MaxConcurrency
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = d.DefaultLimit
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = d.MaxLimit
	}
	if c.MaxProjectedLength <= 0 {
		c.MaxProjectedLength = d.MaxProjectedLength
	}
	if c.DefaultPlannedMinutes <= 0 {
		c.DefaultPlannedMinutes = d.DefaultPlannedMinutes
	}
	if c.Now == nil {
		c.Now = d.Now
	}
	return c
}
