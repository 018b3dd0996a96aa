package domain

// SubjectSummary is the aggregate for one subject inside a window.
type SubjectSummary struct {
	Subject        string `json:"subject"`
	TotalMinutes   int64  `json:"total_minutes"`
	SessionsLogged int    `json:"sessions_logged"`
}

// PeriodSummary is the aggregate of a user's sessions inside a window.
// TotalMinutesStudied always equals the sum of the subject totals.
type PeriodSummary struct {
	TotalMinutesStudied int64                     `json:"total_minutes_studied"`
	SessionsLogged      int                       `json:"sessions_logged"`
	SubjectSummaries    map[string]SubjectSummary `json:"subject_summaries"`
}

// NewPeriodSummary returns a zero summary with an empty subject map.
func NewPeriodSummary() PeriodSummary {
	return PeriodSummary{SubjectSummaries: make(map[string]SubjectSummary)}
}
