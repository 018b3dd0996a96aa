// Package summary folds study sessions into per-window activity summaries.
package summary

import (
	"slices"
	"time"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
)

// Aggregate summarizes the sessions whose EndTime falls inside w.
//
// Malformed sessions are skipped and reported as diagnostics; they never
// abort the summary. Subjects are grouped by exact string match. The result
// is a pure function of its inputs.
func Aggregate(sessions []domain.StudySession, w domain.Window) (domain.PeriodSummary, []domain.Diagnostic) {
	out := domain.NewPeriodSummary()
	var diags []domain.Diagnostic

	for i := range sessions {
		s := &sessions[i]
		if !w.Contains(s.EndTime) {
			continue
		}
		if err := s.Validate(); err != nil {
			diags = append(diags, domain.Diagnostic{
				Kind:      domain.DiagnosticMalformedSession,
				UserID:    s.UserID,
				SessionID: s.ID,
				Message:   err.Error(),
			})
			continue
		}

		minutes := int64(s.TotalMinutes)
		out.TotalMinutesStudied += minutes
		out.SessionsLogged++

		sub := out.SubjectSummaries[s.Subject]
		sub.Subject = s.Subject
		sub.TotalMinutes += minutes
		sub.SessionsLogged++
		out.SubjectSummaries[s.Subject] = sub
	}

	return out, diags
}

// InProgress returns the sessions still running at now, oldest first.
func InProgress(sessions []domain.StudySession, now time.Time) []domain.StudySession {
	var active []domain.StudySession
	for _, s := range sessions {
		if s.IsActive(now) {
			active = append(active, s)
		}
	}
	slices.SortStableFunc(active, func(a, b domain.StudySession) int {
		return a.StartTime.Compare(b.StartTime)
	})
	return active
}

// Subjects returns the subject summaries ordered by minutes descending, then
// by subject name.
func Subjects(s domain.PeriodSummary) []domain.SubjectSummary {
	out := make([]domain.SubjectSummary, 0, len(s.SubjectSummaries))
	for _, sub := range s.SubjectSummaries {
		out = append(out, sub)
	}
	slices.SortFunc(out, func(a, b domain.SubjectSummary) int {
		if a.TotalMinutes != b.TotalMinutes {
			if a.TotalMinutes > b.TotalMinutes {
				return -1
			}
			return 1
		}
		if a.Subject < b.Subject {
			return -1
		}
		if a.Subject > b.Subject {
			return 1
		}
		return 0
	})
	return out
}
