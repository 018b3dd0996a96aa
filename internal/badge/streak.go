package badge

import (
	"slices"
	"time"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
)

const dateLayout = "2006-01-02"

// StreakDays returns the length of the most recent run of consecutive
// calendar days with at least one completed session.
//
// Days are taken from each session's EndTime in now's location. Sessions still
// running at now and malformed sessions do not count. When requireActive is
// set, a run whose latest day is before yesterday counts as zero.
func StreakDays(sessions []domain.StudySession, now time.Time, requireActive bool) int {
	loc := now.Location()

	seen := make(map[string]bool)
	var days []time.Time
	for i := range sessions {
		s := &sessions[i]
		if s.IsActive(now) || s.Validate() != nil {
			continue
		}
		end := s.EndTime.In(loc)
		key := end.Format(dateLayout)
		if seen[key] {
			continue
		}
		seen[key] = true
		y, m, d := end.Date()
		days = append(days, time.Date(y, m, d, 0, 0, 0, 0, loc))
	}
	if len(days) == 0 {
		return 0
	}

	slices.SortFunc(days, func(a, b time.Time) int { return b.Compare(a) })

	if requireActive {
		y, m, d := now.Date()
		yesterday := time.Date(y, m, d-1, 0, 0, 0, 0, loc)
		if days[0].Before(yesterday) {
			return 0
		}
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		y, m, d := days[i-1].Date()
		if !days[i].Equal(time.Date(y, m, d-1, 0, 0, 0, 0, loc)) {
			break
		}
		streak++
	}
	return streak
}
