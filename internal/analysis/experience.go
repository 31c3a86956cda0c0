package analysis

import (
	"strings"
	"time"

	"github.com/jonathan/career-matcher/internal/types"
)

const hoursPerYear = 24 * 365.25

// dateLayouts are tried in order when reading work-experience dates
var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006",
	"01/2006",
	"1/2006",
	"Jan 2006",
	"January 2006",
}

// ParseDate reads a work-experience date. It reports false instead of failing.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ExperienceYears sums (end - start) in years across entries. Current entries end
// at now. Entries with a missing or unparsable date, or an end before the start,
// contribute nothing.
func ExperienceYears(experience []types.WorkExperience, now time.Time) float64 {
	total := 0.0
	for _, exp := range experience {
		total += entryYears(exp, now)
	}
	return total
}

func entryYears(exp types.WorkExperience, now time.Time) float64 {
	start, ok := ParseDate(exp.StartDate)
	if !ok {
		return 0
	}
	var end time.Time
	if exp.Current {
		end = now
	} else if end, ok = ParseDate(exp.EndDate); !ok {
		return 0
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start).Hours() / hoursPerYear
}
