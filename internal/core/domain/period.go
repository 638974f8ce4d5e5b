package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	quarterPattern = regexp.MustCompile(`^(\d{4})Q([1-4])$`)
	monthPattern   = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[0-2])$`)
)

// Period is a closed date range identified by a label such as "2024Q1" or "2024-03".
type Period struct {
	Label string
	Start time.Time // First day, UTC midnight
	End   time.Time // Last day, UTC midnight, inclusive
}

// ParsePeriod parses a quarter ("2024Q1") or month ("2024-03") label.
func ParsePeriod(label string) (Period, error) {
	if m := quarterPattern.FindStringSubmatch(label); m != nil {
		year, _ := strconv.Atoi(m[1])
		q, _ := strconv.Atoi(m[2])
		start := time.Date(year, time.Month((q-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		return Period{Label: label, Start: start, End: start.AddDate(0, 3, -1)}, nil
	}
	if m := monthPattern.FindStringSubmatch(label); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		return Period{Label: label, Start: start, End: start.AddDate(0, 1, -1)}, nil
	}
	return Period{}, fmt.Errorf("unsupported period format: %q", label)
}

// IsZero reports whether the period was never set.
func (p Period) IsZero() bool { return p.Label == "" && p.Start.IsZero() && p.End.IsZero() }

// Contains reports whether day d falls within the period, bounds inclusive.
func (p Period) Contains(d time.Time) bool {
	d = DateOnly(d)
	return !d.Before(p.Start) && !d.After(p.End)
}

// DateOnly truncates t to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
