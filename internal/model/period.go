package model

import (
	"fmt"
	"time"
)

// DateFormat is the calendar-day layout used in files and flags.
const DateFormat = "2006-01-02"

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// DaysBetween returns the whole number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// Period is an inclusive date window. A zero bound is unset.
type Period struct {
	From time.Time
	To   time.Time
}

// AllTime is the unbounded period.
var AllTime = Period{}

// Through returns the period covering all history up to and including day.
func Through(day time.Time) Period {
	return Period{To: Day(day)}
}

// Between returns the inclusive period [from, to].
func Between(from, to time.Time) Period {
	return Period{From: Day(from), To: Day(to)}
}

// Bounded reports whether the period has a From bound.
func (p Period) Bounded() bool {
	return !p.From.IsZero()
}

// Contains reports whether the day of d lies inside the period.
func (p Period) Contains(d time.Time) bool {
	d = Day(d)
	if !p.From.IsZero() && d.Before(Day(p.From)) {
		return false
	}
	if !p.To.IsZero() && d.After(Day(p.To)) {
		return false
	}
	return true
}

// Empty reports whether From falls after To, which contains no day.
func (p Period) Empty() bool {
	return !p.From.IsZero() && !p.To.IsZero() && Day(p.From).After(Day(p.To))
}

func (p Period) String() string {
	from, to := "beginning", "present"
	if !p.From.IsZero() {
		from = p.From.Format(DateFormat)
	}
	if !p.To.IsZero() {
		to = p.To.Format(DateFormat)
	}
	return from + " to " + to
}
