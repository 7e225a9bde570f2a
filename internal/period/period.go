// Package period maps (period kind, reference date) pairs to concrete
// half-open time windows. All resolution happens in UTC so that window
// bounds never depend on the server's local timezone.
package period

import (
	"time"

	"github.com/brightdesk/finance-api/internal/domain"
)

// Kind is the granularity of a reporting window.
type Kind string

const (
	Day   Kind = "day"
	Week  Kind = "week"
	Month Kind = "month"
	Year  Kind = "year"
)

// ParseKind validates a period kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Day, Week, Month, Year:
		return Kind(s), nil
	default:
		return "", &domain.ErrInvalidPeriod{Kind: s}
	}
}

// Resolve returns the half-open window [from, to) containing reference
// for the given kind. It is a pure function: no I/O, deterministic.
func Resolve(kind Kind, reference time.Time) (domain.PeriodWindow, error) {
	if reference.IsZero() {
		return domain.PeriodWindow{}, &domain.ErrInvalidDate{}
	}

	ref := reference.UTC()
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	switch kind {
	case Day:
		return domain.PeriodWindow{From: day, To: day.AddDate(0, 0, 1)}, nil
	case Week:
		// Monday-anchored regardless of locale. Go's Weekday has
		// Sunday == 0, so shift it to a Monday == 0 index.
		offset := (int(day.Weekday()) + 6) % 7
		monday := day.AddDate(0, 0, -offset)
		return domain.PeriodWindow{From: monday, To: monday.AddDate(0, 0, 7)}, nil
	case Month:
		first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
		return domain.PeriodWindow{From: first, To: first.AddDate(0, 1, 0)}, nil
	case Year:
		first := time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return domain.PeriodWindow{From: first, To: first.AddDate(1, 0, 0)}, nil
	default:
		return domain.PeriodWindow{}, &domain.ErrInvalidPeriod{Kind: string(kind)}
	}
}

// AllTime returns an unbounded window ending just after now: no lower
// bound, upper bound exclusive of nothing in the past.
func AllTime(now time.Time) domain.PeriodWindow {
	return domain.PeriodWindow{To: now.UTC().Add(time.Second)}
}
