package period_test

import (
	"errors"
	"testing"
	"time"

	"github.com/brightdesk/finance-api/internal/domain"
	"github.com/brightdesk/finance-api/internal/period"
)

func TestParseKind_Valid(t *testing.T) {
	for _, s := range []string{"day", "week", "month", "year"} {
		kind, err := period.ParseKind(s)
		if err != nil {
			t.Fatalf("expected %q to parse, got %v", s, err)
		}
		if string(kind) != s {
			t.Errorf("expected kind %q, got %q", s, kind)
		}
	}
}

func TestParseKind_Invalid(t *testing.T) {
	for _, s := range []string{"", "quarter", "Week", "monthly"} {
		_, err := period.ParseKind(s)
		var invalid *domain.ErrInvalidPeriod
		if !errors.As(err, &invalid) {
			t.Errorf("expected ErrInvalidPeriod for %q, got %v", s, err)
		}
	}
}

func TestResolve_Day(t *testing.T) {
	ref := time.Date(2024, 6, 12, 15, 30, 45, 0, time.UTC)

	w, err := period.Resolve(period.Day, ref)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	wantFrom := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC)
	if !w.From.Equal(wantFrom) || !w.To.Equal(wantTo) {
		t.Errorf("expected [%v, %v), got [%v, %v)", wantFrom, wantTo, w.From, w.To)
	}
}

func TestResolve_Week_MondayAnchored(t *testing.T) {
	// 2024-06-12 is a Wednesday; the containing week runs
	// Monday 2024-06-10 through end of Sunday 2024-06-16.
	ref := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)

	w, err := period.Resolve(period.Week, ref)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	wantFrom := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)
	if !w.From.Equal(wantFrom) {
		t.Errorf("expected week to start Monday %v, got %v", wantFrom, w.From)
	}
	if !w.To.Equal(wantTo) {
		t.Errorf("expected week to end before %v, got %v", wantTo, w.To)
	}

	endOfSunday := time.Date(2024, 6, 16, 23, 59, 59, 0, time.UTC)
	if !w.Contains(endOfSunday) {
		t.Error("expected end of Sunday to be inside the week window")
	}
	if w.Contains(wantTo) {
		t.Error("expected the following Monday to be outside the window")
	}
}

func TestResolve_Week_ReferenceOnMonday(t *testing.T) {
	ref := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC) // a Monday

	w, err := period.Resolve(period.Week, ref)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !w.From.Equal(ref) {
		t.Errorf("expected Monday reference to anchor its own week, got %v", w.From)
	}
}

func TestResolve_Week_ReferenceOnSunday(t *testing.T) {
	ref := time.Date(2024, 6, 16, 12, 0, 0, 0, time.UTC) // a Sunday

	w, err := period.Resolve(period.Week, ref)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	wantFrom := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	if !w.From.Equal(wantFrom) {
		t.Errorf("expected Sunday to belong to the preceding Monday's week, got %v", w.From)
	}
}

func TestResolve_Month(t *testing.T) {
	ref := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)

	w, err := period.Resolve(period.Month, ref)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	wantFrom := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	if !w.From.Equal(wantFrom) || !w.To.Equal(wantTo) {
		t.Errorf("expected [%v, %v), got [%v, %v)", wantFrom, wantTo, w.From, w.To)
	}
}

func TestResolve_Month_December(t *testing.T) {
	ref := time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)

	w, err := period.Resolve(period.Month, ref)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	wantTo := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if !w.To.Equal(wantTo) {
		t.Errorf("expected December window to roll into the next year, got %v", w.To)
	}
}

func TestResolve_Year(t *testing.T) {
	ref := time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)

	w, err := period.Resolve(period.Year, ref)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	wantFrom := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if !w.From.Equal(wantFrom) || !w.To.Equal(wantTo) {
		t.Errorf("expected [%v, %v), got [%v, %v)", wantFrom, wantTo, w.From, w.To)
	}
}

func TestResolve_ZeroReference(t *testing.T) {
	_, err := period.Resolve(period.Day, time.Time{})
	var invalid *domain.ErrInvalidDate
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestResolve_NonUTCReference(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 02:00 on June 13 in UTC+5 is still June 12 in UTC.
	ref := time.Date(2024, 6, 13, 2, 0, 0, 0, loc)

	w, err := period.Resolve(period.Day, ref)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	wantFrom := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
	if !w.From.Equal(wantFrom) {
		t.Errorf("expected window resolved in UTC from %v, got %v", wantFrom, w.From)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	ref := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)

	a, _ := period.Resolve(period.Week, ref)
	b, _ := period.Resolve(period.Week, ref)
	if a != b {
		t.Errorf("expected identical windows for identical inputs, got %v and %v", a, b)
	}
}

func TestAllTime(t *testing.T) {
	now := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)

	w := period.AllTime(now)
	if !w.Unbounded() {
		t.Fatal("expected all-time window to have no lower bound")
	}
	if !w.Contains(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected ancient dates inside the all-time window")
	}
	if !w.Contains(now) {
		t.Error("expected now inside the all-time window")
	}
}
