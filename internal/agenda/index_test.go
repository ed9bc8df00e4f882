package agenda

import (
	"testing"
	"time"

	"github.com/nessimus/workday-scheduler/internal/recurrence"
)

func date(t *testing.T, year int, month time.Month, day, hour, minute int) time.Time {
	t.Helper()
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func weekdayShift(t *testing.T) recurrence.Shift {
	t.Helper()
	// Anchored Monday 2024-01-01, 09:00-17:00 on weekdays.
	return recurrence.Shift{
		ID:      "shift-week",
		OwnerID: "emp-1",
		Start:   date(t, 2024, time.January, 1, 9, 0),
		End:     date(t, 2024, time.January, 1, 17, 0),
		Rule: recurrence.Rule{
			Kind:     recurrence.KindWeekly,
			Interval: 1,
			Weekdays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		},
	}
}

func TestBuildHorizon(t *testing.T) {
	t.Parallel()

	shifts := []recurrence.Shift{weekdayShift(t)}

	groups := BuildHorizon(date(t, 2024, time.January, 1, 12, 0), 7, shifts)
	if len(groups) != 7 {
		t.Fatalf("expected 7 day groups, got %d", len(groups))
	}
	if groups[0].Date != "2024-01-01" || groups[6].Date != "2024-01-07" {
		t.Fatalf("unexpected horizon bounds: %s .. %s", groups[0].Date, groups[6].Date)
	}

	// Monday through Friday carry one occurrence each; the weekend is empty.
	for i, group := range groups {
		want := 1
		if i >= 5 {
			want = 0
		}
		if len(group.Occurrences) != want {
			t.Fatalf("day %s: want %d occurrences, got %d", group.Date, want, len(group.Occurrences))
		}
	}

	if got := BuildHorizon(date(t, 2024, time.January, 1, 0, 0), 0, shifts); got != nil {
		t.Fatalf("non-positive horizon must yield no groups, got %d", len(got))
	}
}

func TestBuildWeek(t *testing.T) {
	t.Parallel()

	shifts := []recurrence.Shift{weekdayShift(t)}

	// Wednesday 2024-01-03 belongs to the week starting Sunday 2023-12-31.
	groups := BuildWeek(date(t, 2024, time.January, 3, 8, 0), shifts)
	if len(groups) != 7 {
		t.Fatalf("expected 7 day groups, got %d", len(groups))
	}
	if groups[0].Date != "2023-12-31" {
		t.Fatalf("week must start on Sunday, got %s", groups[0].Date)
	}
	if len(groups[0].Occurrences) != 0 {
		t.Fatalf("Sunday should be empty, got %d occurrences", len(groups[0].Occurrences))
	}
	if len(groups[1].Occurrences) != 1 {
		t.Fatalf("Monday should hold one occurrence, got %d", len(groups[1].Occurrences))
	}
}

func TestBuildDay_HourAttribution(t *testing.T) {
	t.Parallel()

	shifts := []recurrence.Shift{
		{
			ID:    "morning",
			Start: date(t, 2024, time.January, 1, 9, 30),
			End:   date(t, 2024, time.January, 1, 12, 0),
			Rule:  recurrence.Rule{Kind: recurrence.KindNone},
		},
		{
			// Overnight shift spilling into the focal day from the day before.
			ID:    "overnight",
			Start: date(t, 2023, time.December, 31, 22, 0),
			End:   date(t, 2024, time.January, 1, 2, 0),
			Rule:  recurrence.Rule{Kind: recurrence.KindNone},
		},
	}

	view := BuildDay(date(t, 2024, time.January, 1, 0, 0), shifts)
	if view.Date != "2024-01-01" {
		t.Fatalf("unexpected view date %s", view.Date)
	}

	// The overnight occurrence is attributed to hour 0 (its visible start on
	// this day) and continues through hour 1.
	if len(view.Hours[0].Starting) != 1 || view.Hours[0].Starting[0].ShiftID != "overnight" {
		t.Fatalf("hour 0 should start the overnight occurrence, got %+v", view.Hours[0].Starting)
	}
	if view.Hours[1].Continuing != 1 {
		t.Fatalf("hour 1 should count one continuation, got %d", view.Hours[1].Continuing)
	}
	if view.Hours[2].Continuing != 0 {
		t.Fatalf("hour 2 should count no continuation, got %d", view.Hours[2].Continuing)
	}

	// The morning occurrence starts in hour 9 and continues through 10 and 11
	// but is never re-attributed as a new start.
	if len(view.Hours[9].Starting) != 1 || view.Hours[9].Starting[0].ShiftID != "morning" {
		t.Fatalf("hour 9 should start the morning occurrence, got %+v", view.Hours[9].Starting)
	}
	for _, hour := range []int{10, 11} {
		if view.Hours[hour].Continuing != 1 {
			t.Fatalf("hour %d should count one continuation, got %d", hour, view.Hours[hour].Continuing)
		}
		if len(view.Hours[hour].Starting) != 0 {
			t.Fatalf("hour %d must not restart the occurrence", hour)
		}
	}
	if view.Hours[12].Continuing != 0 {
		t.Fatalf("hour 12 ends the morning occurrence, got continuation %d", view.Hours[12].Continuing)
	}
}

func TestBuildMonth_GridPadding(t *testing.T) {
	t.Parallel()

	shifts := []recurrence.Shift{weekdayShift(t)}

	// January 2024: the 1st is a Monday, so the grid starts Sunday Dec 31 and
	// ends Saturday Feb 3.
	view := BuildMonth(date(t, 2024, time.January, 15, 0, 0), shifts)
	if view.Month != "2024-01" {
		t.Fatalf("unexpected focal month %s", view.Month)
	}
	if len(view.Weeks) != 5 {
		t.Fatalf("expected 5 grid weeks, got %d", len(view.Weeks))
	}

	first := view.Weeks[0][0]
	if first.Date != "2023-12-31" || first.InFocalMonth {
		t.Fatalf("grid should lead with Dec 31 outside the focal month, got %+v", first)
	}

	last := view.Weeks[4][6]
	if last.Date != "2024-02-03" || last.InFocalMonth {
		t.Fatalf("grid should trail with Feb 3 outside the focal month, got %+v", last)
	}

	if day := view.Weeks[0][1]; day.Date != "2024-01-01" || !day.InFocalMonth {
		t.Fatalf("Jan 1 must be flagged as focal, got %+v", day)
	}

	// Trailing focal weekdays still carry occurrences; padded days from
	// February do too, because the expansion covers the whole grid.
	if len(view.Weeks[4][1].Occurrences) != 1 {
		t.Fatalf("Mon Jan 29 should carry an occurrence, got %d", len(view.Weeks[4][1].Occurrences))
	}
	if len(view.Weeks[4][5].Occurrences) != 1 {
		t.Fatalf("Fri Feb 2 on the padded tail should carry an occurrence, got %d", len(view.Weeks[4][5].Occurrences))
	}
}

func TestViews_ArePureProjections(t *testing.T) {
	t.Parallel()

	shifts := []recurrence.Shift{weekdayShift(t)}
	reference := date(t, 2024, time.January, 10, 0, 0)

	before := shifts[0]

	a := BuildMonth(reference, shifts)
	b := BuildMonth(reference, shifts)

	if shifts[0].Start != before.Start || shifts[0].End != before.End {
		t.Fatal("view building mutated the shift records")
	}
	if len(a.Weeks) != len(b.Weeks) {
		t.Fatalf("rebuild changed the grouping: %d vs %d weeks", len(a.Weeks), len(b.Weeks))
	}
	for i := range a.Weeks {
		for j := range a.Weeks[i] {
			if a.Weeks[i][j].Date != b.Weeks[i][j].Date {
				t.Fatalf("rebuild changed day %d/%d", i, j)
			}
			if len(a.Weeks[i][j].Occurrences) != len(b.Weeks[i][j].Occurrences) {
				t.Fatalf("rebuild changed occurrences on %s", a.Weeks[i][j].Date)
			}
		}
	}
}
