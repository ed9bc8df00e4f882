package recurrence

import "time"

// Kind identifies the repetition pattern attached to a shift definition.
type Kind string

const (
	// KindNone marks a one-time shift anchored at its start instant.
	KindNone Kind = "none"
	// KindWeekly marks a shift repeating on selected weekdays every N weeks.
	KindWeekly Kind = "weekly"
)

// Interval bounds applied when constructing or editing a weekly rule. The
// expander clamps defensively as well so a stored out-of-range interval can
// never trigger runaway expansion.
const (
	MinInterval = 1
	MaxInterval = 12
)

// Rule describes the recurrence configuration attached to a shift.
type Rule struct {
	Kind     Kind
	Interval int
	Weekdays []time.Weekday
	Until    *time.Time
}

// Shift is the template a recurrence expansion works from. Start and End fix
// both the time-of-day and the duration of every generated occurrence.
type Shift struct {
	ID      string
	OwnerID string
	Start   time.Time
	End     time.Time
	Rule    Rule
}

// Occurrence is one concrete, dated instance derived from a shift definition.
// Occurrences are derived on demand and never persisted; identity is the
// shift ID plus the occurrence start.
type Occurrence struct {
	ShiftID string
	OwnerID string
	Start   time.Time
	End     time.Time
}

// ClampInterval forces a weekly interval into the supported [1, 12] range.
func ClampInterval(interval int) int {
	if interval < MinInterval {
		return MinInterval
	}
	if interval > MaxInterval {
		return MaxInterval
	}
	return interval
}

// Expand produces the ordered occurrences of shift whose interval intersects
// [rangeStart, rangeEnd). Malformed shifts (end not after start) and weekly
// rules with an empty weekday set contribute zero occurrences; Expand never
// fails. Arithmetic is wall-clock local time and does not special-case
// daylight-saving transitions.
func Expand(shift Shift, rangeStart, rangeEnd time.Time) []Occurrence {
	if !shift.End.After(shift.Start) {
		return nil
	}
	duration := shift.End.Sub(shift.Start)

	if shift.Rule.Kind != KindWeekly {
		// One-time shift: at most a single occurrence anchored at Start.
		if overlaps(shift.Start, shift.Start.Add(duration), rangeStart, rangeEnd) {
			return []Occurrence{occurrenceOf(shift, shift.Start, duration)}
		}
		return nil
	}

	return expandWeekly(shift, duration, rangeStart, rangeEnd)
}

func expandWeekly(shift Shift, duration time.Duration, rangeStart, rangeEnd time.Time) []Occurrence {
	if len(shift.Rule.Weekdays) == 0 {
		return nil
	}

	interval := ClampInterval(shift.Rule.Interval)

	selected := make(map[time.Weekday]struct{}, len(shift.Rule.Weekdays))
	for _, day := range shift.Rule.Weekdays {
		selected[day] = struct{}{}
	}

	anchorWeek := StartOfWeek(shift.Start)
	timeOfDay := shift.Start.Sub(StartOfDay(shift.Start))

	lastWeek := StartOfWeek(rangeEnd)
	occurrences := make([]Occurrence, 0)

	for week := StartOfWeek(rangeStart); !week.After(lastWeek); week = week.AddDate(0, 0, 7) {
		weeks := weeksBetween(anchorWeek, week)
		if weeks < 0 || weeks%interval != 0 {
			continue
		}

		for offset := 0; offset < 7; offset++ {
			date := week.AddDate(0, 0, offset)
			if _, ok := selected[date.Weekday()]; !ok {
				continue
			}

			start := combine(date, timeOfDay)
			if start.Before(shift.Start) {
				continue
			}
			if shift.Rule.Until != nil && start.After(*shift.Rule.Until) {
				continue
			}
			if !overlaps(start, start.Add(duration), rangeStart, rangeEnd) {
				continue
			}

			occurrences = append(occurrences, occurrenceOf(shift, start, duration))
		}
	}

	return occurrences
}

func occurrenceOf(shift Shift, start time.Time, duration time.Duration) Occurrence {
	return Occurrence{
		ShiftID: shift.ID,
		OwnerID: shift.OwnerID,
		Start:   start,
		End:     start.Add(duration),
	}
}

// overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share any instant.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// weeksBetween counts whole calendar weeks from the anchor week start to the
// candidate week start. Weeks before the anchor yield a negative count.
func weeksBetween(anchorWeek, candidateWeek time.Time) int {
	hours := candidateWeek.Sub(anchorWeek).Hours()
	days := int(roundHalfAway(hours / 24))
	return days / 7
}

func roundHalfAway(v float64) float64 {
	if v < 0 {
		return float64(int(v - 0.5))
	}
	return float64(int(v + 0.5))
}

// StartOfDay truncates t to midnight wall-clock time in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Sunday midnight beginning the calendar week
// containing t.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// combine rebuilds an instant from a calendar date and a time-of-day offset.
func combine(date time.Time, timeOfDay time.Duration) time.Time {
	hour := int(timeOfDay / time.Hour)
	minute := int(timeOfDay % time.Hour / time.Minute)
	second := int(timeOfDay % time.Minute / time.Second)
	nano := int(timeOfDay % time.Second)
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, second, nano, date.Location())
}
