// Package agenda projects shift definitions into calendar-oriented views.
// Every view derives its occurrences through one recurrence expansion per
// shift and then groups the results; views are pure and never mutate the
// shift records they are built from.
package agenda

import (
	"sort"
	"time"

	"github.com/nessimus/workday-scheduler/internal/recurrence"
)

// DateKeyFormat is the calendar date key shared by the grouped views.
const DateKeyFormat = "2006-01-02"

// DayGroup collects the occurrences starting on one calendar date.
type DayGroup struct {
	Date        string
	Occurrences []recurrence.Occurrence
}

// HourBucket describes a single hour of a day view. Starting holds the
// occurrences attributed to this hour; Continuing counts occurrences that
// started earlier but still cover the hour.
type HourBucket struct {
	Hour       int
	Starting   []recurrence.Occurrence
	Continuing int
}

// DayView buckets one calendar day by hour.
type DayView struct {
	Date  string
	Hours [24]HourBucket
}

// MonthDay is one cell of a month grid. Leading and trailing days borrowed
// from adjacent months carry InFocalMonth == false.
type MonthDay struct {
	Date         string
	InFocalMonth bool
	Occurrences  []recurrence.Occurrence
}

// MonthWeek is one row of a month grid, Sunday through Saturday.
type MonthWeek [7]MonthDay

// MonthView covers the focal month padded to whole calendar weeks.
type MonthView struct {
	Month string
	Weeks []MonthWeek
}

// BuildHorizon groups occurrences over the given number of days starting at
// the day containing reference. Days without occurrences are present with an
// empty group so callers can render a continuous span.
func BuildHorizon(reference time.Time, days int, shifts []recurrence.Shift) []DayGroup {
	if days <= 0 {
		return nil
	}
	start := recurrence.StartOfDay(reference)
	return groupByDate(start, days, shifts)
}

// BuildWeek groups occurrences over the Sunday-start calendar week
// containing reference.
func BuildWeek(reference time.Time, shifts []recurrence.Shift) []DayGroup {
	return groupByDate(recurrence.StartOfWeek(reference), 7, shifts)
}

// BuildDay buckets the occurrences of one calendar day by hour. An
// occurrence lands in the bucket of the hour containing max(start, dayStart)
// and tallies a continuation for every further hour it covers, so coverage
// is visible without duplicating the occurrence.
func BuildDay(reference time.Time, shifts []recurrence.Shift) DayView {
	dayStart := recurrence.StartOfDay(reference)
	dayEnd := dayStart.AddDate(0, 0, 1)

	view := DayView{Date: dayStart.Format(DateKeyFormat)}
	for hour := range view.Hours {
		view.Hours[hour].Hour = hour
	}

	all := expandAll(shifts, dayStart, dayEnd)
	sortOccurrences(all)

	for _, occ := range all {
		visible := occ.Start
		if visible.Before(dayStart) {
			visible = dayStart
		}
		startHour := visible.Hour()
		view.Hours[startHour].Starting = append(view.Hours[startHour].Starting, occ)

		for hour := startHour + 1; hour < 24; hour++ {
			bucketStart := dayStart.Add(time.Duration(hour) * time.Hour)
			if !occ.End.After(bucketStart) {
				break
			}
			view.Hours[hour].Continuing++
		}
	}

	return view
}

// BuildMonth produces the month grid containing reference, padded with the
// leading and trailing days of adjacent months needed to fill whole weeks.
func BuildMonth(reference time.Time, shifts []recurrence.Shift) MonthView {
	focal := recurrence.StartOfDay(reference)
	firstOfMonth := time.Date(focal.Year(), focal.Month(), 1, 0, 0, 0, 0, focal.Location())
	firstOfNext := firstOfMonth.AddDate(0, 1, 0)

	gridStart := recurrence.StartOfWeek(firstOfMonth)
	gridEnd := recurrence.StartOfWeek(firstOfNext.AddDate(0, 0, -1)).AddDate(0, 0, 7)
	gridDays := int(gridEnd.Sub(gridStart).Hours()/24 + 0.5)

	groups := groupByDate(gridStart, gridDays, shifts)

	view := MonthView{Month: firstOfMonth.Format("2006-01")}
	for i := 0; i < len(groups); i += 7 {
		var week MonthWeek
		for j := 0; j < 7; j++ {
			day := gridStart.AddDate(0, 0, i+j)
			week[j] = MonthDay{
				Date:         groups[i+j].Date,
				InFocalMonth: day.Month() == firstOfMonth.Month() && day.Year() == firstOfMonth.Year(),
				Occurrences:  groups[i+j].Occurrences,
			}
		}
		view.Weeks = append(view.Weeks, week)
	}

	return view
}

func groupByDate(start time.Time, days int, shifts []recurrence.Shift) []DayGroup {
	end := start.AddDate(0, 0, days)

	groups := make([]DayGroup, days)
	index := make(map[string]int, days)
	for i := range groups {
		key := start.AddDate(0, 0, i).Format(DateKeyFormat)
		groups[i] = DayGroup{Date: key}
		index[key] = i
	}

	for _, occ := range expandAll(shifts, start, end) {
		key := occ.Start.Format(DateKeyFormat)
		if i, ok := index[key]; ok {
			groups[i].Occurrences = append(groups[i].Occurrences, occ)
		}
	}

	for i := range groups {
		sortOccurrences(groups[i].Occurrences)
	}

	return groups
}

func sortOccurrences(occurrences []recurrence.Occurrence) {
	sort.SliceStable(occurrences, func(i, j int) bool {
		if occurrences[i].Start.Equal(occurrences[j].Start) {
			return occurrences[i].ShiftID < occurrences[j].ShiftID
		}
		return occurrences[i].Start.Before(occurrences[j].Start)
	})
}

func expandAll(shifts []recurrence.Shift, rangeStart, rangeEnd time.Time) []recurrence.Occurrence {
	var all []recurrence.Occurrence
	for _, shift := range shifts {
		all = append(all, recurrence.Expand(shift, rangeStart, rangeEnd)...)
	}
	return all
}
