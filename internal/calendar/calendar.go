// Package calendar holds the pure date arithmetic behind the rescheduling
// flow: readable formatting, weekday name conversions and the same-day
// cutoff rule. Every function takes its reference time explicitly so the
// callers stay testable.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

const (
	// ISODate is the storage layout for order pickup/delivery dates.
	ISODate = "2006-01-02"

	clockLayout = "3:04 PM"
)

var dayNames = [...]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

var fullDayNames = map[string]string{
	"Sun": "Sunday",
	"Mon": "Monday",
	"Tue": "Tuesday",
	"Wed": "Wednesday",
	"Thu": "Thursday",
	"Fri": "Friday",
	"Sat": "Saturday",
}

// ReadableDate formats a date as short weekday, short month and day,
// e.g. "Fri, Sep 22".
func ReadableDate(t time.Time) string {
	return t.Format("Mon, Jan 2")
}

// FormatISODate formats a date for storage, e.g. "2024-09-22".
func FormatISODate(t time.Time) string {
	return t.Format(ISODate)
}

// FullDayName maps a 3-letter weekday abbreviation to its full name.
// Unknown input passes through unchanged.
func FullDayName(abbr string) string {
	if full, ok := fullDayNames[abbr]; ok {
		return full
	}
	return abbr
}

// DayName returns the full English name of a weekday (Sunday = 0).
func DayName(d time.Weekday) string {
	return dayNames[d]
}

// IsTodayOrFuture reports whether date is today or later, comparing calendar
// dates only, in now's location.
//
// A date that appears to be next year is pulled back to the current year,
// unless it is December now and the date falls in January or February. NLU
// classifiers default a bare "March 5" to the next occurrence, which lands
// in the wrong year for most of the calendar.
func IsTodayOrFuture(date, now time.Time) bool {
	loc := now.Location()
	y, m, d := date.Date()

	if y-now.Year() == 1 {
		if !(now.Month() == time.December && (m == time.January || m == time.February)) {
			y = now.Year()
		}
	}

	in := time.Date(y, m, d, 0, 0, 0, 0, loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	return !in.Before(today)
}

// SameCalendarDay reports whether two times fall on the same calendar date,
// comparing their year/month/day components directly.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SlotStart extracts the start time from a time-slot range string,
// e.g. "6:00 PM" from "6:00 PM - 9:00 PM".
func SlotStart(slot string) string {
	start, _, _ := strings.Cut(slot, " - ")
	return strings.TrimSpace(start)
}

// SameDayCutoffAllows reports whether a reschedule onto desired is still
// allowed at now. Dates other than today carry no cutoff. For today, the
// cutoff is one hour before the start of the last time slot; now must be at
// or before it.
func SameDayCutoffAllows(desired time.Time, lastSlotStart string, now time.Time) (bool, error) {
	if !SameCalendarDay(desired, now) {
		return true, nil
	}

	clock, err := time.Parse(clockLayout, lastSlotStart)
	if err != nil {
		return false, fmt.Errorf("invalid time slot start %q: %w", lastSlotStart, err)
	}

	cutoff := time.Date(now.Year(), now.Month(), now.Day(),
		clock.Hour(), clock.Minute(), 0, 0, now.Location()).Add(-time.Hour)
	return !now.After(cutoff), nil
}
