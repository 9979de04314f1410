// Package calendar converts dates between calendar components and Julian
// Day Numbers.
//
// Three calendars are provided: Gregorian, Julian and French Republican.
// Every conversion goes through the Julian Day Number (JDN), a continuous
// day count that does not depend on any calendar, so two dates written in
// different calendars can be compared directly by their JDN.
//
// Dates are frequently partial in genealogy ("1850", "march 1850"). A
// missing component is replaced by a sentinel value for the arithmetic
// (year -4000, month 1, day 1) and the Known flags record what was really
// supplied. Formatting only shows the known components.
package calendar

import (
	"strings"

	"github.com/teranos/kin/errors"
)

// Sentinel components used when part of a date is not known.
const (
	UnknownYear  = -4000
	UnknownMonth = 1
	UnknownDay   = 1
)

// Known records which components of a date were supplied.
type Known struct {
	Year  bool `json:"year"`
	Month bool `json:"month"`
	Day   bool `json:"day"`
}

// Any reports whether at least one component is known.
func (k Known) Any() bool {
	return k.Year || k.Month || k.Day
}

// Calendar converts between (year, month, day) components and JDN.
//
// Implementations are stateless and safe for concurrent use.
type Calendar interface {
	// Name returns the calendar name ("gregorian", "julian", "french").
	Name() string

	// Recognize checks whether text carries a marker for this calendar.
	// On success it returns the text with the marker removed.
	// Matching is case-insensitive; accents must already be folded.
	Recognize(text string) (string, bool)

	// ToJulianDay converts components to a JDN. Unknown components are
	// replaced by the sentinels. The returned calendar is the one whose
	// arithmetic was used, which differs from the receiver when a
	// Gregorian date falls before the Gregorian adoption.
	ToJulianDay(year, month, day int, known Known) (int64, Calendar)

	// FromJulianDay returns the components of jdn in this calendar.
	FromJulianDay(jdn int64) (year, month, day int)

	// Format renders jdn, showing only the known components.
	Format(jdn int64, known Known, yearOnly bool) string

	// MonthNumber resolves a month name or abbreviation.
	MonthNumber(name string) (int, bool)

	// DaysInMonth returns the length of month in year.
	DaysInMonth(year, month int) int

	// MonthsInYear returns the number of months, complementary days included.
	MonthsInYear() int

	// ParseYear parses the textual year representation used by this calendar.
	ParseYear(text string) (int, bool)
}

// Calendar instances.
var (
	Gregorian Calendar = gregorian{}
	Julian    Calendar = julian{}
	French    Calendar = french{}
)

// All returns the known calendars in recognition order.
func All() []Calendar {
	return []Calendar{Gregorian, Julian, French}
}

// ByName resolves a calendar from its name or one of its usual abbreviations.
func ByName(name string) (Calendar, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gregorian", "gr", "g":
		return Gregorian, nil
	case "julian", "ju", "j", "os":
		return Julian, nil
	case "french", "french republican", "fr", "f", "republican":
		return French, nil
	}
	return nil, errors.WithHint(
		errors.NewInvalidInputError("unknown calendar %q", name),
		"expected gregorian, julian or french")
}

// Normalize wraps month overflow (month 0, month 14...) into the year.
func Normalize(cal Calendar, year, month int) (int, int) {
	n := cal.MonthsInYear()
	m := month - 1
	year += floorDiv(m, n)
	return year, floorMod(m, n) + 1
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}

func floorDiv64(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// withSentinels replaces unknown components by the sentinel values.
func withSentinels(year, month, day int, known Known) (int, int, int) {
	if !known.Year {
		year = UnknownYear
	}
	if !known.Month {
		month = UnknownMonth
	}
	if !known.Day {
		day = UnknownDay
	}
	return year, month, day
}
