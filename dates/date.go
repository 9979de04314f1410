// Package dates parses free-text genealogical dates.
//
// A Date is built from user text such as "abt 1850", "1 jan 2008",
// "20080101?", "<1700 ju" or "10 vendemiaire XI". Parsing never fails:
// text that cannot be understood yields an unparsable Date which displays
// as the original text. Parsed dates are stored as a Julian Day Number,
// so dates written in different calendars compare correctly.
//
// Range handles the two span forms "from A to B" and "between A and B".
package dates

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/teranos/kin/calendar"
)

// Precision qualifies how exact a date is.
type Precision int

const (
	Exact Precision = iota
	About
	Estimated
)

func (p Precision) String() string {
	switch p {
	case About:
		return "about"
	case Estimated:
		return "estimated"
	}
	return "exact"
}

// Type is the boundary qualifier of a date.
type Type int

const (
	On Type = iota
	Before
	After
)

func (t Type) String() string {
	switch t {
	case Before:
		return "before"
	case After:
		return "after"
	}
	return "on"
}

// TimeOfDay is an optional time attached to a date.
type TimeOfDay struct {
	Hour       int
	Minute     int
	Second     int
	HasSeconds bool
}

func (t TimeOfDay) String() string {
	if t.HasSeconds {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	}
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Date is an immutable parsed date.
type Date struct {
	text      string
	cal       calendar.Calendar
	jdn       int64
	known     calendar.Known
	precision Precision
	typ       Type
	tod       TimeOfDay
	hasTime   bool
}

// Text returns the text the date was parsed from. Derived dates
// (see AddDays) have no text.
func (d Date) Text() string { return d.text }

// Calendar returns the calendar whose arithmetic produced the date.
// A Gregorian date before 1582-02-24 reports Julian.
func (d Date) Calendar() calendar.Calendar {
	if d.cal == nil {
		return calendar.Gregorian
	}
	return d.cal
}

// Known reports whether the text was understood.
func (d Date) Known() bool { return d.known.Any() }

// Components reports which of year, month and day were supplied.
func (d Date) Components() calendar.Known { return d.known }

// JulianDay returns the Julian Day Number, or false for an unparsable date.
func (d Date) JulianDay() (int64, bool) {
	if !d.Known() {
		return 0, false
	}
	return d.jdn, true
}

func (d Date) Precision() Precision { return d.precision }

func (d Date) Type() Type { return d.typ }

// TimeOfDay returns the time of day, if one was given.
func (d Date) TimeOfDay() (TimeOfDay, bool) { return d.tod, d.hasTime }

// SortKey returns a key suitable for ordering dates. Unparsable dates sort
// before every parsed date.
func (d Date) SortKey() int64 {
	if !d.Known() {
		return math.MinInt64
	}
	return d.jdn
}

// Compare orders d and other by Julian Day Number. It returns -1, 0 or +1.
func (d Date) Compare(other Date) int {
	a, b := d.SortKey(), other.SortKey()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// Equal reports whether both dates fall on the same day, whatever the
// calendars they were written in.
func (d Date) Equal(other Date) bool { return d.Compare(other) == 0 }

// YearsSince returns the number of whole years elapsed from other to d.
// It returns false when either date has no known year. Dates written in
// different calendars are compared in the Gregorian calendar.
func (d Date) YearsSince(other Date) (int, bool) {
	if !d.known.Year || !other.known.Year {
		return 0, false
	}
	cal := d.Calendar()
	if other.Calendar() != cal {
		cal = calendar.Gregorian
	}
	y1, m1, d1 := cal.FromJulianDay(d.jdn)
	y2, m2, d2 := cal.FromJulianDay(other.jdn)

	years := y1 - y2
	if d.known.Month && other.known.Month {
		if m1 < m2 || (m1 == m2 && d.known.Day && other.known.Day && d1 < d2) {
			years--
		}
	}
	return years, true
}

// AddDays returns a derived date n days later (earlier when n is negative).
// The result keeps the calendar and qualifiers but has no text. A date
// that is not known is returned unchanged.
func (d Date) AddDays(n int) Date {
	if !d.Known() {
		return d
	}
	out := d
	out.text = ""
	out.jdn = d.jdn + int64(n)
	return out
}

// Display renders the date in cal, or in the date's own calendar when cal
// is nil. With yearOnly only the year is shown. An unparsable date
// displays as its text.
func (d Date) Display(cal calendar.Calendar, yearOnly bool) string {
	if !d.Known() {
		return d.text
	}
	if cal == nil {
		cal = d.Calendar()
	}

	s := cal.Format(d.jdn, d.known, yearOnly)
	if d.hasTime && !yearOnly {
		s += " " + d.tod.String()
	}

	switch d.typ {
	case Before:
		s = "/" + s
	case After:
		s = s + "/"
	}

	switch d.precision {
	case About:
		s = "ca " + s
	case Estimated:
		s = s + " ?"
	}
	return s
}

func (d Date) String() string {
	return d.Display(nil, false)
}

type dateJSON struct {
	Text      string         `json:"text"`
	Display   string         `json:"display"`
	Calendar  string         `json:"calendar"`
	JulianDay *int64         `json:"julian_day,omitempty"`
	Known     calendar.Known `json:"known"`
	Precision string         `json:"precision"`
	Type      string         `json:"type"`
	Time      string         `json:"time,omitempty"`
}

func (d Date) MarshalJSON() ([]byte, error) {
	out := dateJSON{
		Text:      d.text,
		Display:   d.String(),
		Calendar:  d.Calendar().Name(),
		Known:     d.known,
		Precision: d.precision.String(),
		Type:      d.typ.String(),
	}
	if jdn, ok := d.JulianDay(); ok {
		out.JulianDay = &jdn
	}
	if d.hasTime {
		out.Time = d.tod.String()
	}
	return json.Marshal(out)
}
