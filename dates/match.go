package dates

import (
	"regexp"
	"strconv"

	"github.com/teranos/kin/calendar"
)

// parts holds matched date components. Unknown components carry the
// calendar sentinels.
type parts struct {
	year, month, day int
	known            calendar.Known
}

func newParts() parts {
	return parts{year: calendar.UnknownYear, month: calendar.UnknownMonth, day: calendar.UnknownDay}
}

// A matcher recognizes one textual shape of a date.
type matcher func(p *Parser, cal calendar.Calendar, s string) (parts, bool)

// matchers run in priority order; several shapes overlap ("10-12" is a
// day and month, "1850-12" a year and month) so the order matters.
var matchers = []matcher{
	matchISO,
	matchNumeric,
	matchDayMonthYear,
	matchMonthDayYear,
	matchMonthYear,
	matchDayMonth,
	matchDashDayMonth,
	matchYearMonth,
	matchRomanYear,
}

const (
	yearToken = `(\d{1,5}|[ivxlcdm]+)`
	ordinal   = `(?:er|st|nd|rd|th)?`
)

var (
	isoRe          = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	compactRe      = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
	numericRe      = regexp.MustCompile(`^(\d{1,2})[/.](\d{1,2})[/.](\d{1,4})$`)
	dayMonthYearRe = regexp.MustCompile(`^(\d{1,2})` + ordinal + `\s+([a-z]+)\.?,?\s+(?:an\s+)?` + yearToken + `$`)
	monthDayYearRe = regexp.MustCompile(`^([a-z]+)\.?\s+(\d{1,2})` + ordinal + `,?\s+` + yearToken + `$`)
	monthYearRe    = regexp.MustCompile(`^([a-z]+)\.?,?\s+(?:an\s+)?` + yearToken + `$`)
	dayMonthRe     = regexp.MustCompile(`^(\d{1,2})` + ordinal + `\s+([a-z]+)\.?$`)
	dashDayMonthRe = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})$`)
	yearMonthRe    = regexp.MustCompile(`^(\d{1,4})(?:-(\d{1,2}))?$`)
	romanYearRe    = regexp.MustCompile(`^(?:an\s+)?([ivxlcdm]+)$`)
)

// components runs the matchers and validates the first match.
func (p *Parser) components(cal calendar.Calendar, s string) (parts, bool) {
	if s == "" {
		return parts{}, false
	}
	for _, match := range matchers {
		pt, ok := match(p, cal, s)
		if !ok {
			continue
		}
		if !valid(cal, pt) {
			return parts{}, false
		}
		return pt, true
	}
	return parts{}, false
}

func valid(cal calendar.Calendar, pt parts) bool {
	if pt.known.Month && (pt.month < 1 || pt.month > cal.MonthsInYear()) {
		return false
	}
	if pt.known.Day && (pt.day < 1 || pt.day > cal.DaysInMonth(pt.year, pt.month)) {
		return false
	}
	return true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func (pt *parts) setYear(cal calendar.Calendar, s string) bool {
	y, ok := cal.ParseYear(s)
	if !ok {
		return false
	}
	pt.year, pt.known.Year = y, true
	return true
}

func (pt *parts) setMonthName(cal calendar.Calendar, s string) bool {
	m, ok := cal.MonthNumber(s)
	if !ok {
		return false
	}
	pt.month, pt.known.Month = m, true
	return true
}

func (pt *parts) setMonth(m int) {
	pt.month, pt.known.Month = m, true
}

func (pt *parts) setDay(d int) {
	pt.day, pt.known.Day = d, true
}

// matchISO handles "2008-01-01" and "20080101".
func matchISO(_ *Parser, cal calendar.Calendar, s string) (parts, bool) {
	m := isoRe.FindStringSubmatch(s)
	if m == nil {
		m = compactRe.FindStringSubmatch(s)
	}
	if m == nil {
		return parts{}, false
	}
	pt := newParts()
	if !pt.setYear(cal, m[1]) {
		return parts{}, false
	}
	pt.setMonth(atoi(m[2]))
	pt.setDay(atoi(m[3]))
	return pt, true
}

// matchNumeric handles "01/02/2008" in the configured order. When the
// month slot holds a value above 12 the two fields are swapped.
func matchNumeric(p *Parser, cal calendar.Calendar, s string) (parts, bool) {
	m := numericRe.FindStringSubmatch(s)
	if m == nil {
		return parts{}, false
	}
	month, day := atoi(m[1]), atoi(m[2])
	if p.order == DayFirst {
		month, day = day, month
	}
	if month > 12 {
		month, day = day, month
	}

	pt := newParts()
	if !pt.setYear(cal, m[3]) {
		return parts{}, false
	}
	pt.setMonth(month)
	pt.setDay(day)
	return pt, true
}

// matchDayMonthYear handles "1 january 2008", "1er vendemiaire an XI".
func matchDayMonthYear(_ *Parser, cal calendar.Calendar, s string) (parts, bool) {
	m := dayMonthYearRe.FindStringSubmatch(s)
	if m == nil {
		return parts{}, false
	}
	pt := newParts()
	if !pt.setMonthName(cal, m[2]) || !pt.setYear(cal, m[3]) {
		return parts{}, false
	}
	pt.setDay(atoi(m[1]))
	return pt, true
}

// matchMonthDayYear handles "january 1, 2008".
func matchMonthDayYear(_ *Parser, cal calendar.Calendar, s string) (parts, bool) {
	m := monthDayYearRe.FindStringSubmatch(s)
	if m == nil {
		return parts{}, false
	}
	pt := newParts()
	if !pt.setMonthName(cal, m[1]) || !pt.setYear(cal, m[3]) {
		return parts{}, false
	}
	pt.setDay(atoi(m[2]))
	return pt, true
}

// matchMonthYear handles "march 1850".
func matchMonthYear(_ *Parser, cal calendar.Calendar, s string) (parts, bool) {
	m := monthYearRe.FindStringSubmatch(s)
	if m == nil {
		return parts{}, false
	}
	pt := newParts()
	if !pt.setMonthName(cal, m[1]) || !pt.setYear(cal, m[2]) {
		return parts{}, false
	}
	return pt, true
}

// matchDayMonth handles "9 thermidor" (no year).
func matchDayMonth(_ *Parser, cal calendar.Calendar, s string) (parts, bool) {
	m := dayMonthRe.FindStringSubmatch(s)
	if m == nil {
		return parts{}, false
	}
	pt := newParts()
	if !pt.setMonthName(cal, m[2]) {
		return parts{}, false
	}
	pt.setDay(atoi(m[1]))
	return pt, true
}

// matchDashDayMonth handles "25-12" as day then month. No swap is applied.
func matchDashDayMonth(_ *Parser, _ calendar.Calendar, s string) (parts, bool) {
	m := dashDayMonthRe.FindStringSubmatch(s)
	if m == nil {
		return parts{}, false
	}
	pt := newParts()
	pt.setDay(atoi(m[1]))
	pt.setMonth(atoi(m[2]))
	return pt, true
}

// matchYearMonth handles "1850" and "1850-03".
func matchYearMonth(_ *Parser, cal calendar.Calendar, s string) (parts, bool) {
	m := yearMonthRe.FindStringSubmatch(s)
	if m == nil {
		return parts{}, false
	}
	pt := newParts()
	if !pt.setYear(cal, m[1]) {
		return parts{}, false
	}
	if m[2] != "" {
		pt.setMonth(atoi(m[2]))
	}
	return pt, true
}

// matchRomanYear handles a year alone in roman numerals ("an XI"). Only
// calendars whose ParseYear understands roman numerals accept it.
func matchRomanYear(_ *Parser, cal calendar.Calendar, s string) (parts, bool) {
	m := romanYearRe.FindStringSubmatch(s)
	if m == nil {
		return parts{}, false
	}
	pt := newParts()
	if !pt.setYear(cal, m[1]) {
		return parts{}, false
	}
	return pt, true
}
