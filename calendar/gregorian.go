package calendar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Gregorian adoption boundary. Dates with a known year before this one are
// converted with Julian arithmetic.
const (
	adoptionYear  = 1582
	adoptionMonth = 2
	adoptionDay   = 24
)

var (
	gregorianEscape = regexp.MustCompile(`(?i)@#dgregorian@`)
	gregorianSuffix = regexp.MustCompile(`(?i)\s+(?:gr|gregorian)\.?\s*$`)

	// adoptionJDN is the first day converted with Gregorian arithmetic.
	adoptionJDN = gregorianToJDN(adoptionYear, adoptionMonth, adoptionDay)
)

// Month names shared by the Gregorian and Julian calendars: English names
// and abbreviations (GEDCOM uses JAN..DEC) plus the French names.
var civilMonths = map[string]int{
	"january": 1, "jan": 1, "janvier": 1,
	"february": 2, "feb": 2, "fevrier": 2, "fev": 2,
	"march": 3, "mar": 3, "mars": 3,
	"april": 4, "apr": 4, "avril": 4, "avr": 4,
	"may": 5, "mai": 5,
	"june": 6, "jun": 6, "juin": 6,
	"july": 7, "jul": 7, "juillet": 7,
	"august": 8, "aug": 8, "aout": 8,
	"september": 9, "sep": 9, "sept": 9, "septembre": 9,
	"october": 10, "oct": 10, "octobre": 10,
	"november": 11, "nov": 11, "novembre": 11,
	"december": 12, "dec": 12, "decembre": 12,
}

type gregorian struct{}

func (gregorian) Name() string { return "gregorian" }

func (gregorian) Recognize(text string) (string, bool) {
	return stripMarkers(text, gregorianEscape, gregorianSuffix)
}

func (gregorian) ToJulianDay(year, month, day int, known Known) (int64, Calendar) {
	year, month, day = withSentinels(year, month, day, known)
	if known.Year && beforeAdoption(year, month, day) {
		return julianToJDN(year, month, day), Julian
	}
	return gregorianToJDN(year, month, day), Gregorian
}

func (gregorian) FromJulianDay(jdn int64) (int, int, int) {
	return jdnToGregorian(jdn)
}

func (g gregorian) Format(jdn int64, known Known, yearOnly bool) string {
	if known.Year && jdn < adoptionJDN {
		return Julian.Format(jdn, known, yearOnly)
	}
	y, m, d := jdnToGregorian(jdn)
	return formatISO(y, m, d, known, yearOnly)
}

func (gregorian) MonthNumber(name string) (int, bool) {
	m, ok := civilMonths[strings.TrimSuffix(strings.ToLower(name), ".")]
	return m, ok
}

func (gregorian) DaysInMonth(year, month int) int {
	if year < adoptionYear {
		return julianDaysInMonth(year, month)
	}
	return civilDaysInMonth(month, gregorianLeap(year))
}

func (gregorian) MonthsInYear() int { return 12 }

func (gregorian) ParseYear(text string) (int, bool) {
	return parseDigitsYear(text)
}

func beforeAdoption(year, month, day int) bool {
	if year != adoptionYear {
		return year < adoptionYear
	}
	if month != adoptionMonth {
		return month < adoptionMonth
	}
	return day < adoptionDay
}

func gregorianLeap(year int) bool {
	return floorMod(year, 4) == 0 && (floorMod(year, 100) != 0 || floorMod(year, 400) == 0)
}

func civilDaysInMonth(month int, leap bool) int {
	switch month {
	case 2:
		if leap {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	}
	return 0
}

// gregorianToJDN uses the Fliegel and Van Flandern integer algorithm.
func gregorianToJDN(year, month, day int) int64 {
	a := (14 - month) / 12
	y := int64(year + 4800 - a)
	m := int64(month + 12*a - 3)
	return int64(day) + (153*m+2)/5 + 365*y +
		floorDiv64(y, 4) - floorDiv64(y, 100) + floorDiv64(y, 400) - 32045
}

func jdnToGregorian(jdn int64) (int, int, int) {
	a := jdn + 32044
	b := floorDiv64(4*a+3, 146097)
	c := a - floorDiv64(146097*b, 4)
	d := floorDiv64(4*c+3, 1461)
	e := c - floorDiv64(1461*d, 4)
	m := floorDiv64(5*e+2, 153)
	day := e - floorDiv64(153*m+2, 5) + 1
	month := m + 3 - 12*floorDiv64(m, 10)
	year := 100*b + d - 4800 + floorDiv64(m, 10)
	return int(year), int(month), int(day)
}

// formatISO renders the known components in ISO 8601 order. A date without
// a year uses the "--MM-DD" form.
func formatISO(y, m, d int, known Known, yearOnly bool) string {
	if !known.Year {
		if yearOnly || !known.Month {
			return ""
		}
		if known.Day {
			return fmt.Sprintf("--%02d-%02d", m, d)
		}
		return fmt.Sprintf("--%02d", m)
	}
	if yearOnly || !known.Month {
		return formatYear(y)
	}
	if !known.Day {
		return fmt.Sprintf("%s-%02d", formatYear(y), m)
	}
	return fmt.Sprintf("%s-%02d-%02d", formatYear(y), m, d)
}

func formatYear(y int) string {
	if y < 0 {
		return fmt.Sprintf("-%04d", -y)
	}
	return fmt.Sprintf("%04d", y)
}

func parseDigitsYear(text string) (int, bool) {
	if text == "" || len(text) > 5 {
		return 0, false
	}
	y, err := strconv.Atoi(text)
	if err != nil || y < 0 {
		return 0, false
	}
	return y, true
}

// stripMarkers removes a GEDCOM calendar escape found anywhere in text
// ("BEF @#DJULIAN@ 1700"), or a trailing calendar suffix.
func stripMarkers(text string, escape, suffix *regexp.Regexp) (string, bool) {
	if loc := escape.FindStringIndex(text); loc != nil {
		return strings.Join(strings.Fields(text[:loc[0]]+" "+text[loc[1]:]), " "), true
	}
	if loc := suffix.FindStringIndex(text); loc != nil {
		return strings.TrimSpace(text[:loc[0]]), true
	}
	return text, false
}
