package calendar

import (
	"regexp"
	"strings"
)

var (
	julianEscape = regexp.MustCompile(`(?i)@#djulian@`)
	// "jul" is left out on purpose: it is the GEDCOM abbreviation for July.
	julianSuffix = regexp.MustCompile(`(?i)\s+(?:ju|julian|os|o\.s\.)\.?\s*$`)
)

type julian struct{}

func (julian) Name() string { return "julian" }

func (julian) Recognize(text string) (string, bool) {
	return stripMarkers(text, julianEscape, julianSuffix)
}

func (julian) ToJulianDay(year, month, day int, known Known) (int64, Calendar) {
	year, month, day = withSentinels(year, month, day, known)
	return julianToJDN(year, month, day), Julian
}

func (julian) FromJulianDay(jdn int64) (int, int, int) {
	return jdnToJulian(jdn)
}

func (julian) Format(jdn int64, known Known, yearOnly bool) string {
	y, m, d := jdnToJulian(jdn)
	s := formatISO(y, m, d, known, yearOnly)
	if s == "" {
		return s
	}
	return s + " (Julian)"
}

func (julian) MonthNumber(name string) (int, bool) {
	m, ok := civilMonths[strings.TrimSuffix(strings.ToLower(name), ".")]
	return m, ok
}

func (julian) DaysInMonth(year, month int) int {
	return julianDaysInMonth(year, month)
}

func (julian) MonthsInYear() int { return 12 }

func (julian) ParseYear(text string) (int, bool) {
	return parseDigitsYear(text)
}

func julianDaysInMonth(year, month int) int {
	return civilDaysInMonth(month, floorMod(year, 4) == 0)
}

func julianToJDN(year, month, day int) int64 {
	a := (14 - month) / 12
	y := int64(year + 4800 - a)
	m := int64(month + 12*a - 3)
	return int64(day) + (153*m+2)/5 + 365*y + floorDiv64(y, 4) - 32083
}

func jdnToJulian(jdn int64) (int, int, int) {
	c := jdn + 32082
	d := floorDiv64(4*c+3, 1461)
	e := c - floorDiv64(1461*d, 4)
	m := floorDiv64(5*e+2, 153)
	day := e - floorDiv64(153*m+2, 5) + 1
	month := m + 3 - 12*floorDiv64(m, 10)
	year := d - 4800 + floorDiv64(m, 10)
	return int(year), int(month), int(day)
}
