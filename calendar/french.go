package calendar

import (
	"regexp"
	"strconv"
	"strings"
)

// frenchEpoch is the JDN of 1 Vendemiaire an I (22 September 1792).
const frenchEpoch int64 = 2375840

// Month 13 holds the complementary days (five, six in a sextile year).
var frenchMonthNames = [...]string{
	"",
	"vendemiaire", "brumaire", "frimaire",
	"nivose", "pluviose", "ventose",
	"germinal", "floreal", "prairial",
	"messidor", "thermidor", "fructidor",
	"jours feries",
}

var frenchMonths = map[string]int{
	"vendemiaire": 1, "vend": 1,
	"brumaire": 2, "brum": 2,
	"frimaire": 3, "frim": 3,
	"nivose": 4, "nivo": 4,
	"pluviose": 5, "pluv": 5,
	"ventose": 6, "vent": 6,
	"germinal": 7, "germ": 7,
	"floreal": 8, "flor": 8,
	"prairial": 9, "prai": 9,
	"messidor": 10, "mess": 10,
	"thermidor": 11, "ther": 11,
	"fructidor": 12, "fruc": 12,
	"sansculottides": 13, "comp": 13, "complementaires": 13, "feries": 13,
}

var (
	frenchEscape = regexp.MustCompile(`(?i)@#dfrench r@`)
	frenchSuffix = regexp.MustCompile(`(?i)\s+(?:f|fr|french|french r|french republican)\.?\s*$`)
	frenchMonth  = regexp.MustCompile(`(?i)\b(?:vendemiaire|brumaire|frimaire|nivose|pluviose|ventose|germinal|floreal|prairial|messidor|thermidor|fructidor|sansculottides|jours\s+(?:feries|complementaires))\b`)

	// Multiword names of the complementary days, folded to a single token.
	complementaryDays = regexp.MustCompile(`(?i)\bjours\s+(?:feries|complementaires)\b`)
)

type french struct{}

func (french) Name() string { return "french" }

// Recognize accepts the explicit markers, or any text that names a
// republican month. In the latter case the month name stays in the text.
func (french) Recognize(text string) (string, bool) {
	rest, ok := stripMarkers(text, frenchEscape, frenchSuffix)
	if !ok && frenchMonth.MatchString(text) {
		rest, ok = text, true
	}
	if !ok {
		return text, false
	}
	return complementaryDays.ReplaceAllString(rest, "sansculottides"), true
}

func (french) ToJulianDay(year, month, day int, known Known) (int64, Calendar) {
	year, month, day = withSentinels(year, month, day, known)
	return frenchToJDN(year, month, day), French
}

func (french) FromJulianDay(jdn int64) (int, int, int) {
	return jdnToFrench(jdn)
}

func (french) Format(jdn int64, known Known, yearOnly bool) string {
	y, m, d := jdnToFrench(jdn)
	year := ""
	if known.Year {
		year = frenchYear(y)
	}
	if yearOnly || !known.Month {
		return year
	}

	parts := make([]string, 0, 3)
	if known.Day {
		parts = append(parts, strconv.Itoa(d))
	}
	parts = append(parts, frenchMonthNames[m])
	if year != "" {
		parts = append(parts, year)
	}
	return strings.Join(parts, " ")
}

func (french) MonthNumber(name string) (int, bool) {
	m, ok := frenchMonths[strings.TrimSuffix(strings.ToLower(name), ".")]
	return m, ok
}

func (french) DaysInMonth(year, month int) int {
	switch {
	case month >= 1 && month <= 12:
		return 30
	case month == 13 && frenchSextile(year):
		return 6
	case month == 13:
		return 5
	}
	return 0
}

func (french) MonthsInYear() int { return 13 }

// ParseYear accepts roman numerals ("xi") as well as digits.
func (french) ParseYear(text string) (int, bool) {
	if y, ok := parseDigitsYear(text); ok {
		return y, true
	}
	y, err := FromRoman(text)
	if err != nil {
		return 0, false
	}
	return y, true
}

func frenchSextile(year int) bool {
	return floorMod(year, 4) == 3
}

// frenchYearStart returns the number of days between the epoch and the
// first day of year.
func frenchYearStart(year int) int64 {
	y := int64(year)
	return (y-1)*365 + floorDiv64(y, 4)
}

func frenchToJDN(year, month, day int) int64 {
	return frenchEpoch + frenchYearStart(year) + int64(month-1)*30 + int64(day-1)
}

func jdnToFrench(jdn int64) (int, int, int) {
	days := jdn - frenchEpoch
	year := int(floorDiv64(4*days, 1461)) + 1
	for frenchYearStart(year) > days {
		year--
	}
	for frenchYearStart(year+1) <= days {
		year++
	}
	doy := int(days - frenchYearStart(year))
	return year, doy/30 + 1, doy%30 + 1
}

func frenchYear(y int) string {
	if y <= 0 {
		return strconv.Itoa(y)
	}
	return ToRoman(y)
}
