package dates

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/teranos/kin/calendar"
	"github.com/teranos/kin/errors"
)

// Order decides how an ambiguous numeric date such as "02/03/2008" is read.
type Order int

const (
	// MonthFirst reads "02/03/2008" as February 3rd.
	MonthFirst Order = iota
	// DayFirst reads "02/03/2008" as March 2nd.
	DayFirst
)

func (o Order) String() string {
	if o == DayFirst {
		return "dmy"
	}
	return "mdy"
}

// ParseOrder parses "mdy" or "dmy".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mdy", "us", "month-first":
		return MonthFirst, nil
	case "dmy", "eu", "day-first":
		return DayFirst, nil
	}
	return MonthFirst, errors.NewInvalidInputError("unknown date order %q (expected mdy or dmy)", s)
}

// Options configures a Parser.
type Options struct {
	Order Order
}

// Parser turns text into Date and Range values. It holds no mutable state
// and may be shared between goroutines.
type Parser struct {
	order Order
}

// NewParser returns a parser configured by opts.
func NewParser(opts Options) *Parser {
	return &Parser{order: opts.Order}
}

var defaultParser = NewParser(Options{})

// Parse parses text with the default options.
func Parse(text string) Date {
	return defaultParser.Parse(text)
}

// ParseRange parses text with the default options.
func ParseRange(text string) Range {
	return defaultParser.ParseRange(text)
}

var (
	beforeRe      = regexp.MustCompile(`^(?:(?:before|bef|avant)\b\.?|<)\s*`)
	afterRe       = regexp.MustCompile(`^(?:(?:after|aft|apres)\b\.?|>)\s*`)
	leadingSlash  = regexp.MustCompile(`^/\s*`)
	trailingSlash = regexp.MustCompile(`\s*/$`)

	aboutRe     = regexp.MustCompile(`^(?:(?:about|abt|circa|environ|env|vers|ca|c)\b\.?|~)\s*`)
	estimatedRe = regexp.MustCompile(`^(?:estimated|est|calculated|cal)\b\.?\s*`)
	questionRe  = regexp.MustCompile(`\s*\?$`)

	timeRe  = regexp.MustCompile(`(?:^|\s+)(\d{1,2}):(\d{2})(?::(\d{2}))?\s*(am|pm)?$`)
	deltaRe = regexp.MustCompile(`\s*([+-])\s*(\d+)\s*(day|month|year)s?\b`)
)

// offsets accumulates the arithmetic deltas found in the text.
type offsets struct {
	years, months, days int
}

// Parse parses a single date. The steps run in a fixed order, each one
// consuming its part of the text: calendar, boundary qualifier, precision,
// time of day, deltas, then the date components themselves.
func (p *Parser) Parse(text string) Date {
	s := normalize(text)

	cal := calendar.Gregorian
	for _, c := range calendar.All() {
		if rest, ok := c.Recognize(s); ok {
			cal, s = c, rest
			break
		}
	}

	d := Date{text: text, cal: cal}
	s, d.typ = boundary(s)
	s, d.precision = precision(s)
	s, d.tod, d.hasTime = timeOfDay(s)
	s, off := deltas(s)

	pt, ok := p.components(cal, strings.TrimSpace(s))
	if !ok {
		return Date{text: text, cal: cal}
	}

	y, m, day := pt.year, pt.month, pt.day
	if off.years != 0 || off.months != 0 {
		y, m = calendar.Normalize(cal, y+off.years, m+off.months)
		if n := cal.DaysInMonth(y, m); day > n {
			day = n
		}
	}
	jdn, used := cal.ToJulianDay(y, m, day, pt.known)

	d.jdn = jdn + int64(off.days)
	d.cal = used
	d.known = pt.known
	return d
}

func boundary(s string) (string, Type) {
	switch {
	case beforeRe.MatchString(s):
		return beforeRe.ReplaceAllString(s, ""), Before
	case afterRe.MatchString(s):
		return afterRe.ReplaceAllString(s, ""), After
	case leadingSlash.MatchString(s):
		return leadingSlash.ReplaceAllString(s, ""), Before
	case trailingSlash.MatchString(s):
		return trailingSlash.ReplaceAllString(s, ""), After
	}
	return s, On
}

func precision(s string) (string, Precision) {
	switch {
	case aboutRe.MatchString(s):
		return aboutRe.ReplaceAllString(s, ""), About
	case estimatedRe.MatchString(s):
		return estimatedRe.ReplaceAllString(s, ""), Estimated
	case questionRe.MatchString(s):
		return questionRe.ReplaceAllString(s, ""), Estimated
	}
	return s, Exact
}

func timeOfDay(s string) (string, TimeOfDay, bool) {
	m := timeRe.FindStringSubmatchIndex(s)
	if m == nil {
		return s, TimeOfDay{}, false
	}

	group := func(i int) string {
		if m[2*i] < 0 {
			return ""
		}
		return s[m[2*i]:m[2*i+1]]
	}

	var t TimeOfDay
	t.Hour, _ = strconv.Atoi(group(1))
	t.Minute, _ = strconv.Atoi(group(2))
	if sec := group(3); sec != "" {
		t.Second, _ = strconv.Atoi(sec)
		t.HasSeconds = true
	}
	switch group(4) {
	case "pm":
		if t.Hour < 12 {
			t.Hour += 12
		}
	case "am":
		if t.Hour == 12 {
			t.Hour = 0
		}
	}
	if t.Hour > 23 || t.Minute > 59 || t.Second > 59 {
		return s, TimeOfDay{}, false
	}
	return s[:m[0]], t, true
}

func deltas(s string) (string, offsets) {
	var off offsets
	matches := deltaRe.FindAllStringSubmatch(s, -1)
	if matches == nil {
		return s, off
	}
	for _, m := range matches {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		if m[1] == "-" {
			n = -n
		}
		switch m[3] {
		case "day":
			off.days += n
		case "month":
			off.months += n
		case "year":
			off.years += n
		}
	}
	return deltaRe.ReplaceAllString(s, ""), off
}
