package dates

import (
	"encoding/json"
	"regexp"

	"github.com/teranos/kin/calendar"
)

// Span tells how the two dates of a Range relate.
type Span int

const (
	// Single is a range holding only Start.
	Single Span = iota
	// From is "from A to B".
	From
	// Between is "between A and B".
	Between
)

func (s Span) String() string {
	switch s {
	case From:
		return "from"
	case Between:
		return "between"
	}
	return "single"
}

// Range is a single date or a span of two dates.
type Range struct {
	text  string
	Start Date
	End   Date
	Span  Span
}

var (
	fromRe    = regexp.MustCompile(`(?i)^\s*(?:from|de|du)\s+(.+?)\s+(?:to|a|à|au)\s+(.+?)\s*$`)
	betweenRe = regexp.MustCompile(`(?i)^\s*(?:between|bet|entre)\.?\s+(.+?)\s+(?:and|et)\s+(.+?)\s*$`)
)

// ParseRange recognizes "from A to B" and "between A and B" (and their
// French forms) on the whole text; anything else is parsed as one date.
// Each side is a full date and may carry its own calendar and qualifiers.
func (p *Parser) ParseRange(text string) Range {
	if m := fromRe.FindStringSubmatch(text); m != nil {
		return Range{text: text, Start: p.Parse(m[1]), End: p.Parse(m[2]), Span: From}
	}
	if m := betweenRe.FindStringSubmatch(text); m != nil {
		return Range{text: text, Start: p.Parse(m[1]), End: p.Parse(m[2]), Span: Between}
	}
	return Range{text: text, Start: p.Parse(text), Span: Single}
}

// Text returns the text the range was parsed from.
func (r Range) Text() string { return r.text }

// SortDate returns the date used to order ranges: the start.
func (r Range) SortDate() Date { return r.Start }

// Known reports whether at least one side was understood.
func (r Range) Known() bool {
	return r.Start.Known() || (r.Span != Single && r.End.Known())
}

// Display renders the range; see Date.Display for cal and yearOnly.
func (r Range) Display(cal calendar.Calendar, yearOnly bool) string {
	switch r.Span {
	case From:
		return "from " + r.Start.Display(cal, yearOnly) + " to " + r.End.Display(cal, yearOnly)
	case Between:
		return "between " + r.Start.Display(cal, yearOnly) + " and " + r.End.Display(cal, yearOnly)
	}
	return r.Start.Display(cal, yearOnly)
}

func (r Range) String() string {
	return r.Display(nil, false)
}

type rangeJSON struct {
	Text    string `json:"text"`
	Display string `json:"display"`
	Span    string `json:"span"`
	Start   Date   `json:"start"`
	End     *Date  `json:"end,omitempty"`
}

func (r Range) MarshalJSON() ([]byte, error) {
	out := rangeJSON{
		Text:    r.text,
		Display: r.String(),
		Span:    r.Span.String(),
		Start:   r.Start,
	}
	if r.Span != Single {
		end := r.End
		out.End = &end
	}
	return json.Marshal(out)
}
