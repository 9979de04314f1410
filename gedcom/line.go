package gedcom

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Position locates a line in its source.
type Position struct {
	Source string `json:"source,omitempty"`
	Line   int    `json:"line"`
}

func (p Position) String() string {
	if p.Source == "" {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.Source, p.Line)
}

// Line is one logical GEDCOM line, continuations already merged.
type Line struct {
	Level int
	XRef  string // with the @ delimiters, empty when absent
	Tag   string // upper case
	Value string
	Pos   Position
}

func (l *Line) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(l.Level))
	if l.XRef != "" {
		b.WriteByte(' ')
		b.WriteString(l.XRef)
	}
	b.WriteByte(' ')
	b.WriteString(l.Tag)
	if l.Value != "" {
		b.WriteByte(' ')
		b.WriteString(l.Value)
	}
	return b.String()
}

// LEVEL [@XREF@] TAG [VALUE]
var lineRe = regexp.MustCompile(`^(\d{1,2})\s+(?:(@[^@\s]+@)\s+)?([A-Za-z0-9_]+)(?:\s(.*))?$`)

func parseLine(text string, pos Position) (*Line, error) {
	m := lineRe.FindStringSubmatch(text)
	if m == nil {
		return nil, &FormatError{Pos: pos, Text: text, Msg: "malformed line"}
	}
	level, _ := strconv.Atoi(m[1])
	return &Line{
		Level: level,
		XRef:  m[2],
		Tag:   strings.ToUpper(m[3]),
		Value: m[4],
		Pos:   pos,
	}, nil
}
