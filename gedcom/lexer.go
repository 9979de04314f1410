package gedcom

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/teranos/kin/errors"
)

const maxLineSize = 1 << 20

// Lexer turns a GEDCOM stream into logical lines with one line of
// lookahead. CONT and CONC lines are folded into the line they continue
// and never returned. A Lexer is driven by a single consumer.
type Lexer struct {
	sc      *bufio.Scanner
	source  string
	lineNo  int
	last    Position
	pending *Line // next physical line, read ahead to detect continuations
	peeked  *Line // next logical line
	done    bool
}

// NewLexer starts lexing r. The first line must be "0 HEAD", otherwise a
// *FormatError is returned.
func NewLexer(r io.Reader, source string) (*Lexer, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	sc.Split(scanLines)

	lx := &Lexer{sc: sc, source: source}
	// Checked as a physical line so a bad second line cannot mask it.
	first, err := lx.physical()
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, &FormatError{Pos: Position{Source: source, Line: 1}, Msg: "empty file, expected 0 HEAD"}
	}
	if first.Level != 0 || first.Tag != "HEAD" || first.XRef != "" {
		return nil, &FormatError{Pos: first.Pos, Text: first.String(), Msg: "file must start with 0 HEAD"}
	}
	lx.pending = first
	return lx, nil
}

// Source returns the source name given to NewLexer.
func (lx *Lexer) Source() string { return lx.source }

// Last returns the position of the last physical line read.
func (lx *Lexer) Last() Position { return lx.last }

// Peek returns the next logical line without consuming it, or nil at the
// end of the stream.
func (lx *Lexer) Peek() (*Line, error) {
	if lx.peeked == nil && !lx.done {
		l, err := lx.logical()
		if err != nil {
			return nil, err
		}
		lx.peeked = l
		lx.done = l == nil
	}
	return lx.peeked, nil
}

// Next consumes the next logical line. It returns io.EOF at the end of
// the stream.
func (lx *Lexer) Next() (*Line, error) {
	l, err := lx.Peek()
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, io.EOF
	}
	lx.peeked = nil
	return l, nil
}

// SkipTo discards every line deeper than level.
func (lx *Lexer) SkipTo(level int) error {
	for {
		l, err := lx.Peek()
		if err != nil {
			return err
		}
		if l == nil || l.Level <= level {
			return nil
		}
		lx.peeked = nil
	}
}

// logical assembles the next logical line from physical lines.
func (lx *Lexer) logical() (*Line, error) {
	cur := lx.pending
	lx.pending = nil
	if cur == nil {
		var err error
		if cur, err = lx.physical(); err != nil || cur == nil {
			return nil, err
		}
	}

	for {
		next, err := lx.physical()
		if err != nil {
			return nil, err
		}
		if next == nil {
			return cur, nil
		}
		switch next.Tag {
		case "CONT":
			cur.Value += "\n" + next.Value
		case "CONC":
			cur.Value += next.Value
		default:
			lx.pending = next
			return cur, nil
		}
	}
}

// physical reads and parses the next non-blank physical line.
func (lx *Lexer) physical() (*Line, error) {
	for lx.sc.Scan() {
		lx.lineNo++
		text := lx.sc.Text()
		if lx.lineNo == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pos := Position{Source: lx.source, Line: lx.lineNo}
		lx.last = pos
		return parseLine(text, pos)
	}
	if err := lx.sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s after line %d", lx.source, lx.lineNo)
	}
	return nil, nil
}

// scanLines splits on "\n", "\r\n" and a bare "\r".
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// A trailing \r may be the first half of \r\n.
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
