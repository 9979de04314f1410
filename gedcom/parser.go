// Package gedcom reads GEDCOM files into a validated record tree.
//
// A Lexer splits the stream into logical lines, folding CONT and CONC
// continuations. A Parser walks those lines by recursive descent, guided
// by a grammar.Table: every tag must be declared by the grammar of the
// enclosing record and occur within its bounds. Violations abort the parse
// with a *StructuralError carrying the offending line's position.
package gedcom

import (
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/gedcom/grammar"
)

// RootTag is the tag of the synthetic record holding a whole file.
const RootTag = "FILE"

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger receiving parse summaries.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(p *Parser) {
		if log != nil {
			p.log = log
		}
	}
}

// WithStrictExtensions makes vendor extension tags (_UID, _MARNM...) an
// error instead of skipping them with their subtree.
func WithStrictExtensions(strict bool) Option {
	return func(p *Parser) { p.strict = strict }
}

// Parser builds record trees. It holds no per-parse state and may be used
// for several parses, concurrently.
type Parser struct {
	table  *grammar.Table
	log    *zap.SugaredLogger
	strict bool
}

// NewParser returns a parser for table, or for the default GEDCOM 5.5
// table when table is nil.
func NewParser(table *grammar.Table, opts ...Option) *Parser {
	if table == nil {
		table = grammar.Default()
	}
	p := &Parser{table: table, log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses r with the default table.
func Parse(r io.Reader, source string) (*Record, error) {
	return NewParser(nil).Parse(r, source)
}

// ParseFile parses the file at path with the default table.
func ParseFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads a whole GEDCOM stream. source names the stream in errors.
func (p *Parser) Parse(r io.Reader, source string) (*Record, error) {
	lx, err := NewLexer(r, source)
	if err != nil {
		return nil, err
	}
	return p.ParseLexer(lx)
}

// parse holds the state of one parse.
type parse struct {
	lx       *Lexer
	records  int
	skipped  int
	maxDepth int
}

// ParseLexer parses the lines of lx into a root record tagged FILE.
func (p *Parser) ParseLexer(lx *Lexer) (*Record, error) {
	start := time.Now()
	root := newRecord(p.table.Root(), &Line{
		Level: -1,
		Tag:   RootTag,
		Pos:   Position{Source: lx.Source(), Line: 1},
	})

	st := &parse{lx: lx}
	if err := p.record(st, root, -1, 0); err != nil {
		return nil, err
	}

	p.log.Debugw("Parsed GEDCOM",
		"file", lx.Source(),
		"lines", lx.Last().Line,
		"records", st.records,
		"skipped_extensions", st.skipped,
		"max_depth", st.maxDepth,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return root, nil
}

// record consumes every line deeper than level into rec.
func (p *Parser) record(st *parse, rec *Record, level, depth int) error {
	if depth > st.maxDepth {
		st.maxDepth = depth
	}
	for {
		line, err := st.lx.Peek()
		if err != nil {
			return err
		}
		if line == nil || line.Level <= level {
			break
		}
		if line.Level > level+1 {
			return structuralf(line.Pos, line.Tag, "invalid level %d for tag %s inside %s (expected %d)",
				line.Level, line.Tag, rec.Tag, level+1)
		}

		rule, ok := rec.grammar.Lookup(line.Tag)
		if !ok {
			if skipped, err := p.skipExtension(st, line); skipped || err != nil {
				if err != nil {
					return err
				}
				continue
			}
			return structuralf(line.Pos, line.Tag, "invalid tag %s inside %s", line.Tag, rec.Tag)
		}

		field := rec.fields[line.Tag]
		if rule.Max != grammar.Unbounded && field.Len() >= rule.Max {
			return structuralf(line.Pos, line.Tag, "too many occurrences of tag %s in %s (max %d)",
				line.Tag, rec.Tag, rule.Max)
		}

		if _, err := st.lx.Next(); err != nil {
			return err
		}
		if rule.Leaf() {
			if err := p.leaf(st, line); err != nil {
				return err
			}
			field.values = append(field.values, Value{Text: line.Value, Pos: line.Pos})
			continue
		}

		child := newRecord(rule.Child, line)
		st.records++
		if err := p.record(st, child, line.Level, depth+1); err != nil {
			return err
		}
		field.children = append(field.children, child)
	}
	return p.checkMin(st, rec, level)
}

// leaf rejects lines nested under a leaf value, extensions aside.
func (p *Parser) leaf(st *parse, line *Line) error {
	for {
		next, err := st.lx.Peek()
		if err != nil {
			return err
		}
		if next == nil || next.Level <= line.Level {
			return nil
		}
		skipped, err := p.skipExtension(st, next)
		if err != nil {
			return err
		}
		if !skipped {
			return structuralf(next.Pos, next.Tag, "invalid tag %s inside %s", next.Tag, line.Tag)
		}
	}
}

// skipExtension drops a vendor extension line and its subtree.
func (p *Parser) skipExtension(st *parse, line *Line) (bool, error) {
	if p.strict || !strings.HasPrefix(line.Tag, "_") {
		return false, nil
	}
	if _, err := st.lx.Next(); err != nil {
		return false, err
	}
	if err := st.lx.SkipTo(line.Level); err != nil {
		return false, err
	}
	st.skipped++
	return true, nil
}

// checkMin reports the first declared tag below its minimum. The error is
// located at the record's first line, or at the last line read for the
// root record.
func (p *Parser) checkMin(st *parse, rec *Record, level int) error {
	pos := rec.Pos
	if level < 0 {
		pos = st.lx.Last()
	}
	for _, rule := range rec.grammar.Rules {
		if rule.Min == 0 {
			continue
		}
		for _, tag := range rule.Tags {
			if n := rec.fields[tag].Len(); n < rule.Min {
				return structuralf(pos, tag, "missing %d occurrence(s) of %s in %s", rule.Min-n, tag, rec.Tag)
			}
		}
	}
	return nil
}
