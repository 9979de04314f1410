package gedcom

import (
	"encoding/json"

	"github.com/teranos/kin/gedcom/grammar"
)

// FieldKind is the shape of a record field, fixed by its grammar rule.
type FieldKind int

const (
	// Scalar holds at most one value (leaf rule, max 1).
	Scalar FieldKind = iota
	// Child holds at most one sub-record (max 1).
	Child
	// ScalarList holds values (leaf rule, max > 1).
	ScalarList
	// ChildList holds sub-records (max > 1).
	ChildList
)

func (k FieldKind) String() string {
	switch k {
	case Child:
		return "child"
	case ScalarList:
		return "scalar-list"
	case ChildList:
		return "child-list"
	}
	return "scalar"
}

func kindOf(r *grammar.Rule) FieldKind {
	switch {
	case r.Leaf() && r.Many():
		return ScalarList
	case r.Leaf():
		return Scalar
	case r.Many():
		return ChildList
	}
	return Child
}

// Value is a leaf value with its location.
type Value struct {
	Text string   `json:"text"`
	Pos  Position `json:"pos"`
}

// Field holds the occurrences of one declared tag.
type Field struct {
	Kind FieldKind
	Rule *grammar.Rule

	values   []Value
	children []*Record
}

// Len returns the number of occurrences.
func (f *Field) Len() int {
	if f.Kind == Child || f.Kind == ChildList {
		return len(f.children)
	}
	return len(f.values)
}

// Record is a GEDCOM record or substructure. It has one field per tag
// declared by its grammar, so any declared tag can be queried whether or
// not it occurred.
type Record struct {
	Tag   string
	XRef  string
	Value string
	Pos   Position

	grammar *grammar.Grammar
	fields  map[string]*Field
}

func newRecord(g *grammar.Grammar, line *Line) *Record {
	r := &Record{
		Tag:     line.Tag,
		XRef:    line.XRef,
		Value:   line.Value,
		Pos:     line.Pos,
		grammar: g,
		fields:  make(map[string]*Field),
	}
	for _, rule := range g.Rules {
		for _, tag := range rule.Tags {
			r.fields[tag] = &Field{Kind: kindOf(rule), Rule: rule}
		}
	}
	return r
}

// Grammar returns the grammar the record was built from.
func (r *Record) Grammar() *grammar.Grammar { return r.grammar }

// Tags returns the declared tags in grammar order.
func (r *Record) Tags() []string { return r.grammar.Tags() }

// Field returns the field of a declared tag.
func (r *Record) Field(tag string) (*Field, bool) {
	f, ok := r.fields[tag]
	return f, ok
}

// Scalar returns the first value of tag, or "".
func (r *Record) Scalar(tag string) string {
	if f, ok := r.fields[tag]; ok && len(f.values) > 0 {
		return f.values[0].Text
	}
	return ""
}

// Scalars returns every value of tag.
func (r *Record) Scalars(tag string) []string {
	f, ok := r.fields[tag]
	if !ok {
		return nil
	}
	out := make([]string, len(f.values))
	for i, v := range f.values {
		out[i] = v.Text
	}
	return out
}

// Values returns every value of tag with its location.
func (r *Record) Values(tag string) []Value {
	if f, ok := r.fields[tag]; ok && len(f.values) > 0 {
		return append([]Value(nil), f.values...)
	}
	return nil
}

// Child returns the first sub-record of tag, or nil.
func (r *Record) Child(tag string) *Record {
	if f, ok := r.fields[tag]; ok && len(f.children) > 0 {
		return f.children[0]
	}
	return nil
}

// Children returns every sub-record of tag.
func (r *Record) Children(tag string) []*Record {
	if f, ok := r.fields[tag]; ok && len(f.children) > 0 {
		return append([]*Record(nil), f.children...)
	}
	return nil
}

// Walk calls fn for r and every sub-record below it, depth first in
// grammar order. Returning an error stops the walk.
func (r *Record) Walk(fn func(*Record) error) error {
	if err := fn(r); err != nil {
		return err
	}
	for _, rule := range r.grammar.Rules {
		if rule.Leaf() {
			continue
		}
		for _, tag := range rule.Tags {
			for _, c := range r.fields[tag].children {
				if err := c.Walk(fn); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

type recordJSON struct {
	Tag    string                 `json:"tag"`
	XRef   string                 `json:"xref,omitempty"`
	Value  string                 `json:"value,omitempty"`
	Line   int                    `json:"line,omitempty"`
	Fields map[string]interface{} `json:"fields,omitempty"`
}

// MarshalJSON renders the record with its occurring fields only.
func (r *Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{Tag: r.Tag, XRef: r.XRef, Value: r.Value, Line: r.Pos.Line}
	for tag, f := range r.fields {
		if f.Len() == 0 {
			continue
		}
		if out.Fields == nil {
			out.Fields = make(map[string]interface{})
		}
		switch f.Kind {
		case Scalar:
			out.Fields[tag] = f.values[0].Text
		case ScalarList:
			vals := make([]string, len(f.values))
			for i, v := range f.values {
				vals[i] = v.Text
			}
			out.Fields[tag] = vals
		case Child:
			out.Fields[tag] = f.children[0]
		case ChildList:
			out.Fields[tag] = f.children
		}
	}
	return json.Marshal(out)
}
