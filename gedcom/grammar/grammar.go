// Package grammar describes which GEDCOM tags may appear inside which
// records, and how many times.
//
// A Table is loaded from a declarative YAML document and resolved once
// into a graph of Grammar nodes. Named grammars are single shared
// instances: every rule that references "citation" points at the same
// *Grammar, and references may form cycles (a citation holds notes, a
// note holds citations). Tables are immutable after loading and safe to
// share between concurrent parses.
package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/teranos/kin/errors"
)

// Unbounded is the Max of a rule without an upper bound.
const Unbounded = -1

// Rule declares the bounds and the substructure of one or more tags.
type Rule struct {
	Tags  []string
	Min   int
	Max   int
	Child *Grammar // nil for a leaf holding only a value
}

// Leaf reports whether the rule has no child grammar.
func (r *Rule) Leaf() bool { return r.Child == nil }

// Many reports whether a tag may occur more than once.
func (r *Rule) Many() bool { return r.Max != 1 }

// Bounds renders the occurrence bounds as "min..max".
func (r *Rule) Bounds() string {
	if r.Max == Unbounded {
		return fmt.Sprintf("%d..*", r.Min)
	}
	return fmt.Sprintf("%d..%d", r.Min, r.Max)
}

// Grammar is the set of rules allowed inside one kind of record.
type Grammar struct {
	Name  string
	Rules []*Rule

	byTag map[string]*Rule
}

func newGrammar(name string) *Grammar {
	return &Grammar{Name: name, byTag: make(map[string]*Rule)}
}

// Lookup returns the rule declaring tag.
func (g *Grammar) Lookup(tag string) (*Rule, bool) {
	r, ok := g.byTag[strings.ToUpper(tag)]
	return r, ok
}

// Tags returns the declared tags in declaration order.
func (g *Grammar) Tags() []string {
	var tags []string
	for _, r := range g.Rules {
		tags = append(tags, r.Tags...)
	}
	return tags
}

func (g *Grammar) add(r *Rule) error {
	for _, tag := range r.Tags {
		if _, dup := g.byTag[tag]; dup {
			return errors.Newf("grammar %q declares tag %s twice", g.Name, tag)
		}
	}
	for _, tag := range r.Tags {
		g.byTag[tag] = r
	}
	g.Rules = append(g.Rules, r)
	return nil
}

// Table is a resolved set of grammars with a designated root.
type Table struct {
	version string
	root    *Grammar
	byName  map[string]*Grammar
}

// Root returns the grammar of a whole file.
func (t *Table) Root() *Grammar { return t.root }

// Version returns the GEDCOM version the table describes.
func (t *Table) Version() string { return t.version }

// Grammar returns a named grammar.
func (t *Table) Grammar(name string) (*Grammar, error) {
	g, ok := t.byName[name]
	if !ok {
		return nil, errors.NewNotFoundError("grammar %q", name)
	}
	return g, nil
}

// Names returns the names of all named grammars, sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
