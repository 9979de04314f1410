package grammar

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/teranos/kin/errors"
)

//go:embed gedcom55.yaml
var gedcom55 []byte

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the embedded GEDCOM 5.5 table. It is built on first use
// and shared afterwards.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(gedcom55)
		if err != nil {
			panic(errors.Wrap(err, "embedded gedcom55.yaml"))
		}
		defaultTable = t
	})
	return defaultTable
}

// LoadFile reads a grammar table from a YAML file.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open grammar %s", path)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "grammar %s", path)
	}
	return t, nil
}

// Load reads a grammar table from r.
func Load(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read grammar")
	}
	return Parse(data)
}

// document is the YAML shape of a table.
type document struct {
	Version  string                `yaml:"version"`
	Root     string                `yaml:"root"`
	Grammars map[string][]ruleSpec `yaml:"grammars"`
}

type ruleSpec struct {
	Tags    []string   `yaml:"tags"`
	Min     int        `yaml:"min"`
	Max     *bound     `yaml:"max"`
	Ref     string     `yaml:"ref"`
	Inline  []ruleSpec `yaml:"inline"`
	Include string     `yaml:"include"`
}

// bound is a max value: a positive integer, or "*" for Unbounded.
type bound int

func (b *bound) UnmarshalYAML(n *yaml.Node) error {
	switch strings.ToLower(n.Value) {
	case "*", "unbounded", "many":
		*b = Unbounded
		return nil
	}
	var v int
	if err := n.Decode(&v); err != nil {
		return errors.Newf("line %d: max must be a positive integer or \"*\", got %q", n.Line, n.Value)
	}
	if v < 1 {
		return errors.Newf("line %d: max must be at least 1, got %d", n.Line, v)
	}
	*b = bound(v)
	return nil
}

// Parse builds a table from YAML data.
//
// Resolution runs in two phases: every named grammar is allocated first,
// then rules are filled in. A ref therefore always resolves to the single
// shared instance, whether or not its rules are built yet.
func Parse(data []byte) (*Table, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode grammar")
	}
	if doc.Root == "" {
		return nil, errors.New("grammar table has no root")
	}

	res := &resolver{
		specs:  doc.Grammars,
		byName: make(map[string]*Grammar, len(doc.Grammars)),
		state:  make(map[string]int, len(doc.Grammars)),
	}
	for name := range doc.Grammars {
		res.byName[name] = newGrammar(name)
	}
	if _, ok := res.byName[doc.Root]; !ok {
		return nil, errors.Newf("root grammar %q is not defined", doc.Root)
	}
	for name := range doc.Grammars {
		if err := res.resolve(name); err != nil {
			return nil, err
		}
	}

	return &Table{
		version: doc.Version,
		root:    res.byName[doc.Root],
		byName:  res.byName,
	}, nil
}

const (
	unresolved = iota
	resolving
	resolved
)

type resolver struct {
	specs  map[string][]ruleSpec
	byName map[string]*Grammar
	state  map[string]int
}

func (r *resolver) resolve(name string) error {
	switch r.state[name] {
	case resolved:
		return nil
	case resolving:
		return errors.Newf("grammar %q includes itself", name)
	}
	r.state[name] = resolving
	if err := r.build(r.byName[name], r.specs[name]); err != nil {
		return err
	}
	r.state[name] = resolved
	return nil
}

func (r *resolver) build(g *Grammar, specs []ruleSpec) error {
	for i, spec := range specs {
		if spec.Include != "" {
			if err := r.include(g, spec); err != nil {
				return err
			}
			continue
		}
		rule, err := r.rule(g, i, spec)
		if err != nil {
			return err
		}
		if err := g.add(rule); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) include(g *Grammar, spec ruleSpec) error {
	if len(spec.Tags) > 0 || spec.Ref != "" || spec.Inline != nil {
		return errors.Newf("grammar %q: include %q cannot be combined with other keys", g.Name, spec.Include)
	}
	src, ok := r.byName[spec.Include]
	if !ok {
		return errors.Newf("grammar %q includes undefined grammar %q", g.Name, spec.Include)
	}
	if err := r.resolve(spec.Include); err != nil {
		return errors.Wrapf(err, "grammar %q", g.Name)
	}
	for _, rule := range src.Rules {
		if err := g.add(rule); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) rule(g *Grammar, i int, spec ruleSpec) (*Rule, error) {
	if len(spec.Tags) == 0 {
		return nil, errors.Newf("grammar %q rule %d has no tags", g.Name, i+1)
	}
	tags := make([]string, len(spec.Tags))
	for j, tag := range spec.Tags {
		tags[j] = strings.ToUpper(strings.TrimSpace(tag))
	}

	rule := &Rule{Tags: tags, Min: spec.Min, Max: 1}
	if spec.Max != nil {
		rule.Max = int(*spec.Max)
	}
	if rule.Min < 0 {
		return nil, errors.Newf("grammar %q tag %s: negative min", g.Name, tags[0])
	}
	if rule.Max != Unbounded && rule.Min > rule.Max {
		return nil, errors.Newf("grammar %q tag %s: min %d exceeds max %d", g.Name, tags[0], rule.Min, rule.Max)
	}

	switch {
	case spec.Ref != "" && spec.Inline != nil:
		return nil, errors.Newf("grammar %q tag %s: ref and inline are exclusive", g.Name, tags[0])
	case spec.Ref != "":
		child, ok := r.byName[spec.Ref]
		if !ok {
			return nil, errors.Newf("grammar %q tag %s references undefined grammar %q", g.Name, tags[0], spec.Ref)
		}
		rule.Child = child
	case spec.Inline != nil:
		child := newGrammar(g.Name + "/" + tags[0])
		if err := r.build(child, spec.Inline); err != nil {
			return nil, err
		}
		rule.Child = child
	}
	return rule, nil
}
