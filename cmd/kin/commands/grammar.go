package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/kin/display"
	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/gedcom/grammar"
	"github.com/teranos/kin/sym"
)

// GrammarCmd shows the grammar table the parser validates against.
var GrammarCmd = &cobra.Command{
	Use:   "grammar [name]",
	Short: sym.Short("grammar"),
	Long: sym.GR + ` grammar — show the GEDCOM grammar table

Without a name, lists the named grammars. With a name, lists the tags the
grammar accepts, their occurrence bounds (min..max, * for unbounded) and
the grammar of their substructure. Inline substructures are addressed by
path: header/SOUR, header/SOUR/CORP.

Examples:
  kin grammar                     # List grammars
  kin grammar individual          # Tags of an INDI record
  kin grammar header/GEDC         # Substructure of HEAD.GEDC
  kin grammar --file custom.yaml  # Inspect another table`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGrammar,
}

func init() {
	GrammarCmd.Flags().String("file", "", "Grammar table file (YAML) instead of the built-in GEDCOM 5.5 table")
	GrammarCmd.Flags().Bool("json", false, "Output as JSON")
}

type ruleReport struct {
	Tags  []string `json:"tags"`
	Min   int      `json:"min"`
	Max   int      `json:"max"` // -1 for unbounded
	Child string   `json:"child,omitempty"`
}

type grammarReport struct {
	Name  string       `json:"name"`
	Rules []ruleReport `json:"rules"`
}

func runGrammar(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	table := grammar.Default()
	if file != "" {
		var err error
		if table, err = grammar.LoadFile(file); err != nil {
			return err
		}
	}

	useJSON := display.ShouldOutputJSON(cmd)
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		if useJSON {
			return display.WriteJSON(out, table.Names())
		}
		return printGrammarList(out, table)
	}

	g, err := resolveGrammar(table, args[0])
	if err != nil {
		return err
	}
	report := describeGrammar(g)
	if useJSON {
		return display.WriteJSON(out, report)
	}
	return printGrammar(out, report)
}

// resolveGrammar finds a named grammar, then follows "/TAG" steps into
// the substructure of each tag.
func resolveGrammar(table *grammar.Table, path string) (*grammar.Grammar, error) {
	steps := strings.Split(path, "/")
	g, err := table.Grammar(steps[0])
	if err != nil {
		return nil, errors.WithHint(err, "run 'kin grammar' to list grammar names")
	}
	for _, tag := range steps[1:] {
		rule, ok := g.Lookup(tag)
		if !ok {
			return nil, errors.NewNotFoundError("tag %s in grammar %q", strings.ToUpper(tag), g.Name)
		}
		if rule.Leaf() {
			return nil, errors.NewInvalidInputError("%s in grammar %q holds a value, not a structure", strings.ToUpper(tag), g.Name)
		}
		g = rule.Child
	}
	return g, nil
}

func describeGrammar(g *grammar.Grammar) grammarReport {
	report := grammarReport{Name: g.Name}
	for _, r := range g.Rules {
		rr := ruleReport{Tags: r.Tags, Min: r.Min, Max: r.Max}
		if r.Child != nil {
			rr.Child = r.Child.Name
		}
		report.Rules = append(report.Rules, rr)
	}
	return report
}

func printGrammarList(w io.Writer, table *grammar.Table) error {
	data := pterm.TableData{{"grammar", "tags"}}
	for _, name := range table.Names() {
		g, err := table.Grammar(name)
		if err != nil {
			return err
		}
		marker := ""
		if g == table.Root() {
			marker = " (root)"
		}
		data = append(data, []string{name + marker, strconv.Itoa(len(g.Tags()))})
	}
	return renderTable(w, fmt.Sprintf("%s GEDCOM %s", sym.GR, table.Version()), data)
}

func printGrammar(w io.Writer, report grammarReport) error {
	data := pterm.TableData{{"tags", "bounds", "substructure"}}
	for _, r := range report.Rules {
		rule := grammar.Rule{Min: r.Min, Max: r.Max}
		child := "-"
		if r.Child != "" {
			child = r.Child
		}
		data = append(data, []string{strings.Join(r.Tags, " "), rule.Bounds(), child})
	}
	return renderTable(w, sym.GR+" "+report.Name, data)
}

func renderTable(w io.Writer, title string, data pterm.TableData) error {
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, s)
	return nil
}
