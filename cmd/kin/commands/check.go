package commands

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/kin/am"
	"github.com/teranos/kin/dates"
	"github.com/teranos/kin/display"
	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/gedcom/grammar"
	ixgedcom "github.com/teranos/kin/ixgest/gedcom"
	"github.com/teranos/kin/logger"
	"github.com/teranos/kin/sym"
)

// CheckCmd parses and validates a GEDCOM file.
var CheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: sym.Short("check"),
	Long: sym.IX + ` check — parse and validate a GEDCOM file

Reads the file against the GEDCOM 5.5 grammar and reports record counts,
header facts, the GEDCOM version, a BLAKE3 digest of the content and the
state of every DATE value. Files ending in .gz or .xz are decompressed;
- reads standard input.

The first structural error stops the check and is reported with its line.
Dates that cannot be read are not errors: they are counted and listed.

Examples:
  kin check tree.ged                     # Report on a file
  kin check tree.ged.xz --json           # Machine-readable report
  kin check tree.ged --watch             # Re-check on every save
  kin check tree.ged --strict-extensions # Reject _TAG vendor extensions
  kin check tree.ged -vvv                # List every unparsable date`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	CheckCmd.Flags().Bool("json", false, "Output the report as JSON")
	CheckCmd.Flags().BoolP("watch", "w", false, "Re-check the file whenever it changes")
	CheckCmd.Flags().Bool("strict-extensions", false, "Reject _TAG vendor extensions instead of skipping them")
	CheckCmd.Flags().String("grammar", "", "Grammar table file (YAML) replacing the built-in GEDCOM 5.5 table")
}

// checkOptions derives processor options from cfg, letting flags override.
func checkOptions(cmd *cobra.Command, cfg *am.Config, table *grammar.Table, verbosity int) (ixgedcom.Options, error) {
	order, err := dates.ParseOrder(cfg.Dates.Order)
	if err != nil {
		return ixgedcom.Options{}, err
	}
	opts := ixgedcom.Options{
		Table:            table,
		StrictExtensions: cfg.Gedcom.StrictExtensions,
		Order:            order,
		Versions:         cfg.Gedcom.Versions,
		MaxUnparsable:    cfg.Import.MaxUnparsable,
	}
	if f := cmd.Flags().Lookup("strict-extensions"); f != nil && f.Changed {
		opts.StrictExtensions, _ = cmd.Flags().GetBool("strict-extensions")
	}
	if logger.ShouldOutput(verbosity, logger.OutputDates) {
		opts.MaxUnparsable = math.MaxInt32
	}
	return opts, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	verbosity, _ := cmd.Flags().GetCount("verbose")
	watch, _ := cmd.Flags().GetBool("watch")
	grammarFile, _ := cmd.Flags().GetString("grammar")
	useJSON := display.ShouldOutputJSON(cmd)

	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	var table *grammar.Table
	if grammarFile != "" {
		if table, err = grammar.LoadFile(grammarFile); err != nil {
			return err
		}
	}

	opts, err := checkOptions(cmd, cfg, table, verbosity)
	if err != nil {
		return err
	}
	proc, err := ixgedcom.NewGedcomIxProcessor(opts, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !useJSON && logger.ShouldOutput(verbosity, logger.OutputConfig) {
		printCheckConfig(out, opts)
	}

	if watch {
		return watchCheck(cmd, proc, cfg, table, path, useJSON, verbosity)
	}

	result, err := proc.ProcessFile(cmd.Context(), path)
	if err != nil {
		return withCheckHint(err)
	}
	return reportCheck(out, result, useJSON, verbosity)
}

func watchCheck(cmd *cobra.Command, proc *ixgedcom.GedcomIxProcessor, cfg *am.Config, table *grammar.Table, path string, useJSON bool, verbosity int) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := ixgedcom.NewWatcher(proc, path, cfg.Import.WatchDebounce())
	if err != nil {
		return err
	}

	// Config edits apply to the next check without restarting the watch.
	if paths := am.ConfigPaths(); len(paths) > 0 {
		cw, err := am.NewConfigWatcher(cfg.Import.WatchDebounce(), paths...)
		if err != nil {
			logger.Warnw("Config changes will not be picked up", logger.FieldError, err)
		} else {
			cw.OnReload(func(c *am.Config) error {
				opts, err := checkOptions(cmd, c, table, verbosity)
				if err != nil {
					return err
				}
				return proc.Configure(opts)
			})
			am.SetGlobalWatcher(cw)
			cw.Start()
			defer func() {
				am.SetGlobalWatcher(nil)
				cw.Stop()
			}()
		}
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	if !useJSON {
		fmt.Fprintf(out, "%s Watching %s (Ctrl-C to stop)\n", pterm.Cyan(sym.WatchOpen), path)
	}
	err = w.Run(ctx, func(result *ixgedcom.GedcomProcessingResult, err error) {
		if err != nil {
			PrintError(errOut, withCheckHint(err))
			return
		}
		if err := reportCheck(out, result, useJSON, verbosity); err != nil {
			logger.Errorw("Failed to write report", logger.FieldError, err)
		}
	})
	if !useJSON {
		fmt.Fprintf(out, "%s Stopped watching %s\n", pterm.Cyan(sym.WatchClose), path)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printCheckConfig(w io.Writer, opts ixgedcom.Options) {
	versions := opts.Versions
	if versions == "" {
		versions = "any"
	}
	fmt.Fprintf(w, "%s order=%s versions=%q strict_extensions=%t max_unparsable=%d\n",
		pterm.Gray(sym.AM), opts.Order, versions, opts.StrictExtensions, opts.MaxUnparsable)
}

// reportCheck writes one check result as JSON or as a terminal report.
func reportCheck(w io.Writer, r *ixgedcom.GedcomProcessingResult, useJSON bool, verbosity int) error {
	if useJSON {
		return display.WriteJSON(w, r)
	}

	fmt.Fprintf(w, "%s %s  %s\n", pterm.Green(sym.OK), pterm.Cyan(r.File), r.Message)

	h := r.Header
	var facts []string
	if h.GedcomVersion != "" {
		facts = append(facts, strings.TrimSpace("GEDCOM "+h.GedcomVersion+" "+h.GedcomForm))
	}
	if h.Charset != "" {
		facts = append(facts, h.Charset)
	}
	if h.Source != "" {
		src := "from " + h.Source
		if h.SourceVersion != "" {
			src += " " + h.SourceVersion
		}
		facts = append(facts, src)
	}
	if h.Date != "" {
		facts = append(facts, "exported "+strings.TrimSpace(h.Date+" "+h.Time))
	}
	if len(facts) > 0 {
		fmt.Fprintf(w, "  %s\n", strings.Join(facts, "  "))
	}
	if r.VersionWarning != "" {
		fmt.Fprintf(w, "  %s %s\n", pterm.Yellow("!"), r.VersionWarning)
	}

	var counts []string
	for _, tag := range r.RecordTags() {
		if tag == "HEAD" || tag == "TRLR" {
			continue
		}
		counts = append(counts, fmt.Sprintf("%s %d", tag, r.Records[tag]))
	}
	if len(counts) > 0 {
		fmt.Fprintf(w, "  %-9s %s\n", "records", strings.Join(counts, "  "))
	}

	d := r.Dates
	if d.Total > 0 {
		var parts []string
		for _, name := range []string{"gregorian", "julian", "french"} {
			if n := d.ByCalendar[name]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s %d", name, n))
			}
		}
		if d.Approximate > 0 {
			parts = append(parts, fmt.Sprintf("approximate %d", d.Approximate))
		}
		if d.Ranges > 0 {
			parts = append(parts, fmt.Sprintf("ranges %d", d.Ranges))
		}
		fmt.Fprintf(w, "  %-9s %s\n", "dates", strings.Join(parts, "  "))
	}
	if d.Earliest != nil && d.Latest != nil {
		fmt.Fprintf(w, "  %-9s %s .. %s\n", "span", d.Earliest.Display, d.Latest.Display)
	}

	if logger.ShouldOutput(verbosity, logger.OutputStats) {
		digest := r.Digest
		if r.Compression != "" {
			digest += " (" + r.Compression + ")"
		}
		fmt.Fprintf(w, "  %-9s %s\n", "blake3", digest)
		fmt.Fprintf(w, "  %-9s %d\n", "bytes", r.Bytes)
	}
	if logger.ShouldOutput(verbosity, logger.OutputTiming) {
		fmt.Fprintf(w, "  %-9s %dms\n", "took", r.DurationMS)
	}
	if logger.ShouldOutput(verbosity, logger.OutputSummary) {
		fmt.Fprintf(w, "  %-9s %s\n", "job", r.JobID)
	}

	if len(r.Unparsable) > 0 {
		fmt.Fprintf(w, "  %s\n", pterm.Yellow("unparsable dates:"))
		for _, u := range r.Unparsable {
			fmt.Fprintf(w, "    line %-6d %-8s %-5s %q\n", u.Line, u.Record, u.Event, u.Text)
		}
		if hidden := d.Unparsable - len(r.Unparsable); hidden > 0 {
			fmt.Fprintf(w, "    %s\n", pterm.Gray(fmt.Sprintf("... %d more (-vvv lists all)", hidden)))
		}
	}
	return nil
}
