package commands

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/kin/am"
	"github.com/teranos/kin/calendar"
	"github.com/teranos/kin/dates"
	"github.com/teranos/kin/display"
	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/logger"
	"github.com/teranos/kin/sym"
)

// DateCmd parses a free-text genealogical date.
var DateCmd = &cobra.Command{
	Use:   "date <text...>",
	Short: sym.Short("date"),
	Long: sym.AT + ` date — parse and display a genealogical date

Understands ISO and numeric dates, spelled English and French months,
GEDCOM forms (12 JAN 1900, ABT 1850, BET 1700 AND 1710, @#DJULIAN@ 1700),
the French republican calendar (10 vendemiaire XI), qualifiers (~, ?, <, >)
and day/month/year offsets.

Examples:
  kin date 12 JAN 1900
  kin date "entre 1700 ju et 10 vendemiaire XI"
  kin date 1802-10-02 --calendar french      # 10 vendemiaire XI
  kin date 03/04/1870 --order dmy            # 1870-04-03
  kin date "ABT 1850" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDate,
}

func init() {
	DateCmd.Flags().String("calendar", "", "Display in this calendar: gregorian, julian or french")
	DateCmd.Flags().Bool("year-only", false, "Display only the year")
	DateCmd.Flags().String("order", "", "Ordering of NN/NN/YYYY dates: mdy or dmy (default from config)")
	DateCmd.Flags().Bool("json", false, "Output the parsed date as JSON")
}

type dateReport struct {
	Input     string      `json:"input"`
	Display   string      `json:"display"`
	Calendar  string      `json:"calendar,omitempty"`
	JulianDay *int64      `json:"julian_day,omitempty"`
	Parsed    dates.Range `json:"parsed"`
}

func dateOrder(cmd *cobra.Command) (dates.Order, error) {
	if flag, _ := cmd.Flags().GetString("order"); flag != "" {
		return dates.ParseOrder(flag)
	}
	cfg, err := am.Load()
	if err != nil {
		return dates.MonthFirst, errors.Wrap(err, "failed to load config")
	}
	return dates.ParseOrder(cfg.Dates.Order)
}

func runDate(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	calName, _ := cmd.Flags().GetString("calendar")
	yearOnly, _ := cmd.Flags().GetBool("year-only")
	verbosity, _ := cmd.Flags().GetCount("verbose")

	order, err := dateOrder(cmd)
	if err != nil {
		return err
	}
	var cal calendar.Calendar
	if calName != "" {
		if cal, err = calendar.ByName(calName); err != nil {
			return err
		}
	}

	rng := dates.NewParser(dates.Options{Order: order}).ParseRange(text)
	if !rng.Known() {
		err := errors.Wrapf(errors.ErrInvalidInput, "unrecognized date %q", text)
		return errors.WithHint(err, "try forms such as \"12 JAN 1900\", \"1900-01-12\", \"ABT 1850\" or \"10 vendemiaire XI\"")
	}
	logger.ATDebugw("Parsed date", logger.FieldDate, text, "span", rng.Span.String())

	report := dateReport{
		Input:   text,
		Display: rng.Display(cal, yearOnly),
		Parsed:  rng,
	}
	if cal != nil {
		report.Calendar = cal.Name()
	}
	if jdn, ok := rng.Start.JulianDay(); ok {
		report.JulianDay = &jdn
	}

	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), report)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, report.Display)
	if logger.ShouldOutput(verbosity, logger.OutputSummary) {
		start := rng.Start
		fmt.Fprintf(out, "  %s calendar=%s precision=%s type=%s span=%s\n",
			pterm.Gray(sym.AT), start.Calendar().Name(), start.Precision(), start.Type(), rng.Span)
		if report.JulianDay != nil {
			fmt.Fprintf(out, "  %s jdn=%d\n", pterm.Gray(sym.AT), *report.JulianDay)
		}
	}
	return nil
}
