package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/kin/calendar"
	"github.com/teranos/kin/display"
	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/sym"
)

// RomanCmd converts between numbers and roman numerals.
var RomanCmd = &cobra.Command{
	Use:   "roman <number|numeral>",
	Short: sym.Short("roman"),
	Long: sym.RN + ` roman — convert roman numerals

A number from 1 to 3999 is written as a numeral and a numeral is read as
a number.
Only canonical numerals are accepted (XIV, not XIIII).

Examples:
  kin roman 1444     # MCDXLIV
  kin roman xi       # 11`,
	Args: cobra.ExactArgs(1),
	RunE: runRoman,
}

func init() {
	RomanCmd.Flags().Bool("json", false, "Output both forms as JSON")
}

type romanReport struct {
	Number  int    `json:"number"`
	Numeral string `json:"numeral"`
}

func runRoman(cmd *cobra.Command, args []string) error {
	arg := strings.TrimSpace(args[0])

	var report romanReport
	var answer string
	if n, err := strconv.Atoi(arg); err == nil {
		if n <= 0 {
			return errors.NewInvalidInputError("%d has no roman numeral", n)
		}
		if n > calendar.MaxRoman {
			return errors.WithHint(
				errors.NewInvalidInputError("%d is too large for a roman numeral", n),
				fmt.Sprintf("numerals go up to %d (%s)", calendar.MaxRoman, calendar.ToRoman(calendar.MaxRoman)))
		}
		report = romanReport{Number: n, Numeral: calendar.ToRoman(n)}
		answer = report.Numeral
	} else {
		n, err := calendar.FromRoman(arg)
		if err != nil {
			return err
		}
		report = romanReport{Number: n, Numeral: strings.ToUpper(arg)}
		answer = strconv.Itoa(n)
	}

	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), report)
	}
	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}
