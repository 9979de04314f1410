package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/kin/am"
	"github.com/teranos/kin/cmd/kin/commands"
	"github.com/teranos/kin/logger"
)

var rootCmd = &cobra.Command{
	Use:   "kin",
	Short: "kin - GEDCOM parser and genealogical date engine",
	Long: `kin - GEDCOM parser and genealogical date engine.

kin reads GEDCOM 5.5 genealogy files into a validated record tree and
understands the dates genealogists write: GEDCOM forms, free text in
English and French, Julian and French republican calendars.

Available commands:
  check    - Parse and validate a GEDCOM file
  date     - Parse and display a genealogical date
  roman    - Convert roman numerals
  grammar  - Show the GEDCOM grammar table
  am       - Show or change kin configuration ("I am")
  version  - Show version information

Examples:
  kin check tree.ged                 # Validate a file and report on its dates
  kin date "ABT 10 vendemiaire XI"   # Read a republican date
  kin am show                        # Show configuration`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")

		// A broken config must not stop 'kin am' from fixing it, so load
		// errors surface in the commands that need the config.
		jsonLogs := false
		if cfg, err := am.Load(); err == nil {
			jsonLogs = cfg.Log.JSON
			logger.SetTheme(cfg.Log.Theme)
		}
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")

	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.DateCmd)
	rootCmd.AddCommand(commands.RomanCmd)
	rootCmd.AddCommand(commands.GrammarCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
