package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/kin/am"
	"github.com/teranos/kin/display"
	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/sym"
)

// AmCmd groups the configuration commands.
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: sym.Short("am"),
	Long: sym.AM + ` am — kin configuration ("I am")

Configuration sources, later ones winning:
  1. Built-in defaults
  2. System config (/etc/kin/config.toml)
  3. User config (~/.kin/am.toml)
  4. Project config (nearest am.toml at or above the working directory)
  5. Environment variables (KIN_DATES_ORDER, KIN_GEDCOM_VERSIONS...)

Examples:
  kin am show                      # Effective configuration
  kin am show --format yaml        # ... as YAML
  kin am where                     # Which source set each key
  kin am init                      # Write ./am.toml with the defaults
  kin am set dates.order dmy       # Change one key in ./am.toml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runAmShow,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where each setting comes from",
	Args:  cobra.NoArgs,
	RunE:  runAmWhere,
}

var amInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file holding the defaults",
	Long: `Write the built-in configuration as a starter TOML file, ./am.toml by
default. An existing file is kept as path.back1 (up to three backups).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAmInit,
}

var amSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting in a config file",
	Long: `Change one dotted key in a config file, ./am.toml unless --file says
otherwise. The value must have the type of the key's default and the
resulting configuration must be valid.

Examples:
  kin am set dates.order dmy
  kin am set import.max_unparsable 50
  kin am set gedcom.strict_extensions true --file ~/.kin/am.toml`,
	Args: cobra.ExactArgs(2),
	RunE: runAmSet,
}

var configFormat string

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amWhereCmd.Flags().Bool("json", false, "Output as JSON")
	amSetCmd.Flags().String("file", am.ProjectFile, "Config file to change")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amWhereCmd)
	AmCmd.AddCommand(amInitCmd)
	AmCmd.AddCommand(amSetCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	return writeConfig(cmd.OutOrStdout(), cfg, configFormat)
}

func writeConfig(w io.Writer, cfg *am.Config, format string) error {
	switch format {
	case "json":
		return display.WriteJSON(w, cfg)

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(w, "# kin configuration\n%s", data)

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(w, "# kin configuration\n%s", data)

	default:
		return errors.NewInvalidInputError("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	intro, err := am.Introspect()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(out, intro)
	}

	fmt.Fprintln(out, "Configuration files (later overrides earlier):")
	if len(intro.Files) == 0 {
		fmt.Fprintln(out, "  none, built-in defaults only")
	}
	for _, f := range intro.Files {
		fmt.Fprintf(out, "  %s\n", f)
	}
	fmt.Fprintln(out)

	settings := append([]am.SettingInfo(nil), intro.Settings...)
	sort.SliceStable(settings, func(i, j int) bool { return settings[i].Key < settings[j].Key })
	for _, s := range settings {
		origin := string(s.Source)
		if s.SourcePath != "" && s.Source != am.SourceDefault {
			origin += " " + s.SourcePath
		}
		value := fmt.Sprintf("%v", s.Value)
		if len(value) > 50 {
			value = value[:47] + "..."
		}
		fmt.Fprintf(out, "  %-26s = %-14s %s\n", s.Key, value, pterm.Gray(origin))
	}
	return nil
}

func runAmInit(cmd *cobra.Command, args []string) error {
	path := am.ProjectFile
	if len(args) == 1 {
		path = args[0]
	}
	if err := am.WriteDefault(path); err != nil {
		return err
	}
	abs, _ := filepath.Abs(path)
	fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", pterm.Green(sym.OK), abs)
	return nil
}

func runAmSet(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	key, value := args[0], args[1]
	if err := am.Set(path, key, value); err != nil {
		if errors.IsNotFoundError(err) {
			return errors.WithHint(err, "run 'kin am show' to list the keys")
		}
		return err
	}
	am.Reset()
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s in %s\n", pterm.Green(sym.OK), key, value, path)
	return nil
}
