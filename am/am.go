// Package am loads kin's configuration.
//
// Settings merge in precedence order: built-in defaults, /etc/kin/config.toml,
// ~/.kin/am.toml, the nearest am.toml above the working directory, then
// KIN_* environment variables (KIN_DATES_ORDER, KIN_IMPORT_MAX_UNPARSABLE...).
package am

import "time"

// Config is the whole kin configuration.
type Config struct {
	Dates  DatesConfig  `mapstructure:"dates" toml:"dates"`
	Gedcom GedcomConfig `mapstructure:"gedcom" toml:"gedcom"`
	Import ImportConfig `mapstructure:"import" toml:"import"`
	Log    LogConfig    `mapstructure:"log" toml:"log"`
}

// DatesConfig configures free-text date parsing.
type DatesConfig struct {
	Order string `mapstructure:"order" toml:"order" comment:"mdy or dmy: ordering of NN/NN/YYYY dates"`
}

// GedcomConfig configures the structural parser.
type GedcomConfig struct {
	StrictExtensions bool   `mapstructure:"strict_extensions" toml:"strict_extensions" comment:"reject _TAG vendor extensions instead of skipping them"`
	Versions         string `mapstructure:"versions" toml:"versions" comment:"supported HEAD.GEDC.VERS range (semver constraint)"`
}

// ImportConfig configures file checks and watch mode.
type ImportConfig struct {
	MaxUnparsable   int `mapstructure:"max_unparsable" toml:"max_unparsable" comment:"unparsable dates listed in reports"`
	WatchDebounceMS int `mapstructure:"watch_debounce_ms" toml:"watch_debounce_ms"`
}

// WatchDebounce returns the watch debounce period.
func (c ImportConfig) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMS) * time.Millisecond
}

// LogConfig configures logging output.
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json"`
	Theme string `mapstructure:"theme" toml:"theme" comment:"everforest or gruvbox"`
}

// Directory and file permissions for files kin writes.
const (
	DefaultDirPermissions  = 0o750
	DefaultFilePermissions = 0o644
)
