package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// Default values. Zero means zero: max_unparsable = 0 lists no dates.
const (
	DefaultDateOrder       = "mdy"
	DefaultVersions        = ">= 5.5, < 6"
	DefaultMaxUnparsable   = 20
	DefaultWatchDebounceMS = 500
	DefaultLogTheme        = "everforest"
)

// SetDefaults configures default values for every option.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("dates.order", DefaultDateOrder)

	v.SetDefault("gedcom.strict_extensions", false)
	v.SetDefault("gedcom.versions", DefaultVersions)

	v.SetDefault("import.max_unparsable", DefaultMaxUnparsable)
	v.SetDefault("import.watch_debounce_ms", DefaultWatchDebounceMS)

	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", DefaultLogTheme)
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Dates:  DatesConfig{Order: DefaultDateOrder},
		Gedcom: GedcomConfig{Versions: DefaultVersions},
		Import: ImportConfig{MaxUnparsable: DefaultMaxUnparsable, WatchDebounceMS: DefaultWatchDebounceMS},
		Log:    LogConfig{Theme: DefaultLogTheme},
	}
}

// String returns a one-line summary of the config.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Dates: {Order: %s}, Gedcom: {Strict: %t, Versions: %q}, Import: {MaxUnparsable: %d}}",
		c.Dates.Order, c.Gedcom.StrictExtensions, c.Gedcom.Versions, c.Import.MaxUnparsable)
}
