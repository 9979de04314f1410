package am

import (
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/kin/dates"
	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/logger"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if _, err := dates.ParseOrder(c.Dates.Order); err != nil {
		return errors.Wrap(err, "dates.order")
	}

	if c.Gedcom.Versions != "" {
		if _, err := semver.NewConstraint(c.Gedcom.Versions); err != nil {
			return errors.Wrapf(err, "gedcom.versions %q is not a version constraint", c.Gedcom.Versions)
		}
	}

	if c.Import.MaxUnparsable < 0 {
		return errors.Newf("import.max_unparsable must be >= 0, got %d", c.Import.MaxUnparsable)
	}
	if c.Import.WatchDebounceMS < 0 {
		return errors.Newf("import.watch_debounce_ms must be >= 0, got %d", c.Import.WatchDebounceMS)
	}

	if c.Log.Theme != "" && !knownTheme(c.Log.Theme) {
		return errors.WithHintf(errors.Newf("log.theme %q is unknown", c.Log.Theme),
			"known themes: %v", logger.Themes())
	}
	return nil
}

func knownTheme(name string) bool {
	for _, t := range logger.Themes() {
		if t == name {
			return true
		}
	}
	return false
}
