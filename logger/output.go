package logger

// OutputCategory is a kind of CLI output that can be switched on by
// verbosity, independently of log severity.
//
//	0 (default) - report and errors
//	1 (-v)      - + progress and per-file summaries
//	2 (-vv)     - + timing, config in effect, parse statistics
//	3 (-vvv)    - + every unparsable date and skipped extension
type OutputCategory int

const (
	OutputResults OutputCategory = iota // command results
	OutputErrors                        // errors with hints

	OutputProgress // watch events, file opened
	OutputSummary  // per-file record counts

	OutputTiming // parse and import durations
	OutputConfig // configuration in effect
	OutputStats  // parser statistics

	OutputDates      // every unparsable date, beyond the report cap
	OutputExtensions // skipped vendor extension tags
)

var categoryLevels = map[OutputCategory]int{
	OutputResults: VerbosityUser,
	OutputErrors:  VerbosityUser,

	OutputProgress: VerbosityInfo,
	OutputSummary:  VerbosityInfo,

	OutputTiming: VerbosityDebug,
	OutputConfig: VerbosityDebug,
	OutputStats:  VerbosityDebug,

	OutputDates:      VerbosityTrace,
	OutputExtensions: VerbosityTrace,
}

var categoryNames = map[OutputCategory]string{
	OutputResults:    "results",
	OutputErrors:     "errors",
	OutputProgress:   "progress",
	OutputSummary:    "summary",
	OutputTiming:     "timing",
	OutputConfig:     "config",
	OutputStats:      "stats",
	OutputDates:      "dates",
	OutputExtensions: "extensions",
}

// ShouldOutput reports whether category is shown at verbosity.
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

// CategoryName returns the name of an output category.
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
