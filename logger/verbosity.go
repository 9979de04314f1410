package logger

import "go.uber.org/zap/zapcore"

// Verbosity levels for the -v flag count.
//
// These control what categories of output are shown, not just log
// severity. See output.go for the category table.
const (
	VerbosityUser  = 0 // no flags: results and errors only
	VerbosityInfo  = 1 // -v: + progress, per-file summaries
	VerbosityDebug = 2 // -vv: + timing, config, parse statistics
	VerbosityTrace = 3 // -vvv: + every unparsable date, skipped extensions
)

// VerbosityToLevel maps -v counts to zap levels:
//
//	0 (none)  -> WarnLevel
//	1 (-v)    -> InfoLevel
//	2+ (-vv)  -> DebugLevel
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// LevelName returns a human-readable name for a verbosity level.
func LevelName(verbosity int) string {
	switch {
	case verbosity <= VerbosityUser:
		return "User"
	case verbosity == VerbosityInfo:
		return "Info (-v)"
	case verbosity == VerbosityDebug:
		return "Debug (-vv)"
	default:
		return "Trace (-vvv)"
	}
}
