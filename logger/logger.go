// Package logger holds kin's global zap logger and the helpers every
// package uses to log with consistent field names.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger. It discards everything until Initialize.
	Logger *zap.SugaredLogger
	// JSONOutput records whether Initialize chose JSON output.
	JSONOutput bool

	level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
)

func init() {
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger. Console output goes to stderr so
// that command results on stdout stay clean.
func Initialize(jsonOutput bool, verbosity int) error {
	return initialize(os.Stderr, jsonOutput, verbosity)
}

func initialize(w io.Writer, jsonOutput bool, verbosity int) error {
	JSONOutput = jsonOutput
	level.SetLevel(VerbosityToLevel(verbosity))
	if theme := os.Getenv("KIN_LOG_THEME"); theme != "" {
		SetTheme(theme)
	}

	var enc zapcore.Encoder
	if jsonOutput {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		enc = newMinimalEncoder()
	}

	Logger = zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level)).Sugar()
	return nil
}

// SetVerbosity changes the level of the global logger in place.
func SetVerbosity(verbosity int) {
	level.SetLevel(VerbosityToLevel(verbosity))
}

// Cleanup flushes any buffered log entries.
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Infow logs an info message with structured fields.
func Infow(msg string, keysAndValues ...interface{}) {
	Logger.Infow(msg, keysAndValues...)
}

// Warnw logs a warning with structured fields.
func Warnw(msg string, keysAndValues ...interface{}) {
	Logger.Warnw(msg, keysAndValues...)
}

// Errorw logs an error with structured fields.
func Errorw(msg string, keysAndValues ...interface{}) {
	Logger.Errorw(msg, keysAndValues...)
}

// Debugw logs a debug message with structured fields.
func Debugw(msg string, keysAndValues ...interface{}) {
	Logger.Debugw(msg, keysAndValues...)
}
