package logger

import (
	"go.uber.org/zap"

	"github.com/teranos/kin/sym"
)

// Symbol-aware logging helpers. The glyph goes into the "symbol" field,
// not the message, so logs stay queryable by command family.
//
//	logger.IXInfow("Imported file", "file", path)

// IXInfow logs an import message.
func IXInfow(msg string, keysAndValues ...interface{}) {
	Logger.Infow(msg, append([]interface{}{FieldSymbol, sym.IX}, keysAndValues...)...)
}

// IXWarnw logs an import warning.
func IXWarnw(msg string, keysAndValues ...interface{}) {
	Logger.Warnw(msg, append([]interface{}{FieldSymbol, sym.IX}, keysAndValues...)...)
}

// ATDebugw logs a date parsing message.
func ATDebugw(msg string, keysAndValues ...interface{}) {
	Logger.Debugw(msg, append([]interface{}{FieldSymbol, sym.AT}, keysAndValues...)...)
}

// AMInfow logs a configuration message.
func AMInfow(msg string, keysAndValues ...interface{}) {
	Logger.Infow(msg, append([]interface{}{FieldSymbol, sym.AM}, keysAndValues...)...)
}

// WithSymbol returns the global logger carrying symbol.
func WithSymbol(symbol string) *zap.SugaredLogger {
	return Logger.With(FieldSymbol, symbol)
}

// AddIXSymbol wraps an instance logger with the import glyph.
func AddIXSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return l.With(FieldSymbol, sym.IX)
}

// AddWatchSymbol wraps an instance logger with the watch glyph.
func AddWatchSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return l.With(FieldSymbol, sym.Watch)
}
