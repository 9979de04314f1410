package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names. Use these instead of raw strings so logs from the
// parser, the importer and the CLI can be queried the same way.
const (
	FieldJobID     = "job_id"
	FieldComponent = "component"
	FieldSymbol    = "symbol"

	FieldFile   = "file"
	FieldLine   = "line"
	FieldTag    = "tag"
	FieldXRef   = "xref"
	FieldDigest = "blake3"

	FieldCount      = "count"
	FieldRecords    = "records"
	FieldDurationMS = "duration_ms"

	FieldDate     = "date"
	FieldCalendar = "calendar"
	FieldVersion  = "version"
	FieldError    = "error"
)

type contextKey string

const (
	jobIDKey     contextKey = "logger_job_id"
	componentKey contextKey = "logger_component"
)

// WithJobID adds an import run ID to ctx for logging.
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, jobIDKey, jobID)
}

// WithComponent adds a component name to ctx for logging.
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// JobID returns the job ID stored in ctx, or "".
func JobID(ctx context.Context) string {
	id, _ := ctx.Value(jobIDKey).(string)
	return id
}

// FieldsFromContext extracts logging fields from ctx as key-value pairs.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}
	if id := JobID(ctx); id != "" {
		fields = append(fields, FieldJobID, id)
	}
	if c, ok := ctx.Value(componentKey).(string); ok && c != "" {
		fields = append(fields, FieldComponent, c)
	}
	return fields
}

// LoggerFromContext returns base (or the global logger when base is nil)
// with the fields carried by ctx.
func LoggerFromContext(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if base == nil {
		base = Logger
	}
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

// ComponentLogger returns a named child of the global logger.
//
//	imp := &Importer{log: logger.ComponentLogger("ix.gedcom")}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
