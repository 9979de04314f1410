package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/kin/sym"
)

// observe swaps the global logger for an observer for the test's duration.
func observe(t *testing.T, lvl zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(lvl)
	prev := Logger
	Logger = zap.New(core).Sugar()
	t.Cleanup(func() { Logger = prev })
	return logs
}

func TestInitialize(t *testing.T) {
	prev := Logger
	t.Cleanup(func() {
		Logger = prev
		JSONOutput = false
		SetVerbosity(VerbosityUser)
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, initialize(&buf, true, VerbosityInfo))
		assert.True(t, JSONOutput)

		Logger.Infow("Imported file", FieldFile, "tree.ged", FieldRecords, 3)
		Logger.Debugw("hidden")
		Cleanup()

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 1)
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
		assert.Equal(t, "Imported file", entry["msg"])
		assert.Equal(t, "tree.ged", entry["file"])
		assert.Equal(t, float64(3), entry["records"])
	})

	t.Run("console", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, initialize(&buf, false, VerbosityUser))
		assert.False(t, JSONOutput)

		Logger.Infow("hidden at warn level")
		Logger.Warnw("Unsupported version", FieldVersion, "7.0")
		out := stripANSI(buf.String())
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "WARN")
		assert.Contains(t, out, "Unsupported version")
		assert.Contains(t, out, "version=7.0")
	})
}

func TestSetVerbosity(t *testing.T) {
	prev := Logger
	t.Cleanup(func() {
		Logger = prev
		SetVerbosity(VerbosityUser)
	})

	var buf bytes.Buffer
	require.NoError(t, initialize(&buf, true, VerbosityUser))
	Logger.Infow("first")
	SetVerbosity(VerbosityDebug)
	Logger.Debugw("second")

	assert.NotContains(t, buf.String(), "first")
	assert.Contains(t, buf.String(), "second")
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{0, zapcore.WarnLevel},
		{1, zapcore.InfoLevel},
		{2, zapcore.DebugLevel},
		{5, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
	assert.Equal(t, "Info (-v)", LevelName(1))
	assert.Equal(t, "Trace (-vvv)", LevelName(7))
}

func TestShouldOutput(t *testing.T) {
	assert.True(t, ShouldOutput(0, OutputResults))
	assert.False(t, ShouldOutput(0, OutputProgress))
	assert.True(t, ShouldOutput(1, OutputSummary))
	assert.False(t, ShouldOutput(1, OutputTiming))
	assert.True(t, ShouldOutput(2, OutputStats))
	assert.False(t, ShouldOutput(2, OutputDates))
	assert.True(t, ShouldOutput(3, OutputExtensions))
	assert.False(t, ShouldOutput(2, OutputCategory(99)))
	assert.Equal(t, "timing", CategoryName(OutputTiming))
	assert.Equal(t, "unknown", CategoryName(OutputCategory(99)))
}

func TestContextFields(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)

	ctx := WithComponent(WithJobID(context.Background(), "job-1"), "ix.gedcom")
	assert.Equal(t, "job-1", JobID(ctx))
	assert.Equal(t, []interface{}{FieldJobID, "job-1", FieldComponent, "ix.gedcom"}, FieldsFromContext(ctx))

	LoggerFromContext(ctx, nil).Infow("started")
	LoggerFromContext(context.Background(), nil).Infow("bare")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "job-1", entries[0].ContextMap()[FieldJobID])
	assert.Equal(t, "ix.gedcom", entries[0].ContextMap()[FieldComponent])
	assert.Empty(t, entries[1].ContextMap())
}

func TestComponentLogger(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)
	ComponentLogger("ix.gedcom").Debugw("parsed")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "ix.gedcom", logs.All()[0].LoggerName)
}

func TestSymbolHelpers(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)

	IXInfow("Imported file", FieldFile, "a.ged")
	IXWarnw("Unsupported version")
	ATDebugw("Unparsable date", FieldDate, "foo")
	AMInfow("Config written")
	WithSymbol(sym.Watch).Infow("Watching")
	AddIXSymbol(Logger).Infow("wrapped")
	AddWatchSymbol(Logger).Infow("wrapped watch")

	want := []string{sym.IX, sym.IX, sym.AT, sym.AM, sym.Watch, sym.IX, sym.Watch}
	entries := logs.All()
	require.Len(t, entries, len(want))
	for i, e := range entries {
		assert.Equal(t, want[i], e.ContextMap()[FieldSymbol], e.Message)
	}
	assert.Equal(t, "a.ged", entries[0].ContextMap()[FieldFile])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}
