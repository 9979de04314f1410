package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette is a console color theme.
type palette struct {
	fg       string
	time     string
	accents  []string // component names, rotated by hash
	id       string
	number   string
	symbol   string
	warn     string
	warnBg   string
	err      string
	errBg    string
	location string
}

var themes = map[string]palette{
	// Everforest Dark: forest greens.
	"everforest": {
		fg:       "\x1b[38;5;223m",
		time:     "\x1b[38;5;107m",
		accents:  []string{"\x1b[38;5;108m", "\x1b[38;5;65m", "\x1b[38;5;208m"},
		id:       "\x1b[38;5;109m",
		number:   "\x1b[38;5;108m",
		symbol:   "\x1b[38;5;108m",
		warn:     "\x1b[38;5;179m",
		warnBg:   "\x1b[48;5;58m",
		err:      "\x1b[38;5;167m",
		errBg:    "\x1b[48;5;52m",
		location: "\x1b[38;5;109m",
	},
	// Gruvbox Dark: warm and muted.
	"gruvbox": {
		fg:       "\x1b[38;5;223m",
		time:     "\x1b[38;5;108m",
		accents:  []string{"\x1b[38;5;208m", "\x1b[38;5;214m"},
		id:       "\x1b[38;5;109m",
		number:   "\x1b[38;5;175m",
		symbol:   "\x1b[38;5;142m",
		warn:     "\x1b[38;5;214m",
		warnBg:   "\x1b[48;5;58m",
		err:      "\x1b[38;5;167m",
		errBg:    "\x1b[48;5;88m",
		location: "\x1b[38;5;109m",
	},
}

var (
	currentTheme = "everforest"
	bufferPool   = buffer.NewPool()
)

// SetTheme selects the console color theme. Unknown names are ignored.
func SetTheme(theme string) {
	if _, ok := themes[theme]; ok {
		currentTheme = theme
	}
}

// Theme returns the active console theme name.
func Theme() string { return currentTheme }

// Themes returns the known theme names.
func Themes() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func colors() palette { return themes[currentTheme] }

func colorComponent(name string) string {
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	acc := colors().accents
	return acc[hash%len(acc)]
}

// minimalEncoder is a calm, compact console encoder:
//
//	13:04:35  ix.gedcom  ⨳ Imported file  tree.ged  records=412  38ms
//
// Fields added with With are kept in the embedded map encoder.
type minimalEncoder struct {
	*zapcore.MapObjectEncoder
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{MapObjectEncoder: zapcore.NewMapObjectEncoder()}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	clone := zapcore.NewMapObjectEncoder()
	for k, v := range enc.Fields {
		clone.Fields[k] = v
	}
	return &minimalEncoder{MapObjectEncoder: clone}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	all := enc.Clone().(*minimalEncoder)
	for _, f := range fields {
		f.AddTo(all.MapObjectEncoder)
	}
	c := colors()
	out := bufferPool.Get()

	out.AppendString(c.time)
	out.AppendString(ent.Time.Format("15:04:05"))
	out.AppendString(colorReset)

	if lvl := levelColorString(ent.Level); lvl != "" {
		out.AppendString("  ")
		out.AppendString(lvl)
	}

	if ent.LoggerName != "" {
		out.AppendString("  ")
		out.AppendString(colorComponent(ent.LoggerName))
		out.AppendString(ent.LoggerName)
		out.AppendString(colorReset)
	}

	out.AppendString("  ")
	if s, ok := all.Fields[FieldSymbol].(string); ok {
		out.AppendString(c.symbol + s + colorReset + " ")
		delete(all.Fields, FieldSymbol)
	}
	out.AppendString(c.fg + ent.Message + colorReset)

	if rest := formatFields(all.Fields, c); rest != "" {
		out.AppendString("  ")
		out.AppendString(rest)
	}
	out.AppendString("\n")
	return out, nil
}

func levelColorString(level zapcore.Level) string {
	c := colors()
	switch level {
	case zapcore.DebugLevel, zapcore.InfoLevel:
		return ""
	case zapcore.WarnLevel:
		return colorBold + c.warnBg + c.warn + "WARN" + colorReset
	default:
		return colorBold + c.errBg + c.err + level.CapitalString() + colorReset
	}
}

// formatFields renders every field. file and line fold into "file:line",
// job_id and duration_ms get dedicated colors, the rest print as key=value
// in key order. Nothing is dropped.
func formatFields(fields map[string]interface{}, c palette) string {
	var parts []string

	file, hasFile := fields[FieldFile]
	line, hasLine := fields[FieldLine]
	switch {
	case hasFile && hasLine:
		parts = append(parts, fmt.Sprintf("%s%v:%v%s", c.location, file, line, colorReset))
	case hasFile:
		parts = append(parts, fmt.Sprintf("%s%v%s", c.location, file, colorReset))
	case hasLine:
		parts = append(parts, fmt.Sprintf("%sline %v%s", c.location, line, colorReset))
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		switch k {
		case FieldFile, FieldLine, FieldDurationMS, "errorVerbose":
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := fields[k]
		switch k {
		case FieldJobID:
			parts = append(parts, fmt.Sprintf("%s%v%s", c.id, v, colorReset))
		case FieldError:
			parts = append(parts, fmt.Sprintf("%s=%s%v%s", k, c.err, v, colorReset))
		default:
			parts = append(parts, fmt.Sprintf("%s=%v", k, v))
		}
	}

	if d, ok := fields[FieldDurationMS]; ok {
		parts = append(parts, fmt.Sprintf("%s%v%sms", c.number, d, colorReset))
	}
	return strings.Join(parts, "  ")
}
