// Package sym defines the glyphs kin prints for its commands and log lines.
// They are stable across CLI output, logs and documentation.
package sym

// Command glyphs. Each one names a kin command family.
const (
	AM = "≡" // am: configuration
	IX = "⨳" // ix: import and check GEDCOM files
	AT = "✦" // at: dates and calendars
	GR = "⌗" // grammar: nested record structure
	RN = "Ⅻ" // roman numerals
)

// System glyphs used in log fields.
const (
	Watch      = "꩜" // file watch loop
	WatchOpen  = "✿" // watch started
	WatchClose = "❀" // watch stopped
	OK         = "✓"
	Fail       = "✗"
)

type entry struct {
	glyph       string
	command     string
	label       string
	description string
}

var registry = []entry{
	{IX, "check", "Import", "Parse and validate a GEDCOM file"},
	{AT, "date", "Temporal", "Parse and display genealogical dates"},
	{RN, "roman", "Roman", "Convert roman numerals"},
	{GR, "grammar", "Grammar", "Show the GEDCOM grammar table"},
	{AM, "am", "Configuration", "Show or write kin settings"},
}

// PaletteOrder is the order commands are listed in.
var PaletteOrder = func() []string {
	out := make([]string, len(registry))
	for i, e := range registry {
		out[i] = e.glyph
	}
	return out
}()

// SymbolToCommand maps glyphs to their command names.
var SymbolToCommand = make(map[string]string, len(registry))

// CommandToSymbol maps command names to their glyphs.
var CommandToSymbol = make(map[string]string, len(registry))

// CommandDescriptions provides one-line help per command.
var CommandDescriptions = make(map[string]string, len(registry))

func init() {
	for _, e := range registry {
		SymbolToCommand[e.glyph] = e.command
		CommandToSymbol[e.command] = e.glyph
		CommandDescriptions[e.command] = e.label + " — " + e.description
	}
}

// Short returns "<glyph> <description>" for a command, used as cobra
// Short help, or "" for an unknown command.
func Short(command string) string {
	for _, e := range registry {
		if e.command == command {
			return e.glyph + " " + e.description
		}
	}
	return ""
}
