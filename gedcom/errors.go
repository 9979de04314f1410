package gedcom

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/teranos/kin/errors"
)

// Sentinels matched by errors.Is on every FormatError and StructuralError.
var (
	ErrFormat    = errors.New("gedcom format error")
	ErrStructure = errors.New("gedcom structural error")
)

// ErrorContext selects how an error is rendered.
type ErrorContext string

const (
	// ErrorContextTerminal renders with ANSI colors.
	ErrorContextTerminal ErrorContext = "terminal"
	// ErrorContextPlain renders without ANSI codes (logs, JSON).
	ErrorContextPlain ErrorContext = "plain"
)

// FormatError reports a malformed line or a missing "0 HEAD" preamble.
// It aborts the parse.
type FormatError struct {
	Pos  Position
	Text string // offending physical line, if any
	Msg  string
}

func (e *FormatError) Error() string {
	return e.Render(ErrorContextPlain)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// Render formats the error for ctx.
func (e *FormatError) Render(ctx ErrorContext) string {
	return render(ctx, e.Pos, e.Msg, e.Text)
}

// StructuralError reports a line that violates the grammar: unknown tag,
// too many or missing occurrences, or a level jump. It aborts the parse.
type StructuralError struct {
	Pos Position
	Tag string
	Msg string
}

func (e *StructuralError) Error() string {
	return e.Render(ErrorContextPlain)
}

func (e *StructuralError) Unwrap() error { return ErrStructure }

// Render formats the error for ctx.
func (e *StructuralError) Render(ctx ErrorContext) string {
	return render(ctx, e.Pos, e.Msg, "")
}

func structuralf(pos Position, tag, format string, args ...interface{}) *StructuralError {
	return &StructuralError{Pos: pos, Tag: tag, Msg: fmt.Sprintf(format, args...)}
}

func render(ctx ErrorContext, pos Position, msg, text string) string {
	if ctx == ErrorContextPlain {
		if text != "" {
			return fmt.Sprintf("%s: %s: %q", pos, msg, text)
		}
		return fmt.Sprintf("%s: %s", pos, msg)
	}

	out := fmt.Sprintf("%s %s", pterm.Yellow(pos.String()), pterm.Red(msg))
	if text != "" {
		out += fmt.Sprintf("\n  %s %s", pterm.LightCyan("|"), text)
	}
	return out
}
