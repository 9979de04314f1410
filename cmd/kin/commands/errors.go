package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/kin/errors"
	ged "github.com/teranos/kin/gedcom"
	"github.com/teranos/kin/sym"
)

// PrintError writes err to w. GEDCOM parse errors are rendered with their
// location, and hints attached anywhere in the chain follow the message.
func PrintError(w io.Writer, err error) {
	ctx := ged.ErrorContextTerminal
	if !pterm.PrintColor {
		ctx = ged.ErrorContextPlain
	}

	msg := err.Error()
	var fe *ged.FormatError
	var se *ged.StructuralError
	switch {
	case errors.As(err, &fe):
		msg = fe.Render(ctx)
	case errors.As(err, &se):
		msg = se.Render(ctx)
	}

	fmt.Fprintf(w, "%s %s\n", pterm.Red(sym.Fail), msg)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  %s %s\n", pterm.Gray("hint:"), hint)
	}
}

// withCheckHint attaches a hint to the failures users run into most.
func withCheckHint(err error) error {
	if err == nil {
		return nil
	}

	var fe *ged.FormatError
	var se *ged.StructuralError
	switch {
	case errors.As(err, &fe) && strings.Contains(fe.Msg, "0 HEAD"):
		return errors.WithHint(err, "a GEDCOM file starts with a \"0 HEAD\" line; check that this is a GEDCOM file and not an export in another format")
	case errors.As(err, &se) && strings.HasPrefix(se.Tag, "_"):
		return errors.WithHint(err, "vendor extension tags are rejected in strict mode; drop --strict-extensions or set gedcom.strict_extensions = false")
	case errors.Is(err, ged.ErrStructure):
		return errors.WithHint(err, "run 'kin grammar' to see which tags each record accepts")
	case errors.IsNotFoundError(err):
		return errors.WithHint(err, "pass the path of a .ged, .ged.gz or .ged.xz file, or - for standard input")
	}
	return err
}
