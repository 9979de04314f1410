// Package display decides how command results are rendered and writes
// JSON results.
package display

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/kin/errors"
)

// OutputEnv forces JSON output for every command when set to "json".
const OutputEnv = "KIN_OUTPUT"

// ShouldOutputJSON reports whether cmd should print JSON: an explicit
// --json flag wins, then a global --json flag, then KIN_OUTPUT=json.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return jsonFromEnv()
	}

	if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetBool("json")
		return v
	}
	if f := cmd.Root().PersistentFlags().Lookup("json"); f != nil {
		if v, _ := cmd.Root().PersistentFlags().GetBool("json"); v {
			return true
		}
	}
	return jsonFromEnv()
}

func jsonFromEnv() bool {
	return os.Getenv(OutputEnv) == "json"
}

// OutputJSON writes v as JSON to stdout.
func OutputJSON(v interface{}) error {
	return WriteJSON(os.Stdout, v)
}

// WriteJSON writes v as JSON followed by a newline.
func WriteJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write JSON")
	}
	return nil
}
