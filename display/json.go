package display

import (
	"encoding/json"
	"os"
)

// CompactEnv selects compact JSON when set to any non-empty value.
const CompactEnv = "KIN_JSON_COMPACT"

// MarshalJSON marshals v indented for people, or compact when KIN_JSON_COMPACT
// is set (one result per line for pipelines).
func MarshalJSON(v interface{}) ([]byte, error) {
	if os.Getenv(CompactEnv) != "" {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}
