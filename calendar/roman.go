package calendar

import (
	"strings"

	"github.com/teranos/kin/errors"
)

// MaxRoman is the largest number with a standard numeral.
const MaxRoman = 3999

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// ToRoman writes n as an upper-case roman numeral. Thousands beyond 3999
// repeat M. Non-positive values have no representation and yield "".
func ToRoman(n int) string {
	var b strings.Builder
	for _, r := range romanNumerals {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}

// FromRoman parses a roman numeral, case-insensitively. Only the canonical
// spelling is accepted: "IIII" and "VX" are rejected.
func FromRoman(s string) (int, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	if upper == "" {
		return 0, errors.NewInvalidInputError("empty roman numeral")
	}

	n, rest := 0, upper
	for _, r := range romanNumerals {
		for strings.HasPrefix(rest, r.symbol) {
			n += r.value
			rest = rest[len(r.symbol):]
		}
	}
	if rest != "" || ToRoman(n) != upper {
		return 0, errors.NewInvalidInputError("invalid roman numeral %q", s)
	}
	return n, nil
}
