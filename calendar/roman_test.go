package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRoman(t *testing.T) {
	tests := map[int]string{
		1:    "I",
		4:    "IV",
		11:   "XI",
		14:   "XIV",
		1994: "MCMXCIV",
		3999: "MMMCMXCIX",
		4000: "MMMM",
		0:    "",
		-3:   "",
	}
	for n, want := range tests {
		assert.Equal(t, want, ToRoman(n), "ToRoman(%d)", n)
	}
}

func TestFromRoman(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		for s, want := range map[string]int{"I": 1, "xi": 11, "XIV": 14, "mcmxciv": 1994, "MMMM": 4000} {
			got, err := FromRoman(s)
			require.NoError(t, err, s)
			assert.Equal(t, want, got, s)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, s := range []string{"", "IIII", "VX", "IC", "ABC", "X I"} {
			_, err := FromRoman(s)
			assert.Error(t, err, s)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		for n := 1; n <= 4100; n++ {
			got, err := FromRoman(ToRoman(n))
			require.NoError(t, err)
			require.Equal(t, n, got)
		}
	})
}
