package dates

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantSpan Span
		want     string
	}{
		{"between french", "entre 1700 ju et 10 vendemiaire XI", Between, "between 1700 (Julian) and 10 vendemiaire XI"},
		{"gedcom between", "BET 1850 AND 1860", Between, "between 1850 and 1860"},
		{"gedcom from to", "FROM 1 JAN 1900 TO 31 DEC 1910", From, "from 1900-01-01 to 1910-12-31"},
		{"french from", "de 1800 à 1810", From, "from 1800 to 1810"},
		{"qualifiers on each side", "between abt 1850 and bef 1860", Between, "between ca 1850 and /1860"},
		{"single date", "abt 1850", Single, "ca 1850"},
		{"open span is not a range", "from 1850", Single, "from 1850"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ParseRange(tt.text)
			assert.Equal(t, tt.wantSpan, r.Span)
			assert.Equal(t, tt.want, r.String())
			assert.Equal(t, tt.text, r.Text())
		})
	}
}

func TestRangeSidesKeepTheirText(t *testing.T) {
	r := ParseRange("between 1 JAN 1850 and 1860")
	assert.Equal(t, "1 JAN 1850", r.Start.Text())
	assert.Equal(t, "1860", r.End.Text())
	assert.True(t, r.SortDate().Equal(r.Start))
	assert.True(t, r.Known())
}

func TestRangeDisplayYearOnly(t *testing.T) {
	r := ParseRange("from 1 jan 1900 to 31 dec 1910")
	assert.Equal(t, "from 1900 to 1910", r.Display(nil, true))
}

func TestRangeJSON(t *testing.T) {
	raw, err := json.Marshal(ParseRange("bet 1850 and 1860"))
	require.NoError(t, err)

	var got struct {
		Span  string          `json:"span"`
		Start json.RawMessage `json:"start"`
		End   json.RawMessage `json:"end"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "between", got.Span)
	assert.Contains(t, string(got.End), `"display":"1860"`)

	raw, err = json.Marshal(ParseRange("1850"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"end"`)
}
