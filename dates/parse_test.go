package dates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/kin/calendar"
)

func TestParseDisplay(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"iso", "2008-01-01", "2008-01-01"},
		{"compact estimated", "20080101?", "2008-01-01 ?"},
		{"before shorthand", "<2008", "/2008"},
		{"before word", "BEF 1850", "/1850"},
		{"before leading slash", "/1850", "/1850"},
		{"after word", "après 1850", "1850/"},
		{"after trailing slash", "1850/", "1850/"},
		{"about", "ABT 1850", "ca 1850"},
		{"about tilde", "~1850", "ca 1850"},
		{"circa dotted", "c. 1850", "ca 1850"},
		{"environ", "environ mars 1850", "ca 1850-03"},
		{"estimated", "EST 1850", "1850 ?"},
		{"calculated", "cal 1850", "1850 ?"},
		{"spelled day month year", "1 January 2008", "2008-01-01"},
		{"gedcom style", "12 JAN 1900", "1900-01-12"},
		{"month day comma year", "January 12, 1900", "1900-01-12"},
		{"ordinal", "1st march 1900", "1900-03-01"},
		{"month year", "Mar 1850", "1850-03"},
		{"year month", "1850-03", "1850-03"},
		{"year", "1850", "1850"},
		{"day month no year", "25-12", "--12-25"},
		{"time of day", "2008-01-01 10:30", "2008-01-01 10:30"},
		{"time with seconds pm", "2008-01-01 2:05:09 pm", "2008-01-01 14:05:09"},
		{"delta days", "2008-01-01 +3 days", "2008-01-04"},
		{"delta month clamps day", "2008-01-31 + 1 month", "2008-02-29"},
		{"several deltas", "2008-01-01 -1 year +2 months", "2007-03-01"},
		{"julian suffix", "1700 ju", "1700 (Julian)"},
		{"gregorian before adoption", "1400-01-01", "1400-01-01 (Julian)"},
		{"gedcom julian escape", "BEF @#DJULIAN@ 1700", "/1700 (Julian)"},
		{"french month", "10 vendémiaire XI", "10 vendemiaire XI"},
		{"french an", "1er brumaire an II", "1 brumaire II"},
		{"french month year", "thermidor an II", "thermidor II"},
		{"french roman year", "@#DFRENCH R@ an XI", "XI"},
		{"complementary days", "3 jours complémentaires III", "3 jours feries III"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Parse(tt.text)
			require.True(t, d.Known(), "%q should parse", tt.text)
			assert.Equal(t, tt.want, d.String())
			assert.Equal(t, tt.text, d.Text())
		})
	}
}

func TestParseUnparsable(t *testing.T) {
	for _, text := range []string{
		"",
		"sometime in spring",
		"31/02/2008",
		"2008-13-01",
		"32 jan 2008",
		"1 foo 2008",
		"XI",
		"2008-01-01 25:00",
	} {
		t.Run(text, func(t *testing.T) {
			d := Parse(text)
			assert.False(t, d.Known())
			_, ok := d.JulianDay()
			assert.False(t, ok)
			assert.Equal(t, text, d.String())
		})
	}
}

func TestEquivalentFormsShareJulianDay(t *testing.T) {
	want, ok := Parse("2008-01-01").JulianDay()
	require.True(t, ok)
	assert.Equal(t, int64(2454467), want)

	for _, text := range []string{"01/01/2008", "1 january 2008", "January 1, 2008", "20080101", "1 JAN 2008"} {
		got, ok := Parse(text).JulianDay()
		require.True(t, ok, text)
		assert.Equal(t, want, got, text)
	}
}

func TestNumericOrder(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		text  string
		want  string
	}{
		{"month first", MonthFirst, "02/03/2008", "2008-02-03"},
		{"day first", DayFirst, "02/03/2008", "2008-03-02"},
		{"month first swaps", MonthFirst, "25/12/2008", "2008-12-25"},
		{"day first swaps", DayFirst, "12/25/2008", "2008-12-25"},
		{"dotted", DayFirst, "02.03.2008", "2008-03-02"},
		{"dash never swaps", MonthFirst, "10-12", "--12-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(Options{Order: tt.order})
			assert.Equal(t, tt.want, p.Parse(tt.text).String())
		})
	}
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("DMY")
	require.NoError(t, err)
	assert.Equal(t, DayFirst, o)

	o, err = ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, MonthFirst, o)

	_, err = ParseOrder("ymd")
	assert.Error(t, err)
}

func TestGregorianAdoptionBoundary(t *testing.T) {
	before := Parse("1582-02-23")
	assert.Equal(t, "1582-02-23 (Julian)", before.String())
	assert.Equal(t, calendar.Julian, before.Calendar())

	after := Parse("1582-02-24")
	assert.Equal(t, "1582-02-24", after.String())
	assert.Equal(t, calendar.Gregorian, after.Calendar())
}

func TestQualifiers(t *testing.T) {
	d := Parse("abt 1850")
	assert.Equal(t, About, d.Precision())
	assert.Equal(t, On, d.Type())

	d = Parse("bef 1850?")
	assert.Equal(t, Estimated, d.Precision())
	assert.Equal(t, Before, d.Type())
	assert.Equal(t, "/1850 ?", d.String())

	d = Parse(">1850")
	assert.Equal(t, After, d.Type())
	assert.Equal(t, Exact, d.Precision())
}

func TestComponents(t *testing.T) {
	tests := []struct {
		text string
		want calendar.Known
	}{
		{"2008-01-01", calendar.Known{Year: true, Month: true, Day: true}},
		{"mar 1850", calendar.Known{Year: true, Month: true}},
		{"1850", calendar.Known{Year: true}},
		{"25-12", calendar.Known{Month: true, Day: true}},
		{"9 thermidor", calendar.Known{Month: true, Day: true}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Parse(tt.text).Components(), tt.text)
	}
}

func TestTimeOfDay(t *testing.T) {
	tod, ok := Parse("1 jan 2008 12:15 am").TimeOfDay()
	require.True(t, ok)
	assert.Equal(t, TimeOfDay{Hour: 0, Minute: 15}, tod)

	_, ok = Parse("1 jan 2008").TimeOfDay()
	assert.False(t, ok)
}
