package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrenchEpoch(t *testing.T) {
	y, m, d := French.FromJulianDay(frenchEpoch)
	assert.Equal(t, []int{1, 1, 1}, []int{y, m, d})

	// 1 Vendemiaire I is 22 September 1792.
	gy, gm, gd := Gregorian.FromJulianDay(frenchEpoch)
	assert.Equal(t, []int{1792, 9, 22}, []int{gy, gm, gd})
}

func TestFrenchToJulianDay(t *testing.T) {
	jdn, used := French.ToJulianDay(11, 1, 10, full)
	assert.Equal(t, int64(2379501), jdn)
	assert.Equal(t, French, used)
	assert.Equal(t, "10 vendemiaire XI", French.Format(jdn, full, false))
	assert.Equal(t, "XI", French.Format(jdn, full, true))
}

func TestFrenchFormat(t *testing.T) {
	tests := []struct {
		name    string
		y, m, d int
		known   Known
		want    string
	}{
		{"month and year", 2, 2, 0, Known{Year: true, Month: true}, "brumaire II"},
		{"year", 8, 0, 0, Known{Year: true}, "VIII"},
		{"day and month", 0, 11, 9, Known{Month: true, Day: true}, "9 thermidor"},
		{"complementary day", 3, 13, 6, full, "6 jours feries III"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jdn, _ := French.ToJulianDay(tt.y, tt.m, tt.d, tt.known)
			assert.Equal(t, tt.want, French.Format(jdn, tt.known, false))
		})
	}
}

func TestFrenchSextile(t *testing.T) {
	assert.Equal(t, 6, French.DaysInMonth(3, 13))
	assert.Equal(t, 5, French.DaysInMonth(4, 13))
	assert.Equal(t, 6, French.DaysInMonth(7, 13))
	assert.Equal(t, 30, French.DaysInMonth(4, 12))

	// The sixth complementary day of a sextile year is followed by the
	// first day of the next year.
	last, _ := French.ToJulianDay(3, 13, 6, full)
	y, m, d := French.FromJulianDay(last + 1)
	assert.Equal(t, []int{4, 1, 1}, []int{y, m, d})
}

func TestFrenchParseYear(t *testing.T) {
	y, ok := French.ParseYear("xi")
	assert.True(t, ok)
	assert.Equal(t, 11, y)

	y, ok = French.ParseYear("11")
	assert.True(t, ok)
	assert.Equal(t, 11, y)

	_, ok = French.ParseYear("onze")
	assert.False(t, ok)

	_, ok = Gregorian.ParseYear("xi")
	assert.False(t, ok)
}
