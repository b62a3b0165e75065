package gamedate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEU5DatePackedRoundTrip(t *testing.T) {
	dates := []EU5Date{
		{Year: 0, Month: January, Day: 1, Hour: 0},
		{Year: 1444, Month: November, Day: 11, Hour: 4},
		{Year: 1444, Month: December, Day: 31, Hour: 22},
		{Year: 1, Month: February, Day: 28, Hour: 12},
	}
	for _, d := range dates {
		t.Run(d.String(), func(t *testing.T) {
			back, err := EU5DateFromPacked(d.Packed())
			require.NoError(t, err)
			assert.Equal(t, d, back)
		})
	}
}

func TestEU5DatePackedAllHours(t *testing.T) {
	base := EU5Date{Year: 1444, Month: November, Day: 11}
	for hour := uint8(0); hour <= 22; hour += 2 {
		d := base
		d.Hour = hour
		back, err := EU5DateFromPacked(d.Packed())
		require.NoError(t, err)
		assert.Equal(t, hour, back.Hour)
	}
}

func TestEU5DateFromPackedRejectsBadHourCode(t *testing.T) {
	// hour codes live in 8..=19; anything else in the low factor fails
	base := ((int32(1444+5000)*365 + 100) * 24)
	for _, code := range []int32{0, 7, 20, 23} {
		_, err := EU5DateFromPacked(base + code)
		assert.Error(t, err, "code %d", code)
	}
	_, err := EU5DateFromPacked(base + 8)
	assert.NoError(t, err)
}

func TestParseEU5Date(t *testing.T) {
	d, err := ParseEU5Date("1444.11.11")
	require.NoError(t, err)
	assert.Equal(t, EU5Date{Year: 1444, Month: November, Day: 11, Hour: 0}, d)

	d, err = ParseEU5Date("1444.11.11.10")
	require.NoError(t, err)
	assert.Equal(t, uint8(4), d.Hour)

	assert.Equal(t, "1444.11.11.4", d.String())
	assert.Equal(t, "04:00, 11 November 1444", d.Human())
}

func TestParseEU5DateErrors(t *testing.T) {
	for _, text := range []string{
		"1444.11", "1444.11.11.10.3", "1444.13.1", "1444.2.29",
		"1444.11.11.7", "1444.11.11.20", "x.1.1", "",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseEU5Date(text)
			assert.Error(t, err)
		})
	}
}
