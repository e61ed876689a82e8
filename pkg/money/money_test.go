package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("quantizes to two places", func(t *testing.T) {
		got, err := Parse("12.345")
		require.NoError(t, err)
		assert.Equal(t, "12.35", got.StringFixed(2))
	})

	t.Run("rounds half away from zero", func(t *testing.T) {
		got, err := Parse("0.005")
		require.NoError(t, err)
		assert.Equal(t, "0.01", got.StringFixed(2))
	})

	t.Run("accepts surrounding whitespace", func(t *testing.T) {
		got, err := Parse("  42.10 ")
		require.NoError(t, err)
		assert.Equal(t, "42.10", got.StringFixed(2))
	})

	t.Run("rejects non-numeric input", func(t *testing.T) {
		for _, raw := range []string{"", "abc", "12.3.4", "$5"} {
			_, err := Parse(raw)
			assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", raw)
		}
	})
}

func TestQuantizeIdempotent(t *testing.T) {
	values := []string{"0", "0.004", "0.005", "99.999", "-3.455", "1234567.891"}
	for _, v := range values {
		d := decimal.RequireFromString(v)
		once := Quantize(d)
		twice := Quantize(once)
		assert.True(t, once.Equal(twice), "quantize not idempotent for %s", v)
	}
}

func TestParseRate(t *testing.T) {
	got, err := ParseRate("2.0005")
	require.NoError(t, err)
	assert.Equal(t, "2.001", got.StringFixed(3))

	_, err = ParseRate("two percent")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"5.5", "$5.50"},
		{"280.50", "$280.50"},
		{"1234.56", "$1,234.56"},
		{"1234567.891", "$1,234,567.89"},
		{"-42.10", "-$42.10"},
	}

	for _, tc := range cases {
		got := Format(decimal.RequireFromString(tc.in))
		assert.Equal(t, tc.want, got)
	}
}

func TestNumber(t *testing.T) {
	assert.Equal(t, 12.35, Number(decimal.RequireFromString("12.345")))
}
