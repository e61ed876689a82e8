// Package money provides fixed-point monetary parsing, quantization, and
// display formatting. Every balance and fee in the system passes through
// Quantize before it is persisted or compared, so repeated arithmetic never
// accumulates sub-cent drift.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount indicates input that cannot be parsed as a monetary value.
var ErrInvalidAmount = errors.New("invalid monetary amount")

// Parse converts raw user input into a monetary amount quantized to two
// fractional digits. Returns ErrInvalidAmount when the input is not numeric.
func Parse(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: empty input", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	return Quantize(d), nil
}

// Quantize rounds to two fractional digits, half away from zero. Idempotent.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ParseRate converts raw input into a percentage rate quantized to three
// fractional digits, the precision used by the savings interest rate.
func ParseRate(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: empty input", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	return QuantizeRate(d), nil
}

// QuantizeRate rounds to three fractional digits, half away from zero.
func QuantizeRate(d decimal.Decimal) decimal.Decimal {
	return d.Round(3)
}

// Format renders an amount as a display currency string, e.g. "$1,234.56".
func Format(d decimal.Decimal) string {
	q := Quantize(d)

	sign := ""
	if q.IsNegative() {
		sign = "-"
		q = q.Abs()
	}

	fixed := q.StringFixed(2)
	intPart := fixed[:len(fixed)-3]
	fracPart := fixed[len(fixed)-2:]

	return sign + "$" + groupThousands(intPart) + "." + fracPart
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Number converts an amount to a plain float for JSON payloads, after
// quantizing to two fractional digits.
func Number(d decimal.Decimal) float64 {
	return Quantize(d).InexactFloat64()
}
