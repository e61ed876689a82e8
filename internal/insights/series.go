// Package insights builds balance histories, projections, and minimum
// balance due cards from the ledger. Everything here is read-only and
// computed in UTC; timestamps are localized only for display fields.
package insights

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lifesim-bank/pkg/calendar"
	"github.com/lifesim-bank/pkg/money"
)

// Cadence selects the bucket size for an aggregated series.
type Cadence string

const (
	CadenceDaily   Cadence = "daily"
	CadenceMonthly Cadence = "monthly"
	CadenceYearly  Cadence = "yearly"
)

// Point is one observation of a balance (or a derived value) in time.
type Point struct {
	At    time.Time       `json:"at"`
	Value decimal.Decimal `json:"value"`
}

// Projection holds one derived series per cadence.
type Projection struct {
	Daily   []Point `json:"daily"`
	Monthly []Point `json:"monthly"`
	Yearly  []Point `json:"yearly"`
}

func bucketStart(t time.Time, cadence Cadence) time.Time {
	t = t.UTC()
	switch cadence {
	case CadenceMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case CadenceYearly:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// Aggregate collapses an ascending series to one point per calendar
// bucket, keeping the last observed value within each bucket.
func Aggregate(series []Point, cadence Cadence) []Point {
	var result []Point
	for _, p := range series {
		bucket := bucketStart(p.At, cadence)
		if n := len(result); n > 0 && result[n-1].At.Equal(bucket) {
			result[n-1].Value = p.Value
			continue
		}
		result = append(result, Point{At: bucket, Value: p.Value})
	}
	return result
}

// Combine merges two ascending series into one running-total series.
// Each side's last-known value is carried forward whenever only the
// other side changes; sides start at zero before their first point.
func Combine(a, b []Point) []Point {
	lastA, lastB := decimal.Zero, decimal.Zero
	var result []Point

	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var at time.Time
		switch {
		case i >= len(a):
			at = b[j].At
		case j >= len(b):
			at = a[i].At
		case a[i].At.Before(b[j].At):
			at = a[i].At
		default:
			at = b[j].At
		}

		for i < len(a) && a[i].At.Equal(at) {
			lastA = a[i].Value
			i++
		}
		for j < len(b) && b[j].At.Equal(at) {
			lastB = b[j].Value
			j++
		}

		result = append(result, Point{At: at, Value: lastA.Add(lastB)})
	}

	return result
}

// ProjectInterest derives interest earnings from a balance series at the
// given annual rate percentage: balance x rate/100 / periods per year,
// aggregated per cadence.
func ProjectInterest(series []Point, annualRatePercent decimal.Decimal) Projection {
	rate := annualRatePercent.Div(decimal.NewFromInt(100))

	derive := func(periods int64) []Point {
		divisor := decimal.NewFromInt(periods)
		derived := make([]Point, 0, len(series))
		for _, p := range series {
			derived = append(derived, Point{
				At:    p.At,
				Value: money.Quantize(p.Value.Mul(rate).Div(divisor)),
			})
		}
		return derived
	}

	return Projection{
		Daily:   Aggregate(derive(365), CadenceDaily),
		Monthly: Aggregate(derive(12), CadenceMonthly),
		Yearly:  Aggregate(derive(1), CadenceYearly),
	}
}

// EstimateCyclePayout estimates the interest paid over the current anchor
// cycle: cycle days x daily rate x balance, quantized.
func EstimateCyclePayout(balance, annualRatePercent decimal.Decimal, anchorDay int, today time.Time) decimal.Decimal {
	days := decimal.NewFromInt(int64(calendar.CycleDays(anchorDay, today)))
	dailyRate := annualRatePercent.Div(decimal.NewFromInt(100)).Div(decimal.NewFromInt(365))
	return money.Quantize(balance.Mul(dailyRate).Mul(days))
}
