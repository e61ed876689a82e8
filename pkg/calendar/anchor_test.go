package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextAnchor(t *testing.T) {
	cases := []struct {
		name string
		day  int
		ref  time.Time
		want time.Time
	}{
		{"same month ahead", 25, date(2024, time.May, 10), date(2024, time.May, 25)},
		{"rolls to next month", 5, date(2024, time.May, 10), date(2024, time.June, 5)},
		{"anchor day itself rolls forward", 25, date(2024, time.May, 25), date(2024, time.June, 25)},
		{"leap february clamps day 31", 31, date(2024, time.February, 15), date(2024, time.February, 29)},
		{"non-leap february clamps day 31", 31, date(2023, time.February, 15), date(2023, time.February, 28)},
		{"thirty day month clamps day 31", 31, date(2024, time.April, 1), date(2024, time.April, 30)},
		{"wraps the year", 15, date(2024, time.December, 20), date(2025, time.January, 15)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NextAnchor(tc.day, tc.ref))
		})
	}
}

func TestPreviousAnchor(t *testing.T) {
	cases := []struct {
		name string
		day  int
		ref  time.Time
		want time.Time
	}{
		{"same month behind", 1, date(2024, time.May, 10), date(2024, time.May, 1)},
		{"anchor day counts as current", 10, date(2024, time.May, 10), date(2024, time.May, 10)},
		{"steps to prior month", 25, date(2024, time.May, 10), date(2024, time.April, 25)},
		{"prior month clamps day 31", 31, date(2024, time.March, 15), date(2024, time.February, 29)},
		{"wraps the year", 20, date(2024, time.January, 5), date(2023, time.December, 20)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PreviousAnchor(tc.day, tc.ref))
		})
	}
}

func TestAnchorsBracketReference(t *testing.T) {
	days := []int{1, 15, 28, 31}
	refs := []time.Time{
		date(2023, time.February, 28),
		date(2024, time.February, 29),
		date(2024, time.June, 30),
		date(2024, time.December, 31),
		date(2025, time.January, 1),
		time.Date(2024, time.July, 4, 18, 30, 0, 0, time.UTC),
	}

	for _, day := range days {
		for _, ref := range refs {
			prev := PreviousAnchor(day, ref)
			next := NextAnchor(day, ref)
			refDate := date(ref.Year(), ref.Month(), ref.Day())

			assert.False(t, prev.After(refDate), "previous anchor %v after %v (day %d)", prev, refDate, day)
			assert.True(t, next.After(refDate), "next anchor %v not after %v (day %d)", next, refDate, day)
		}
	}
}

func TestCycleDays(t *testing.T) {
	// 25 Apr -> 25 May
	assert.Equal(t, 30, CycleDays(25, date(2024, time.May, 10)))
	// 29 Feb -> 31 Mar in a leap year
	assert.Equal(t, 31, CycleDays(31, date(2024, time.March, 10)))
	assert.GreaterOrEqual(t, CycleDays(1, date(2024, time.January, 1)), 1)
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{
		1:  "1st",
		2:  "2nd",
		3:  "3rd",
		4:  "4th",
		11: "11th",
		12: "12th",
		13: "13th",
		21: "21st",
		22: "22nd",
		23: "23rd",
		25: "25th",
		31: "31st",
	}
	for day, want := range cases {
		assert.Equal(t, want, Ordinal(day))
	}
}
