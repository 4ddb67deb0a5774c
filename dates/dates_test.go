package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestParse_ExplicitYear(t *testing.T) {
	n := NewNormalizer("en_US")

	d, err := n.Parse("March 3, 1990", testNow)
	require.NoError(t, err)

	assert.True(t, d.YearKnown)
	assert.Equal(t, 1990, d.Year)
	assert.Equal(t, time.March, d.Month)
	assert.Equal(t, 3, d.Day)
}

func TestParse_ISO(t *testing.T) {
	n := NewNormalizer("en_US")

	d, err := n.Parse("1990-03-03", testNow)
	require.NoError(t, err)

	assert.True(t, d.YearKnown)
	assert.Equal(t, 1990, d.Year)
}

func TestParse_NoYear(t *testing.T) {
	n := NewNormalizer("en_US")

	d, err := n.Parse("March 3", testNow)
	require.NoError(t, err)

	assert.False(t, d.YearKnown, "A date without a year must be stored as year-unknown")
	assert.Equal(t, time.March, d.Month)
	assert.Equal(t, 3, d.Day)
}

func TestParse_CurrentYearCollapsesToUnknown(t *testing.T) {
	n := NewNormalizer("en_US")

	d, err := n.Parse("2025-03-03", testNow)
	require.NoError(t, err)

	assert.False(t, d.YearKnown,
		"The current year is indistinguishable from a defaulted year and must be dropped")
}

func TestParse_NaturalLanguage(t *testing.T) {
	n := NewNormalizer("en_US")

	d, err := n.Parse("today", testNow)
	require.NoError(t, err)

	assert.False(t, d.YearKnown)
	assert.Equal(t, testNow.Month(), d.Month)
	assert.Equal(t, testNow.Day(), d.Day)
}

func TestParse_Garbage(t *testing.T) {
	n := NewNormalizer("en_US")

	for _, input := range []string{"", "   ", "definitely not a date"} {
		_, err := n.Parse(input, testNow)

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr, "input %q", input)
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	n := NewNormalizer("en_US")

	withYear, err := n.Parse("March 3, 1990", testNow)
	require.NoError(t, err)
	assert.Equal(t, "March 3, 1990", n.Format(withYear))

	reparsed, err := n.Parse(n.Format(withYear), testNow)
	require.NoError(t, err)
	assert.Equal(t, withYear, reparsed)

	withoutYear, err := n.Parse("March 3", testNow)
	require.NoError(t, err)
	assert.Equal(t, "March 3", n.Format(withoutYear),
		"Formatting a year-unknown date must omit the year")
}

func TestFormat_LeapDayWithoutYear(t *testing.T) {
	n := NewNormalizer("en_US")

	d := Date{Month: time.February, Day: 29}
	assert.Equal(t, "February 29", n.Format(d))
}

func TestNewNormalizer_UnsupportedLocaleFallsBack(t *testing.T) {
	n := NewNormalizer("xx_XX")

	d, err := n.Parse("March 3, 1990", testNow)
	require.NoError(t, err)
	assert.Equal(t, "March 3, 1990", n.Format(d))
}

func TestAge(t *testing.T) {
	today := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	dayBefore := Date{Year: 1990, Month: time.June, Day: 14, YearKnown: true}
	onTheDay := Date{Year: 1990, Month: time.June, Day: 15, YearKnown: true}
	dayAfter := Date{Year: 1990, Month: time.June, Day: 16, YearKnown: true}

	age, ok := dayBefore.Age(today)
	require.True(t, ok)
	assert.Equal(t, 35, age)

	age, ok = onTheDay.Age(today)
	require.True(t, ok)
	assert.Equal(t, 35, age)

	age, ok = dayAfter.Age(today)
	require.True(t, ok)
	assert.Equal(t, 34, age, "Ages on either side of today must differ by exactly one")
}

func TestAge_YearUnknown(t *testing.T) {
	d := Date{Month: time.June, Day: 15}

	_, ok := d.Age(testNow)
	assert.False(t, ok)
}

func TestCelebratedOn(t *testing.T) {
	regular := Date{Month: time.March, Day: 3}
	assert.True(t, regular.CelebratedOn(time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)))
	assert.False(t, regular.CelebratedOn(time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC)))

	leap := Date{Year: 1992, Month: time.February, Day: 29, YearKnown: true}
	assert.True(t, leap.CelebratedOn(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)))
	assert.True(t, leap.CelebratedOn(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)),
		"Leap-day birthdays shift to March 1 in non-leap years")
	assert.False(t, leap.CelebratedOn(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, leap.CelebratedOn(time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)))
}

func TestNextOccurrence(t *testing.T) {
	d := Date{Month: time.March, Day: 3}

	next := d.NextOccurrence(time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC), next)

	next = d.NextOccurrence(time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), next)

	next = d.NextOccurrence(time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), next,
		"A birthday today is the next occurrence")
}

func TestIsLeapYear(t *testing.T) {
	assert.True(t, IsLeapYear(2024))
	assert.True(t, IsLeapYear(2000))
	assert.False(t, IsLeapYear(2025))
	assert.False(t, IsLeapYear(1900))
}
