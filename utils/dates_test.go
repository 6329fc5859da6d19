package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlexibleDateBothFormats(t *testing.T) {
	ddmmyyyy, err := ParseFlexibleDate("15-08-2023")
	require.NoError(t, err)

	yyyymmdd, err := ParseFlexibleDate("2023-08-15")
	require.NoError(t, err)

	// Equivalent inputs in either format parse to the identical canonical date.
	assert.True(t, ddmmyyyy.Equal(yyyymmdd))
	assert.Equal(t, 2023, ddmmyyyy.Year())
	assert.Equal(t, time.August, ddmmyyyy.Month())
	assert.Equal(t, 15, ddmmyyyy.Day())
	assert.Equal(t, 0, ddmmyyyy.Hour())
}

func TestParseFlexibleDateRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "yesterday", "15/08/2023", "2023-13-01", "32-01-2023"} {
		_, err := ParseFlexibleDate(input)
		assert.Error(t, err, input)
	}
}

func TestParseFlexibleDateTrimsWhitespace(t *testing.T) {
	parsed, err := ParseFlexibleDate("  01-01-2000 ")
	require.NoError(t, err)
	assert.Equal(t, 2000, parsed.Year())
}

func TestYearsBetween(t *testing.T) {
	born := time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 23, YearsBetween(born, time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 22, YearsBetween(born, time.Date(2023, time.June, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 23, YearsBetween(born, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)))
}
