package utils

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// DateLocation is the application's timezone
var DateLocation *time.Location

// InitializeDateLocation sets up the application's timezone
func InitializeDateLocation() error {
	timezone := os.Getenv("DB_TIMEZONE")
	if timezone == "" {
		timezone = "Asia/Kolkata" // fallback default
	}

	var err error
	DateLocation, err = time.LoadLocation(timezone)
	return err
}

func appLocation() *time.Location {
	if DateLocation != nil {
		return DateLocation
	}
	return time.UTC
}

// flexibleDateLayouts are the two accepted submission formats.
var flexibleDateLayouts = []string{
	"02-01-2006", // dd-mm-yyyy
	"2006-01-02", // yyyy-mm-dd
}

// ParseFlexibleDate accepts either dd-mm-yyyy or yyyy-mm-dd and returns
// the canonical date at midnight in the application timezone, so
// "15-08-2023" and "2023-08-15" yield the identical value.
func ParseFlexibleDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range flexibleDateLayouts {
		parsed, err := time.ParseInLocation(layout, trimmed, appLocation())
		if err == nil {
			return NormalizeDate(parsed), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected dd-mm-yyyy or yyyy-mm-dd", value)
}

// NormalizeDate converts a time.Time to a normalized date at midnight in
// the application timezone
func NormalizeDate(t time.Time) time.Time {
	year, month, day := t.In(appLocation()).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, appLocation())
}

// Today returns today's date normalized at midnight in the application timezone
func Today() time.Time {
	return NormalizeDate(time.Now())
}

// YearsBetween returns whole years elapsed from 'from' to 'to'.
func YearsBetween(from, to time.Time) int {
	years := to.Year() - from.Year()
	anniversary := from.AddDate(years, 0, 0)
	if anniversary.After(to) {
		years--
	}
	return years
}
