// Package agg turns interview events into weekly funnel metrics.
package agg

import (
	"fmt"
	"time"
)

// BucketKey returns the ISO week key of t, formatted as YYYY-Www.
func BucketKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// ParseBucketKey splits a YYYY-Www key into its ISO year and week.
func ParseBucketKey(key string) (year, week int, err error) {
	if _, err := fmt.Sscanf(key, "%4d-W%2d", &year, &week); err != nil {
		return 0, 0, fmt.Errorf("invalid week key %q: %w", key, err)
	}
	if week < 1 || week > 53 {
		return 0, 0, fmt.Errorf("invalid week key %q: week out of range", key)
	}
	return year, week, nil
}

// MondayOf returns midnight of the Monday at or before t, in t's location.
func MondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// MondayOfKey returns the Monday that starts the ISO week key, in UTC.
func MondayOfKey(key string) (time.Time, error) {
	year, week, err := ParseBucketKey(key)
	if err != nil {
		return time.Time{}, err
	}
	// January 4th always falls in ISO week 1.
	firstMonday := MondayOf(time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC))
	return firstMonday.AddDate(0, 0, (week-1)*7), nil
}
