package utils

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDateRange turns start/end date strings into a [start, end) UTC
// window. The end date is inclusive, so the window runs until midnight
// after it.
func ParseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date %q: %w", startStr, err)
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date %q: %w", endStr, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date %s before start_date %s", endStr, startStr)
	}
	return start, end.Add(24 * time.Hour), nil
}
