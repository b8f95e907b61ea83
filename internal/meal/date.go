package meal

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the DD/MM/YYYY layout used by the cafeteria site.
const DateLayout = "02/01/2006"

// ErrInvalidDate is returned when a date string is not DD/MM/YYYY.
var ErrInvalidDate = errors.New("invalid date")

// ParseDate parses a DD/MM/YYYY string in loc. A nil loc means UTC.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (want DD/MM/YYYY)", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate formats t as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateRange returns days consecutive DD/MM/YYYY dates starting at start.
// days <= 0 yields just start.
func DateRange(start time.Time, days int) []string {
	if days <= 0 {
		days = 1
	}
	dates := make([]string, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, FormatDate(start.AddDate(0, 0, i)))
	}
	return dates
}

// FileStem converts a DD/MM/YYYY date to a sortable YYYY-MM-DD string.
func FileStem(date string) (string, error) {
	t, err := ParseDate(date, time.UTC)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}
