package schedule

import (
	"errors"
	"time"
)

// DateLayout is the stored calendar date format, DD.MM.YY.
const DateLayout = "02.01.06"

var ErrInvalidDate = errors.New("date must be formatted as DD.MM.YY")

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate reads a DD.MM.YY date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if len(s) != len(DateLayout) {
		return time.Time{}, ErrInvalidDate
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// MonthSuffix is the MM.YY tail shared by every date string of a month.
func MonthSuffix(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("01.06")
}
