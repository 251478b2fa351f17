package schedule

import (
	"errors"
	"fmt"
	"time"
)

const DefaultRollingDays = 28

type PeriodKind string

const (
	PeriodRolling PeriodKind = "rolling"
	PeriodMonth   PeriodKind = "month"
)

var (
	ErrInvalidPeriod = errors.New("period must be rolling or month")
	ErrInvalidDays   = errors.New("rolling period needs a positive day count")
	ErrInvalidMonth  = errors.New("month index must be between 0 and 11")
)

// Period is an ordered list of venue days to materialize bookings for.
type Period struct {
	Kind  PeriodKind
	Dates []time.Time
}

// Rolling covers days consecutive dates starting on start's calendar day.
func Rolling(start time.Time, days int) (Period, error) {
	if days <= 0 {
		return Period{}, ErrInvalidDays
	}
	first := DayStart(start)
	dates := make([]time.Time, 0, days)
	for i := range days {
		dates = append(dates, first.AddDate(0, 0, i))
	}
	return Period{Kind: PeriodRolling, Dates: dates}, nil
}

// CalendarMonth covers every day of the month with zero-based index
// monthIndex in year.
func CalendarMonth(year, monthIndex int, loc *time.Location) (Period, error) {
	if monthIndex < 0 || monthIndex > 11 {
		return Period{}, ErrInvalidMonth
	}
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, time.Month(monthIndex+1), 1, 0, 0, 0, 0, loc)
	var dates []time.Time
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return Period{Kind: PeriodMonth, Dates: dates}, nil
}

// PeriodRequest is the caller-facing description of a period, as accepted by
// the HTTP API and the CLI.
type PeriodRequest struct {
	Period string `json:"period"`
	Days   int    `json:"days,omitempty"`
	Month  *int   `json:"month,omitempty"`
}

// Resolve turns the request into concrete dates relative to now. A rolling
// request without days uses defaultDays; a month request uses now's year.
func (r PeriodRequest) Resolve(now time.Time, defaultDays int) (Period, error) {
	switch PeriodKind(r.Period) {
	case PeriodRolling, "":
		days := r.Days
		if days == 0 {
			days = defaultDays
		}
		return Rolling(now, days)
	case PeriodMonth:
		if r.Month == nil {
			return Period{}, fmt.Errorf("%w: month is required", ErrInvalidMonth)
		}
		return CalendarMonth(now.Year(), *r.Month, now.Location())
	default:
		return Period{}, ErrInvalidPeriod
	}
}
