package report

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Alijeyrad/halisaha_backend/internal/repo"
	"github.com/Alijeyrad/halisaha_backend/internal/schedule"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type Summary struct {
	Date               string `json:"date"`
	TotalBookings      int    `json:"totalBookings"`
	TodayBookings      int    `json:"todayBookings"`
	TodaySubscriptions int    `json:"todaySubscriptions"`
	EmptySlots         int    `json:"emptySlots"`
	Revenue            int64  `json:"revenue"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Monthly struct {
	Year          int            `json:"year"`
	Month         int            `json:"month"`
	Total         int            `json:"total"`
	Subscriptions int            `json:"subscriptions"`
	OneOff        int            `json:"oneOff"`
	ByPitch       map[string]int `json:"byPitch"`
	ByDay         []DayCount     `json:"byDay"`
	Revenue       int64          `json:"revenue"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// Summary reports on all bookings and on today's in the venue time zone.
	Summary(ctx context.Context) (Summary, error)
	// Monthly breaks down the bookings of one month (1-12).
	Monthly(ctx context.Context, year, month int) (Monthly, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type reportService struct {
	store       repo.Store
	pitches     int
	hourlyPrice int64
	loc         *time.Location
	now         func() time.Time
}

func New(store repo.Store, pitches int, hourlyPrice int64, loc *time.Location) Service {
	if loc == nil {
		loc = time.Local
	}
	return &reportService{store: store, pitches: pitches, hourlyPrice: hourlyPrice, loc: loc, now: time.Now}
}

func (s *reportService) Summary(ctx context.Context) (Summary, error) {
	all, err := s.store.ListAllAppointments(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list appointments: %w", err)
	}

	today := schedule.FormatDate(s.now().In(s.loc))
	sum := Summary{
		Date:          today,
		TotalBookings: len(all),
		Revenue:       int64(len(all)) * s.hourlyPrice,
	}
	for _, a := range all {
		if a.DateString != today {
			continue
		}
		sum.TodayBookings++
		if a.IsSubscription {
			sum.TodaySubscriptions++
		}
	}
	sum.EmptySlots = max(s.pitches*schedule.SlotsPerDay-sum.TodayBookings, 0)
	return sum, nil
}

func (s *reportService) Monthly(ctx context.Context, year, month int) (Monthly, error) {
	if month < 1 || month > 12 {
		return Monthly{}, ErrInvalidMonth
	}
	all, err := s.store.ListAllAppointments(ctx)
	if err != nil {
		return Monthly{}, fmt.Errorf("list appointments: %w", err)
	}

	// Dates are DD.MM.YY, so a month is a string suffix.
	suffix := "." + schedule.MonthSuffix(year, time.Month(month))
	m := Monthly{Year: year, Month: month, ByPitch: map[string]int{}, ByDay: []DayCount{}}
	perDay := map[string]int{}
	for _, a := range all {
		if !strings.HasSuffix(a.DateString, suffix) {
			continue
		}
		m.Total++
		if a.IsSubscription {
			m.Subscriptions++
		} else {
			m.OneOff++
		}
		m.ByPitch[a.PitchID]++
		perDay[a.DateString]++
	}
	for date, n := range perDay {
		m.ByDay = append(m.ByDay, DayCount{Date: date, Count: n})
	}
	// DD prefix sorts correctly within one month.
	slices.SortFunc(m.ByDay, func(a, b DayCount) int { return strings.Compare(a.Date, b.Date) })
	m.Revenue = int64(m.Total) * s.hourlyPrice
	return m, nil
}
