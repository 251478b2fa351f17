package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/halisaha_backend/internal/repo"
)

func seed(t *testing.T) *repo.MemoryStore {
	t.Helper()
	store := repo.NewMemoryStore()
	for _, a := range []repo.Appointment{
		{PitchID: "barnebau", DateString: "15.06.25", TimeSlot: "18.00", IsSubscription: true},
		{PitchID: "barnebau", DateString: "15.06.25", TimeSlot: "19.00"},
		{PitchID: "noucamp", DateString: "15.06.25", TimeSlot: "19.00"},
		{PitchID: "noucamp", DateString: "02.06.25", TimeSlot: "20.00", IsSubscription: true},
		{PitchID: "noucamp", DateString: "15.07.25", TimeSlot: "20.00"},
		{PitchID: "noucamp", DateString: "15.06.24", TimeSlot: "20.00"},
	} {
		a.Status = repo.StatusBooked
		_, err := store.CreateAppointment(context.Background(), a)
		require.NoError(t, err)
	}
	return store
}

func TestSummary(t *testing.T) {
	svc := New(seed(t), 2, 1500, time.UTC).(*reportService)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 21, 0, 0, 0, time.UTC) }

	got, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{
		Date:               "15.06.25",
		TotalBookings:      6,
		TodayBookings:      3,
		TodaySubscriptions: 1,
		EmptySlots:         19,
		Revenue:            9000,
	}, got)
}

func TestSummaryEmptySlotsFloor(t *testing.T) {
	svc := New(seed(t), 0, 1500, time.UTC).(*reportService)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) }

	got, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, got.EmptySlots)
}

func TestMonthly(t *testing.T) {
	svc := New(seed(t), 2, 1000, time.UTC)

	got, err := svc.Monthly(context.Background(), 2025, 6)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Total)
	assert.Equal(t, 2, got.Subscriptions)
	assert.Equal(t, 2, got.OneOff)
	assert.Equal(t, map[string]int{"barnebau": 2, "noucamp": 2}, got.ByPitch)
	assert.Equal(t, []DayCount{{Date: "02.06.25", Count: 1}, {Date: "15.06.25", Count: 3}}, got.ByDay)
	assert.Equal(t, int64(4000), got.Revenue)

	_, err = svc.Monthly(context.Background(), 2025, 13)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}
