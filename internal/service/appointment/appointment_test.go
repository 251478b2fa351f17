package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/halisaha_backend/internal/repo"
)

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *recordingPublisher) Publish(subject string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

func newTestService(t *testing.T) (Service, *repo.MemoryStore, *recordingPublisher) {
	t.Helper()
	store := repo.NewMemoryStore()
	pub := &recordingPublisher{}
	return New(store, []string{"barnebau", "noucamp"}, time.UTC, pub), store, pub
}

func booking(slot string) BookRequest {
	return BookRequest{
		PitchID:      "barnebau",
		CustomerName: " Ali Veli ",
		PhoneNumber:  "5551234567",
		TimeSlot:     slot,
		DateString:   "15.06.25",
	}
}

func TestBook(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newTestService(t)

	a, err := svc.Book(ctx, booking("20.00"))
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "Ali Veli", a.CustomerName)
	assert.Equal(t, repo.StatusBooked, a.Status)
	assert.False(t, a.CreatedAt.IsZero())
	assert.Equal(t, []string{"halisaha.appointment.created." + a.ID}, pub.subjects)

	_, err = svc.Book(ctx, booking("20.00"))
	var taken *SlotTakenError
	require.ErrorAs(t, err, &taken)
	assert.True(t, errors.Is(err, ErrSlotTaken))
	assert.Equal(t, a.ID, taken.Existing.ID)
}

func TestBookValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	tests := []struct {
		name string
		edit func(*BookRequest)
		want error
	}{
		{"unknown pitch", func(r *BookRequest) { r.PitchID = "wembley" }, ErrInvalidPitch},
		{"bad slot", func(r *BookRequest) { r.TimeSlot = "13.00" }, ErrInvalidSlot},
		{"bad date", func(r *BookRequest) { r.DateString = "2025-06-15" }, ErrInvalidDate},
		{"blank name", func(r *BookRequest) { r.CustomerName = "   " }, ErrMissingName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := booking("18.00")
			tt.edit(&req)
			_, err := svc.Book(ctx, req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestListByDateSortsBySchedule(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	for _, slot := range []string{"00.00", "14.00", "23.00"} {
		_, err := svc.Book(ctx, booking(slot))
		require.NoError(t, err)
	}

	list, err := svc.ListByDate(ctx, "15.06.25")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "14.00", list[0].TimeSlot)
	assert.Equal(t, "23.00", list[1].TimeSlot)
	assert.Equal(t, "00.00", list[2].TimeSlot)

	_, err = svc.ListByDate(ctx, "15/06/25")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	a, err := svc.Book(ctx, booking("20.00"))
	require.NoError(t, err)
	_, err = svc.Book(ctx, booking("21.00"))
	require.NoError(t, err)

	deposit := "500"
	got, err := svc.Update(ctx, a.ID, UpdateRequest{Deposit: &deposit})
	require.NoError(t, err)
	assert.Equal(t, "500", got.Deposit)
	assert.Equal(t, "20.00", got.TimeSlot)

	slot := "21.00"
	_, err = svc.Update(ctx, a.ID, UpdateRequest{TimeSlot: &slot})
	assert.ErrorIs(t, err, ErrSlotTaken)

	pitch := "noucamp"
	got, err = svc.Update(ctx, a.ID, UpdateRequest{PitchID: &pitch, TimeSlot: &slot})
	require.NoError(t, err)
	assert.Equal(t, "noucamp", got.PitchID)

	_, err = svc.Update(ctx, "missing", UpdateRequest{Deposit: &deposit})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePublishesReschedule(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newTestService(t)

	a, err := svc.Book(ctx, booking("18.00"))
	require.NoError(t, err)
	createdSubject := "halisaha.appointment.created." + a.ID

	deposit := "200"
	_, err = svc.Update(ctx, a.ID, UpdateRequest{Deposit: &deposit})
	require.NoError(t, err)
	assert.Equal(t, []string{createdSubject}, pub.subjects, "deposit edits do not reschedule")

	slot := "21.00"
	_, err = svc.Update(ctx, a.ID, UpdateRequest{TimeSlot: &slot})
	require.NoError(t, err)
	assert.Equal(t, []string{createdSubject, createdSubject}, pub.subjects)

	cancelled := repo.StatusCancelled
	_, err = svc.Update(ctx, a.ID, UpdateRequest{Status: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, "halisaha.appointment.cancelled."+a.ID, pub.subjects[len(pub.subjects)-1])

	booked := repo.StatusBooked
	_, err = svc.Update(ctx, a.ID, UpdateRequest{Status: &booked})
	require.NoError(t, err)
	assert.Equal(t, createdSubject, pub.subjects[len(pub.subjects)-1])
	assert.Len(t, pub.subjects, 4)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newTestService(t)

	a, err := svc.Book(ctx, booking("20.00"))
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, a.ID))
	assert.Contains(t, pub.subjects, "halisaha.appointment.cancelled."+a.ID)

	_, err = svc.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Cancel(ctx, a.ID), ErrNotFound)

	// The slot is free again after a hard delete.
	_, err = svc.Book(ctx, booking("20.00"))
	assert.NoError(t, err)
}

func TestCancelFutureForSubscription(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	sub := repo.Subscription{ID: "sub-1", PitchID: "barnebau", TimeSlot: "18.00", CustomerName: "Ali"}
	seed := []repo.Appointment{
		{PitchID: "barnebau", TimeSlot: "18.00", DateString: "02.06.25", CustomerName: "Ali", IsSubscription: true, SubscriptionID: "sub-1", Status: repo.StatusBooked},
		{PitchID: "barnebau", TimeSlot: "18.00", DateString: "09.06.25", CustomerName: "Ali", IsSubscription: true, SubscriptionID: "sub-1", Status: repo.StatusBooked},
		{PitchID: "barnebau", TimeSlot: "18.00", DateString: "16.06.25", CustomerName: "Ali", IsSubscription: true, Status: repo.StatusBooked},
		{PitchID: "barnebau", TimeSlot: "18.00", DateString: "23.06.25", CustomerName: "Other", IsSubscription: true, SubscriptionID: "sub-2", Status: repo.StatusBooked},
		{PitchID: "barnebau", TimeSlot: "18.00", DateString: "30.06.25", CustomerName: "Ali", Status: repo.StatusBooked},
	}
	for _, a := range seed {
		_, err := store.CreateAppointment(ctx, a)
		require.NoError(t, err)
	}

	n, err := svc.CancelFutureForSubscription(ctx, sub, time.Date(2025, 6, 9, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, n, "09.06 by id and 16.06 by legacy match")

	left, err := store.ListAllAppointments(ctx)
	require.NoError(t, err)
	var dates []string
	for _, a := range left {
		dates = append(dates, a.DateString)
	}
	assert.ElementsMatch(t, []string{"02.06.25", "23.06.25", "30.06.25"}, dates)
}
