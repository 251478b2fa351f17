package synchronizer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/halisaha_backend/internal/repo"
	"github.com/Alijeyrad/halisaha_backend/internal/schedule"
	redispkg "github.com/Alijeyrad/halisaha_backend/pkg/redis"
)

func newSync(t *testing.T, store repo.Store, locker Locker) *synchronizer {
	t.Helper()
	return New(store, locker, nil, Config{Location: time.UTC}).(*synchronizer)
}

func seedSubs(t *testing.T, store repo.Store, subs ...repo.Subscription) []string {
	t.Helper()
	ids := make([]string, 0, len(subs))
	for _, s := range subs {
		s.Active = true
		id, err := store.CreateSubscription(context.Background(), s)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func rolling(t *testing.T, start time.Time, days int) schedule.Period {
	t.Helper()
	p, err := schedule.Rolling(start, days)
	require.NoError(t, err)
	return p
}

func TestRunEndToEnd(t *testing.T) {
	tests := []struct {
		name      string
		monday    time.Time
		wantDay2  int
		wantTotal int
	}{
		{"week starting in june", time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), 1, 3},
		{"week outside june", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := repo.NewMemoryStore()
			seedSubs(t, store,
				repo.Subscription{PitchID: "A", TimeSlot: "14.00", DaysOfWeek: []int{1}, CustomerName: "one"},
				repo.Subscription{PitchID: "A", TimeSlot: "14.00", DaysOfWeek: []int{2}, Months: []int{5}, CustomerName: "two"},
				repo.Subscription{PitchID: "B", TimeSlot: "15.00", DaysOfWeek: []int{1}, CustomerName: "three"},
			)

			res, err := newSync(t, store, nil).Run(ctx, rolling(t, tt.monday, 7))
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, res.Created)

			day1, err := store.ListAppointments(ctx, schedule.FormatDate(tt.monday))
			require.NoError(t, err)
			assert.Len(t, day1, 2)
			day2, err := store.ListAppointments(ctx, schedule.FormatDate(tt.monday.AddDate(0, 0, 1)))
			require.NoError(t, err)
			assert.Len(t, day2, tt.wantDay2)

			for _, a := range day1 {
				assert.True(t, a.IsSubscription)
				assert.Equal(t, "0", a.Deposit)
				assert.Equal(t, repo.StatusBooked, a.Status)
				assert.NotEmpty(t, a.SubscriptionID)
			}
		})
	}
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore()
	seedSubs(t, store,
		repo.Subscription{PitchID: "A", TimeSlot: "18.00", DaysOfWeek: []int{1, 3}},
		repo.Subscription{PitchID: "B", TimeSlot: "00.00", DaysOfWeek: []int{0, 6}},
	)
	svc := newSync(t, store, nil)
	p := rolling(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 28)

	first, err := svc.Run(ctx, p)
	require.NoError(t, err)
	// Jan 1-28 2025: 8 Mon/Wed plus 8 Sat/Sun.
	assert.Equal(t, 16, first.Created)
	assert.Zero(t, first.Skipped)

	before, err := store.ListAllAppointments(ctx)
	require.NoError(t, err)

	second, err := svc.Run(ctx, p)
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Equal(t, 16, second.Skipped)

	after, err := store.ListAllAppointments(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRunSkipsAlreadyBooked(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore()
	manual := repo.Appointment{PitchID: "A", DateString: "15.06.25", TimeSlot: "20.00", CustomerName: "walk-in", Status: repo.StatusBooked}
	id, err := store.CreateAppointment(ctx, manual)
	require.NoError(t, err)
	seedSubs(t, store, repo.Subscription{PitchID: "A", TimeSlot: "20.00", DaysOfWeek: []int{0}, CustomerName: "sub"})

	res, err := newSync(t, store, nil).Run(ctx, rolling(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), 1))
	require.NoError(t, err)
	assert.Zero(t, res.Created)
	assert.Equal(t, 1, res.Skipped)

	got, err := store.GetAppointment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "walk-in", got.CustomerName)
	assert.False(t, got.IsSubscription)
}

func TestRunNoSubscriptions(t *testing.T) {
	_, err := newSync(t, repo.NewMemoryStore(), nil).Run(context.Background(), rolling(t, time.Now(), 7))
	assert.ErrorIs(t, err, ErrNoSubscriptions)
}

// failingStore fails CreateAppointment after ok successful writes.
type failingStore struct {
	*repo.MemoryStore
	ok int
}

var errStoreDown = errors.New("store down")

func (f *failingStore) CreateAppointment(ctx context.Context, a repo.Appointment) (string, error) {
	if f.ok == 0 {
		return "", errStoreDown
	}
	f.ok--
	return f.MemoryStore.CreateAppointment(ctx, a)
}

func TestRunAbortsWithPartialResult(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: repo.NewMemoryStore(), ok: 2}
	seedSubs(t, store, repo.Subscription{PitchID: "A", TimeSlot: "18.00", DaysOfWeek: []int{0, 1, 2, 3, 4, 5, 6}})

	res, err := newSync(t, store, nil).Run(ctx, rolling(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 7))
	require.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 2, res.Created)

	all, err := store.ListAllAppointments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "written bookings are kept")
}

func TestPreviewDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore()
	seedSubs(t, store, repo.Subscription{PitchID: "A", TimeSlot: "18.00", DaysOfWeek: []int{1}})

	res, err := newSync(t, store, nil).Preview(ctx, rolling(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 28))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Created)

	all, err := store.ListAllAppointments(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

type recordingPublisher struct{ subjects []string }

func (p *recordingPublisher) Publish(subject string, data []byte) error {
	p.subjects = append(p.subjects, subject)
	return nil
}

func TestRunAnnouncesWrittenBookings(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore()
	_, err := store.CreateAppointment(ctx, repo.Appointment{PitchID: "A", DateString: "06.01.25", TimeSlot: "18.00", Status: repo.StatusBooked})
	require.NoError(t, err)
	seedSubs(t, store, repo.Subscription{PitchID: "A", TimeSlot: "18.00", DaysOfWeek: []int{1}})

	pub := &recordingPublisher{}
	svc := New(store, nil, pub, Config{Location: time.UTC}).(*synchronizer)
	p := rolling(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), 14)

	res, err := svc.Run(ctx, p)
	require.NoError(t, err)
	require.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Skipped)

	day, err := store.ListAppointments(ctx, "13.01.25")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, []string{"halisaha.appointment.created." + day[0].ID}, pub.subjects)

	_, err = svc.Preview(ctx, p)
	require.NoError(t, err)
	assert.Len(t, pub.subjects, 1, "previews announce nothing")
}

type stubLocker struct {
	err      error
	released bool
}

func (l *stubLocker) Acquire(context.Context, string, time.Duration) (func(context.Context) error, error) {
	if l.err != nil {
		return nil, l.err
	}
	return func(context.Context) error {
		l.released = true
		return nil
	}, nil
}

func TestRunLocking(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore()
	seedSubs(t, store, repo.Subscription{PitchID: "A", TimeSlot: "18.00", DaysOfWeek: []int{1}})
	p := rolling(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), 1)

	held := &stubLocker{err: redispkg.ErrLocked}
	_, err := newSync(t, store, held).Run(ctx, p)
	assert.ErrorIs(t, err, ErrSyncInProgress)

	free := &stubLocker{}
	res, err := newSync(t, store, free).Run(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.True(t, free.released)
}

func TestResolveUsesVenueClock(t *testing.T) {
	svc := newSync(t, repo.NewMemoryStore(), nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 10, 23, 30, 0, 0, time.UTC) }

	p, err := svc.Resolve(schedule.PeriodRequest{Period: "rolling"})
	require.NoError(t, err)
	assert.Len(t, p.Dates, schedule.DefaultRollingDays)
	assert.Equal(t, "10.06.25", schedule.FormatDate(p.Dates[0]))

	month := 1
	p, err = svc.Resolve(schedule.PeriodRequest{Period: "month", Month: &month})
	require.NoError(t, err)
	assert.Len(t, p.Dates, 28)
	assert.Equal(t, "01.02.25", schedule.FormatDate(p.Dates[0]))
}
