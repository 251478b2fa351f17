package repo

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store. It enforces the same booked-slot
// uniqueness as the Postgres schema.
type MemoryStore struct {
	mu            sync.RWMutex
	appointments  map[string]Appointment
	customers     map[string]Customer
	subscriptions map[string]Subscription
	now           func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		appointments:  make(map[string]Appointment),
		customers:     make(map[string]Customer),
		subscriptions: make(map[string]Subscription),
		now:           time.Now,
	}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ---------------------------------------------------------------------------
// Appointments
// ---------------------------------------------------------------------------

func (m *MemoryStore) ListAppointments(_ context.Context, dateString string) ([]Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Appointment
	for _, a := range m.appointments {
		if a.DateString == dateString {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TimeSlot < out[j].TimeSlot })
	return out, nil
}

func (m *MemoryStore) ListAllAppointments(_ context.Context) ([]Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Appointment, 0, len(m.appointments))
	for _, a := range m.appointments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetAppointment(_ context.Context, id string) (*Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (m *MemoryStore) CreateAppointment(_ context.Context, a Appointment) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.slotTakenLocked(a, "") {
		return "", ErrDuplicate
	}
	a.ID = newID()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = m.now()
	}
	m.appointments[a.ID] = a
	return a.ID, nil
}

func (m *MemoryStore) UpdateAppointment(_ context.Context, id string, patch AppointmentPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.appointments[id]
	if !ok {
		return ErrNotFound
	}
	patch.Apply(&a)
	if m.slotTakenLocked(a, id) {
		return ErrDuplicate
	}
	m.appointments[id] = a
	return nil
}

func (m *MemoryStore) DeleteAppointment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.appointments[id]; !ok {
		return ErrNotFound
	}
	delete(m.appointments, id)
	return nil
}

func (m *MemoryStore) slotTakenLocked(a Appointment, exceptID string) bool {
	if a.Status != StatusBooked {
		return false
	}
	for id, other := range m.appointments {
		if id == exceptID || other.Status != StatusBooked {
			continue
		}
		if other.PitchID == a.PitchID && other.DateString == a.DateString && other.TimeSlot == a.TimeSlot {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Customers
// ---------------------------------------------------------------------------

func (m *MemoryStore) ListCustomers(_ context.Context) ([]Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Customer, 0, len(m.customers))
	for _, c := range m.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetCustomer(_ context.Context, id string) (*Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *MemoryStore) CreateCustomer(_ context.Context, c Customer) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c.ID = newID()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = m.now()
	}
	m.customers[c.ID] = c
	return c.ID, nil
}

func (m *MemoryStore) UpdateCustomer(_ context.Context, id string, c Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.customers[id]
	if !ok {
		return ErrNotFound
	}
	c.ID = id
	c.CreatedAt = old.CreatedAt
	m.customers[id] = c
	return nil
}

func (m *MemoryStore) DeleteCustomer(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.customers[id]; !ok {
		return ErrNotFound
	}
	delete(m.customers, id)
	return nil
}

// ---------------------------------------------------------------------------
// Subscriptions
// ---------------------------------------------------------------------------

func (m *MemoryStore) ListSubscriptions(_ context.Context) ([]Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Subscription, 0, len(m.subscriptions))
	for _, s := range m.subscriptions {
		out = append(out, cloneSubscription(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetSubscription(_ context.Context, id string) (*Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.subscriptions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s = cloneSubscription(s)
	return &s, nil
}

func (m *MemoryStore) CreateSubscription(_ context.Context, s Subscription) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s = cloneSubscription(s)
	s.ID = newID()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = m.now()
	}
	m.subscriptions[s.ID] = s
	return s.ID, nil
}

func (m *MemoryStore) UpdateSubscription(_ context.Context, id string, s Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.subscriptions[id]
	if !ok {
		return ErrNotFound
	}
	s = cloneSubscription(s)
	s.ID = id
	s.CreatedAt = old.CreatedAt
	m.subscriptions[id] = s
	return nil
}

func (m *MemoryStore) DeleteSubscription(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.subscriptions[id]; !ok {
		return ErrNotFound
	}
	delete(m.subscriptions, id)
	return nil
}

func cloneSubscription(s Subscription) Subscription {
	s.DaysOfWeek = NormalizeSet(slices.Clone(s.DaysOfWeek))
	s.Months = NormalizeSet(slices.Clone(s.Months))
	return s
}
