// Package repo is the document store boundary. Records are kept as JSON
// documents whose keys match the venue's existing data, so they round-trip
// unchanged between this service and older clients.
package repo

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a write would create a second booked
	// appointment for the same pitch, date and slot.
	ErrDuplicate = errors.New("slot already has a booked appointment")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

type AppointmentStatus string

const (
	StatusBooked    AppointmentStatus = "booked"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is one booking of a pitch for one hour on one date.
type Appointment struct {
	ID             string            `json:"id,omitempty"`
	PitchID        string            `json:"pitchId"`
	CustomerName   string            `json:"customerName"`
	PhoneNumber    string            `json:"phoneNumber"`
	TimeSlot       string            `json:"timeSlot"`
	DateString     string            `json:"dateString"`
	Status         AppointmentStatus `json:"status"`
	Deposit        string            `json:"deposit,omitempty"`
	IsSubscription bool              `json:"isSubscription,omitempty"`
	SubscriptionID string            `json:"subscriptionId,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// AppointmentPatch carries the fields of a partial update. Nil means unchanged.
type AppointmentPatch struct {
	PitchID        *string            `json:"pitchId,omitempty"`
	CustomerName   *string            `json:"customerName,omitempty"`
	PhoneNumber    *string            `json:"phoneNumber,omitempty"`
	TimeSlot       *string            `json:"timeSlot,omitempty"`
	DateString     *string            `json:"dateString,omitempty"`
	Status         *AppointmentStatus `json:"status,omitempty"`
	Deposit        *string            `json:"deposit,omitempty"`
	IsSubscription *bool              `json:"isSubscription,omitempty"`
}

func (p AppointmentPatch) Apply(a *Appointment) {
	if p.PitchID != nil {
		a.PitchID = *p.PitchID
	}
	if p.CustomerName != nil {
		a.CustomerName = *p.CustomerName
	}
	if p.PhoneNumber != nil {
		a.PhoneNumber = *p.PhoneNumber
	}
	if p.TimeSlot != nil {
		a.TimeSlot = *p.TimeSlot
	}
	if p.DateString != nil {
		a.DateString = *p.DateString
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Deposit != nil {
		a.Deposit = *p.Deposit
	}
	if p.IsSubscription != nil {
		a.IsSubscription = *p.IsSubscription
	}
}

type Customer struct {
	ID            string    `json:"id,omitempty"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	IsSubscriber  bool      `json:"isSubscriber,omitempty"`
	DepositAmount string    `json:"depositAmount,omitempty"`
	DepositDate   string    `json:"depositDate,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Subscription is a weekly recurring booking rule. An empty Months set means
// the rule applies in every month.
type Subscription struct {
	ID            string    `json:"id,omitempty"`
	PitchID       string    `json:"pitchId"`
	TimeSlot      string    `json:"timeSlot"`
	CustomerID    string    `json:"customerId"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	DaysOfWeek    []int     `json:"daysOfWeek"`
	Months        []int     `json:"months,omitempty"`
	Active        bool      `json:"active"`
	DepositAmount string    `json:"depositAmount,omitempty"`
	DepositDate   string    `json:"depositDate,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// IsGeneral reports whether the rule has no month restriction.
func (s Subscription) IsGeneral() bool { return len(s.Months) == 0 }

// Store is the document store contract the services are written against.
type Store interface {
	ListAppointments(ctx context.Context, dateString string) ([]Appointment, error)
	ListAllAppointments(ctx context.Context) ([]Appointment, error)
	GetAppointment(ctx context.Context, id string) (*Appointment, error)
	CreateAppointment(ctx context.Context, a Appointment) (string, error)
	UpdateAppointment(ctx context.Context, id string, patch AppointmentPatch) error
	DeleteAppointment(ctx context.Context, id string) error

	ListCustomers(ctx context.Context) ([]Customer, error)
	GetCustomer(ctx context.Context, id string) (*Customer, error)
	CreateCustomer(ctx context.Context, c Customer) (string, error)
	UpdateCustomer(ctx context.Context, id string, c Customer) error
	DeleteCustomer(ctx context.Context, id string) error

	ListSubscriptions(ctx context.Context) ([]Subscription, error)
	GetSubscription(ctx context.Context, id string) (*Subscription, error)
	CreateSubscription(ctx context.Context, s Subscription) (string, error)
	UpdateSubscription(ctx context.Context, id string, s Subscription) error
	DeleteSubscription(ctx context.Context, id string) error
}
