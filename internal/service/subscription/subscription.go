package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/Alijeyrad/halisaha_backend/internal/repo"
	"github.com/Alijeyrad/halisaha_backend/internal/schedule"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// Request is the full body of a subscription on create and update. Active
// defaults to true when omitted.
type Request struct {
	PitchID       string `json:"pitchId"`
	TimeSlot      string `json:"timeSlot"`
	CustomerID    string `json:"customerId"`
	DaysOfWeek    []int  `json:"daysOfWeek"`
	Months        []int  `json:"months"`
	Active        *bool  `json:"active"`
	DepositAmount string `json:"depositAmount"`
	DepositDate   string `json:"depositDate"`
}

// BookingCanceller removes bookings materialized from a subscription.
type BookingCanceller interface {
	CancelFutureForSubscription(ctx context.Context, sub repo.Subscription, from time.Time) (int, error)
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context) ([]repo.Subscription, error)
	Get(ctx context.Context, id string) (*repo.Subscription, error)
	Create(ctx context.Context, req Request) (*repo.Subscription, error)
	// Update replaces the rule. An empty weekday set returns ErrEmptyDays
	// and writes nothing; the caller confirms and calls Delete.
	Update(ctx context.Context, id string, req Request) (*repo.Subscription, error)
	// Delete removes the rule. With a non-nil cascadeFrom, bookings it
	// produced on or after that day are cancelled first and counted.
	Delete(ctx context.Context, id string, cascadeFrom *time.Time) (int, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type subscriptionService struct {
	store    repo.Store
	pitches  []string
	bookings BookingCanceller
}

func New(store repo.Store, pitches []string, bookings BookingCanceller) Service {
	return &subscriptionService{store: store, pitches: pitches, bookings: bookings}
}

func (s *subscriptionService) List(ctx context.Context) ([]repo.Subscription, error) {
	subs, err := s.store.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	slices.SortStableFunc(subs, func(a, b repo.Subscription) int {
		if c := strings.Compare(a.PitchID, b.PitchID); c != 0 {
			return c
		}
		return schedule.SlotIndex(a.TimeSlot) - schedule.SlotIndex(b.TimeSlot)
	})
	return subs, nil
}

func (s *subscriptionService) Get(ctx context.Context, id string) (*repo.Subscription, error) {
	sub, err := s.store.GetSubscription(ctx, id)
	if repo.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return sub, nil
}

func (s *subscriptionService) Create(ctx context.Context, req Request) (*repo.Subscription, error) {
	sub, err := s.prepare(ctx, req, "")
	if err != nil {
		return nil, err
	}

	id, err := s.store.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	slog.InfoContext(ctx, "subscription created",
		"id", id, "pitch_id", sub.PitchID, "slot", sub.TimeSlot, "days", sub.DaysOfWeek, "months", sub.Months)
	return s.Get(ctx, id)
}

func (s *subscriptionService) Update(ctx context.Context, id string, req Request) (*repo.Subscription, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	sub, err := s.prepare(ctx, req, id)
	if err != nil {
		return nil, err
	}

	err = s.store.UpdateSubscription(ctx, id, sub)
	if repo.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update subscription: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *subscriptionService) Delete(ctx context.Context, id string, cascadeFrom *time.Time) (int, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	if cascadeFrom != nil && s.bookings != nil {
		cancelled, err = s.bookings.CancelFutureForSubscription(ctx, *sub, *cascadeFrom)
		if err != nil {
			return cancelled, fmt.Errorf("cancel subscription bookings: %w", err)
		}
	}

	err = s.store.DeleteSubscription(ctx, id)
	if repo.IsNotFound(err) {
		return cancelled, ErrNotFound
	}
	if err != nil {
		return cancelled, fmt.Errorf("delete subscription: %w", err)
	}
	slog.InfoContext(ctx, "subscription deleted", "id", id, "cancelled_bookings", cancelled)
	return cancelled, nil
}

// prepare validates req, resolves the customer and runs the conflict check
// against the current rules, skipping exceptID.
func (s *subscriptionService) prepare(ctx context.Context, req Request, exceptID string) (repo.Subscription, error) {
	sub := repo.Subscription{
		PitchID:       strings.TrimSpace(req.PitchID),
		TimeSlot:      strings.TrimSpace(req.TimeSlot),
		CustomerID:    strings.TrimSpace(req.CustomerID),
		DaysOfWeek:    repo.NormalizeSet(req.DaysOfWeek),
		Months:        repo.NormalizeSet(req.Months),
		Active:        req.Active == nil || *req.Active,
		DepositAmount: strings.TrimSpace(req.DepositAmount),
		DepositDate:   strings.TrimSpace(req.DepositDate),
	}
	if err := s.validate(sub); err != nil {
		return sub, err
	}

	customer, err := s.store.GetCustomer(ctx, sub.CustomerID)
	if repo.IsNotFound(err) || sub.CustomerID == "" {
		return sub, ErrCustomerNotFound
	}
	if err != nil {
		return sub, fmt.Errorf("get customer: %w", err)
	}
	sub.CustomerName = customer.Name
	sub.CustomerPhone = customer.Phone

	if !sub.Active {
		return sub, nil
	}
	existing, err := s.store.ListSubscriptions(ctx)
	if err != nil {
		return sub, fmt.Errorf("list subscriptions: %w", err)
	}
	if other, ok := Conflicts(sub, existing, exceptID); ok {
		return sub, &ConflictError{Existing: other}
	}
	return sub, nil
}

func (s *subscriptionService) validate(sub repo.Subscription) error {
	if !slices.Contains(s.pitches, sub.PitchID) {
		return ErrInvalidPitch
	}
	if !schedule.IsSlot(sub.TimeSlot) {
		return ErrInvalidSlot
	}
	if len(sub.DaysOfWeek) == 0 {
		return ErrEmptyDays
	}
	for _, d := range sub.DaysOfWeek {
		if d < 0 || d > 6 {
			return ErrInvalidDay
		}
	}
	for _, m := range sub.Months {
		if m < 0 || m > 11 {
			return ErrInvalidMonth
		}
	}
	return nil
}
