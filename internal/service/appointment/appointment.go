package appointment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/Alijeyrad/halisaha_backend/internal/repo"
	"github.com/Alijeyrad/halisaha_backend/internal/schedule"
	"github.com/Alijeyrad/halisaha_backend/pkg/constants"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type BookRequest struct {
	PitchID        string `json:"pitchId"`
	CustomerName   string `json:"customerName"`
	PhoneNumber    string `json:"phoneNumber"`
	TimeSlot       string `json:"timeSlot"`
	DateString     string `json:"dateString"`
	Deposit        string `json:"deposit"`
	IsSubscription bool   `json:"isSubscription"`
}

// UpdateRequest is a partial edit. Nil fields are left unchanged.
type UpdateRequest = repo.AppointmentPatch

// Publisher is the slice of *nats.Conn the service needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	ListByDate(ctx context.Context, dateString string) ([]repo.Appointment, error)
	ListAll(ctx context.Context) ([]repo.Appointment, error)
	Get(ctx context.Context, id string) (*repo.Appointment, error)
	Book(ctx context.Context, req BookRequest) (*repo.Appointment, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*repo.Appointment, error)
	Cancel(ctx context.Context, id string) error

	// CancelFutureForSubscription deletes the bookings materialized from sub
	// dated on or after from. It stops at the first failed delete and
	// reports how many were removed before it.
	CancelFutureForSubscription(ctx context.Context, sub repo.Subscription, from time.Time) (int, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type appointmentService struct {
	store   repo.Store
	pitches []string
	loc     *time.Location
	pub     Publisher
}

// New builds the service. pub may be nil, in which case no events are sent.
func New(store repo.Store, pitches []string, loc *time.Location, pub Publisher) Service {
	if loc == nil {
		loc = time.Local
	}
	return &appointmentService{store: store, pitches: pitches, loc: loc, pub: pub}
}

func (s *appointmentService) ListByDate(ctx context.Context, dateString string) ([]repo.Appointment, error) {
	if _, err := schedule.ParseDate(dateString, s.loc); err != nil {
		return nil, ErrInvalidDate
	}
	list, err := s.store.ListAppointments(ctx, dateString)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	SortBySlot(list)
	return list, nil
}

func (s *appointmentService) ListAll(ctx context.Context) ([]repo.Appointment, error) {
	list, err := s.store.ListAllAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all appointments: %w", err)
	}
	return list, nil
}

func (s *appointmentService) Get(ctx context.Context, id string) (*repo.Appointment, error) {
	a, err := s.store.GetAppointment(ctx, id)
	if repo.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

func (s *appointmentService) Book(ctx context.Context, req BookRequest) (*repo.Appointment, error) {
	a := repo.Appointment{
		PitchID:        strings.TrimSpace(req.PitchID),
		CustomerName:   strings.TrimSpace(req.CustomerName),
		PhoneNumber:    strings.TrimSpace(req.PhoneNumber),
		TimeSlot:       strings.TrimSpace(req.TimeSlot),
		DateString:     strings.TrimSpace(req.DateString),
		Deposit:        strings.TrimSpace(req.Deposit),
		IsSubscription: req.IsSubscription,
		Status:         repo.StatusBooked,
	}
	if err := s.validate(a); err != nil {
		return nil, err
	}
	if err := s.checkFree(ctx, a, ""); err != nil {
		return nil, err
	}

	id, err := s.store.CreateAppointment(ctx, a)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, s.takenError(ctx, a)
	}
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	created, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload appointment: %w", err)
	}
	s.publish(constants.SubjectAppointmentCreated, id)
	slog.InfoContext(ctx, "appointment booked",
		"id", id, "pitch_id", a.PitchID, "date", a.DateString, "slot", a.TimeSlot)
	return created, nil
}

func (s *appointmentService) Update(ctx context.Context, id string, req UpdateRequest) (*repo.Appointment, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.PitchID = trimmed(req.PitchID)
	req.CustomerName = trimmed(req.CustomerName)
	req.PhoneNumber = trimmed(req.PhoneNumber)
	req.TimeSlot = trimmed(req.TimeSlot)
	req.DateString = trimmed(req.DateString)
	req.Deposit = trimmed(req.Deposit)

	next := *current
	req.Apply(&next)
	if err := s.validate(next); err != nil {
		return nil, err
	}

	moved := next.PitchID != current.PitchID ||
		next.DateString != current.DateString ||
		next.TimeSlot != current.TimeSlot ||
		next.Status != current.Status
	if moved && next.Status == repo.StatusBooked {
		if err := s.checkFree(ctx, next, id); err != nil {
			return nil, err
		}
	}

	err = s.store.UpdateAppointment(ctx, id, req)
	switch {
	case errors.Is(err, repo.ErrDuplicate):
		return nil, s.takenError(ctx, next)
	case repo.IsNotFound(err):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	// Listeners replan bells on created; a booking that stopped being
	// booked is withdrawn.
	if moved {
		if next.Status == repo.StatusBooked {
			s.publish(constants.SubjectAppointmentCreated, id)
		} else {
			s.publish(constants.SubjectAppointmentCancelled, id)
		}
		slog.InfoContext(ctx, "appointment moved",
			"id", id, "pitch_id", next.PitchID, "date", next.DateString, "slot", next.TimeSlot, "status", next.Status)
	}
	return s.Get(ctx, id)
}

func (s *appointmentService) Cancel(ctx context.Context, id string) error {
	err := s.store.DeleteAppointment(ctx, id)
	if repo.IsNotFound(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	s.publish(constants.SubjectAppointmentCancelled, id)
	slog.InfoContext(ctx, "appointment cancelled", "id", id)
	return nil
}

func (s *appointmentService) CancelFutureForSubscription(ctx context.Context, sub repo.Subscription, from time.Time) (int, error) {
	all, err := s.store.ListAllAppointments(ctx)
	if err != nil {
		return 0, fmt.Errorf("list appointments: %w", err)
	}
	from = schedule.DayStart(from.In(s.loc))

	deleted := 0
	for _, a := range all {
		if !materializedFrom(a, sub) {
			continue
		}
		d, err := schedule.ParseDate(a.DateString, s.loc)
		if err != nil || d.Before(from) {
			continue
		}
		if err := s.store.DeleteAppointment(ctx, a.ID); err != nil && !repo.IsNotFound(err) {
			return deleted, fmt.Errorf("delete appointment %s: %w", a.ID, err)
		}
		deleted++
		s.publish(constants.SubjectAppointmentCancelled, a.ID)
	}

	slog.InfoContext(ctx, "subscription bookings cancelled",
		"subscription_id", sub.ID, "from", schedule.FormatDate(from), "count", deleted)
	return deleted, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// SortBySlot orders appointments by their position in the daily schedule.
// 00.00 comes last.
func SortBySlot(list []repo.Appointment) {
	slices.SortStableFunc(list, func(a, b repo.Appointment) int {
		if d := schedule.SlotIndex(a.TimeSlot) - schedule.SlotIndex(b.TimeSlot); d != 0 {
			return d
		}
		return strings.Compare(a.PitchID, b.PitchID)
	})
}

// materializedFrom matches bookings written by the synchronizer for sub.
// Older bookings carry no subscriptionId and are matched on their slot and
// customer instead.
func materializedFrom(a repo.Appointment, sub repo.Subscription) bool {
	if a.SubscriptionID != "" {
		return a.SubscriptionID == sub.ID
	}
	return a.IsSubscription &&
		a.PitchID == sub.PitchID &&
		a.TimeSlot == sub.TimeSlot &&
		a.CustomerName == sub.CustomerName
}

func (s *appointmentService) validate(a repo.Appointment) error {
	if !slices.Contains(s.pitches, a.PitchID) {
		return ErrInvalidPitch
	}
	if !schedule.IsSlot(a.TimeSlot) {
		return ErrInvalidSlot
	}
	if _, err := schedule.ParseDate(a.DateString, s.loc); err != nil {
		return ErrInvalidDate
	}
	if a.CustomerName == "" {
		return ErrMissingName
	}
	if a.Status != repo.StatusBooked && a.Status != repo.StatusCancelled {
		return ErrInvalidStatus
	}
	return nil
}

// checkFree is a best-effort pre-read; the store's unique slot rule is the
// final word.
func (s *appointmentService) checkFree(ctx context.Context, a repo.Appointment, exceptID string) error {
	existing, err := s.store.ListAppointments(ctx, a.DateString)
	if err != nil {
		return fmt.Errorf("list appointments: %w", err)
	}
	for _, e := range existing {
		if e.ID == exceptID || e.Status != repo.StatusBooked {
			continue
		}
		if e.PitchID == a.PitchID && e.TimeSlot == a.TimeSlot {
			return &SlotTakenError{Existing: e}
		}
	}
	return nil
}

func (s *appointmentService) takenError(ctx context.Context, a repo.Appointment) error {
	if err := s.checkFree(ctx, a, ""); err != nil {
		return err
	}
	return ErrSlotTaken
}

func (s *appointmentService) publish(subject, id string) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(subject+"."+id, []byte(id)); err != nil {
		slog.Warn("appointment: publish failed", "subject", subject, "id", id, "err", err)
	}
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}
