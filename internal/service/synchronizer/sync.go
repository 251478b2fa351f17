// Package synchronizer expands recurring subscription rules into dated
// appointments over a period.
package synchronizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Alijeyrad/halisaha_backend/internal/repo"
	"github.com/Alijeyrad/halisaha_backend/internal/schedule"
	"github.com/Alijeyrad/halisaha_backend/pkg/constants"
	redispkg "github.com/Alijeyrad/halisaha_backend/pkg/redis"
)

const (
	lockName            = "subscription-sync"
	meterName           = "github.com/Alijeyrad/halisaha_backend/internal/service/synchronizer"
	subscriptionDeposit = "0"
)

// Locker guards a run against a concurrent one. *redis.Locker implements it.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, error)
}

// Publisher announces written bookings. *nats.Conn implements it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// DateResult is the outcome for one venue day that had matching rules.
type DateResult struct {
	Date    string `json:"date"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
}

type Result struct {
	Created int          `json:"created"`
	Skipped int          `json:"skipped"`
	Dates   []DateResult `json:"dates"`
}

type Config struct {
	Location    *time.Location
	RollingDays int
	LockTTL     time.Duration
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// Resolve turns a period request into dates relative to the current day
	// in the venue's time zone.
	Resolve(req schedule.PeriodRequest) (schedule.Period, error)
	// Run materializes one booking per matching (rule, date) pair whose
	// pitch and slot are still free on that date. Writes happen one at a
	// time. On failure the partial result is returned with the error;
	// bookings already written stay.
	Run(ctx context.Context, p schedule.Period) (Result, error)
	// Preview computes what Run would create without writing.
	Preview(ctx context.Context, p schedule.Period) (Result, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type synchronizer struct {
	store  repo.Store
	locker Locker
	pub    Publisher
	cfg    Config
	now    func() time.Time

	created metric.Int64Counter
	skipped metric.Int64Counter
}

// New builds the synchronizer. locker may be nil, which leaves concurrent
// runs uncoordinated apart from the store's unique slot rule. pub may be nil,
// in which case written bookings are not announced.
func New(store repo.Store, locker Locker, pub Publisher, cfg Config) Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.RollingDays <= 0 {
		cfg.RollingDays = schedule.DefaultRollingDays
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 5 * time.Minute
	}

	meter := otel.Meter(meterName)
	created, _ := meter.Int64Counter("halisaha_sync_appointments_created",
		metric.WithDescription("Appointments materialized from subscriptions"),
		metric.WithUnit("{appointment}"))
	skipped, _ := meter.Int64Counter("halisaha_sync_slots_skipped",
		metric.WithDescription("Matching slots skipped because they were already booked"),
		metric.WithUnit("{slot}"))

	return &synchronizer{
		store:   store,
		locker:  locker,
		pub:     pub,
		cfg:     cfg,
		now:     time.Now,
		created: created,
		skipped: skipped,
	}
}

func (s *synchronizer) Resolve(req schedule.PeriodRequest) (schedule.Period, error) {
	return req.Resolve(s.now().In(s.cfg.Location), s.cfg.RollingDays)
}

func (s *synchronizer) Run(ctx context.Context, p schedule.Period) (Result, error) {
	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, lockName, s.cfg.LockTTL)
		if errors.Is(err, redispkg.ErrLocked) {
			return Result{}, ErrSyncInProgress
		}
		if err != nil {
			return Result{}, err
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				slog.WarnContext(ctx, "sync: release lock failed", "err", err)
			}
		}()
	}

	res, err := s.run(ctx, p, true)
	attrs := metric.WithAttributes(attribute.String("period", string(p.Kind)))
	s.created.Add(ctx, int64(res.Created), attrs)
	s.skipped.Add(ctx, int64(res.Skipped), attrs)

	if err != nil {
		slog.ErrorContext(ctx, "sync aborted", "period", p.Kind, "created", res.Created, "err", err)
		return res, err
	}
	slog.InfoContext(ctx, "sync finished", "period", p.Kind, "dates", len(p.Dates),
		"created", res.Created, "skipped", res.Skipped)
	return res, nil
}

func (s *synchronizer) Preview(ctx context.Context, p schedule.Period) (Result, error) {
	return s.run(ctx, p, false)
}

type slotKey struct {
	pitch string
	slot  string
}

func (s *synchronizer) run(ctx context.Context, p schedule.Period, write bool) (Result, error) {
	res := Result{Dates: []DateResult{}}

	// One snapshot per run; edits made meanwhile show up next time.
	subs, err := s.store.ListSubscriptions(ctx)
	if err != nil {
		return res, fmt.Errorf("list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return res, ErrNoSubscriptions
	}

	for _, d := range p.Dates {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		selected := schedule.Select(subs, d)
		if len(selected) == 0 {
			continue
		}

		date := schedule.FormatDate(d)
		existing, err := s.store.ListAppointments(ctx, date)
		if err != nil {
			return res, fmt.Errorf("list appointments %s: %w", date, err)
		}
		taken := make(map[slotKey]struct{}, len(existing))
		for _, a := range existing {
			taken[slotKey{a.PitchID, a.TimeSlot}] = struct{}{}
		}

		dr := DateResult{Date: date}
		for _, sub := range selected {
			key := slotKey{sub.PitchID, sub.TimeSlot}
			if _, ok := taken[key]; ok {
				dr.Skipped++
				continue
			}

			if write {
				id, err := s.store.CreateAppointment(ctx, materialize(sub, date))
				if errors.Is(err, repo.ErrDuplicate) {
					// Booked by someone else since the read above.
					taken[key] = struct{}{}
					dr.Skipped++
					continue
				}
				if err != nil {
					res.add(dr)
					return res, fmt.Errorf("create appointment %s %s %s: %w", sub.PitchID, date, sub.TimeSlot, err)
				}
				s.publishCreated(ctx, id)
			}
			taken[key] = struct{}{}
			dr.Created++
		}
		res.add(dr)
	}
	return res, nil
}

func (s *synchronizer) publishCreated(ctx context.Context, id string) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(constants.SubjectAppointmentCreated+"."+id, []byte(id)); err != nil {
		slog.WarnContext(ctx, "sync: publish failed", "id", id, "err", err)
	}
}

func (r *Result) add(dr DateResult) {
	r.Created += dr.Created
	r.Skipped += dr.Skipped
	r.Dates = append(r.Dates, dr)
}

func materialize(sub repo.Subscription, date string) repo.Appointment {
	return repo.Appointment{
		PitchID:        sub.PitchID,
		TimeSlot:       sub.TimeSlot,
		DateString:     date,
		CustomerName:   sub.CustomerName,
		PhoneNumber:    sub.CustomerPhone,
		Status:         repo.StatusBooked,
		IsSubscription: true,
		Deposit:        subscriptionDeposit,
		SubscriptionID: sub.ID,
	}
}
