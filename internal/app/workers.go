package app

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/Alijeyrad/halisaha_backend/config"
	"github.com/Alijeyrad/halisaha_backend/internal/repo"
	"github.com/Alijeyrad/halisaha_backend/internal/schedule"
	"github.com/Alijeyrad/halisaha_backend/internal/service/buzzer"
	"github.com/Alijeyrad/halisaha_backend/pkg/constants"
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc        fx.Lifecycle
	Cfg       *config.Config
	NC        *nats.Conn `optional:"true"`
	Store     repo.Store
	Scheduler *buzzer.Scheduler
}

func RegisterWorkers(p WorkerParams) {
	w := &buzzerWorker{
		store:     p.Store,
		scheduler: p.Scheduler,
		settings:  buzzerSettings(p.Cfg.Buzzer),
		loc:       p.Cfg.Venue.Loc(),
		now:       time.Now,
	}

	var subs []*nats.Subscription
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			w.primeToday(ctx)
			w.primeDaily()
			if p.NC == nil {
				slog.Warn("buzzer_worker: nats not configured; bells come from the daily scan only")
				return nil
			}
			subs = w.start(p.NC)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			for _, s := range subs {
				_ = s.Unsubscribe()
			}
			w.stopDaily()
			p.Scheduler.Stop()
			return nil
		},
	})
}

func buzzerSettings(c config.BuzzerConfig) buzzer.Settings {
	return buzzer.Settings{
		StartEnabled:   c.StartEnabled,
		WarningEnabled: c.WarningEnabled,
		EndEnabled:     c.EndEnabled,
		WarningLead:    time.Duration(c.WarningLeadMinutes) * time.Minute,
	}
}

// ---------------------------------------------------------------------------
// buzzer_worker
// ---------------------------------------------------------------------------

type buzzerWorker struct {
	store     repo.Store
	scheduler *buzzer.Scheduler
	settings  buzzer.Settings
	loc       *time.Location
	now       func() time.Time

	mu      sync.Mutex
	daily   *time.Timer
	stopped bool
}

func (w *buzzerWorker) start(nc *nats.Conn) []*nats.Subscription {
	var subs []*nats.Subscription

	created, err := nc.Subscribe(constants.SubjectAppointmentCreated+".*", func(msg *nats.Msg) {
		id := strings.TrimSpace(string(msg.Data))
		if id == "" {
			return
		}
		ctx := context.Background()

		appt, err := w.store.GetAppointment(ctx, id)
		if err != nil {
			slog.Warn("buzzer_worker: appointment not found", "id", id, "err", err)
			return
		}
		w.arm(*appt)
	})
	if err != nil {
		slog.Error("buzzer_worker: subscribe appointment.created failed", "err", err)
	} else {
		subs = append(subs, created)
	}

	cancelled, err := nc.Subscribe(constants.SubjectAppointmentCancelled+".*", func(msg *nats.Msg) {
		id := strings.TrimSpace(string(msg.Data))
		if id == "" {
			return
		}
		w.scheduler.Cancel(id)
		slog.Debug("buzzer_worker: bells cancelled", "appointment_id", id)
	})
	if err != nil {
		slog.Error("buzzer_worker: subscribe appointment.cancelled failed", "err", err)
	} else {
		subs = append(subs, cancelled)
	}

	slog.Info("buzzer_worker: started")
	return subs
}

// primeToday arms the bells of today's bookings. It covers bookings made
// while this process was down or while NATS was unreachable.
func (w *buzzerWorker) primeToday(ctx context.Context) {
	today := schedule.FormatDate(w.now().In(w.loc))
	list, err := w.store.ListAppointments(ctx, today)
	if err != nil {
		slog.Warn("buzzer_worker: loading today's bookings failed", "date", today, "err", err)
		return
	}
	for _, a := range list {
		w.arm(a)
	}
}

// primeDaily re-runs primeToday at every venue midnight until stopDaily.
func (w *buzzerWorker) primeDaily() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	d := nextMidnight(w.now(), w.loc).Sub(w.now())
	w.daily = time.AfterFunc(d, func() {
		w.primeToday(context.Background())
		w.primeDaily()
	})
}

func (w *buzzerWorker) stopDaily() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	if w.daily != nil {
		w.daily.Stop()
	}
}

// nextMidnight is the start of the venue day after now.
func nextMidnight(now time.Time, loc *time.Location) time.Time {
	n := now.In(loc)
	return time.Date(n.Year(), n.Month(), n.Day()+1, 0, 0, 0, 0, loc)
}

func (w *buzzerWorker) arm(a repo.Appointment) {
	if a.Status != repo.StatusBooked {
		return
	}
	bells := buzzer.Plan(a, w.settings, w.loc, w.now())
	n := w.scheduler.Schedule(a.ID, bells)
	slog.Debug("buzzer_worker: bells armed",
		"appointment_id", a.ID,
		"pitch_id", a.PitchID,
		"date", a.DateString,
		"slot", a.TimeSlot,
		"count", n,
	)
}
