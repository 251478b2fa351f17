package app

import (
	"go.uber.org/fx"

	"github.com/Alijeyrad/halisaha_backend/config"
	"github.com/Alijeyrad/halisaha_backend/internal/repo"
	"github.com/Alijeyrad/halisaha_backend/internal/service/appointment"
	"github.com/Alijeyrad/halisaha_backend/internal/service/buzzer"
	"github.com/Alijeyrad/halisaha_backend/internal/service/customer"
	"github.com/Alijeyrad/halisaha_backend/internal/service/report"
	"github.com/Alijeyrad/halisaha_backend/internal/service/subscription"
	"github.com/Alijeyrad/halisaha_backend/internal/service/synchronizer"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideAppointmentService,
		ProvideCustomerService,
		ProvideSubscriptionService,
		ProvideSynchronizer,
		ProvideReportService,
		ProvideBuzzerScheduler,
	),
)

func ProvideAppointmentService(store repo.Store, cfg *config.Config, pub appointment.Publisher) appointment.Service {
	return appointment.New(store, cfg.Venue.Pitches, cfg.Venue.Loc(), pub)
}

func ProvideCustomerService(store repo.Store, cfg *config.Config) customer.Service {
	return customer.New(store, cfg.Venue.PhoneRegion)
}

// The appointment service doubles as the booking canceller for the
// subscription delete cascade.
func ProvideSubscriptionService(store repo.Store, cfg *config.Config, bookings appointment.Service) subscription.Service {
	return subscription.New(store, cfg.Venue.Pitches, bookings)
}

// Sync shares the booking publisher so materialized bookings get bells.
func ProvideSynchronizer(store repo.Store, cfg *config.Config, locker synchronizer.Locker, pub appointment.Publisher) synchronizer.Service {
	return synchronizer.New(store, locker, pub, synchronizer.Config{
		Location:    cfg.Venue.Loc(),
		RollingDays: cfg.Sync.RollingDays,
		LockTTL:     cfg.Sync.LockTTL(),
	})
}

func ProvideReportService(store repo.Store, cfg *config.Config) report.Service {
	return report.New(store, len(cfg.Venue.Pitches), cfg.Venue.HourlyPrice, cfg.Venue.Loc())
}

func ProvideBuzzerScheduler() *buzzer.Scheduler {
	return buzzer.NewScheduler(buzzer.LogRinger{})
}
