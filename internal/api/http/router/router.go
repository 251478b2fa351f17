package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/halisaha_backend/config"
	"github.com/Alijeyrad/halisaha_backend/internal/api/http/handler"
	"github.com/Alijeyrad/halisaha_backend/internal/service/appointment"
	"github.com/Alijeyrad/halisaha_backend/internal/service/customer"
	"github.com/Alijeyrad/halisaha_backend/internal/service/report"
	"github.com/Alijeyrad/halisaha_backend/internal/service/subscription"
	"github.com/Alijeyrad/halisaha_backend/internal/service/synchronizer"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg             *config.Config
	Redis           *redis.Client `optional:"true"`
	AppointmentSvc  appointment.Service
	CustomerSvc     customer.Service
	SubscriptionSvc subscription.Service
	SyncSvc         synchronizer.Service
	ReportSvc       report.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	r.registerSystemRoutes(app)

	loc := r.p.Cfg.Venue.Loc()

	appointmentH := handler.NewAppointmentHandler(r.p.AppointmentSvc)
	customerH := handler.NewCustomerHandler(r.p.CustomerSvc)
	subscriptionH := handler.NewSubscriptionHandler(r.p.SubscriptionSvc, r.p.SyncSvc, loc)
	reportH := handler.NewReportHandler(r.p.ReportSvc, loc)
	scheduleH := handler.NewScheduleHandler(r.p.Cfg.Venue.Pitches)

	api := app.Group("/api/v1")

	r.registerAppointmentRoutes(api, appointmentH)
	r.registerCustomerRoutes(api, customerH)
	r.registerSubscriptionRoutes(api, subscriptionH)
	r.registerReportRoutes(api, reportH)
	api.Get("/schedule", scheduleH.Get)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return r.redisHealthy(c.Context()) },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}

// redisHealthy is true without Redis configured; the service then runs
// without the sync lock and with the in-process limiter.
func (r *Router) redisHealthy(ctx context.Context) bool {
	if r.p.Redis == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.p.Redis.Ping(ctx).Err() == nil
}
