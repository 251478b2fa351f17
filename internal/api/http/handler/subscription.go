package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/halisaha_backend/internal/schedule"
	"github.com/Alijeyrad/halisaha_backend/internal/service/subscription"
	"github.com/Alijeyrad/halisaha_backend/internal/service/synchronizer"
)

type SubscriptionHandler struct {
	svc  subscription.Service
	sync synchronizer.Service
	loc  *time.Location
}

func NewSubscriptionHandler(svc subscription.Service, sync synchronizer.Service, loc *time.Location) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc, sync: sync, loc: loc}
}

func mapSubscriptionError(c fiber.Ctx, err error) error {
	var clash *subscription.ConflictError
	switch {
	case errors.As(err, &clash):
		return conflictWith(c, err.Error(), "conflict", clash.Existing)
	case errors.Is(err, subscription.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, subscription.ErrCustomerNotFound):
		return badRequest(c, err.Error())
	case errors.Is(err, subscription.ErrEmptyDays):
		return conflict(c, err.Error())
	case errors.Is(err, subscription.ErrInvalidPitch),
		errors.Is(err, subscription.ErrInvalidSlot),
		errors.Is(err, subscription.ErrInvalidDay),
		errors.Is(err, subscription.ErrInvalidMonth):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}

func mapSyncError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, synchronizer.ErrSyncInProgress):
		return conflict(c, err.Error())
	case errors.Is(err, synchronizer.ErrNoSubscriptions):
		return badRequest(c, err.Error())
	case errors.Is(err, schedule.ErrInvalidPeriod),
		errors.Is(err, schedule.ErrInvalidDays),
		errors.Is(err, schedule.ErrInvalidMonth):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}

// ---------------------------------------------------------------------------
// Rules
// ---------------------------------------------------------------------------

// GET /subscriptions
func (h *SubscriptionHandler) List(c fiber.Ctx) error {
	list, err := h.svc.List(c.Context())
	if err != nil {
		return mapSubscriptionError(c, err)
	}

	return ok(c, list)
}

// GET /subscriptions/:id
func (h *SubscriptionHandler) Get(c fiber.Ctx) error {
	sub, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapSubscriptionError(c, err)
	}

	return ok(c, sub)
}

// POST /subscriptions
func (h *SubscriptionHandler) Create(c fiber.Ctx) error {
	var body subscription.Request
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	sub, err := h.svc.Create(c.Context(), body)
	if err != nil {
		return mapSubscriptionError(c, err)
	}

	return created(c, sub)
}

// PUT /subscriptions/:id
func (h *SubscriptionHandler) Update(c fiber.Ctx) error {
	var body subscription.Request
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	sub, err := h.svc.Update(c.Context(), c.Params("id"), body)
	if err != nil {
		return mapSubscriptionError(c, err)
	}

	return ok(c, sub)
}

// DELETE /subscriptions/:id?cascade_from=DD.MM.YY
func (h *SubscriptionHandler) Delete(c fiber.Ctx) error {
	var from *time.Time
	if raw := c.Query("cascade_from"); raw != "" {
		d, err := schedule.ParseDate(raw, h.loc)
		if err != nil {
			return badRequest(c, "cascade_from must be formatted as DD.MM.YY")
		}
		from = &d
	}

	n, err := h.svc.Delete(c.Context(), c.Params("id"), from)
	if err != nil {
		return mapSubscriptionError(c, err)
	}

	return ok(c, fiber.Map{"cancelled": n})
}

// ---------------------------------------------------------------------------
// Sync
// ---------------------------------------------------------------------------

// POST /subscriptions/sync
func (h *SubscriptionHandler) Sync(c fiber.Ctx) error {
	var body schedule.PeriodRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&body); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	p, err := h.sync.Resolve(body)
	if err != nil {
		return mapSyncError(c, err)
	}

	var res synchronizer.Result
	if dry, _ := strconv.ParseBool(c.Query("dry_run")); dry {
		res, err = h.sync.Preview(c.Context(), p)
	} else {
		res, err = h.sync.Run(c.Context(), p)
	}
	if err != nil {
		return mapSyncError(c, err)
	}

	return ok(c, res)
}
