package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/halisaha_backend/internal/service/appointment"
)

type AppointmentHandler struct {
	svc appointment.Service
}

func NewAppointmentHandler(svc appointment.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

func mapAppointmentError(c fiber.Ctx, err error) error {
	var taken *appointment.SlotTakenError
	switch {
	case errors.As(err, &taken):
		return conflictWith(c, err.Error(), "conflict", taken.Existing)
	case errors.Is(err, appointment.ErrSlotTaken):
		return conflict(c, err.Error())
	case errors.Is(err, appointment.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, appointment.ErrInvalidPitch),
		errors.Is(err, appointment.ErrInvalidSlot),
		errors.Is(err, appointment.ErrInvalidDate),
		errors.Is(err, appointment.ErrMissingName),
		errors.Is(err, appointment.ErrInvalidStatus):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}

// GET /appointments?date=DD.MM.YY
func (h *AppointmentHandler) ListByDate(c fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return badRequest(c, "date is required")
	}

	list, err := h.svc.ListByDate(c.Context(), date)
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return ok(c, list)
}

// GET /appointments/all
func (h *AppointmentHandler) ListAll(c fiber.Ctx) error {
	list, err := h.svc.ListAll(c.Context())
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return ok(c, list)
}

// GET /appointments/:id
func (h *AppointmentHandler) Get(c fiber.Ctx) error {
	a, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return ok(c, a)
}

// POST /appointments
func (h *AppointmentHandler) Book(c fiber.Ctx) error {
	var body appointment.BookRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	a, err := h.svc.Book(c.Context(), body)
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return created(c, a)
}

// PUT /appointments/:id
func (h *AppointmentHandler) Update(c fiber.Ctx) error {
	var body appointment.UpdateRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	a, err := h.svc.Update(c.Context(), c.Params("id"), body)
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return ok(c, a)
}

// DELETE /appointments/:id
func (h *AppointmentHandler) Cancel(c fiber.Ctx) error {
	if err := h.svc.Cancel(c.Context(), c.Params("id")); err != nil {
		return mapAppointmentError(c, err)
	}

	return noContent(c)
}
