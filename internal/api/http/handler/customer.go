package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/halisaha_backend/internal/service/customer"
)

type CustomerHandler struct {
	svc customer.Service
}

func NewCustomerHandler(svc customer.Service) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

func mapCustomerError(c fiber.Ctx, err error) error {
	var dup *customer.DuplicateError
	switch {
	case errors.As(err, &dup):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":    err.Error(),
			"field":    dup.Field,
			"conflict": dup.Existing,
		})
	case errors.Is(err, customer.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, customer.ErrMissingName),
		errors.Is(err, customer.ErrMissingPhone),
		errors.Is(err, customer.ErrInvalidPhone):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}

// GET /customers?q=
func (h *CustomerHandler) List(c fiber.Ctx) error {
	list, err := h.svc.List(c.Context(), c.Query("q"))
	if err != nil {
		return mapCustomerError(c, err)
	}

	return ok(c, list)
}

// GET /customers/:id
func (h *CustomerHandler) Get(c fiber.Ctx) error {
	cust, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapCustomerError(c, err)
	}

	return ok(c, cust)
}

// POST /customers
func (h *CustomerHandler) Create(c fiber.Ctx) error {
	var body customer.Request
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	cust, err := h.svc.Create(c.Context(), body)
	if err != nil {
		return mapCustomerError(c, err)
	}

	return created(c, cust)
}

// PUT /customers/:id
func (h *CustomerHandler) Update(c fiber.Ctx) error {
	var body customer.Request
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	cust, err := h.svc.Update(c.Context(), c.Params("id"), body)
	if err != nil {
		return mapCustomerError(c, err)
	}

	return ok(c, cust)
}

// DELETE /customers/:id
func (h *CustomerHandler) Delete(c fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), c.Params("id")); err != nil {
		return mapCustomerError(c, err)
	}

	return noContent(c)
}

// GET /customers/:id/whatsapp?message=
func (h *CustomerHandler) WhatsApp(c fiber.Ctx) error {
	link, err := h.svc.WhatsAppLink(c.Context(), c.Params("id"), c.Query("message"))
	if err != nil {
		return mapCustomerError(c, err)
	}

	return ok(c, fiber.Map{"url": link})
}
