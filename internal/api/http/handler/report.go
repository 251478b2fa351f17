package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/halisaha_backend/internal/service/report"
)

type ReportHandler struct {
	svc report.Service
	loc *time.Location
}

func NewReportHandler(svc report.Service, loc *time.Location) *ReportHandler {
	return &ReportHandler{svc: svc, loc: loc}
}

func mapReportError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, report.ErrInvalidMonth):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}

// GET /reports/summary
func (h *ReportHandler) Summary(c fiber.Ctx) error {
	s, err := h.svc.Summary(c.Context())
	if err != nil {
		return mapReportError(c, err)
	}

	return ok(c, s)
}

// GET /reports/monthly?year=&month=
func (h *ReportHandler) Monthly(c fiber.Ctx) error {
	now := time.Now().In(h.loc)
	year, month := now.Year(), int(now.Month())

	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "invalid year")
		}
		year = v
	}
	if raw := c.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "invalid month")
		}
		month = v
	}

	m, err := h.svc.Monthly(c.Context(), year, month)
	if err != nil {
		return mapReportError(c, err)
	}

	return ok(c, m)
}
