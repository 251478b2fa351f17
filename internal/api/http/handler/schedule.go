package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/halisaha_backend/internal/schedule"
)

type ScheduleHandler struct {
	pitches []string
}

func NewScheduleHandler(pitches []string) *ScheduleHandler {
	return &ScheduleHandler{pitches: pitches}
}

// GET /schedule
func (h *ScheduleHandler) Get(c fiber.Ctx) error {
	return ok(c, fiber.Map{
		"pitches":    h.pitches,
		"slots":      schedule.Slots,
		"dateFormat": "DD.MM.YY",
	})
}
