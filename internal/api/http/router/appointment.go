package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/halisaha_backend/internal/api/http/handler"
)

func (r *Router) registerAppointmentRoutes(api fiber.Router, ah *handler.AppointmentHandler) {
	appointments := api.Group("/appointments")

	appointments.Get("/", ah.ListByDate)
	appointments.Get("/all", ah.ListAll)
	appointments.Get("/:id", ah.Get)
	appointments.Post("/", ah.Book)
	appointments.Put("/:id", ah.Update)
	appointments.Delete("/:id", ah.Cancel)
}
