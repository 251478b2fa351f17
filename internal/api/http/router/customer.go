package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/halisaha_backend/internal/api/http/handler"
)

func (r *Router) registerCustomerRoutes(api fiber.Router, ch *handler.CustomerHandler) {
	customers := api.Group("/customers")

	customers.Get("/", ch.List)
	customers.Post("/", ch.Create)
	customers.Get("/:id", ch.Get)
	customers.Put("/:id", ch.Update)
	customers.Delete("/:id", ch.Delete)
	customers.Get("/:id/whatsapp", ch.WhatsApp)
}
