package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/halisaha_backend/internal/api/http/handler"
)

func (r *Router) registerSubscriptionRoutes(api fiber.Router, sh *handler.SubscriptionHandler) {
	subs := api.Group("/subscriptions")

	subs.Post("/sync", sh.Sync)

	subs.Get("/", sh.List)
	subs.Post("/", sh.Create)
	subs.Get("/:id", sh.Get)
	subs.Put("/:id", sh.Update)
	subs.Delete("/:id", sh.Delete)
}
