package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/halisaha_backend/internal/api/http/handler"
)

func (r *Router) registerReportRoutes(api fiber.Router, rh *handler.ReportHandler) {
	reports := api.Group("/reports")

	reports.Get("/summary", rh.Summary)
	reports.Get("/monthly", rh.Monthly)
}
