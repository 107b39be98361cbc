package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/dealheat/dealheat-go/internal/middleware"
	"github.com/dealheat/dealheat-go/internal/service"
)

type AnalyticsHandler struct {
	svc *service.AnalyticsService
}

func NewAnalyticsHandler(svc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Get handles GET /api/analytics
func (h *AnalyticsHandler) Get(c fiber.Ctx) error {
	resp, err := h.svc.Get(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute analytics")
	}
	return c.JSON(resp)
}
