package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/dealheat/dealheat-go/internal/middleware"
	"github.com/dealheat/dealheat-go/internal/model"
	"github.com/dealheat/dealheat-go/internal/service"
)

type DealHandler struct {
	svc *service.DealService
}

func NewDealHandler(svc *service.DealService) *DealHandler {
	return &DealHandler{svc: svc}
}

// Get handles GET /api/deals/:dealId
func (h *DealHandler) Get(c fiber.Ctx) error {
	dealID, errMsg := middleware.ParseDealID(c.Params("dealId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.svc.Get(c.Context(), dealID)
	if err != nil {
		if errors.Is(err, model.ErrDealNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Deal not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch deal")
	}

	return c.JSON(resp)
}

// Freeze handles POST /api/deals/:dealId/freeze
func (h *DealHandler) Freeze(c fiber.Ctx) error {
	return h.setFrozen(c, true)
}

// Unfreeze handles DELETE /api/deals/:dealId/freeze
func (h *DealHandler) Unfreeze(c fiber.Ctx) error {
	return h.setFrozen(c, false)
}

func (h *DealHandler) setFrozen(c fiber.Ctx, frozen bool) error {
	dealID, errMsg := middleware.ParseDealID(c.Params("dealId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.svc.SetFrozen(c.Context(), dealID, frozen); err != nil {
		if errors.Is(err, model.ErrDealNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Deal not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update freeze flag")
	}

	return c.JSON(fiber.Map{"dealId": dealID, "votingFrozen": frozen})
}
