package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/dealheat/dealheat-go/internal/middleware"
	"github.com/dealheat/dealheat-go/internal/model"
	"github.com/dealheat/dealheat-go/internal/service"
)

type VoteHandler struct {
	svc *service.VoteService
}

func NewVoteHandler(svc *service.VoteService) *VoteHandler {
	return &VoteHandler{svc: svc}
}

// Submit handles POST /api/deals/:dealId/vote
func (h *VoteHandler) Submit(c fiber.Ctx) error {
	dealID, errMsg := middleware.ParseDealID(c.Params("dealId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	userID, errMsg := middleware.CallerID(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.VoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	direction, errMsg := middleware.ValidateDirection(req.Direction)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.svc.Cast(c.Context(), dealID, userID, direction)
	if err != nil {
		if errors.Is(err, model.ErrDealNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Deal not found")
		}
		if model.IsForbidden(err) {
			return middleware.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", forbiddenMessage(err))
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to cast vote")
	}

	return c.JSON(resp)
}

// Status handles GET /api/deals/:dealId/vote/status
func (h *VoteHandler) Status(c fiber.Ctx) error {
	dealID, errMsg := middleware.ParseDealID(c.Params("dealId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	userID, errMsg := middleware.CallerID(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.svc.Status(c.Context(), dealID, userID)
	if err != nil {
		if errors.Is(err, model.ErrDealNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Deal not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to look up vote status")
	}

	return c.JSON(resp)
}

// forbiddenMessage maps domain forbidden errors to client-facing text without
// leaking internals.
func forbiddenMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrVotingFrozen):
		return "Voting is frozen for this deal"
	case errors.Is(err, model.ErrCooldownActive):
		return "Direction change is still in cooldown"
	default:
		return "Forbidden"
	}
}
