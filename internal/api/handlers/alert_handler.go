package handlers

import (
	"Pantry-Planner/domain"
	"Pantry-Planner/internal/api/presenters"
	"Pantry-Planner/pkg/alert"
	"Pantry-Planner/pkg/pantry"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type (
	AlertHandler interface {
		PollAlerts(c *fiber.Ctx) error
		Scan(c *fiber.Ctx) error
	}

	alertHandler struct {
		buffer        *alert.Buffer
		pantryService pantry.PantryService
	}
)

func NewAlertHandler(buffer *alert.Buffer, pantryService pantry.PantryService) AlertHandler {
	return &alertHandler{
		buffer:        buffer,
		pantryService: pantryService,
	}
}

// PollAlerts returns alerts newer than ?since (default 0) together with the
// cursor for the next call. The {events, next_cursor} pair is the data field
// of the usual {status, message, data} envelope.
func (h *alertHandler) PollAlerts(c *fiber.Ctx) error {
	since := int64(0)
	if raw := c.Query("since"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedQueryParam, err)
		}
		since = parsed
	}

	events, cursor := h.buffer.Poll(c.UserContext(), since)
	return presenters.SuccessResponse(c, domain.PollAlertsResponse{
		Events:     events,
		NextCursor: cursor,
	}, fiber.StatusOK, domain.MessageSuccessPollAlerts)
}

func (h *alertHandler) Scan(c *fiber.Ctx) error {
	res := h.pantryService.Scan(c.UserContext())
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessScan)
}
