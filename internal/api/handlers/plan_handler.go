package handlers

import (
	"Pantry-Planner/domain"
	"Pantry-Planner/internal/api/presenters"
	"Pantry-Planner/pkg/plan"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	PlanHandler interface {
		GetWeek(c *fiber.Ctx) error
		SetSlot(c *fiber.Ctx) error
		ClearSlot(c *fiber.Ctx) error
	}

	planHandler struct {
		planService plan.PlanService
		validator   *validator.Validate
	}
)

func NewPlanHandler(planService plan.PlanService, validator *validator.Validate) PlanHandler {
	return &planHandler{
		planService: planService,
		validator:   validator,
	}
}

func (h *planHandler) GetWeek(c *fiber.Ctx) error {
	year, week, err := weekParams(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetPlan, err)
	}

	res, err := h.planService.GetWeekResponse(c.UserContext(), year, week)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedGetPlan, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetPlan)
}

func (h *planHandler) SetSlot(c *fiber.Ctx) error {
	year, week, err := weekParams(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSetSlot, err)
	}

	req := new(domain.SetSlotRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSetSlot, err)
	}

	res, err := h.planService.SetSlot(c.UserContext(), year, week, c.Params("day"), c.Params("slot"), req.Recipe)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedSetSlot, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSetSlot)
}

func (h *planHandler) ClearSlot(c *fiber.Ctx) error {
	year, week, err := weekParams(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedClearSlot, err)
	}

	if err := h.planService.ClearSlot(c.UserContext(), year, week, c.Params("day"), c.Params("slot")); err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedClearSlot, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessClearSlot)
}

func weekParams(c *fiber.Ctx) (int, int, error) {
	year, err := c.ParamsInt("year")
	if err != nil {
		return 0, 0, domain.ErrInvalidWeek
	}
	week, err := c.ParamsInt("week")
	if err != nil {
		return 0, 0, domain.ErrInvalidWeek
	}
	return year, week, nil
}
