package presenters

import (
	"Pantry-Planner/domain"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data interface{}, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return c.Status(statusCode).JSON(res)
}

// StatusFor maps service errors onto HTTP status codes. Unknown errors are
// reported as 500.
func StatusFor(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &validationErrs):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrIngredientNotFound),
		errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrSlotNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateIngredient),
		errors.Is(err, domain.ErrDuplicateRecipe),
		errors.Is(err, domain.ErrUnitMismatch):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidExpiryDate),
		errors.Is(err, domain.ErrEmptyIngredientName),
		errors.Is(err, domain.ErrNoIngredients),
		errors.Is(err, domain.ErrInvalidRecipeServes),
		errors.Is(err, domain.ErrInvalidWeek),
		errors.Is(err, domain.ErrInvalidDay),
		errors.Is(err, domain.ErrInvalidSlot),
		errors.Is(err, domain.ErrNotOnShoppingList),
		errors.Is(err, domain.ErrParseUUID):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrExportUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
