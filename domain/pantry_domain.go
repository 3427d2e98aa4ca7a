package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessAddIngredient    = "ingredient added successfully"
	MessageSuccessGetIngredients   = "ingredients retrieved successfully"
	MessageSuccessAdjustIngredient = "ingredient quantity updated successfully"
	MessageSuccessDeleteIngredient = "ingredient deleted successfully"
	MessageSuccessApplyPurchase    = "purchase applied to pantry"

	MessageFailedAddIngredient    = "failed to add ingredient"
	MessageFailedGetIngredients   = "failed to retrieve ingredients"
	MessageFailedAdjustIngredient = "failed to update ingredient quantity"
	MessageFailedDeleteIngredient = "failed to delete ingredient"
	MessageFailedApplyPurchase    = "failed to apply purchase"

	ErrDuplicateIngredient = errors.New("ingredient already exists")
	ErrIngredientNotFound  = errors.New("ingredient not found")
	ErrUnitMismatch        = errors.New("unit does not match pantry stock")
	ErrInvalidExpiryDate   = errors.New("invalid expiry date")
	ErrInvalidQuantity     = errors.New("quantity must not be negative")
	ErrEmptyIngredientName = errors.New("ingredient name is empty")
)

const DateLayout = "2006-01-02"

// IngredientRecord is one pantry line. Quantity is never negative; Clamped is
// set when a subtraction had to be cut off at zero.
type IngredientRecord struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Unit       string     `json:"unit"`
	Quantity   float64    `json:"quantity"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	Clamped    bool       `json:"clamped,omitempty"`
}

// Clone returns a deep copy so snapshots never alias store memory.
func (r IngredientRecord) Clone() IngredientRecord {
	out := r
	if r.ExpiryDate != nil {
		d := *r.ExpiryDate
		out.ExpiryDate = &d
	}
	if r.Tags != nil {
		out.Tags = append([]string(nil), r.Tags...)
	}
	return out
}

type (
	AddIngredientRequest struct {
		Name       string   `json:"name" validate:"required"`
		Unit       string   `json:"unit" validate:"required"`
		Quantity   float64  `json:"quantity" validate:"min=0"`
		ExpiryDate string   `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
		Tags       []string `json:"tags"`
	}

	AdjustQuantityRequest struct {
		Delta float64 `json:"delta"`
	}

	IngredientResponse struct {
		IngredientRecord
		Key string `json:"key"`
	}

	PurchaseRow struct {
		Name       string  `json:"name" validate:"required"`
		Unit       string  `json:"unit" validate:"required"`
		Quantity   float64 `json:"quantity" validate:"gt=0"`
		ExpiryDate string  `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	}

	PurchaseResponse struct {
		PurchaseID string             `json:"purchase_id"`
		Items      []IngredientRecord `json:"items"`
	}
)
