package domain

import "errors"

var (
	MessageSuccessGetShoppingList = "shopping list retrieved successfully"
	MessageSuccessPurchase        = "purchase recorded successfully"
	MessageSuccessExport          = "shopping list exported successfully"

	MessageFailedGetShoppingList = "failed to build shopping list"
	MessageFailedPurchase        = "failed to record purchase"
	MessageFailedExport          = "failed to export shopping list"

	ErrExportUnavailable = errors.New("shopping list export is not configured")
	ErrNotOnShoppingList = errors.New("purchased item is not on the shopping list")
)

// ShoppingListItem is one aggregation bucket with a shortage. Name is the
// canonical key.
type ShoppingListItem struct {
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Required float64 `json:"required"`
	Have     float64 `json:"have"`
	Missing  float64 `json:"missing"`
}

type (
	ShoppingListQuery struct {
		Year     int  `query:"year" validate:"required,gt=0"`
		Week     int  `query:"week" validate:"required,min=1,max=53"`
		SkipPast bool `query:"skip_past"`
	}

	ShoppingListResponse struct {
		Items   []ShoppingListItem `json:"items"`
		Plan    WeekPlan           `json:"plan"`
		Recipes []RecipeRef        `json:"recipes"`
		Pantry  []IngredientRecord `json:"pantry"`
	}

	PurchaseRequest struct {
		Year  int           `json:"year" validate:"required,gt=0"`
		Week  int           `json:"week" validate:"required,min=1,max=53"`
		Items []PurchaseRow `json:"items" validate:"required,min=1,dive"`
	}

	ExportRequest struct {
		Year     int  `json:"year" validate:"required,gt=0"`
		Week     int  `json:"week" validate:"required,min=1,max=53"`
		SkipPast bool `json:"skip_past"`
	}

	ExportResponse struct {
		URL   string `json:"url"`
		Items int    `json:"items"`
	}
)
