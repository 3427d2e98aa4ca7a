package domain

import (
	"errors"
	"strings"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessSaveRecipe      = "recipe saved successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedSaveRecipe      = "failed to save recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"

	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrDuplicateRecipe     = errors.New("recipe with this name already exists")
	ErrNoIngredients       = errors.New("recipe has no ingredients")
	ErrInvalidRecipeServes = errors.New("servings must be positive")
)

type (
	// RecipeLine is one ingredient line of a recipe. Quantity is already
	// scaled to the recipe's serving count.
	RecipeLine struct {
		Name     string  `json:"name" validate:"required"`
		Unit     string  `json:"unit" validate:"required"`
		Quantity float64 `json:"quantity" validate:"gt=0"`
	}

	// RecipeRef is the view of a recipe consumed by shopping list aggregation.
	RecipeRef struct {
		ID          string       `json:"id"`
		Name        string       `json:"name"`
		Servings    int          `json:"servings"`
		Ingredients []RecipeLine `json:"ingredients"`
	}

	SaveRecipeRequest struct {
		Name        string       `json:"name" validate:"required"`
		Description string       `json:"description"`
		Servings    int          `json:"servings" validate:"required,gt=0"`
		Ingredients []RecipeLine `json:"ingredients" validate:"required,min=1,dive"`
	}

	RecipeResponse struct {
		RecipeRef
		Description string `json:"description,omitempty"`
	}
)

// RecipeCatalog indexes recipes by case-folded, trimmed name.
type RecipeCatalog map[string]RecipeRef

// NewRecipeCatalog builds a catalog. Later recipes with a colliding name win.
func NewRecipeCatalog(recipes []RecipeRef) RecipeCatalog {
	catalog := make(RecipeCatalog, len(recipes))
	for _, r := range recipes {
		catalog[recipeKey(r.Name)] = r
	}
	return catalog
}

// Lookup resolves a plan slot's recipe name.
func (c RecipeCatalog) Lookup(name string) (RecipeRef, bool) {
	r, ok := c[recipeKey(name)]
	return r, ok
}

func recipeKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
