package recipe

import (
	"Pantry-Planner/domain"
	"Pantry-Planner/entities"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		SaveRecipe(ctx context.Context, req domain.SaveRecipeRequest) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, id string, req domain.SaveRecipeRequest) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, id string) error
		GetRecipes(ctx context.Context, page, limit int) ([]domain.RecipeResponse, int64, error)
		GetRecipeDetail(ctx context.Context, id string) (domain.RecipeResponse, error)
		Catalog(ctx context.Context) (domain.RecipeCatalog, []domain.RecipeRef, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
	}
)

func NewRecipeService(recipeRepository RecipeRepository) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
	}
}

func (s *recipeService) SaveRecipe(ctx context.Context, req domain.SaveRecipeRequest) (domain.RecipeResponse, error) {
	if err := validateRecipe(req); err != nil {
		return domain.RecipeResponse{}, err
	}

	name := cleanName(req.Name)
	if _, err := s.recipeRepository.GetRecipeByName(ctx, name); err == nil {
		return domain.RecipeResponse{}, domain.ErrDuplicateRecipe
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		Name:        name,
		Description: req.Description,
		Servings:    req.Servings,
		Ingredients: toLines(req.Ingredients),
	}
	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		return domain.RecipeResponse{}, err
	}
	return toResponse(recipe), nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id string, req domain.SaveRecipeRequest) (domain.RecipeResponse, error) {
	if err := validateRecipe(req); err != nil {
		return domain.RecipeResponse{}, err
	}

	if err := parseID(id); err != nil {
		return domain.RecipeResponse{}, err
	}
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	name := cleanName(req.Name)
	if other, err := s.recipeRepository.GetRecipeByName(ctx, name); err == nil && other.ID != recipe.ID {
		return domain.RecipeResponse{}, domain.ErrDuplicateRecipe
	}

	recipe.Name = name
	recipe.Description = req.Description
	recipe.Servings = req.Servings
	recipe.Ingredients = toLines(req.Ingredients)

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe); err != nil {
		return domain.RecipeResponse{}, err
	}
	return toResponse(recipe), nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id string) error {
	if err := parseID(id); err != nil {
		return err
	}
	if _, err := s.recipeRepository.GetRecipeByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}
	return s.recipeRepository.DeleteRecipe(ctx, id)
}

func (s *recipeService) GetRecipes(ctx context.Context, page, limit int) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		response = append(response, toResponse(recipe))
	}
	return response, count, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, id string) (domain.RecipeResponse, error) {
	if err := parseID(id); err != nil {
		return domain.RecipeResponse{}, err
	}
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}
	return toResponse(recipe), nil
}

// Catalog loads every recipe for shopping list aggregation.
func (s *recipeService) Catalog(ctx context.Context) (domain.RecipeCatalog, []domain.RecipeRef, error) {
	recipes, err := s.recipeRepository.GetAllRecipes(ctx)
	if err != nil {
		return nil, nil, err
	}

	refs := make([]domain.RecipeRef, 0, len(recipes))
	for _, recipe := range recipes {
		refs = append(refs, toRef(recipe))
	}
	return domain.NewRecipeCatalog(refs), refs, nil
}

func parseID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrParseUUID
	}
	return nil
}

func validateRecipe(req domain.SaveRecipeRequest) error {
	if req.Servings <= 0 {
		return domain.ErrInvalidRecipeServes
	}
	if len(req.Ingredients) == 0 {
		return domain.ErrNoIngredients
	}
	return nil
}

func cleanName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func toLines(lines []domain.RecipeLine) []entities.RecipeIngredient {
	out := make([]entities.RecipeIngredient, 0, len(lines))
	for i, line := range lines {
		out = append(out, entities.RecipeIngredient{
			Position: i,
			Name:     strings.TrimSpace(line.Name),
			Unit:     strings.TrimSpace(line.Unit),
			Quantity: line.Quantity,
		})
	}
	return out
}

func toRef(recipe *entities.Recipe) domain.RecipeRef {
	lines := make([]domain.RecipeLine, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		lines = append(lines, domain.RecipeLine{
			Name:     ing.Name,
			Unit:     ing.Unit,
			Quantity: ing.Quantity,
		})
	}
	return domain.RecipeRef{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Servings:    recipe.Servings,
		Ingredients: lines,
	}
}

func toResponse(recipe *entities.Recipe) domain.RecipeResponse {
	return domain.RecipeResponse{
		RecipeRef:   toRef(recipe),
		Description: recipe.Description,
	}
}
