package shopping

import (
	"Pantry-Planner/domain"
	"Pantry-Planner/internal/metrics"
	"Pantry-Planner/internal/utils"
	"Pantry-Planner/internal/utils/storage"
	"Pantry-Planner/pkg/pantry"
	"Pantry-Planner/pkg/plan"
	"Pantry-Planner/pkg/recipe"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type (
	ShoppingService interface {
		GetShoppingList(ctx context.Context, query domain.ShoppingListQuery) (domain.ShoppingListResponse, error)
		Purchase(ctx context.Context, req domain.PurchaseRequest) (domain.PurchaseResponse, error)
		Export(ctx context.Context, req domain.ExportRequest) (domain.ExportResponse, error)
	}

	shoppingService struct {
		planService   plan.PlanService
		recipeService recipe.RecipeService
		pantryService pantry.PantryService
		storage       storage.AwsS3
		metrics       *metrics.Metrics
		now           func() time.Time
		location      *time.Location
	}

	ServiceOption func(*shoppingService)
)

// WithStorage enables Export. Without it Export fails with
// domain.ErrExportUnavailable.
func WithStorage(s storage.AwsS3) ServiceOption {
	return func(svc *shoppingService) { svc.storage = s }
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(svc *shoppingService) { svc.metrics = m }
}

func WithClock(now func() time.Time) ServiceOption {
	return func(svc *shoppingService) { svc.now = now }
}

// WithLocation sets the zone "today" is taken in when past days are skipped.
func WithLocation(loc *time.Location) ServiceOption {
	return func(svc *shoppingService) { svc.location = loc }
}

func NewShoppingService(
	planService plan.PlanService,
	recipeService recipe.RecipeService,
	pantryService pantry.PantryService,
	opts ...ServiceOption,
) ShoppingService {
	svc := &shoppingService{
		planService:   planService,
		recipeService: recipeService,
		pantryService: pantryService,
		now:           time.Now,
		location:      time.UTC,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// GetShoppingList returns the rows of Build verbatim together with the
// snapshots they were computed from.
func (s *shoppingService) GetShoppingList(ctx context.Context, query domain.ShoppingListQuery) (domain.ShoppingListResponse, error) {
	weekPlan, err := s.planService.GetWeek(ctx, query.Year, query.Week)
	if err != nil {
		return domain.ShoppingListResponse{}, err
	}
	catalog, recipes, err := s.recipeService.Catalog(ctx)
	if err != nil {
		return domain.ShoppingListResponse{}, err
	}
	stock := s.pantryService.Snapshot()

	items := Build(weekPlan, catalog, stock, BuildOptions{
		SkipPastDays: query.SkipPast,
		Today:        s.now().In(s.location),
	})
	s.metrics.ShoppingListBuilt()

	return domain.ShoppingListResponse{
		Items:   items,
		Plan:    weekPlan,
		Recipes: usedRecipes(weekPlan, catalog, recipes),
		Pantry:  stock,
	}, nil
}

// Purchase accepts only rows whose canonical key and unit are currently
// missing for the week, then merges them into the pantry.
func (s *shoppingService) Purchase(ctx context.Context, req domain.PurchaseRequest) (domain.PurchaseResponse, error) {
	list, err := s.GetShoppingList(ctx, domain.ShoppingListQuery{Year: req.Year, Week: req.Week})
	if err != nil {
		return domain.PurchaseResponse{}, err
	}

	missing := make(map[bucketKey]struct{}, len(list.Items))
	for _, item := range list.Items {
		missing[bucketKey{key: item.Name, unit: item.Unit}] = struct{}{}
	}
	for _, row := range req.Items {
		if _, ok := missing[bucketKey{key: utils.NormalizeName(row.Name), unit: row.Unit}]; !ok {
			return domain.PurchaseResponse{}, fmt.Errorf("%s (%s): %w", row.Name, row.Unit, domain.ErrNotOnShoppingList)
		}
	}

	return s.pantryService.ApplyPurchase(ctx, req.Year, req.Week, req.Items)
}

func (s *shoppingService) Export(ctx context.Context, req domain.ExportRequest) (domain.ExportResponse, error) {
	if s.storage == nil {
		return domain.ExportResponse{}, domain.ErrExportUnavailable
	}

	list, err := s.GetShoppingList(ctx, domain.ShoppingListQuery{
		Year:     req.Year,
		Week:     req.Week,
		SkipPast: req.SkipPast,
	})
	if err != nil {
		return domain.ExportResponse{}, err
	}

	now := s.now().UTC()
	objectKey := fmt.Sprintf("shopping-lists/%04d-W%02d-%s.txt", req.Year, req.Week, now.Format("20060102T150405Z"))
	body := Render(req.Year, req.Week, list.Items)

	key, err := s.storage.UploadBytes(ctx, objectKey, []byte(body), "text/plain; charset=utf-8")
	if err != nil {
		log.Errorw("uploading shopping list", "key", objectKey, "error", err)
		return domain.ExportResponse{}, err
	}

	return domain.ExportResponse{
		URL:   s.storage.GetPublicLinkKey(key),
		Items: len(list.Items),
	}, nil
}

// Render formats a shopping list as plain text, one row per bucket.
func Render(year, week int, items []domain.ShoppingListItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list %04d-W%02d\n\n", year, week)
	if len(items) == 0 {
		b.WriteString("Nothing to buy.\n")
		return b.String()
	}
	for _, item := range items {
		fmt.Fprintf(&b, "- %s: %s %s (need %s, have %s)\n",
			item.Name,
			formatQuantity(item.Missing), item.Unit,
			formatQuantity(item.Required), formatQuantity(item.Have),
		)
	}
	return b.String()
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// usedRecipes returns the catalog entries referenced by the plan, in catalog
// order.
func usedRecipes(weekPlan domain.WeekPlan, catalog domain.RecipeCatalog, recipes []domain.RecipeRef) []domain.RecipeRef {
	used := make(map[string]struct{})
	for _, slots := range weekPlan.Days {
		for _, name := range slots {
			if ref, ok := catalog.Lookup(name); ok {
				used[ref.Name] = struct{}{}
			}
		}
	}
	out := []domain.RecipeRef{}
	for _, ref := range recipes {
		if _, ok := used[ref.Name]; ok {
			out = append(out, ref)
		}
	}
	return out
}
