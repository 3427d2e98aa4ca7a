package routes

import (
	"Pantry-Planner/domain"
	"Pantry-Planner/entities"
	"Pantry-Planner/internal/api/handlers"
	"Pantry-Planner/internal/metrics"
	"Pantry-Planner/internal/middleware"
	"Pantry-Planner/internal/utils"
	"Pantry-Planner/pkg/alert"
	"Pantry-Planner/pkg/pantry"
	"Pantry-Planner/pkg/plan"
	"Pantry-Planner/pkg/recipe"
	"Pantry-Planner/pkg/shopping"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var routeNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "app.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.Ingredient{},
		&entities.Recipe{}, &entities.RecipeIngredient{},
		&entities.PlanSlot{},
		&entities.Purchase{}, &entities.PurchaseItem{},
	))

	utils.InitValidator()
	clock := func() time.Time { return routeNow }
	cfg := domain.AlertConfig{
		LowStockThresholds: domain.DefaultLowStockThresholds(),
		ExpiryWindowDays:   3,
		BufferCapacity:     50,
	}
	appMetrics := metrics.New()
	bus := alert.NewBus(alert.WithBusMetrics(appMetrics))
	store := pantry.NewStore(cfg, bus, pantry.WithClock(clock), pantry.WithLocation(time.UTC))
	buffer := alert.NewBuffer(cfg, alert.WithScanner(store), alert.WithBufferMetrics(appMetrics))
	buffer.Subscribe(bus)

	pantryService := pantry.NewPantryService(store, pantry.NewPantryRepository(db))
	recipeService := recipe.NewRecipeService(recipe.NewRecipeRepository(db))
	planService := plan.NewPlanService(plan.NewPlanRepository(db))
	shoppingService := shopping.NewShoppingService(planService, recipeService, pantryService,
		shopping.WithClock(clock),
		shopping.WithMetrics(appMetrics),
	)

	app := fiber.New()
	cfgRoutes := Config{
		App:             app,
		PantryHandler:   handlers.NewPantryHandler(pantryService, utils.Validate),
		RecipeHandler:   handlers.NewRecipeHandler(recipeService, utils.Validate),
		PlanHandler:     handlers.NewPlanHandler(planService, utils.Validate),
		ShoppingHandler: handlers.NewShoppingHandler(shoppingService, utils.Validate),
		AlertHandler:    handlers.NewAlertHandler(buffer, pantryService),
		Middleware:      middleware.NewMiddleware(),
		Registry:        appMetrics.Registry,
	}
	cfgRoutes.Setup()
	return app
}

func do(t *testing.T, app *fiber.App, method, target string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env
}

func TestPing(t *testing.T) {
	app := newTestApp(t)
	status, _ := do(t, app, http.MethodGet, "/api/ping", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestPantryRoutes(t *testing.T) {
	app := newTestApp(t)

	status, env := do(t, app, http.MethodPost, "/api/v1/pantry", domain.AddIngredientRequest{
		Name: "Chicken Breasts", Unit: "g", Quantity: 300,
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	assert.True(t, env.Status)

	status, env = do(t, app, http.MethodPost, "/api/v1/pantry", domain.AddIngredientRequest{
		Name: "chicken breast", Unit: "g", Quantity: 1,
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, env.Status)
	assert.Equal(t, domain.ErrDuplicateIngredient.Error(), env.Error)

	status, _ = do(t, app, http.MethodPost, "/api/v1/pantry", map[string]any{"unit": "g"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = do(t, app, http.MethodPatch, "/api/v1/pantry/chicken%20breast/quantity", domain.AdjustQuantityRequest{Delta: -250})
	require.Equal(t, http.StatusOK, status, env.Error)
	var rec domain.IngredientResponse
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Equal(t, 50.0, rec.Quantity)
	assert.Equal(t, "chicken breast", rec.Key)

	status, _ = do(t, app, http.MethodGet, "/api/v1/pantry/saffron", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodDelete, "/api/v1/pantry/Chicken%20Breasts", nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = do(t, app, http.MethodGet, "/api/v1/pantry", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestShoppingListFlow(t *testing.T) {
	app := newTestApp(t)

	status, env := do(t, app, http.MethodPost, "/api/v1/recipes", domain.SaveRecipeRequest{
		Name:        "Chicken Curry",
		Servings:    4,
		Ingredients: []domain.RecipeLine{{Name: "chicken breast", Unit: "g", Quantity: 500}},
	})
	require.Equal(t, http.StatusCreated, status, env.Error)

	status, env = do(t, app, http.MethodPut, "/api/v1/plans/2026/11/monday/lunch", domain.SetSlotRequest{Recipe: "Chicken Curry"})
	require.Equal(t, http.StatusOK, status, env.Error)

	status, env = do(t, app, http.MethodPost, "/api/v1/pantry", domain.AddIngredientRequest{Name: "chicken breast", Unit: "g", Quantity: 300})
	require.Equal(t, http.StatusCreated, status, env.Error)

	status, env = do(t, app, http.MethodGet, "/api/v1/shopping-list?year=2026&week=11", nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	var list domain.ShoppingListResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, []domain.ShoppingListItem{
		{Name: "chicken breast", Unit: "g", Required: 500, Have: 300, Missing: 200},
	}, list.Items)

	status, _ = do(t, app, http.MethodGet, "/api/v1/shopping-list?year=2026", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = do(t, app, http.MethodPost, "/api/v1/shopping-list/purchase", domain.PurchaseRequest{
		Year: 2026, Week: 11,
		Items: []domain.PurchaseRow{{Name: "chicken breast", Unit: "g", Quantity: 200}},
	})
	require.Equal(t, http.StatusCreated, status, env.Error)

	status, env = do(t, app, http.MethodGet, "/api/v1/shopping-list?year=2026&week=11", nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list.Items)

	status, _ = do(t, app, http.MethodPost, "/api/v1/shopping-list/export", domain.ExportRequest{Year: 2026, Week: 11})
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, _ = do(t, app, http.MethodDelete, "/api/v1/plans/2026/11/monday/dinner", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAlertRoutes(t *testing.T) {
	app := newTestApp(t)

	status, env := do(t, app, http.MethodGet, "/api/v1/alerts", nil)
	require.Equal(t, http.StatusOK, status)
	var poll domain.PollAlertsResponse
	require.NoError(t, json.Unmarshal(env.Data, &poll))
	assert.Empty(t, poll.Events)
	assert.Equal(t, int64(0), poll.NextCursor)

	status, _ = do(t, app, http.MethodPost, "/api/v1/pantry", domain.AddIngredientRequest{
		Name: "flour", Unit: "g", Quantity: 80, ExpiryDate: "2026-03-12",
	})
	require.Equal(t, http.StatusCreated, status)

	status, env = do(t, app, http.MethodGet, "/api/v1/alerts?since=0", nil)
	require.Equal(t, http.StatusOK, status)
	var raw struct {
		Events     []map[string]any `json:"events"`
		NextCursor int64            `json:"next_cursor"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &raw))
	require.Len(t, raw.Events, 2)
	assert.Equal(t, "pantry.low_stock", raw.Events[0]["type"])
	assert.Equal(t, float64(1), raw.Events[0]["id"])
	assert.Equal(t, "pantry.near_expiry", raw.Events[1]["type"])
	assert.Equal(t, float64(2), raw.Events[1]["days_left"])
	assert.Equal(t, int64(2), raw.NextCursor)

	status, env = do(t, app, http.MethodGet, "/api/v1/alerts?since=2", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &raw))
	assert.Empty(t, raw.Events)
	assert.Equal(t, int64(2), raw.NextCursor)

	status, _ = do(t, app, http.MethodGet, "/api/v1/alerts?since=abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = do(t, app, http.MethodPost, "/api/v1/alerts/scan", nil)
	require.Equal(t, http.StatusOK, status)
	var scan struct {
		Expiring []map[string]any `json:"expiring"`
		Alerts   []map[string]any `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &scan))
	require.Len(t, scan.Expiring, 1)
	assert.Equal(t, "pantry.expiring_snapshot", scan.Expiring[0]["type"])
	assert.Len(t, scan.Alerts, 2)
}

func TestMetricsRoute(t *testing.T) {
	app := newTestApp(t)
	_, _ = do(t, app, http.MethodGet, "/api/v1/shopping-list?year=2026&week=11", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "pantry_shopping_list_builds_total 1")
}
