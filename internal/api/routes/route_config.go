package routes

import (
	"Pantry-Planner/internal/api/handlers"
	"Pantry-Planner/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	App             *fiber.App
	PantryHandler   handlers.PantryHandler
	RecipeHandler   handlers.RecipeHandler
	PlanHandler     handlers.PlanHandler
	ShoppingHandler handlers.ShoppingHandler
	AlertHandler    handlers.AlertHandler
	Middleware      middleware.Middleware
	Registry        *prometheus.Registry
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Pantry()
	c.Recipes()
	c.Plans()
	c.ShoppingList()
	c.Alerts()
	c.Metrics()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) Pantry() {
	pantry := c.App.Group("/api/v1/pantry")
	{
		pantry.Post("", c.PantryHandler.AddIngredient)
		pantry.Get("", c.PantryHandler.GetIngredients)
		pantry.Get("/:name", c.PantryHandler.GetIngredient)
		pantry.Delete("/:name", c.PantryHandler.RemoveIngredient)
		pantry.Patch("/:name/quantity", c.PantryHandler.AdjustQuantity)
	}
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes")
	{
		recipes.Post("", c.RecipeHandler.SaveRecipe)
		recipes.Get("", c.RecipeHandler.GetRecipes)
		recipes.Get("/:id", c.RecipeHandler.GetRecipeDetail)
		recipes.Put("/:id", c.RecipeHandler.UpdateRecipe)
		recipes.Delete("/:id", c.RecipeHandler.DeleteRecipe)
	}
}

func (c *Config) Plans() {
	plans := c.App.Group("/api/v1/plans")
	{
		plans.Get("/:year/:week", c.PlanHandler.GetWeek)
		plans.Put("/:year/:week/:day/:slot", c.PlanHandler.SetSlot)
		plans.Delete("/:year/:week/:day/:slot", c.PlanHandler.ClearSlot)
	}
}

func (c *Config) ShoppingList() {
	shopping := c.App.Group("/api/v1/shopping-list")
	{
		shopping.Get("", c.ShoppingHandler.GetShoppingList)
		shopping.Post("/purchase", c.ShoppingHandler.Purchase)
		shopping.Post("/export", c.ShoppingHandler.Export)
	}
}

func (c *Config) Alerts() {
	alerts := c.App.Group("/api/v1/alerts")
	{
		alerts.Get("", c.AlertHandler.PollAlerts)
		alerts.Post("/scan", c.AlertHandler.Scan)
	}
}

func (c *Config) Metrics() {
	if c.Registry == nil {
		return
	}
	c.App.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})))
}
