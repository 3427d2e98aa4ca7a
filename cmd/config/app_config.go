package config

import (
	"Pantry-Planner/internal/api/handlers"
	"Pantry-Planner/internal/api/routes"
	"Pantry-Planner/internal/metrics"
	"Pantry-Planner/internal/middleware"
	"Pantry-Planner/internal/utils"
	"Pantry-Planner/internal/utils/mailing"
	"Pantry-Planner/internal/utils/storage"
	"Pantry-Planner/pkg/alert"
	"Pantry-Planner/pkg/pantry"
	"Pantry-Planner/pkg/plan"
	"Pantry-Planner/pkg/recipe"
	"Pantry-Planner/pkg/shopping"
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// NewApp wires the pantry core and the HTTP surface. Background workers (the
// mail digest and the periodic scan) live until ctx is cancelled.
func NewApp(ctx context.Context, db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate
	location := utils.GetLocation()

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(middlewares.LoggerMiddleware(file, location.String()))
	app.Use(middlewares.RateLimitMiddleware(10, 1*time.Second))

	// core
	alertConfig := utils.GetAlertConfig()
	appMetrics := metrics.New()
	bus := alert.NewBus(alert.WithBusMetrics(appMetrics))
	store := pantry.NewStore(alertConfig, bus, pantry.WithLocation(location))
	buffer := alert.NewBuffer(alertConfig,
		alert.WithScanner(store),
		alert.WithBufferMetrics(appMetrics),
	)
	buffer.Subscribe(bus)

	if mailConfig := mailing.LoadMailConfig(); mailConfig.Enabled() {
		mailer := alert.NewMailer(mailConfig.AlertTo, mailing.SendMail, 0)
		mailer.Subscribe(bus)
		go mailer.Run(ctx)
	}

	scheduler := alert.NewScheduler(store, utils.GetScanInterval())
	scheduler.Start(ctx)

	// utils
	var shoppingOptions []shopping.ServiceOption
	s3, err := storage.NewAwsS3(ctx)
	if err != nil {
		log.Warnw("shopping list export disabled", "error", err)
	} else {
		shoppingOptions = append(shoppingOptions, shopping.WithStorage(s3))
	}
	shoppingOptions = append(shoppingOptions,
		shopping.WithMetrics(appMetrics),
		shopping.WithLocation(location),
	)

	// Repository
	pantryRepository := pantry.NewPantryRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	planRepository := plan.NewPlanRepository(db)

	// Service
	pantryService := pantry.NewPantryService(store, pantryRepository)
	recipeService := recipe.NewRecipeService(recipeRepository)
	planService := plan.NewPlanService(planRepository)
	shoppingService := shopping.NewShoppingService(planService, recipeService, pantryService, shoppingOptions...)

	if err := pantryService.Load(ctx); err != nil {
		return nil, err
	}

	// Handler
	pantryHandler := handlers.NewPantryHandler(pantryService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	planHandler := handlers.NewPlanHandler(planService, validator)
	shoppingHandler := handlers.NewShoppingHandler(shoppingService, validator)
	alertHandler := handlers.NewAlertHandler(buffer, pantryService)

	// routes
	routesConfig := routes.Config{
		App:             app,
		PantryHandler:   pantryHandler,
		RecipeHandler:   recipeHandler,
		PlanHandler:     planHandler,
		ShoppingHandler: shoppingHandler,
		AlertHandler:    alertHandler,
		Middleware:      middlewares,
		Registry:        appMetrics.Registry,
	}
	routesConfig.Setup()
	return app, nil
}
