package main

import (
	"Pantry-Planner/cmd/config"
	migration "Pantry-Planner/cmd/database/migrate"
	"Pantry-Planner/internal/utils"
	"context"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("connecting database: %v", err)
	}
	if err := migration.Migrate(db); err != nil {
		log.Fatalf("migrating database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := config.NewApp(ctx, db)
	if err != nil {
		log.Fatalf("starting app: %v", err)
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorw("shutting down server", "error", err)
		}
	}()

	if err := app.Listen(":" + utils.GetConfig("APP_PORT")); err != nil {
		log.Fatalf("listening: %v", err)
	}
}
