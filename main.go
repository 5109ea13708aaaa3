package main

import (
	"log"

	"procurement-app/config"
	"procurement-app/controllers/idgen"
	"procurement-app/database"
	"procurement-app/logger"
	"procurement-app/metrics"
	"procurement-app/middleware"
	"procurement-app/routes"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {

	config.LoadConfig()

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       config.LogLevel,
		Environment: config.APP_ENV,
		ServiceName: "procurement-app",
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.GetLogger().Sync()

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	database.RunSeeders(db)

	app := fiber.New()

	httpMetrics := metrics.NewHTTPMetrics("procurement-app")
	app.Use(middleware.RequestIDMiddleware())
	app.Use(logger.Middleware())
	app.Use(httpMetrics.Middleware())

	config.SetupCORS(app)

	routes.SetupAuthRoutes(app, db)
	routes.SetupRequisitionRoutes(app, db)
	routes.SetupOrderRoutes(app, db)
	routes.SetupInventoryRoutes(app, db)
	routes.SetupVendorRoutes(app, db)
	routes.SetupCategoryRoutes(app, db)

	app.Get("/metrics", metrics.Handler())

	zap.L().Info("starting server", zap.String("port", config.APP_PORT))
	if err := app.Listen(":" + config.APP_PORT); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
