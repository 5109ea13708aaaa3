package routes

import (
	"procurement-app/config"
	"procurement-app/controllers"
	"procurement-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {

	api := app.Group(config.MAIN_ROUTES + "/auth")
	authController := controllers.NewAuthController(db)

	api.Post("/register", authController.Register)
	api.Post("/login", authController.Login)
	api.Get("/me", middleware.AuthMiddleware, authController.Me)
}
