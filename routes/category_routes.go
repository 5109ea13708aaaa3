package routes

import (
	"procurement-app/config"
	"procurement-app/controllers"
	"procurement-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupCategoryRoutes(app *fiber.App, db *gorm.DB) {

	api := app.Group(config.MAIN_ROUTES+"/categories", middleware.AuthMiddleware)
	categoryController := controllers.NewCategoryController(db)

	api.Post("/", middleware.RequireProcurement(), categoryController.CreateCategory)
	api.Get("/", categoryController.GetCategories)
	api.Put("/:id", middleware.RequireProcurement(), categoryController.UpdateCategory)
	api.Delete("/:id", middleware.RequireProcurement(), categoryController.DeleteCategory)
}
