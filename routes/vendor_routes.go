package routes

import (
	"procurement-app/config"
	"procurement-app/controllers"
	"procurement-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupVendorRoutes(app *fiber.App, db *gorm.DB) {

	api := app.Group(config.MAIN_ROUTES+"/vendors", middleware.AuthMiddleware)
	vendorController := controllers.NewVendorController(db)

	api.Post("/", middleware.RequireProcurement(), vendorController.CreateVendor)
	api.Get("/", vendorController.GetVendors)
	api.Get("/:id", vendorController.GetVendorByID)
	api.Put("/:id", middleware.RequireProcurement(), vendorController.UpdateVendor)
	api.Delete("/:id", middleware.RequireProcurement(), vendorController.DeleteVendor)
}
