package routes

import (
	"procurement-app/config"
	"procurement-app/controllers"
	"procurement-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupInventoryRoutes(app *fiber.App, db *gorm.DB) {

	api := app.Group(config.MAIN_ROUTES+"/inventory", middleware.AuthMiddleware)
	inventoryController := controllers.NewInventoryController(db)

	api.Post("/upload-excel", middleware.RequireProcurement(), inventoryController.CreateItemsFromExcel)
	api.Post("/", middleware.RequireProcurement(), inventoryController.CreateItem)
	api.Get("/", inventoryController.GetItems)
	api.Get("/:id", inventoryController.GetItemByID)
	api.Put("/:id", middleware.RequireProcurement(), inventoryController.UpdateItem)
	api.Delete("/:id", middleware.RequireProcurement(), inventoryController.DeleteItem)

	api.Post("/:id/transactions", middleware.RequireProcurement(), inventoryController.CreateTransaction)
	api.Get("/:id/transactions", inventoryController.GetTransactions)
}
