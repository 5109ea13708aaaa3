package routes

import (
	"procurement-app/config"
	"procurement-app/controllers"
	"procurement-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupOrderRoutes(app *fiber.App, db *gorm.DB) {

	api := app.Group(config.MAIN_ROUTES+"/purchase-orders", middleware.AuthMiddleware)
	orderController := controllers.NewOrderController(db)

	api.Post("/", middleware.RequireProcurement(), orderController.CreateOrder)
	api.Get("/", orderController.GetOrders)
	api.Get("/:id", orderController.GetOrderByID)
	api.Put("/:id", orderController.UpdateOrder)
	api.Delete("/:id", middleware.RequireProcurement(), orderController.DeleteOrder)
	api.Get("/:id/items", orderController.GetOrderItems)
	api.Post("/:id/shipments", middleware.RequireProcurement(), orderController.CreateShipment)

	shipments := app.Group(config.MAIN_ROUTES+"/shipments", middleware.AuthMiddleware)
	shipments.Get("/:id", orderController.GetShipment)
	shipments.Post("/:id/receive", middleware.RequireProcurement(), orderController.ReceiveShipment)
}
