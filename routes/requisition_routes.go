package routes

import (
	"procurement-app/config"
	"procurement-app/controllers"
	"procurement-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRequisitionRoutes(app *fiber.App, db *gorm.DB) {

	api := app.Group(config.MAIN_ROUTES+"/requisitions", middleware.AuthMiddleware)
	requisitionController := controllers.NewRequisitionController(db)

	api.Post("/", requisitionController.CreateRequisition)
	api.Get("/", requisitionController.GetRequisitions)
	api.Get("/:id", requisitionController.GetRequisitionByID)
	api.Put("/:id", requisitionController.UpdateRequisition)
	api.Delete("/:id", requisitionController.DeleteRequisition)
	api.Post("/:id/submit", requisitionController.SubmitRequisition)
	api.Post("/:id/approve", middleware.RequireProcurement(), requisitionController.ApproveRequisition)

	api.Post("/:id/items", requisitionController.AddItem)
	api.Put("/:id/items/:itemId", requisitionController.UpdateItem)
	api.Delete("/:id/items/:itemId", requisitionController.DeleteItem)
}
