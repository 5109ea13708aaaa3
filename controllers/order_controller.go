package controllers

import (
	"procurement-app/middleware"
	"procurement-app/repositories"
	"procurement-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(DB *gorm.DB) *OrderController {
	return &OrderController{DB: DB}
}

func (c *OrderController) CreateOrder(ctx *fiber.Ctx) error {
	var input services.CreateOrderInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	order, err := services.NewOrderService(c.DB).Create(middleware.Actor(ctx), input)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Purchase order created successfully", "data": order})
}

func (c *OrderController) GetOrders(ctx *fiber.Ctx) error {
	orders, err := repositories.NewOrderRepository(c.DB).
		List(middleware.Actor(ctx), ctx.Query("status"))
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": orders})
}

func (c *OrderController) GetOrderByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	repo := repositories.NewOrderRepository(c.DB)
	order, err := repo.GetByID(uint(id))
	if err != nil {
		return serviceError(ctx, err)
	}

	actor := middleware.Actor(ctx)
	if !actor.Role.CanManageProcurement() {
		vendor, err := repo.VendorForUser(actor.ID)
		if err != nil || vendor.ID != order.VendorID {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "you don't have permission to view this purchase order"})
		}
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": order})
}

func (c *OrderController) GetOrderItems(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	repo := repositories.NewOrderRepository(c.DB)
	order, err := repo.GetByID(uint(id))
	if err != nil {
		return serviceError(ctx, err)
	}

	actor := middleware.Actor(ctx)
	if !actor.Role.CanManageProcurement() {
		vendor, err := repo.VendorForUser(actor.ID)
		if err != nil || vendor.ID != order.VendorID {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "you don't have permission to view this purchase order"})
		}
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": order.Items})
}

func (c *OrderController) UpdateOrder(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input services.UpdateOrderInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	order, err := services.NewOrderService(c.DB).
		Update(uint(id), middleware.Actor(ctx), input)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Purchase order updated successfully", "data": order})
}

func (c *OrderController) DeleteOrder(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	if err := services.NewOrderService(c.DB).Delete(uint(id), middleware.Actor(ctx)); err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Purchase order deleted successfully"})
}

func (c *OrderController) CreateShipment(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input services.CreateShipmentInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	shipment, err := services.NewOrderService(c.DB).
		CreateShipment(uint(id), middleware.Actor(ctx), input)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Shipment created successfully", "data": shipment})
}

func (c *OrderController) GetShipment(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	repo := repositories.NewOrderRepository(c.DB)
	shipment, err := repo.GetShipment(uint(id))
	if err != nil {
		return serviceError(ctx, err)
	}

	actor := middleware.Actor(ctx)
	if !actor.Role.CanManageProcurement() {
		vendor, err := repo.VendorForUser(actor.ID)
		if err != nil || vendor.ID != shipment.PurchaseOrder.VendorID {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "you don't have permission to view this shipment"})
		}
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": shipment})
}

// ReceiveShipment books incoming goods against a shipment. Lines the
// processor cannot apply come back marked skipped instead of failing the batch.
func (c *OrderController) ReceiveShipment(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input struct {
		Items []services.ReceiveLineInput `json:"items"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := services.NewReceiptService(c.DB).
		Receive(uint(id), middleware.Actor(ctx), input.Items)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Shipment receipt processed", "data": result})
}
