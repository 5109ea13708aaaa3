package controllers

import (
	"procurement-app/middleware"
	"procurement-app/repositories"
	"procurement-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RequisitionController struct {
	DB *gorm.DB
}

func NewRequisitionController(DB *gorm.DB) *RequisitionController {
	return &RequisitionController{DB: DB}
}

func (c *RequisitionController) CreateRequisition(ctx *fiber.Ctx) error {
	var input services.CreateRequisitionInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	requisition, err := services.NewRequisitionService(c.DB).Create(middleware.Actor(ctx), input)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Requisition created successfully", "data": requisition})
}

func (c *RequisitionController) GetRequisitions(ctx *fiber.Ctx) error {
	requisitions, err := repositories.NewRequisitionRepository(c.DB).
		List(middleware.Actor(ctx), ctx.Query("status"))
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": requisitions})
}

func (c *RequisitionController) GetRequisitionByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	requisition, err := repositories.NewRequisitionRepository(c.DB).GetByID(uint(id))
	if err != nil {
		return serviceError(ctx, err)
	}

	actor := middleware.Actor(ctx)
	if !actor.Role.CanManageProcurement() && requisition.RequesterID != actor.ID {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "you don't have permission to view this requisition"})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": requisition})
}

func (c *RequisitionController) UpdateRequisition(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input services.UpdateRequisitionInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	requisition, err := services.NewRequisitionService(c.DB).
		Update(uint(id), middleware.Actor(ctx), input)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Requisition updated successfully", "data": requisition})
}

func (c *RequisitionController) DeleteRequisition(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	if err := services.NewRequisitionService(c.DB).Delete(uint(id), middleware.Actor(ctx)); err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Requisition deleted successfully"})
}

func (c *RequisitionController) SubmitRequisition(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	requisition, err := services.NewRequisitionService(c.DB).
		Submit(uint(id), middleware.Actor(ctx))
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Requisition submitted for approval", "data": requisition})
}

// ApproveRequisition records one approver's decision. The threshold logic
// lives in the service; this handler only shuttles the verdict.
func (c *RequisitionController) ApproveRequisition(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var approvalInput struct {
		Approved bool   `json:"approved"`
		Comments string `json:"comments"`
	}
	if err := ctx.BodyParser(&approvalInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := services.NewRequisitionService(c.DB).
		Decide(uint(id), middleware.Actor(ctx), approvalInput.Approved, approvalInput.Comments)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": result.Message,
		"data": fiber.Map{
			"status":         result.Requisition.Status,
			"approval_count": result.ApprovalCount,
		},
	})
}

func (c *RequisitionController) AddItem(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input services.RequisitionItemInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	item, err := services.NewRequisitionService(c.DB).
		AddItem(uint(id), middleware.Actor(ctx), input)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Item added successfully", "data": item})
}

func (c *RequisitionController) UpdateItem(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}
	itemID, err := ctx.ParamsInt("itemId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var input services.RequisitionItemInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	item, err := services.NewRequisitionService(c.DB).
		UpdateItem(uint(id), uint(itemID), middleware.Actor(ctx), input)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Item updated successfully", "data": item})
}

func (c *RequisitionController) DeleteItem(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}
	itemID, err := ctx.ParamsInt("itemId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	if err := services.NewRequisitionService(c.DB).
		DeleteItem(uint(id), uint(itemID), middleware.Actor(ctx)); err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Item deleted successfully"})
}
