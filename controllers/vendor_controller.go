package controllers

import (
	"strings"

	"procurement-app/middleware"
	"procurement-app/models"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type VendorController struct {
	DB *gorm.DB
}

func NewVendorController(DB *gorm.DB) *VendorController {
	return &VendorController{DB: DB}
}

type vendorInput struct {
	CompanyName  string `json:"company_name" validate:"required"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address"`
	TaxID        string `json:"tax_id"`
	UserID       *uint  `json:"user_id"`
}

func (c *VendorController) CreateVendor(ctx *fiber.Ctx) error {
	var input vendorInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var existing models.Vendor
	if err := c.DB.Where("company_name = ?", strings.TrimSpace(input.CompanyName)).First(&existing).Error; err == nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Vendor with this company name already exists"})
	}

	vendor := models.Vendor{
		CompanyName:  strings.TrimSpace(input.CompanyName),
		ContactName:  input.ContactName,
		ContactEmail: input.ContactEmail,
		ContactPhone: input.ContactPhone,
		Address:      input.Address,
		TaxID:        input.TaxID,
		UserID:       input.UserID,
		IsActive:     true,
		CreatedBy:    int(middleware.Actor(ctx).ID),
	}

	if err := c.DB.Create(&vendor).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create vendor"})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Vendor created successfully", "data": vendor})
}

func (c *VendorController) GetVendors(ctx *fiber.Ctx) error {
	var vendors []models.Vendor
	query := c.DB.Order("company_name asc")
	if ctx.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&vendors).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch vendors"})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": vendors})
}

func (c *VendorController) GetVendorByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var vendor models.Vendor
	if err := c.DB.First(&vendor, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vendor not found"})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": vendor})
}

func (c *VendorController) UpdateVendor(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var vendor models.Vendor
	if err := c.DB.First(&vendor, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vendor not found"})
	}

	var input struct {
		CompanyName  *string `json:"company_name"`
		ContactName  *string `json:"contact_name"`
		ContactEmail *string `json:"contact_email"`
		ContactPhone *string `json:"contact_phone"`
		Address      *string `json:"address"`
		TaxID        *string `json:"tax_id"`
		UserID       *uint   `json:"user_id"`
		IsActive     *bool   `json:"is_active"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if input.CompanyName != nil {
		vendor.CompanyName = strings.TrimSpace(*input.CompanyName)
	}
	if input.ContactName != nil {
		vendor.ContactName = *input.ContactName
	}
	if input.ContactEmail != nil {
		vendor.ContactEmail = *input.ContactEmail
	}
	if input.ContactPhone != nil {
		vendor.ContactPhone = *input.ContactPhone
	}
	if input.Address != nil {
		vendor.Address = *input.Address
	}
	if input.TaxID != nil {
		vendor.TaxID = *input.TaxID
	}
	if input.UserID != nil {
		vendor.UserID = input.UserID
	}
	if input.IsActive != nil {
		vendor.IsActive = *input.IsActive
	}
	vendor.UpdatedBy = int(middleware.Actor(ctx).ID)

	if err := c.DB.Save(&vendor).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update vendor"})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Vendor updated successfully", "data": vendor})
}

func (c *VendorController) DeleteVendor(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var vendor models.Vendor
	if err := c.DB.First(&vendor, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vendor not found"})
	}

	var orderCount int64
	if err := c.DB.Model(&models.PurchaseOrder{}).Where("vendor_id = ?", vendor.ID).Count(&orderCount).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete vendor"})
	}
	if orderCount > 0 {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Vendor has purchase orders and cannot be deleted"})
	}

	vendor.DeletedBy = int(middleware.Actor(ctx).ID)
	if err := c.DB.Save(&vendor).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete vendor"})
	}
	if err := c.DB.Delete(&vendor).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete vendor"})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Vendor deleted successfully"})
}
