package controllers

import (
	"fmt"
	"strconv"
	"strings"

	"procurement-app/middleware"
	"procurement-app/models"
	"procurement-app/repositories"
	"procurement-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type InventoryController struct {
	DB *gorm.DB
}

func NewInventoryController(DB *gorm.DB) *InventoryController {
	return &InventoryController{DB: DB}
}

type itemInput struct {
	Name            string  `json:"name" validate:"required"`
	SKU             string  `json:"sku" validate:"required"`
	Description     string  `json:"description"`
	CategoryID      *uint   `json:"category_id"`
	UnitOfMeasure   string  `json:"unit_of_measure"`
	MinimumQuantity int     `json:"minimum_quantity"`
	UnitPrice       float64 `json:"unit_price"`
	Location        string  `json:"location"`
}

func (c *InventoryController) CreateItem(ctx *fiber.Ctx) error {
	var input itemInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	actor := middleware.Actor(ctx)
	item := models.InventoryItem{
		Name:            input.Name,
		SKU:             strings.ToUpper(strings.TrimSpace(input.SKU)),
		Description:     input.Description,
		CategoryID:      input.CategoryID,
		UnitOfMeasure:   input.UnitOfMeasure,
		MinimumQuantity: input.MinimumQuantity,
		UnitPrice:       input.UnitPrice,
		Location:        input.Location,
		IsActive:        true,
		CreatedBy:       int(actor.ID),
	}

	if err := c.DB.Create(&item).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create item"})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Item created successfully", "data": item})
}

func (c *InventoryController) GetItems(ctx *fiber.Ctx) error {
	lowStockOnly := ctx.Query("low_stock") == "true"
	items, err := repositories.NewInventoryRepository(c.DB).List(lowStockOnly)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": items})
}

func (c *InventoryController) GetItemByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	item, err := repositories.NewInventoryRepository(c.DB).GetByID(uint(id))
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"item":          item,
			"needs_reorder": item.NeedsReorder(),
			"total_value":   item.TotalValue(),
		},
	})
}

// UpdateItem edits catalog fields only. Stock levels never change here;
// quantities move exclusively through inventory transactions.
func (c *InventoryController) UpdateItem(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	item, err := repositories.NewInventoryRepository(c.DB).GetByID(uint(id))
	if err != nil {
		return serviceError(ctx, err)
	}

	var input struct {
		Name            *string  `json:"name"`
		Description     *string  `json:"description"`
		CategoryID      *uint    `json:"category_id"`
		UnitOfMeasure   *string  `json:"unit_of_measure"`
		MinimumQuantity *int     `json:"minimum_quantity"`
		UnitPrice       *float64 `json:"unit_price"`
		Location        *string  `json:"location"`
		IsActive        *bool    `json:"is_active"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.CategoryID != nil {
		item.CategoryID = input.CategoryID
	}
	if input.UnitOfMeasure != nil {
		item.UnitOfMeasure = *input.UnitOfMeasure
	}
	if input.MinimumQuantity != nil {
		item.MinimumQuantity = *input.MinimumQuantity
	}
	if input.UnitPrice != nil {
		item.UnitPrice = *input.UnitPrice
	}
	if input.Location != nil {
		item.Location = *input.Location
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}
	item.UpdatedBy = int(middleware.Actor(ctx).ID)

	if err := c.DB.Save(item).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update item"})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Item updated successfully", "data": item})
}

func (c *InventoryController) DeleteItem(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	item, err := repositories.NewInventoryRepository(c.DB).GetByID(uint(id))
	if err != nil {
		return serviceError(ctx, err)
	}

	item.DeletedBy = int(middleware.Actor(ctx).ID)
	if err := c.DB.Save(item).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete item"})
	}
	if err := c.DB.Delete(item).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete item"})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Item deleted successfully"})
}

type transactionInput struct {
	TransactionType models.TransactionType `json:"transaction_type" validate:"required"`
	Quantity        int                    `json:"quantity"`
	UnitPrice       float64                `json:"unit_price"`
	Reference       string                 `json:"reference"`
	Notes           string                 `json:"notes"`
}

// CreateTransaction posts a manual stock movement through the ledger.
func (c *InventoryController) CreateTransaction(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input transactionInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	transaction, err := services.NewLedgerService(c.DB).Post(
		uint(id), input.TransactionType, input.Quantity, input.UnitPrice,
		middleware.Actor(ctx).ID, input.Reference, input.Notes)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Transaction posted successfully", "data": transaction})
}

func (c *InventoryController) GetTransactions(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	repo := repositories.NewInventoryRepository(c.DB)
	if _, err := repo.GetByID(uint(id)); err != nil {
		return serviceError(ctx, err)
	}

	transactions, err := repo.Transactions(uint(id))
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": transactions})
}

type ItemUploadResult struct {
	TotalRows     int      `json:"total_rows"`
	SuccessCount  int      `json:"success_count"`
	SkippedCount  int      `json:"skipped_count"`
	ErrorCount    int      `json:"error_count"`
	SkippedItems  []string `json:"skipped_items"`
	ErrorMessages []string `json:"error_messages"`
}

// CreateItemsFromExcel bulk-loads catalog rows from an uploaded workbook.
// Expected columns: SKU, NAME, DESCRIPTION, UNIT_OF_MEASURE, MINIMUM_QUANTITY,
// UNIT_PRICE, LOCATION. Duplicate SKUs are skipped, not overwritten.
func (c *InventoryController) CreateItemsFromExcel(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "File is required",
		})
	}

	if !strings.HasSuffix(strings.ToLower(file.Filename), ".xlsx") &&
		!strings.HasSuffix(strings.ToLower(file.Filename), ".xls") {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Only Excel files (.xlsx, .xls) are allowed",
		})
	}

	fileContent, err := file.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to open file",
		})
	}
	defer fileContent.Close()

	f, err := excelize.OpenReader(fileContent)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read Excel file",
		})
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "No sheets found in Excel file",
		})
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read rows",
		})
	}

	if len(rows) < 2 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Excel file must contain header and at least one data row",
		})
	}

	result := ItemUploadResult{
		TotalRows:     len(rows) - 1,
		SuccessCount:  0,
		SkippedCount:  0,
		ErrorCount:    0,
		SkippedItems:  []string{},
		ErrorMessages: []string{},
	}

	userID := int(middleware.Actor(ctx).ID)

	tx := c.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for i, row := range rows[1:] {
		rowNum := i + 2 // Excel row number (header is row 1)

		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		if len(row) < 2 {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: Insufficient columns (expected at least SKU and NAME)", rowNum))
			continue
		}

		sku := strings.ToUpper(strings.TrimSpace(row[0]))
		name := strings.TrimSpace(row[1])

		if sku == "" || name == "" {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: SKU and NAME are required", rowNum))
			continue
		}

		var existing models.InventoryItem
		if err := tx.Where("sku = ?", sku).First(&existing).Error; err == nil {
			result.SkippedCount++
			result.SkippedItems = append(result.SkippedItems, sku)
			continue
		}

		item := models.InventoryItem{
			SKU:       sku,
			Name:      name,
			IsActive:  true,
			CreatedBy: userID,
		}
		if len(row) > 2 {
			item.Description = strings.TrimSpace(row[2])
		}
		if len(row) > 3 {
			item.UnitOfMeasure = strings.TrimSpace(row[3])
		}
		if len(row) > 4 && strings.TrimSpace(row[4]) != "" {
			minimumQty, err := strconv.Atoi(strings.TrimSpace(row[4]))
			if err != nil {
				result.ErrorCount++
				result.ErrorMessages = append(result.ErrorMessages,
					fmt.Sprintf("Row %d: Invalid MINIMUM_QUANTITY '%s'", rowNum, row[4]))
				continue
			}
			item.MinimumQuantity = minimumQty
		}
		if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
			unitPrice, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
			if err != nil {
				result.ErrorCount++
				result.ErrorMessages = append(result.ErrorMessages,
					fmt.Sprintf("Row %d: Invalid UNIT_PRICE '%s'", rowNum, row[5]))
				continue
			}
			item.UnitPrice = unitPrice
		}
		if len(row) > 6 {
			item.Location = strings.TrimSpace(row[6])
		}

		if err := tx.Create(&item).Error; err != nil {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: Failed to create item - %s", rowNum, err.Error()))
			continue
		}

		result.SuccessCount++
	}

	if err := tx.Commit().Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to commit transaction",
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Upload completed: %d success, %d skipped, %d errors",
			result.SuccessCount, result.SkippedCount, result.ErrorCount),
		"data": result,
	})
}
