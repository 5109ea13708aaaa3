package services

import (
	"fmt"
	"testing"

	"procurement-app/config"
	"procurement-app/controllers/idgen"
	"procurement-app/database"
	"procurement-app/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	config.ApprovalThreshold = 2
	idgen.Init()

	return db
}

var userSeq int

func createUser(t *testing.T, db *gorm.DB, role models.Role) models.User {
	t.Helper()

	userSeq++
	user := models.User{
		Username: fmt.Sprintf("user%d", userSeq),
		Email:    fmt.Sprintf("user%d@example.com", userSeq),
		Name:     fmt.Sprintf("User %d", userSeq),
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createVendor(t *testing.T, db *gorm.DB, userID *uint) models.Vendor {
	t.Helper()

	userSeq++
	vendor := models.Vendor{
		CompanyName: fmt.Sprintf("Vendor %d", userSeq),
		UserID:      userID,
		IsActive:    true,
	}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatalf("failed to create vendor: %v", err)
	}
	return vendor
}

func createInventoryItem(t *testing.T, db *gorm.DB, quantity int) models.InventoryItem {
	t.Helper()

	userSeq++
	item := models.InventoryItem{
		Name:            fmt.Sprintf("Item %d", userSeq),
		SKU:             fmt.Sprintf("SKU-%d", userSeq),
		CurrentQuantity: quantity,
		IsActive:        true,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to create inventory item: %v", err)
	}
	return item
}
