// database/migrate.go
package database

import (
	"procurement-app/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Vendor{},
		&models.Category{},
		&models.InventoryItem{},
		&models.InventoryTransaction{},
		&models.Requisition{},
		&models.RequisitionItem{},
		&models.RequisitionApproval{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
		&models.Shipment{},
		&models.ShipmentItem{},
	)
}
