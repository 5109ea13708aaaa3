package repositories

import (
	"errors"

	"procurement-app/apperr"
	"procurement-app/models"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// VendorForUser resolves the vendor profile tied to a vendor account.
func (r *OrderRepository) VendorForUser(userID uint) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.Where("user_id = ?", userID).First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Authorization("no vendor profile linked to this account")
		}
		return nil, err
	}
	return &vendor, nil
}

// List returns purchase orders scoped by role: vendors only see their own.
func (r *OrderRepository) List(actor models.User, status string) ([]models.PurchaseOrder, error) {
	query := r.db.Preload("Items").Preload("Vendor").Order("created_at desc")

	if actor.Role == models.RoleVendor {
		vendor, err := r.VendorForUser(actor.ID)
		if err != nil {
			return nil, err
		}
		query = query.Where("vendor_id = ?", vendor.ID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.PurchaseOrder
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) GetByID(id uint) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := r.db.Preload("Items").Preload("Vendor").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("purchase order %d not found", id)
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) GetShipment(id uint) (*models.Shipment, error) {
	var shipment models.Shipment
	err := r.db.Preload("Items").Preload("Items.PurchaseOrderItem").
		Preload("PurchaseOrder").First(&shipment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("shipment %d not found", id)
		}
		return nil, err
	}
	return &shipment, nil
}

// ShipmentsForOrder lists every delivery recorded against a purchase order.
func (r *OrderRepository) ShipmentsForOrder(purchaseOrderID uint) ([]models.Shipment, error) {
	var shipments []models.Shipment
	err := r.db.Where("purchase_order_id = ?", purchaseOrderID).Find(&shipments).Error
	return shipments, err
}
