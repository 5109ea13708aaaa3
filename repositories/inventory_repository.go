package repositories

import (
	"errors"

	"procurement-app/apperr"
	"procurement-app/models"

	"gorm.io/gorm"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) List(lowStockOnly bool) ([]models.InventoryItem, error) {
	query := r.db.Order("name asc")
	if lowStockOnly {
		query = query.Where("current_quantity <= minimum_quantity")
	}

	var items []models.InventoryItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *InventoryRepository) GetByID(id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("inventory item %d not found", id)
		}
		return nil, err
	}
	return &item, nil
}

func (r *InventoryRepository) GetBySKU(sku string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.Where("sku = ?", sku).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("inventory item %s not found", sku)
		}
		return nil, err
	}
	return &item, nil
}

func (r *InventoryRepository) Transactions(itemID uint) ([]models.InventoryTransaction, error) {
	var transactions []models.InventoryTransaction
	err := r.db.Where("item_id = ?", itemID).
		Order("created_at desc").Find(&transactions).Error
	return transactions, err
}
