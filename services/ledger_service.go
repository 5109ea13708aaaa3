package services

import (
	"errors"

	"procurement-app/apperr"
	"procurement-app/models"
	"procurement-app/repositories"

	"gorm.io/gorm"
)

// LedgerService owns the inventory ledger. Posting a transaction here is the
// only code path that changes an item's current quantity.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// Post records one stock movement and applies it to the item, atomically.
// receipt and return add, issue subtracts (floored at zero), adjustment sets
// the absolute quantity.
func (s *LedgerService) Post(itemID uint, transactionType models.TransactionType, quantity int, unitPrice float64, actorID uint, reference, notes string) (*models.InventoryTransaction, error) {
	var posted *models.InventoryTransaction

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		transaction, err := s.PostTx(tx, itemID, transactionType, quantity, unitPrice, actorID, reference, notes)
		if err != nil {
			return err
		}
		posted = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posted, nil
}

// PostTx is Post inside an existing transaction, for callers that need the
// posting tied to their own writes (the shipment receipt lines).
func (s *LedgerService) PostTx(tx *gorm.DB, itemID uint, transactionType models.TransactionType, quantity int, unitPrice float64, actorID uint, reference, notes string) (*models.InventoryTransaction, error) {
	if !transactionType.Valid() {
		return nil, apperr.Validation("unknown transaction type %q", transactionType)
	}
	if quantity < 0 {
		return nil, apperr.Validation("quantity must not be negative")
	}
	// Adjustments may set stock to zero; every other type moves at least one unit.
	if quantity == 0 && transactionType != models.TransactionAdjustment {
		return nil, apperr.Validation("quantity must be a positive integer")
	}

	var item models.InventoryItem
	if err := repositories.LockForUpdate(tx).First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("inventory item %d not found", itemID)
		}
		return nil, err
	}

	previous := item.CurrentQuantity

	switch transactionType {
	case models.TransactionReceipt, models.TransactionReturn:
		item.CurrentQuantity += quantity
	case models.TransactionIssue:
		item.CurrentQuantity -= quantity
		if item.CurrentQuantity < 0 {
			item.CurrentQuantity = 0
		}
	case models.TransactionAdjustment:
		// For adjustments the quantity is the new absolute stock level.
		item.CurrentQuantity = quantity
	}

	transaction := models.InventoryTransaction{
		ItemID:           item.ID,
		TransactionType:  transactionType,
		Quantity:         quantity,
		PreviousQuantity: previous,
		NewQuantity:      item.CurrentQuantity,
		UnitPrice:        unitPrice,
		CreatedByID:      actorID,
		Reference:        reference,
		Notes:            notes,
	}

	if err := tx.Create(&transaction).Error; err != nil {
		return nil, err
	}
	if err := tx.Save(&item).Error; err != nil {
		return nil, err
	}

	return &transaction, nil
}
