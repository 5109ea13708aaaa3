package models

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	gorm.Model
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent_id"`
}

type InventoryItem struct {
	gorm.Model
	Name            string     `json:"name" validate:"required"`
	SKU             string     `json:"sku" gorm:"unique" validate:"required"`
	Description     string     `json:"description"`
	CategoryID      *uint      `json:"category_id"`
	UnitOfMeasure   string     `json:"unit_of_measure"`
	CurrentQuantity int        `json:"current_quantity" gorm:"default:0"`
	MinimumQuantity int        `json:"minimum_quantity" gorm:"default:0"`
	UnitPrice       float64    `json:"unit_price"`
	Location        string     `json:"location"`
	LastOrderedDate *time.Time `json:"last_ordered_date"`
	IsActive        bool       `json:"is_active" gorm:"default:true"`
	CreatedBy       int
	UpdatedBy       int
	DeletedBy       int
}

// NeedsReorder is derived, never stored: stock at or below the configured
// minimum means the item should be reordered.
func (i *InventoryItem) NeedsReorder() bool {
	return i.CurrentQuantity <= i.MinimumQuantity
}

func (i *InventoryItem) TotalValue() float64 {
	return float64(i.CurrentQuantity) * i.UnitPrice
}

type TransactionType string

const (
	TransactionReceipt    TransactionType = "receipt"
	TransactionIssue      TransactionType = "issue"
	TransactionAdjustment TransactionType = "adjustment"
	TransactionReturn     TransactionType = "return"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionReceipt, TransactionIssue, TransactionAdjustment, TransactionReturn:
		return true
	}
	return false
}

// InventoryTransaction is an immutable audit record. Creating one through
// the ledger service is the only way an item's current quantity changes.
type InventoryTransaction struct {
	gorm.Model
	ItemID           uint            `json:"item_id" gorm:"index;not null"`
	TransactionType  TransactionType `json:"transaction_type" gorm:"type:varchar(20)"`
	Quantity         int             `json:"quantity"`
	PreviousQuantity int             `json:"previous_quantity"`
	NewQuantity      int             `json:"new_quantity"`
	UnitPrice        float64         `json:"unit_price"`
	CreatedByID      uint            `json:"created_by_id"`
	Reference        string          `json:"reference"`
	Notes            string          `json:"notes"`
}
