package models

import (
	"time"

	"gorm.io/gorm"
)

type PurchaseOrderStatus string

const (
	OrderDraft        PurchaseOrderStatus = "draft"
	OrderSent         PurchaseOrderStatus = "sent"
	OrderAcknowledged PurchaseOrderStatus = "acknowledged"
	OrderPartial      PurchaseOrderStatus = "partial"
	OrderComplete     PurchaseOrderStatus = "complete"
	OrderCancelled    PurchaseOrderStatus = "cancelled"
)

func (s PurchaseOrderStatus) Valid() bool {
	switch s {
	case OrderDraft, OrderSent, OrderAcknowledged, OrderPartial, OrderComplete, OrderCancelled:
		return true
	}
	return false
}

type PurchaseOrder struct {
	gorm.Model
	PONumber             string              `json:"po_number" gorm:"unique;not null"`
	VendorID             uint                `json:"vendor_id" gorm:"index;not null"`
	Vendor               Vendor              `json:"vendor" gorm:"foreignKey:VendorID"`
	CreatedByID          uint                `json:"created_by_id"`
	ExpectedDeliveryDate *time.Time          `json:"expected_delivery_date"`
	ShippingAddress      string              `json:"shipping_address"`
	BillingAddress       string              `json:"billing_address"`
	Status               PurchaseOrderStatus `json:"status" gorm:"type:varchar(20);default:'sent'"`
	Notes                string              `json:"notes"`
	TermsAndConditions   string              `json:"terms_and_conditions"`
	TotalAmount          float64             `json:"total_amount" gorm:"default:0"`
	TaxAmount            float64             `json:"tax_amount" gorm:"default:0"`
	ShippingCost         float64             `json:"shipping_cost" gorm:"default:0"`
	DiscountAmount       float64             `json:"discount_amount" gorm:"default:0"`
	GrandTotal           float64             `json:"grand_total" gorm:"default:0"`
	Items                []PurchaseOrderItem `json:"items" gorm:"foreignKey:PurchaseOrderID"`
}

type PurchaseOrderItem struct {
	gorm.Model
	PurchaseOrderID   uint    `json:"purchase_order_id" gorm:"index;not null"`
	ItemName          string  `json:"item_name"`
	Description       string  `json:"description"`
	Quantity          int     `json:"quantity"`
	UnitOfMeasure     string  `json:"unit_of_measure"`
	UnitPrice         float64 `json:"unit_price"`
	TotalPrice        float64 `json:"total_price"`
	InventoryItemID   *uint   `json:"inventory_item_id"`
	RequisitionItemID *uint   `json:"requisition_item_id"`
}

type Shipment struct {
	gorm.Model
	PurchaseOrderID     uint           `json:"purchase_order_id" gorm:"index;not null"`
	PurchaseOrder       PurchaseOrder  `json:"purchase_order" gorm:"foreignKey:PurchaseOrderID"`
	TrackingNumber      string         `json:"tracking_number"`
	Carrier             string         `json:"carrier"`
	ExpectedArrivalDate *time.Time     `json:"expected_arrival_date"`
	ActualArrivalDate   *time.Time     `json:"actual_arrival_date"`
	ReceivedByID        *uint          `json:"received_by_id"`
	Notes               string         `json:"notes"`
	IsComplete          bool           `json:"is_complete" gorm:"default:false"`
	Items               []ShipmentItem `json:"items" gorm:"foreignKey:ShipmentID"`
}

// ShipmentItem tracks one PO line inside a delivery. QuantityReceived only
// ever grows and never exceeds QuantityShipped.
type ShipmentItem struct {
	gorm.Model
	ShipmentID          uint              `json:"shipment_id" gorm:"index;not null"`
	PurchaseOrderItemID uint              `json:"purchase_order_item_id" gorm:"not null"`
	PurchaseOrderItem   PurchaseOrderItem `json:"purchase_order_item" gorm:"foreignKey:PurchaseOrderItemID"`
	QuantityShipped     int               `json:"quantity_shipped"`
	QuantityReceived    int               `json:"quantity_received" gorm:"default:0"`
	ConditionNotes      string            `json:"condition_notes"`
}

// FullyReceived reports whether this line needs no more receipts.
func (s *ShipmentItem) FullyReceived() bool {
	return s.QuantityReceived >= s.QuantityShipped
}
