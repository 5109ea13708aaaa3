package models

import (
	"time"

	"gorm.io/gorm"
)

type RequisitionStatus string

const (
	RequisitionDraft           RequisitionStatus = "draft"
	RequisitionPendingApproval RequisitionStatus = "pending_approval"
	RequisitionApproved        RequisitionStatus = "approved"
	RequisitionRejected        RequisitionStatus = "rejected"
	RequisitionOrdered         RequisitionStatus = "ordered"
	RequisitionCompleted       RequisitionStatus = "completed"
	RequisitionCancelled       RequisitionStatus = "cancelled"
)

// Terminal reports whether the status has no outgoing transitions. A rejected
// requisition can only come back as a brand new draft.
func (s RequisitionStatus) Terminal() bool {
	return s == RequisitionCompleted || s == RequisitionCancelled || s == RequisitionRejected
}

type Requisition struct {
	gorm.Model
	Title              string                `json:"title"`
	Department         string                `json:"department"`
	RequesterID        uint                  `json:"requester_id" gorm:"index"`
	Requester          User                  `json:"requester" gorm:"foreignKey:RequesterID"`
	Status             RequisitionStatus     `json:"status" gorm:"type:varchar(20);default:'draft'"`
	DateNeeded         *time.Time            `json:"date_needed"`
	Priority           string                `json:"priority" gorm:"type:varchar(10);default:'medium'"`
	Justification      string                `json:"justification"`
	Notes              string                `json:"notes"`
	TotalEstimatedCost float64               `json:"total_estimated_cost" gorm:"default:0"`
	PurchaseOrderID    *uint                 `json:"purchase_order_id" gorm:"index"`
	Items              []RequisitionItem     `json:"items" gorm:"foreignKey:RequisitionID"`
	Approvals          []RequisitionApproval `json:"approvals" gorm:"foreignKey:RequisitionID"`
}

type RequisitionItem struct {
	gorm.Model
	RequisitionID      uint     `json:"requisition_id" gorm:"index;not null"`
	ItemName           string   `json:"item_name"`
	Description        string   `json:"description"`
	Quantity           int      `json:"quantity"`
	UnitOfMeasure      string   `json:"unit_of_measure"`
	EstimatedUnitPrice float64  `json:"estimated_unit_price"`
	EstimatedCost      float64  `json:"estimated_cost"`
	InventoryItemID    *uint    `json:"inventory_item_id"`
	SuggestedVendors   []Vendor `json:"suggested_vendors" gorm:"many2many:requisition_item_vendors;"`
}

// RequisitionApproval is one approver's decision on one requisition. The
// composite unique index keeps a resubmitting approver from duplicating
// their row; the decision is overwritten instead.
type RequisitionApproval struct {
	gorm.Model
	RequisitionID uint   `json:"requisition_id" gorm:"uniqueIndex:idx_requisition_approver;not null"`
	ApproverID    uint   `json:"approver_id" gorm:"uniqueIndex:idx_requisition_approver;not null"`
	Approved      bool   `json:"approved"`
	Comments      string `json:"comments"`
}
