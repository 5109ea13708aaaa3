package services

import (
	"errors"
	"time"

	"procurement-app/apperr"
	"procurement-app/controllers/idgen"
	"procurement-app/models"

	"gorm.io/gorm"
)

// OrderService owns the purchase order lifecycle and keeps the money totals
// consistent with the line items.
type OrderService struct {
	DB           *gorm.DB
	Requisitions *RequisitionService
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db, Requisitions: NewRequisitionService(db)}
}

type OrderItemInput struct {
	ItemName          string  `json:"item_name" validate:"required"`
	Description       string  `json:"description"`
	Quantity          int     `json:"quantity" validate:"required,min=1"`
	UnitOfMeasure     string  `json:"unit_of_measure"`
	UnitPrice         float64 `json:"unit_price" validate:"min=0"`
	InventoryItemID   *uint   `json:"inventory_item_id"`
	RequisitionItemID *uint   `json:"requisition_item_id"`
}

type CreateOrderInput struct {
	VendorID             uint             `json:"vendor_id" validate:"required"`
	RequisitionID        *uint            `json:"requisition_id"`
	ExpectedDeliveryDate *time.Time       `json:"expected_delivery_date"`
	ShippingAddress      string           `json:"shipping_address"`
	BillingAddress       string           `json:"billing_address"`
	Notes                string           `json:"notes"`
	TermsAndConditions   string           `json:"terms_and_conditions"`
	TaxAmount            float64          `json:"tax_amount" validate:"min=0"`
	ShippingCost         float64          `json:"shipping_cost" validate:"min=0"`
	DiscountAmount       float64          `json:"discount_amount" validate:"min=0"`
	Status               string           `json:"status"`
	Items                []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

type UpdateOrderInput struct {
	Status               *string    `json:"status"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date"`
	ShippingAddress      *string    `json:"shipping_address"`
	BillingAddress       *string    `json:"billing_address"`
	Notes                *string    `json:"notes"`
	TermsAndConditions   *string    `json:"terms_and_conditions"`
	TaxAmount            *float64   `json:"tax_amount"`
	ShippingCost         *float64   `json:"shipping_cost"`
	DiscountAmount       *float64   `json:"discount_amount"`
}

// Create builds a purchase order from its line items. New orders default to
// sent (visible to the vendor right away); an explicit draft keeps it
// internal. Referencing a requisition links it and forces it to ordered.
func (s *OrderService) Create(creator models.User, input CreateOrderInput) (*models.PurchaseOrder, error) {
	if !creator.Role.CanManageProcurement() {
		return nil, apperr.Authorization("only procurement officers or admins may create purchase orders")
	}

	status := models.OrderSent
	if input.Status != "" {
		status = models.PurchaseOrderStatus(input.Status)
		if status != models.OrderDraft && status != models.OrderSent {
			return nil, apperr.Validation("a purchase order can only be created as draft or sent, not %s", input.Status)
		}
	}

	var vendor models.Vendor
	if err := s.DB.First(&vendor, input.VendorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("vendor %d not found", input.VendorID)
		}
		return nil, err
	}

	order := models.PurchaseOrder{
		PONumber:             idgen.GeneratePONumber(),
		VendorID:             vendor.ID,
		CreatedByID:          creator.ID,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		ShippingAddress:      input.ShippingAddress,
		BillingAddress:       input.BillingAddress,
		Status:               status,
		Notes:                input.Notes,
		TermsAndConditions:   input.TermsAndConditions,
		TaxAmount:            input.TaxAmount,
		ShippingCost:         input.ShippingCost,
		DiscountAmount:       input.DiscountAmount,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, itemInput := range input.Items {
			if itemInput.Quantity <= 0 {
				return apperr.Validation("line item quantity must be a positive integer")
			}
			item := models.PurchaseOrderItem{
				PurchaseOrderID:   order.ID,
				ItemName:          itemInput.ItemName,
				Description:       itemInput.Description,
				Quantity:          itemInput.Quantity,
				UnitOfMeasure:     itemInput.UnitOfMeasure,
				UnitPrice:         itemInput.UnitPrice,
				TotalPrice:        float64(itemInput.Quantity) * itemInput.UnitPrice,
				InventoryItemID:   itemInput.InventoryItemID,
				RequisitionItemID: itemInput.RequisitionItemID,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		if err := s.RecalculateTotals(tx, order.ID); err != nil {
			return err
		}

		if input.RequisitionID != nil {
			if err := s.Requisitions.MarkOrdered(tx, *input.RequisitionID, order.ID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.reload(order.ID)
}

// Update is role-branched: a vendor may only acknowledge their own order,
// officers and admins may change any field. Money field changes re-derive
// the grand total.
func (s *OrderService) Update(id uint, actor models.User, input UpdateOrderInput) (*models.PurchaseOrder, error) {
	order, err := s.reload(id)
	if err != nil {
		return nil, err
	}

	if actor.Role == models.RoleVendor {
		return s.vendorUpdate(order, actor, input)
	}
	if !actor.Role.CanManageProcurement() {
		return nil, apperr.Authorization("you don't have permission to update purchase order %d", id)
	}

	if input.Status != nil {
		status := models.PurchaseOrderStatus(*input.Status)
		if !status.Valid() {
			return nil, apperr.Validation("unknown purchase order status %q", *input.Status)
		}
		order.Status = status
	}
	if input.ExpectedDeliveryDate != nil {
		order.ExpectedDeliveryDate = input.ExpectedDeliveryDate
	}
	if input.ShippingAddress != nil {
		order.ShippingAddress = *input.ShippingAddress
	}
	if input.BillingAddress != nil {
		order.BillingAddress = *input.BillingAddress
	}
	if input.Notes != nil {
		order.Notes = *input.Notes
	}
	if input.TermsAndConditions != nil {
		order.TermsAndConditions = *input.TermsAndConditions
	}

	moneyChanged := false
	if input.TaxAmount != nil {
		order.TaxAmount = *input.TaxAmount
		moneyChanged = true
	}
	if input.ShippingCost != nil {
		order.ShippingCost = *input.ShippingCost
		moneyChanged = true
	}
	if input.DiscountAmount != nil {
		order.DiscountAmount = *input.DiscountAmount
		moneyChanged = true
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(order).Error; err != nil {
			return err
		}
		if moneyChanged {
			return s.RecalculateTotals(tx, order.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.reload(order.ID)
}

// vendorUpdate enforces the ack-only rule: the owning vendor may flip the
// status to acknowledged and nothing else.
func (s *OrderService) vendorUpdate(order *models.PurchaseOrder, actor models.User, input UpdateOrderInput) (*models.PurchaseOrder, error) {
	var vendor models.Vendor
	if err := s.DB.Where("user_id = ?", actor.ID).First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Authorization("no vendor profile linked to this account")
		}
		return nil, err
	}
	if vendor.ID != order.VendorID {
		return nil, apperr.Authorization("purchase order %d belongs to another vendor", order.ID)
	}

	fieldChange := input.ExpectedDeliveryDate != nil || input.ShippingAddress != nil ||
		input.BillingAddress != nil || input.Notes != nil || input.TermsAndConditions != nil ||
		input.TaxAmount != nil || input.ShippingCost != nil || input.DiscountAmount != nil
	if fieldChange || input.Status == nil || models.PurchaseOrderStatus(*input.Status) != models.OrderAcknowledged {
		return nil, apperr.Validation("vendors can only update status to acknowledged")
	}

	order.Status = models.OrderAcknowledged
	if err := s.DB.Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes a purchase order that was never sent to the vendor.
func (s *OrderService) Delete(id uint, actor models.User) error {
	if !actor.Role.CanManageProcurement() {
		return apperr.Authorization("you don't have permission to delete purchase order %d", id)
	}

	order, err := s.reload(id)
	if err != nil {
		return err
	}
	if order.Status != models.OrderDraft {
		return apperr.StateConflict("cannot delete purchase order in %s state", order.Status)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_order_id = ?", order.ID).Delete(&models.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(order).Error
	})
}

// RecalculateTotals re-derives total_amount from the live line items and
// grand_total from total, tax, shipping and discount. Safe to call twice;
// the result only depends on stored state.
func (s *OrderService) RecalculateTotals(tx *gorm.DB, orderID uint) error {
	var order models.PurchaseOrder
	if err := tx.First(&order, orderID).Error; err != nil {
		return err
	}

	var total float64
	err := tx.Model(&models.PurchaseOrderItem{}).
		Where("purchase_order_id = ?", orderID).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	if err != nil {
		return err
	}

	grandTotal := total + order.TaxAmount + order.ShippingCost - order.DiscountAmount

	return tx.Model(&models.PurchaseOrder{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"total_amount": total,
			"grand_total":  grandTotal,
		}).Error
}

type ShipmentItemInput struct {
	PurchaseOrderItemID uint `json:"purchase_order_item_id" validate:"required"`
	QuantityShipped     int  `json:"quantity_shipped" validate:"required,min=1"`
}

type CreateShipmentInput struct {
	TrackingNumber      string              `json:"tracking_number"`
	Carrier             string              `json:"carrier"`
	ExpectedArrivalDate *time.Time          `json:"expected_arrival_date"`
	Notes               string              `json:"notes"`
	Items               []ShipmentItemInput `json:"items" validate:"required,min=1,dive"`
}

// CreateShipment records a delivery against a purchase order. Every line
// must reference a line item of that order.
func (s *OrderService) CreateShipment(orderID uint, actor models.User, input CreateShipmentInput) (*models.Shipment, error) {
	if !actor.Role.CanManageProcurement() {
		return nil, apperr.Authorization("only procurement officers or admins may create shipments")
	}

	order, err := s.reload(orderID)
	if err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, apperr.Validation("a shipment needs at least one item")
	}

	orderItems := make(map[uint]bool, len(order.Items))
	for _, item := range order.Items {
		orderItems[item.ID] = true
	}

	shipment := models.Shipment{
		PurchaseOrderID:     order.ID,
		TrackingNumber:      input.TrackingNumber,
		Carrier:             input.Carrier,
		ExpectedArrivalDate: input.ExpectedArrivalDate,
		Notes:               input.Notes,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&shipment).Error; err != nil {
			return err
		}

		for _, itemInput := range input.Items {
			if !orderItems[itemInput.PurchaseOrderItemID] {
				return apperr.Validation("purchase order item %d does not belong to order %d", itemInput.PurchaseOrderItemID, order.ID)
			}
			if itemInput.QuantityShipped <= 0 {
				return apperr.Validation("quantity shipped must be a positive integer")
			}
			item := models.ShipmentItem{
				ShipmentID:          shipment.ID,
				PurchaseOrderItemID: itemInput.PurchaseOrderItemID,
				QuantityShipped:     itemInput.QuantityShipped,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var created models.Shipment
	if err := s.DB.Preload("Items").Preload("Items.PurchaseOrderItem").First(&created, shipment.ID).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *OrderService) reload(id uint) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := s.DB.Preload("Items").Preload("Vendor").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("purchase order %d not found", id)
		}
		return nil, err
	}
	return &order, nil
}
