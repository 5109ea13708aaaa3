package services

import (
	"strings"
	"testing"

	"procurement-app/apperr"
	"procurement-app/models"
)

func newPurchaseOrder(t *testing.T, service *OrderService, creator models.User, vendorID uint, input CreateOrderInput) *models.PurchaseOrder {
	t.Helper()

	input.VendorID = vendorID
	if len(input.Items) == 0 {
		input.Items = []OrderItemInput{
			{ItemName: "Widget", Quantity: 10, UnitPrice: 5.00},
		}
	}
	order, err := service.Create(creator, input)
	if err != nil {
		t.Fatalf("create purchase order: %v", err)
	}
	return order
}

func TestCreateOrderDerivesTotals(t *testing.T) {
	db := setupTestDB(t)
	officer := createUser(t, db, models.RoleProcurementOfficer)
	vendor := createVendor(t, db, nil)
	service := NewOrderService(db)

	order := newPurchaseOrder(t, service, officer, vendor.ID, CreateOrderInput{
		TaxAmount:      5.00,
		ShippingCost:   3.00,
		DiscountAmount: 2.00,
	})

	if order.TotalAmount != 50.00 {
		t.Errorf("expected total_amount 50.00, got %.2f", order.TotalAmount)
	}
	if order.GrandTotal != 56.00 {
		t.Errorf("expected grand_total 56.00, got %.2f", order.GrandTotal)
	}
	if order.Status != models.OrderSent {
		t.Errorf("expected default status sent, got %s", order.Status)
	}
	if !strings.HasPrefix(order.PONumber, "PO-") {
		t.Errorf("expected PO- prefixed number, got %q", order.PONumber)
	}
}

func TestCreateOrderRejectsBadStatusAndActor(t *testing.T) {
	db := setupTestDB(t)
	officer := createUser(t, db, models.RoleProcurementOfficer)
	requester := createUser(t, db, models.RoleRequester)
	vendor := createVendor(t, db, nil)
	service := NewOrderService(db)

	input := CreateOrderInput{
		VendorID: vendor.ID,
		Items:    []OrderItemInput{{ItemName: "Widget", Quantity: 1, UnitPrice: 1.00}},
	}

	if _, err := service.Create(requester, input); apperr.HTTPStatus(err) != 403 {
		t.Errorf("expected authorization error for requester, got %v", err)
	}

	input.Status = string(models.OrderComplete)
	if _, err := service.Create(officer, input); apperr.HTTPStatus(err) != 400 {
		t.Errorf("expected validation error creating complete order, got %v", err)
	}

	input.Status = ""
	input.VendorID = 9999
	if _, err := service.Create(officer, input); apperr.HTTPStatus(err) != 404 {
		t.Errorf("expected not found for unknown vendor, got %v", err)
	}
}

func TestCreateOrderMarksRequisitionOrdered(t *testing.T) {
	db := setupTestDB(t)
	officer := createUser(t, db, models.RoleProcurementOfficer)
	admin := createUser(t, db, models.RoleAdmin)
	requester := createUser(t, db, models.RoleRequester)
	vendor := createVendor(t, db, nil)

	requisitions := NewRequisitionService(db)
	requisition := newRequisition(t, requisitions, requester, true)
	if _, err := requisitions.Decide(requisition.ID, admin, true, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	service := NewOrderService(db)
	order := newPurchaseOrder(t, service, officer, vendor.ID, CreateOrderInput{
		RequisitionID: &requisition.ID,
	})

	reloaded, err := requisitions.reload(requisition.ID)
	if err != nil {
		t.Fatalf("reload requisition: %v", err)
	}
	if reloaded.Status != models.RequisitionOrdered {
		t.Errorf("expected requisition ordered, got %s", reloaded.Status)
	}
	if reloaded.PurchaseOrderID == nil || *reloaded.PurchaseOrderID != order.ID {
		t.Errorf("expected requisition linked to order %d", order.ID)
	}
}

func TestVendorMayOnlyAcknowledge(t *testing.T) {
	db := setupTestDB(t)
	officer := createUser(t, db, models.RoleProcurementOfficer)
	vendorUser := createUser(t, db, models.RoleVendor)
	vendor := createVendor(t, db, &vendorUser.ID)
	otherVendorUser := createUser(t, db, models.RoleVendor)
	createVendor(t, db, &otherVendorUser.ID)

	service := NewOrderService(db)
	order := newPurchaseOrder(t, service, officer, vendor.ID, CreateOrderInput{})

	ack := string(models.OrderAcknowledged)
	complete := string(models.OrderComplete)
	notes := "sneaky edit"

	if _, err := service.Update(order.ID, vendorUser, UpdateOrderInput{Status: &complete}); apperr.HTTPStatus(err) != 400 {
		t.Errorf("expected validation error for vendor setting complete, got %v", err)
	}
	if _, err := service.Update(order.ID, vendorUser, UpdateOrderInput{Status: &ack, Notes: &notes}); apperr.HTTPStatus(err) != 400 {
		t.Errorf("expected validation error for vendor editing fields, got %v", err)
	}
	if _, err := service.Update(order.ID, otherVendorUser, UpdateOrderInput{Status: &ack}); apperr.HTTPStatus(err) != 403 {
		t.Errorf("expected authorization error for foreign vendor, got %v", err)
	}

	updated, err := service.Update(order.ID, vendorUser, UpdateOrderInput{Status: &ack})
	if err != nil {
		t.Fatalf("vendor acknowledge: %v", err)
	}
	if updated.Status != models.OrderAcknowledged {
		t.Errorf("expected acknowledged, got %s", updated.Status)
	}
}

func TestOfficerUpdateRecalculatesGrandTotal(t *testing.T) {
	db := setupTestDB(t)
	officer := createUser(t, db, models.RoleProcurementOfficer)
	vendor := createVendor(t, db, nil)
	service := NewOrderService(db)

	order := newPurchaseOrder(t, service, officer, vendor.ID, CreateOrderInput{})

	tax := 10.00
	discount := 4.00
	updated, err := service.Update(order.ID, officer, UpdateOrderInput{
		TaxAmount:      &tax,
		DiscountAmount: &discount,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.GrandTotal != 56.00 {
		t.Errorf("expected grand_total 56.00 (50 + 10 - 4), got %.2f", updated.GrandTotal)
	}
}

func TestDeleteOrderOnlyDraft(t *testing.T) {
	db := setupTestDB(t)
	officer := createUser(t, db, models.RoleProcurementOfficer)
	vendor := createVendor(t, db, nil)
	service := NewOrderService(db)

	sent := newPurchaseOrder(t, service, officer, vendor.ID, CreateOrderInput{})
	if err := service.Delete(sent.ID, officer); apperr.HTTPStatus(err) != 409 {
		t.Errorf("expected state conflict deleting sent order, got %v", err)
	}

	draft := newPurchaseOrder(t, service, officer, vendor.ID, CreateOrderInput{
		Status: string(models.OrderDraft),
	})
	if err := service.Delete(draft.ID, officer); err != nil {
		t.Fatalf("delete draft order: %v", err)
	}

	var count int64
	db.Model(&models.PurchaseOrderItem{}).Where("purchase_order_id = ?", draft.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected line items removed with the order, found %d", count)
	}
}

func TestCreateShipmentValidatesMembership(t *testing.T) {
	db := setupTestDB(t)
	officer := createUser(t, db, models.RoleProcurementOfficer)
	vendor := createVendor(t, db, nil)
	service := NewOrderService(db)

	order := newPurchaseOrder(t, service, officer, vendor.ID, CreateOrderInput{})

	if _, err := service.CreateShipment(order.ID, officer, CreateShipmentInput{
		Items: []ShipmentItemInput{{PurchaseOrderItemID: 9999, QuantityShipped: 1}},
	}); apperr.HTTPStatus(err) != 400 {
		t.Errorf("expected validation error for foreign line item, got %v", err)
	}

	shipment, err := service.CreateShipment(order.ID, officer, CreateShipmentInput{
		TrackingNumber: "TRK-1",
		Items: []ShipmentItemInput{
			{PurchaseOrderItemID: order.Items[0].ID, QuantityShipped: 10},
		},
	})
	if err != nil {
		t.Fatalf("create shipment: %v", err)
	}
	if len(shipment.Items) != 1 || shipment.Items[0].QuantityShipped != 10 {
		t.Errorf("unexpected shipment items: %+v", shipment.Items)
	}
	if shipment.IsComplete {
		t.Error("new shipment must not start complete")
	}
}
