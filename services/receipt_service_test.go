package services

import (
	"testing"

	"procurement-app/apperr"
	"procurement-app/models"
)

type receiptFixture struct {
	officer     models.User
	order       *models.PurchaseOrder
	shipment    *models.Shipment
	inventory   models.InventoryItem
	requisition *models.Requisition
}

// buildReceiptChain sets up the full chain: an approved requisition, a
// purchase order created from it with one inventory-linked line of 10 units,
// and a shipment covering the whole line.
func buildReceiptChain(t *testing.T, service *ReceiptService) receiptFixture {
	t.Helper()

	db := service.DB
	officer := createUser(t, db, models.RoleProcurementOfficer)
	admin := createUser(t, db, models.RoleAdmin)
	requester := createUser(t, db, models.RoleRequester)
	vendor := createVendor(t, db, nil)
	inventory := createInventoryItem(t, db, 0)

	requisitions := NewRequisitionService(db)
	requisition := newRequisition(t, requisitions, requester, true)
	if _, err := requisitions.Decide(requisition.ID, admin, true, ""); err != nil {
		t.Fatalf("approve requisition: %v", err)
	}

	orders := NewOrderService(db)
	order, err := orders.Create(officer, CreateOrderInput{
		VendorID:      vendor.ID,
		RequisitionID: &requisition.ID,
		Items: []OrderItemInput{
			{ItemName: "Widget", Quantity: 10, UnitPrice: 5.00, InventoryItemID: &inventory.ID},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	shipment, err := orders.CreateShipment(order.ID, officer, CreateShipmentInput{
		Items: []ShipmentItemInput{
			{PurchaseOrderItemID: order.Items[0].ID, QuantityShipped: 10},
		},
	})
	if err != nil {
		t.Fatalf("create shipment: %v", err)
	}

	return receiptFixture{
		officer:     officer,
		order:       order,
		shipment:    shipment,
		inventory:   inventory,
		requisition: requisition,
	}
}

func quantity(n int) *int { return &n }

func TestPartialReceiptPostsDeltaAndMarksOrderPartial(t *testing.T) {
	db := setupTestDB(t)
	service := NewReceiptService(db)
	fixture := buildReceiptChain(t, service)

	result, err := service.Receive(fixture.shipment.ID, fixture.officer, []ReceiveLineInput{
		{ShipmentItemID: fixture.shipment.Items[0].ID, QuantityReceived: quantity(6)},
	})
	if err != nil {
		t.Fatalf("receive: %v", err)
	}

	if len(result.Lines) != 1 || result.Lines[0].Status != LineApplied {
		t.Fatalf("expected one applied line, got %+v", result.Lines)
	}
	if result.Lines[0].Delta != 6 {
		t.Errorf("expected delta 6, got %d", result.Lines[0].Delta)
	}
	if result.ShipmentComplete {
		t.Error("shipment must not be complete after a partial receipt")
	}
	if result.OrderStatus != models.OrderPartial {
		t.Errorf("expected order partial, got %s", result.OrderStatus)
	}
	if result.RequisitionCompleted {
		t.Error("requisition must not complete on a partial receipt")
	}

	var item models.InventoryItem
	db.First(&item, fixture.inventory.ID)
	if item.CurrentQuantity != 6 {
		t.Errorf("expected inventory 6, got %d", item.CurrentQuantity)
	}

	var transactions []models.InventoryTransaction
	db.Where("item_id = ?", fixture.inventory.ID).Find(&transactions)
	if len(transactions) != 1 {
		t.Fatalf("expected one ledger transaction, got %d", len(transactions))
	}
	if transactions[0].TransactionType != models.TransactionReceipt {
		t.Errorf("expected receipt transaction, got %s", transactions[0].TransactionType)
	}
	if transactions[0].Reference != fixture.order.PONumber {
		t.Errorf("expected reference %q, got %q", fixture.order.PONumber, transactions[0].Reference)
	}
}

func TestSecondReceiptCompletesShipmentOrderAndRequisition(t *testing.T) {
	db := setupTestDB(t)
	service := NewReceiptService(db)
	fixture := buildReceiptChain(t, service)

	shipmentItemID := fixture.shipment.Items[0].ID
	if _, err := service.Receive(fixture.shipment.ID, fixture.officer, []ReceiveLineInput{
		{ShipmentItemID: shipmentItemID, QuantityReceived: quantity(6)},
	}); err != nil {
		t.Fatalf("first receive: %v", err)
	}

	result, err := service.Receive(fixture.shipment.ID, fixture.officer, []ReceiveLineInput{
		{ShipmentItemID: shipmentItemID, QuantityReceived: quantity(10)},
	})
	if err != nil {
		t.Fatalf("second receive: %v", err)
	}

	if result.Lines[0].Delta != 4 {
		t.Errorf("expected delta 4 on top-up, got %d", result.Lines[0].Delta)
	}
	if !result.ShipmentComplete {
		t.Error("expected shipment complete")
	}
	if result.OrderStatus != models.OrderComplete {
		t.Errorf("expected order complete, got %s", result.OrderStatus)
	}
	if !result.RequisitionCompleted {
		t.Error("expected requisition completed through the cascade")
	}

	var requisition models.Requisition
	db.First(&requisition, fixture.requisition.ID)
	if requisition.Status != models.RequisitionCompleted {
		t.Errorf("expected requisition completed, got %s", requisition.Status)
	}

	var item models.InventoryItem
	db.First(&item, fixture.inventory.ID)
	if item.CurrentQuantity != 10 {
		t.Errorf("expected inventory 10, got %d", item.CurrentQuantity)
	}
}

func TestOverReceiptClampsToShipped(t *testing.T) {
	db := setupTestDB(t)
	service := NewReceiptService(db)
	fixture := buildReceiptChain(t, service)

	result, err := service.Receive(fixture.shipment.ID, fixture.officer, []ReceiveLineInput{
		{ShipmentItemID: fixture.shipment.Items[0].ID, QuantityReceived: quantity(15)},
	})
	if err != nil {
		t.Fatalf("receive: %v", err)
	}

	if result.Lines[0].QuantityReceived != 10 {
		t.Errorf("expected clamp to 10, got %d", result.Lines[0].QuantityReceived)
	}
	if !result.ShipmentComplete {
		t.Error("clamped full receipt should complete the shipment")
	}

	var item models.InventoryItem
	db.First(&item, fixture.inventory.ID)
	if item.CurrentQuantity != 10 {
		t.Errorf("expected inventory 10, got %d", item.CurrentQuantity)
	}
}

func TestReceivedQuantityNeverDecreases(t *testing.T) {
	db := setupTestDB(t)
	service := NewReceiptService(db)
	fixture := buildReceiptChain(t, service)

	shipmentItemID := fixture.shipment.Items[0].ID
	if _, err := service.Receive(fixture.shipment.ID, fixture.officer, []ReceiveLineInput{
		{ShipmentItemID: shipmentItemID, QuantityReceived: quantity(8)},
	}); err != nil {
		t.Fatalf("first receive: %v", err)
	}

	result, err := service.Receive(fixture.shipment.ID, fixture.officer, []ReceiveLineInput{
		{ShipmentItemID: shipmentItemID, QuantityReceived: quantity(3)},
	})
	if err != nil {
		t.Fatalf("second receive: %v", err)
	}

	if result.Lines[0].QuantityReceived != 8 {
		t.Errorf("expected received to hold at 8, got %d", result.Lines[0].QuantityReceived)
	}
	if result.Lines[0].Delta != 0 {
		t.Errorf("expected zero delta, got %d", result.Lines[0].Delta)
	}

	var transactions int64
	db.Model(&models.InventoryTransaction{}).Where("item_id = ?", fixture.inventory.ID).Count(&transactions)
	if transactions != 1 {
		t.Errorf("expected no ledger posting for a zero delta, found %d transactions", transactions)
	}
}

func TestReceiveSkipsBadLinesKeepsGoodOnes(t *testing.T) {
	db := setupTestDB(t)
	service := NewReceiptService(db)
	fixture := buildReceiptChain(t, service)

	result, err := service.Receive(fixture.shipment.ID, fixture.officer, []ReceiveLineInput{
		{ShipmentItemID: 9999, QuantityReceived: quantity(5)},
		{ShipmentItemID: fixture.shipment.Items[0].ID},
		{ShipmentItemID: fixture.shipment.Items[0].ID, QuantityReceived: quantity(4)},
	})
	if err != nil {
		t.Fatalf("receive: %v", err)
	}

	if len(result.Lines) != 3 {
		t.Fatalf("expected 3 line results, got %d", len(result.Lines))
	}
	if result.Lines[0].Status != LineSkipped || result.Lines[0].Reason != "unknown shipment item" {
		t.Errorf("unexpected first line result: %+v", result.Lines[0])
	}
	if result.Lines[1].Status != LineSkipped || result.Lines[1].Reason != "missing quantity" {
		t.Errorf("unexpected second line result: %+v", result.Lines[1])
	}
	if result.Lines[2].Status != LineApplied || result.Lines[2].Delta != 4 {
		t.Errorf("unexpected third line result: %+v", result.Lines[2])
	}

	var item models.InventoryItem
	db.First(&item, fixture.inventory.ID)
	if item.CurrentQuantity != 4 {
		t.Errorf("expected inventory 4, got %d", item.CurrentQuantity)
	}
}

func TestReceiveGuards(t *testing.T) {
	db := setupTestDB(t)
	service := NewReceiptService(db)
	fixture := buildReceiptChain(t, service)
	requester := createUser(t, db, models.RoleRequester)

	if _, err := service.Receive(fixture.shipment.ID, requester, []ReceiveLineInput{
		{ShipmentItemID: fixture.shipment.Items[0].ID, QuantityReceived: quantity(1)},
	}); apperr.HTTPStatus(err) != 403 {
		t.Errorf("expected authorization error for requester, got %v", err)
	}

	if _, err := service.Receive(fixture.shipment.ID, fixture.officer, nil); apperr.HTTPStatus(err) != 400 {
		t.Errorf("expected validation error for empty batch, got %v", err)
	}

	if _, err := service.Receive(9999, fixture.officer, []ReceiveLineInput{
		{ShipmentItemID: 1, QuantityReceived: quantity(1)},
	}); apperr.HTTPStatus(err) != 404 {
		t.Errorf("expected not found for unknown shipment, got %v", err)
	}
}

func TestAllLinesSkippedLeavesShipmentOpen(t *testing.T) {
	db := setupTestDB(t)
	service := NewReceiptService(db)
	fixture := buildReceiptChain(t, service)

	result, err := service.Receive(fixture.shipment.ID, fixture.officer, []ReceiveLineInput{
		{ShipmentItemID: 9999, QuantityReceived: quantity(5)},
	})
	if err != nil {
		t.Fatalf("receive: %v", err)
	}

	if result.ShipmentComplete {
		t.Error("a batch with nothing applied must not complete the shipment")
	}
	if result.OrderStatus != models.OrderPartial {
		t.Errorf("expected order partial, got %s", result.OrderStatus)
	}
}
