package services

import (
	"time"

	"procurement-app/apperr"
	"procurement-app/models"
	"procurement-app/repositories"

	"gorm.io/gorm"
)

// ReceiptService reconciles received quantities against shipped quantities,
// posts the deltas to the inventory ledger and cascades completion up to the
// purchase order and the originating requisition.
type ReceiptService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewReceiptService(db *gorm.DB) *ReceiptService {
	return &ReceiptService{DB: db, Ledger: NewLedgerService(db)}
}

type ReceiveLineInput struct {
	ShipmentItemID   uint   `json:"shipment_item_id"`
	QuantityReceived *int   `json:"quantity_received"`
	ConditionNotes   string `json:"condition_notes"`
}

const (
	LineApplied = "applied"
	LineSkipped = "skipped"
)

// ReceiveLineResult tells the caller what happened to one line. Skips are a
// deliberate policy, not an accident, so they are reported explicitly.
type ReceiveLineResult struct {
	ShipmentItemID   uint   `json:"shipment_item_id"`
	Status           string `json:"status"`
	Reason           string `json:"reason,omitempty"`
	QuantityReceived int    `json:"quantity_received"`
	Delta            int    `json:"delta"`
}

type ReceiveResult struct {
	Lines                []ReceiveLineResult        `json:"lines"`
	ShipmentComplete     bool                       `json:"shipment_complete"`
	OrderStatus          models.PurchaseOrderStatus `json:"order_status"`
	RequisitionCompleted bool                       `json:"requisition_completed"`
}

// Receive processes one receipt batch against a shipment. Each applied line
// is its own atomic unit (shipment item write + ledger post); lines already
// applied stay applied if a later line fails. Unknown ids and missing
// quantities skip the line, never the batch.
func (s *ReceiptService) Receive(shipmentID uint, actor models.User, lines []ReceiveLineInput) (*ReceiveResult, error) {
	if !actor.Role.CanManageProcurement() {
		return nil, apperr.Authorization("only procurement officers or admins may receive shipments")
	}
	if len(lines) == 0 {
		return nil, apperr.Validation("no items specified for receipt")
	}

	shipment, err := repositories.NewOrderRepository(s.DB).GetShipment(shipmentID)
	if err != nil {
		return nil, err
	}

	// First receipt event pins the arrival date; later calls keep it.
	if shipment.ActualArrivalDate == nil {
		now := time.Now()
		shipment.ActualArrivalDate = &now
	}
	actorID := actor.ID
	shipment.ReceivedByID = &actorID

	itemsByID := make(map[uint]*models.ShipmentItem, len(shipment.Items))
	for i := range shipment.Items {
		itemsByID[shipment.Items[i].ID] = &shipment.Items[i]
	}

	result := &ReceiveResult{}
	applied := 0
	appliedComplete := true

	for _, line := range lines {
		lineResult := ReceiveLineResult{ShipmentItemID: line.ShipmentItemID}

		item, ok := itemsByID[line.ShipmentItemID]
		if !ok {
			lineResult.Status = LineSkipped
			lineResult.Reason = "unknown shipment item"
			result.Lines = append(result.Lines, lineResult)
			continue
		}
		if line.QuantityReceived == nil || *line.QuantityReceived <= 0 {
			lineResult.Status = LineSkipped
			lineResult.Reason = "missing quantity"
			result.Lines = append(result.Lines, lineResult)
			continue
		}

		previous := item.QuantityReceived

		// Over-reports clamp to the shipped quantity; under-reports never
		// roll the received count backwards.
		received := *line.QuantityReceived
		if received > item.QuantityShipped {
			received = item.QuantityShipped
		}
		if received < previous {
			received = previous
		}

		item.QuantityReceived = received
		item.ConditionNotes = line.ConditionNotes
		delta := received - previous

		err := s.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(item).Error; err != nil {
				return err
			}
			if delta > 0 && item.PurchaseOrderItem.InventoryItemID != nil {
				_, err := s.Ledger.PostTx(tx,
					*item.PurchaseOrderItem.InventoryItemID,
					models.TransactionReceipt,
					delta,
					item.PurchaseOrderItem.UnitPrice,
					actor.ID,
					shipment.PurchaseOrder.PONumber,
					"")
				return err
			}
			return nil
		})
		if err != nil {
			item.QuantityReceived = previous
			lineResult.Status = LineSkipped
			lineResult.Reason = err.Error()
			result.Lines = append(result.Lines, lineResult)
			continue
		}

		applied++
		if !item.FullyReceived() {
			appliedComplete = false
		}

		lineResult.Status = LineApplied
		lineResult.QuantityReceived = received
		lineResult.Delta = delta
		result.Lines = append(result.Lines, lineResult)
	}

	if applied > 0 && appliedComplete {
		shipment.IsComplete = true
	}
	result.ShipmentComplete = shipment.IsComplete

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Shipment{}).Where("id = ?", shipment.ID).
			Updates(map[string]interface{}{
				"actual_arrival_date": shipment.ActualArrivalDate,
				"received_by_id":      shipment.ReceivedByID,
				"is_complete":         shipment.IsComplete,
			}).Error; err != nil {
			return err
		}

		status, requisitionCompleted, err := s.deriveOrderStatus(tx, shipment.PurchaseOrderID)
		if err != nil {
			return err
		}
		result.OrderStatus = status
		result.RequisitionCompleted = requisitionCompleted
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// deriveOrderStatus re-evaluates the purchase order after a receipt:
// complete when every shipment is complete, otherwise partial. Reaching
// complete also completes the requisition the order was created from.
func (s *ReceiptService) deriveOrderStatus(tx *gorm.DB, orderID uint) (models.PurchaseOrderStatus, bool, error) {
	shipments, err := repositories.NewOrderRepository(tx).ShipmentsForOrder(orderID)
	if err != nil {
		return "", false, err
	}

	allComplete := len(shipments) > 0
	for _, shipment := range shipments {
		if !shipment.IsComplete {
			allComplete = false
			break
		}
	}

	status := models.OrderPartial
	if allComplete {
		status = models.OrderComplete
	}

	if err := tx.Model(&models.PurchaseOrder{}).Where("id = ?", orderID).
		Update("status", status).Error; err != nil {
		return "", false, err
	}

	if !allComplete {
		return status, false, nil
	}

	requisition, err := repositories.NewRequisitionRepository(tx).FindByPurchaseOrder(orderID)
	if err != nil {
		return "", false, err
	}
	if requisition == nil {
		return status, false, nil
	}

	requisition.Status = models.RequisitionCompleted
	if err := tx.Save(requisition).Error; err != nil {
		return "", false, err
	}
	return status, true, nil
}
