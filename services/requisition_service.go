package services

import (
	"errors"
	"fmt"
	"time"

	"procurement-app/apperr"
	"procurement-app/config"
	"procurement-app/models"
	"procurement-app/repositories"

	"gorm.io/gorm"
)

// RequisitionService drives the requisition lifecycle:
// draft -> pending_approval -> approved|rejected, approved -> ordered ->
// completed, with cancellation from any pre-ordered state.
type RequisitionService struct {
	DB *gorm.DB
}

func NewRequisitionService(db *gorm.DB) *RequisitionService {
	return &RequisitionService{DB: db}
}

type RequisitionItemInput struct {
	ItemName           string  `json:"item_name" validate:"required"`
	Description        string  `json:"description"`
	Quantity           int     `json:"quantity" validate:"required,min=1"`
	UnitOfMeasure      string  `json:"unit_of_measure"`
	EstimatedUnitPrice float64 `json:"estimated_unit_price" validate:"min=0"`
	InventoryItemID    *uint   `json:"inventory_item_id"`
	SuggestedVendorIDs []uint  `json:"suggested_vendor_ids"`
}

type CreateRequisitionInput struct {
	Title         string                 `json:"title" validate:"required"`
	Department    string                 `json:"department" validate:"required"`
	DateNeeded    *time.Time             `json:"date_needed"`
	Priority      string                 `json:"priority"`
	Justification string                 `json:"justification"`
	Notes         string                 `json:"notes"`
	Submit        bool                   `json:"submit"`
	Items         []RequisitionItemInput `json:"items"`
}

type UpdateRequisitionInput struct {
	Title         *string    `json:"title"`
	Department    *string    `json:"department"`
	DateNeeded    *time.Time `json:"date_needed"`
	Priority      *string    `json:"priority"`
	Justification *string    `json:"justification"`
	Notes         *string    `json:"notes"`
	Status        *string    `json:"status"`
	Comments      string     `json:"comments"`
}

// DecisionResult reports what one approve/reject call did.
type DecisionResult struct {
	Requisition   *models.Requisition `json:"requisition"`
	ApprovalCount int                 `json:"approval_count"`
	Message       string              `json:"message"`
}

// Create opens a new requisition in draft, owned by the requester. With
// Submit set it immediately moves to pending_approval.
func (s *RequisitionService) Create(requester models.User, input CreateRequisitionInput) (*models.Requisition, error) {
	requisition := models.Requisition{
		Title:         input.Title,
		Department:    input.Department,
		RequesterID:   requester.ID,
		Status:        models.RequisitionDraft,
		DateNeeded:    input.DateNeeded,
		Priority:      input.Priority,
		Justification: input.Justification,
		Notes:         input.Notes,
	}
	if requisition.Priority == "" {
		requisition.Priority = "medium"
	}
	if input.Submit {
		requisition.Status = models.RequisitionPendingApproval
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&requisition).Error; err != nil {
			return err
		}

		for _, itemInput := range input.Items {
			if _, err := s.createItem(tx, requisition.ID, itemInput); err != nil {
				return err
			}
		}

		return s.RecalculateTotal(tx, requisition.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.reload(requisition.ID)
}

// Submit moves a draft to pending_approval. Only the requester (or an
// officer/admin) may submit.
func (s *RequisitionService) Submit(id uint, actor models.User) (*models.Requisition, error) {
	requisition, err := s.reload(id)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnership(requisition, actor); err != nil {
		return nil, err
	}
	if requisition.Status != models.RequisitionDraft {
		return nil, apperr.StateConflict("cannot submit requisition in %s state", requisition.Status)
	}

	requisition.Status = models.RequisitionPendingApproval
	if err := s.DB.Save(requisition).Error; err != nil {
		return nil, err
	}
	return requisition, nil
}

// Decide records one approver's verdict. Only requisitions in
// pending_approval accept decisions. A repeated decision by the same
// approver overwrites the earlier row instead of duplicating it. Rejection
// is final immediately; approval promotes either through the admin fast path
// or once the configured number of distinct approvers is reached.
func (s *RequisitionService) Decide(id uint, actor models.User, approved bool, comments string) (*DecisionResult, error) {
	if !actor.Role.CanManageProcurement() {
		return nil, apperr.Authorization("only procurement officers or admins may approve requisitions")
	}

	result := &DecisionResult{}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var requisition models.Requisition
		if err := repositories.LockForUpdate(tx).First(&requisition, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("requisition %d not found", id)
			}
			return err
		}

		if requisition.Status != models.RequisitionPendingApproval {
			return apperr.StateConflict("cannot approve/reject requisition in %s state", requisition.Status)
		}

		if err := s.upsertApproval(tx, requisition.ID, actor.ID, approved, comments); err != nil {
			return err
		}

		if !approved {
			requisition.Status = models.RequisitionRejected
			result.Message = "Requisition has been rejected."
			return s.saveStatus(tx, &requisition, result)
		}

		if actor.Role == models.RoleAdmin {
			// Admin approval is sufficient on its own.
			requisition.Status = models.RequisitionApproved
			result.Message = "Requisition has been approved."
			return s.saveStatus(tx, &requisition, result)
		}

		count, err := repositories.NewRequisitionRepository(tx).ApprovalCount(requisition.ID)
		if err != nil {
			return err
		}
		result.ApprovalCount = count

		if count >= config.ApprovalThreshold {
			requisition.Status = models.RequisitionApproved
			result.Message = "Requisition has been approved with multiple approvers."
			return s.saveStatus(tx, &requisition, result)
		}

		result.Message = "Approval recorded. Awaiting additional approvals."
		result.Requisition = &requisition
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Update applies guarded field and status changes. Field edits are allowed
// to the owner only while the requisition is a draft; status transitions
// belong to officers and admins.
func (s *RequisitionService) Update(id uint, actor models.User, input UpdateRequisitionInput) (*models.Requisition, error) {
	requisition, err := s.reload(id)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnership(requisition, actor); err != nil {
		return nil, err
	}
	if requisition.Status == models.RequisitionCompleted || requisition.Status == models.RequisitionCancelled {
		return nil, apperr.StateConflict("cannot update requisition in %s state", requisition.Status)
	}

	if input.Status != nil && models.RequisitionStatus(*input.Status) != requisition.Status {
		if err := s.applyStatusChange(requisition, actor, models.RequisitionStatus(*input.Status), input.Comments); err != nil {
			return nil, err
		}
	}

	fieldChange := input.Title != nil || input.Department != nil || input.DateNeeded != nil ||
		input.Priority != nil || input.Justification != nil || input.Notes != nil
	if fieldChange {
		if requisition.Status != models.RequisitionDraft {
			return nil, apperr.StateConflict("fields can only be edited while the requisition is a draft")
		}
		if input.Title != nil {
			requisition.Title = *input.Title
		}
		if input.Department != nil {
			requisition.Department = *input.Department
		}
		if input.DateNeeded != nil {
			requisition.DateNeeded = input.DateNeeded
		}
		if input.Priority != nil {
			requisition.Priority = *input.Priority
		}
		if input.Justification != nil {
			requisition.Justification = *input.Justification
		}
		if input.Notes != nil {
			requisition.Notes = *input.Notes
		}
	}

	if err := s.DB.Save(requisition).Error; err != nil {
		return nil, err
	}
	return requisition, nil
}

// applyStatusChange validates an explicit status transition requested over
// the update endpoint. ordered and completed are driven by the purchase
// order engine and cannot be set directly.
func (s *RequisitionService) applyStatusChange(requisition *models.Requisition, actor models.User, target models.RequisitionStatus, comments string) error {
	if !actor.Role.CanManageProcurement() {
		return apperr.Authorization("only procurement officers or admins may change requisition status")
	}

	current := requisition.Status

	switch target {
	case models.RequisitionPendingApproval:
		if current != models.RequisitionDraft {
			return apperr.StateConflict("cannot submit requisition in %s state", current)
		}
	case models.RequisitionApproved, models.RequisitionRejected:
		if current != models.RequisitionPendingApproval {
			return apperr.StateConflict("cannot approve/reject requisition in %s state", current)
		}
		approved := target == models.RequisitionApproved
		if comments == "" {
			if approved {
				comments = "Approved"
			} else {
				comments = "Rejected"
			}
		}
		if err := s.upsertApproval(s.DB, requisition.ID, actor.ID, approved, comments); err != nil {
			return err
		}
	case models.RequisitionCancelled:
		// Any pre-ordered state may be cancelled.
		switch current {
		case models.RequisitionDraft, models.RequisitionPendingApproval, models.RequisitionApproved, models.RequisitionRejected:
		default:
			return apperr.StateConflict("cannot cancel requisition in %s state", current)
		}
	default:
		return apperr.StateConflict("status %s cannot be set directly", target)
	}

	requisition.Status = target
	return nil
}

// Delete removes a requisition that has not progressed past approval intake.
func (s *RequisitionService) Delete(id uint, actor models.User) error {
	requisition, err := s.reload(id)
	if err != nil {
		return err
	}

	if err := s.checkOwnership(requisition, actor); err != nil {
		return err
	}
	if requisition.Status != models.RequisitionDraft && requisition.Status != models.RequisitionPendingApproval {
		return apperr.StateConflict("cannot delete requisition in %s state", requisition.Status)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("requisition_id = ?", requisition.ID).Delete(&models.RequisitionItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(requisition).Error
	})
}

// AddItem appends a line to a draft requisition and refreshes the total.
func (s *RequisitionService) AddItem(requisitionID uint, actor models.User, input RequisitionItemInput) (*models.RequisitionItem, error) {
	requisition, err := s.reload(requisitionID)
	if err != nil {
		return nil, err
	}
	if err := s.checkItemMutation(requisition, actor); err != nil {
		return nil, err
	}

	var item *models.RequisitionItem
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		created, err := s.createItem(tx, requisition.ID, input)
		if err != nil {
			return err
		}
		item = created
		return s.RecalculateTotal(tx, requisition.ID)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem rewrites a line on a draft requisition. The estimated cost is
// recomputed from quantity and unit price on every write.
func (s *RequisitionService) UpdateItem(requisitionID, itemID uint, actor models.User, input RequisitionItemInput) (*models.RequisitionItem, error) {
	requisition, err := s.reload(requisitionID)
	if err != nil {
		return nil, err
	}
	if err := s.checkItemMutation(requisition, actor); err != nil {
		return nil, err
	}

	var item models.RequisitionItem
	if err := s.DB.Where("requisition_id = ?", requisitionID).First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("requisition item %d not found", itemID)
		}
		return nil, err
	}

	item.ItemName = input.ItemName
	item.Description = input.Description
	item.Quantity = input.Quantity
	item.UnitOfMeasure = input.UnitOfMeasure
	item.EstimatedUnitPrice = input.EstimatedUnitPrice
	item.EstimatedCost = float64(input.Quantity) * input.EstimatedUnitPrice
	item.InventoryItemID = input.InventoryItemID

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return s.RecalculateTotal(tx, requisitionID)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes a line from a draft requisition and refreshes the total.
func (s *RequisitionService) DeleteItem(requisitionID, itemID uint, actor models.User) error {
	requisition, err := s.reload(requisitionID)
	if err != nil {
		return err
	}
	if err := s.checkItemMutation(requisition, actor); err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("requisition_id = ?", requisitionID).Delete(&models.RequisitionItem{}, itemID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("requisition item %d not found", itemID)
		}
		return s.RecalculateTotal(tx, requisitionID)
	})
}

// RecalculateTotal is the explicit aggregation step: the stored total is the
// sum of the live items' estimated costs, nothing else.
func (s *RequisitionService) RecalculateTotal(tx *gorm.DB, requisitionID uint) error {
	var total float64
	err := tx.Model(&models.RequisitionItem{}).
		Where("requisition_id = ?", requisitionID).
		Select("COALESCE(SUM(estimated_cost), 0)").
		Scan(&total).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.Requisition{}).
		Where("id = ?", requisitionID).
		Update("total_estimated_cost", total).Error
}

// MarkOrdered links a requisition to the purchase order created from it and
// forces the status to ordered. The order engine is trusted to have
// validated upstream; no approval check happens here.
func (s *RequisitionService) MarkOrdered(tx *gorm.DB, requisitionID, purchaseOrderID uint) error {
	var requisition models.Requisition
	if err := tx.First(&requisition, requisitionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("requisition %d not found", requisitionID)
		}
		return err
	}

	requisition.PurchaseOrderID = &purchaseOrderID
	requisition.Status = models.RequisitionOrdered
	return tx.Save(&requisition).Error
}

func (s *RequisitionService) createItem(tx *gorm.DB, requisitionID uint, input RequisitionItemInput) (*models.RequisitionItem, error) {
	if input.Quantity <= 0 {
		return nil, apperr.Validation("item quantity must be a positive integer")
	}

	item := models.RequisitionItem{
		RequisitionID:      requisitionID,
		ItemName:           input.ItemName,
		Description:        input.Description,
		Quantity:           input.Quantity,
		UnitOfMeasure:      input.UnitOfMeasure,
		EstimatedUnitPrice: input.EstimatedUnitPrice,
		EstimatedCost:      float64(input.Quantity) * input.EstimatedUnitPrice,
		InventoryItemID:    input.InventoryItemID,
	}
	if err := tx.Create(&item).Error; err != nil {
		return nil, err
	}

	if len(input.SuggestedVendorIDs) > 0 {
		var vendors []models.Vendor
		if err := tx.Find(&vendors, input.SuggestedVendorIDs).Error; err != nil {
			return nil, err
		}
		if err := tx.Model(&item).Association("SuggestedVendors").Append(vendors); err != nil {
			return nil, err
		}
	}

	return &item, nil
}

// upsertApproval keeps one decision row per (requisition, approver) pair.
func (s *RequisitionService) upsertApproval(tx *gorm.DB, requisitionID, approverID uint, approved bool, comments string) error {
	var approval models.RequisitionApproval
	err := tx.Where("requisition_id = ? AND approver_id = ?", requisitionID, approverID).
		First(&approval).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		approval = models.RequisitionApproval{
			RequisitionID: requisitionID,
			ApproverID:    approverID,
			Approved:      approved,
			Comments:      comments,
		}
		return tx.Create(&approval).Error
	}
	if err != nil {
		return err
	}

	approval.Approved = approved
	approval.Comments = comments
	return tx.Save(&approval).Error
}

func (s *RequisitionService) saveStatus(tx *gorm.DB, requisition *models.Requisition, result *DecisionResult) error {
	if err := tx.Save(requisition).Error; err != nil {
		return err
	}
	result.Requisition = requisition
	return nil
}

func (s *RequisitionService) checkOwnership(requisition *models.Requisition, actor models.User) error {
	if requisition.RequesterID == actor.ID || actor.Role.CanManageProcurement() {
		return nil
	}
	return apperr.Authorization("you don't have permission to modify requisition %d", requisition.ID)
}

func (s *RequisitionService) checkItemMutation(requisition *models.Requisition, actor models.User) error {
	if err := s.checkOwnership(requisition, actor); err != nil {
		return err
	}
	if requisition.Status != models.RequisitionDraft {
		return apperr.StateConflict("items can only be changed while the requisition is a draft, not %s", requisition.Status)
	}
	return nil
}

func (s *RequisitionService) reload(id uint) (*models.Requisition, error) {
	var requisition models.Requisition
	err := s.DB.Preload("Items").Preload("Approvals").First(&requisition, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("requisition %d not found", id)
		}
		return nil, fmt.Errorf("load requisition %d: %w", id, err)
	}
	return &requisition, nil
}
