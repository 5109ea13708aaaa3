package repositories

import (
	"errors"

	"procurement-app/apperr"
	"procurement-app/models"

	"gorm.io/gorm"
)

type RequisitionRepository struct {
	db *gorm.DB
}

func NewRequisitionRepository(db *gorm.DB) *RequisitionRepository {
	return &RequisitionRepository{db: db}
}

// List returns the requisitions the actor may see: officers and admins see
// everything, everyone else only their own.
func (r *RequisitionRepository) List(actor models.User, status string) ([]models.Requisition, error) {
	query := r.db.Preload("Items").Order("created_at desc")

	if !actor.Role.CanManageProcurement() {
		query = query.Where("requester_id = ?", actor.ID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requisitions []models.Requisition
	if err := query.Find(&requisitions).Error; err != nil {
		return nil, err
	}
	return requisitions, nil
}

func (r *RequisitionRepository) GetByID(id uint) (*models.Requisition, error) {
	var requisition models.Requisition
	err := r.db.Preload("Items").Preload("Items.SuggestedVendors").
		Preload("Approvals").Preload("Requester").
		First(&requisition, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("requisition %d not found", id)
		}
		return nil, err
	}
	return &requisition, nil
}

// ApprovalCount tallies recorded positive decisions. Construct the
// repository on the caller's transaction to count inside its scope.
func (r *RequisitionRepository) ApprovalCount(requisitionID uint) (int, error) {
	var count int64
	err := r.db.Model(&models.RequisitionApproval{}).
		Where("requisition_id = ? AND approved = ?", requisitionID, true).
		Count(&count).Error
	return int(count), err
}

// FindByPurchaseOrder resolves the requisition that was converted into the
// given purchase order, if any.
func (r *RequisitionRepository) FindByPurchaseOrder(purchaseOrderID uint) (*models.Requisition, error) {
	var requisition models.Requisition
	err := r.db.Where("purchase_order_id = ?", purchaseOrderID).First(&requisition).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &requisition, nil
}
