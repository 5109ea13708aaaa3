package services

import (
	"testing"

	"procurement-app/apperr"
	"procurement-app/models"
)

func newRequisition(t *testing.T, service *RequisitionService, requester models.User, submit bool) *models.Requisition {
	t.Helper()

	requisition, err := service.Create(requester, CreateRequisitionInput{
		Title:      "Office restock",
		Department: "Operations",
		Submit:     submit,
		Items: []RequisitionItemInput{
			{ItemName: "Printer paper", Quantity: 10, EstimatedUnitPrice: 4.50},
			{ItemName: "Toner", Quantity: 2, EstimatedUnitPrice: 30.00},
		},
	})
	if err != nil {
		t.Fatalf("create requisition: %v", err)
	}
	return requisition
}

func TestCreateRequisitionComputesTotal(t *testing.T) {
	db := setupTestDB(t)
	requester := createUser(t, db, models.RoleRequester)
	service := NewRequisitionService(db)

	requisition := newRequisition(t, service, requester, false)

	if requisition.Status != models.RequisitionDraft {
		t.Errorf("expected draft, got %s", requisition.Status)
	}
	if requisition.TotalEstimatedCost != 105.00 {
		t.Errorf("expected total 105.00, got %.2f", requisition.TotalEstimatedCost)
	}
	if len(requisition.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(requisition.Items))
	}
}

func TestSubmitRequiresDraft(t *testing.T) {
	db := setupTestDB(t)
	requester := createUser(t, db, models.RoleRequester)
	stranger := createUser(t, db, models.RoleRequester)
	service := NewRequisitionService(db)

	requisition := newRequisition(t, service, requester, false)

	if _, err := service.Submit(requisition.ID, stranger); apperr.HTTPStatus(err) != 403 {
		t.Errorf("expected authorization error for non-owner, got %v", err)
	}

	submitted, err := service.Submit(requisition.ID, requester)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submitted.Status != models.RequisitionPendingApproval {
		t.Errorf("expected pending_approval, got %s", submitted.Status)
	}

	if _, err := service.Submit(requisition.ID, requester); apperr.HTTPStatus(err) != 409 {
		t.Errorf("expected state conflict on double submit, got %v", err)
	}
}

func TestApprovalThresholdPromotesOnSecondOfficer(t *testing.T) {
	db := setupTestDB(t)
	requester := createUser(t, db, models.RoleRequester)
	officer1 := createUser(t, db, models.RoleProcurementOfficer)
	officer2 := createUser(t, db, models.RoleProcurementOfficer)
	service := NewRequisitionService(db)

	requisition := newRequisition(t, service, requester, true)

	first, err := service.Decide(requisition.ID, officer1, true, "looks fine")
	if err != nil {
		t.Fatalf("first approval: %v", err)
	}
	if first.Requisition.Status != models.RequisitionPendingApproval {
		t.Errorf("expected still pending after one approval, got %s", first.Requisition.Status)
	}
	if first.ApprovalCount != 1 {
		t.Errorf("expected approval count 1, got %d", first.ApprovalCount)
	}

	second, err := service.Decide(requisition.ID, officer2, true, "agreed")
	if err != nil {
		t.Fatalf("second approval: %v", err)
	}
	if second.Requisition.Status != models.RequisitionApproved {
		t.Errorf("expected approved after second approval, got %s", second.Requisition.Status)
	}
}

func TestRepeatedApprovalBySameOfficerDoesNotPromote(t *testing.T) {
	db := setupTestDB(t)
	requester := createUser(t, db, models.RoleRequester)
	officer := createUser(t, db, models.RoleProcurementOfficer)
	service := NewRequisitionService(db)

	requisition := newRequisition(t, service, requester, true)

	for i := 0; i < 3; i++ {
		result, err := service.Decide(requisition.ID, officer, true, "still fine")
		if err != nil {
			t.Fatalf("approval %d: %v", i, err)
		}
		if result.Requisition.Status != models.RequisitionPendingApproval {
			t.Fatalf("approval %d: expected pending, got %s", i, result.Requisition.Status)
		}
		if result.ApprovalCount != 1 {
			t.Errorf("approval %d: expected one distinct approval, got %d", i, result.ApprovalCount)
		}
	}

	var approvals int64
	db.Model(&models.RequisitionApproval{}).Where("requisition_id = ?", requisition.ID).Count(&approvals)
	if approvals != 1 {
		t.Errorf("expected a single approval row, got %d", approvals)
	}
}

func TestAdminApprovalFastPath(t *testing.T) {
	db := setupTestDB(t)
	requester := createUser(t, db, models.RoleRequester)
	admin := createUser(t, db, models.RoleAdmin)
	service := NewRequisitionService(db)

	requisition := newRequisition(t, service, requester, true)

	result, err := service.Decide(requisition.ID, admin, true, "")
	if err != nil {
		t.Fatalf("admin approval: %v", err)
	}
	if result.Requisition.Status != models.RequisitionApproved {
		t.Errorf("expected approved via admin fast path, got %s", result.Requisition.Status)
	}
}

func TestSingleRejectionIsFinal(t *testing.T) {
	db := setupTestDB(t)
	requester := createUser(t, db, models.RoleRequester)
	officer1 := createUser(t, db, models.RoleProcurementOfficer)
	officer2 := createUser(t, db, models.RoleProcurementOfficer)
	service := NewRequisitionService(db)

	requisition := newRequisition(t, service, requester, true)

	result, err := service.Decide(requisition.ID, officer1, false, "budget freeze")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if result.Requisition.Status != models.RequisitionRejected {
		t.Errorf("expected rejected, got %s", result.Requisition.Status)
	}

	if _, err := service.Decide(requisition.ID, officer2, true, ""); apperr.HTTPStatus(err) != 409 {
		t.Errorf("expected state conflict approving a rejected requisition, got %v", err)
	}
}

func TestDecideRequiresPendingAndOfficer(t *testing.T) {
	db := setupTestDB(t)
	requester := createUser(t, db, models.RoleRequester)
	officer := createUser(t, db, models.RoleProcurementOfficer)
	service := NewRequisitionService(db)

	requisition := newRequisition(t, service, requester, false)

	if _, err := service.Decide(requisition.ID, requester, true, ""); apperr.HTTPStatus(err) != 403 {
		t.Errorf("expected authorization error for requester, got %v", err)
	}
	if _, err := service.Decide(requisition.ID, officer, true, ""); apperr.HTTPStatus(err) != 409 {
		t.Errorf("expected state conflict approving a draft, got %v", err)
	}
}

func TestItemMutationsOnlyOnDraft(t *testing.T) {
	db := setupTestDB(t)
	requester := createUser(t, db, models.RoleRequester)
	service := NewRequisitionService(db)

	requisition := newRequisition(t, service, requester, false)

	item, err := service.AddItem(requisition.ID, requester, RequisitionItemInput{
		ItemName: "Stapler", Quantity: 3, EstimatedUnitPrice: 8.00,
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if item.EstimatedCost != 24.00 {
		t.Errorf("expected estimated cost 24.00, got %.2f", item.EstimatedCost)
	}

	updated, err := service.UpdateItem(requisition.ID, item.ID, requester, RequisitionItemInput{
		ItemName: "Stapler", Quantity: 5, EstimatedUnitPrice: 8.00,
	})
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if updated.EstimatedCost != 40.00 {
		t.Errorf("expected recomputed cost 40.00, got %.2f", updated.EstimatedCost)
	}

	reloaded, err := service.reload(requisition.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.TotalEstimatedCost != 145.00 {
		t.Errorf("expected total 145.00 after item churn, got %.2f", reloaded.TotalEstimatedCost)
	}

	if _, err := service.Submit(requisition.ID, requester); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := service.AddItem(requisition.ID, requester, RequisitionItemInput{
		ItemName: "Late add", Quantity: 1, EstimatedUnitPrice: 1.00,
	}); apperr.HTTPStatus(err) != 409 {
		t.Errorf("expected state conflict adding to submitted requisition, got %v", err)
	}
	if err := service.DeleteItem(requisition.ID, item.ID, requester); apperr.HTTPStatus(err) != 409 {
		t.Errorf("expected state conflict deleting from submitted requisition, got %v", err)
	}
}

func TestDeleteItemRecalculatesTotal(t *testing.T) {
	db := setupTestDB(t)
	requester := createUser(t, db, models.RoleRequester)
	service := NewRequisitionService(db)

	requisition := newRequisition(t, service, requester, false)
	if err := service.DeleteItem(requisition.ID, requisition.Items[0].ID, requester); err != nil {
		t.Fatalf("delete item: %v", err)
	}

	reloaded, err := service.reload(requisition.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.TotalEstimatedCost != 60.00 {
		t.Errorf("expected total 60.00 after deleting the paper line, got %.2f", reloaded.TotalEstimatedCost)
	}
}

func TestCancelOnlyBeforeOrdered(t *testing.T) {
	db := setupTestDB(t)
	requester := createUser(t, db, models.RoleRequester)
	officer := createUser(t, db, models.RoleProcurementOfficer)
	service := NewRequisitionService(db)

	requisition := newRequisition(t, service, requester, true)

	cancelled := string(models.RequisitionCancelled)
	updated, err := service.Update(requisition.ID, officer, UpdateRequisitionInput{Status: &cancelled})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if updated.Status != models.RequisitionCancelled {
		t.Errorf("expected cancelled, got %s", updated.Status)
	}

	// Terminal states accept no further updates.
	title := "renamed"
	if _, err := service.Update(requisition.ID, officer, UpdateRequisitionInput{Title: &title}); apperr.HTTPStatus(err) != 409 {
		t.Errorf("expected state conflict updating cancelled requisition, got %v", err)
	}

	ordered := newRequisition(t, service, requester, true)
	if err := db.Model(&models.Requisition{}).Where("id = ?", ordered.ID).
		Update("status", models.RequisitionOrdered).Error; err != nil {
		t.Fatalf("force ordered: %v", err)
	}
	if _, err := service.Update(ordered.ID, officer, UpdateRequisitionInput{Status: &cancelled}); apperr.HTTPStatus(err) != 409 {
		t.Errorf("expected state conflict cancelling ordered requisition, got %v", err)
	}
}

func TestDeleteRequisitionStateGuard(t *testing.T) {
	db := setupTestDB(t)
	requester := createUser(t, db, models.RoleRequester)
	officer := createUser(t, db, models.RoleProcurementOfficer)
	service := NewRequisitionService(db)

	draft := newRequisition(t, service, requester, false)
	if err := service.Delete(draft.ID, requester); err != nil {
		t.Fatalf("delete draft: %v", err)
	}

	approvedReq := newRequisition(t, service, requester, true)
	admin := createUser(t, db, models.RoleAdmin)
	if _, err := service.Decide(approvedReq.ID, admin, true, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := service.Delete(approvedReq.ID, officer); apperr.HTTPStatus(err) != 409 {
		t.Errorf("expected state conflict deleting approved requisition, got %v", err)
	}
}
