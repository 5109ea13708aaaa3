package services

import (
	"testing"

	"procurement-app/apperr"
	"procurement-app/models"
)

func TestLedgerPostReceiptAddsStock(t *testing.T) {
	db := setupTestDB(t)
	officer := createUser(t, db, models.RoleProcurementOfficer)
	item := createInventoryItem(t, db, 10)

	ledger := NewLedgerService(db)
	transaction, err := ledger.Post(item.ID, models.TransactionReceipt, 5, 2.50, officer.ID, "PO-1", "")
	if err != nil {
		t.Fatalf("post receipt: %v", err)
	}

	if transaction.PreviousQuantity != 10 || transaction.NewQuantity != 15 {
		t.Errorf("expected snapshot 10 -> 15, got %d -> %d", transaction.PreviousQuantity, transaction.NewQuantity)
	}

	var reloaded models.InventoryItem
	if err := db.First(&reloaded, item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if reloaded.CurrentQuantity != 15 {
		t.Errorf("expected current quantity 15, got %d", reloaded.CurrentQuantity)
	}
}

func TestLedgerPostIssueFloorsAtZero(t *testing.T) {
	db := setupTestDB(t)
	officer := createUser(t, db, models.RoleProcurementOfficer)
	item := createInventoryItem(t, db, 3)

	ledger := NewLedgerService(db)
	transaction, err := ledger.Post(item.ID, models.TransactionIssue, 10, 0, officer.ID, "", "over-issue")
	if err != nil {
		t.Fatalf("post issue: %v", err)
	}

	if transaction.NewQuantity != 0 {
		t.Errorf("expected new quantity floored at 0, got %d", transaction.NewQuantity)
	}

	var reloaded models.InventoryItem
	db.First(&reloaded, item.ID)
	if reloaded.CurrentQuantity != 0 {
		t.Errorf("expected current quantity 0, got %d", reloaded.CurrentQuantity)
	}
}

func TestLedgerPostAdjustmentSetsAbsolute(t *testing.T) {
	db := setupTestDB(t)
	officer := createUser(t, db, models.RoleProcurementOfficer)
	item := createInventoryItem(t, db, 42)

	ledger := NewLedgerService(db)

	// An adjustment to zero is the one legal zero-quantity posting.
	transaction, err := ledger.Post(item.ID, models.TransactionAdjustment, 0, 0, officer.ID, "", "stocktake")
	if err != nil {
		t.Fatalf("post adjustment: %v", err)
	}
	if transaction.PreviousQuantity != 42 || transaction.NewQuantity != 0 {
		t.Errorf("expected snapshot 42 -> 0, got %d -> %d", transaction.PreviousQuantity, transaction.NewQuantity)
	}
}

func TestLedgerPostRejectsBadInput(t *testing.T) {
	db := setupTestDB(t)
	officer := createUser(t, db, models.RoleProcurementOfficer)
	item := createInventoryItem(t, db, 5)

	ledger := NewLedgerService(db)

	if _, err := ledger.Post(item.ID, "teleport", 1, 0, officer.ID, "", ""); err == nil {
		t.Error("expected error for unknown transaction type")
	} else if apperr.HTTPStatus(err) != 400 {
		t.Errorf("expected validation error, got %v", err)
	}

	if _, err := ledger.Post(item.ID, models.TransactionReceipt, 0, 0, officer.ID, "", ""); err == nil {
		t.Error("expected error for zero-quantity receipt")
	}

	if _, err := ledger.Post(9999, models.TransactionReceipt, 1, 0, officer.ID, "", ""); err == nil {
		t.Error("expected error for unknown item")
	} else if apperr.HTTPStatus(err) != 404 {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestLedgerHistoryIsAppendOnlySnapshot(t *testing.T) {
	db := setupTestDB(t)
	officer := createUser(t, db, models.RoleProcurementOfficer)
	item := createInventoryItem(t, db, 0)

	ledger := NewLedgerService(db)
	steps := []struct {
		transactionType models.TransactionType
		quantity        int
		want            int
	}{
		{models.TransactionReceipt, 10, 10},
		{models.TransactionIssue, 4, 6},
		{models.TransactionReturn, 2, 8},
		{models.TransactionAdjustment, 5, 5},
	}

	for _, step := range steps {
		transaction, err := ledger.Post(item.ID, step.transactionType, step.quantity, 0, officer.ID, "", "")
		if err != nil {
			t.Fatalf("post %s: %v", step.transactionType, err)
		}
		if transaction.NewQuantity != step.want {
			t.Errorf("%s: expected new quantity %d, got %d", step.transactionType, step.want, transaction.NewQuantity)
		}
	}

	var transactions []models.InventoryTransaction
	if err := db.Where("item_id = ?", item.ID).Order("id asc").Find(&transactions).Error; err != nil {
		t.Fatalf("load transactions: %v", err)
	}
	if len(transactions) != len(steps) {
		t.Fatalf("expected %d transactions, got %d", len(steps), len(transactions))
	}
	for i := 1; i < len(transactions); i++ {
		if transactions[i].PreviousQuantity != transactions[i-1].NewQuantity {
			t.Errorf("transaction %d previous quantity %d does not chain from %d",
				i, transactions[i].PreviousQuantity, transactions[i-1].NewQuantity)
		}
	}
}
