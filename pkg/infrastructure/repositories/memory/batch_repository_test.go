package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/vsinha/pharmadash/pkg/domain/entities"
)

func TestBatchRepository_LoadAndGet(t *testing.T) {
	repo := NewBatchRepository(2)

	batches := []*entities.Batch{
		{BatchNumber: "B-002", ItemID: 1, Product: "Cefepime", Quantity: 10, ExpiryDate: entities.Date(2026, 5, 1)},
		{BatchNumber: "B-001", ItemID: 2, Product: "Testavan", Quantity: 20},
	}

	if err := repo.LoadBatches(batches); err != nil {
		t.Fatalf("Failed to load batches: %v", err)
	}

	all, err := repo.GetAllBatches(context.Background())
	if err != nil {
		t.Fatalf("Failed to get batches: %v", err)
	}

	if len(all) != 2 {
		t.Fatalf("Expected 2 batches, got %d", len(all))
	}

	if all[0].BatchNumber != "B-002" || all[1].BatchNumber != "B-001" {
		t.Errorf("Expected insertion order B-002, B-001, got %s, %s", all[0].BatchNumber, all[1].BatchNumber)
	}

	if all[0].ExpiryDate == nil || !all[0].ExpiryDate.Equal(*entities.Date(2026, 5, 1)) {
		t.Errorf("Expected expiry date to survive storage, got %v", all[0].ExpiryDate)
	}
}

func TestBatchRepository_DuplicateBatchNumber(t *testing.T) {
	repo := NewBatchRepository(2)

	err := repo.LoadBatches([]*entities.Batch{
		{BatchNumber: "B-001", Product: "Cefepime"},
		{BatchNumber: "B-001", Product: "Testavan"},
	})
	if err == nil {
		t.Fatal("Expected error for duplicate batch number, got none")
	}

	if !strings.Contains(err.Error(), "duplicate batch number: B-001") {
		t.Errorf("Unexpected error: %v", err)
	}
}
