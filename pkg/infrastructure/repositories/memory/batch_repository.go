package memory

import (
	"context"
	"fmt"

	"github.com/vsinha/pharmadash/pkg/domain/entities"
	"github.com/vsinha/pharmadash/pkg/domain/repositories"
)

// BatchRepository provides in-memory batch storage
type BatchRepository struct {
	batches []entities.Batch
	numbers map[entities.BatchNumber]int
}

// NewBatchRepository creates a new in-memory batch repository
func NewBatchRepository(expectedBatches int) *BatchRepository {
	return &BatchRepository{
		batches: make([]entities.Batch, 0, expectedBatches),
		numbers: make(map[entities.BatchNumber]int, expectedBatches),
	}
}

// Verify interface compliance
var _ repositories.BatchRepository = (*BatchRepository)(nil)

// LoadBatches loads batches into the repository
func (r *BatchRepository) LoadBatches(batches []*entities.Batch) error {
	for _, batch := range batches {
		if err := r.SaveBatch(batch); err != nil {
			return err
		}
	}
	return nil
}

// SaveBatch saves a batch, rejecting a batch number that is already stored
func (r *BatchRepository) SaveBatch(batch *entities.Batch) error {
	if _, exists := r.numbers[batch.BatchNumber]; exists {
		return fmt.Errorf("duplicate batch number: %s", batch.BatchNumber)
	}
	r.numbers[batch.BatchNumber] = len(r.batches)
	r.batches = append(r.batches, *batch)
	return nil
}

// GetAllBatches returns all batches in insertion order
func (r *BatchRepository) GetAllBatches(_ context.Context) ([]*entities.Batch, error) {
	batches := make([]*entities.Batch, 0, len(r.batches))
	for i := range r.batches {
		batches = append(batches, &r.batches[i])
	}
	return batches, nil
}
