package repositories

import (
	"context"

	"github.com/vsinha/pharmadash/pkg/domain/entities"
)

// BatchRepository provides access to batch data
type BatchRepository interface {
	GetAllBatches(ctx context.Context) ([]*entities.Batch, error)
}
