package repositories

import (
	"context"

	"github.com/vsinha/pharmadash/pkg/domain/entities"
)

// ItemRepository provides access to item master data
type ItemRepository interface {
	GetAllItems(ctx context.Context) ([]*entities.Item, error)
}
