package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vsinha/pharmadash/pkg/domain/entities"
	"github.com/vsinha/pharmadash/pkg/domain/repositories"
)

// ItemRepository provides in-memory item storage
type ItemRepository struct {
	items    []entities.Item
	itemsMap map[entities.ItemID]int
}

// NewItemRepository creates a new in-memory item repository
func NewItemRepository(expectedItems int) *ItemRepository {
	return &ItemRepository{
		items:    make([]entities.Item, 0, expectedItems),
		itemsMap: make(map[entities.ItemID]int, expectedItems),
	}
}

// Verify interface compliance
var _ repositories.ItemRepository = (*ItemRepository)(nil)

// LoadItems loads items into the repository. Nothing is stored when the
// input repeats an id.
func (r *ItemRepository) LoadItems(items []*entities.Item) error {
	seen := make(map[entities.ItemID]bool, len(items))
	var duplicates []string
	for _, item := range items {
		_, stored := r.itemsMap[item.ID]
		if seen[item.ID] || stored {
			duplicates = append(duplicates, fmt.Sprint(item.ID))
		}
		seen[item.ID] = true
	}
	if len(duplicates) > 0 {
		sort.Strings(duplicates)
		return fmt.Errorf("Duplicate item ids found: %s", strings.Join(duplicates, ", "))
	}

	for _, item := range items {
		r.AddItem(*item)
	}
	return nil
}

// AddItem adds an item to the repository
func (r *ItemRepository) AddItem(item entities.Item) {
	r.itemsMap[item.ID] = len(r.items)
	r.items = append(r.items, item)
}

// SaveItem saves an item, rejecting an id that is already stored
func (r *ItemRepository) SaveItem(item *entities.Item) error {
	if _, exists := r.itemsMap[item.ID]; exists {
		return fmt.Errorf("duplicate item id: %d", item.ID)
	}
	r.AddItem(*item)
	return nil
}

// GetAllItems returns all items in insertion order
func (r *ItemRepository) GetAllItems(_ context.Context) ([]*entities.Item, error) {
	items := make([]*entities.Item, 0, len(r.items))
	for i := range r.items {
		items = append(items, &r.items[i])
	}
	return items, nil
}
