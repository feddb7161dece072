package entities

import "fmt"

// ItemID represents the primary key of an item master record
type ItemID int64

// Quantity represents an integer quantity of packs in a batch
type Quantity int64

// Item represents a pharmaceutical product master record
type Item struct {
	ID        ItemID
	ProductID string
	Label     string
}

// NewItem creates a validated Item
func NewItem(id ItemID, productID, label string) (*Item, error) {
	if id <= 0 {
		return nil, fmt.Errorf("item id must be positive, got %d", id)
	}
	if label == "" {
		return nil, fmt.Errorf("label cannot be empty")
	}

	return &Item{
		ID:        id,
		ProductID: productID,
		Label:     label,
	}, nil
}
