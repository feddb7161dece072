// Package pipeline holds the pure transformations between fetched entities
// and chart-ready result sets. No function mutates its input.
package pipeline

import (
	"time"

	"github.com/vsinha/pharmadash/pkg/application/dto"
	"github.com/vsinha/pharmadash/pkg/domain/entities"
)

// DefaultExpiryWindow approximates six months as a fixed number of days
const DefaultExpiryWindow = 182 * 24 * time.Hour

// JoinedBatch is one batch with its item attached. Item is nil when the
// batch references an unknown item id.
type JoinedBatch struct {
	Batch *entities.Batch
	Item  *entities.Item
}

// Label returns the item label or "" when unmatched
func (j JoinedBatch) Label() string {
	if j.Item == nil {
		return ""
	}
	return j.Item.Label
}

// ProductID returns the item product id or "" when unmatched
func (j JoinedBatch) ProductID() string {
	if j.Item == nil {
		return ""
	}
	return j.Item.ProductID
}

// Join left-joins batches to items on batch.item_id = item.id. The result has
// exactly one row per batch, in batch order.
func Join(batches []*entities.Batch, items []*entities.Item) []JoinedBatch {
	byID := make(map[entities.ItemID]*entities.Item, len(items))
	for _, item := range items {
		// first occurrence wins, matching a lookup on a unique key
		if _, exists := byID[item.ID]; !exists {
			byID[item.ID] = item
		}
	}

	joined := make([]JoinedBatch, len(batches))
	for i, batch := range batches {
		joined[i] = JoinedBatch{Batch: batch, Item: byID[batch.ItemID]}
	}
	return joined
}

// ExpiryCutoff returns the last expiry date still considered expiring
func ExpiryCutoff(now time.Time, window time.Duration) time.Time {
	return now.Add(window)
}

// FilterExpiring keeps rows whose expiry date is at or before now + window.
// Rows without an expiry date are dropped.
func FilterExpiring(rows []JoinedBatch, now time.Time, window time.Duration) []JoinedBatch {
	cutoff := ExpiryCutoff(now, window)
	result := make([]JoinedBatch, 0, len(rows))
	for _, row := range rows {
		expiry := row.Batch.ExpiryDate
		if expiry == nil || expiry.After(cutoff) {
			continue
		}
		result = append(result, row)
	}
	return result
}

// FilterByProduct keeps rows whose batch product equals product exactly
func FilterByProduct(rows []JoinedBatch, product string) []JoinedBatch {
	result := make([]JoinedBatch, 0, len(rows))
	for _, row := range rows {
		if row.Batch.Product == product {
			result = append(result, row)
		}
	}
	return result
}

// Project selects the columns plotted on expiry charts. Rows without an
// expiry date are skipped since they cannot be placed on a timeline.
func Project(rows []JoinedBatch) []dto.ExpiryPoint {
	points := make([]dto.ExpiryPoint, 0, len(rows))
	for _, row := range rows {
		if row.Batch.ExpiryDate == nil {
			continue
		}
		points = append(points, dto.ExpiryPoint{
			ProductID:   row.ProductID(),
			Label:       row.Label(),
			BatchNumber: row.Batch.BatchNumber,
			Product:     row.Batch.Product,
			ExpiryDate:  *row.Batch.ExpiryDate,
			Quantity:    row.Batch.Quantity,
		})
	}
	return points
}
