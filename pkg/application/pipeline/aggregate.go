package pipeline

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/pharmadash/pkg/application/dto"
	"github.com/vsinha/pharmadash/pkg/domain/entities"
)

// SortByExpiry returns a copy ordered by ascending expiry date. Equal dates
// keep their input order.
func SortByExpiry(points []dto.ExpiryPoint) []dto.ExpiryPoint {
	sorted := make([]dto.ExpiryPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExpiryDate.Before(sorted[j].ExpiryDate)
	})
	return sorted
}

// AverageTimeToMarket computes the mean receipt-to-release delay per product,
// ascending by average. Batches missing either date do not contribute and a
// product with no usable batch is omitted.
func AverageTimeToMarket(batches []*entities.Batch) []dto.TimeToMarket {
	type acc struct {
		sum   int64
		count int64
	}
	byProduct := make(map[string]*acc)
	for _, batch := range batches {
		days, ok := batch.TimeToMarketDays()
		if !ok {
			continue
		}
		a, exists := byProduct[batch.Product]
		if !exists {
			a = &acc{}
			byProduct[batch.Product] = a
		}
		a.sum += int64(days)
		a.count++
	}

	result := make([]dto.TimeToMarket, 0, len(byProduct))
	for product, a := range byProduct {
		result = append(result, dto.TimeToMarket{
			Product:     product,
			AverageDays: decimal.NewFromInt(a.sum).Div(decimal.NewFromInt(a.count)),
			Batches:     int(a.count),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if c := result[i].AverageDays.Cmp(result[j].AverageDays); c != 0 {
			return c < 0
		}
		return result[i].Product < result[j].Product
	})
	return result
}

type quantityKey struct {
	productID string
	label     string
}

// QuantityByProductLabel sums quantity per (product id, label), ascending by
// total. Rows without a matching item have no key and are dropped.
func QuantityByProductLabel(rows []JoinedBatch) []dto.QuantityTotal {
	return sumQuantities(rows, func(row JoinedBatch) quantityKey {
		return quantityKey{productID: row.ProductID(), label: row.Label()}
	})
}

// QuantityByLabel sums quantity per label, ascending by total
func QuantityByLabel(rows []JoinedBatch) []dto.QuantityTotal {
	return sumQuantities(rows, func(row JoinedBatch) quantityKey {
		return quantityKey{label: row.Label()}
	})
}

func sumQuantities(rows []JoinedBatch, keyFn func(JoinedBatch) quantityKey) []dto.QuantityTotal {
	totals := make(map[quantityKey]entities.Quantity)
	for _, row := range rows {
		if row.Item == nil {
			continue
		}
		totals[keyFn(row)] += row.Batch.Quantity
	}

	keys := make([]quantityKey, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	// groups are enumerated in key order so that equal totals are stable
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].productID != keys[j].productID {
			return keys[i].productID < keys[j].productID
		}
		return keys[i].label < keys[j].label
	})

	result := make([]dto.QuantityTotal, len(keys))
	for i, k := range keys {
		result[i] = dto.QuantityTotal{ProductID: k.productID, Label: k.label, TotalQuantity: totals[k]}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalQuantity < result[j].TotalQuantity
	})
	return result
}

// TopN returns the n largest totals of an ascending sequence, still ascending
func TopN(ascending []dto.QuantityTotal, n int) []dto.QuantityTotal {
	if n < 0 {
		n = 0
	}
	start := len(ascending) - n
	if start < 0 {
		start = 0
	}
	result := make([]dto.QuantityTotal, len(ascending)-start)
	copy(result, ascending[start:])
	return result
}

// DistinctProducts lists batch products in order of first appearance
func DistinctProducts(batches []*entities.Batch) []string {
	seen := make(map[string]bool)
	var products []string
	for _, batch := range batches {
		if seen[batch.Product] {
			continue
		}
		seen[batch.Product] = true
		products = append(products, batch.Product)
	}
	return products
}

// ValidateSelection checks selected is one of the observed products
func ValidateSelection(products []string, selected string) error {
	for _, p := range products {
		if p == selected {
			return nil
		}
	}
	return &SelectionError{Product: selected}
}
