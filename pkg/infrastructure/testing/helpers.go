package testing

import (
	"time"

	"github.com/vsinha/pharmadash/pkg/domain/entities"
	"github.com/vsinha/pharmadash/pkg/infrastructure/repositories/memory"
)

// ReferenceTime is the "now" the pharma test scenario is written against
var ReferenceTime = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// FixedClock returns a clock stopped at ReferenceTime
func FixedClock() func() time.Time {
	return func() time.Time { return ReferenceTime }
}

// BuildPharmaTestData builds a small two-product scenario:
//
//	C-1  Cefepime 1g  2000  expires 2026-04-01  3 days to market
//	T-1  Testavan     4198  expires 2026-02-01  1 day to market
//	C-2  Cefepime 2g  2239  expires 2027-04-01  7 days to market
//	C-3  Cefepime 1g    10  expires 2026-03-01  no receipt or release
//
// Relative to ReferenceTime, C-2 is the only batch outside the 182 day window.
func BuildPharmaTestData() (*memory.ItemRepository, *memory.BatchRepository) {
	itemRepo := memory.NewItemRepository(3)
	batchRepo := memory.NewBatchRepository(4)

	items := []*entities.Item{
		{ID: 1, ProductID: "000038", Label: "000038_FG_CEFEPIME_1g_10x1g_FR"},
		{ID: 2, ProductID: "000040", Label: "000040_FG_TESTAVAN_20mg/1.85x5g_CH"},
		{ID: 3, ProductID: "000041", Label: "000041_FG_CEFEPIME_2g_10x2g_DE"},
	}
	for _, item := range items {
		if err := itemRepo.SaveItem(item); err != nil {
			panic(err)
		}
	}

	batches := []*entities.Batch{
		{
			BatchNumber: "C-1",
			ItemID:      1,
			Product:     "Cefepime",
			Quantity:    2000,
			ExpiryDate:  entities.Date(2026, 4, 1),
			ReceiptDate: entities.Date(2025, 6, 1),
			ReleaseDate: entities.Date(2025, 6, 4),
		},
		{
			BatchNumber: "T-1",
			ItemID:      2,
			Product:     "Testavan",
			Quantity:    4198,
			ExpiryDate:  entities.Date(2026, 2, 1),
			ReceiptDate: entities.Date(2025, 6, 1),
			ReleaseDate: entities.Date(2025, 6, 2),
		},
		{
			BatchNumber: "C-2",
			ItemID:      3,
			Product:     "Cefepime",
			Quantity:    2239,
			ExpiryDate:  entities.Date(2027, 4, 1),
			ReceiptDate: entities.Date(2025, 6, 1),
			ReleaseDate: entities.Date(2025, 6, 8),
		},
		{
			BatchNumber: "C-3",
			ItemID:      1,
			Product:     "Cefepime",
			Quantity:    10,
			ExpiryDate:  entities.Date(2026, 3, 1),
		},
	}
	for _, batch := range batches {
		if err := batchRepo.SaveBatch(batch); err != nil {
			panic(err)
		}
	}

	return itemRepo, batchRepo
}
