package entities

import (
	"fmt"
	"time"
)

// BatchNumber represents a unique production lot identifier
type BatchNumber string

// Batch represents a production lot of an item
type Batch struct {
	BatchNumber BatchNumber
	ItemID      ItemID
	Product     string
	Quantity    Quantity
	ExpiryDate  *time.Time
	ReceiptDate *time.Time // date_receipt_warehouse
	ReleaseDate *time.Time // date_in_market_release
}

// NewBatch creates a validated Batch
func NewBatch(
	batchNumber BatchNumber,
	itemID ItemID,
	product string,
	quantity Quantity,
	expiryDate, receiptDate, releaseDate *time.Time,
) (*Batch, error) {
	if string(batchNumber) == "" {
		return nil, fmt.Errorf("batch number cannot be empty")
	}
	if product == "" {
		return nil, fmt.Errorf("product cannot be empty")
	}
	if quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative, got %d", quantity)
	}

	return &Batch{
		BatchNumber: batchNumber,
		ItemID:      itemID,
		Product:     product,
		Quantity:    quantity,
		ExpiryDate:  expiryDate,
		ReceiptDate: receiptDate,
		ReleaseDate: releaseDate,
	}, nil
}

// TimeToMarketDays returns the whole days between warehouse receipt and
// market release. The second result is false when either date is missing.
func (b *Batch) TimeToMarketDays() (int, bool) {
	if b.ReceiptDate == nil || b.ReleaseDate == nil {
		return 0, false
	}
	return DaysBetween(*b.ReceiptDate, *b.ReleaseDate), true
}

// DaysBetween returns to - from in whole days, floored like a calendar
// difference so that a partial negative day counts as a full one.
func DaysBetween(from, to time.Time) int {
	const day = 24 * time.Hour
	d := to.Sub(from)
	days := d / day
	if d%day != 0 && d < 0 {
		days--
	}
	return int(days)
}

// Date returns a pointer to midnight UTC of the given calendar day
func Date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}
