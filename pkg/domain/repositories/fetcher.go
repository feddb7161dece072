package repositories

import (
	"context"
	"fmt"

	"github.com/vsinha/pharmadash/pkg/domain/table"
)

// Table names read by the dashboard
const (
	ItemsTable   = "items"
	BatchesTable = "batches"
)

// Fetcher selects every row of a named table in a single round trip.
// Implementations do not page, filter or cache.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (*table.Table, error)
	// Source names the backend for logs and metrics
	Source() string
}

// FetchError reports a failed round trip to the data source, as opposed to
// a fetched table that failed to decode.
type FetchError struct {
	Table  string
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s from %s: %v", e.Table, e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
