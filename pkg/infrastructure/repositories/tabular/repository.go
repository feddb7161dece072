// Package tabular turns a table Fetcher into typed item and batch
// repositories. Each call is a fresh round trip.
package tabular

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/vsinha/pharmadash/pkg/domain/entities"
	"github.com/vsinha/pharmadash/pkg/domain/repositories"
	"github.com/vsinha/pharmadash/pkg/domain/schema"
	"github.com/vsinha/pharmadash/pkg/domain/table"
	"github.com/vsinha/pharmadash/pkg/infrastructure/metrics"
)

// Repository decodes fetched tables against the entity schemas
type Repository struct {
	fetcher repositories.Fetcher
	log     logrus.FieldLogger
}

// Verify interface compliance
var _ repositories.ItemRepository = (*Repository)(nil)
var _ repositories.BatchRepository = (*Repository)(nil)

// NewRepository creates a repository reading through fetcher
func NewRepository(fetcher repositories.Fetcher, logger logrus.FieldLogger) *Repository {
	return &Repository{fetcher: fetcher, log: logger}
}

// GetAllItems fetches and decodes the items table
func (r *Repository) GetAllItems(ctx context.Context) ([]*entities.Item, error) {
	t, err := r.fetch(ctx, repositories.ItemsTable)
	if err != nil {
		return nil, err
	}
	return schema.DecodeItems(t)
}

// GetAllBatches fetches and decodes the batches table
func (r *Repository) GetAllBatches(ctx context.Context) ([]*entities.Batch, error) {
	t, err := r.fetch(ctx, repositories.BatchesTable)
	if err != nil {
		return nil, err
	}
	return schema.DecodeBatches(t)
}

func (r *Repository) fetch(ctx context.Context, name string) (*table.Table, error) {
	source := r.fetcher.Source()
	done := metrics.InstrumentFetch(name, source)
	t, err := r.fetcher.Fetch(ctx, name)
	elapsed := done()

	if err != nil {
		return nil, &repositories.FetchError{Table: name, Source: source, Err: err}
	}

	r.log.WithFields(logrus.Fields{
		"table":    name,
		"source":   source,
		"rows":     t.Len(),
		"duration": elapsed,
	}).Debug("fetched table")
	return t, nil
}
