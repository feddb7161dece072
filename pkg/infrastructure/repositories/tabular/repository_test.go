package tabular

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/pharmadash/pkg/domain/repositories"
	"github.com/vsinha/pharmadash/pkg/domain/schema"
	"github.com/vsinha/pharmadash/pkg/domain/table"
	"github.com/vsinha/pharmadash/pkg/infrastructure/logging"
)

type stubFetcher struct {
	tables map[string]*table.Table
	err    error
	calls  []string
}

func (s *stubFetcher) Source() string { return "stub" }

func (s *stubFetcher) Fetch(_ context.Context, name string) (*table.Table, error) {
	s.calls = append(s.calls, name)
	if s.err != nil {
		return nil, s.err
	}
	t, ok := s.tables[name]
	if !ok {
		return table.New(name), nil
	}
	return t, nil
}

func TestRepository_DecodesTables(t *testing.T) {
	fetcher := &stubFetcher{tables: map[string]*table.Table{
		"items": table.New("items", "id", "product_id", "label").
			Append(1, "000001", "ONE"),
		"batches": table.New("batches",
			"batch_number", "item_id", "product", "quantity",
			"expiry_date", "date_receipt_warehouse", "date_in_market_release").
			Append("B-1", 1, "One", 5, "2026-01-01", nil, nil),
	}}
	repo := NewRepository(fetcher, logging.Discard())

	items, err := repo.GetAllItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ONE", items[0].Label)

	batches, err := repo.GetAllBatches(context.Background())
	require.NoError(t, err)
	require.Len(t, batches, 1)

	// no caching: every call is a round trip
	_, err = repo.GetAllItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"items", "batches", "items"}, fetcher.calls)
}

func TestRepository_FetchError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	repo := NewRepository(&stubFetcher{err: cause}, logging.Discard())

	_, err := repo.GetAllBatches(context.Background())
	require.Error(t, err)

	var fetchErr *repositories.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "batches", fetchErr.Table)
	assert.Equal(t, "stub", fetchErr.Source)
	assert.True(t, errors.Is(err, cause))
	assert.EqualError(t, err, "fetch batches from stub: dial tcp: connection refused")
}

func TestRepository_DecodeErrorIsNotFetchError(t *testing.T) {
	repo := NewRepository(&stubFetcher{tables: map[string]*table.Table{}}, logging.Discard())

	_, err := repo.GetAllItems(context.Background())
	require.Error(t, err)

	var fetchErr *repositories.FetchError
	assert.False(t, errors.As(err, &fetchErr))
	assert.ErrorIs(t, err, schema.ErrEmptyTable)
}
