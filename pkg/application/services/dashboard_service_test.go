package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/pharmadash/pkg/application/pipeline"
	"github.com/vsinha/pharmadash/pkg/domain/entities"
	"github.com/vsinha/pharmadash/pkg/domain/repositories"
	"github.com/vsinha/pharmadash/pkg/domain/schema"
	"github.com/vsinha/pharmadash/pkg/infrastructure/logging"
	"github.com/vsinha/pharmadash/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/pharmadash/pkg/infrastructure/testing"
)

var fixedNow = testhelpers.ReferenceTime

func buildRepos(t *testing.T) (*memory.ItemRepository, *memory.BatchRepository) {
	t.Helper()
	return testhelpers.BuildPharmaTestData()
}

func newService(t *testing.T) *DashboardService {
	items, batches := buildRepos(t)
	return NewDashboardService(items, batches, DashboardConfig{
		Clock: testhelpers.FixedClock(),
	}, logging.Discard())
}

func TestDashboardService_Overview(t *testing.T) {
	overview, err := newService(t).Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, overview.ItemCount)
	assert.Equal(t, 4, overview.BatchCount)
	assert.Equal(t, fixedNow.AddDate(0, 0, 182), overview.ExpiryCutoff)

	var expiring []entities.BatchNumber
	for _, p := range overview.Expiring {
		expiring = append(expiring, p.BatchNumber)
	}
	assert.Equal(t, []entities.BatchNumber{"T-1", "C-3", "C-1"}, expiring)

	require.Len(t, overview.TimeToMarket, 2)
	assert.Equal(t, "Testavan", overview.TimeToMarket[0].Product)
	assert.Equal(t, "1", overview.TimeToMarket[0].AverageDays.String())
	assert.Equal(t, "Cefepime", overview.TimeToMarket[1].Product)
	assert.Equal(t, "5", overview.TimeToMarket[1].AverageDays.String())

	require.Len(t, overview.TopQuantities, 3)
	assert.Equal(t, entities.Quantity(4198), overview.TopQuantities[2].TotalQuantity)
	assert.Equal(t, entities.Quantity(2239), overview.TopQuantities[1].TotalQuantity)
	assert.Equal(t, entities.Quantity(2010), overview.TopQuantities[0].TotalQuantity)
}

func TestDashboardService_TopNConfig(t *testing.T) {
	items, batches := buildRepos(t)
	svc := NewDashboardService(items, batches, DashboardConfig{
		TopN:  1,
		Clock: testhelpers.FixedClock(),
	}, logging.Discard())

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.Len(t, overview.TopQuantities, 1)
	assert.Equal(t, "000040", overview.TopQuantities[0].ProductID)
}

func TestDashboardService_ProductView(t *testing.T) {
	svc := newService(t)

	view, err := svc.ProductView(context.Background(), "Cefepime")
	require.NoError(t, err)

	assert.Equal(t, "Cefepime", view.Product)
	assert.Equal(t, []string{"Cefepime", "Testavan"}, view.Products)
	require.Len(t, view.Expiry, 3, "product view is not limited by the expiry window")
	for _, p := range view.Expiry {
		assert.Equal(t, "Cefepime", p.Product)
	}

	require.Len(t, view.LabelQuantities, 2)
	assert.Equal(t, "000038_FG_CEFEPIME_1g_10x1g_FR", view.LabelQuantities[0].Label)
	assert.Equal(t, entities.Quantity(2010), view.LabelQuantities[0].TotalQuantity)
	assert.Equal(t, entities.Quantity(2239), view.LabelQuantities[1].TotalQuantity)
}

func TestDashboardService_DefaultSelection(t *testing.T) {
	view, err := newService(t).ProductView(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Cefepime", view.Product)
}

func TestDashboardService_UnknownSelection(t *testing.T) {
	_, err := newService(t).ProductView(context.Background(), "Aspirin")
	require.Error(t, err)

	var stageErr *pipeline.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, pipeline.StageSelectProduct, stageErr.Stage)

	var selErr *pipeline.SelectionError
	assert.True(t, errors.As(err, &selErr))
}

func TestDashboardService_Dashboard(t *testing.T) {
	overview, view, err := newService(t).Dashboard(context.Background(), "Testavan")
	require.NoError(t, err)
	assert.Len(t, overview.Expiring, 3)
	assert.Equal(t, "Testavan", view.Product)
	require.Len(t, view.LabelQuantities, 1)
}

type failingItems struct{ err error }

func (f failingItems) GetAllItems(context.Context) ([]*entities.Item, error) {
	return nil, f.err
}

func TestDashboardService_StageErrors(t *testing.T) {
	_, batches := buildRepos(t)

	testCases := []struct {
		name  string
		err   error
		stage string
	}{
		{
			name:  "fetch",
			err:   &repositories.FetchError{Table: "items", Source: "stub", Err: errors.New("timeout")},
			stage: pipeline.StageFetchItems,
		},
		{
			name:  "decode",
			err:   &schema.MissingColumnError{Table: "items", Column: "label"},
			stage: pipeline.StageDecodeItems,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewDashboardService(failingItems{tc.err}, batches, DashboardConfig{}, logging.Discard())

			_, err := svc.Overview(context.Background())
			require.Error(t, err)

			var stageErr *pipeline.StageError
			require.True(t, errors.As(err, &stageErr))
			assert.Equal(t, tc.stage, stageErr.Stage)
			assert.True(t, errors.Is(err, tc.err))
		})
	}
}

func TestDashboardService_Idempotent(t *testing.T) {
	svc := newService(t)

	render := func() string {
		overview, view, err := svc.Dashboard(context.Background(), "Cefepime")
		require.NoError(t, err)
		data, err := json.Marshal([]interface{}{overview, view})
		require.NoError(t, err)
		return string(data)
	}

	first := render()
	assert.Equal(t, first, render())
	assert.Equal(t, first, render())
}
