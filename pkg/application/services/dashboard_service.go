package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vsinha/pharmadash/pkg/application/dto"
	"github.com/vsinha/pharmadash/pkg/application/pipeline"
	"github.com/vsinha/pharmadash/pkg/domain/entities"
	"github.com/vsinha/pharmadash/pkg/domain/repositories"
	domainservices "github.com/vsinha/pharmadash/pkg/domain/services"
	"github.com/vsinha/pharmadash/pkg/infrastructure/metrics"
)

// DashboardConfig holds the tunables of the dashboard pipeline
type DashboardConfig struct {
	// ExpiryWindow bounds the Overview expiry chart (default 182 days)
	ExpiryWindow time.Duration
	// TopN limits the quantity ranking (default 10)
	TopN int
	// Clock supplies the reference time of the expiry filter
	Clock func() time.Time
}

// DashboardService runs the fetch, transform and aggregate pipeline. It keeps
// no data between calls.
type DashboardService struct {
	items     repositories.ItemRepository
	batches   repositories.BatchRepository
	config    DashboardConfig
	validator *domainservices.ReferenceValidator
	log       logrus.FieldLogger
}

// NewDashboardService creates a dashboard service, filling config defaults
func NewDashboardService(
	items repositories.ItemRepository,
	batches repositories.BatchRepository,
	config DashboardConfig,
	logger logrus.FieldLogger,
) *DashboardService {
	if config.ExpiryWindow <= 0 {
		config.ExpiryWindow = pipeline.DefaultExpiryWindow
	}
	if config.TopN <= 0 {
		config.TopN = 10
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	return &DashboardService{
		items:     items,
		batches:   batches,
		config:    config,
		validator: domainservices.NewReferenceValidator(),
		log:       logger,
	}
}

// snapshot is the data of one render
type snapshot struct {
	log     logrus.FieldLogger
	now     time.Time
	items   []*entities.Item
	batches []*entities.Batch
	joined  []pipeline.JoinedBatch
}

// load fetches items then batches. The two round trips are sequential.
func (s *DashboardService) load(ctx context.Context, view string) (*snapshot, error) {
	log := s.log.WithFields(logrus.Fields{
		"render_id": uuid.NewString(),
		"view":      view,
	})
	start := time.Now()

	items, err := s.items.GetAllItems(ctx)
	if err != nil {
		return nil, fail(log, classify(err, pipeline.StageFetchItems, pipeline.StageDecodeItems), err)
	}

	batches, err := s.batches.GetAllBatches(ctx)
	if err != nil {
		return nil, fail(log, classify(err, pipeline.StageFetchBatches, pipeline.StageDecodeBatches), err)
	}

	log.WithFields(logrus.Fields{
		"items":    len(items),
		"batches":  len(batches),
		"duration": time.Since(start),
	}).Debug("loaded dashboard data")

	for _, warning := range s.validator.Validate(items, batches).Warnings {
		log.Warn(warning)
	}

	return &snapshot{
		log:     log,
		now:     s.config.Clock().UTC(),
		items:   items,
		batches: batches,
		joined:  pipeline.Join(batches, items),
	}, nil
}

// classify picks the fetch stage for transport failures and the decode stage
// for everything else
func classify(err error, fetchStage, decodeStage string) string {
	var fetchErr *repositories.FetchError
	if errors.As(err, &fetchErr) {
		return fetchStage
	}
	return decodeStage
}

func fail(log logrus.FieldLogger, stage string, err error) error {
	metrics.RecordStageError(stage)
	log.WithField("stage", stage).WithError(err).Error("dashboard stage failed")
	return pipeline.Wrap(stage, err)
}

// Overview builds the three unfiltered result sets
func (s *DashboardService) Overview(ctx context.Context) (*dto.Overview, error) {
	snap, err := s.load(ctx, "overview")
	if err != nil {
		metrics.RecordRender("overview", err)
		return nil, err
	}
	overview := s.overview(snap)
	metrics.RecordRender("overview", nil)
	return overview, nil
}

// ProductView builds the result sets of the product tab. An empty selection
// picks the first product seen in the batch data.
func (s *DashboardService) ProductView(ctx context.Context, selected string) (*dto.ProductView, error) {
	snap, err := s.load(ctx, "product")
	if err != nil {
		metrics.RecordRender("product", err)
		return nil, err
	}
	view, err := s.productView(snap, selected)
	metrics.RecordRender("product", err)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Dashboard builds both tabs from a single pair of fetches
func (s *DashboardService) Dashboard(ctx context.Context, selected string) (*dto.Overview, *dto.ProductView, error) {
	snap, err := s.load(ctx, "dashboard")
	if err != nil {
		metrics.RecordRender("dashboard", err)
		return nil, nil, err
	}
	view, err := s.productView(snap, selected)
	metrics.RecordRender("dashboard", err)
	if err != nil {
		return nil, nil, err
	}
	return s.overview(snap), view, nil
}

func (s *DashboardService) overview(snap *snapshot) *dto.Overview {
	expiring := pipeline.FilterExpiring(snap.joined, snap.now, s.config.ExpiryWindow)

	return &dto.Overview{
		GeneratedAt:   snap.now,
		ExpiryCutoff:  pipeline.ExpiryCutoff(snap.now, s.config.ExpiryWindow),
		Expiring:      pipeline.SortByExpiry(pipeline.Project(expiring)),
		TimeToMarket:  pipeline.AverageTimeToMarket(snap.batches),
		TopQuantities: pipeline.TopN(pipeline.QuantityByProductLabel(snap.joined), s.config.TopN),
		ItemCount:     len(snap.items),
		BatchCount:    len(snap.batches),
	}
}

func (s *DashboardService) productView(snap *snapshot, selected string) (*dto.ProductView, error) {
	products := pipeline.DistinctProducts(snap.batches)
	if selected == "" && len(products) > 0 {
		selected = products[0]
	}
	if err := pipeline.ValidateSelection(products, selected); err != nil {
		return nil, fail(snap.log, pipeline.StageSelectProduct, err)
	}

	filtered := pipeline.FilterByProduct(snap.joined, selected)
	return &dto.ProductView{
		Product:         selected,
		Products:        products,
		Expiry:          pipeline.Project(filtered),
		LabelQuantities: pipeline.QuantityByLabel(filtered),
	}, nil
}
