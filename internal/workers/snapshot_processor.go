// internal/workers/snapshot_processor.go
package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	redis_a "github.com/wshuai/catalog-be/internal/adapters/redis_adapter"
	"github.com/wshuai/catalog-be/internal/core/ports"
	"github.com/wshuai/catalog-be/internal/pkg/config"
)

// SnapshotProcessor materializes periodic read-side projections into the
// cache: the sales stats snapshot and the low-stock report.
type SnapshotProcessor struct {
	service ports.CatalogService
	cache   ports.CacheRepository
	config  *config.Config
	logger  *slog.Logger
}

// NewSnapshotProcessor creates a new snapshot processor
func NewSnapshotProcessor(service ports.CatalogService, cache ports.CacheRepository, cfg *config.Config, logger *slog.Logger) *SnapshotProcessor {
	return &SnapshotProcessor{
		service: service,
		cache:   cache,
		config:  cfg,
		logger:  logger.With(slog.String("processor", "snapshot")),
	}
}

// StatsSnapshot handles a TypeStatsSnapshot task
func (p *SnapshotProcessor) StatsSnapshot(ctx context.Context, t *asynq.Task) error {
	stats, err := p.service.Stats(ctx)
	if err != nil {
		return err
	}

	snapshot := struct {
		*ports.SalesStats
		TakenAt time.Time `json:"taken_at"`
	}{stats, time.Now()}

	key := redis_a.BuildKey(redis_a.PrefixStats, "snapshot")
	if err := p.cache.SetWithTTL(ctx, key, snapshot, 2*p.config.Catalog.SnapshotInterval); err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "stats snapshot taken",
		slog.Int64("total_count", stats.TotalCount),
		slog.Int64("total_sales", stats.TotalSales),
		slog.Int64("sold_out", stats.SoldOutCount))

	return nil
}

// LowStockScan handles a TypeLowStockScan task
func (p *SnapshotProcessor) LowStockScan(ctx context.Context, t *asynq.Task) error {
	threshold := p.config.Catalog.LowStockThreshold

	products, err := p.service.LowStock(ctx, threshold)
	if err != nil {
		return err
	}

	key := redis_a.BuildKey(redis_a.PrefixLowStock, "report")
	if err := p.cache.SetWithTTL(ctx, key, products, 2*p.config.Catalog.SnapshotInterval); err != nil {
		return err
	}

	if len(products) > 0 {
		p.logger.WarnContext(ctx, "products running low on stock",
			slog.Int("threshold", threshold),
			slog.Int("count", len(products)))
	} else {
		p.logger.InfoContext(ctx, "low stock scan clean",
			slog.Int("threshold", threshold))
	}

	return nil
}
