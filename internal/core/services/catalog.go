// internal/core/services/catalog.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wshuai/catalog-be/internal/core/domain"
	"github.com/wshuai/catalog-be/internal/core/ports"
)

const (
	defaultPageSize   = 50
	maxPageSize       = 1000
	defaultListLimit  = 10
	defaultLowStockAt = 10
)

// CatalogService handles product business logic
type CatalogService struct {
	repo   ports.ProductRepository
	serial ports.SerialGenerator
	logger *slog.Logger
}

// Statically assert that *CatalogService implements the CatalogService interface.
var _ ports.CatalogService = (*CatalogService)(nil)

// NewCatalogService creates a new catalog service
func NewCatalogService(repo ports.ProductRepository, serial ports.SerialGenerator, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		serial: serial,
		logger: logger.With(slog.String("service", "catalog")),
	}
}

// CreateProduct persists a new product. A caller-supplied serial number is
// checked for uniqueness; otherwise one is generated. Defaults are applied
// before the insert: status off-shelf, zero stock and sales, unit "件".
func (s *CatalogService) CreateProduct(ctx context.Context, product *domain.Product) error {
	if product.CreatedBy == 0 {
		return domain.ErrMissingCreator
	}

	if product.SerialNumber != "" {
		exists, err := s.repo.ExistsBySerial(ctx, product.SerialNumber, uuid.Nil)
		if err != nil {
			return fmt.Errorf("failed to check serial uniqueness: %w", err)
		}
		if exists {
			return fmt.Errorf("serial %s: %w", product.SerialNumber, domain.ErrDuplicateSerial)
		}
	} else {
		serial, err := s.serial.Generate(ctx, time.Now())
		if err != nil {
			return fmt.Errorf("failed to generate serial number: %w", err)
		}
		product.SerialNumber = serial
	}

	if product.Status == 0 {
		product.Status = domain.StatusOffShelf
	}
	if err := product.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	product.PrepareForStorage()

	if err := s.repo.Create(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("id", product.ID.String()),
		slog.String("serial", product.SerialNumber),
		slog.String("name", product.Name))

	return nil
}

// UpdateProduct updates the descriptive fields of an existing product.
// Stock, sales and status are owned by the ledger and shelf operations and
// carry over from the stored row untouched.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, product *domain.Product) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load product: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	if product.SerialNumber != "" && product.SerialNumber != existing.SerialNumber {
		exists, err := s.repo.ExistsBySerial(ctx, product.SerialNumber, id)
		if err != nil {
			return fmt.Errorf("failed to check serial uniqueness: %w", err)
		}
		if exists {
			return fmt.Errorf("serial %s: %w", product.SerialNumber, domain.ErrDuplicateSerial)
		}
	} else {
		product.SerialNumber = existing.SerialNumber
	}

	product.ID = id
	product.Stock = existing.Stock
	product.Sales = existing.Sales
	product.Status = existing.Status
	product.ShelfTime = existing.ShelfTime
	product.CreatedBy = existing.CreatedBy
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()

	if err := product.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.InfoContext(ctx, "product updated", slog.String("id", id.String()))
	return nil
}

// GetByID retrieves a product by id
func (s *CatalogService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return product, nil
}

// DeleteProduct soft-deletes a product. Deletion is blocked while the
// product is on shelf; it must be taken off shelf first.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	if product.IsOnShelf() {
		return fmt.Errorf("product %s: %w", id, domain.ErrOnShelfDeletion)
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.String("id", id.String()))
	return nil
}

// BatchDelete soft-deletes every product in ids, all or nothing: if any
// member is currently on shelf the whole batch is rejected with zero
// mutations.
func (s *CatalogService) BatchDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	onShelf, err := s.repo.CountOnShelf(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to count on-shelf products: %w", err)
	}
	if onShelf > 0 {
		return 0, fmt.Errorf("%d of %d on shelf: %w", onShelf, len(ids), domain.ErrOnShelfDeletion)
	}

	count, err := s.repo.SoftDeleteByIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to batch delete products: %w", err)
	}

	s.logger.InfoContext(ctx, "products batch deleted", slog.Int64("count", count))
	return count, nil
}

// OnShelf transitions a single product on shelf, stamping the shelf time.
// Only the (status, shelf_time) pair is written back.
func (s *CatalogService) OnShelf(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	if err := domain.ToOnShelf(product, time.Now()); err != nil {
		return fmt.Errorf("product %s: %w", id, err)
	}

	if _, err := s.repo.BulkUpdateStatus(ctx, []uuid.UUID{id}, product.Status, product.ShelfTime); err != nil {
		return fmt.Errorf("failed to persist shelf transition: %w", err)
	}

	s.logger.InfoContext(ctx, "product on shelf", slog.String("id", id.String()))
	return nil
}

// OffShelf transitions a single product off shelf unconditionally
func (s *CatalogService) OffShelf(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	domain.ToOffShelf(product)

	if _, err := s.repo.BulkUpdateStatus(ctx, []uuid.UUID{id}, product.Status, nil); err != nil {
		return fmt.Errorf("failed to persist shelf transition: %w", err)
	}

	s.logger.InfoContext(ctx, "product off shelf", slog.String("id", id.String()))
	return nil
}

// BatchOnShelf transitions every product in ids on shelf as one bulk
// update. The completeness check runs once over the whole set; any
// incomplete member rejects the batch with zero mutations.
func (s *CatalogService) BatchOnShelf(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	incomplete, err := s.repo.CountIncomplete(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to count incomplete products: %w", err)
	}
	if incomplete > 0 {
		return 0, fmt.Errorf("%d of %d incomplete: %w", incomplete, len(ids), domain.ErrIncompleteProduct)
	}

	now := time.Now()
	count, err := s.repo.BulkUpdateStatus(ctx, ids, domain.StatusOnShelf, &now)
	if err != nil {
		return 0, fmt.Errorf("failed to batch on-shelf products: %w", err)
	}

	s.logger.InfoContext(ctx, "products batch on shelf", slog.Int64("count", count))
	return count, nil
}

// BatchOffShelf transitions every product in ids off shelf unconditionally
func (s *CatalogService) BatchOffShelf(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	count, err := s.repo.BulkUpdateStatus(ctx, ids, domain.StatusOffShelf, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to batch off-shelf products: %w", err)
	}

	s.logger.InfoContext(ctx, "products batch off shelf", slog.Int64("count", count))
	return count, nil
}

// AdjustStock applies a ledger operation to a product's stock. The decrease
// path is guarded twice: once in memory against the loaded aggregate, and
// again by the repository's conditional update, so concurrent decrements
// cannot drive stock negative.
func (s *CatalogService) AdjustStock(ctx context.Context, id uuid.UUID, quantity int, direction ports.AdjustDirection) (domain.StockChange, error) {
	if quantity <= 0 {
		return domain.StockChange{}, domain.ErrInvalidQuantity
	}
	if !direction.Valid() {
		return domain.StockChange{}, fmt.Errorf("unknown adjust direction %q", direction)
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.StockChange{}, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return domain.StockChange{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	var change domain.StockChange
	switch direction {
	case ports.AdjustDecrease:
		if _, err := domain.DecreaseStock(product, quantity); err != nil {
			return domain.StockChange{}, fmt.Errorf("product %s: %w", id, err)
		}
		change, err = s.repo.DecreaseStock(ctx, id, quantity)
	case ports.AdjustIncrease:
		domain.IncreaseStock(product, quantity)
		change, err = s.repo.IncreaseStock(ctx, id, quantity)
	}
	if err != nil {
		return domain.StockChange{}, fmt.Errorf("failed to adjust stock: %w", err)
	}

	s.logger.InfoContext(ctx, "stock adjusted",
		slog.String("id", id.String()),
		slog.String("direction", string(direction)),
		slog.Int("quantity", quantity),
		slog.Int("stock", change.Stock),
		slog.Bool("status_changed", change.StatusChanged))

	return change, nil
}

// List retrieves products with filtering and pagination
func (s *CatalogService) List(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}

	items, totalCount, err := s.repo.FindAll(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	var totalPages int
	if params.PageSize > 0 {
		totalPages = int(totalCount) / params.PageSize
		if int(totalCount)%params.PageSize > 0 {
			totalPages++
		}
	}

	return &ports.ListResult{
		Items:      items,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}, nil
}

// Stats returns per-status counts plus the total sales sum
func (s *CatalogService) Stats(ctx context.Context) (*ports.SalesStats, error) {
	stats, err := s.repo.SalesStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales stats: %w", err)
	}
	return stats, nil
}

// LowStock returns products whose stock is at or below threshold,
// excluding those already sold out
func (s *CatalogService) LowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	if threshold <= 0 {
		threshold = defaultLowStockAt
	}

	products, err := s.repo.FindLowStock(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to find low stock products: %w", err)
	}
	return products, nil
}

// Hot returns the best-selling on-shelf products flagged as hot
func (s *CatalogService) Hot(ctx context.Context, limit int) ([]*domain.Product, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	products, err := s.repo.FindHot(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find hot products: %w", err)
	}
	return products, nil
}

// Recommend returns on-shelf products flagged as recommended
func (s *CatalogService) Recommend(ctx context.Context, limit int) ([]*domain.Product, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	products, err := s.repo.FindRecommend(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find recommended products: %w", err)
	}
	return products, nil
}
