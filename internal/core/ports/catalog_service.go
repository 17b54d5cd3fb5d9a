// internal/core/ports/catalog_service.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wshuai/catalog-be/internal/core/domain"
)

// AdjustDirection selects which side of the stock ledger an adjustment hits
type AdjustDirection string

const (
	AdjustIncrease AdjustDirection = "increase"
	AdjustDecrease AdjustDirection = "decrease"
)

// Valid reports whether d is a known direction
func (d AdjustDirection) Valid() bool {
	return d == AdjustIncrease || d == AdjustDecrease
}

// CatalogService defines the application service port for the catalog.
// This interface is implemented by the application service.
type CatalogService interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, id uuid.UUID, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	BatchDelete(ctx context.Context, ids []uuid.UUID) (int64, error)

	OnShelf(ctx context.Context, id uuid.UUID) error
	OffShelf(ctx context.Context, id uuid.UUID) error
	BatchOnShelf(ctx context.Context, ids []uuid.UUID) (int64, error)
	BatchOffShelf(ctx context.Context, ids []uuid.UUID) (int64, error)

	AdjustStock(ctx context.Context, id uuid.UUID, quantity int, direction AdjustDirection) (domain.StockChange, error)

	List(ctx context.Context, params ListParams) (*ListResult, error)
	Stats(ctx context.Context) (*SalesStats, error)
	LowStock(ctx context.Context, threshold int) ([]*domain.Product, error)
	Hot(ctx context.Context, limit int) ([]*domain.Product, error)
	Recommend(ctx context.Context, limit int) ([]*domain.Product, error)
}

// SerialGenerator derives a unique, date-scoped product serial number.
// The reference time is explicit so tests can pin the day prefix.
type SerialGenerator interface {
	Generate(ctx context.Context, ref time.Time) (string, error)
}

// ListParams holds parameters for listing products
type ListParams struct {
	Keyword    string
	Status     *domain.Status
	CategoryID *int64
	CreatedBy  *int64
	IsHot      *bool
	IsRecom    *bool
	StartTime  *time.Time
	EndTime    *time.Time
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

// ListResult holds the result of listing products
type ListResult struct {
	Items      []*domain.Product `json:"items"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalCount int64             `json:"total_count"`
	TotalPages int               `json:"total_pages"`
}

// SalesStats is the read-side projection over status counts and sales
type SalesStats struct {
	TotalSales    int64 `json:"total_sales"`
	OnShelfCount  int64 `json:"on_shelf_count"`
	OffShelfCount int64 `json:"off_shelf_count"`
	SoldOutCount  int64 `json:"sold_out_count"`
	TotalCount    int64 `json:"total_count"`
}
