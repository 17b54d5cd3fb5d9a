// internal/core/ports/product_repository.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wshuai/catalog-be/internal/core/domain"
)

// ProductRepository defines the persistence port for the catalog.
// This interface is implemented by the database adapter.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindBySerial(ctx context.Context, serial string) (*domain.Product, error)
	FindAll(ctx context.Context, params ListParams) ([]*domain.Product, int64, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// ExistsBySerial checks serial uniqueness across all rows including
	// soft-deleted ones; excludeID skips the product's own row on update.
	ExistsBySerial(ctx context.Context, serial string, excludeID uuid.UUID) (bool, error)

	Delete(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	SoftDeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)

	// Bulk-eligibility counts over an id set, evaluated ahead of the
	// corresponding bulk write.
	CountOnShelf(ctx context.Context, ids []uuid.UUID) (int64, error)
	CountIncomplete(ctx context.Context, ids []uuid.UUID) (int64, error)

	// BulkUpdateStatus transitions every product in ids as one statement.
	// shelfTime is stamped when non-nil (batch on-shelf).
	BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status domain.Status, shelfTime *time.Time) (int64, error)

	// DecreaseStock and IncreaseStock apply the ledger semantics as a
	// single conditional update so concurrent adjustments cannot drive
	// stock negative. DecreaseStock reports domain.ErrInsufficientStock
	// when the guard fails.
	DecreaseStock(ctx context.Context, id uuid.UUID, quantity int) (domain.StockChange, error)
	IncreaseStock(ctx context.Context, id uuid.UUID, quantity int) (domain.StockChange, error)

	// MaxSerialWithPrefix returns the lexicographically greatest serial
	// under prefix, or "" when none exists.
	MaxSerialWithPrefix(ctx context.Context, prefix string) (string, error)

	// NextSerial atomically increments and returns the day-scoped serial
	// sequence for prefix, seeding it from MaxSerialWithPrefix on first use.
	NextSerial(ctx context.Context, prefix string) (int, error)

	SalesStats(ctx context.Context) (*SalesStats, error)
	FindLowStock(ctx context.Context, threshold int) ([]*domain.Product, error)
	FindHot(ctx context.Context, limit int) ([]*domain.Product, error)
	FindRecommend(ctx context.Context, limit int) ([]*domain.Product, error)
	Count(ctx context.Context) (int64, error)
}
