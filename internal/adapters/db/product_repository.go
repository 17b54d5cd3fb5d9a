// internal/adapters/db/product_repository.go
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/wshuai/catalog-be/internal/core/domain"
	"github.com/wshuai/catalog-be/internal/core/ports"
)

// productRepository implements ports.ProductRepository
type productRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *Database, logger *slog.Logger) ports.ProductRepository {
	return &productRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "product")),
	}
}

var productColumns = []string{
	"id", "name", "serial_number", "description", "content",
	"image", "images", "category_id", "price", "original_price",
	"stock", "sales", "status", "sort", "weight", "unit",
	"specs", "attributes", "is_virtual", "is_hot", "is_recommend",
	"shelf_time", "created_by", "updated_by", "remark",
	"created_at", "updated_at",
}

func productColumnList() string {
	return strings.Join(productColumns, ", ")
}

// Create inserts a new product row
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (
			id, name, serial_number, description, content,
			image, images, category_id, price, original_price,
			stock, sales, status, sort, weight, unit,
			specs, attributes, is_virtual, is_hot, is_recommend,
			shelf_time, created_by, updated_by, remark,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27
		) RETURNING created_at, updated_at`

	images, specs, attributes, err := marshalJSONFields(product)
	if err != nil {
		return err
	}

	err = r.db.QueryRow(ctx, query,
		product.ID, product.Name, product.SerialNumber, product.Description, product.Content,
		product.Image, images, product.CategoryID, product.Price, product.OriginalPrice,
		product.Stock, product.Sales, product.Status, product.Sort, product.Weight, product.Unit,
		specs, attributes, product.IsVirtual, product.IsHot, product.IsRecommend,
		product.ShelfTime, product.CreatedBy, product.UpdatedBy, product.Remark,
		product.CreatedAt, product.UpdatedAt,
	).Scan(&product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}

	r.logger.DebugContext(ctx, "product saved",
		slog.String("id", product.ID.String()),
		slog.String("serial", product.SerialNumber))

	return nil
}

// Update rewrites the descriptive fields of an existing row. Stock, sales,
// status and shelf_time are owned by the ledger and shelf statements and are
// not touched here.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products SET
			name = $2, serial_number = $3, description = $4, content = $5,
			image = $6, images = $7, category_id = $8, price = $9, original_price = $10,
			sort = $11, weight = $12, unit = $13, specs = $14, attributes = $15,
			is_virtual = $16, is_hot = $17, is_recommend = $18,
			updated_by = $19, remark = $20, updated_at = $21
		WHERE id = $1 AND deleted_at IS NULL`

	images, specs, attributes, err := marshalJSONFields(product)
	if err != nil {
		return err
	}

	product.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, query,
		product.ID, product.Name, product.SerialNumber, product.Description, product.Content,
		product.Image, images, product.CategoryID, product.Price, product.OriginalPrice,
		product.Sort, product.Weight, product.Unit, specs, attributes,
		product.IsVirtual, product.IsHot, product.IsRecommend,
		product.UpdatedBy, product.Remark, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", product.ID, domain.ErrNotFound)
	}

	r.logger.DebugContext(ctx, "product updated",
		slog.String("id", product.ID.String()))

	return nil
}

// FindByID retrieves a product by id
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1 AND deleted_at IS NULL`, productColumnList())

	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

// FindBySerial retrieves a product by its serial number
func (r *productRepository) FindBySerial(ctx context.Context, serial string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE serial_number = $1 AND deleted_at IS NULL`, productColumnList())

	product, err := scanProduct(r.db.QueryRow(ctx, query, serial))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product by serial: %w", err)
	}

	return product, nil
}

// FindAll retrieves products with filtering and pagination
func (r *productRepository) FindAll(ctx context.Context, params ports.ListParams) ([]*domain.Product, int64, error) {
	qb := squirrel.Select(productColumns...).
		From("products").
		Where("deleted_at IS NULL").
		PlaceholderFormat(squirrel.Dollar)

	// Apply filters
	if params.Keyword != "" {
		pattern := "%" + params.Keyword + "%"
		qb = qb.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"serial_number": pattern},
		})
	}
	if params.Status != nil {
		qb = qb.Where(squirrel.Eq{"status": *params.Status})
	}
	if params.CategoryID != nil {
		qb = qb.Where(squirrel.Eq{"category_id": *params.CategoryID})
	}
	if params.CreatedBy != nil {
		qb = qb.Where(squirrel.Eq{"created_by": *params.CreatedBy})
	}
	if params.IsHot != nil {
		qb = qb.Where(squirrel.Eq{"is_hot": *params.IsHot})
	}
	if params.IsRecom != nil {
		qb = qb.Where(squirrel.Eq{"is_recommend": *params.IsRecom})
	}
	if params.StartTime != nil {
		qb = qb.Where(squirrel.GtOrEq{"created_at": *params.StartTime})
	}
	if params.EndTime != nil {
		qb = qb.Where(squirrel.LtOrEq{"created_at": *params.EndTime})
	}

	// Count total items (before pagination)
	countQb := qb.Column("COUNT(*) OVER()").Limit(1)
	countSQL, countArgs, err := countQb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var totalCount int64
	err = r.db.QueryRow(ctx, countSQL, countArgs...).Scan(
		dropColumns(len(productColumns), &totalCount)...,
	)
	if err != nil && err != pgx.ErrNoRows {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	// Apply sorting
	orderBy := "created_at DESC"
	if params.SortBy != "" {
		direction := "ASC"
		if params.SortOrder == "desc" {
			direction = "DESC"
		}

		switch params.SortBy {
		case "name":
			orderBy = fmt.Sprintf("name %s", direction)
		case "price":
			orderBy = fmt.Sprintf("price %s", direction)
		case "stock":
			orderBy = fmt.Sprintf("stock %s", direction)
		case "sales":
			orderBy = fmt.Sprintf("sales %s", direction)
		case "sort":
			orderBy = fmt.Sprintf("sort %s", direction)
		case "shelf_time":
			orderBy = fmt.Sprintf("shelf_time %s NULLS LAST", direction)
		default:
			orderBy = fmt.Sprintf("created_at %s", direction)
		}
	}
	qb = qb.OrderBy(orderBy)

	// Apply pagination
	if params.PageSize > 0 {
		qb = qb.Limit(uint64(params.PageSize))
		if params.Page > 1 {
			qb = qb.Offset(uint64((params.Page - 1) * params.PageSize))
		}
	}

	querySQL, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, totalCount, nil
}

// Exists checks if a live product row exists
func (r *productRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND deleted_at IS NULL)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}

	return exists, nil
}

// ExistsBySerial checks serial uniqueness across all rows, soft-deleted
// included, so a reused serial can never collide on restore.
func (r *productRepository) ExistsBySerial(ctx context.Context, serial string, excludeID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE serial_number = $1 AND id <> $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, serial, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check serial existence: %w", err)
	}

	return exists, nil
}

// Delete performs a hard delete
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	r.logger.InfoContext(ctx, "product deleted", slog.String("id", id.String()))
	return nil
}

// SoftDelete marks a product as deleted
func (r *productRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE products SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	now := time.Now()
	tag, err := r.db.Exec(ctx, query, id, now)
	if err != nil {
		return fmt.Errorf("failed to soft delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	r.logger.InfoContext(ctx, "product soft deleted", slog.String("id", id.String()))
	return nil
}

// SoftDeleteByIDs marks every product in ids as deleted in one statement
func (r *productRepository) SoftDeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `UPDATE products SET deleted_at = $2, updated_at = $2 WHERE id = ANY($1) AND deleted_at IS NULL`

	now := time.Now()
	tag, err := r.db.Exec(ctx, query, ids, now)
	if err != nil {
		return 0, fmt.Errorf("failed to soft delete products: %w", err)
	}

	r.logger.InfoContext(ctx, "products soft deleted",
		slog.Int64("count", tag.RowsAffected()))

	return tag.RowsAffected(), nil
}

// CountOnShelf counts how many of ids are currently on shelf
func (r *productRepository) CountOnShelf(ctx context.Context, ids []uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM products WHERE id = ANY($1) AND status = $2 AND deleted_at IS NULL`

	var count int64
	if err := r.db.QueryRow(ctx, query, ids, domain.StatusOnShelf).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count on-shelf products: %w", err)
	}

	return count, nil
}

// CountIncomplete counts how many of ids lack the fields required to go on
// shelf. The predicate mirrors domain.Product.Complete.
func (r *productRepository) CountIncomplete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*) FROM products
		WHERE id = ANY($1) AND deleted_at IS NULL
		AND (name = '' OR price <= 0)`

	var count int64
	if err := r.db.QueryRow(ctx, query, ids).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count incomplete products: %w", err)
	}

	return count, nil
}

// BulkUpdateStatus transitions every product in ids as one statement.
// A nil shelfTime leaves the shelf_time column untouched.
func (r *productRepository) BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status domain.Status, shelfTime *time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	now := time.Now()

	var (
		tag pgconn.CommandTag
		err error
	)
	if shelfTime != nil {
		query := `UPDATE products SET status = $2, shelf_time = $3, updated_at = $4 WHERE id = ANY($1) AND deleted_at IS NULL`
		tag, err = r.db.Exec(ctx, query, ids, status, *shelfTime, now)
	} else {
		query := `UPDATE products SET status = $2, updated_at = $3 WHERE id = ANY($1) AND deleted_at IS NULL`
		tag, err = r.db.Exec(ctx, query, ids, status, now)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update status: %w", err)
	}

	r.logger.InfoContext(ctx, "product status updated",
		slog.Int("status", int(status)),
		slog.Int64("count", tag.RowsAffected()))

	return tag.RowsAffected(), nil
}

// DecreaseStock applies a stock decrement as a single conditional update so
// concurrent decrements cannot drive stock negative. Hitting zero forces the
// sold-out status in the same statement.
func (r *productRepository) DecreaseStock(ctx context.Context, id uuid.UUID, quantity int) (domain.StockChange, error) {
	query := `
		WITH prev AS (
			SELECT status FROM products WHERE id = $1 AND deleted_at IS NULL
		)
		UPDATE products SET
			stock = products.stock - $2,
			sales = products.sales + $2,
			status = CASE WHEN products.stock - $2 = 0 THEN $3::smallint ELSE products.status END,
			updated_at = $4
		FROM prev
		WHERE products.id = $1 AND products.deleted_at IS NULL AND products.stock >= $2
		RETURNING products.stock, products.sales, products.status, products.status <> prev.status`

	var change domain.StockChange
	err := r.db.QueryRow(ctx, query, id, quantity, domain.StatusSoldOut, time.Now()).Scan(
		&change.Stock, &change.Sales, &change.Status, &change.StatusChanged,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.StockChange{}, r.classifyStockFailure(ctx, id, quantity)
		}
		return domain.StockChange{}, fmt.Errorf("failed to decrease stock: %w", err)
	}

	r.logger.DebugContext(ctx, "stock decreased",
		slog.String("id", id.String()),
		slog.Int("quantity", quantity),
		slog.Int("stock", change.Stock))

	return change, nil
}

// IncreaseStock applies a stock increment, promoting a sold-out product back
// on shelf in the same statement.
func (r *productRepository) IncreaseStock(ctx context.Context, id uuid.UUID, quantity int) (domain.StockChange, error) {
	query := `
		WITH prev AS (
			SELECT status FROM products WHERE id = $1 AND deleted_at IS NULL
		)
		UPDATE products SET
			stock = products.stock + $2,
			status = CASE WHEN products.status = $3 THEN $4::smallint ELSE products.status END,
			updated_at = $5
		FROM prev
		WHERE products.id = $1 AND products.deleted_at IS NULL
		RETURNING products.stock, products.sales, products.status, products.status <> prev.status`

	var change domain.StockChange
	err := r.db.QueryRow(ctx, query, id, quantity, domain.StatusSoldOut, domain.StatusOnShelf, time.Now()).Scan(
		&change.Stock, &change.Sales, &change.Status, &change.StatusChanged,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.StockChange{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
		}
		return domain.StockChange{}, fmt.Errorf("failed to increase stock: %w", err)
	}

	r.logger.DebugContext(ctx, "stock increased",
		slog.String("id", id.String()),
		slog.Int("quantity", quantity),
		slog.Int("stock", change.Stock))

	return change, nil
}

// classifyStockFailure decides whether a zero-row decrement means a missing
// product or an insufficient stock guard rejection.
func (r *productRepository) classifyStockFailure(ctx context.Context, id uuid.UUID, quantity int) error {
	var stock int
	err := r.db.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1 AND deleted_at IS NULL`, id).Scan(&stock)
	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("failed to inspect stock: %w", err)
	}
	return fmt.Errorf("stock %d, requested %d: %w", stock, quantity, domain.ErrInsufficientStock)
}

// MaxSerialWithPrefix returns the greatest serial under prefix, soft-deleted
// rows included, or "" when none exists.
func (r *productRepository) MaxSerialWithPrefix(ctx context.Context, prefix string) (string, error) {
	query := `SELECT COALESCE(MAX(serial_number), '') FROM products WHERE serial_number LIKE $1 || '%'`

	var max string
	if err := r.db.QueryRow(ctx, query, prefix).Scan(&max); err != nil {
		return "", fmt.Errorf("failed to find max serial: %w", err)
	}

	return max, nil
}

// NextSerial atomically increments and returns the sequence for a day
// prefix. The counter row is seeded from the highest existing serial the
// first time a prefix is seen, so pre-counter serials stay unique.
func (r *productRepository) NextSerial(ctx context.Context, prefix string) (int, error) {
	now := time.Now()

	var seq int
	err := r.db.QueryRow(ctx,
		`UPDATE product_serial_counters SET value = value + 1, updated_at = $2 WHERE day_prefix = $1 RETURNING value`,
		prefix, now,
	).Scan(&seq)
	if err == nil {
		return seq, nil
	}
	if err != pgx.ErrNoRows {
		return 0, fmt.Errorf("failed to advance serial counter: %w", err)
	}

	// First serial for this prefix. Seed from the highest serial already in
	// the products table; a concurrent insert of the same prefix resolves
	// through the conflict clause.
	maxSerial, err := r.MaxSerialWithPrefix(ctx, prefix)
	if err != nil {
		return 0, err
	}

	seed := 0
	if suffix := strings.TrimPrefix(maxSerial, prefix); suffix != maxSerial && suffix != "" {
		if n, parseErr := strconv.Atoi(suffix); parseErr == nil {
			seed = n
		}
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO product_serial_counters (day_prefix, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (day_prefix)
		DO UPDATE SET value = product_serial_counters.value + 1, updated_at = $3
		RETURNING value`,
		prefix, seed+1, now,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("failed to seed serial counter: %w", err)
	}

	return seq, nil
}

// SalesStats aggregates per-status counts and the total sales sum
func (r *productRepository) SalesStats(ctx context.Context) (*ports.SalesStats, error) {
	query := `
		SELECT
			COALESCE(SUM(sales), 0),
			COUNT(*) FILTER (WHERE status = $1),
			COUNT(*) FILTER (WHERE status = $2),
			COUNT(*) FILTER (WHERE status = $3),
			COUNT(*)
		FROM products
		WHERE deleted_at IS NULL`

	stats := &ports.SalesStats{}
	err := r.db.QueryRow(ctx, query,
		domain.StatusOnShelf, domain.StatusOffShelf, domain.StatusSoldOut,
	).Scan(
		&stats.TotalSales,
		&stats.OnShelfCount,
		&stats.OffShelfCount,
		&stats.SoldOutCount,
		&stats.TotalCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales stats: %w", err)
	}

	return stats, nil
}

// FindLowStock returns live products at or below threshold, excluding those
// already sold out
func (r *productRepository) FindLowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE deleted_at IS NULL AND stock <= $1 AND status <> $2
		ORDER BY stock ASC, name ASC`, productColumnList())

	return r.queryProducts(ctx, query, threshold, domain.StatusSoldOut)
}

// FindHot returns the best-selling on-shelf products flagged as hot
func (r *productRepository) FindHot(ctx context.Context, limit int) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE deleted_at IS NULL AND is_hot AND status = $1
		ORDER BY sales DESC, created_at DESC
		LIMIT $2`, productColumnList())

	return r.queryProducts(ctx, query, domain.StatusOnShelf, limit)
}

// FindRecommend returns on-shelf products flagged as recommended
func (r *productRepository) FindRecommend(ctx context.Context, limit int) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE deleted_at IS NULL AND is_recommend AND status = $1
		ORDER BY sort ASC, created_at DESC
		LIMIT $2`, productColumnList())

	return r.queryProducts(ctx, query, domain.StatusOnShelf, limit)
}

// Count returns the number of live product rows
func (r *productRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM products WHERE deleted_at IS NULL`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*domain.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}

// rowScanner abstracts pgx.Row and pgx.Rows for the shared scan path
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}

	var (
		description, content, image, remark sql.NullString
		imagesRaw, specsRaw, attributesRaw  []byte
		categoryID                          sql.NullInt64
		originalPrice, weight               decimal.NullDecimal
		shelfTime                           sql.NullTime
	)

	err := row.Scan(
		&product.ID, &product.Name, &product.SerialNumber, &description, &content,
		&image, &imagesRaw, &categoryID, &product.Price, &originalPrice,
		&product.Stock, &product.Sales, &product.Status, &product.Sort, &weight, &product.Unit,
		&specsRaw, &attributesRaw, &product.IsVirtual, &product.IsHot, &product.IsRecommend,
		&shelfTime, &product.CreatedBy, &product.UpdatedBy, &remark,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.Description = description.String
	product.Content = content.String
	product.Image = image.String
	product.Remark = remark.String

	if categoryID.Valid {
		product.CategoryID = &categoryID.Int64
	}
	if originalPrice.Valid {
		product.OriginalPrice = &originalPrice.Decimal
	}
	if weight.Valid {
		product.Weight = &weight.Decimal
	}
	if shelfTime.Valid {
		t := shelfTime.Time
		product.ShelfTime = &t
	}

	if len(imagesRaw) > 0 {
		if err := json.Unmarshal(imagesRaw, &product.Images); err != nil {
			return nil, fmt.Errorf("failed to decode images: %w", err)
		}
	}
	if len(specsRaw) > 0 {
		if err := json.Unmarshal(specsRaw, &product.Specs); err != nil {
			return nil, fmt.Errorf("failed to decode specs: %w", err)
		}
	}
	if len(attributesRaw) > 0 {
		if err := json.Unmarshal(attributesRaw, &product.Attributes); err != nil {
			return nil, fmt.Errorf("failed to decode attributes: %w", err)
		}
	}

	return product, nil
}

func marshalJSONFields(product *domain.Product) (images, specs, attributes []byte, err error) {
	if product.Images != nil {
		if images, err = json.Marshal(product.Images); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode images: %w", err)
		}
	}
	if product.Specs != nil {
		if specs, err = json.Marshal(product.Specs); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode specs: %w", err)
		}
	}
	if product.Attributes != nil {
		if attributes, err = json.Marshal(product.Attributes); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode attributes: %w", err)
		}
	}
	return images, specs, attributes, nil
}

// dropColumns pads a scan destination list so the COUNT(*) OVER() column can
// be read without materializing the row itself.
func dropColumns(n int, last any) []any {
	dest := make([]any, n+1)
	for i := 0; i < n; i++ {
		dest[i] = new(any)
	}
	dest[n] = last
	return dest
}
