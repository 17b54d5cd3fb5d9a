// internal/workers/import_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	redis_a "github.com/wshuai/catalog-be/internal/adapters/redis_adapter"
	"github.com/wshuai/catalog-be/internal/adapters/storage"
	"github.com/wshuai/catalog-be/internal/core/domain"
	"github.com/wshuai/catalog-be/internal/core/ports"
)

// importLockTTL must outlast the slowest plausible import so a retry of a
// still-running job is rejected rather than doubled.
const importLockTTL = 30 * time.Minute

// importResultTTL keeps finished job results queryable for a day
const importResultTTL = 24 * time.Hour

// Expected spreadsheet columns, in order. The first row is a header and
// is skipped.
const (
	colName = iota
	colSerial
	colDescription
	colCategoryID
	colPrice
	colOriginalPrice
	colStock
	colUnit
	colRemark
)

// ImportProcessor consumes Excel import tasks: it downloads the uploaded
// spreadsheet from object storage, creates a product per row and records
// the outcome in the cache.
type ImportProcessor struct {
	service ports.CatalogService
	store   storage.ObjectStore
	cache   *redis_a.Cache
	logger  *slog.Logger
}

// NewImportProcessor creates a new import processor
func NewImportProcessor(service ports.CatalogService, store storage.ObjectStore, cache *redis_a.Cache, logger *slog.Logger) *ImportProcessor {
	return &ImportProcessor{
		service: service,
		store:   store,
		cache:   cache,
		logger:  logger.With(slog.String("processor", "import")),
	}
}

// ProcessExcelImport handles a TypeExcelImport task
func (p *ImportProcessor) ProcessExcelImport(ctx context.Context, t *asynq.Task) error {
	var payload ExcelImportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	p.logger.InfoContext(ctx, "processing Excel import",
		slog.String("job_id", payload.JobID),
		slog.String("object_key", payload.ObjectKey))

	// Dedup lock: an asynq retry of a job that is still running (or already
	// ran) must not import the rows twice.
	lockKey := redis_a.BuildKey(redis_a.PrefixImport, "lock", payload.JobID)
	acquired, err := p.cache.SetNX(ctx, lockKey, time.Now().Unix(), importLockTTL)
	if err != nil {
		return fmt.Errorf("failed to acquire import lock: %w", err)
	}
	if !acquired {
		p.logger.WarnContext(ctx, "import job already claimed, skipping",
			slog.String("job_id", payload.JobID))
		return nil
	}

	p.recordResult(ctx, ImportResult{JobID: payload.JobID, Status: "processing"})

	data, err := p.store.Download(ctx, payload.ObjectKey)
	if err != nil {
		p.recordResult(ctx, ImportResult{
			JobID:  payload.JobID,
			Status: "failed",
			Errors: []string{err.Error()},
		})
		return fmt.Errorf("failed to download import file: %w", err)
	}

	result := p.importRows(ctx, data, payload)
	p.recordResult(ctx, result)

	// The consumed spreadsheet is no longer needed
	if err := p.store.Delete(ctx, payload.ObjectKey); err != nil {
		p.logger.WarnContext(ctx, "failed to delete consumed import file",
			slog.String("object_key", payload.ObjectKey),
			slog.String("error", err.Error()))
	}

	p.logger.InfoContext(ctx, "Excel import completed",
		slog.String("job_id", payload.JobID),
		slog.Int("total", result.Total),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed))

	return nil
}

func (p *ImportProcessor) importRows(ctx context.Context, data []byte, payload ExcelImportPayload) ImportResult {
	result := ImportResult{JobID: payload.JobID, Status: "completed"}

	file, err := xlsx.OpenBinary(data)
	if err != nil {
		result.Status = "failed"
		result.Errors = append(result.Errors, fmt.Sprintf("failed to open spreadsheet: %v", err))
		return result
	}

	if len(file.Sheets) == 0 {
		result.Status = "failed"
		result.Errors = append(result.Errors, "spreadsheet has no sheets")
		return result
	}

	sheet := file.Sheets[0]
	rowIdx := 0

	_ = sheet.ForEachRow(func(r *xlsx.Row) error {
		// Skip header row
		if rowIdx == 0 {
			rowIdx++
			return nil
		}
		rowIdx++

		product, err := p.parseRow(r, payload.CreatedBy)
		if err != nil {
			result.Total++
			result.Failed++
			result.Errors = appendRowError(result.Errors, rowIdx, err)
			return nil
		}
		if product == nil {
			// Blank row
			return nil
		}

		result.Total++
		if err := p.service.CreateProduct(ctx, product); err != nil {
			result.Failed++
			result.Errors = appendRowError(result.Errors, rowIdx, err)
			return nil
		}
		result.Succeeded++
		return nil
	})

	if result.Failed > 0 && result.Succeeded == 0 {
		result.Status = "failed"
	}

	return result
}

// parseRow converts a spreadsheet row into a product. A row with an empty
// name cell is treated as blank and skipped.
func (p *ImportProcessor) parseRow(r *xlsx.Row, createdBy int64) (*domain.Product, error) {
	get := func(i int) string {
		c := r.GetCell(i)
		if c == nil {
			return ""
		}
		return strings.TrimSpace(c.String())
	}

	name := get(colName)
	if name == "" {
		return nil, nil
	}

	price, err := parseDecimalCell(get(colPrice))
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}

	product := &domain.Product{
		Name:         name,
		SerialNumber: get(colSerial),
		Description:  get(colDescription),
		Price:        price,
		Unit:         get(colUnit),
		Remark:       get(colRemark),
		CreatedBy:    createdBy,
	}

	if s := get(colCategoryID); s != "" {
		categoryID, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid category_id: %w", err)
		}
		product.CategoryID = &categoryID
	}

	if s := get(colOriginalPrice); s != "" {
		originalPrice, err := parseDecimalCell(s)
		if err != nil {
			return nil, fmt.Errorf("invalid original_price: %w", err)
		}
		product.OriginalPrice = &originalPrice
	}

	if s := get(colStock); s != "" {
		stock, err := strconv.Atoi(s)
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("invalid stock: %q", s)
		}
		product.Stock = stock
	}

	return product, nil
}

func parseDecimalCell(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.TrimPrefix(s, "¥")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	return decimal.NewFromString(s)
}

func appendRowError(errs []string, row int, err error) []string {
	// Keep the error list bounded; a pathological file should not blow up
	// the result record.
	if len(errs) >= 50 {
		return errs
	}
	return append(errs, fmt.Sprintf("row %d: %v", row, err))
}

func (p *ImportProcessor) recordResult(ctx context.Context, result ImportResult) {
	key := redis_a.BuildKey(redis_a.PrefixImport, result.JobID)
	if err := p.cache.SetWithTTL(ctx, key, result, importResultTTL); err != nil {
		p.logger.WarnContext(ctx, "failed to record import result",
			slog.String("job_id", result.JobID),
			slog.String("error", err.Error()))
	}
}
