// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"

	"github.com/wshuai/catalog-be/internal/core/ports"
	"github.com/wshuai/catalog-be/internal/pkg/config"
)

// CleanupProcessor handles cleanup tasks
type CleanupProcessor struct {
	db     ports.Database
	config *config.Config
	logger *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(db ports.Database, cfg *config.Config, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		db:     db,
		config: cfg,
		logger: logger.With(slog.String("processor", "cleanup")),
	}
}

// CleanupSerialCounters drops day-scoped serial counters older than 90
// days. The counters only matter within their day, so old rows are dead
// weight.
func (p *CleanupProcessor) CleanupSerialCounters(ctx context.Context, t *asynq.Task) error {
	cutoff := p.config.Catalog.SerialPrefix + time.Now().AddDate(0, 0, -90).Format("20060102")
	query := `DELETE FROM product_serial_counters WHERE day_prefix < $1`

	result, err := p.db.Exec(ctx, query, cutoff)
	if err != nil {
		return fmt.Errorf("failed to cleanup serial counters: %w", err)
	}

	p.logger.InfoContext(ctx, "serial counters cleaned up",
		slog.String("cutoff", cutoff),
		slog.Int64("rows_deleted", result.RowsAffected()))

	return nil
}

// CleanupTempFiles removes old temporary files
func (p *CleanupProcessor) CleanupTempFiles(ctx context.Context, t *asynq.Task) error {
	tempDir := p.config.FileProcessing.TempDir
	maxAge := 24 * time.Hour

	var deletedCount int
	err := filepath.Walk(tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err != nil {
				p.logger.WarnContext(ctx, "failed to delete temp file",
					slog.String("file", path),
					slog.String("error", err.Error()))
			} else {
				deletedCount++
			}
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("failed to walk temp directory: %w", err)
	}

	p.logger.InfoContext(ctx, "temp files cleaned up",
		slog.Int("files_deleted", deletedCount))

	return nil
}
