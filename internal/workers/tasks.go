// internal/workers/tasks.go
package workers

// Task type names registered on the asynq mux
const (
	TypeExcelImport      = "catalog:import_excel"
	TypeStatsSnapshot    = "catalog:stats_snapshot"
	TypeLowStockScan     = "catalog:low_stock_scan"
	TypeCleanupCounters  = "catalog:cleanup_counters"
	TypeCleanupTempFiles = "catalog:cleanup_temp_files"
)

// ExcelImportPayload is the payload of a TypeExcelImport task. The
// spreadsheet itself lives in object storage under ObjectKey; the task only
// carries the pointer.
type ExcelImportPayload struct {
	JobID     string `json:"job_id"`
	ObjectKey string `json:"object_key"`
	CreatedBy int64  `json:"created_by"`
}

// ImportResult is the terminal state of an import job, kept in Redis so
// the status endpoint can report progress after the worker finishes.
type ImportResult struct {
	JobID     string   `json:"job_id"`
	Status    string   `json:"status"`
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}
