// internal/handlers/import.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	redis_a "github.com/wshuai/catalog-be/internal/adapters/redis_adapter"
	"github.com/wshuai/catalog-be/internal/adapters/storage"
	"github.com/wshuai/catalog-be/internal/core/ports"
	"github.com/wshuai/catalog-be/internal/workers"
)

// ImportHandler handles import operations
type ImportHandler struct {
	asynqClient *asynq.Client
	store       storage.ObjectStore
	cache       ports.CacheRepository
	logger      *slog.Logger
	maxFileSize int64
}

// NewImportHandler creates a new import handler
func NewImportHandler(asynqClient *asynq.Client, store storage.ObjectStore, cache ports.CacheRepository, logger *slog.Logger, maxFileSize int64) *ImportHandler {
	return &ImportHandler{
		asynqClient: asynqClient,
		store:       store,
		cache:       cache,
		logger:      logger.With(slog.String("handler", "import")),
		maxFileSize: maxFileSize,
	}
}

// ImportExcel handles POST /api/v1/products/import/excel
func (h *ImportHandler) ImportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		h.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" &&
		contentType != "application/vnd.ms-excel" {
		h.respondError(w, http.StatusBadRequest, "Only Excel files are allowed")
		return
	}

	createdBy := int64(0)
	if v := r.FormValue("created_by"); v != "" {
		createdBy, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "created_by must be an integer")
			return
		}
	}
	if createdBy == 0 {
		h.respondError(w, http.StatusBadRequest, "created_by is required")
		return
	}

	// Persist the upload to object storage; the task payload only carries
	// the key so it stays small and retry-safe.
	objectKey := storage.ImportKey(header.Filename)
	if _, err := h.store.Upload(ctx, objectKey, file, contentType); err != nil {
		h.logger.ErrorContext(ctx, "failed to store import upload",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to save upload")
		return
	}

	jobID := uuid.New().String()
	payload := workers.ExcelImportPayload{
		JobID:     jobID,
		ObjectKey: objectKey,
		CreatedBy: createdBy,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal import payload",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to queue import job")
		return
	}

	task := asynq.NewTask(workers.TypeExcelImport, b)
	info, err := h.asynqClient.Enqueue(task,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Retention(24*time.Hour))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue import task",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to queue import job")
		return
	}

	h.logger.InfoContext(ctx, "Excel import queued",
		slog.String("job_id", jobID),
		slog.String("task_id", info.ID),
		slog.String("object_key", objectKey))

	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":  jobID,
		"status":  "queued",
		"message": "Excel import has been queued for processing",
	})
}

// ImportStatus handles GET /api/v1/products/import/status/{jobId}
func (h *ImportHandler) ImportStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := r.PathValue("jobId")

	if _, err := uuid.Parse(jobID); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	var result workers.ImportResult
	key := redis_a.BuildKey(redis_a.PrefixImport, jobID)
	if err := h.cache.Get(ctx, key, &result); err != nil {
		h.respondError(w, http.StatusNotFound, "Job not found")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

func (h *ImportHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *ImportHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
