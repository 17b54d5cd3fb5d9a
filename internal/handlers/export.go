// internal/handlers/export.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tealeg/xlsx/v3"

	redis_a "github.com/wshuai/catalog-be/internal/adapters/redis_adapter"
	"github.com/wshuai/catalog-be/internal/core/domain"
	"github.com/wshuai/catalog-be/internal/core/ports"
)

// exportPageSize is the page size used when draining the catalog for an
// export. Exports stream page by page so a large catalog does not require
// one unbounded query.
const exportPageSize = 1000

// ExportParams defines parameters for export operations
type ExportParams struct {
	Status   *domain.Status `json:"status"`
	Keyword  string         `json:"keyword"`
	DateFrom *time.Time     `json:"date_from"`
	DateTo   *time.Time     `json:"date_to"`
}

// JSONExportResponse represents the JSON export response structure
type JSONExportResponse struct {
	Products []*domain.Product `json:"products"`
	Metadata ExportMetadata    `json:"metadata"`
}

// ExportMetadata contains metadata about the export
type ExportMetadata struct {
	ExportDate time.Time `json:"export_date"`
	TotalItems int       `json:"total_items"`
	Keyword    string    `json:"keyword,omitempty"`
	Status     *int16    `json:"status,omitempty"`
}

// ExportHandler handles export operations
type ExportHandler struct {
	service ports.CatalogService
	cache   ports.CacheRepository
	logger  *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(service ports.CatalogService, cache ports.CacheRepository, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		cache:   cache,
		logger:  logger.With(slog.String("handler", "export")),
	}
}

// ExportExcel handles GET /api/v1/products/export/excel
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := h.parseExportParams(r)

	h.logger.InfoContext(ctx, "starting Excel export",
		slog.String("keyword", params.Keyword))

	products, err := h.collectProducts(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to collect products for export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	excelData, err := h.generateExcelFile(products)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("products_export_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(excelData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(excelData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response",
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "Excel export completed",
		slog.Int("total_rows", len(products)),
		slog.String("filename", filename))
}

// ExportJSON handles GET /api/v1/products/export/json
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := h.parseExportParams(r)

	cacheKey := redis_a.BuildKey(redis_a.PrefixExport, "json", h.cacheKeyFromParams(params))
	var cachedData []byte
	if err := h.cache.Get(ctx, cacheKey, &cachedData); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Header().Set("Content-Length", strconv.Itoa(len(cachedData)))

		if _, err := w.Write(cachedData); err != nil {
			h.logger.ErrorContext(ctx, "failed to write cached JSON response",
				slog.String("error", err.Error()))
		}
		return
	}

	products, err := h.collectProducts(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to collect products for export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	response := JSONExportResponse{
		Products: products,
		Metadata: ExportMetadata{
			ExportDate: time.Now(),
			TotalItems: len(products),
			Keyword:    params.Keyword,
		},
	}
	if params.Status != nil {
		v := int16(*params.Status)
		response.Metadata.Status = &v
	}

	responseData, err := json.Marshal(response)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal JSON export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate JSON")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Header().Set("Content-Length", strconv.Itoa(len(responseData)))

	if _, err := w.Write(responseData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write JSON response",
			slog.String("error", err.Error()))
		return
	}

	// Cache the result for the next identical export (async)
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := h.cache.SetWithTTL(cacheCtx, cacheKey, responseData, 5*time.Minute); err != nil {
			h.logger.WarnContext(cacheCtx, "failed to cache JSON export",
				slog.String("error", err.Error()))
		}
	}()

	h.logger.InfoContext(ctx, "JSON export completed",
		slog.Int("total_rows", len(products)))
}

// Helper methods

func (h *ExportHandler) parseExportParams(r *http.Request) *ExportParams {
	params := &ExportParams{}
	q := r.URL.Query()

	params.Keyword = strings.TrimSpace(q.Get("keyword"))

	if status := q.Get("status"); status != "" {
		if v, err := strconv.Atoi(status); err == nil {
			s := domain.Status(v)
			if s.Valid() {
				params.Status = &s
			}
		}
	}

	if from := q.Get("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			params.DateFrom = &t
		}
	}

	if to := q.Get("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			params.DateTo = &t
		}
	}

	return params
}

// collectProducts drains the catalog page by page under the export filters
func (h *ExportHandler) collectProducts(ctx context.Context, params *ExportParams) ([]*domain.Product, error) {
	var products []*domain.Product

	for page := 1; ; page++ {
		result, err := h.service.List(ctx, ports.ListParams{
			Keyword:   params.Keyword,
			Status:    params.Status,
			StartTime: params.DateFrom,
			EndTime:   params.DateTo,
			SortBy:    "created_at",
			SortOrder: "desc",
			Page:      page,
			PageSize:  exportPageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}

		products = append(products, result.Items...)

		if page >= result.TotalPages || len(result.Items) == 0 {
			break
		}
	}

	return products, nil
}

var excelHeaders = []string{
	"ID", "Name", "Serial Number", "Description", "Category ID",
	"Price", "Original Price", "Stock", "Sales", "Status", "Unit",
	"Sort", "Is Virtual", "Is Hot", "Is Recommend", "Shelf Time",
	"Created By", "Remark", "Created At", "Updated At",
}

// generateExcelFile creates an Excel file in memory from the data
func (h *ExportHandler) generateExcelFile(products []*domain.Product) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range excelHeaders {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for _, p := range products {
		dataRow := sheet.AddRow()
		for _, value := range h.productToExcelRow(p) {
			cell := dataRow.AddCell()
			cell.Value = value
		}
	}

	for i := 0; i < len(excelHeaders); i++ {
		sheet.SetColWidth(i, i, 15)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}

	return buffer.Bytes(), nil
}

func (h *ExportHandler) productToExcelRow(p *domain.Product) []string {
	categoryID := ""
	if p.CategoryID != nil {
		categoryID = strconv.FormatInt(*p.CategoryID, 10)
	}

	originalPrice := ""
	if p.OriginalPrice != nil {
		originalPrice = p.OriginalPrice.StringFixed(2)
	}

	shelfTime := ""
	if p.ShelfTime != nil {
		shelfTime = p.ShelfTime.Format("2006-01-02 15:04:05")
	}

	return []string{
		p.ID.String(),
		p.Name,
		p.SerialNumber,
		p.Description,
		categoryID,
		p.Price.StringFixed(2),
		originalPrice,
		strconv.Itoa(p.Stock),
		strconv.Itoa(p.Sales),
		p.Status.Label(),
		p.Unit,
		strconv.Itoa(p.Sort),
		boolLabel(p.IsVirtual),
		boolLabel(p.IsHot),
		boolLabel(p.IsRecommend),
		shelfTime,
		strconv.FormatInt(p.CreatedBy, 10),
		p.Remark,
		p.CreatedAt.Format("2006-01-02 15:04:05"),
		p.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func boolLabel(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func (h *ExportHandler) cacheKeyFromParams(params *ExportParams) string {
	key := fmt.Sprintf("kw_%s", params.Keyword)
	if params.Status != nil {
		key += fmt.Sprintf("_st_%d", *params.Status)
	}
	if params.DateFrom != nil {
		key += fmt.Sprintf("_from_%s", params.DateFrom.Format("20060102"))
	}
	if params.DateTo != nil {
		key += fmt.Sprintf("_to_%s", params.DateTo.Format("20060102"))
	}
	return key
}

func (h *ExportHandler) respondError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
