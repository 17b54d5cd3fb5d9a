// internal/handlers/product.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wshuai/catalog-be/internal/core/domain"
	"github.com/wshuai/catalog-be/internal/core/ports"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	service ports.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service ports.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "product")),
	}
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	product, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get product",
			slog.String("product_id", id.String()),
			slog.String("error", err.Error()))
		h.respondDomainError(w, err, "Failed to retrieve product")
		return
	}

	h.respondJSON(w, http.StatusOK, product)
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := h.parseListParams(r)

	result, err := h.service.List(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list products",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	product := req.ToDomain()

	if err := h.service.CreateProduct(ctx, product); err != nil {
		h.logger.ErrorContext(ctx, "failed to create product",
			slog.String("error", err.Error()))
		h.respondDomainError(w, err, "Failed to create product")
		return
	}

	h.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID.String()),
		slog.String("serial_number", product.SerialNumber))

	h.respondJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/v1/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	product := req.ToDomain()

	if err := h.service.UpdateProduct(ctx, id, product); err != nil {
		h.logger.ErrorContext(ctx, "failed to update product",
			slog.String("product_id", id.String()),
			slog.String("error", err.Error()))
		h.respondDomainError(w, err, "Failed to update product")
		return
	}

	updated, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to retrieve updated product",
			slog.String("product_id", id.String()),
			slog.String("error", err.Error()))
		// The write already landed, report success anyway
		h.respondJSON(w, http.StatusOK, map[string]string{"message": "Product updated successfully"})
		return
	}

	h.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", id.String()))

	h.respondJSON(w, http.StatusOK, updated)
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete product",
			slog.String("product_id", id.String()),
			slog.String("error", err.Error()))
		h.respondDomainError(w, err, "Failed to delete product")
		return
	}

	h.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id.String()))

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Product deleted successfully",
		"product_id": id.String(),
	})
}

// BatchDelete handles POST /api/v1/products/batch-delete
func (h *ProductHandler) BatchDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ids, ok := h.parseBatchIDs(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.BatchDelete(ctx, ids)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to batch delete products",
			slog.Int("count", len(ids)),
			slog.String("error", err.Error()))
		h.respondDomainError(w, err, "Failed to delete products")
		return
	}

	h.logger.InfoContext(ctx, "products deleted",
		slog.Int64("deleted", deleted))

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Products deleted successfully",
		"deleted": deleted,
	})
}

// OnShelf handles POST /api/v1/products/{id}/on-shelf
func (h *ProductHandler) OnShelf(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.OnShelf(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "failed to put product on shelf",
			slog.String("product_id", id.String()),
			slog.String("error", err.Error()))
		h.respondDomainError(w, err, "Failed to put product on shelf")
		return
	}

	h.logger.InfoContext(ctx, "product on shelf",
		slog.String("product_id", id.String()))

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Product is now on shelf"})
}

// OffShelf handles POST /api/v1/products/{id}/off-shelf
func (h *ProductHandler) OffShelf(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.OffShelf(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "failed to take product off shelf",
			slog.String("product_id", id.String()),
			slog.String("error", err.Error()))
		h.respondDomainError(w, err, "Failed to take product off shelf")
		return
	}

	h.logger.InfoContext(ctx, "product off shelf",
		slog.String("product_id", id.String()))

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Product is now off shelf"})
}

// BatchOnShelf handles POST /api/v1/products/batch/on-shelf
func (h *ProductHandler) BatchOnShelf(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ids, ok := h.parseBatchIDs(w, r)
	if !ok {
		return
	}

	updated, err := h.service.BatchOnShelf(ctx, ids)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to batch put products on shelf",
			slog.Int("count", len(ids)),
			slog.String("error", err.Error()))
		h.respondDomainError(w, err, "Failed to put products on shelf")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Products are now on shelf",
		"updated": updated,
	})
}

// BatchOffShelf handles POST /api/v1/products/batch/off-shelf
func (h *ProductHandler) BatchOffShelf(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ids, ok := h.parseBatchIDs(w, r)
	if !ok {
		return
	}

	updated, err := h.service.BatchOffShelf(ctx, ids)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to batch take products off shelf",
			slog.Int("count", len(ids)),
			slog.String("error", err.Error()))
		h.respondDomainError(w, err, "Failed to take products off shelf")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Products are now off shelf",
		"updated": updated,
	})
}

// AdjustStock handles POST /api/v1/products/{id}/adjust-stock
func (h *ProductHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	direction := ports.AdjustDirection(req.Direction)
	if !direction.Valid() {
		h.respondError(w, http.StatusBadRequest, "direction must be \"increase\" or \"decrease\"")
		return
	}

	change, err := h.service.AdjustStock(ctx, id, req.Quantity, direction)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to adjust stock",
			slog.String("product_id", id.String()),
			slog.String("direction", req.Direction),
			slog.Int("quantity", req.Quantity),
			slog.String("error", err.Error()))
		h.respondDomainError(w, err, "Failed to adjust stock")
		return
	}

	h.logger.InfoContext(ctx, "stock adjusted",
		slog.String("product_id", id.String()),
		slog.String("direction", req.Direction),
		slog.Int("quantity", req.Quantity),
		slog.Int("stock", change.Stock),
		slog.Bool("status_changed", change.StatusChanged))

	h.respondJSON(w, http.StatusOK, change)
}

// Stats handles GET /api/v1/products/stats
func (h *ProductHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to compute sales stats",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to compute sales stats")
		return
	}

	h.respondJSON(w, http.StatusOK, stats)
}

// LowStock handles GET /api/v1/products/low-stock
func (h *ProductHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	threshold := 0
	if t := r.URL.Query().Get("threshold"); t != "" {
		v, err := strconv.Atoi(t)
		if err != nil || v < 0 {
			h.respondError(w, http.StatusBadRequest, "threshold must be a non-negative integer")
			return
		}
		threshold = v
	}

	products, err := h.service.LowStock(ctx, threshold)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list low stock products",
			slog.Int("threshold", threshold),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list low stock products")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": products,
		"count": len(products),
	})
}

// StatusOptions handles GET /api/v1/products/status-options
func (h *ProductHandler) StatusOptions(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, domain.StatusOptions())
}

// Hot handles GET /api/v1/products/hot
func (h *ProductHandler) Hot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.service.Hot(ctx, h.parseLimit(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list hot products",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list hot products")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"items": products})
}

// Recommend handles GET /api/v1/products/recommend
func (h *ProductHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.service.Recommend(ctx, h.parseLimit(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list recommended products",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list recommended products")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"items": products})
}

// parseID parses the {id} path segment; on failure it writes a 400 and
// returns ok=false.
func (h *ProductHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid product ID format")
		return uuid.Nil, false
	}
	return id, true
}

func (h *ProductHandler) parseBatchIDs(w http.ResponseWriter, r *http.Request) ([]uuid.UUID, bool) {
	var req BatchIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}

	if len(req.IDs) == 0 {
		h.respondError(w, http.StatusBadRequest, "ids is required")
		return nil, false
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid product ID: %s", raw))
			return nil, false
		}
		ids = append(ids, id)
	}

	return ids, true
}

func (h *ProductHandler) parseLimit(r *http.Request) int {
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			if l > 100 {
				return 100
			}
			return l
		}
	}
	return 0
}

// parseListParams parses query parameters for listing products
func (h *ProductHandler) parseListParams(r *http.Request) ports.ListParams {
	params := ports.ListParams{
		SortBy:    "created_at",
		SortOrder: "desc",
	}

	q := r.URL.Query()

	if page := q.Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}

	if size := q.Get("page_size"); size != "" {
		if s, err := strconv.Atoi(size); err == nil && s > 0 {
			params.PageSize = s
		}
	}

	params.Keyword = q.Get("keyword")

	if status := q.Get("status"); status != "" {
		if v, err := strconv.Atoi(status); err == nil {
			s := domain.Status(v)
			if s.Valid() {
				params.Status = &s
			}
		}
	}

	if categoryID := q.Get("category_id"); categoryID != "" {
		if v, err := strconv.ParseInt(categoryID, 10, 64); err == nil {
			params.CategoryID = &v
		}
	}

	if createdBy := q.Get("created_by"); createdBy != "" {
		if v, err := strconv.ParseInt(createdBy, 10, 64); err == nil {
			params.CreatedBy = &v
		}
	}

	if isHot := q.Get("is_hot"); isHot != "" {
		if v, err := strconv.ParseBool(isHot); err == nil {
			params.IsHot = &v
		}
	}

	if isRecom := q.Get("is_recommend"); isRecom != "" {
		if v, err := strconv.ParseBool(isRecom); err == nil {
			params.IsRecom = &v
		}
	}

	if start := q.Get("start_time"); start != "" {
		if t, err := time.Parse(time.RFC3339, start); err == nil {
			params.StartTime = &t
		}
	}

	if end := q.Get("end_time"); end != "" {
		if t, err := time.Parse(time.RFC3339, end); err == nil {
			params.EndTime = &t
		}
	}

	if sortBy := q.Get("sort"); sortBy != "" {
		params.SortBy = sortBy
	}

	if order := q.Get("order"); order == "asc" || order == "desc" {
		params.SortOrder = order
	}

	return params
}

// Helper methods

func (h *ProductHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *ProductHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps the catalog sentinel errors onto HTTP statuses;
// anything unrecognized falls through as a 500 with fallback as the body.
func (h *ProductHandler) respondDomainError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrDuplicateSerial):
		h.respondError(w, http.StatusConflict, "Product serial number already exists")
	case errors.Is(err, domain.ErrOnShelfDeletion):
		h.respondError(w, http.StatusConflict, "On-shelf products cannot be deleted")
	case errors.Is(err, domain.ErrIncompleteProduct):
		h.respondError(w, http.StatusUnprocessableEntity, "Product name and price are required before going on shelf")
	case errors.Is(err, domain.ErrInsufficientStock):
		h.respondError(w, http.StatusConflict, "Insufficient stock")
	case errors.Is(err, domain.ErrInvalidQuantity):
		h.respondError(w, http.StatusBadRequest, "Quantity must be positive")
	case errors.Is(err, domain.ErrMissingCreator):
		h.respondError(w, http.StatusBadRequest, "created_by is required")
	default:
		h.respondError(w, http.StatusInternalServerError, fallback)
	}
}

// Request/Response DTOs

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Name          string           `json:"name"`
	SerialNumber  string           `json:"serial_number,omitempty"`
	Description   string           `json:"description,omitempty"`
	Content       string           `json:"content,omitempty"`
	Image         string           `json:"image,omitempty"`
	Images        []string         `json:"images,omitempty"`
	CategoryID    *int64           `json:"category_id,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Stock         int              `json:"stock"`
	Status        int16            `json:"status,omitempty"`
	Sort          int              `json:"sort,omitempty"`
	Weight        *decimal.Decimal `json:"weight,omitempty"`
	Unit          string           `json:"unit,omitempty"`
	Specs         map[string]any   `json:"specs,omitempty"`
	Attributes    map[string]any   `json:"attributes,omitempty"`
	IsVirtual     bool             `json:"is_virtual,omitempty"`
	IsHot         bool             `json:"is_hot,omitempty"`
	IsRecommend   bool             `json:"is_recommend,omitempty"`
	CreatedBy     int64            `json:"created_by"`
	Remark        string           `json:"remark,omitempty"`
}

// Validate validates the create product request
func (r *CreateProductRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}
	if r.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}
	if r.Status != 0 && !domain.Status(r.Status).Valid() {
		return fmt.Errorf("unknown status: %d", r.Status)
	}
	return nil
}

// ToDomain converts the request to a domain model
func (r *CreateProductRequest) ToDomain() *domain.Product {
	return &domain.Product{
		Name:          r.Name,
		SerialNumber:  r.SerialNumber,
		Description:   r.Description,
		Content:       r.Content,
		Image:         r.Image,
		Images:        r.Images,
		CategoryID:    r.CategoryID,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Stock:         r.Stock,
		Status:        domain.Status(r.Status),
		Sort:          r.Sort,
		Weight:        r.Weight,
		Unit:          r.Unit,
		Specs:         r.Specs,
		Attributes:    r.Attributes,
		IsVirtual:     r.IsVirtual,
		IsHot:         r.IsHot,
		IsRecommend:   r.IsRecommend,
		CreatedBy:     r.CreatedBy,
		Remark:        r.Remark,
	}
}

// UpdateProductRequest represents the request body for updating a product
type UpdateProductRequest struct {
	Name          string           `json:"name"`
	SerialNumber  string           `json:"serial_number,omitempty"`
	Description   string           `json:"description,omitempty"`
	Content       string           `json:"content,omitempty"`
	Image         string           `json:"image,omitempty"`
	Images        []string         `json:"images,omitempty"`
	CategoryID    *int64           `json:"category_id,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Sort          int              `json:"sort,omitempty"`
	Weight        *decimal.Decimal `json:"weight,omitempty"`
	Unit          string           `json:"unit,omitempty"`
	Specs         map[string]any   `json:"specs,omitempty"`
	Attributes    map[string]any   `json:"attributes,omitempty"`
	IsVirtual     bool             `json:"is_virtual,omitempty"`
	IsHot         bool             `json:"is_hot,omitempty"`
	IsRecommend   bool             `json:"is_recommend,omitempty"`
	UpdatedBy     int64            `json:"updated_by,omitempty"`
	Remark        string           `json:"remark,omitempty"`
}

// Validate validates the update product request
func (r *UpdateProductRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}
	return nil
}

// ToDomain converts the request to a domain model
func (r *UpdateProductRequest) ToDomain() *domain.Product {
	return &domain.Product{
		Name:          r.Name,
		SerialNumber:  r.SerialNumber,
		Description:   r.Description,
		Content:       r.Content,
		Image:         r.Image,
		Images:        r.Images,
		CategoryID:    r.CategoryID,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Sort:          r.Sort,
		Weight:        r.Weight,
		Unit:          r.Unit,
		Specs:         r.Specs,
		Attributes:    r.Attributes,
		IsVirtual:     r.IsVirtual,
		IsHot:         r.IsHot,
		IsRecommend:   r.IsRecommend,
		UpdatedBy:     r.UpdatedBy,
		Remark:        r.Remark,
	}
}

// BatchIDsRequest carries the id set for the batch endpoints
type BatchIDsRequest struct {
	IDs []string `json:"ids"`
}

// AdjustStockRequest represents the request body for a stock adjustment
type AdjustStockRequest struct {
	Quantity  int    `json:"quantity"`
	Direction string `json:"direction"`
}
