// internal/handlers/image.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/wshuai/catalog-be/internal/adapters/storage"
	"github.com/wshuai/catalog-be/internal/core/ports"
)

// allowedImageTypes are the content types accepted for product images
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ImageHandler handles product image uploads
type ImageHandler struct {
	service     ports.CatalogService
	store       storage.ObjectStore
	logger      *slog.Logger
	maxFileSize int64
}

// NewImageHandler creates a new image handler
func NewImageHandler(service ports.CatalogService, store storage.ObjectStore, logger *slog.Logger, maxFileSize int64) *ImageHandler {
	return &ImageHandler{
		service:     service,
		store:       store,
		logger:      logger.With(slog.String("handler", "image")),
		maxFileSize: maxFileSize,
	}
}

// UploadImage handles POST /api/v1/products/{id}/image. The uploaded file
// becomes the product's primary image; the previous primary, if any, is
// appended to the gallery list rather than dropped.
func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	product, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load product for image upload",
			slog.String("product_id", id.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusNotFound, "Product not found")
		return
	}

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
	if !allowedImageTypes[strings.ToLower(contentType)] {
		h.respondError(w, http.StatusBadRequest, "Only JPEG, PNG, GIF and WebP images are allowed")
		return
	}

	key := storage.ProductImageKey(id, header.Filename)
	location, err := h.store.Upload(ctx, key, file, contentType)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to upload product image",
			slog.String("product_id", id.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	if product.Image != "" {
		product.Images = append(product.Images, product.Image)
	}
	product.Image = location

	if err := h.service.UpdateProduct(ctx, id, product); err != nil {
		h.logger.ErrorContext(ctx, "failed to attach image to product",
			slog.String("product_id", id.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to attach image to product")
		return
	}

	h.logger.InfoContext(ctx, "product image uploaded",
		slog.String("product_id", id.String()),
		slog.String("key", key))

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"product_id": id.String(),
		"image":      location,
		"images":     product.Images,
	})
}

func (h *ImageHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *ImageHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
