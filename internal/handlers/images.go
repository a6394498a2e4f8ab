// internal/handlers/images.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/orovela/joyeria-be/internal/adapters/storage"
	"github.com/orovela/joyeria-be/internal/core/domain"
	"github.com/orovela/joyeria-be/internal/core/ports"
)

// maxImageSize caps uploads at 10 MB; item photos are phone pictures, not
// print masters.
const maxImageSize = 10 << 20

const presignedURLTTL = time.Hour

// ImageHandler handles item image uploads and retrieval
type ImageHandler struct {
	service ports.InventoryService
	store   ports.ItemStore
	images  storage.ImageStore
	cache   ports.CacheRepository
	logger  *slog.Logger
}

// NewImageHandler creates a new image handler
func NewImageHandler(service ports.InventoryService, store ports.ItemStore, images storage.ImageStore, cache ports.CacheRepository, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{
		service: service,
		store:   store,
		images:  images,
		cache:   cache,
		logger:  logger.With(slog.String("handler", "images")),
	}
}

// UploadImage handles POST /api/v1/items/{id}/image. The image lands in S3
// first; only then is the record pointed at the new key, so a failed upload
// never leaves the item referencing a missing object.
func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid multipart form or image too large")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Missing image file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		h.respondError(w, http.StatusUnsupportedMediaType, "Only image uploads are accepted")
		return
	}

	key := storage.ImageKey(id, header.Filename)
	location, err := h.images.Upload(ctx, key, file, contentType)
	if err != nil {
		h.logger.ErrorContext(ctx, "image upload failed",
			slog.String("id", idStr),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusBadGateway, "Failed to store image")
		return
	}

	item, err := h.store.SetImage(ctx, id, key)
	if err != nil {
		// The record update failed; drop the orphaned object.
		if delErr := h.images.Delete(ctx, key); delErr != nil {
			h.logger.WarnContext(ctx, "failed to delete orphaned image",
				slog.String("key", key),
				slog.String("error", delErr.Error()))
		}
		h.logger.ErrorContext(ctx, "failed to attach image to item",
			slog.String("id", idStr),
			slog.String("error", err.Error()))
		h.respondError(w, statusForError(err), err.Error())
		return
	}

	if err := h.cache.InvalidateItems(ctx); err != nil {
		h.logger.WarnContext(ctx, "cache invalidation failed",
			slog.String("error", err.Error()))
	}

	h.logger.InfoContext(ctx, "item image uploaded",
		slog.String("id", idStr),
		slog.String("key", key),
		slog.Int64("size", header.Size))

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"item":      item,
		"image_url": location,
	})
}

// GetImageURL handles GET /api/v1/items/{id}/image and returns a short-lived
// presigned URL for the item's image.
func (h *ImageHandler) GetImageURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	item, ok := h.findItem(id)
	if !ok {
		h.respondError(w, http.StatusNotFound, "Item not found")
		return
	}
	if item.ImageKey == "" {
		h.respondError(w, http.StatusNotFound, "Item has no image")
		return
	}

	url, err := h.images.GetPresignedURL(ctx, item.ImageKey, presignedURLTTL)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to presign image URL",
			slog.String("id", idStr),
			slog.String("key", item.ImageKey),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusBadGateway, "Failed to generate image URL")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"url":        url,
		"expires_in": presignedURLTTL.String(),
	})
}

// findItem looks an item up in the synchronized snapshot.
func (h *ImageHandler) findItem(id uuid.UUID) (*domain.Item, bool) {
	for _, item := range h.service.Items() {
		if item.ID == id {
			return &item, true
		}
	}
	return nil, false
}

// Helper methods

func (h *ImageHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *ImageHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
