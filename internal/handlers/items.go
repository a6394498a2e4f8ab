// internal/handlers/items.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orovela/joyeria-be/internal/core/domain"
	"github.com/orovela/joyeria-be/internal/core/ports"
)

// ItemHandler handles item-related HTTP requests
type ItemHandler struct {
	service ports.InventoryService
	cache   ports.CacheRepository
	logger  *slog.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(service ports.InventoryService, cache ports.CacheRepository, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		service: service,
		cache:   cache,
		logger:  logger.With(slog.String("handler", "items")),
	}
}

// ItemListResponse is the payload for item listings. Offline signals that
// the snapshot is the last successful sync, not live table data.
type ItemListResponse struct {
	Items       []domain.Item `json:"items"`
	Count       int           `json:"count"`
	LastUpdated time.Time     `json:"last_updated,omitempty"`
	Offline     bool          `json:"offline"`
}

// ListItems handles GET /api/v1/items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// A material filter goes straight to the index; everything else is
	// served from the synchronized snapshot.
	if material := r.URL.Query().Get("material"); material != "" {
		items, err := h.service.ItemsByMaterial(ctx, domain.MaterialType(material))
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to list items by material",
				slog.String("material", material),
				slog.String("error", err.Error()))
			h.respondDomainError(w, err)
			return
		}
		h.respondJSON(w, http.StatusOK, ItemListResponse{
			Items:   items,
			Count:   len(items),
			Offline: h.service.Offline(),
		})
		return
	}

	if err := h.service.Fetch(ctx); err != nil {
		// The previous snapshot survives a failed sync; serve it flagged
		// as offline rather than erroring out with an empty hand.
		if h.service.LastUpdated().IsZero() {
			h.logger.ErrorContext(ctx, "initial inventory fetch failed",
				slog.String("error", err.Error()))
			h.respondDomainError(w, err)
			return
		}
		h.logger.WarnContext(ctx, "serving stale inventory snapshot",
			slog.String("error", err.Error()))
	}

	items := h.service.Items()
	h.respondJSON(w, http.StatusOK, ItemListResponse{
		Items:       items,
		Count:       len(items),
		LastUpdated: h.service.LastUpdated(),
		Offline:     h.service.Offline(),
	})
}

// CreateItem handles POST /api/v1/items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.service.AddItem(ctx, req.toParams())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create item",
			slog.String("name", req.Name),
			slog.String("error", err.Error()))
		h.respondDomainError(w, err)
		return
	}

	h.invalidateCaches(r)

	h.respondJSON(w, http.StatusCreated, item)
}

// SellItem handles POST /api/v1/items/{id}/sell
func (h *ItemHandler) SellItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var req SellItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.service.SellItem(ctx, id, req.SalePrice)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to sell item",
			slog.String("id", idStr),
			slog.String("error", err.Error()))
		h.respondDomainError(w, err)
		return
	}

	h.invalidateCaches(r)

	h.respondJSON(w, http.StatusOK, item)
}

// CheckConnection handles GET /api/v1/connection
func (h *ItemHandler) CheckConnection(w http.ResponseWriter, r *http.Request) {
	online := h.service.CheckConnection(r.Context())

	status := http.StatusOK
	if !online {
		status = http.StatusServiceUnavailable
	}
	h.respondJSON(w, status, map[string]bool{"online": online})
}

// invalidateCaches drops the cached item views after a successful write.
func (h *ItemHandler) invalidateCaches(r *http.Request) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidateItems(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "cache invalidation failed",
			slog.String("error", err.Error()))
	}
}

// Helper methods

func (h *ItemHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *ItemHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

func (h *ItemHandler) respondDomainError(w http.ResponseWriter, err error) {
	h.respondError(w, statusForError(err), err.Error())
}

// statusForError maps the domain error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadySold):
		return http.StatusConflict
	case errors.Is(err, domain.ErrOffline):
		return http.StatusServiceUnavailable
	case domain.IsStoreError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Request DTOs

// CreateItemRequest represents the request body for creating an item
type CreateItemRequest struct {
	Name          string          `json:"name"`
	Material      string          `json:"material"`
	UnitWeight    float64         `json:"unit_weight"`
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Description   string          `json:"description,omitempty"`
}

func (r *CreateItemRequest) toParams() ports.AddItemParams {
	return ports.AddItemParams{
		Name:          r.Name,
		Material:      domain.MaterialType(r.Material),
		UnitWeight:    r.UnitWeight,
		Quantity:      r.Quantity,
		PurchasePrice: r.PurchasePrice,
		Description:   r.Description,
	}
}

// SellItemRequest represents the request body for selling an item
type SellItemRequest struct {
	SalePrice decimal.Decimal `json:"sale_price"`
}
