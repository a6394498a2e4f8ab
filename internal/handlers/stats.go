// internal/handlers/stats.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	redis_a "github.com/orovela/joyeria-be/internal/adapters/redis_adapter"
	"github.com/orovela/joyeria-be/internal/core/domain"
	"github.com/orovela/joyeria-be/internal/core/ports"
	"github.com/orovela/joyeria-be/internal/core/services"
)

const (
	statsCacheTTL  = 30 * time.Second
	weightCacheTTL = time.Minute
)

// StatsHandler serves the aggregated inventory views
type StatsHandler struct {
	service ports.InventoryService
	alerts  *services.AlertEvaluator
	store   ports.ItemStore
	cache   ports.CacheRepository
	logger  *slog.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service ports.InventoryService, alerts *services.AlertEvaluator, store ports.ItemStore, cache ports.CacheRepository, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		alerts:  alerts,
		store:   store,
		cache:   cache,
		logger:  logger.With(slog.String("handler", "stats")),
	}
}

// statsSnapshot is the cacheable part of the stats response. Alerts and the
// offline flag are live state and attached per request.
type statsSnapshot struct {
	Stats       domain.InventoryStats `json:"stats"`
	LastUpdated time.Time             `json:"last_updated"`
}

// StatsResponse is the payload of GET /api/v1/stats
type StatsResponse struct {
	Stats       domain.InventoryStats `json:"stats"`
	Alerts      []domain.StockAlert   `json:"alerts"`
	LastUpdated time.Time             `json:"last_updated"`
	Offline     bool                  `json:"offline"`
}

// GetStats handles GET /api/v1/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := redis_a.BuildKey(redis_a.PrefixStats, "summary")
	var snapshot statsSnapshot

	err := h.cache.GetOrSet(ctx, cacheKey, &snapshot, func() (interface{}, error) {
		if err := h.service.Fetch(ctx); err != nil {
			return nil, err
		}
		return &statsSnapshot{
			Stats:       h.service.Stats(),
			LastUpdated: h.service.LastUpdated(),
		}, nil
	}, statsCacheTTL)

	if err != nil {
		// The in-memory snapshot outlives both a cold cache and a store
		// outage; fall back to it before giving up.
		if h.service.LastUpdated().IsZero() {
			h.logger.ErrorContext(ctx, "failed to load stats",
				slog.String("error", err.Error()))
			h.respondError(w, statusForError(err), "Failed to load inventory stats")
			return
		}
		h.logger.WarnContext(ctx, "serving stale stats snapshot",
			slog.String("error", err.Error()))
		snapshot = statsSnapshot{
			Stats:       h.service.Stats(),
			LastUpdated: h.service.LastUpdated(),
		}
	}

	h.respondJSON(w, http.StatusOK, StatsResponse{
		Stats:       snapshot.Stats,
		Alerts:      h.alerts.Active(),
		LastUpdated: snapshot.LastUpdated,
		Offline:     h.service.Offline(),
	})
}

// WeightResponse is the payload of GET /api/v1/stats/weight
type WeightResponse struct {
	WeightByMaterial map[domain.MaterialType]float64 `json:"weight_by_material"`
	Unit             string                          `json:"unit"`
}

// GetWeight handles GET /api/v1/stats/weight. The aggregate is computed
// store-side over unsold items only.
func (h *StatsHandler) GetWeight(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := redis_a.BuildKey(redis_a.PrefixWeight, "in_stock")
	var weights map[domain.MaterialType]float64

	err := h.cache.GetOrSet(ctx, cacheKey, &weights, func() (interface{}, error) {
		return h.store.WeightInStock(ctx)
	}, weightCacheTTL)

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to aggregate weight",
			slog.String("error", err.Error()))
		h.respondError(w, statusForError(err), "Failed to aggregate inventory weight")
		return
	}

	h.respondJSON(w, http.StatusOK, WeightResponse{
		WeightByMaterial: weights,
		Unit:             "g",
	})
}

// Helper methods

func (h *StatsHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *StatsHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
