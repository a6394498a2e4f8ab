// internal/core/services/inventory.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orovela/joyeria-be/internal/core/domain"
	"github.com/orovela/joyeria-be/internal/core/ports"
)

// InventoryService keeps a read-mostly cache of the item collection on top
// of the store and recomputes aggregation on every successful sync. Writes
// go to the store first and trigger a full refetch, so the cache never
// diverges from the table for longer than one round trip.
type InventoryService struct {
	store    ports.ItemStore
	alerts   *AlertEvaluator
	logger   *slog.Logger
	debounce time.Duration

	mu          sync.Mutex
	items       []domain.Item
	stats       domain.InventoryStats
	lastUpdated time.Time
	offline     bool
	loading     bool
	generation  uint64
	alertTimer  *time.Timer
	closed      bool
}

// Statically assert that *InventoryService implements the InventoryService interface.
var _ ports.InventoryService = (*InventoryService)(nil)

// NewInventoryService creates a new inventory service. The debounce window
// coalesces alert evaluation across bursts of syncs; zero means evaluate
// immediately.
func NewInventoryService(store ports.ItemStore, alerts *AlertEvaluator, debounce time.Duration, logger *slog.Logger) *InventoryService {
	return &InventoryService{
		store:    store,
		alerts:   alerts,
		debounce: debounce,
		logger:   logger.With(slog.String("service", "inventory")),
	}
}

// Fetch reloads the collection from the store. Concurrent fetches are
// serialized by generation: only the most recently started fetch may
// publish its result, older in-flight fetches are discarded on return.
func (s *InventoryService) Fetch(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("inventory service is closed")
	}
	s.generation++
	gen := s.generation
	s.loading = true
	s.mu.Unlock()

	items, err := s.store.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		// A newer fetch started while this one was in flight.
		s.logger.DebugContext(ctx, "discarding stale fetch result",
			slog.Uint64("generation", gen))
		return nil
	}
	s.loading = false

	if err != nil {
		// Keep serving the previous snapshot while the store is unreachable.
		s.offline = true
		s.logger.ErrorContext(ctx, "inventory fetch failed, keeping cached snapshot",
			slog.String("error", err.Error()),
			slog.Int("cached_items", len(s.items)))
		return fmt.Errorf("fetch inventory: %w", err)
	}

	s.offline = false
	s.items = items
	s.stats = domain.ComputeStats(items)
	s.lastUpdated = time.Now().UTC()
	s.scheduleAlertsLocked(s.stats.TotalWeight)

	s.logger.InfoContext(ctx, "inventory synchronized",
		slog.Int("items", len(items)),
		slog.Int("in_stock", len(s.stats.InStock)),
		slog.Float64("total_weight", s.stats.TotalWeight))
	return nil
}

// AddItem validates, persists and resynchronizes. Validation failures
// never reach the store.
func (s *InventoryService) AddItem(ctx context.Context, params ports.AddItemParams) (*domain.Item, error) {
	item := domain.Item{
		Name:          params.Name,
		Material:      params.Material,
		UnitWeight:    params.UnitWeight,
		Quantity:      params.Quantity,
		PurchasePrice: params.PurchasePrice,
		Description:   params.Description,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	item.PrepareForStorage()

	if err := s.store.Create(ctx, &item); err != nil {
		s.setOffline(domain.IsStoreError(err))
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.logger.InfoContext(ctx, "item created",
		slog.String("id", item.ID.String()),
		slog.String("name", item.Name),
		slog.String("material", string(item.Material)))

	if err := s.Fetch(ctx); err != nil {
		// The write landed; surface the stale cache via the offline flag
		// rather than failing the operation.
		s.logger.WarnContext(ctx, "resync after create failed",
			slog.String("error", err.Error()))
	}
	return &item, nil
}

// SellItem marks an item sold at the given price and resynchronizes. The
// sold-transition is enforced by the store, so two concurrent sales of the
// same item cannot both succeed.
func (s *InventoryService) SellItem(ctx context.Context, id uuid.UUID, salePrice decimal.Decimal) (*domain.Item, error) {
	if !salePrice.IsPositive() {
		return nil, &domain.ValidationError{Field: "sale_price", Reason: "must be greater than zero"}
	}

	sold, err := s.store.MarkSold(ctx, id, salePrice, time.Now().UTC())
	if err != nil {
		s.setOffline(domain.IsStoreError(err))
		return nil, fmt.Errorf("sell item %s: %w", id, err)
	}

	s.logger.InfoContext(ctx, "item sold",
		slog.String("id", id.String()),
		slog.String("sale_price", salePrice.String()))

	if err := s.Fetch(ctx); err != nil {
		s.logger.WarnContext(ctx, "resync after sale failed",
			slog.String("error", err.Error()))
	}
	return sold, nil
}

// CheckConnection probes the store and updates the offline flag without
// touching the cached collection. Returns true when the store is reachable.
func (s *InventoryService) CheckConnection(ctx context.Context) bool {
	err := s.store.Ping(ctx)
	s.setOffline(err != nil)
	if err != nil {
		s.logger.WarnContext(ctx, "store unreachable",
			slog.String("error", err.Error()))
	}
	return err == nil
}

// ItemsByMaterial queries the store's byMaterial index directly, bypassing
// the cache.
func (s *InventoryService) ItemsByMaterial(ctx context.Context, material domain.MaterialType) ([]domain.Item, error) {
	items, err := s.store.ListByMaterial(ctx, material)
	if err != nil {
		return nil, fmt.Errorf("list items by material %s: %w", material, err)
	}
	return items, nil
}

// Items returns a copy of the cached collection.
func (s *InventoryService) Items() []domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]domain.Item, len(s.items))
	copy(items, s.items)
	return items
}

// Stats returns the aggregation computed at the last successful sync.
func (s *InventoryService) Stats() domain.InventoryStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// LastUpdated returns the time of the last successful sync, zero if none.
func (s *InventoryService) LastUpdated() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdated
}

// Offline reports whether the last store interaction failed.
func (s *InventoryService) Offline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offline
}

// Loading reports whether a fetch is currently in flight.
func (s *InventoryService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Close cancels any pending alert evaluation and rejects further fetches.
// A timer that fires after Close is a no-op.
func (s *InventoryService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.alertTimer != nil {
		s.alertTimer.Stop()
		s.alertTimer = nil
	}
}

// scheduleAlertsLocked (re)arms the single debounce timer with the latest
// weight. Each call cancels the pending evaluation, so a burst of syncs
// produces exactly one evaluation, debounce after the last sync. Callers
// must hold s.mu.
func (s *InventoryService) scheduleAlertsLocked(totalWeight float64) {
	if s.alerts == nil || s.closed {
		return
	}
	if s.debounce <= 0 {
		s.alerts.Evaluate(context.Background(), totalWeight)
		return
	}
	if s.alertTimer != nil {
		s.alertTimer.Stop()
	}
	s.alertTimer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.alertTimer = nil
		s.mu.Unlock()
		s.alerts.Evaluate(context.Background(), totalWeight)
	})
}

func (s *InventoryService) setOffline(offline bool) {
	s.mu.Lock()
	s.offline = offline
	s.mu.Unlock()
}
