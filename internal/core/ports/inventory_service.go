// internal/core/ports/inventory_service.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orovela/joyeria-be/internal/core/domain"
)

// InventoryService defines the application service port for inventory.
// Implemented by the sync/refresh controller in core/services; handlers
// depend on this interface only.
type InventoryService interface {
	// Fetch reloads the collection from the store, recomputes aggregation
	// and schedules alert evaluation. On store failure the previous cache
	// is preserved, the service flips to offline and a StoreError is
	// returned.
	Fetch(ctx context.Context) error

	// AddItem validates, creates the item in the store and resynchronizes.
	// Validation failures never reach the store.
	AddItem(ctx context.Context, params AddItemParams) (*domain.Item, error)

	// SellItem validates the sale price, performs the sold-transition and
	// resynchronizes. Selling an already-sold item fails with
	// domain.ErrAlreadySold.
	SellItem(ctx context.Context, id uuid.UUID, salePrice decimal.Decimal) (*domain.Item, error)

	// CheckConnection probes the store and updates the offline flag
	// without touching the cached collection.
	CheckConnection(ctx context.Context) bool

	// ItemsByMaterial queries the store's byMaterial index directly.
	ItemsByMaterial(ctx context.Context, material domain.MaterialType) ([]domain.Item, error)

	Items() []domain.Item
	Stats() domain.InventoryStats
	LastUpdated() time.Time
	Offline() bool
}

// AddItemParams holds the caller-supplied fields for a new item. The id,
// entry timestamp and sold state are assigned by the service.
type AddItemParams struct {
	Name          string
	Material      domain.MaterialType
	UnitWeight    float64
	Quantity      int
	PurchasePrice decimal.Decimal
	Description   string
}
