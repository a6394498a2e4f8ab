// internal/core/ports/item_store.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orovela/joyeria-be/internal/core/domain"
)

// ItemStore defines the persistence port for jewelry items. The single
// source of truth is a remote table; the service keeps a read-mostly cache
// on top of it. Implemented by the DynamoDB adapter.
type ItemStore interface {
	// List returns the full item collection.
	List(ctx context.Context) ([]domain.Item, error)

	// ListByMaterial returns items of one material via the byMaterial index.
	ListByMaterial(ctx context.Context, material domain.MaterialType) ([]domain.Item, error)

	// Create persists a new item. The caller has already assigned the id
	// and entry timestamp via PrepareForStorage.
	Create(ctx context.Context, item *domain.Item) error

	// MarkSold performs the sold-transition server-side and returns the
	// updated item. Selling an already-sold item fails with
	// domain.ErrAlreadySold; an unknown id with domain.ErrItemNotFound.
	MarkSold(ctx context.Context, id uuid.UUID, salePrice decimal.Decimal, saleDate time.Time) (*domain.Item, error)

	// SetImage points an existing item at its uploaded image and returns
	// the updated record. An unknown id fails with domain.ErrItemNotFound.
	SetImage(ctx context.Context, id uuid.UUID, imageKey string) (*domain.Item, error)

	// WeightInStock aggregates unsold weight per material on the store
	// side, using the same grouping rule as domain.ComputeStats.
	WeightInStock(ctx context.Context) (map[domain.MaterialType]float64, error)

	// Ping is a minimal connectivity probe; it never mutates anything.
	Ping(ctx context.Context) error
}
