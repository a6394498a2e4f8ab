// internal/core/domain/item.go
package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaterialType classifies a batch of jewelry by its material
type MaterialType string

// Material constants
const (
	MaterialGold      MaterialType = "gold"
	MaterialSilver    MaterialType = "silver"
	MaterialPlatinum  MaterialType = "platinum"
	MaterialWhiteGold MaterialType = "white_gold"
	MaterialRoseGold  MaterialType = "rose_gold"
	MaterialSteel     MaterialType = "steel"
	MaterialTitanium  MaterialType = "titanium"
	MaterialOther     MaterialType = "Other"
)

// Item represents a batch of jewelry units of a single material type.
// A batch is either in stock or sold; there is no intermediate state and
// no way back from sold.
type Item struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	EntryDate     time.Time        `json:"entry_date"`
	Material      MaterialType     `json:"material"`
	UnitWeight    float64          `json:"unit_weight"` // grams per unit
	Quantity      int              `json:"quantity"`
	PurchasePrice decimal.Decimal  `json:"purchase_price"`
	Sold          bool             `json:"sold"`
	SaleDate      *time.Time       `json:"sale_date,omitempty"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	Description   string           `json:"description,omitempty"`
	ImageKey      string           `json:"image_key,omitempty"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// InStock reports whether the batch is still available for sale.
func (i *Item) InStock() bool {
	return !i.Sold
}

// TotalWeight returns the batch weight in grams.
func (i *Item) TotalWeight() float64 {
	return i.UnitWeight * float64(i.Quantity)
}

// Validate performs domain validation before an item reaches the store.
// All constraints reject the mutation client-side; the table never sees
// a non-positive weight, quantity or price.
func (i *Item) Validate() error {
	if isBlank(i.Name) {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if isBlank(string(i.Material)) {
		return &ValidationError{Field: "material", Reason: "is required"}
	}
	if i.UnitWeight <= 0 || !isFinite(i.UnitWeight) {
		return &ValidationError{Field: "unit_weight", Reason: "must be a positive number"}
	}
	if i.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	if !i.PurchasePrice.IsPositive() {
		return &ValidationError{Field: "purchase_price", Reason: "must be positive"}
	}
	return nil
}

// MarkSold transitions the item to the sold state. The transition happens
// exactly once; selling an already-sold batch fails with ErrAlreadySold.
func (i *Item) MarkSold(salePrice decimal.Decimal, at time.Time) error {
	if i.Sold {
		return ErrAlreadySold
	}
	if !salePrice.IsPositive() {
		return &ValidationError{Field: "sale_price", Reason: "must be positive"}
	}
	i.Sold = true
	i.SaleDate = &at
	i.SalePrice = &salePrice
	i.UpdatedAt = at
	return nil
}

// PrepareForStorage assigns the identifier and entry timestamp on first save.
func (i *Item) PrepareForStorage() {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	now := time.Now().UTC()
	if i.EntryDate.IsZero() {
		i.EntryDate = now
	}
	i.UpdatedAt = now
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
