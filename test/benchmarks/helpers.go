// test/benchmarks/helpers.go
package benchmarks

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orovela/joyeria-be/internal/core/domain"
)

var benchmarkMaterials = []domain.MaterialType{
	domain.MaterialGold,
	domain.MaterialSilver,
	domain.MaterialPlatinum,
	domain.MaterialWhiteGold,
	domain.MaterialRoseGold,
	domain.MaterialSteel,
	domain.MaterialTitanium,
}

// generateBenchmarkItems builds a deterministic inventory snapshot. Roughly
// a third of the items are sold so aggregates exercise both branches.
func generateBenchmarkItems(n int) []domain.Item {
	rng := rand.New(rand.NewSource(42))
	now := time.Now().UTC()

	items := make([]domain.Item, n)
	for i := range items {
		item := domain.Item{
			ID:            uuid.New(),
			Name:          fmt.Sprintf("Benchmark Item %d", i),
			EntryDate:     now.AddDate(0, 0, -rng.Intn(365)),
			Material:      benchmarkMaterials[i%len(benchmarkMaterials)],
			UnitWeight:    0.5 + rng.Float64()*50,
			Quantity:      1 + rng.Intn(20),
			PurchasePrice: decimal.NewFromFloat(50 + rng.Float64()*5000).Round(2),
			UpdatedAt:     now,
		}
		if i%3 == 0 {
			saleDate := now.AddDate(0, 0, -rng.Intn(30))
			salePrice := item.PurchasePrice.Mul(decimal.NewFromFloat(1.4)).Round(2)
			item.Sold = true
			item.SaleDate = &saleDate
			item.SalePrice = &salePrice
		}
		items[i] = item
	}
	return items
}

// discardSink drops alert transitions so evaluator benchmarks measure only
// the evaluation path.
type discardSink struct{}

func (discardSink) Raise(ctx context.Context, alert domain.StockAlert) {}
func (discardSink) Clear(ctx context.Context, kind domain.AlertKind)  {}
