package domain_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orovela/joyeria-be/internal/core/domain"
)

func stockItem(name string, material domain.MaterialType, unitWeight float64, qty int, price float64) domain.Item {
	return domain.Item{
		Name:          name,
		Material:      material,
		UnitWeight:    unitWeight,
		Quantity:      qty,
		PurchasePrice: decimal.NewFromFloat(price),
	}
}

func TestComputeStats_EmptyInventory(t *testing.T) {
	stats := domain.ComputeStats(nil)

	assert.Empty(t, stats.InStock)
	assert.Empty(t, stats.Sold)
	assert.Empty(t, stats.WeightByMaterial)
	assert.Empty(t, stats.InvestmentByMaterial)
	assert.Zero(t, stats.TotalWeight)
	assert.True(t, stats.TotalInvestment.IsZero())
}

func TestComputeStats_SingleItem(t *testing.T) {
	items := []domain.Item{stockItem("Ring", domain.MaterialGold, 10, 3, 200)}

	stats := domain.ComputeStats(items)

	require.Len(t, stats.InStock, 1)
	assert.Empty(t, stats.Sold)
	assert.InDelta(t, 30.0, stats.WeightByMaterial[domain.MaterialGold], 1e-9)
	assert.InDelta(t, 30.0, stats.TotalWeight, 1e-9)
	assert.True(t, stats.InvestmentByMaterial[domain.MaterialGold].Equal(decimal.NewFromInt(600)))
	assert.True(t, stats.TotalInvestment.Equal(decimal.NewFromInt(600)))
}

func TestComputeStats_PartitionIsTotalAndDisjoint(t *testing.T) {
	sold := stockItem("Sold Chain", domain.MaterialSilver, 5, 2, 80)
	sold.Sold = true

	items := []domain.Item{
		stockItem("Ring", domain.MaterialGold, 4, 1, 100),
		sold,
		stockItem("Bracelet", domain.MaterialGold, 8, 2, 150),
		stockItem("Pendant", domain.MaterialPlatinum, 3, 1, 300),
	}

	stats := domain.ComputeStats(items)

	assert.Len(t, stats.InStock, 3)
	assert.Len(t, stats.Sold, 1)
	assert.Equal(t, len(items), len(stats.InStock)+len(stats.Sold))

	// Order preserved within each partition.
	assert.Equal(t, "Ring", stats.InStock[0].Name)
	assert.Equal(t, "Bracelet", stats.InStock[1].Name)
	assert.Equal(t, "Pendant", stats.InStock[2].Name)
	assert.Equal(t, "Sold Chain", stats.Sold[0].Name)

	// Sold items contribute nothing to the per-material maps.
	_, ok := stats.WeightByMaterial[domain.MaterialSilver]
	assert.False(t, ok, "sold-only materials must be absent, not zero")
}

func TestComputeStats_TotalsEqualSumOfCategories(t *testing.T) {
	items := []domain.Item{
		stockItem("A", domain.MaterialGold, 1.1, 3, 10.5),
		stockItem("B", domain.MaterialSilver, 2.7, 2, 8),
		stockItem("C", domain.MaterialGold, 0.9, 5, 12),
		stockItem("D", domain.MaterialSteel, 15, 1, 3.25),
	}

	stats := domain.ComputeStats(items)

	var weightSum float64
	for _, w := range stats.WeightByMaterial {
		weightSum += w
	}
	assert.InDelta(t, stats.TotalWeight, weightSum, 1e-9)

	investmentSum := decimal.Zero
	for _, inv := range stats.InvestmentByMaterial {
		investmentSum = investmentSum.Add(inv)
	}
	assert.True(t, stats.TotalInvestment.Equal(investmentSum),
		"total %s != sum of categories %s", stats.TotalInvestment, investmentSum)
}

func TestComputeStats_Deterministic(t *testing.T) {
	items := []domain.Item{
		stockItem("A", domain.MaterialGold, 1.1, 3, 10.5),
		stockItem("B", domain.MaterialGold, 2.2, 1, 7.75),
		stockItem("C", domain.MaterialSilver, 0.3, 9, 2),
	}

	first := domain.ComputeStats(items)
	second := domain.ComputeStats(items)

	assert.Equal(t, first.WeightByMaterial, second.WeightByMaterial)
	assert.Equal(t, first.TotalWeight, second.TotalWeight)
	assert.True(t, first.TotalInvestment.Equal(second.TotalInvestment))
}

func TestComputeStats_MalformedRecords(t *testing.T) {
	tests := []struct {
		name       string
		item       domain.Item
		wantWeight float64
	}{
		{
			name:       "missing_material_falls_back_to_other",
			item:       stockItem("No Material", "", 10, 2, 5),
			wantWeight: 20,
		},
		{
			name:       "negative_weight_counts_as_zero",
			item:       stockItem("Bad Weight", domain.MaterialOther, -4, 2, 5),
			wantWeight: 0,
		},
		{
			name:       "nan_weight_counts_as_zero",
			item:       stockItem("NaN Weight", domain.MaterialOther, math.NaN(), 2, 5),
			wantWeight: 0,
		},
		{
			name:       "negative_quantity_counts_as_zero",
			item:       stockItem("Bad Quantity", domain.MaterialOther, 10, -3, 5),
			wantWeight: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := domain.ComputeStats([]domain.Item{tt.item})

			require.Len(t, stats.InStock, 1, "malformed records still count as in stock")
			assert.InDelta(t, tt.wantWeight, stats.WeightByMaterial[domain.MaterialOther], 1e-9)
			assert.InDelta(t, tt.wantWeight, stats.TotalWeight, 1e-9)
		})
	}
}

func TestComputeStats_NegativePriceCountsAsZero(t *testing.T) {
	item := stockItem("Bad Price", domain.MaterialGold, 1, 1, 0)
	item.PurchasePrice = decimal.NewFromInt(-10)

	stats := domain.ComputeStats([]domain.Item{item})

	assert.True(t, stats.InvestmentByMaterial[domain.MaterialGold].IsZero())
	assert.True(t, stats.TotalInvestment.IsZero())
}

func TestWeightInStock_SharesGroupingRule(t *testing.T) {
	sold := stockItem("Sold", domain.MaterialGold, 100, 1, 10)
	sold.Sold = true
	items := []domain.Item{
		stockItem("A", domain.MaterialGold, 2, 3, 10),
		sold,
		stockItem("B", "", 1, 4, 10),
	}

	weights := domain.WeightInStock(items)

	assert.InDelta(t, 6.0, weights[domain.MaterialGold], 1e-9)
	assert.InDelta(t, 4.0, weights[domain.MaterialOther], 1e-9)
	assert.Len(t, weights, 2)
}

// Benchmarks

func BenchmarkComputeStats(b *testing.B) {
	items := make([]domain.Item, 0, 1000)
	materials := []domain.MaterialType{
		domain.MaterialGold, domain.MaterialSilver, domain.MaterialPlatinum, domain.MaterialSteel,
	}
	for i := 0; i < 1000; i++ {
		item := stockItem("Item", materials[i%len(materials)], float64(i%50)+0.5, i%7+1, float64(i%200)+1)
		item.Sold = i%3 == 0
		items = append(items, item)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = domain.ComputeStats(items)
	}
}
