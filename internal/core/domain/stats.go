// internal/core/domain/stats.go
package domain

import (
	"github.com/shopspring/decimal"
)

// InventoryStats is the aggregated view of the item collection. InStock and
// Sold partition the input (order preserved); the per-material maps cover
// in-stock items only and carry no zero-valued entries.
type InventoryStats struct {
	InStock              []Item                          `json:"in_stock"`
	Sold                 []Item                          `json:"sold"`
	WeightByMaterial     map[MaterialType]float64        `json:"weight_by_material"`
	InvestmentByMaterial map[MaterialType]decimal.Decimal `json:"investment_by_material"`
	TotalWeight          float64                         `json:"total_weight"`     // grams
	TotalInvestment      decimal.Decimal                 `json:"total_investment"`
}

// ComputeStats aggregates the item collection. It is a pure function: no
// I/O, deterministic for a given input, safe to recompute on every refresh.
//
// Malformed records never make it panic: a missing material falls back to
// MaterialOther, and non-finite or negative weights, quantities and prices
// contribute zero to the sums.
func ComputeStats(items []Item) InventoryStats {
	stats := InventoryStats{
		InStock:              make([]Item, 0, len(items)),
		Sold:                 make([]Item, 0),
		WeightByMaterial:     make(map[MaterialType]float64),
		InvestmentByMaterial: make(map[MaterialType]decimal.Decimal),
		TotalInvestment:      decimal.Zero,
	}

	for _, item := range items {
		if item.Sold {
			stats.Sold = append(stats.Sold, item)
			continue
		}
		stats.InStock = append(stats.InStock, item)

		material := item.Material
		if material == "" {
			material = MaterialOther
		}

		weight := sanitizeWeight(item.UnitWeight)
		qty := item.Quantity
		if qty < 0 {
			qty = 0
		}

		weightContribution := weight * float64(qty)
		stats.WeightByMaterial[material] += weightContribution
		stats.TotalWeight += weightContribution

		price := item.PurchasePrice
		if price.IsNegative() {
			price = decimal.Zero
		}
		investmentContribution := price.Mul(decimal.NewFromInt(int64(qty)))
		if prev, ok := stats.InvestmentByMaterial[material]; ok {
			stats.InvestmentByMaterial[material] = prev.Add(investmentContribution)
		} else {
			stats.InvestmentByMaterial[material] = investmentContribution
		}
		stats.TotalInvestment = stats.TotalInvestment.Add(investmentContribution)
	}

	return stats
}

// WeightInStock aggregates unsold weight per material over a raw item list.
// This is the single grouping rule shared by the client-side stats and the
// store-side aggregate endpoint, so the two can never drift.
func WeightInStock(items []Item) map[MaterialType]float64 {
	return ComputeStats(items).WeightByMaterial
}

func sanitizeWeight(w float64) float64 {
	if !isFinite(w) || w < 0 {
		return 0
	}
	return w
}
