// cmd/seeder/main.go
// Seeds the item table with sample inventory for local development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orovela/joyeria-be/internal/adapters/dynamo"
	"github.com/orovela/joyeria-be/internal/core/domain"
	"github.com/orovela/joyeria-be/internal/pkg/config"
	"github.com/orovela/joyeria-be/internal/pkg/logger"
)

var (
	extraCount = flag.Int("count", 0, "number of random items to generate on top of the sample catalog")
	soldRatio  = flag.Float64("sold-ratio", 0.25, "fraction of generated items marked as sold")
	seed       = flag.Int64("seed", time.Now().UnixNano(), "random seed for generated items")
)

func main() {
	flag.Parse()

	slogger := logger.SetupLogger("info", "text")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	client, err := dynamo.NewClient(ctx, &dynamo.Config{
		Region:          cfg.Dynamo.Region,
		Table:           cfg.Dynamo.Table,
		MaterialIndex:   cfg.Dynamo.MaterialIndex,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.Dynamo.Endpoint,
		ConnectTimeout:  cfg.Dynamo.ConnectTimeout,
	}, slogger)
	if err != nil {
		slogger.Error("failed to initialize dynamodb client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := client.EnsureTable(ctx); err != nil {
		slogger.Error("failed to ensure table", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store := dynamo.NewItemStore(client, slogger)

	items := sampleCatalog()
	items = append(items, generateItems(*extraCount, rand.New(rand.NewSource(*seed)))...)

	seeded := 0
	for i := range items {
		item := &items[i]

		// Create inserts in-stock rows; the sold transition goes through
		// the same conditional update the API uses.
		sold := item.Sold
		salePrice := item.SalePrice
		item.Sold = false
		item.SaleDate = nil
		item.SalePrice = nil

		if err := store.Create(ctx, item); err != nil {
			slogger.Error("failed to seed item",
				slog.String("name", item.Name),
				slog.String("error", err.Error()))
			continue
		}

		if sold && salePrice != nil {
			if _, err := store.MarkSold(ctx, item.ID, *salePrice, time.Now().UTC()); err != nil {
				slogger.Warn("failed to mark seeded item sold",
					slog.String("name", item.Name),
					slog.String("error", err.Error()))
			}
		}
		seeded++
	}

	slogger.Info("seeding complete",
		slog.Int("seeded", seeded),
		slog.Int("requested", len(items)),
		slog.String("table", cfg.Dynamo.Table))
}

// sampleCatalog returns a fixed set of items that exercises every material
// and both stock states.
func sampleCatalog() []domain.Item {
	price := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	sale := func(s string) *decimal.Decimal { p := price(s); return &p }

	return []domain.Item{
		{
			Name:          "Gold wedding bands 18k",
			Material:      domain.MaterialGold,
			UnitWeight:    5.2,
			Quantity:      12,
			PurchasePrice: price("3840.00"),
			Description:   "Classic polished bands, assorted sizes",
		},
		{
			Name:          "Silver curb chains 50cm",
			Material:      domain.MaterialSilver,
			UnitWeight:    22.8,
			Quantity:      20,
			PurchasePrice: price("1150.00"),
			Description:   "925 sterling, lobster clasp",
		},
		{
			Name:          "Platinum solitaire settings",
			Material:      domain.MaterialPlatinum,
			UnitWeight:    3.4,
			Quantity:      6,
			PurchasePrice: price("5220.50"),
		},
		{
			Name:          "White gold hoop earrings",
			Material:      domain.MaterialWhiteGold,
			UnitWeight:    2.1,
			Quantity:      15,
			PurchasePrice: price("2310.00"),
			Description:   "14k, rhodium plated",
		},
		{
			Name:          "Rose gold bangles",
			Material:      domain.MaterialRoseGold,
			UnitWeight:    8.7,
			Quantity:      8,
			PurchasePrice: price("2960.00"),
			Sold:          true,
			SalePrice:     sale("4100.00"),
		},
		{
			Name:          "Steel signet rings",
			Material:      domain.MaterialSteel,
			UnitWeight:    6.5,
			Quantity:      30,
			PurchasePrice: price("450.00"),
			Description:   "Surgical steel, matte finish",
		},
		{
			Name:          "Titanium cuff bracelets",
			Material:      domain.MaterialTitanium,
			UnitWeight:    12.3,
			Quantity:      10,
			PurchasePrice: price("780.00"),
			Sold:          true,
			SalePrice:     sale("1240.00"),
		},
	}
}

var generatedNames = []string{
	"Figaro chain", "Tennis bracelet", "Pendant necklace", "Stud earrings",
	"Charm anklet", "Rope chain", "Eternity ring", "Brooch",
}

var generatedMaterials = []domain.MaterialType{
	domain.MaterialGold, domain.MaterialSilver, domain.MaterialPlatinum,
	domain.MaterialWhiteGold, domain.MaterialRoseGold, domain.MaterialSteel,
	domain.MaterialTitanium,
}

func generateItems(n int, rng *rand.Rand) []domain.Item {
	items := make([]domain.Item, 0, n)
	for i := 0; i < n; i++ {
		purchase := decimal.NewFromFloat(float64(rng.Intn(500000)+1000) / 100)
		item := domain.Item{
			Name:          fmt.Sprintf("%s #%03d", generatedNames[rng.Intn(len(generatedNames))], i+1),
			Material:      generatedMaterials[rng.Intn(len(generatedMaterials))],
			UnitWeight:    float64(rng.Intn(2950)+50) / 100,
			Quantity:      rng.Intn(24) + 1,
			PurchasePrice: purchase,
		}
		if rng.Float64() < *soldRatio {
			item.Sold = true
			salePrice := purchase.Mul(decimal.NewFromFloat(1.4)).Round(2)
			item.SalePrice = &salePrice
		}
		items = append(items, item)
	}
	return items
}
