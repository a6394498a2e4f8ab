// internal/core/services/alerts.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/orovela/joyeria-be/internal/core/domain"
	"github.com/orovela/joyeria-be/internal/core/ports"
)

// AlertThresholds holds the tunable limits for stock alerts. Weight is
// tracked in grams; the overweight limit is expressed in kilograms.
type AlertThresholds struct {
	LowStockGrams   float64
	OverweightKilos float64
}

// DefaultAlertThresholds matches the operational limits of the shop:
// warn below 20g of unsold stock, warn at or above 4kg total.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		LowStockGrams:   20,
		OverweightKilos: 4,
	}
}

// AlertEvaluator tracks the low-stock and overweight conditions against the
// in-stock total weight. Each alert kind fires once on the inactive->active
// transition and is cleared once when the condition no longer holds;
// re-evaluating an unchanged condition is a no-op.
type AlertEvaluator struct {
	sink       ports.AlertSink
	thresholds AlertThresholds
	logger     *slog.Logger
	now        func() time.Time

	mu     sync.Mutex
	active map[domain.AlertKind]domain.StockAlert
}

// NewAlertEvaluator creates an evaluator with no active alerts.
func NewAlertEvaluator(sink ports.AlertSink, thresholds AlertThresholds, logger *slog.Logger) *AlertEvaluator {
	return &AlertEvaluator{
		sink:       sink,
		thresholds: thresholds,
		logger:     logger.With(slog.String("service", "alerts")),
		now:        time.Now,
		active:     make(map[domain.AlertKind]domain.StockAlert),
	}
}

// Evaluate re-checks both alert conditions against totalWeight (grams of
// unsold stock) and emits the resulting transitions to the sink.
func (e *AlertEvaluator) Evaluate(ctx context.Context, totalWeight float64) {
	conditions := []struct {
		kind    domain.AlertKind
		holds   bool
		message string
	}{
		{
			kind:    domain.AlertLowStock,
			holds:   totalWeight < e.thresholds.LowStockGrams,
			message: fmt.Sprintf("low stock: %.2fg of unsold inventory, below the %.0fg threshold", totalWeight, e.thresholds.LowStockGrams),
		},
		{
			kind:    domain.AlertOverweight,
			holds:   totalWeight/1000 >= e.thresholds.OverweightKilos,
			message: fmt.Sprintf("inventory weight reached %.2fkg, at or above the %.0fkg limit", totalWeight/1000, e.thresholds.OverweightKilos),
		},
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, c := range conditions {
		_, isActive := e.active[c.kind]

		switch {
		case c.holds && !isActive:
			alert := domain.StockAlert{
				Kind:        c.kind,
				Message:     c.message,
				TotalWeight: totalWeight,
				FiredAt:     e.now().UTC(),
			}
			e.active[c.kind] = alert
			e.logger.WarnContext(ctx, "stock alert raised",
				slog.String("kind", string(c.kind)),
				slog.Float64("total_weight", totalWeight))
			e.sink.Raise(ctx, alert)

		case !c.holds && isActive:
			delete(e.active, c.kind)
			e.logger.InfoContext(ctx, "stock alert cleared",
				slog.String("kind", string(c.kind)),
				slog.Float64("total_weight", totalWeight))
			e.sink.Clear(ctx, c.kind)
		}
	}
}

// Active returns the currently active alerts ordered by kind.
func (e *AlertEvaluator) Active() []domain.StockAlert {
	e.mu.Lock()
	defer e.mu.Unlock()

	alerts := make([]domain.StockAlert, 0, len(e.active))
	for _, alert := range e.active {
		alerts = append(alerts, alert)
	}
	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].Kind < alerts[j].Kind
	})
	return alerts
}
