// internal/core/ports/alerts.go
package ports

import (
	"context"

	"github.com/orovela/joyeria-be/internal/core/domain"
)

// AlertSink receives stock alert transitions from the evaluator. Raise is
// called once per INACTIVE->ACTIVE transition; Clear once when the
// condition goes away. Implementations must tolerate being called from the
// evaluator's timer goroutine.
type AlertSink interface {
	Raise(ctx context.Context, alert domain.StockAlert)
	Clear(ctx context.Context, kind domain.AlertKind)
}
