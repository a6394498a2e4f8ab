// internal/workers/alerts.go
package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/orovela/joyeria-be/internal/core/domain"
	"github.com/orovela/joyeria-be/internal/core/ports"
)

// Task type names
const (
	TypeAlertEmail = "alerts:email"
)

// AlertEmailPayload is the task payload for alert notification emails.
// Cleared distinguishes the all-clear follow-up from the initial warning.
type AlertEmailPayload struct {
	Kind        domain.AlertKind `json:"kind"`
	Message     string           `json:"message"`
	TotalWeight float64          `json:"total_weight"`
	FiredAt     time.Time        `json:"fired_at"`
	Cleared     bool             `json:"cleared"`
}

// taskEnqueuer is the slice of asynq.Client the sink needs
type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqAlertSink forwards stock alert transitions to the background worker
// as email tasks. Enqueue failures are logged and dropped; an alert email
// is not worth failing an inventory sync over.
type AsynqAlertSink struct {
	client taskEnqueuer
	logger *slog.Logger
}

// Statically assert that *AsynqAlertSink implements the AlertSink interface.
var _ ports.AlertSink = (*AsynqAlertSink)(nil)

// NewAsynqAlertSink creates a sink backed by an asynq client
func NewAsynqAlertSink(client taskEnqueuer, logger *slog.Logger) *AsynqAlertSink {
	return &AsynqAlertSink{
		client: client,
		logger: logger.With(slog.String("sink", "asynq_alerts")),
	}
}

// Raise enqueues the notification email for a newly active alert
func (s *AsynqAlertSink) Raise(ctx context.Context, alert domain.StockAlert) {
	s.enqueue(ctx, AlertEmailPayload{
		Kind:        alert.Kind,
		Message:     alert.Message,
		TotalWeight: alert.TotalWeight,
		FiredAt:     alert.FiredAt,
	}, asynq.Queue("critical"))
}

// Clear enqueues the all-clear follow-up for a dismissed alert
func (s *AsynqAlertSink) Clear(ctx context.Context, kind domain.AlertKind) {
	s.enqueue(ctx, AlertEmailPayload{
		Kind:    kind,
		Message: "condition no longer holds",
		FiredAt: time.Now().UTC(),
		Cleared: true,
	}, asynq.Queue("default"))
}

func (s *AsynqAlertSink) enqueue(ctx context.Context, payload AlertEmailPayload, opts ...asynq.Option) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to marshal alert payload",
			slog.String("kind", string(payload.Kind)),
			slog.String("error", err.Error()))
		return
	}

	opts = append(opts, asynq.MaxRetry(3), asynq.Timeout(time.Minute))
	info, err := s.client.EnqueueContext(ctx, asynq.NewTask(TypeAlertEmail, data), opts...)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to enqueue alert email",
			slog.String("kind", string(payload.Kind)),
			slog.String("error", err.Error()))
		return
	}

	s.logger.InfoContext(ctx, "alert email enqueued",
		slog.String("kind", string(payload.Kind)),
		slog.Bool("cleared", payload.Cleared),
		slog.String("task_id", info.ID),
		slog.String("queue", info.Queue))
}
