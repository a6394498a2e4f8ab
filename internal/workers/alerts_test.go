// internal/workers/alerts_test.go
package workers_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orovela/joyeria-be/internal/core/domain"
	"github.com/orovela/joyeria-be/internal/workers"
	"github.com/orovela/joyeria-be/test/helpers"
)

// fakeEnqueuer captures enqueued tasks without a running Redis
type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	return &asynq.TaskInfo{ID: "test-task", Queue: "critical"}, nil
}

func TestAsynqAlertSink_Raise(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	sink := workers.NewAsynqAlertSink(enqueuer, helpers.TestLogger())

	firedAt := time.Now().UTC().Truncate(time.Second)
	sink.Raise(context.Background(), domain.StockAlert{
		Kind:        domain.AlertLowStock,
		Message:     "low stock: 12.50g of unsold inventory, below the 20g threshold",
		TotalWeight: 12.5,
		FiredAt:     firedAt,
	})

	require.Len(t, enqueuer.tasks, 1)
	task := enqueuer.tasks[0]
	assert.Equal(t, workers.TypeAlertEmail, task.Type())

	var payload workers.AlertEmailPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, domain.AlertLowStock, payload.Kind)
	assert.Equal(t, 12.5, payload.TotalWeight)
	assert.True(t, payload.FiredAt.Equal(firedAt))
	assert.False(t, payload.Cleared)
}

func TestAsynqAlertSink_Clear(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	sink := workers.NewAsynqAlertSink(enqueuer, helpers.TestLogger())

	sink.Clear(context.Background(), domain.AlertOverweight)

	require.Len(t, enqueuer.tasks, 1)

	var payload workers.AlertEmailPayload
	require.NoError(t, json.Unmarshal(enqueuer.tasks[0].Payload(), &payload))
	assert.Equal(t, domain.AlertOverweight, payload.Kind)
	assert.True(t, payload.Cleared)
}

func TestAsynqAlertSink_EnqueueFailureIsSwallowed(t *testing.T) {
	enqueuer := &fakeEnqueuer{err: errors.New("redis down")}
	sink := workers.NewAsynqAlertSink(enqueuer, helpers.TestLogger())

	// Must not panic or propagate; alert delivery is best effort.
	sink.Raise(context.Background(), domain.StockAlert{
		Kind:    domain.AlertLowStock,
		FiredAt: time.Now(),
	})

	assert.Empty(t, enqueuer.tasks)
}
