// internal/workers/alerts_processor_test.go
package workers_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orovela/joyeria-be/internal/core/domain"
	"github.com/orovela/joyeria-be/internal/pkg/config"
	"github.com/orovela/joyeria-be/internal/workers"
	"github.com/orovela/joyeria-be/test/helpers"
)

func alertTask(t *testing.T, payload workers.AlertEmailPayload) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(workers.TypeAlertEmail, data)
}

func TestAlertProcessor_SendAlertEmail(t *testing.T) {
	cfg := helpers.LoadTestConfig()
	processor := workers.NewAlertProcessor(cfg, config.NewEnvSecretsManager(), helpers.TestLogger())

	// Outside production the email is logged, not sent; the handler must
	// still consume the task cleanly.
	task := alertTask(t, workers.AlertEmailPayload{
		Kind:        domain.AlertOverweight,
		Message:     "inventory weight reached 4.20kg, at or above the 4kg limit",
		TotalWeight: 4200,
		FiredAt:     time.Now().UTC(),
	})

	err := processor.SendAlertEmail(context.Background(), task)
	assert.NoError(t, err)
}

func TestAlertProcessor_SendAlertEmail_InvalidPayload(t *testing.T) {
	cfg := helpers.LoadTestConfig()
	processor := workers.NewAlertProcessor(cfg, config.NewEnvSecretsManager(), helpers.TestLogger())

	task := asynq.NewTask(workers.TypeAlertEmail, []byte("not json"))

	err := processor.SendAlertEmail(context.Background(), task)
	assert.Error(t, err)
}

func TestAlertProcessor_SendAlertEmail_NoRecipient(t *testing.T) {
	cfg := helpers.LoadTestConfig()
	cfg.Alerts.NotifyEmail = ""
	processor := workers.NewAlertProcessor(cfg, config.NewEnvSecretsManager(), helpers.TestLogger())

	task := alertTask(t, workers.AlertEmailPayload{
		Kind:    domain.AlertLowStock,
		Message: "low stock",
		FiredAt: time.Now().UTC(),
	})

	// Dropped, not retried: retrying cannot conjure up a recipient.
	err := processor.SendAlertEmail(context.Background(), task)
	assert.NoError(t, err)
}
