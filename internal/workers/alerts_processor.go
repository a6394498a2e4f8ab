// internal/workers/alerts_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/orovela/joyeria-be/internal/core/domain"
	"github.com/orovela/joyeria-be/internal/pkg/config"
)

// AlertProcessor delivers stock alert notification emails
type AlertProcessor struct {
	config  *config.Config
	secrets config.SecretsManager
	logger  *slog.Logger
}

// NewAlertProcessor creates a new alert processor
func NewAlertProcessor(cfg *config.Config, secrets config.SecretsManager, logger *slog.Logger) *AlertProcessor {
	return &AlertProcessor{
		config:  cfg,
		secrets: secrets,
		logger:  logger.With(slog.String("processor", "alerts")),
	}
}

// SendAlertEmail handles alerts:email tasks
func (p *AlertProcessor) SendAlertEmail(ctx context.Context, t *asynq.Task) error {
	var payload AlertEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal alert payload: %w", err)
	}

	to := p.config.Alerts.NotifyEmail
	if to == "" {
		p.logger.WarnContext(ctx, "no alert recipient configured, dropping alert email",
			slog.String("kind", string(payload.Kind)))
		return nil
	}

	subject := subjectFor(payload)
	body := bodyFor(payload)

	p.logger.InfoContext(ctx, "sending alert email",
		slog.String("to", to),
		slog.String("kind", string(payload.Kind)),
		slog.Bool("cleared", payload.Cleared))

	// Outside production the relay may not exist; log the email instead.
	if !p.config.IsProduction() {
		p.logger.InfoContext(ctx, "alert email would be sent",
			slog.String("to", to),
			slog.String("subject", subject),
			slog.String("body", body))
		return nil
	}

	creds, err := config.LoadSMTPCredentials(ctx, p.secrets)
	if err != nil {
		return fmt.Errorf("failed to load SMTP credentials: %w", err)
	}

	from := p.config.Alerts.FromEmail
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		from, to, subject, body,
	))

	auth := smtp.PlainAuth("", creds.Username, creds.Password, creds.Host)
	addr := fmt.Sprintf("%s:%s", creds.Host, creds.Port)
	if err := smtp.SendMail(addr, auth, from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	p.logger.InfoContext(ctx, "alert email sent",
		slog.String("kind", string(payload.Kind)))
	return nil
}

func subjectFor(payload AlertEmailPayload) string {
	label := "Stock alert"
	switch payload.Kind {
	case domain.AlertLowStock:
		label = "Low stock"
	case domain.AlertOverweight:
		label = "Inventory overweight"
	}
	if payload.Cleared {
		return fmt.Sprintf("[joyeria] %s cleared", label)
	}
	return fmt.Sprintf("[joyeria] %s", label)
}

func bodyFor(payload AlertEmailPayload) string {
	var b strings.Builder
	if payload.Cleared {
		fmt.Fprintf(&b, "The %s alert cleared at %s.\n", payload.Kind, payload.FiredAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(&b, "%s\n", payload.Message)
		return b.String()
	}
	fmt.Fprintf(&b, "%s\n\n", payload.Message)
	fmt.Fprintf(&b, "Unsold inventory weight: %.2f g\n", payload.TotalWeight)
	fmt.Fprintf(&b, "Fired at: %s\n", payload.FiredAt.Format("2006-01-02 15:04:05 MST"))
	return b.String()
}
