// Package slack notifies the care team about booked consultations via
// incoming webhooks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/carebridge/carebridge/internal/clinic"
	"github.com/carebridge/carebridge/internal/triage"
)

const (
	maxSymptomsLen = 3000
	httpTimeout    = 10 * time.Second
)

// Notifier posts consultation bookings to a Slack webhook. It satisfies
// clinic.Notifier.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

// New creates a new Slack notifier. If webhookURL is empty, notifications
// are a no-op.
func New(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: httpTimeout},
	}
}

// ConsultationBooked posts a newly booked consultation to the configured
// webhook. If no webhook URL is configured, it returns nil immediately.
func (n *Notifier) ConsultationBooked(ctx context.Context, c *clinic.Consultation, d *clinic.Doctor, p *clinic.Profile) error {
	if n.webhookURL == "" {
		return nil
	}

	msg := buildMessage(c, d, p)

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("slack: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req) //nolint:gosec // G704: webhookURL is from trusted config, not user input
	if err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack: webhook returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func buildMessage(c *clinic.Consultation, d *clinic.Doctor, p *clinic.Profile) map[string]any {
	return map[string]any{
		"blocks": []map[string]any{
			headerBlock(c, d),
			{"type": "divider"},
			fieldsBlock(c, d, p),
			{"type": "divider"},
			symptomsBlock(c),
			{"type": "divider"},
			contextBlock(c),
		},
	}
}

func headerBlock(c *clinic.Consultation, d *clinic.Doctor) map[string]any {
	emoji := confidenceEmoji(c.TriageSuggestion)
	text := fmt.Sprintf("%s New Consultation: %s", emoji, d.Department)

	return map[string]any{
		"type": "header",
		"text": map[string]any{
			"type": "plain_text",
			"text": text,
		},
	}
}

func fieldsBlock(c *clinic.Consultation, d *clinic.Doctor, p *clinic.Profile) map[string]any {
	suggested, confidence := "n/a", "n/a"
	if s := c.TriageSuggestion; s != nil {
		suggested = s.SuggestedDepartment
		confidence = string(s.Confidence)
	}

	scheduled := "to be arranged"
	if c.ScheduledAt != nil {
		scheduled = c.ScheduledAt.UTC().Format("2006-01-02 15:04 UTC")
	}

	fields := []map[string]any{
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Patient:* %s", p.Name),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Doctor:* %s (%s)", d.Name, d.Hospital),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Triage suggestion:* %s", suggested),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Confidence:* %s", confidence),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Scheduled:* %s", scheduled),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Status:* %s", c.Status),
		},
	}

	return map[string]any{
		"type":   "section",
		"fields": fields,
	}
}

func symptomsBlock(c *clinic.Consultation) map[string]any {
	text := truncate(c.Symptoms, maxSymptomsLen)
	if text == "" {
		text = "_No symptom description._"
	}

	return map[string]any{
		"type": "section",
		"text": map[string]any{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Symptoms*\n\n%s", text),
		},
	}
}

func contextBlock(c *clinic.Consultation) map[string]any {
	elements := []map[string]any{
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("carebridge • consultation %s • %s", c.ID, c.CreatedAt.UTC().Format("2006-01-02 15:04 UTC")),
		},
	}

	return map[string]any{
		"type":     "context",
		"elements": elements,
	}
}

func confidenceEmoji(s *triage.Result) string {
	if s == nil {
		return "\u26aa" // white circle
	}
	switch s.Confidence {
	case triage.ConfidenceHigh:
		return "\U0001f7e2" // green circle
	case triage.ConfidenceMedium:
		return "\U0001f7e1" // yellow circle
	case triage.ConfidenceLow:
		return "\U0001f7e0" // orange circle
	default:
		return "\u26aa" // white circle
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
