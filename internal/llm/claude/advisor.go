// Package claude adapts the Anthropic SDK to the triage advisor interface.
// The advisor only rewrites result descriptions; routing decisions stay with
// the rule engine.
package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/carebridge/carebridge/internal/triage"
)

const maxTokens = 512

const systemPrompt = "You are a medical intake assistant for a tele-consultation " +
	"service. Given a patient's symptom description and the department our rule-based " +
	"triage selected, write one short, calm paragraph (2-3 sentences) explaining why " +
	"that department is a reasonable starting point and what the patient should " +
	"prepare for the consultation. Never diagnose, never contradict the selected " +
	"department, never recommend medication."

// Advisor calls the Claude Messages API to rewrite triage descriptions.
type Advisor struct {
	client anthropic.Client
	model  anthropic.Model
}

// New creates an advisor for the given API key and model. Extra request
// options are passed through to the SDK (tests use option.WithBaseURL).
func New(apiKey, model string, opts ...option.RequestOption) *Advisor {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Advisor{
		client: anthropic.NewClient(opts...),
		model:  anthropic.Model(model),
	}
}

// Describe implements triage.Advisor.
func (a *Advisor) Describe(ctx context.Context, symptoms string, r *triage.Result) (string, error) {
	prompt := fmt.Sprintf(
		"Symptom description: %q\nSelected department: %s\nMatch confidence: %s\n\nWrite the patient-facing explanation.",
		symptoms, r.SuggestedDepartment, r.Confidence,
	)

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude messages: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	desc := strings.TrimSpace(sb.String())
	if desc == "" {
		return "", fmt.Errorf("claude returned no text content (stop reason %q)", msg.StopReason)
	}
	return desc, nil
}
