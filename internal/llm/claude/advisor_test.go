package claude

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/carebridge/carebridge/internal/triage"
)

// fakeMessagesServer returns an httptest server that answers the Messages API
// with the given text blocks, capturing the last request body.
func fakeMessagesServer(t *testing.T, status int, texts ...string) (*httptest.Server, *[]byte) {
	t.Helper()

	var lastBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		lastBody = body

		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
			return
		}

		content := make([]map[string]any, 0, len(texts))
		for _, txt := range texts {
			content = append(content, map[string]any{"type": "text", "text": txt})
		}
		resp := map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"model":       "claude-sonnet-4-20250514",
			"content":     content,
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 10, "output_tokens": 20},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &lastBody
}

func sampleResult() *triage.Result {
	return &triage.Result{
		SuggestedDepartment: "Neurology",
		Confidence:          triage.ConfidenceHigh,
		Description:         "Your symptoms suggest a neurological evaluation.",
		MatchedKeywords:     []string{"fever", "headache", "dizziness"},
	}
}

func TestDescribe_ReturnsText(t *testing.T) {
	t.Parallel()

	srv, lastBody := fakeMessagesServer(t, http.StatusOK, "A neurologist is the right starting point for these symptoms.")
	adv := New("sk-test", "claude-sonnet-4-20250514", option.WithBaseURL(srv.URL))

	got, err := adv.Describe(context.Background(), "fever headache dizziness", sampleResult())
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if got != "A neurologist is the right starting point for these symptoms." {
		t.Errorf("description = %q", got)
	}

	// The prompt must carry the rule engine's decision, not ask for one.
	req := string(*lastBody)
	if !strings.Contains(req, "Neurology") {
		t.Errorf("request body missing department: %s", req)
	}
	if !strings.Contains(req, "fever headache dizziness") {
		t.Errorf("request body missing symptoms: %s", req)
	}
}

func TestDescribe_JoinsTextBlocks(t *testing.T) {
	t.Parallel()

	srv, _ := fakeMessagesServer(t, http.StatusOK, "First part. ", "Second part.")
	adv := New("sk-test", "m", option.WithBaseURL(srv.URL))

	got, err := adv.Describe(context.Background(), "chest pain", sampleResult())
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if got != "First part. Second part." {
		t.Errorf("description = %q", got)
	}
}

func TestDescribe_APIError(t *testing.T) {
	t.Parallel()

	srv, _ := fakeMessagesServer(t, http.StatusInternalServerError)
	adv := New("sk-test", "m", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	if _, err := adv.Describe(context.Background(), "chest pain", sampleResult()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestDescribe_EmptyContent(t *testing.T) {
	t.Parallel()

	srv, _ := fakeMessagesServer(t, http.StatusOK)
	adv := New("sk-test", "m", option.WithBaseURL(srv.URL))

	if _, err := adv.Describe(context.Background(), "chest pain", sampleResult()); err == nil {
		t.Fatal("expected error for empty content")
	}
}

func TestDescribe_ContextCancelled(t *testing.T) {
	t.Parallel()

	srv, _ := fakeMessagesServer(t, http.StatusOK, "too late")
	adv := New("sk-test", "m", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := adv.Describe(ctx, "chest pain", sampleResult()); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
