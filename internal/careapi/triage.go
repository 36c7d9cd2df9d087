package careapi

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type triageRequest struct {
	Symptoms *string `json:"symptoms"`
}

func (a *API) handleAnalyzeSymptoms(w http.ResponseWriter, r *http.Request) {
	var req triageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Symptoms == nil {
		writeError(w, http.StatusBadRequest, "symptoms field is required")
		return
	}

	result := a.analyzer.Analyze(r.Context(), *req.Symptoms)

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.String("carebridge.triage.department", result.SuggestedDepartment),
		attribute.String("carebridge.triage.confidence", string(result.Confidence)),
	)

	writeJSON(w, http.StatusOK, result)
}
