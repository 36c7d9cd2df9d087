package careapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/carebridge/carebridge/internal/clinic"
)

type bookConsultationRequest struct {
	ProfileID   string     `json:"profile_id"`
	DoctorID    string     `json:"doctor_id"`
	Symptoms    string     `json:"symptoms_description"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Notes       string     `json:"notes"`
}

func (a *API) handleBookConsultation(w http.ResponseWriter, r *http.Request) {
	var req bookConsultationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	c, err := a.clinic.BookConsultation(r.Context(), &clinic.BookingRequest{
		ProfileID:   req.ProfileID,
		DoctorID:    req.DoctorID,
		Symptoms:    req.Symptoms,
		ScheduledAt: req.ScheduledAt,
		Notes:       req.Notes,
	})
	if err != nil {
		a.writeDomainError(r, w, err)
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("carebridge.consultation.id", c.ID))
	if c.TriageSuggestion != nil {
		span.SetAttributes(attribute.String("carebridge.triage.department", c.TriageSuggestion.SuggestedDepartment))
	}

	writeJSON(w, http.StatusCreated, c)
}

func (a *API) handleListConsultations(w http.ResponseWriter, r *http.Request) {
	profileID := r.URL.Query().Get("profile_id")
	if profileID == "" {
		writeError(w, http.StatusBadRequest, "profile_id query parameter is required")
		return
	}

	list, err := a.clinic.ListConsultations(r.Context(), profileID)
	if err != nil {
		a.writeDomainError(r, w, err)
		return
	}
	if list == nil {
		list = []*clinic.Consultation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"consultations": list})
}

func (a *API) handleGetConsultation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, ok, err := a.clinic.GetConsultation(r.Context(), id)
	if err != nil {
		a.writeDomainError(r, w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type updateConsultationRequest struct {
	Notes       *string    `json:"notes"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

func (a *API) handleUpdateConsultation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateConsultationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	c, err := a.clinic.UpdateConsultation(r.Context(), id, &clinic.ConsultationUpdate{
		Notes:       req.Notes,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		a.writeDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type updateStatusRequest struct {
	Status clinic.ConsultationStatus `json:"status"`
}

func (a *API) handleUpdateConsultationStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	c, err := a.clinic.UpdateConsultationStatus(r.Context(), id, req.Status)
	if err != nil {
		a.writeDomainError(r, w, err)
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("carebridge.consultation.status", string(c.Status)))

	writeJSON(w, http.StatusOK, c)
}

func (a *API) handleDeleteConsultation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := a.clinic.DeleteConsultation(r.Context(), id); err != nil {
		a.writeDomainError(r, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
