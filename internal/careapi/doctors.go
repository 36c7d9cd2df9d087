package careapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/carebridge/carebridge/internal/clinic"
)

type createDoctorRequest struct {
	Name              string `json:"name"`
	Hospital          string `json:"hospital"`
	Department        string `json:"department"`
	Biography         string `json:"biography"`
	Available         *bool  `json:"is_available"`
	YearsOfExperience int    `json:"years_of_experience"`
}

func (a *API) handleCreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req createDoctorRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	d := &clinic.Doctor{
		Name:              req.Name,
		Hospital:          req.Hospital,
		Department:        req.Department,
		Biography:         req.Biography,
		Available:         true,
		YearsOfExperience: req.YearsOfExperience,
	}
	if req.Available != nil {
		d.Available = *req.Available
	}

	created, err := a.clinic.CreateDoctor(r.Context(), d)
	if err != nil {
		a.writeDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) handleGetDoctor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("carebridge.doctor.id", id))

	d, ok, err := a.clinic.GetDoctor(r.Context(), id)
	if err != nil {
		a.writeDomainError(r, w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (a *API) handleListDoctors(w http.ResponseWriter, r *http.Request) {
	var f clinic.DoctorFilter
	f.Department = r.URL.Query().Get("department")

	if raw := r.URL.Query().Get("available"); raw != "" {
		avail, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "available must be true or false")
			return
		}
		f.Available = &avail
	}

	doctors, err := a.clinic.ListDoctors(r.Context(), f)
	if err != nil {
		a.writeDomainError(r, w, err)
		return
	}
	if doctors == nil {
		doctors = []*clinic.Doctor{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"doctors": doctors})
}
