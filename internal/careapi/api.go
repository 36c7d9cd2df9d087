// Package careapi implements the JSON HTTP API: public triage and doctor
// directory endpoints, plus bearer-authenticated profile and consultation
// management.
package careapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/carebridge/carebridge/internal/clinic"
	"github.com/carebridge/carebridge/internal/triage"
)

// Analyzer produces a triage suggestion for a symptom description.
type Analyzer interface {
	Analyze(ctx context.Context, symptoms string) triage.Result
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger   log.Logger
	analyzer Analyzer
	clinic   *clinic.Service
}

// New creates a new API handler.
func New(logger log.Logger, analyzer Analyzer, svc *clinic.Service) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if analyzer == nil {
		panic(xerrors.New("triage analyzer is required"))
	}
	if svc == nil {
		panic(xerrors.New("clinic service is required"))
	}
	return &API{
		logger:   logger,
		analyzer: analyzer,
		clinic:   svc,
	}
}

// RegisterRoutes attaches API endpoints to the router. auth wraps the
// routes that require a bearer token; nil leaves them open (tests).
func (a *API) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	if auth == nil {
		auth = func(next http.Handler) http.Handler { return next }
	}

	r.Route("/api/v1", func(r chi.Router) {
		// public
		r.Post("/triage", a.handleAnalyzeSymptoms)
		r.Get("/doctors", a.handleListDoctors)
		r.Get("/doctors/{id}", a.handleGetDoctor)

		// authenticated
		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.Post("/doctors", a.handleCreateDoctor)

			r.Route("/profiles", func(r chi.Router) {
				r.Post("/", a.handleCreateProfile)
				r.Get("/", a.handleListProfiles)
				r.Get("/{id}", a.handleGetProfile)
				r.Put("/{id}", a.handleUpdateProfile)
				r.Delete("/{id}", a.handleDeleteProfile)
			})

			r.Route("/consultations", func(r chi.Router) {
				r.Post("/", a.handleBookConsultation)
				r.Get("/", a.handleListConsultations)
				r.Get("/{id}", a.handleGetConsultation)
				r.Put("/{id}", a.handleUpdateConsultation)
				r.Patch("/{id}/status", a.handleUpdateConsultationStatus)
				r.Delete("/{id}", a.handleDeleteConsultation)
			})
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps clinic sentinel errors onto HTTP statuses. Anything
// unrecognized is logged and reported as a 500.
func (a *API) writeDomainError(r *http.Request, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, clinic.ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, clinic.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, clinic.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		a.logger.Error(r.Context(), err, "request failed",
			"method", r.Method, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
