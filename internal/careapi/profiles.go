package careapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carebridge/carebridge/internal/clinic"
)

type profileRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Language       string `json:"language_preference"`
	MedicalHistory string `json:"medical_history"`
}

func (p *profileRequest) toProfile(id string) *clinic.Profile {
	return &clinic.Profile{
		ID:             id,
		Name:           p.Name,
		Email:          p.Email,
		Phone:          p.Phone,
		Language:       p.Language,
		MedicalHistory: p.MedicalHistory,
	}
}

func (a *API) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	created, err := a.clinic.CreateProfile(r.Context(), req.toProfile(""))
	if err != nil {
		a.writeDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok, err := a.clinic.GetProfile(r.Context(), id)
	if err != nil {
		a.writeDomainError(r, w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := a.clinic.ListProfiles(r.Context())
	if err != nil {
		a.writeDomainError(r, w, err)
		return
	}
	if profiles == nil {
		profiles = []*clinic.Profile{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"profiles": profiles})
}

func (a *API) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req profileRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	updated, err := a.clinic.UpdateProfile(r.Context(), req.toProfile(id))
	if err != nil {
		a.writeDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := a.clinic.DeleteProfile(r.Context(), id); err != nil {
		a.writeDomainError(r, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
