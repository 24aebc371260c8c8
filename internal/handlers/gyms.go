package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/liftdesk/liftdesk/internal/gym"
	"github.com/liftdesk/liftdesk/internal/validate"
)

func (h *Handlers) ListGyms(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	writeJSON(w, http.StatusOK, sc.Gyms)
}

func (h *Handlers) CreateGym(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	var req gym.CreateInput
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	g, err := h.Gyms.Create(r.Context(), sc.Business.ID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *Handlers) GetGym(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	g, err := h.Gyms.Get(r.Context(), sc.Business.ID, chi.URLParam(r, "gymID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *Handlers) UpdateGym(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	var req gym.UpdateInput
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Gyms.Update(r.Context(), sc.Business.ID, chi.URLParam(r, "gymID"), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type setActiveRequest struct {
	IsActive bool `json:"isActive"`
}

func (h *Handlers) SetGymActive(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	var req setActiveRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Gyms.SetActive(r.Context(), sc.Business.ID, chi.URLParam(r, "gymID"), req.IsActive); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handlers) DeleteGym(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	if err := h.Gyms.Delete(r.Context(), sc.Business.ID, chi.URLParam(r, "gymID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
