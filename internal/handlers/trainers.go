package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/liftdesk/liftdesk/internal/trainer"
	"github.com/liftdesk/liftdesk/internal/validate"
)

func (h *Handlers) CreateTrainer(w http.ResponseWriter, r *http.Request) {
	gymID := chi.URLParam(r, "gymID")
	if !requireGymInScope(w, r, gymID) {
		return
	}
	var req trainer.CreateInput
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	t, err := h.Trainers.Create(r.Context(), gymID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *Handlers) ListGymTrainers(w http.ResponseWriter, r *http.Request) {
	gymID := chi.URLParam(r, "gymID")
	if !requireGymInScope(w, r, gymID) {
		return
	}
	out, err := h.Trainers.ListForGym(r.Context(), gymID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) ListAllTrainers(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	out, err := h.Trainers.ListForBusiness(r.Context(), sc.GymIDs())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) UpdateTrainer(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	var req trainer.UpdateInput
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Trainers.Update(r.Context(), sc.GymIDs(), chi.URLParam(r, "id"), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handlers) SetTrainerActive(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	var req setActiveRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Trainers.SetActive(r.Context(), sc.GymIDs(), chi.URLParam(r, "id"), req.IsActive); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handlers) DeleteTrainer(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	if err := h.Trainers.Delete(r.Context(), sc.GymIDs(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
