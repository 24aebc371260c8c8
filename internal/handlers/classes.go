package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/liftdesk/liftdesk/internal/class"
	"github.com/liftdesk/liftdesk/internal/validate"
)

func (h *Handlers) CreateClassType(w http.ResponseWriter, r *http.Request) {
	gymID := chi.URLParam(r, "gymID")
	if !requireGymInScope(w, r, gymID) {
		return
	}
	var req class.CreateTypeInput
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	ct, err := h.Classes.CreateType(r.Context(), gymID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ct)
}

func (h *Handlers) ListClassTypes(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	out, err := h.Classes.ListTypes(r.Context(), sc.GymIDs())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) DeleteClassType(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	if err := h.Classes.DeleteType(r.Context(), sc.GymIDs(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handlers) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	gymID := chi.URLParam(r, "gymID")
	if !requireGymInScope(w, r, gymID) {
		return
	}
	var req class.CreateScheduleInput
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	sched, err := h.Classes.CreateSchedule(r.Context(), gymID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sched)
}

func (h *Handlers) ListGymSchedules(w http.ResponseWriter, r *http.Request) {
	gymID := chi.URLParam(r, "gymID")
	if !requireGymInScope(w, r, gymID) {
		return
	}
	out, err := h.Classes.ListSchedulesForGym(r.Context(), gymID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) ListAllSchedules(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	out, err := h.Classes.ListSchedulesForBusiness(r.Context(), sc.GymIDs())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	if err := h.Classes.DeleteSchedule(r.Context(), sc.GymIDs(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
