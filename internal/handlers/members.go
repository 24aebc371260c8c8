package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/liftdesk/liftdesk/internal/member"
	"github.com/liftdesk/liftdesk/internal/validate"
)

func (h *Handlers) ListGymMembers(w http.ResponseWriter, r *http.Request) {
	gymID := chi.URLParam(r, "gymID")
	if !requireGymInScope(w, r, gymID) {
		return
	}
	out, err := h.Members.ListForGym(r.Context(), gymID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) ListAllMembers(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	out, err := h.Members.ListForBusiness(r.Context(), sc.GymIDs())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	gymID := chi.URLParam(r, "gymID")
	if !requireGymInScope(w, r, gymID) {
		return
	}
	var req member.CreateInput
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	m, err := h.Members.Create(r.Context(), gymID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"memberId": m.ID,
		"member":   m,
	})
}

func (h *Handlers) GetMember(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	m, err := h.Members.Get(r.Context(), sc.GymIDs(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	var req member.UpdateInput
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Members.Update(r.Context(), sc.GymIDs(), chi.URLParam(r, "id"), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handlers) UpdateMemberStatus(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	var req statusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Members.UpdateStatus(r.Context(), sc.GymIDs(), chi.URLParam(r, "id"), req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	if err := h.Members.Delete(r.Context(), sc.GymIDs(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type checkInRequest struct {
	GymID string `json:"gymId" validate:"required"`
}

func (h *Handlers) RecordCheckIn(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	var req checkInRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Members.RecordCheckIn(r.Context(), sc.GymIDs(), chi.URLParam(r, "id"), req.GymID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true})
}

func (h *Handlers) ListCheckIns(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	out, err := h.Members.ListCheckIns(r.Context(), sc.GymIDs(), chi.URLParam(r, "id"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
