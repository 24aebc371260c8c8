package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/liftdesk/liftdesk/internal/billing"
	"github.com/liftdesk/liftdesk/internal/validate"
)

func (h *Handlers) CreatePlan(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	var req billing.CreatePlanInput
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.Billing.CreatePlan(r.Context(), sc.Business.ID, sc.GymIDs(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handlers) ListPlans(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	out, err := h.Billing.ListPlans(r.Context(), sc.Business.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) DeletePlan(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	if err := h.Billing.DeletePlan(r.Context(), sc.Business.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handlers) CreatePTPackage(w http.ResponseWriter, r *http.Request) {
	gymID := chi.URLParam(r, "gymID")
	if !requireGymInScope(w, r, gymID) {
		return
	}
	var req billing.CreatePTPackageInput
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.Billing.CreatePTPackage(r.Context(), gymID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handlers) ListPTPackages(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	out, err := h.Billing.ListPTPackages(r.Context(), sc.GymIDs())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) DeletePTPackage(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	if err := h.Billing.DeletePTPackage(r.Context(), sc.GymIDs(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handlers) RecordPayment(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	var req billing.RecordPaymentInput
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.Billing.RecordPayment(r.Context(), sc.Business.ID, sc.GymIDs(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handlers) ListPayments(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	out, err := h.Billing.ListPayments(r.Context(), sc.GymIDs())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
