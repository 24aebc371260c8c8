package handlers

import (
	"net/http"

	"github.com/liftdesk/liftdesk/internal/tenancy"
	"github.com/liftdesk/liftdesk/internal/validate"
)

// OnboardingStatus never fails: flags degrade to false so the client can
// route the user to the right setup step.
func (h *Handlers) OnboardingStatus(w http.ResponseWriter, r *http.Request) {
	status := h.Tenancy.CheckOnboardingStatus(r.Context(), bearerToken(r))
	writeJSON(w, http.StatusOK, status)
}

func (h *Handlers) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var req tenancy.OnboardingInput
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Tenancy.CompleteOnboarding(r.Context(), sess, req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true})
}
