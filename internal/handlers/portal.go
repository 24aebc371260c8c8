package handlers

import (
	"net/http"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/liftdesk/liftdesk/internal/validate"
)

type linkRequest struct {
	MemberNumber string `json:"memberNumber" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
}

// LinkMembership binds the calling account to an existing member record.
// The pair must match exactly and the binding is permanent.
func (h *Handlers) LinkMembership(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var req linkRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Members.LinkAccount(r.Context(), req.MemberNumber, req.Email, sess.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handlers) MemberProfile(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	m, g, err := h.Members.ProfileForUser(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"member": m, "gym": g})
}

// MembershipCard renders the member's QR credential as a PNG.
func (h *Handlers) MembershipCard(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	m, _, err := h.Members.ProfileForUser(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	png, err := qrcode.Encode(m.QRToken, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "failed to generate qr", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// MemberSchedules lists the weekly timetable of the member's own gym.
func (h *Handlers) MemberSchedules(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	m, _, err := h.Members.ProfileForUser(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Classes.ListSchedulesForGym(r.Context(), m.GymID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) MemberTrainers(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	m, _, err := h.Members.ProfileForUser(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Trainers.ActiveForGym(r.Context(), m.GymID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) MyBookings(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	out, err := h.Bookings.ListForUser(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
