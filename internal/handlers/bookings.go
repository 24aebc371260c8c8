package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/liftdesk/liftdesk/internal/validate"
)

type bookRequest struct {
	ClassScheduleID string `json:"classScheduleId" validate:"required"`
	ClassDate       string `json:"classDate" validate:"omitempty,datetime=2006-01-02"`
}

// BookClass reserves a spot for the member linked to the calling account.
// Without a classDate the next occurrence of the schedule's weekday is
// booked.
func (h *Handlers) BookClass(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var req bookRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	var classDate time.Time
	if req.ClassDate != "" {
		classDate, _ = time.Parse("2006-01-02", req.ClassDate)
	}
	b, err := h.Bookings.Book(r.Context(), sess.UserID, req.ClassScheduleID, classDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "booking": b})
}

func (h *Handlers) CancelBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.Bookings.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handlers) ListMemberBookings(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	memberID := chi.URLParam(r, "id")
	if _, err := h.Members.Get(r.Context(), sc.GymIDs(), memberID); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Bookings.ListForMember(r.Context(), memberID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type attendanceRequest struct {
	Status string `json:"status" validate:"required,oneof=attended no_show"`
}

func (h *Handlers) SetAttendance(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	var req attendanceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Bookings.SetAttendance(r.Context(), sc.GymIDs(), chi.URLParam(r, "id"), req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
