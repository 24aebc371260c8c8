package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"gorm.io/gorm"

	"github.com/liftdesk/liftdesk/internal/apperr"
	"github.com/liftdesk/liftdesk/internal/booking"
	"github.com/liftdesk/liftdesk/internal/identity"
	"github.com/liftdesk/liftdesk/internal/member"
	"github.com/liftdesk/liftdesk/internal/tenancy"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error any `json:"error"`
}

// writeError maps service errors onto the API's error taxonomy. Unknown
// errors become a generic 500; details go to the log, not the client.
func writeError(w http.ResponseWriter, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		if ae.Type == apperr.TypeValidation {
			writeJSON(w, ae.Status(), errorBody{Error: ae.Fields})
			return
		}
		writeJSON(w, ae.Status(), errorBody{Error: ae.Message})
		return
	}

	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
	case errors.Is(err, identity.ErrEmailTaken),
		errors.Is(err, identity.ErrSlugTaken),
		errors.Is(err, member.ErrAlreadyLinked),
		errors.Is(err, booking.ErrAlreadyBooked),
		errors.Is(err, booking.ErrNotActive):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, member.ErrMemberNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, tenancy.ErrNoActiveOrganization),
		errors.Is(err, tenancy.ErrNoBusiness),
		errors.Is(err, identity.ErrNotMember):
		writeJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// decode parses a JSON body; malformed JSON is a 400-level validation-ish
// failure with a stable shape.
func decode(r *http.Request, v any) *apperr.Error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation(map[string][]string{"body": {"malformed JSON"}})
	}
	return nil
}
