package handlers

import (
	"net/http"

	"github.com/liftdesk/liftdesk/internal/validate"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.Identity.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"userId":  user.ID,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}
	sess, err := h.Identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"token":     sess.Token,
		"expiresAt": sess.ExpiresAt,
		"user": map[string]string{
			"id":    sess.User.ID,
			"name":  sess.User.Name,
			"email": sess.User.Email,
		},
	})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Identity.Logout(r.Context(), bearerToken(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
