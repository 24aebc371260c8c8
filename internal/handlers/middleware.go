package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/liftdesk/liftdesk/internal/apperr"
	"github.com/liftdesk/liftdesk/internal/models"
	"github.com/liftdesk/liftdesk/internal/tenancy"
)

type ctxKey int

const (
	sessionKey ctxKey = iota
	scopeKey
)

// bearerToken pulls the session token out of the Authorization header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(strings.TrimSpace(parts[0]), "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireSession resolves the bearer token to a live session and rejects
// the request otherwise.
func (h *Handlers) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.Tenancy.ResolveSession(r.Context(), bearerToken(r))
		if err != nil {
			writeError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireScope resolves the full tenant chain once and stashes it for the
// owner-side handlers. Any broken link fails the request closed.
func (h *Handlers) RequireScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope, err := h.Tenancy.ResolveScope(r.Context(), bearerToken(r))
		if err != nil {
			writeError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), scopeKey, scope)
		ctx = context.WithValue(ctx, sessionKey, scope.Session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *models.Session {
	if s, ok := r.Context().Value(sessionKey).(*models.Session); ok {
		return s
	}
	return nil
}

func scopeFrom(r *http.Request) *tenancy.Scope {
	if sc, ok := r.Context().Value(scopeKey).(*tenancy.Scope); ok {
		return sc
	}
	return nil
}

// requireGymInScope is the shared guard for routes carrying a gym id:
// a gym outside the caller's business behaves exactly like a missing one.
func requireGymInScope(w http.ResponseWriter, r *http.Request, gymID string) bool {
	sc := scopeFrom(r)
	if sc == nil || !sc.OwnsGym(gymID) {
		writeError(w, apperr.NotFound("gym not found"))
		return false
	}
	return true
}

// RequestLogger emits one structured line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
