package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dkrasnovs/tenauth/internal/common"
	"github.com/dkrasnovs/tenauth/internal/server/auth"
	"github.com/dkrasnovs/tenauth/internal/server/users"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fields})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// respondError collapses internal error kinds into the coarse public
// categories. Internal detail is preserved only in logs, never echoed.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case auth.IsAuthError(err):
		writeError(w, http.StatusUnauthorized, "unauthenticated")
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, users.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "email is already registered")
	case errors.Is(err, users.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, "invalid role")
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		s.log.Error(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
