package httpapi

import (
	"net/http"

	"github.com/dkrasnovs/tenauth/internal/server/auth"
	"github.com/dkrasnovs/tenauth/internal/server/users"
)

// handleRegister creates a customer account and opens a session for it.
// Self-registration never assigns a privileged role.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	user, err := s.users.Create(r.Context(), users.CreateParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      auth.RoleCustomer,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	pair, err := s.issuer.IssuePair(r.Context(), auth.Principal{ID: user.ID, Role: user.Role})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.metrics.RegistrationSucceeded(r.Context())
	s.setAuthCookies(w, pair)
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":      user.ID,
		"message": "user has been registered successfully",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	pair, principal, err := s.issuer.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, map[string]string{"id": principal.ID})
}

// handleRefresh rotates the session behind the presented refresh token.
// RefreshGate has already verified the token and its server-side record.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.RefreshClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	principal := auth.Principal{ID: claims.Subject, Role: claims.Role}
	pair, err := s.issuer.Rotate(r.Context(), principal, claims.ID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, map[string]string{"id": principal.ID})
}

// handleSelf returns the authenticated user's profile.
func (s *Server) handleSelf(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	user, err := s.users.FindByID(r.Context(), identity.Subject)
	if err != nil {
		// A valid token for a deleted user no longer authenticates anyone.
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.RefreshClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	if err := s.issuer.Logout(r.Context(), claims.ID); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.clearAuthCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
