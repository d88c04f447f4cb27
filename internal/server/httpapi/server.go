// Package httpapi is the HTTP surface of the identity service: route wiring,
// request decoding and validation, cookie handling, and the mapping of
// internal errors to HTTP outcomes. All real decisions live in the auth,
// users and tenants packages.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dkrasnovs/tenauth/internal/logging"
	"github.com/dkrasnovs/tenauth/internal/server/auth"
	"github.com/dkrasnovs/tenauth/internal/server/config"
	"github.com/dkrasnovs/tenauth/internal/server/metrics"
	"github.com/dkrasnovs/tenauth/internal/server/tenants"
	"github.com/dkrasnovs/tenauth/internal/server/users"
)

// Server serves the public HTTP API.
type Server struct {
	cfg     *config.Config
	log     logging.Logger
	issuer  *auth.Issuer
	guard   *auth.Guard
	users   *users.Service
	tenants *tenants.Service
	metrics *metrics.AuthMetrics
}

// NewServer wires the HTTP server. metrics may be nil.
func NewServer(cfg *config.Config, log logging.Logger, issuer *auth.Issuer, guard *auth.Guard,
	usersSvc *users.Service, tenantsSvc *tenants.Service, m *metrics.AuthMetrics) *Server {
	return &Server{
		cfg:     cfg,
		log:     log.With("module", "http_server"),
		issuer:  issuer,
		guard:   guard,
		users:   usersSvc,
		tenants: tenantsSvc,
		metrics: m,
	}
}

// Handler builds the route table. Protected routes run through the
// authentication gate before any handler logic; management routes
// additionally require the admin role.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	admin := func(h http.HandlerFunc) http.Handler {
		return s.guard.Authenticate(s.guard.RequireRole(auth.RoleAdmin)(h))
	}

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.Handle("POST /auth/refresh", s.guard.RefreshGate(http.HandlerFunc(s.handleRefresh)))
	mux.Handle("GET /auth/self", s.guard.Authenticate(http.HandlerFunc(s.handleSelf)))
	mux.Handle("POST /auth/logout", s.guard.RefreshGate(http.HandlerFunc(s.handleLogout)))

	mux.Handle("POST /tenants", admin(s.handleCreateTenant))
	mux.Handle("PATCH /tenants/{id}", admin(s.handleUpdateTenant))
	mux.Handle("GET /tenants", admin(s.handleListTenants))
	mux.Handle("GET /tenants/{id}", admin(s.handleGetTenant))
	mux.Handle("DELETE /tenants/{id}", admin(s.handleDeleteTenant))

	mux.Handle("POST /users", admin(s.handleCreateUser))
	mux.Handle("PATCH /users/{id}", admin(s.handleUpdateUser))
	mux.Handle("GET /users", admin(s.handleListUsers))
	mux.Handle("GET /users/{id}", admin(s.handleGetUser))
	mux.Handle("DELETE /users/{id}", admin(s.handleDeleteUser))

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.EndpointAddrHTTP,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.log.Info(ctx, "stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error(ctx, "HTTP server shutdown failed", "error", err)
		}
	}()

	s.log.Info(ctx, "starting HTTP server", "address", s.cfg.EndpointAddrHTTP)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
