package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tutorhub/gateway/internal/auth"
	"tutorhub/gateway/internal/config"
	"tutorhub/gateway/internal/gate"
	"tutorhub/gateway/internal/marker"
	"tutorhub/gateway/internal/resolve"
	"tutorhub/gateway/internal/userdata"
)

type Server struct {
	cfg      config.Config
	verifier gate.Verifier
	gate     *gate.Gate
	markers  marker.Store
	users    *userdata.Loader
}

func NewServer(cfg config.Config, verifier gate.Verifier, accessGate *gate.Gate, markers marker.Store, users *userdata.Loader) *Server {
	return &Server{
		cfg:      cfg,
		verifier: verifier,
		gate:     accessGate,
		markers:  markers,
		users:    users,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", s.handleLanding)

	r.Group(func(r chi.Router) {
		r.Use(s.gate.Require(resolve.RoleAdmin, resolve.RoleStudent))
		r.Get("/session", s.handleGetSession)
		r.Get("/me", s.handleGetMe)
	})

	// Sign-out only needs a verified token: it must clear the marker
	// even when the backend is unreachable.
	r.With(s.authMiddleware).Post("/session/signout", s.handleSignOut)

	r.Route("/student", func(r chi.Router) {
		r.Use(s.gate.Require(resolve.RoleStudent))
		r.Get("/home", s.handleStudentHome)
		r.Get("/profile", s.handleGetMe)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.gate.Require(resolve.RoleAdmin))
		r.Get("/home", s.handleAdminHome)
		r.Get("/profile", s.handleGetMe)
	})

	// Mentor records are managed by admins; the resolver never yields a
	// mentor classification.
	r.Route("/mentor", func(r chi.Router) {
		r.Use(s.gate.Require(resolve.RoleAdmin))
		r.Get("/home", s.handleMentorHome)
	})

	return r
}

// Auth

type identityKey struct{}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}
		identity, err := s.verifier.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		ctx := context.WithValue(r.Context(), identityKey{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func identityFromContext(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(auth.Identity)
	return identity, ok
}

// Handlers

func (s *Server) handleLanding(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "tutorhub-gateway",
		"status":  "ok",
	})
}

type sessionResponse struct {
	Role        resolve.Role     `json:"role"`
	Provisioned bool             `json:"provisioned,omitempty"`
	Entity      *userdata.Entity `json:"entity,omitempty"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	decision, ok := gate.DecisionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	resp := sessionResponse{
		Role:        decision.Result.Role,
		Provisioned: decision.Result.Provisioned,
	}
	switch {
	case decision.Result.Admin != nil:
		resp.Entity = &userdata.Entity{Role: decision.Result.Role, Admin: decision.Result.Admin}
	case decision.Result.Student != nil:
		resp.Entity = &userdata.Entity{Role: decision.Result.Role, Student: decision.Result.Student}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}
	if err := s.markers.Clear(r.Context(), identity.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "signout_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	decision, ok := gate.DecisionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	entity, err := s.users.Fetch(r.Context(), decision.Result.Role, decision.Identity.ID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "fetch_failed")
		return
	}
	writeJSON(w, http.StatusOK, entity)
}

func (s *Server) handleStudentHome(w http.ResponseWriter, r *http.Request) {
	decision, _ := gate.DecisionFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{
		"section": "student",
		"email":   decision.Identity.Email,
	})
}

func (s *Server) handleAdminHome(w http.ResponseWriter, r *http.Request) {
	decision, _ := gate.DecisionFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{
		"section": "admin",
		"email":   decision.Identity.Email,
	})
}

func (s *Server) handleMentorHome(w http.ResponseWriter, r *http.Request) {
	decision, _ := gate.DecisionFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{
		"section": "mentor",
		"email":   decision.Identity.Email,
	})
}

// Helpers

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
