package gate

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"tutorhub/gateway/internal/resolve"
)

type decisionKey struct{}

// Require gates a route group on the allowed role set. Unauthenticated
// requests are redirected to the public landing route; a known but
// unpermitted role gets a denied payload, never a redirect, to avoid
// redirect loops.
func (g *Gate) Require(allowed ...resolve.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := g.Check(r.Context(), bearerToken(r.Header.Get("Authorization")), allowed...)
			switch decision.State {
			case StateUnauthenticated:
				http.Redirect(w, r, "/", http.StatusSeeOther)
			case StateDenied:
				writeJSON(w, http.StatusForbidden, map[string]interface{}{
					"error": "access_denied",
					"role":  decision.Result.Role,
					"home":  "/",
				})
			case StateError:
				runID := uuid.NewString()
				log.Printf("resolution failed (run %s): %v", runID, decision.Err)
				status := http.StatusBadGateway
				message := "resolution_failed"
				var provisionErr *resolve.ProvisionError
				if errors.As(decision.Err, &provisionErr) {
					status = http.StatusUnprocessableEntity
					message = provisionErr.Message
				}
				writeJSON(w, status, map[string]interface{}{
					"error": message,
					"retry": true,
					"home":  "/",
					"run":   runID,
				})
			case StateAuthorized:
				ctx := context.WithValue(r.Context(), decisionKey{}, decision)
				next.ServeHTTP(w, r.WithContext(ctx))
			default:
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "server_error"})
			}
		})
	}
}

func DecisionFromContext(ctx context.Context) (Decision, bool) {
	decision, ok := ctx.Value(decisionKey{}).(Decision)
	return decision, ok
}

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
