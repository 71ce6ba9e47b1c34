package middleware

import (
	"net/http"

	"riplimit/internal/auth"
)

// Role administration lives in the external auth provider; tokens arrive
// with the role already decided, so the check here is claim-only.

func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(next, auth.RoleAdmin)
}

// RequireService guards the ledger's service-to-service endpoints (bidding
// service, purchase webhook, settlement job). Admin tokens pass too.
func RequireService(next http.Handler) http.Handler {
	return requireRole(next, auth.RoleService, auth.RoleAdmin)
}

func requireRole(next http.Handler, roles ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := RoleFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				next.ServeHTTP(w, r)
				return
			}
		}
		http.Error(w, "insufficient role", http.StatusForbidden)
	})
}
