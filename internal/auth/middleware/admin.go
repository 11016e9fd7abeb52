package middleware

import (
	"net/http"

	"github.com/magicalwebsite/backend/internal/middlewares"
)

// AdminMiddleware allows the request through only when the authenticated user is an admin.
// It must run after AuthMiddleware.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok {
			middlewares.WriteError(w, http.StatusUnauthorized, "Missing authorization token")
			return
		}

		if !user.IsAdmin() {
			middlewares.WriteError(w, http.StatusForbidden, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
