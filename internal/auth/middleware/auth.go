// Package middleware gates routes on the caller's identity and role
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/magicalwebsite/backend/internal/middlewares"
	"github.com/magicalwebsite/backend/internal/models"
	"go.uber.org/zap"
)

type contextKey string

const userKey contextKey = "user"

// IdentityResolver is the interface that wraps the ResolveIdentity method.
//
// ResolveIdentity verifies a bearer token and loads the user it is bound to.
// It returns models.ErrTokenExpired or models.ErrInvalidToken for rejected tokens
// and models.ErrUserNotFound when the token's account no longer exists.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware resolves the bearer token into a fresh user row and stores it in the request context
func AuthMiddleware(resolver IdentityResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				middlewares.WriteError(w, http.StatusUnauthorized, "Missing authorization token")
				return
			}

			user, err := resolver.ResolveIdentity(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, models.ErrTokenExpired):
					middlewares.WriteError(w, http.StatusUnauthorized, "Token has expired")
				case errors.Is(err, models.ErrInvalidToken):
					middlewares.WriteError(w, http.StatusUnauthorized, "Invalid token")
				case errors.Is(err, models.ErrUserNotFound):
					middlewares.WriteError(w, http.StatusNotFound, "User not found")
				default:
					logger.Error("failed to resolve identity",
						zap.String("request_id", middlewares.GetRequestID(r.Context())),
						zap.Error(err),
					)
					middlewares.WriteError(w, http.StatusInternalServerError, err.Error())
				}
				return
			}

			ctx := WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken reads the token from "Authorization: Bearer <token>"
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// GetUser retrieves the authenticated user from context
func GetUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// WithUser returns a copy of ctx carrying user
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}
