package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/nkiryanov/mimiplus/internal/apperrors"
	"github.com/nkiryanov/mimiplus/internal/handlers/identityctx"
	"github.com/nkiryanov/mimiplus/internal/handlers/render"
	"github.com/nkiryanov/mimiplus/internal/models"
)

type tokenParser interface {
	Parse(ctx context.Context, token string) (models.Identity, error)
}

// Read bearer token and put caller identity to request context
func AuthMiddleware(p tokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				render.AppError(w, apperrors.ErrUnauthorized)
				return
			}

			identity, err := p.Parse(r.Context(), token)
			if err != nil {
				render.AppError(w, apperrors.ErrUnauthorized)
				return
			}

			ctx := identityctx.New(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Allow only callers with one of roles
// Has to be used after AuthMiddleware
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := identityctx.FromContext(r.Context())
			if !ok {
				render.AppError(w, apperrors.ErrUnauthorized)
				return
			}

			if !slices.Contains(roles, identity.Role) {
				render.AppError(w, apperrors.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
