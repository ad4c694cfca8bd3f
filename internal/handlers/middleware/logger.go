package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nkiryanov/mimiplus/internal/handlers/identityctx"
)

type logger interface {
	Info(msg string, args ...any)
}

// Role logged for requests without a valid token
const anonymousRole = "anonymous"

// Log every request with its status, size and the caller
// Request id is set by chi RequestID middleware if it runs before
// Caller is known only if AuthMiddleware accepted the token somewhere down the chain
func LoggerMiddleware(l logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ctx, caller := identityctx.WithRecorder(r.Context())

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			accountID, role := "", anonymousRole
			if identity, ok := caller.Identity(); ok {
				accountID, role = identity.AccountID.String(), identity.Role
			}

			l.Info(
				"got HTTP request",
				"request_id", chimiddleware.GetReqID(r.Context()),
				"method", r.Method,
				"uri", r.RequestURI,
				"account_id", accountID,
				"role", role,
				"duration", time.Since(start),
				"status", status,
				"size", ww.BytesWritten(),
			)
		})
	}
}
