package middleware

import (
	"context"
	"errors"
	"testing"

	"io"
	"net/http"
	"net/http/httptest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/mimiplus/internal/handlers/identityctx"
	"github.com/nkiryanov/mimiplus/internal/models"
)

// Allow to use a function as token parser
type parseFunc func(ctx context.Context, token string) (models.Identity, error)

func (f parseFunc) Parse(ctx context.Context, token string) (models.Identity, error) {
	return f(ctx, token)
}

// Simple handler that try to get identity from context
// If ok write its role to response
var roleHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityctx.FromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(identity.Role))
})

func get(t *testing.T, h http.Handler, authorization string) (int, string) {
	t.Helper()

	srv := httptest.NewServer(h)
	defer srv.Close()

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL+"/test", nil)
	require.NoError(t, err)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err, "should make request to test server")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "should read response body")
	defer resp.Body.Close() // nolint:errcheck

	return resp.StatusCode, string(body)
}

func TestAuthMiddleware(t *testing.T) {
	staff := models.Identity{AccountID: uuid.New(), Role: models.RoleStaff}

	middleware := AuthMiddleware(parseFunc(func(ctx context.Context, token string) (models.Identity, error) {
		if token != "valid-token" {
			return models.Identity{}, errors.New("fuck off!")
		}
		return staff, nil
	}))

	t.Run("auth ok", func(t *testing.T) {
		status, body := get(t, middleware(roleHandler), "Bearer valid-token")

		require.Equalf(t, http.StatusOK, status, "should return status OK. Resp: %s", body)
		require.Equal(t, "staff", body, "should return role in response")
	})

	t.Run("auth fail", func(t *testing.T) {
		tests := []struct {
			name   string
			header string
		}{
			{"no header", ""},
			{"not bearer", "Basic dXNlcjpwd2Q="},
			{"empty token", "Bearer "},
			{"invalid token", "Bearer forged"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				status, body := get(t, middleware(roleHandler), tt.header)

				require.Equalf(t, http.StatusUnauthorized, status, "should return status Unauthorized. Resp: %s", body)
				require.JSONEq(t,
					`{
						"error": "unauthorized",
						"message": "Unauthorized"
					}`,
					body,
				)
			})
		}
	})
}

func TestRequireRole(t *testing.T) {
	withIdentity := func(role string, next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := identityctx.New(r.Context(), models.Identity{AccountID: uuid.New(), Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	staffOnly := RequireRole(models.RoleStaff, models.RoleAdmin)

	t.Run("allowed role", func(t *testing.T) {
		status, body := get(t, withIdentity(models.RoleAdmin, staffOnly(roleHandler)), "")

		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "admin", body)
	})

	t.Run("other role", func(t *testing.T) {
		status, body := get(t, withIdentity(models.RoleCustomer, staffOnly(roleHandler)), "")

		require.Equal(t, http.StatusForbidden, status)
		require.JSONEq(t, `{"error": "forbidden", "message": "Forbidden"}`, body)
	})

	t.Run("no identity", func(t *testing.T) {
		status, _ := get(t, staffOnly(roleHandler), "")

		require.Equal(t, http.StatusUnauthorized, status)
	})
}
