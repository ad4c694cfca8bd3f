package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/mimiplus/internal/apperrors"
	"github.com/nkiryanov/mimiplus/internal/models"
)

func Test_TokenManager(t *testing.T) {
	staff := models.Identity{AccountID: uuid.New(), Role: models.RoleStaff}

	newManager := func(t *testing.T, ttl time.Duration) *TokenManager {
		m, err := New(Config{SecretKey: "test-secret-key", AccessTTL: ttl})
		require.NoError(t, err, "token manager should be created without errors")
		return m
	}

	t.Run("new defaults", func(t *testing.T) {
		m, err := New(Config{SecretKey: "secret"})
		require.NoError(t, err, "token manager should be created without errors")

		require.Equal(t, "secret", m.key, "secret key should be set")
		require.Equal(t, defaultAccessTokenTTL, m.accessTTL, "default access token TTL should be set")
		require.Equal(t, defaultSigningMethod, m.alg.Alg(), "default signing method should be set")
	})

	t.Run("new without key", func(t *testing.T) {
		_, err := New(Config{})

		require.Error(t, err)
	})

	t.Run("new with unknown alg", func(t *testing.T) {
		_, err := New(Config{SecretKey: "secret", Alg: "ROT13"})

		require.Error(t, err)
	})

	t.Run("Issue", func(t *testing.T) {
		t.Run("claims", func(t *testing.T) {
			m := newManager(t, 15*time.Minute)

			issued, err := m.Issue(staff)
			require.NoError(t, err)
			assert.WithinDuration(t, time.Now().Add(15*time.Minute), issued.ExpiresAt, time.Second)

			token, err := jwt.ParseWithClaims(issued.Value, &AccessTokenClaims{}, func(token *jwt.Token) (any, error) {
				return []byte("test-secret-key"), nil
			})
			require.NoError(t, err)
			require.True(t, token.Valid, "access token should be valid")

			claims, ok := token.Claims.(*AccessTokenClaims)
			require.True(t, ok, "claims should be of type AccessTokenClaims")
			assert.Equal(t, staff.AccountID, claims.AccountID)
			assert.Equal(t, models.RoleStaff, claims.Role)
			assert.NotEmpty(t, claims.ID, "token has to has jti")
			assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt.Time, 0, "expires at should match issued token")
		})

		t.Run("unknown role", func(t *testing.T) {
			m := newManager(t, 0)

			_, err := m.Issue(models.Identity{AccountID: uuid.New(), Role: "root"})

			require.Error(t, err)
		})
	})

	t.Run("Parse", func(t *testing.T) {
		t.Run("valid token", func(t *testing.T) {
			m := newManager(t, 0)
			issued, err := m.Issue(staff)
			require.NoError(t, err)

			identity, err := m.Parse(t.Context(), issued.Value)

			require.NoError(t, err)
			require.Equal(t, staff, identity)
		})

		t.Run("not a token", func(t *testing.T) {
			m := newManager(t, 0)

			_, err := m.Parse(t.Context(), "invalid token")

			require.ErrorIs(t, err, apperrors.ErrUnauthorized)
		})

		t.Run("expired token", func(t *testing.T) {
			m := newManager(t, time.Minute)
			issued, err := m.Issue(staff)
			require.NoError(t, err)

			m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
			_, err = m.Parse(t.Context(), issued.Value)

			require.ErrorIs(t, err, apperrors.ErrUnauthorized, "token has to become expired")
		})

		t.Run("other key", func(t *testing.T) {
			issued, err := newManager(t, 0).Issue(staff)
			require.NoError(t, err)

			other, err := New(Config{SecretKey: "other-key"})
			require.NoError(t, err)
			_, err = other.Parse(t.Context(), issued.Value)

			require.ErrorIs(t, err, apperrors.ErrUnauthorized)
		})

		t.Run("not signed token", func(t *testing.T) {
			m := newManager(t, 0)
			token := jwt.NewWithClaims(
				jwt.SigningMethodNone,
				AccessTokenClaims{
					RegisteredClaims: jwt.RegisteredClaims{
						ID:        uuid.NewString(),
						IssuedAt:  jwt.NewNumericDate(time.Now()),
						ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
					},
					AccountID: staff.AccountID,
					Role:      models.RoleAdmin,
				},
			)
			access, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
			require.NoError(t, err)

			_, err = m.Parse(t.Context(), access)
			require.Error(t, err, "Valid token with empty alg must fail")
		})

		t.Run("token without role", func(t *testing.T) {
			m := newManager(t, 0)
			token := jwt.NewWithClaims(
				jwt.SigningMethodHS256,
				AccessTokenClaims{
					RegisteredClaims: jwt.RegisteredClaims{
						ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
					},
					AccountID: staff.AccountID,
				},
			)
			access, err := token.SignedString([]byte("test-secret-key"))
			require.NoError(t, err)

			_, err = m.Parse(t.Context(), access)
			require.ErrorIs(t, err, apperrors.ErrUnauthorized)
		})
	})
}
