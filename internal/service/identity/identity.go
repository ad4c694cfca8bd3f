package identity

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/mimiplus/internal/apperrors"
	"github.com/nkiryanov/mimiplus/internal/models"
)

const (
	defaultAccessTokenTTL = 15 * time.Minute
	defaultSigningMethod  = "HS256"
)

var knownRoles = []string{models.RoleCustomer, models.RoleStaff, models.RoleAdmin}

type AccessTokenClaims struct {
	jwt.RegisteredClaims
	AccountID uuid.UUID `json:"uid"`
	Role      string    `json:"role"`
}

// Token manager with sensible default
type Config struct {
	// Secret key to sign access token
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// If not set than default is used
	AccessTTL time.Duration
}

// Issues and verifies access tokens carrying account id and role
type TokenManager struct {
	key       string
	alg       jwt.SigningMethod
	accessTTL time.Duration

	now func() time.Time
}

func New(cfg Config) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	alg := jwt.GetSigningMethod(cfg.Alg)
	if alg == nil {
		return nil, fmt.Errorf("unknown signing method %q", cfg.Alg)
	}

	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = defaultAccessTokenTTL
	}

	return &TokenManager{
		key:       cfg.SecretKey,
		alg:       alg,
		accessTTL: cfg.AccessTTL,
		now:       time.Now,
	}, nil
}

func (m *TokenManager) Issue(identity models.Identity) (models.IssuedToken, error) {
	var issued models.IssuedToken

	if !slices.Contains(knownRoles, identity.Role) {
		return issued, fmt.Errorf("unknown role %q", identity.Role)
	}

	now := m.now().Truncate(time.Second)
	expiresAt := now.Add(m.accessTTL)

	token := jwt.NewWithClaims(
		m.alg,
		AccessTokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			AccountID: identity.AccountID,
			Role:      identity.Role,
		},
	)
	value, err := token.SignedString([]byte(m.key))
	if err != nil {
		return issued, fmt.Errorf("error while signing access token. Err: %w", err)
	}

	return models.IssuedToken{Value: value, ExpiresAt: expiresAt}, nil
}

// Parse and validate access token
func (m *TokenManager) Parse(ctx context.Context, access string) (models.Identity, error) {
	claims := &AccessTokenClaims{}

	_, err := jwt.ParseWithClaims(
		access,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(m.key), nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return models.Identity{}, fmt.Errorf("error parsing token: %w. Err: %w", apperrors.ErrUnauthorized, err)
	}

	if claims.AccountID == uuid.Nil || !slices.Contains(knownRoles, claims.Role) {
		return models.Identity{}, fmt.Errorf("token claims are incomplete: %w", apperrors.ErrUnauthorized)
	}

	return models.Identity{AccountID: claims.AccountID, Role: claims.Role}, nil
}
