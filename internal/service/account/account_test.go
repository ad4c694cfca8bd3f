package account

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/mimiplus/internal/apperrors"
	"github.com/nkiryanov/mimiplus/internal/models"
	"github.com/nkiryanov/mimiplus/internal/repository/postgres"
	"github.com/nkiryanov/mimiplus/internal/testutil"
)

func TestBcryptCode(t *testing.T) {
	first, err := BcryptCode()
	require.NoError(t, err)
	second, err := BcryptCode()
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(first, "$2a$"), "code has to be bcrypt hash, got %s", first)
	require.NotEqual(t, first, second, "codes has to be random")
}

func TestAccount(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	codes := 0
	sequentialCode := func() (string, error) {
		codes++
		return "qr-" + strings.Repeat("x", codes), nil
	}

	withTx := func(t *testing.T, fn func(s *AccountService)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			fn(NewService(postgres.NewStorage(tx).Account(), sequentialCode))
		})
	}

	t.Run("create customer by default", func(t *testing.T) {
		withTx(t, func(s *AccountService) {
			account, err := s.Create(t.Context(), CreateParams{Name: " Ann ", Email: "Ann@Example.com"})

			require.NoError(t, err)
			require.Equal(t, "Ann", account.Name)
			require.Equal(t, "ann@example.com", account.Email, "email normalized")
			require.Equal(t, models.RoleCustomer, account.Role)
			require.True(t, account.IsActive())
			require.NotEmpty(t, account.QRCode)
			require.Zero(t, account.PointsBalance)
		})
	})

	t.Run("create staff", func(t *testing.T) {
		withTx(t, func(s *AccountService) {
			account, err := s.Create(t.Context(), CreateParams{Name: "Bob", Email: "bob@example.com", Role: models.RoleStaff})

			require.NoError(t, err)
			require.Equal(t, models.RoleStaff, account.Role)
		})
	})

	t.Run("duplicate email", func(t *testing.T) {
		withTx(t, func(s *AccountService) {
			_, err := s.Create(t.Context(), CreateParams{Name: "Ann", Email: "ann@example.com"})
			require.NoError(t, err)

			_, err = s.Create(t.Context(), CreateParams{Name: "Ann", Email: "ANN@example.com"})

			require.ErrorIs(t, err, apperrors.ErrAccountAlreadyExists)
		})
	})

	t.Run("code generation failed", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			s := NewService(postgres.NewStorage(tx).Account(), func() (string, error) { return "", errors.New("no entropy") })

			_, err := s.Create(t.Context(), CreateParams{Name: "Ann", Email: "ann@example.com"})

			require.Error(t, err)
		})
	})

	t.Run("lookup by qr code", func(t *testing.T) {
		withTx(t, func(s *AccountService) {
			created, err := s.Create(t.Context(), CreateParams{Name: "Ann", Email: "ann@example.com"})
			require.NoError(t, err)

			found, err := s.GetByQRCode(t.Context(), created.QRCode)
			require.NoError(t, err)
			require.Equal(t, created.ID, found.ID)

			_, err = s.GetByQRCode(t.Context(), "qr-unknown")
			require.ErrorIs(t, err, apperrors.ErrAccountNotFound)
		})
	})

	t.Run("deactivate and reactivate", func(t *testing.T) {
		withTx(t, func(s *AccountService) {
			created, err := s.Create(t.Context(), CreateParams{Name: "Ann", Email: "ann@example.com"})
			require.NoError(t, err)

			deactivated, err := s.Deactivate(t.Context(), created.ID)
			require.NoError(t, err)
			require.False(t, deactivated.IsActive())

			list, err := s.List(t.Context(), ListOpts{})
			require.NoError(t, err)
			require.Empty(t, list, "inactive hidden by default")

			list, err = s.List(t.Context(), ListOpts{IncludeInactive: true})
			require.NoError(t, err)
			require.Len(t, list, 1)

			reactivated, err := s.Reactivate(t.Context(), created.ID)
			require.NoError(t, err)
			require.True(t, reactivated.IsActive())

			got, err := s.Get(t.Context(), created.ID)
			require.NoError(t, err)
			require.True(t, got.IsActive())
		})
	})

	t.Run("update name and email", func(t *testing.T) {
		withTx(t, func(s *AccountService) {
			created, err := s.Create(t.Context(), CreateParams{Name: "Ann", Email: "ann@example.com"})
			require.NoError(t, err)

			updated, err := s.Update(t.Context(), created.ID, UpdateParams{Name: " Ann Lee ", Email: "Ann.Lee@Example.com"})

			require.NoError(t, err)
			require.Equal(t, "Ann Lee", updated.Name)
			require.Equal(t, "ann.lee@example.com", updated.Email, "email normalized")
			require.Equal(t, created.QRCode, updated.QRCode)
		})
	})

	t.Run("update to taken email", func(t *testing.T) {
		withTx(t, func(s *AccountService) {
			_, err := s.Create(t.Context(), CreateParams{Name: "Ann", Email: "ann@example.com"})
			require.NoError(t, err)
			bob, err := s.Create(t.Context(), CreateParams{Name: "Bob", Email: "bob@example.com"})
			require.NoError(t, err)

			_, err = s.Update(t.Context(), bob.ID, UpdateParams{Email: "ANN@example.com"})

			require.ErrorIs(t, err, apperrors.ErrAccountAlreadyExists)
		})
	})

	t.Run("rename keeps email", func(t *testing.T) {
		withTx(t, func(s *AccountService) {
			created, err := s.Create(t.Context(), CreateParams{Name: "Ann", Email: "ann@example.com"})
			require.NoError(t, err)

			renamed, err := s.Rename(t.Context(), created.ID, "Annie")

			require.NoError(t, err)
			require.Equal(t, "Annie", renamed.Name)
			require.Equal(t, "ann@example.com", renamed.Email)
		})
	})

	t.Run("rename unknown account", func(t *testing.T) {
		withTx(t, func(s *AccountService) {
			_, err := s.Rename(t.Context(), uuid.New(), "Annie")

			require.ErrorIs(t, err, apperrors.ErrAccountNotFound)
		})
	})
}
