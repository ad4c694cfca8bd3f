package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/mimiplus/internal/apperrors"
	"github.com/nkiryanov/mimiplus/internal/models"
	"github.com/nkiryanov/mimiplus/internal/repository"
)

type AccountRepo struct {
	DB DBTX
}

const accountColumns = `id, created_at, name, email, role, status, qr_code, points_balance, total_earned, total_redeemed`

const createAccount = `-- name: CreateAccount
INSERT INTO accounts (id, created_at, name, email, role, status, qr_code)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + accountColumns

func (r *AccountRepo) CreateAccount(ctx context.Context, a models.Account) (models.Account, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if a.Role == "" {
		a.Role = models.RoleCustomer
	}
	if a.Status == "" {
		a.Status = models.AccountStatusActive
	}

	rows, _ := r.DB.Query(ctx, createAccount, a.ID, a.CreatedAt, a.Name, a.Email, a.Role, a.Status, a.QRCode)
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case err == nil:
		return account, nil
	case isUniqueViolation(err):
		return account, apperrors.ErrAccountAlreadyExists
	default:
		return account, fmt.Errorf("db error: %w", err)
	}
}

const getAccount = `-- name: GetAccount
SELECT ` + accountColumns + ` FROM accounts
WHERE id = $1
`

func (r *AccountRepo) GetAccount(ctx context.Context, accountID uuid.UUID) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, getAccount, accountID)
	return collectAccount(rows)
}

const getAccountByQRCode = `-- name: GetAccountByQRCode
SELECT ` + accountColumns + ` FROM accounts
WHERE qr_code = $1
`

func (r *AccountRepo) GetAccountByQRCode(ctx context.Context, code string) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, getAccountByQRCode, code)
	return collectAccount(rows)
}

const listAccounts = `-- name: ListAccounts
SELECT ` + accountColumns + ` FROM accounts
WHERE ($1 = '' OR role = $1)
  AND ($2 OR status = 'active')
ORDER BY created_at DESC, id
`

func (r *AccountRepo) ListAccounts(ctx context.Context, opts repository.ListAccountsOpts) ([]models.Account, error) {
	rows, _ := r.DB.Query(ctx, listAccounts, opts.Role, opts.IncludeInactive)
	accounts, err := pgx.CollectRows(rows, rowToAccount)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return accounts, nil
}

const setAccountStatus = `-- name: SetAccountStatus
UPDATE accounts SET status = $2
WHERE id = $1
RETURNING ` + accountColumns

func (r *AccountRepo) SetAccountStatus(ctx context.Context, accountID uuid.UUID, status string) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, setAccountStatus, accountID, status)
	return collectAccount(rows)
}

const updateAccount = `-- name: UpdateAccount
UPDATE accounts
SET name = COALESCE(NULLIF($2, ''), name),
    email = COALESCE(NULLIF($3, ''), email)
WHERE id = $1
RETURNING ` + accountColumns

func (r *AccountRepo) UpdateAccount(ctx context.Context, accountID uuid.UUID, name string, email string) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, updateAccount, accountID, name, email)
	account, err := collectAccount(rows)

	switch {
	case err == nil:
		return account, nil
	case isUniqueViolation(err):
		return account, apperrors.ErrAccountAlreadyExists
	default:
		return account, err
	}
}

const creditAccount = `-- name: CreditAccount
UPDATE accounts
SET points_balance = points_balance + $2,
    total_earned = total_earned + $2
WHERE id = $1
RETURNING ` + accountColumns

func (r *AccountRepo) Credit(ctx context.Context, accountID uuid.UUID, points int64) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, creditAccount, accountID, points)
	return collectAccount(rows)
}

// Check and write in one statement: row is updated only if balance is enough
const debitAccount = `-- name: DebitAccount
UPDATE accounts
SET points_balance = points_balance - $2,
    total_redeemed = total_redeemed + $2
WHERE id = $1 AND points_balance >= $2
RETURNING ` + accountColumns

const accountExists = `-- name: AccountExists
SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)
`

func (r *AccountRepo) Debit(ctx context.Context, accountID uuid.UUID, points int64) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, debitAccount, accountID, points)
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case err == nil:
		return account, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return account, fmt.Errorf("db error: %w", err)
	}

	// Nothing updated: either no such account or not enough points
	rows, _ = r.DB.Query(ctx, accountExists, accountID)
	exists, err := pgx.CollectOneRow(rows, pgx.RowTo[bool])

	switch {
	case err != nil:
		return account, fmt.Errorf("db error: %w", err)
	case exists:
		return account, apperrors.ErrBalanceInsufficient
	default:
		return account, apperrors.ErrAccountNotFound
	}
}

func collectAccount(rows pgx.Rows) (models.Account, error) {
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case err == nil:
		return account, nil
	case errors.Is(err, pgx.ErrNoRows):
		return account, apperrors.ErrAccountNotFound
	default:
		return account, fmt.Errorf("db error: %w", err)
	}
}

func rowToAccount(row pgx.CollectableRow) (models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.ID, &a.CreatedAt, &a.Name, &a.Email, &a.Role, &a.Status, &a.QRCode,
		&a.PointsBalance, &a.TotalEarned, &a.TotalRedeemed,
	)
	return a, err
}
