package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/mimiplus/internal/apperrors"
	"github.com/nkiryanov/mimiplus/internal/models"
	"github.com/nkiryanov/mimiplus/internal/repository"
)

type LedgerRepo struct {
	DB DBTX
}

const transactionColumns = `id, processed_at, account_id, kind, amount, points_delta, description`

const createTransaction = `-- name: CreateTransaction
INSERT INTO transactions (id, processed_at, account_id, kind, amount, points_delta, description)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + transactionColumns

func (r *LedgerRepo) CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.ProcessedAt.IsZero() {
		t.ProcessedAt = time.Now()
	}

	rows, _ := r.DB.Query(ctx, createTransaction, t.ID, t.ProcessedAt, t.AccountID, t.Kind, t.Amount, t.PointsDelta, t.Description)
	transaction, err := pgx.CollectOneRow(rows, rowToTransaction)

	if _, ok := foreignKeyViolation(err); ok {
		return transaction, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return transaction, fmt.Errorf("db error: %w", err)
	}

	return transaction, nil
}

const listTransactions = `-- name: ListTransactions
SELECT ` + transactionColumns + ` FROM transactions
WHERE account_id = $1
  AND ($2::text[] IS NULL OR kind = ANY($2))
ORDER BY processed_at DESC, id
LIMIT $3 OFFSET $4
`

func (r *LedgerRepo) ListTransactions(ctx context.Context, accountID uuid.UUID, opts repository.ListTransactionsOpts) ([]models.Transaction, error) {
	var kinds []string
	if len(opts.Kinds) > 0 {
		kinds = opts.Kinds
	}

	// LIMIT NULL means no limit
	var limit *int
	if opts.Limit > 0 {
		limit = &opts.Limit
	}

	rows, _ := r.DB.Query(ctx, listTransactions, accountID, kinds, limit, opts.Offset)
	transactions, err := pgx.CollectRows(rows, rowToTransaction)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return transactions, nil
}

const listRecentTransactions = `-- name: ListRecentTransactions
SELECT ` + transactionColumns + ` FROM transactions
ORDER BY processed_at DESC, id
LIMIT $1
`

func (r *LedgerRepo) ListRecentTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, listRecentTransactions, limit)
	transactions, err := pgx.CollectRows(rows, rowToTransaction)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return transactions, nil
}

func rowToTransaction(row pgx.CollectableRow) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.ProcessedAt, &t.AccountID, &t.Kind, &t.Amount, &t.PointsDelta, &t.Description)
	return t, err
}
