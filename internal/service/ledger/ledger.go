package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/mimiplus/internal/apperrors"
	"github.com/nkiryanov/mimiplus/internal/models"
	"github.com/nkiryanov/mimiplus/internal/repository"
)

// Audit record written together with a balance change
type Entry struct {
	Kind        string
	Amount      decimal.Decimal
	Description string
}

type HistoryOpts struct {
	Kinds  []string
	Limit  int
	Offset int
}

// Account ledger: the only place where points balance is changed
type LedgerService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *LedgerService {
	return &LedgerService{storage: storage}
}

// Ledger bound to another storage, usually an open transaction
func (s *LedgerService) WithStorage(storage repository.Storage) *LedgerService {
	return &LedgerService{storage: storage}
}

// Add points and append the audit record
func (s *LedgerService) Credit(ctx context.Context, accountID uuid.UUID, points int64, entry Entry) (models.Account, models.Transaction, error) {
	var account models.Account
	var transaction models.Transaction

	if points <= 0 {
		return account, transaction, fmt.Errorf("credit %d points: %w", points, apperrors.ErrInvalidAmount)
	}
	if entry.Kind == "" {
		entry.Kind = models.TransactionKindPurchase
	}

	err := s.storage.InTx(ctx, func(storage repository.Storage) error {
		var err error

		account, err = storage.Account().Credit(ctx, accountID, points)
		if err != nil {
			return err
		}

		transaction, err = storage.Ledger().CreateTransaction(ctx, models.Transaction{
			AccountID:   accountID,
			Kind:        entry.Kind,
			Amount:      entry.Amount,
			PointsDelta: points,
			Description: entry.Description,
		})
		return err
	})
	if err != nil {
		return account, transaction, fmt.Errorf("can't credit account. Err: %w", err)
	}

	return account, transaction, nil
}

// Subtract points if balance allows and append the audit record
// Balance never goes below zero, apperrors.ErrBalanceInsufficient is returned instead
func (s *LedgerService) Debit(ctx context.Context, accountID uuid.UUID, points int64, entry Entry) (models.Account, models.Transaction, error) {
	var account models.Account
	var transaction models.Transaction

	if points <= 0 {
		return account, transaction, fmt.Errorf("debit %d points: %w", points, apperrors.ErrInvalidAmount)
	}
	if entry.Kind == "" {
		entry.Kind = models.TransactionKindRedemption
	}

	err := s.storage.InTx(ctx, func(storage repository.Storage) error {
		var err error

		account, err = storage.Account().Debit(ctx, accountID, points)
		if err != nil {
			return err
		}

		transaction, err = storage.Ledger().CreateTransaction(ctx, models.Transaction{
			AccountID:   accountID,
			Kind:        entry.Kind,
			Amount:      entry.Amount,
			PointsDelta: -points,
			Description: entry.Description,
		})
		return err
	})
	if err != nil {
		return account, transaction, fmt.Errorf("can't debit account. Err: %w", err)
	}

	return account, transaction, nil
}

func (s *LedgerService) GetBalance(ctx context.Context, accountID uuid.UUID) (models.Balance, error) {
	account, err := s.storage.Account().GetAccount(ctx, accountID)
	if err != nil {
		return models.Balance{}, err
	}

	return account.Balance(), nil
}

// Account transactions, newest first
func (s *LedgerService) History(ctx context.Context, accountID uuid.UUID, opts HistoryOpts) ([]models.Transaction, error) {
	if _, err := s.storage.Account().GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	return s.storage.Ledger().ListTransactions(ctx, accountID, repository.ListTransactionsOpts{
		Kinds:  opts.Kinds,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
}

// Latest transactions across all accounts
func (s *LedgerService) Recent(ctx context.Context, limit int) ([]models.Transaction, error) {
	return s.storage.Ledger().ListRecentTransactions(ctx, limit)
}
