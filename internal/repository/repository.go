package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/mimiplus/internal/models"
)

// Storage gives access to all repositories sharing the same connection (or transaction)
type Storage interface {
	Account() AccountRepo
	Reward() RewardRepo
	Redemption() RedemptionRepo
	Ledger() LedgerRepo
	Report() ReportRepo

	// Run fn in transaction. Storage passed to fn is bound to the transaction
	// Nested calls create savepoints
	InTx(ctx context.Context, fn func(Storage) error) error
}

type ListAccountsOpts struct {
	Role            string // empty means any role
	IncludeInactive bool
}

type AccountRepo interface {
	// Create account with zero balance
	// If account with the email exists has to return apperrors.ErrAccountAlreadyExists
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)

	// If account not found must return apperrors.ErrAccountNotFound
	GetAccount(ctx context.Context, accountID uuid.UUID) (models.Account, error)
	GetAccountByQRCode(ctx context.Context, code string) (models.Account, error)

	ListAccounts(ctx context.Context, opts ListAccountsOpts) ([]models.Account, error)

	// Replace name and email, empty value keeps the current one
	// Must return apperrors.ErrAccountAlreadyExists if the email belongs to another account
	UpdateAccount(ctx context.Context, accountID uuid.UUID, name string, email string) (models.Account, error)

	// Soft delete or restore account
	SetAccountStatus(ctx context.Context, accountID uuid.UUID, status string) (models.Account, error)

	// Increase balance and lifetime earned by points
	Credit(ctx context.Context, accountID uuid.UUID, points int64) (models.Account, error)

	// Decrease balance and increase lifetime redeemed by points in one conditional update
	// Must return apperrors.ErrBalanceInsufficient if balance is lower than points
	Debit(ctx context.Context, accountID uuid.UUID, points int64) (models.Account, error)
}

type ListRewardsOpts struct {
	Category        string // empty means any category
	IncludeInactive bool
}

type RewardRepo interface {
	CreateReward(ctx context.Context, reward models.Reward) (models.Reward, error)

	// Return reward even it inactive
	// If reward not found must return apperrors.ErrRewardNotFound
	GetReward(ctx context.Context, rewardID uuid.UUID) (models.Reward, error)

	ListRewards(ctx context.Context, opts ListRewardsOpts) ([]models.Reward, error)
	SetRewardActive(ctx context.Context, rewardID uuid.UUID, active bool) (models.Reward, error)
}

type ListRedemptionsOpts struct {
	AccountID *uuid.UUID  // nil means any account
	IDs       []uuid.UUID // empty means any redemption
	Statuses  []string    // empty means any status
}

type RedemptionRepo interface {
	CreateRedemption(ctx context.Context, redemption models.Redemption) (models.Redemption, error)

	// Get redemption and lock it until transaction end
	// If redemption not found must return apperrors.ErrRedemptionNotFound
	GetRedemptionForUpdate(ctx context.Context, redemptionID uuid.UUID) (models.Redemption, error)

	// Move pending redemption to the new status
	// Must return apperrors.ErrInvalidStateTransition if it is not pending anymore
	Resolve(ctx context.Context, redemptionID uuid.UUID, status string, resolvedAt time.Time) (models.Redemption, error)

	// Newest first
	ListRedemptions(ctx context.Context, opts ListRedemptionsOpts) ([]models.RedemptionDetails, error)
}

type ListTransactionsOpts struct {
	Kinds  []string // empty means any kind
	Limit  int      // zero means no limit
	Offset int
}

type LedgerRepo interface {
	// Append transaction to the ledger
	// If account not exists must return apperrors.ErrAccountNotFound
	CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error)

	// Newest first
	ListTransactions(ctx context.Context, accountID uuid.UUID, opts ListTransactionsOpts) ([]models.Transaction, error)

	// Latest transactions of all accounts, newest first
	ListRecentTransactions(ctx context.Context, limit int) ([]models.Transaction, error)
}

type ReportRepo interface {
	// Programme totals, month metrics counted from monthStart
	Summary(ctx context.Context, monthStart time.Time) (models.DashboardSummary, error)

	// Customers with the highest balance
	TopAccounts(ctx context.Context, limit int) ([]models.TopAccount, error)
}
