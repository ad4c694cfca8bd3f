package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/mimiplus/internal/handlers/middleware"
	"github.com/nkiryanov/mimiplus/internal/logger"
	"github.com/nkiryanov/mimiplus/internal/models"
	"github.com/nkiryanov/mimiplus/internal/service/account"
	"github.com/nkiryanov/mimiplus/internal/service/batch"
	"github.com/nkiryanov/mimiplus/internal/service/catalog"
	"github.com/nkiryanov/mimiplus/internal/service/ledger"
	"github.com/nkiryanov/mimiplus/internal/service/purchase"
	"github.com/nkiryanov/mimiplus/internal/service/redemption"
)

// Everything the HTTP layer calls
type Services struct {
	Tokens      tokenParser
	Accounts    accountService
	Ledger      ledgerService
	Catalog     catalogService
	Redemptions redemptionService
	Purchases   purchaseService
	Batch       batchService
	Dashboard   dashboardService
}

type RouterConfig struct {
	// Currency units per one point for staff purchases
	PointsPerUnit decimal.Decimal

	// Origins allowed by CORS. Empty means any
	AllowedOrigins []string
}

func NewRouter(s Services, cfg RouterConfig, logger logger.Logger) http.Handler {
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(
		chimiddleware.RequestID,
		middleware.LoggerMiddleware(logger),
		chimiddleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         300,
		}),
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(s.Tokens))

		// Any authenticated caller, scoped to own account
		r.Method(http.MethodGet, "/account", handleOwnAccount(s.Accounts, logger))
		r.Method(http.MethodPatch, "/account/name", handleRenameOwnAccount(s.Accounts, logger))
		r.Method(http.MethodGet, "/account/transactions", handleOwnTransactions(s.Ledger, logger))
		r.Method(http.MethodGet, "/account/redemptions", handleOwnRedemptions(s.Redemptions, logger))
		r.Method(http.MethodGet, "/rewards", handleListActiveRewards(s.Catalog, logger))

		r.With(middleware.RequireRole(models.RoleCustomer)).
			Method(http.MethodPost, "/redemptions", handleRequestRedemption(s.Redemptions, logger))

		r.Route("/staff", func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleStaff, models.RoleAdmin))

			r.Method(http.MethodGet, "/accounts", handleListCustomers(s.Accounts, logger))
			r.Method(http.MethodGet, "/accounts/qr/*", handleAccountByQRCode(s.Accounts, logger))
			r.Method(http.MethodGet, "/accounts/{id}", handleGetAccount(s.Accounts, logger))
			r.Method(http.MethodGet, "/accounts/{id}/transactions", handleAccountTransactions(s.Ledger, logger))
			r.Method(http.MethodPost, "/purchases", handleProcessPurchase(s.Purchases, cfg.PointsPerUnit, logger))
			r.Method(http.MethodGet, "/redemptions/pending", handlePendingRedemptions(s.Redemptions, logger))
			r.Method(http.MethodPost, "/redemptions/process", handleProcessBatch(s.Batch, logger))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Method(http.MethodGet, "/dashboard", handleDashboardSummary(s.Dashboard, logger))
			r.Method(http.MethodGet, "/top-accounts", handleTopAccounts(s.Dashboard, logger))
			r.Method(http.MethodGet, "/activity", handleRecentActivity(s.Dashboard, logger))

			r.Method(http.MethodGet, "/accounts", handleListAccounts(s.Accounts, logger))
			r.Method(http.MethodPost, "/accounts", handleCreateAccount(s.Accounts, logger))
			r.Method(http.MethodPatch, "/accounts/{id}", handleUpdateAccount(s.Accounts, logger))
			r.Method(http.MethodDelete, "/accounts/{id}", handleDeactivateAccount(s.Accounts, logger))
			r.Method(http.MethodPost, "/accounts/{id}/reactivate", handleReactivateAccount(s.Accounts, logger))

			r.Method(http.MethodGet, "/rewards", handleListRewards(s.Catalog, logger))
			r.Method(http.MethodPost, "/rewards", handleCreateReward(s.Catalog, logger))
			r.Method(http.MethodDelete, "/rewards/{id}", handleDeactivateReward(s.Catalog, logger))
			r.Method(http.MethodPost, "/rewards/{id}/reactivate", handleReactivateReward(s.Catalog, logger))
		})
	})

	return r
}

type tokenParser interface {
	// Has to return apperrors.ErrUnauthorized for any invalid token
	Parse(ctx context.Context, token string) (models.Identity, error)
}

type accountService interface {
	// Has to return apperrors.ErrAccountAlreadyExists if email is taken
	Create(ctx context.Context, params account.CreateParams) (models.Account, error)
	Get(ctx context.Context, accountID uuid.UUID) (models.Account, error)
	GetByQRCode(ctx context.Context, code string) (models.Account, error)
	List(ctx context.Context, opts account.ListOpts) ([]models.Account, error)
	// Has to return apperrors.ErrAccountAlreadyExists if new email is taken
	Update(ctx context.Context, accountID uuid.UUID, params account.UpdateParams) (models.Account, error)
	Rename(ctx context.Context, accountID uuid.UUID, name string) (models.Account, error)
	Deactivate(ctx context.Context, accountID uuid.UUID) (models.Account, error)
	Reactivate(ctx context.Context, accountID uuid.UUID) (models.Account, error)
}

type ledgerService interface {
	GetBalance(ctx context.Context, accountID uuid.UUID) (models.Balance, error)
	History(ctx context.Context, accountID uuid.UUID, opts ledger.HistoryOpts) ([]models.Transaction, error)
}

type catalogService interface {
	Create(ctx context.Context, params catalog.CreateRewardParams) (models.Reward, error)
	List(ctx context.Context, opts catalog.ListOpts) ([]models.Reward, error)
	Deactivate(ctx context.Context, rewardID uuid.UUID) (models.Reward, error)
	Reactivate(ctx context.Context, rewardID uuid.UUID) (models.Reward, error)
}

type redemptionService interface {
	// Has to return apperrors.ErrRewardNotFound for absent or inactive reward
	Request(ctx context.Context, accountID uuid.UUID, rewardID uuid.UUID) (models.Redemption, error)
	List(ctx context.Context, opts redemption.ListOpts) ([]models.RedemptionDetails, error)
}

type purchaseService interface {
	// Has to return apperrors.ErrInvalidAmount for non positive amount
	Process(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, pointsPerUnit decimal.Decimal) (purchase.Result, error)
}

type batchService interface {
	// Has to return apperrors.ErrInvalidBatchAction for unknown action
	Process(ctx context.Context, action string, ids []uuid.UUID) (batch.Summary, error)
}

type dashboardService interface {
	Summary(ctx context.Context, now time.Time) (models.DashboardSummary, error)
	TopAccounts(ctx context.Context, limit int) ([]models.TopAccount, error)
	RecentActivity(ctx context.Context, limit int) ([]models.Transaction, error)
}
