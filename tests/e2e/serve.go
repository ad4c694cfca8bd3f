package e2e

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/mimiplus/internal/handlers"
	"github.com/nkiryanov/mimiplus/internal/logger"
	"github.com/nkiryanov/mimiplus/internal/models"
	"github.com/nkiryanov/mimiplus/internal/repository"
	"github.com/nkiryanov/mimiplus/internal/repository/postgres"
	"github.com/nkiryanov/mimiplus/internal/service/account"
	"github.com/nkiryanov/mimiplus/internal/service/batch"
	"github.com/nkiryanov/mimiplus/internal/service/catalog"
	"github.com/nkiryanov/mimiplus/internal/service/dashboard"
	"github.com/nkiryanov/mimiplus/internal/service/identity"
	"github.com/nkiryanov/mimiplus/internal/service/ledger"
	"github.com/nkiryanov/mimiplus/internal/service/purchase"
	"github.com/nkiryanov/mimiplus/internal/service/redemption"
	"github.com/nkiryanov/mimiplus/internal/testutil"
)

type Services struct {
	Storage  repository.Storage
	Tokens   *identity.TokenManager
	Accounts *account.AccountService
	Catalog  *catalog.CatalogService
	Ledger   *ledger.LedgerService
}

// Sign token for account and set it to request
func (s Services) Authorize(t *testing.T, req *http.Request, a models.Account) {
	t.Helper()

	issued, err := s.Tokens.Issue(models.Identity{AccountID: a.ID, Role: a.Role})
	require.NoError(t, err, "failed to issue token")
	req.Header.Set("Authorization", "Bearer "+issued.Value)
}

// Create db transaction and run server in with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.InTx with it
func ServeInTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.InTx(dbpool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)

		tokens, err := identity.New(identity.Config{SecretKey: "test-secret"})
		require.NoError(t, err, "token manager should be created without errors")

		ledgerService := ledger.NewService(storage)
		redemptionService := redemption.NewService(storage, ledgerService, nil)
		accountService := account.NewService(storage.Account(), account.BcryptCode)
		catalogService := catalog.NewService(storage.Reward())

		router := handlers.NewRouter(
			handlers.Services{
				Tokens:      tokens,
				Accounts:    accountService,
				Ledger:      ledgerService,
				Catalog:     catalogService,
				Redemptions: redemptionService,
				Purchases:   purchase.NewService(ledgerService),
				Batch:       batch.NewService(redemptionService, nil),
				Dashboard:   dashboard.NewService(storage.Report(), storage.Ledger()),
			},
			handlers.RouterConfig{PointsPerUnit: purchase.DefaultPointsPerUnit},
			logger.NewNoOpLogger(),
		)

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			Storage:  storage,
			Tokens:   tokens,
			Accounts: accountService,
			Catalog:  catalogService,
			Ledger:   ledgerService,
		})
	})
}
