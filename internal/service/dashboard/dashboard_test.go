package dashboard

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/mimiplus/internal/models"
	"github.com/nkiryanov/mimiplus/internal/repository/postgres"
	"github.com/nkiryanov/mimiplus/internal/service/ledger"
	"github.com/nkiryanov/mimiplus/internal/testutil"
)

func TestMonthStart(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)

	tests := []struct {
		name     string
		now      time.Time
		expected time.Time
	}{
		{"middle of month", time.Date(2025, 5, 17, 13, 45, 0, 0, time.UTC), time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"first second", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"keeps location", time.Date(2025, 3, 31, 23, 0, 0, 0, moscow), time.Date(2025, 3, 1, 0, 0, 0, 0, moscow)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, MonthStart(tt.now))
		})
	}
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)
		s := NewService(storage.Report(), storage.Ledger())
		l := ledger.NewService(storage)

		var accounts []models.Account
		for i, name := range []string{"ann", "bob", "carl", "dora", "eve", "frank"} {
			account, err := storage.Account().CreateAccount(t.Context(), models.Account{
				Name:   name,
				Email:  name + "@example.com",
				QRCode: "qr-" + name,
			})
			require.NoError(t, err)
			_, _, err = l.Credit(t.Context(), account.ID, int64(10*(i+1)), ledger.Entry{})
			require.NoError(t, err)
			accounts = append(accounts, account)
		}

		t.Run("summary", func(t *testing.T) {
			summary, err := s.Summary(t.Context(), time.Now())

			require.NoError(t, err)
			require.EqualValues(t, 6, summary.TotalCustomers)
			require.EqualValues(t, 6, summary.ActiveMembers)
			require.EqualValues(t, 210, summary.TotalPointsEarned)
			require.Zero(t, summary.EngagementRate, "nothing redeemed yet")
		})

		t.Run("top five by default", func(t *testing.T) {
			top, err := s.TopAccounts(t.Context(), 0)

			require.NoError(t, err)
			require.Len(t, top, 5)
			require.Equal(t, accounts[5].ID, top[0].AccountID, "highest balance first")
			require.EqualValues(t, 60, top[0].Points)
			require.EqualValues(t, 1, top[0].Purchases)
		})

		t.Run("recent activity", func(t *testing.T) {
			recent, err := s.RecentActivity(t.Context(), 3)

			require.NoError(t, err)
			require.Len(t, recent, 3)
		})
	})
}
