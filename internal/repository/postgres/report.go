package postgres

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/mimiplus/internal/models"
)

type ReportRepo struct {
	DB DBTX
}

const dashboardSummary = `-- name: DashboardSummary
SELECT
	(SELECT COUNT(*) FROM accounts WHERE role = 'customer'),
	(SELECT COUNT(*) FROM accounts WHERE role = 'customer' AND points_balance > 0),
	(SELECT COALESCE(SUM(points_used), 0)::bigint FROM redemptions WHERE status = 'completed'),
	(SELECT COUNT(*) FROM redemptions WHERE status = 'pending'),
	(SELECT COUNT(DISTINCT account_id) FROM redemptions WHERE requested_at >= $1),
	(SELECT COALESCE(SUM(points_used), 0)::bigint FROM redemptions WHERE status = 'completed' AND requested_at >= $1),
	(SELECT COUNT(*) FROM redemptions WHERE status = 'pending' AND requested_at >= $1),
	(SELECT COALESCE(SUM(total_earned), 0)::bigint FROM accounts)
`

func (r *ReportRepo) Summary(ctx context.Context, monthStart time.Time) (models.DashboardSummary, error) {
	rows, _ := r.DB.Query(ctx, dashboardSummary, monthStart)
	summary, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.DashboardSummary, error) {
		var s models.DashboardSummary
		err := row.Scan(
			&s.TotalCustomers, &s.ActiveMembers, &s.PointsRedeemed, &s.TotalPending,
			&s.ThisMonthActive, &s.ThisMonthRedeemed, &s.ThisMonthPending, &s.TotalPointsEarned,
		)
		return s, err
	})
	if err != nil {
		return summary, fmt.Errorf("db error: %w", err)
	}

	if summary.TotalPointsEarned > 0 {
		rate := float64(summary.PointsRedeemed) / float64(summary.TotalPointsEarned) * 100
		summary.EngagementRate = int64(math.Round(rate))
	}

	return summary, nil
}

const topAccounts = `-- name: TopAccounts
SELECT a.id, a.name, a.points_balance, COUNT(t.id) FILTER (WHERE t.kind = 'purchase')
FROM accounts a
LEFT JOIN transactions t ON t.account_id = a.id
WHERE a.role = 'customer' AND a.status = 'active'
GROUP BY a.id, a.name, a.points_balance
ORDER BY a.points_balance DESC, a.name
LIMIT $1
`

func (r *ReportRepo) TopAccounts(ctx context.Context, limit int) ([]models.TopAccount, error) {
	rows, _ := r.DB.Query(ctx, topAccounts, limit)
	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.TopAccount, error) {
		var a models.TopAccount
		err := row.Scan(&a.AccountID, &a.Name, &a.Points, &a.Purchases)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return accounts, nil
}
