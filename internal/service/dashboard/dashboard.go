package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/nkiryanov/mimiplus/internal/models"
	"github.com/nkiryanov/mimiplus/internal/repository"
)

const (
	DefaultTopAccounts    = 5
	DefaultRecentActivity = 20
)

type DashboardService struct {
	reportRepo repository.ReportRepo
	ledgerRepo repository.LedgerRepo
}

func NewService(reportRepo repository.ReportRepo, ledgerRepo repository.LedgerRepo) *DashboardService {
	return &DashboardService{
		reportRepo: reportRepo,
		ledgerRepo: ledgerRepo,
	}
}

// Month metrics are counted from the first day of now's month
func (s *DashboardService) Summary(ctx context.Context, now time.Time) (models.DashboardSummary, error) {
	summary, err := s.reportRepo.Summary(ctx, MonthStart(now))
	if err != nil {
		return summary, fmt.Errorf("can't build dashboard summary. Err: %w", err)
	}
	return summary, nil
}

func (s *DashboardService) TopAccounts(ctx context.Context, limit int) ([]models.TopAccount, error) {
	if limit <= 0 {
		limit = DefaultTopAccounts
	}
	return s.reportRepo.TopAccounts(ctx, limit)
}

func (s *DashboardService) RecentActivity(ctx context.Context, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = DefaultRecentActivity
	}
	return s.ledgerRepo.ListRecentTransactions(ctx, limit)
}

// 00:00 of the first day of the month in now's location
func MonthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
