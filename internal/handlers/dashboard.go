package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/mimiplus/internal/handlers/render"
	"github.com/nkiryanov/mimiplus/internal/logger"
)

func handleDashboardSummary(dashboardService dashboardService, l logger.Logger) http.Handler {
	type response struct {
		TotalCustomers    int64 `json:"totalCustomers"`
		ActiveMembers     int64 `json:"activeMembers"`
		PointsRedeemed    int64 `json:"pointsRedeemed"`
		TotalPending      int64 `json:"totalPending"`
		ThisMonthActive   int64 `json:"thisMonthActive"`
		ThisMonthRedeemed int64 `json:"thisMonthRedeemed"`
		ThisMonthPending  int64 `json:"thisMonthPending"`
		TotalPointsEarned int64 `json:"totalPointsEarned"`
		EngagementRate    int64 `json:"engagementRate"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := dashboardService.Summary(r.Context(), time.Now())

		switch err {
		case nil:
			render.JSON(w, response{
				TotalCustomers:    s.TotalCustomers,
				ActiveMembers:     s.ActiveMembers,
				PointsRedeemed:    s.PointsRedeemed,
				TotalPending:      s.TotalPending,
				ThisMonthActive:   s.ThisMonthActive,
				ThisMonthRedeemed: s.ThisMonthRedeemed,
				ThisMonthPending:  s.ThisMonthPending,
				TotalPointsEarned: s.TotalPointsEarned,
				EngagementRate:    s.EngagementRate,
			})
		default:
			renderServiceError(w, l, "Failed to get dashboard summary", err)
		}
	})
}

func handleTopAccounts(dashboardService dashboardService, l logger.Logger) http.Handler {
	type topAccount struct {
		AccountID uuid.UUID `json:"accountId"`
		Name      string    `json:"name"`
		Points    int64     `json:"points"`
		Purchases int64     `json:"purchases"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		top, err := dashboardService.TopAccounts(r.Context(), 0)

		switch err {
		case nil:
			res := make([]topAccount, 0, len(top))
			for _, a := range top {
				res = append(res, topAccount{a.AccountID, a.Name, a.Points, a.Purchases})
			}
			render.JSON(w, res)
		default:
			renderServiceError(w, l, "Failed to get top accounts", err)
		}
	})
}

func handleRecentActivity(dashboardService dashboardService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := newQuery(r)
		limit := q.Int("limit", 0)
		if !q.Valid(w) {
			return
		}

		activity, err := dashboardService.RecentActivity(r.Context(), limit)

		switch err {
		case nil:
			render.JSON(w, newTransactionsResponse(activity))
		default:
			renderServiceError(w, l, "Failed to get recent activity", err)
		}
	})
}
