package models

import (
	"github.com/google/uuid"
)

type DashboardSummary struct {
	TotalCustomers    int64
	ActiveMembers     int64
	PointsRedeemed    int64
	TotalPending      int64
	ThisMonthActive   int64
	ThisMonthRedeemed int64
	ThisMonthPending  int64
	TotalPointsEarned int64
	EngagementRate    int64 // percent of earned points that were redeemed
}

type TopAccount struct {
	AccountID uuid.UUID
	Name      string
	Points    int64
	Purchases int64
}
