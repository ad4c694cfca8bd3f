package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

const (
	AccountStatusActive   = "active"
	AccountStatusInactive = "inactive"
)

type Account struct {
	ID            uuid.UUID
	CreatedAt     time.Time
	Name          string
	Email         string
	Role          string
	Status        string
	QRCode        string
	PointsBalance int64
	TotalEarned   int64
	TotalRedeemed int64
}

func (a Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

func (a Account) Balance() Balance {
	return Balance{
		AccountID:     a.ID,
		Current:       a.PointsBalance,
		TotalEarned:   a.TotalEarned,
		TotalRedeemed: a.TotalRedeemed,
	}
}
