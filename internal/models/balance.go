package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionKindPurchase   = "purchase"
	TransactionKindRedemption = "redemption"
)

type Balance struct {
	AccountID     uuid.UUID
	Current       int64
	TotalEarned   int64
	TotalRedeemed int64
}

// Ledger entry. Never updated or deleted once stored
type Transaction struct {
	ID          uuid.UUID
	ProcessedAt time.Time
	AccountID   uuid.UUID
	Kind        string
	Amount      decimal.Decimal // purchase amount, zero for redemptions
	PointsDelta int64
	Description string
}
