package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RedemptionStatusPending   = "pending"
	RedemptionStatusCompleted = "completed"
	RedemptionStatusDenied    = "denied"
)

type Redemption struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	RewardID    uuid.UUID
	PointsUsed  int64 // reward price at request time
	Status      string
	RequestedAt time.Time
	ResolvedAt  *time.Time // nil while pending
}

func (r Redemption) IsPending() bool {
	return r.Status == RedemptionStatusPending
}

// Redemption joined with account and reward for display
type RedemptionDetails struct {
	Redemption
	AccountName string
	RewardName  string
	RewardBrand string
}
