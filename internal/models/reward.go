package models

import (
	"time"

	"github.com/google/uuid"
)

type Reward struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	Name           string
	Brand          string
	Category       string
	Description    string
	PointsRequired int64
	Active         bool
}

// Title used in ledger descriptions: "name - brand" or just name
func (r Reward) Title() string {
	if r.Brand == "" {
		return r.Name
	}
	return r.Name + " - " + r.Brand
}
