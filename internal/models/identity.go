package models

import (
	"time"

	"github.com/google/uuid"
)

// Authenticated caller as supplied by the identity provider
type Identity struct {
	AccountID uuid.UUID
	Role      string
}

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}
