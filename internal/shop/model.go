package shop

import (
	"time"

	"github.com/google/uuid"
)

// Shop is a pharmacy allowed to view and fulfil the orders addressed to it.
type Shop struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Shop      *Shop
}
