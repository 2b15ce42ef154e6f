// Package store persists users and owns the reward point balance.
package store

import (
	"context"

	"smartbin/internal/domain"
)

// Store is the user collection. CreditPoints is the only way a balance moves
// upward; it must be atomic relative to concurrent credits for the same user.
type Store interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// CreditPoints adds delta (>= 0) to the user's balance and returns the
	// new balance. Fails with sentinel.ErrNotFound for unknown users.
	CreditPoints(ctx context.Context, id string, delta int) (int, error)
}
