package store

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"smartbin/internal/domain"
	"smartbin/pkg/platform/sentinel"
)

// SeedUser describes one bootstrap account.
type SeedUser struct {
	ID       string
	Name     string
	Email    string
	Role     domain.Role
	Password string
}

// DefaultSeed are the demo accounts used when running without a database.
func DefaultSeed() []SeedUser {
	return []SeedUser{
		{ID: "admin-1", Name: "Municipal Admin", Email: "admin@smartbin.local", Role: domain.RoleAdmin, Password: "admin-dev-password"},
		{ID: "citizen-1", Name: "Demo Citizen", Email: "citizen@smartbin.local", Role: domain.RoleUser, Password: "citizen-dev-password"},
	}
}

// Seed creates the given accounts, hashing passwords. Existing accounts are
// left alone.
func Seed(ctx context.Context, s Store, users []SeedUser) error {
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		err = s.Create(ctx, &domain.User{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			Role:         u.Role,
			PasswordHash: string(hash),
		})
		if err != nil && !errors.Is(err, sentinel.ErrConflict) {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}
	return nil
}
