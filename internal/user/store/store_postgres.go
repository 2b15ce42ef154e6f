package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"smartbin/internal/domain"
	"smartbin/pkg/platform/sentinel"
)

// PostgresStore persists users. The credit path is a single UPDATE so the
// read-modify-write happens inside the database, not in Go.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, role, points, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Name, user.Email, user.Role, user.Points, user.PasswordHash,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.get(ctx, `SELECT id, name, email, role, points, password_hash FROM users WHERE id = $1`, id)
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.get(ctx, `SELECT id, name, email, role, points, password_hash FROM users WHERE email = $1`, email)
}

func (s *PostgresStore) get(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.Role, &u.Points, &u.PasswordHash,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) CreditPoints(ctx context.Context, id string, delta int) (int, error) {
	var balance int
	err := s.db.QueryRowContext(ctx, `
		UPDATE users SET points = points + $1 WHERE id = $2 RETURNING points`,
		delta, id,
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, sentinel.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("credit points: %w", err)
	}
	return balance, nil
}
