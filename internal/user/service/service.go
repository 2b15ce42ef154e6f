// Package service owns authentication and the points balance surface.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"smartbin/internal/domain"
	"smartbin/internal/user/store"
	"smartbin/pkg/apperrors"
	"smartbin/pkg/clock"
	"smartbin/pkg/platform/sentinel"
)

const tokenTTL = 12 * time.Hour

type Service struct {
	users      store.Store
	signingKey []byte
	clock      clock.Clock
	logger     *slog.Logger
}

func New(users store.Store, signingKey string, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		users:      users,
		signingKey: []byte(signingKey),
		clock:      clk,
		logger:     logger,
	}
}

// Login checks credentials and issues a signed token carrying id and role.
// Wrong email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", nil, apperrors.New(apperrors.CodeUnauthorized, "invalid credentials")
		}
		return "", nil, apperrors.Wrap(apperrors.CodeDependency, "load user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, apperrors.New(apperrors.CodeUnauthorized, "invalid credentials")
	}

	now := s.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", nil, apperrors.Wrap(apperrors.CodeDependency, "sign token", err)
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID, "role", user.Role)
	return signed, user, nil
}

// Balance returns the caller's current point balance.
func (s *Service) Balance(ctx context.Context, userID string) (int, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return 0, apperrors.Wrap(apperrors.CodeNotFound, "user not found", err)
		}
		return 0, apperrors.Wrap(apperrors.CodeDependency, "load user", err)
	}
	return user.Points, nil
}
