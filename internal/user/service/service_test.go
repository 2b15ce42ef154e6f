package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"smartbin/internal/domain"
	"smartbin/internal/user/store"
	"smartbin/pkg/apperrors"
	"smartbin/pkg/clock"
)

const signingKey = "test-signing-key"

type UserServiceSuite struct {
	suite.Suite
	users *store.InMemoryStore
	clk   *clock.Fake
	svc   *Service
	ctx   context.Context
	now   time.Time
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceSuite))
}

func (s *UserServiceSuite) SetupTest() {
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.users = store.NewMemory()
	s.clk = clock.NewFake(s.now)
	s.svc = New(s.users, signingKey, s.clk, slog.New(slog.DiscardHandler))
	s.ctx = context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	s.Require().NoError(err)
	s.Require().NoError(s.users.Create(s.ctx, &domain.User{
		ID: "citizen-1", Name: "Jamie Citizen", Email: "jamie@example.com",
		Role: domain.RoleUser, Points: 40, PasswordHash: string(hash),
	}))
}

func (s *UserServiceSuite) TestLogin() {
	s.Run("issues a token carrying id and role", func() {
		token, user, err := s.svc.Login(s.ctx, "jamie@example.com", "correct-horse")
		s.Require().NoError(err)
		s.Equal("citizen-1", user.ID)

		claims := jwt.MapClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
			return []byte(signingKey), nil
		}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(s.clk.Now))
		s.Require().NoError(err)
		s.True(parsed.Valid)
		s.Equal("citizen-1", claims["sub"])
		s.Equal("user", claims["role"])
		s.InDelta(float64(s.now.Add(12*time.Hour).Unix()), claims["exp"], 0.5)
	})

	s.Run("wrong password is unauthorized", func() {
		_, _, err := s.svc.Login(s.ctx, "jamie@example.com", "wrong")
		s.Equal(apperrors.CodeUnauthorized, apperrors.CodeOf(err))
	})

	s.Run("unknown email is indistinguishable from wrong password", func() {
		_, _, badEmail := s.svc.Login(s.ctx, "ghost@example.com", "correct-horse")
		_, _, badPassword := s.svc.Login(s.ctx, "jamie@example.com", "wrong")
		s.Equal(apperrors.CodeOf(badPassword), apperrors.CodeOf(badEmail))
		s.Equal(badPassword.Error(), badEmail.Error())
	})
}

func (s *UserServiceSuite) TestBalance() {
	s.Run("returns the current balance", func() {
		balance, err := s.svc.Balance(s.ctx, "citizen-1")
		s.Require().NoError(err)
		s.Equal(40, balance)
	})

	s.Run("unknown user not found", func() {
		_, err := s.svc.Balance(s.ctx, "ghost")
		s.Equal(apperrors.CodeNotFound, apperrors.CodeOf(err))
	})
}
