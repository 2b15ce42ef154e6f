package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"smartbin/internal/domain"
	"smartbin/pkg/platform/sentinel"
)

type UserStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestUserStoreSuite(t *testing.T) {
	suite.Run(t, new(UserStoreSuite))
}

func (s *UserStoreSuite) SetupTest() {
	s.store = NewMemory()
	s.ctx = context.Background()
	s.Require().NoError(s.store.Create(s.ctx, &domain.User{
		ID: "citizen-1", Name: "Jamie Citizen", Email: "jamie@example.com",
		Role: domain.RoleUser, Points: 50,
	}))
}

func (s *UserStoreSuite) TestCreate() {
	s.Run("duplicate id conflicts", func() {
		err := s.store.Create(s.ctx, &domain.User{ID: "citizen-1", Email: "other@example.com"})
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("duplicate email conflicts", func() {
		err := s.store.Create(s.ctx, &domain.User{ID: "citizen-2", Email: "jamie@example.com"})
		s.ErrorIs(err, sentinel.ErrConflict)
	})
}

func (s *UserStoreSuite) TestLookup() {
	s.Run("by id", func() {
		user, err := s.store.GetByID(s.ctx, "citizen-1")
		s.Require().NoError(err)
		s.Equal("jamie@example.com", user.Email)
	})

	s.Run("by email", func() {
		user, err := s.store.GetByEmail(s.ctx, "jamie@example.com")
		s.Require().NoError(err)
		s.Equal("citizen-1", user.ID)
	})

	s.Run("unknown user not found", func() {
		_, err := s.store.GetByID(s.ctx, "ghost")
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.store.GetByEmail(s.ctx, "ghost@example.com")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned user is a copy", func() {
		user, err := s.store.GetByID(s.ctx, "citizen-1")
		s.Require().NoError(err)
		user.Points = 9999

		again, err := s.store.GetByID(s.ctx, "citizen-1")
		s.Require().NoError(err)
		s.Equal(50, again.Points)
	})
}

func (s *UserStoreSuite) TestCreditPoints() {
	s.Run("returns the new balance", func() {
		balance, err := s.store.CreditPoints(s.ctx, "citizen-1", 15)
		s.Require().NoError(err)
		s.Equal(65, balance)
	})

	s.Run("unknown user not found", func() {
		_, err := s.store.CreditPoints(s.ctx, "ghost", 15)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *UserStoreSuite) TestCreditPointsConcurrent() {
	const (
		workers = 20
		awards  = 25
	)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range awards {
				_, err := s.store.CreditPoints(s.ctx, "citizen-1", 1)
				s.NoError(err)
			}
		}()
	}
	wg.Wait()

	user, err := s.store.GetByID(s.ctx, "citizen-1")
	s.Require().NoError(err)
	s.Equal(50+workers*awards, user.Points)
}

func (s *UserStoreSuite) TestSeed() {
	fresh := NewMemory()

	s.Run("creates demo accounts with hashed passwords", func() {
		s.Require().NoError(Seed(s.ctx, fresh, DefaultSeed()))

		admin, err := fresh.GetByEmail(s.ctx, "admin@smartbin.local")
		s.Require().NoError(err)
		s.Equal(domain.RoleAdmin, admin.Role)
		s.NotEmpty(admin.PasswordHash)
		s.NotEqual("admin-dev-password", admin.PasswordHash)
	})

	s.Run("reseeding is a no-op for existing accounts", func() {
		s.Require().NoError(Seed(s.ctx, fresh, DefaultSeed()))

		citizen, err := fresh.GetByEmail(s.ctx, "citizen@smartbin.local")
		s.Require().NoError(err)
		s.Equal("citizen-1", citizen.ID)
	})
}
