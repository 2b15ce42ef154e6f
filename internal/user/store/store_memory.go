package store

import (
	"context"
	"sync"

	"smartbin/internal/domain"
	"smartbin/pkg/platform/sentinel"
)

// InMemoryStore keeps users in a map guarded by a mutex. CreditPoints does
// its read-modify-write under the lock, so concurrent awards to the same
// user never race.
type InMemoryStore struct {
	mu      sync.RWMutex
	users   map[string]*domain.User
	byEmail map[string]string
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (s *InMemoryStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.byEmail[user.Email]; exists {
		return sentinel.ErrConflict
	}
	cp := *user
	s.users[user.ID] = &cp
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *InMemoryStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *InMemoryStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	id, exists := s.byEmail[email]
	s.mu.RUnlock()
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

func (s *InMemoryStore) CreditPoints(_ context.Context, id string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[id]
	if !exists {
		return 0, sentinel.ErrNotFound
	}
	user.Points += delta
	return user.Points, nil
}
