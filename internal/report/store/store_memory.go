package store

import (
	"context"
	"sort"
	"sync"

	"smartbin/internal/domain"
	"smartbin/pkg/platform/sentinel"
)

// InMemoryStore keeps reports in a map guarded by a RWMutex. It backs demo
// mode, tests, and the fallback tier of the two-tier store.
type InMemoryStore struct {
	mu      sync.RWMutex
	reports map[string]*domain.Report
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{reports: make(map[string]*domain.Report)}
}

func (s *InMemoryStore) Create(_ context.Context, report *domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reports[report.ID]; exists {
		return sentinel.ErrConflict
	}
	s.reports[report.ID] = report.Clone()
	return nil
}

func (s *InMemoryStore) GetByID(_ context.Context, id string) (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, exists := s.reports[id]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return report.Clone(), nil
}

func (s *InMemoryStore) List(_ context.Context, filter Filter) ([]*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Report, 0, len(s.reports))
	for _, report := range s.reports {
		if filter.Matches(report) {
			out = append(out, report.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (s *InMemoryStore) UpdateStatus(_ context.Context, id string, from, to domain.ReportStatus) (*domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, exists := s.reports[id]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	if report.Status != from {
		return nil, sentinel.ErrInvalidState
	}
	report.Status = to
	return report.Clone(), nil
}

func (s *InMemoryStore) Resolve(_ context.Context, id string, res domain.Resolution) (*domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, exists := s.reports[id]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	if report.Status == domain.StatusResolved {
		return nil, sentinel.ErrInvalidState
	}
	report.Status = domain.StatusResolved
	at := res.ResolvedAt
	report.ResolvedAt = &at
	report.ResolvedBy = res.ResolvedBy
	report.ResolutionNotes = res.Notes
	report.ResolutionType = res.Type
	report.PointsAwarded = res.PointsAwarded
	return report.Clone(), nil
}

// Put upserts a report without the duplicate check. Used by the fallback
// store when mirroring primary writes into the local tier.
func (s *InMemoryStore) Put(_ context.Context, report *domain.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.ID] = report.Clone()
}
