package store

import (
	"context"
	"log/slog"
	"sync"

	"smartbin/internal/domain"
)

// FallbackStore is the two-tier persistence strategy: a primary store backed
// by the database plus a local in-memory tier that keeps citizen reports
// readable and acceptable while the primary is down.
//
// Contract:
//   - Create: tries the primary; on failure the report is parked in the local
//     tier and queued for reconciliation. The citizen's report is never lost.
//   - Reads: primary first, local tier on primary failure.
//   - UpdateStatus / Resolve: primary only. State transitions are the
//     correctness-critical path and must run against the authoritative tier,
//     so their failures surface instead of falling back.
//   - Sync: replays queued creates into the primary.
type FallbackStore struct {
	primary Store
	local   *InMemoryStore
	logger  *slog.Logger

	mu      sync.Mutex
	pending []string // report ids awaiting replay, in arrival order
}

func NewFallback(primary Store, local *InMemoryStore, logger *slog.Logger) *FallbackStore {
	return &FallbackStore{primary: primary, local: local, logger: logger}
}

func (s *FallbackStore) Create(ctx context.Context, report *domain.Report) error {
	if err := s.primary.Create(ctx, report); err != nil {
		s.logger.WarnContext(ctx, "primary store create failed, parking report locally",
			"report_id", report.ID,
			"error", err,
		)
		if localErr := s.local.Create(ctx, report); localErr != nil {
			return localErr
		}
		s.mu.Lock()
		s.pending = append(s.pending, report.ID)
		s.mu.Unlock()
		return nil
	}
	s.local.Put(ctx, report)
	return nil
}

func (s *FallbackStore) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	report, err := s.primary.GetByID(ctx, id)
	if err == nil {
		s.local.Put(ctx, report)
		return report, nil
	}
	if local, localErr := s.local.GetByID(ctx, id); localErr == nil {
		s.logger.WarnContext(ctx, "serving report from local tier", "report_id", id, "error", err)
		return local, nil
	}
	return nil, err
}

func (s *FallbackStore) List(ctx context.Context, filter Filter) ([]*domain.Report, error) {
	reports, err := s.primary.List(ctx, filter)
	if err == nil {
		for _, report := range reports {
			s.local.Put(ctx, report)
		}
		return reports, nil
	}
	s.logger.WarnContext(ctx, "listing reports from local tier", "error", err)
	return s.local.List(ctx, filter)
}

func (s *FallbackStore) UpdateStatus(ctx context.Context, id string, from, to domain.ReportStatus) (*domain.Report, error) {
	report, err := s.primary.UpdateStatus(ctx, id, from, to)
	if err != nil {
		return nil, err
	}
	s.local.Put(ctx, report)
	return report, nil
}

func (s *FallbackStore) Resolve(ctx context.Context, id string, res domain.Resolution) (*domain.Report, error) {
	report, err := s.primary.Resolve(ctx, id, res)
	if err != nil {
		return nil, err
	}
	s.local.Put(ctx, report)
	return report, nil
}

// Sync replays parked reports into the primary store. Replays that still fail
// stay queued for the next pass. Returns the number reconciled.
func (s *FallbackStore) Sync(ctx context.Context) (int, error) {
	s.mu.Lock()
	queued := s.pending
	s.pending = nil
	s.mu.Unlock()

	var reconciled int
	var remaining []string
	for _, id := range queued {
		report, err := s.local.GetByID(ctx, id)
		if err != nil {
			continue
		}
		if err := s.primary.Create(ctx, report); err != nil {
			remaining = append(remaining, id)
			continue
		}
		reconciled++
	}

	if len(remaining) > 0 {
		s.mu.Lock()
		s.pending = append(remaining, s.pending...)
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "fallback sync incomplete", "remaining", len(remaining))
	}
	return reconciled, nil
}

// Pending reports how many reports await reconciliation.
func (s *FallbackStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
