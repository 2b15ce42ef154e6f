package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"smartbin/internal/domain"
	"smartbin/internal/report/store"
)

type DashboardSuite struct {
	suite.Suite
	reports *store.InMemoryStore
	svc     *Service
	ctx     context.Context
	now     time.Time
}

func TestDashboardSuite(t *testing.T) {
	suite.Run(t, new(DashboardSuite))
}

func (s *DashboardSuite) SetupTest() {
	s.reports = store.NewMemory()
	s.svc = New(s.reports)
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func (s *DashboardSuite) TestStatsEmpty() {
	stats, err := s.svc.Stats(s.ctx)
	s.Require().NoError(err)
	s.Zero(stats.Total)
	s.Zero(stats.PointsAwarded)
	s.Zero(stats.AvgResolutionHours)
}

func (s *DashboardSuite) TestStatsAggregates() {
	open := &domain.Report{
		ID: "RPT-D-1", Type: domain.TypeFull, Status: domain.StatusReported,
		ReportedBy: "citizen-1", Timestamp: s.now,
	}
	escalated := &domain.Report{
		ID: "RPT-D-2", Type: domain.TypeFull, Status: domain.StatusEscalated,
		ReportedBy: "citizen-1", Timestamp: s.now.Add(-5 * time.Hour),
	}
	resolvedAt1 := s.now
	resolvedOne := &domain.Report{
		ID: "RPT-D-3", Type: domain.TypeDamaged, Status: domain.StatusResolved,
		ReportedBy: "citizen-1", Timestamp: s.now.Add(-2 * time.Hour),
		ResolvedAt: &resolvedAt1, PointsAwarded: 20,
	}
	resolvedAt2 := s.now
	resolvedTwo := &domain.Report{
		ID: "RPT-D-4", Type: domain.TypeHazardous, Status: domain.StatusResolved,
		ReportedBy: "citizen-2", Timestamp: s.now.Add(-6 * time.Hour),
		ResolvedAt: &resolvedAt2, PointsAwarded: 25,
	}
	for _, r := range []*domain.Report{open, escalated, resolvedOne, resolvedTwo} {
		s.Require().NoError(s.reports.Create(s.ctx, r))
	}

	stats, err := s.svc.Stats(s.ctx)
	s.Require().NoError(err)

	s.Equal(4, stats.Total)
	s.Equal(1, stats.ByStatus[domain.StatusReported])
	s.Equal(1, stats.ByStatus[domain.StatusEscalated])
	s.Equal(2, stats.ByStatus[domain.StatusResolved])
	s.Equal(2, stats.ByType[domain.TypeFull])
	s.Equal(1, stats.ByType[domain.TypeDamaged])
	s.Equal(1, stats.ByType[domain.TypeHazardous])
	s.Equal(45, stats.PointsAwarded)
	s.InDelta(4.0, stats.AvgResolutionHours, 1e-9)
}
