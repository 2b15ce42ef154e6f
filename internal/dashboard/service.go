// Package dashboard aggregates municipal statistics from the report store.
// Stats are recomputed on read; nothing here keeps counters that could drift
// from the underlying reports.
package dashboard

import (
	"context"

	"smartbin/internal/domain"
	"smartbin/internal/report/store"
	"smartbin/pkg/apperrors"
)

// Stats is the admin dashboard snapshot.
type Stats struct {
	Total              int                         `json:"total"`
	ByStatus           map[domain.ReportStatus]int `json:"byStatus"`
	ByType             map[domain.ReportType]int   `json:"byType"`
	PointsAwarded      int                         `json:"pointsAwarded"`
	AvgResolutionHours float64                     `json:"avgResolutionHours"`
}

type Service struct {
	reports store.Store
}

func New(reports store.Store) *Service {
	return &Service{reports: reports}
}

// Stats aggregates over a snapshot of all reports.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	reports, err := s.reports.List(ctx, store.Filter{})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, "list reports", err)
	}

	stats := &Stats{
		ByStatus: make(map[domain.ReportStatus]int),
		ByType:   make(map[domain.ReportType]int),
	}
	var resolutionHours float64
	var resolved int
	for _, report := range reports {
		stats.Total++
		stats.ByStatus[report.Status]++
		stats.ByType[report.Type]++
		stats.PointsAwarded += report.PointsAwarded
		if report.ResolvedAt != nil {
			resolved++
			resolutionHours += report.ResolvedAt.Sub(report.Timestamp).Hours()
		}
	}
	if resolved > 0 {
		stats.AvgResolutionHours = resolutionHours / float64(resolved)
	}
	return stats, nil
}
