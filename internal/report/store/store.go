// Package store persists reports. Implementations must return
// pkg/platform/sentinel errors so services can translate uniformly.
package store

import (
	"context"
	"time"

	"smartbin/internal/domain"
)

// Filter narrows List results. Nil fields match everything.
type Filter struct {
	Status       *domain.ReportStatus
	Type         *domain.ReportType
	ReportedBy   string
	CreatedAfter *time.Time
}

// Matches reports whether r satisfies the filter.
func (f Filter) Matches(r *domain.Report) bool {
	if f.Status != nil && r.Status != *f.Status {
		return false
	}
	if f.Type != nil && r.Type != *f.Type {
		return false
	}
	if f.ReportedBy != "" && r.ReportedBy != f.ReportedBy {
		return false
	}
	if f.CreatedAfter != nil && !r.Timestamp.After(*f.CreatedAfter) {
		return false
	}
	return true
}

// Store is the keyed report collection.
//
// List returns a snapshot: concurrent mutations never show up mid-iteration.
// UpdateStatus and Resolve are compare-and-set operations; they are the
// serialization point for concurrent transitions on the same id, so exactly
// one of two racing resolutions wins and the loser sees ErrInvalidState.
type Store interface {
	// Create fails with sentinel.ErrConflict when the id already exists.
	Create(ctx context.Context, report *domain.Report) error
	// GetByID fails with sentinel.ErrNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	// List returns reports matching the filter, newest first.
	List(ctx context.Context, filter Filter) ([]*domain.Report, error)
	// UpdateStatus transitions status from->to atomically. Fails with
	// sentinel.ErrInvalidState when the current status is not `from`.
	UpdateStatus(ctx context.Context, id string, from, to domain.ReportStatus) (*domain.Report, error)
	// Resolve closes a report atomically. Fails with sentinel.ErrInvalidState
	// when the report is already Resolved.
	Resolve(ctx context.Context, id string, res domain.Resolution) (*domain.Report, error)
}
