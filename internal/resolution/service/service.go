// Package service orchestrates incident resolution: precondition checks,
// the terminal state transition, the point award, and the audit trail.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"smartbin/internal/audit"
	"smartbin/internal/domain"
	"smartbin/internal/notify"
	"smartbin/internal/resolution/metrics"
	reportstore "smartbin/internal/report/store"
	"smartbin/internal/rewards"
	userstore "smartbin/internal/user/store"
	"smartbin/pkg/apperrors"
	"smartbin/pkg/clock"
	"smartbin/pkg/platform/sentinel"
	"smartbin/pkg/requestcontext"
)

// Input carries the admin-supplied resolution fields.
type Input struct {
	Notes string
	Type  string
}

// Result is what a successful resolution returns to the caller.
type Result struct {
	Report        *domain.Report          `json:"report"`
	PointsAwarded int                     `json:"pointsAwarded"`
	Breakdown     *domain.PointsBreakdown `json:"breakdown"`
}

// BulkResult reports per-item outcomes of a bulk resolution.
type BulkResult struct {
	Resolved []string    `json:"resolved"`
	Failed   []BulkError `json:"failed"`
}

// BulkError is one failed item in a bulk resolution.
type BulkError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type Service struct {
	reports  reportstore.Store
	users    userstore.Store
	calc     *rewards.Calculator
	recorder *audit.Recorder
	sink     notify.Sink
	clock    clock.Clock
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func New(reports reportstore.Store, users userstore.Store, calc *rewards.Calculator,
	recorder *audit.Recorder, sink notify.Sink, clk clock.Clock,
	logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		reports:  reports,
		users:    users,
		calc:     calc,
		recorder: recorder,
		sink:     sink,
		clock:    clk,
		logger:   logger,
		metrics:  m,
	}
}

// Resolve closes a report and credits the reporter.
//
// Preconditions, first failure wins: caller is admin; report exists; report
// is not already Resolved. On success the strict local ordering is: state
// mutation, then point credit, then audit, then notification. Audit and
// notification are best-effort; their failures are logged and swallowed.
// The state transition itself is a compare-and-set, so of two concurrent
// resolutions exactly one wins and the loser observes AlreadyResolved.
func (s *Service) Resolve(ctx context.Context, reportID string, actor requestcontext.Actor, in Input) (*Result, error) {
	start := time.Now()
	result, err := s.resolve(ctx, reportID, actor, in)
	if s.metrics != nil {
		s.metrics.ResolutionSeconds.Observe(time.Since(start).Seconds())
		s.metrics.ResolutionsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	}
	return result, err
}

func (s *Service) resolve(ctx context.Context, reportID string, actor requestcontext.Actor, in Input) (*Result, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "only administrators can resolve incidents")
	}

	// Pre-mutation snapshot: bonus signals must reflect the report as it
	// stood at the moment of resolution.
	snapshot, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.CodeNotFound, "incident not found", err)
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, "load incident", err)
	}
	if snapshot.Status == domain.StatusResolved {
		return nil, apperrors.New(apperrors.CodeAlreadyResolved, "incident is already resolved")
	}

	resolvedAt := s.clock.Now()
	breakdown := s.calc.Compute(*snapshot, resolvedAt)

	resolutionType := in.Type
	if resolutionType == "" {
		resolutionType = "completed"
	}

	resolved, err := s.reports.Resolve(ctx, reportID, domain.Resolution{
		ResolvedAt:    resolvedAt,
		ResolvedBy:    actor.ID,
		Notes:         in.Notes,
		Type:          resolutionType,
		PointsAwarded: breakdown.FinalPoints,
	})
	if err != nil {
		// Another resolution won the compare-and-set between our snapshot
		// and this write.
		if errors.Is(err, sentinel.ErrInvalidState) {
			return nil, apperrors.Wrap(apperrors.CodeAlreadyResolved, "incident is already resolved", err)
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.CodeNotFound, "incident not found", err)
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, "resolve incident", err)
	}

	balanceAfter, err := s.users.CreditPoints(ctx, snapshot.ReportedBy, breakdown.FinalPoints)
	if err != nil {
		// The transition is already durable and at most one credit attempt
		// can exist per report, so surface the failure rather than guessing.
		s.logger.ErrorContext(ctx, "point credit failed after resolution",
			"report_id", reportID,
			"user_id", snapshot.ReportedBy,
			"points", breakdown.FinalPoints,
			"error", err,
		)
		return nil, apperrors.Wrap(apperrors.CodeDependency, "credit points", err)
	}
	if s.metrics != nil {
		s.metrics.PointsAwardedTotal.Add(float64(breakdown.FinalPoints))
	}

	s.emitAudit(ctx, snapshot, resolved, actor, breakdown, balanceAfter)
	s.notifyReporter(ctx, snapshot, breakdown.FinalPoints)

	s.logger.InfoContext(ctx, "incident resolved",
		"request_id", requestcontext.RequestID(ctx),
		"report_id", reportID,
		"resolved_by", actor.ID,
		"points_awarded", breakdown.FinalPoints,
		"multiplier", breakdown.Multiplier,
	)

	return &Result{
		Report:        resolved,
		PointsAwarded: breakdown.FinalPoints,
		Breakdown:     &breakdown,
	}, nil
}

// BulkResolve applies Resolve independently per id; one failure never aborts
// the batch.
func (s *Service) BulkResolve(ctx context.Context, reportIDs []string, actor requestcontext.Actor, in Input) (*BulkResult, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "only administrators can resolve incidents")
	}

	result := &BulkResult{}
	for _, id := range reportIDs {
		if _, err := s.resolve(ctx, id, actor, in); err != nil {
			result.Failed = append(result.Failed, BulkError{ID: id, Error: err.Error()})
			continue
		}
		result.Resolved = append(result.Resolved, id)
	}

	if err := s.recorder.Emit(ctx, audit.Entry{
		ActionType:  audit.ActionBulkOperation,
		PerformedBy: audit.Actor{ID: actor.ID, Role: actor.Role},
		Target:      audit.Target{Type: "INCIDENT_BATCH"},
		Metadata: map[string]any{
			"requested": len(reportIDs),
			"resolved":  len(result.Resolved),
			"failed":    len(result.Failed),
		},
	}); err != nil {
		s.logger.WarnContext(ctx, "audit entry failed for bulk resolution", "error", err)
	}
	return result, nil
}

func (s *Service) emitAudit(ctx context.Context, snapshot, resolved *domain.Report,
	actor requestcontext.Actor, breakdown domain.PointsBreakdown, balanceAfter int) {
	entry := audit.Entry{
		ActionType:  audit.ActionIncidentResolved,
		PerformedBy: audit.Actor{ID: actor.ID, Role: actor.Role},
		Target: audit.Target{
			Type:       "INCIDENT",
			ID:         snapshot.ID,
			StatusFrom: snapshot.Status,
			StatusTo:   domain.StatusResolved,
		},
		AffectedUser: &audit.AffectedUser{
			ID:            snapshot.ReportedBy,
			PointsAwarded: breakdown.FinalPoints,
			BalanceBefore: balanceAfter - breakdown.FinalPoints,
			BalanceAfter:  balanceAfter,
		},
		Breakdown: &breakdown,
		Metadata: map[string]any{
			"incidentType":    snapshot.Type,
			"location":        snapshot.Location,
			"resolutionNotes": resolved.ResolutionNotes,
			"resolutionType":  resolved.ResolutionType,
		},
	}
	if err := s.recorder.Emit(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "audit entry failed for resolution",
			"report_id", snapshot.ID, "error", err)
	}
}

func (s *Service) notifyReporter(ctx context.Context, snapshot *domain.Report, points int) {
	n := notify.Notification{
		UserID:        snapshot.ReportedBy,
		IncidentID:    snapshot.ID,
		PointsAwarded: points,
		IncidentType:  snapshot.Type,
		Location:      snapshot.Location,
		Title:         "Incident Resolved - Points Awarded!",
		Message: fmt.Sprintf(
			"Your report (%s) has been resolved. You've earned %d points for helping keep our community clean!",
			snapshot.ID, points),
	}
	if err := s.sink.Send(ctx, n); err != nil {
		s.logger.WarnContext(ctx, "notification send failed",
			"report_id", snapshot.ID, "user_id", snapshot.ReportedBy, "error", err)
	}
}

func outcomeLabel(err error) string {
	if err == nil {
		return "resolved"
	}
	return string(apperrors.CodeOf(err))
}
