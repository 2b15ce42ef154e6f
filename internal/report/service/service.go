// Package service owns report intake and queries.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"

	"smartbin/internal/audit"
	"smartbin/internal/domain"
	"smartbin/internal/report/metrics"
	"smartbin/internal/report/store"
	"smartbin/pkg/apperrors"
	"smartbin/pkg/clock"
	"smartbin/pkg/platform/sentinel"
	"smartbin/pkg/requestcontext"
)

// CreateInput is the citizen-supplied part of a new report. Coordinates come
// from the location provider, Photo from the photo store; both are optional
// and both are reward signals.
type CreateInput struct {
	Type        domain.ReportType
	Description string
	Location    string
	Coordinates *domain.Coordinates
	Photo       string
	Priority    domain.Priority
}

type Service struct {
	reports  store.Store
	recorder *audit.Recorder
	clock    clock.Clock
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func New(reports store.Store, recorder *audit.Recorder, clk clock.Clock, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		reports:  reports,
		recorder: recorder,
		clock:    clk,
		logger:   logger,
		metrics:  m,
	}
}

// Create registers a new report in the Reported state.
func (s *Service) Create(ctx context.Context, actor requestcontext.Actor, in CreateInput) (*domain.Report, error) {
	if !in.Type.Valid() {
		return nil, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("unknown report type %q", in.Type))
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityNormal
	}

	now := s.clock.Now()
	report := &domain.Report{
		ID:          NewReportID(now.UnixMilli()),
		Type:        in.Type,
		Status:      domain.StatusReported,
		Description: in.Description,
		Location:    in.Location,
		Coordinates: in.Coordinates,
		Photo:       in.Photo,
		Priority:    in.Priority,
		ReportedBy:  actor.ID,
		Timestamp:   now,
	}

	if err := s.reports.Create(ctx, report); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, apperrors.Wrap(apperrors.CodeConflict, "report id already exists", err)
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, "create report", err)
	}

	if s.metrics != nil {
		s.metrics.ReportsCreated.WithLabelValues(string(report.Type)).Inc()
	}
	if err := s.recorder.Emit(ctx, audit.Entry{
		ActionType:  audit.ActionIncidentCreated,
		PerformedBy: audit.Actor{ID: actor.ID, Role: actor.Role},
		Target:      audit.Target{Type: "INCIDENT", ID: report.ID, StatusTo: report.Status},
		Metadata: map[string]any{
			"incidentType": report.Type,
			"location":     report.Location,
		},
	}); err != nil {
		s.logger.WarnContext(ctx, "audit entry failed for report creation",
			"report_id", report.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "report created",
		"request_id", requestcontext.RequestID(ctx),
		"report_id", report.ID,
		"type", report.Type,
		"reported_by", actor.ID,
	)
	return report, nil
}

// Get loads a single report.
func (s *Service) Get(ctx context.Context, id string) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.CodeNotFound, "report not found", err)
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, "load report", err)
	}
	return report, nil
}

// List returns reports matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter store.Filter) ([]*domain.Report, error) {
	reports, err := s.reports.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, "list reports", err)
	}
	return reports, nil
}

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewReportID builds an id like RPT-1699123456789-X7K2M9QAB. The creation
// millis prefix aids debugging; only uniqueness is load-bearing.
func NewReportID(unixMilli int64) string {
	suffix := make([]byte, 9)
	raw := make([]byte, 9)
	_, _ = rand.Read(raw)
	for i, b := range raw {
		suffix[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return fmt.Sprintf("RPT-%d-%s", unixMilli, suffix)
}
