package service

import (
	"context"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"smartbin/internal/audit"
	"smartbin/internal/domain"
	"smartbin/internal/report/store"
	"smartbin/pkg/apperrors"
	"smartbin/pkg/clock"
	"smartbin/pkg/requestcontext"
)

var reportIDPattern = regexp.MustCompile(`^RPT-\d+-[0-9A-Z]{9}$`)

type ReportServiceSuite struct {
	suite.Suite
	reports *store.InMemoryStore
	auditSt *audit.InMemoryStore
	clk     *clock.Fake
	svc     *Service
	ctx     context.Context
	actor   requestcontext.Actor
	now     time.Time
}

func TestReportServiceSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceSuite))
}

func (s *ReportServiceSuite) SetupTest() {
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.reports = store.NewMemory()
	s.auditSt = audit.NewMemoryStore()
	s.clk = clock.NewFake(s.now)
	s.svc = New(s.reports, audit.NewRecorder(s.auditSt, s.clk), s.clk,
		slog.New(slog.DiscardHandler), nil)
	s.ctx = context.Background()
	s.actor = requestcontext.Actor{ID: "citizen-1", Role: "user"}
}

func (s *ReportServiceSuite) TestCreate() {
	s.Run("registers a new report in the Reported state", func() {
		report, err := s.svc.Create(s.ctx, s.actor, CreateInput{
			Type:        domain.TypeDamaged,
			Description: "lid is broken",
			Location:    "123 Main Street",
			Coordinates: &domain.Coordinates{Lat: 52.52, Lng: 13.405},
		})
		s.Require().NoError(err)
		s.Regexp(reportIDPattern, report.ID)
		s.Equal(domain.StatusReported, report.Status)
		s.Equal(domain.PriorityNormal, report.Priority)
		s.Equal("citizen-1", report.ReportedBy)
		s.Equal(s.now, report.Timestamp)

		stored, err := s.reports.GetByID(s.ctx, report.ID)
		s.Require().NoError(err)
		s.Equal(domain.TypeDamaged, stored.Type)
	})

	s.Run("rejects unknown report types", func() {
		_, err := s.svc.Create(s.ctx, s.actor, CreateInput{Type: "mystery"})
		s.Equal(apperrors.CodeValidation, apperrors.CodeOf(err))
	})

	s.Run("keeps an explicit urgent priority", func() {
		report, err := s.svc.Create(s.ctx, s.actor, CreateInput{
			Type:     domain.TypeHazardous,
			Priority: domain.PriorityUrgent,
		})
		s.Require().NoError(err)
		s.Equal(domain.PriorityUrgent, report.Priority)
	})

	s.Run("creation is audited", func() {
		entries, err := s.auditSt.List(s.ctx)
		s.Require().NoError(err)
		s.Require().NotEmpty(entries)
		last := entries[len(entries)-1]
		s.Equal(audit.ActionIncidentCreated, last.ActionType)
		s.Equal("citizen-1", last.PerformedBy.ID)
		s.Equal(domain.StatusReported, last.Target.StatusTo)
	})
}

func (s *ReportServiceSuite) TestGet() {
	report, err := s.svc.Create(s.ctx, s.actor, CreateInput{Type: domain.TypeFull})
	s.Require().NoError(err)

	got, err := s.svc.Get(s.ctx, report.ID)
	s.Require().NoError(err)
	s.Equal(report.ID, got.ID)

	_, err = s.svc.Get(s.ctx, "RPT-missing")
	s.Equal(apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func (s *ReportServiceSuite) TestList() {
	first, err := s.svc.Create(s.ctx, s.actor, CreateInput{Type: domain.TypeFull})
	s.Require().NoError(err)
	s.clk.Advance(time.Minute)
	second, err := s.svc.Create(s.ctx, s.actor, CreateInput{Type: domain.TypeDamaged})
	s.Require().NoError(err)

	reports, err := s.svc.List(s.ctx, store.Filter{})
	s.Require().NoError(err)
	s.Require().Len(reports, 2)
	s.Equal(second.ID, reports[0].ID)
	s.Equal(first.ID, reports[1].ID)
}

func TestNewReportID(t *testing.T) {
	t.Run("format", func(t *testing.T) {
		id := NewReportID(1699123456789)
		if !reportIDPattern.MatchString(id) {
			t.Fatalf("unexpected id format: %s", id)
		}
		if want := "RPT-1699123456789-"; id[:len(want)] != want {
			t.Fatalf("id %s does not carry the millis prefix", id)
		}
	})

	t.Run("suffix varies between calls", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 100 {
			seen[NewReportID(0)] = struct{}{}
		}
		if len(seen) < 100 {
			t.Fatalf("expected 100 distinct ids, got %d", len(seen))
		}
	})
}
