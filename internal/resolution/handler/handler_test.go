package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"smartbin/internal/audit"
	"smartbin/internal/domain"
	"smartbin/internal/notify"
	reportstore "smartbin/internal/report/store"
	resolutionservice "smartbin/internal/resolution/service"
	"smartbin/internal/rewards"
	userstore "smartbin/internal/user/store"
	"smartbin/pkg/clock"
	"smartbin/pkg/requestcontext"
	"smartbin/pkg/testutil"
)

type ResolutionHandlerSuite struct {
	suite.Suite
	reports *reportstore.InMemoryStore
	users   *userstore.InMemoryStore
	router  http.Handler
	actor   requestcontext.Actor
	now     time.Time
}

func TestResolutionHandlerSuite(t *testing.T) {
	suite.Run(t, new(ResolutionHandlerSuite))
}

func (s *ResolutionHandlerSuite) SetupTest() {
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.reports = reportstore.NewMemory()
	s.users = userstore.NewMemory()
	s.actor = requestcontext.Actor{ID: "admin-1", Role: "admin"}

	clk := clock.NewFake(s.now)
	svc := resolutionservice.New(s.reports, s.users, rewards.NewCalculator(),
		audit.NewRecorder(audit.NewMemoryStore(), clk), notify.NewCaptureSink(),
		clk, slog.New(slog.DiscardHandler), nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(
				requestcontext.WithActor(req.Context(), s.actor)))
		})
	})
	New(svc).Register(r)
	s.router = r

	s.Require().NoError(s.users.Create(context.Background(), &domain.User{
		ID: "citizen-1", Email: "jamie@example.com", Role: domain.RoleUser,
	}))
}

func (s *ResolutionHandlerSuite) addReport(id string) {
	s.Require().NoError(s.reports.Create(context.Background(), &domain.Report{
		ID:         id,
		Type:       domain.TypeFull,
		Status:     domain.StatusReported,
		ReportedBy: "citizen-1",
		Timestamp:  s.now.Add(-48 * time.Hour),
	}))
}

func (s *ResolutionHandlerSuite) TestResolve() {
	s.Run("resolves and returns the breakdown", func() {
		s.addReport("RPT-H-1")
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/reports/RPT-H-1/resolve",
			ResolveRequest{Notes: "bin emptied", Type: "completed"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		result := testutil.UnmarshalResponse[resolutionservice.Result](s.T(), rr)
		s.Equal(domain.StatusResolved, result.Report.Status)
		s.Equal(15, result.PointsAwarded)
		s.Require().NotNil(result.Breakdown)
		s.Equal(15, result.Breakdown.BasePoints)
	})

	s.Run("empty body defaults the resolution type", func() {
		s.addReport("RPT-H-2")
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/reports/RPT-H-2/resolve",
			ResolveRequest{})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		result := testutil.UnmarshalResponse[resolutionservice.Result](s.T(), rr)
		s.Equal("completed", result.Report.ResolutionType)
	})

	s.Run("unknown report is 404", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/reports/RPT-missing/resolve",
			ResolveRequest{})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
		testutil.AssertErrorCode(s.T(), rr, "not_found")
	})

	s.Run("second resolution is 409", func() {
		s.addReport("RPT-H-3")
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/reports/RPT-H-3/resolve",
			ResolveRequest{})
		testutil.DoRequest(s.router, req)

		req = testutil.NewJSONRequest(s.T(), http.MethodPost, "/reports/RPT-H-3/resolve",
			ResolveRequest{})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusConflict)
		testutil.AssertErrorCode(s.T(), rr, "already_resolved")
	})

	s.Run("non-admin actor is 403", func() {
		s.addReport("RPT-H-4")
		s.actor = requestcontext.Actor{ID: "citizen-1", Role: "user"}
		defer func() { s.actor = requestcontext.Actor{ID: "admin-1", Role: "admin"} }()

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/reports/RPT-H-4/resolve",
			ResolveRequest{})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusForbidden)
		testutil.AssertErrorCode(s.T(), rr, "unauthorized")
	})

	s.Run("unknown resolution type is 400", func() {
		s.addReport("RPT-H-5")
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/reports/RPT-H-5/resolve",
			ResolveRequest{Type: "vaporized"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
		testutil.AssertErrorCode(s.T(), rr, "validation")
	})
}

func (s *ResolutionHandlerSuite) TestBulkResolve() {
	s.Run("reports per-item outcomes", func() {
		s.addReport("RPT-H-6")
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/reports/resolve/bulk",
			BulkResolveRequest{ReportIDs: []string{"RPT-H-6", "RPT-missing"}})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		result := testutil.UnmarshalResponse[resolutionservice.BulkResult](s.T(), rr)
		s.Equal([]string{"RPT-H-6"}, result.Resolved)
		s.Require().Len(result.Failed, 1)
		s.Equal("RPT-missing", result.Failed[0].ID)
	})

	s.Run("empty id list is 400", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/reports/resolve/bulk",
			BulkResolveRequest{ReportIDs: []string{}})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
		testutil.AssertErrorCode(s.T(), rr, "validation")
	})
}
