package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"smartbin/internal/audit"
	"smartbin/internal/domain"
	userservice "smartbin/internal/user/service"
	"smartbin/internal/user/store"
	"smartbin/pkg/clock"
	"smartbin/pkg/requestcontext"
	"smartbin/pkg/testutil"
)

type UserHandlerSuite struct {
	suite.Suite
	users    *store.InMemoryStore
	recorder *audit.Recorder
	router   http.Handler
}

func TestUserHandlerSuite(t *testing.T) {
	suite.Run(t, new(UserHandlerSuite))
}

func (s *UserHandlerSuite) SetupTest() {
	clk := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.users = store.NewMemory()
	s.recorder = audit.NewRecorder(audit.NewMemoryStore(), clk)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	s.Require().NoError(err)
	s.Require().NoError(s.users.Create(context.Background(), &domain.User{
		ID: "citizen-1", Name: "Jamie Citizen", Email: "jamie@example.com",
		Role: domain.RoleUser, Points: 40, PasswordHash: string(hash),
	}))

	svc := userservice.New(s.users, "test-signing-key", clk, slog.New(slog.DiscardHandler))
	h := New(svc, s.recorder)

	r := chi.NewRouter()
	h.RegisterPublic(r)
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				actor := requestcontext.Actor{ID: "citizen-1", Role: "user"}
				next.ServeHTTP(w, req.WithContext(
					requestcontext.WithActor(req.Context(), actor)))
			})
		})
		h.Register(r)
	})
	s.router = r
}

func (s *UserHandlerSuite) TestLogin() {
	s.Run("returns a token and the user", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/login",
			LoginRequest{Email: "jamie@example.com", Password: "correct-horse"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		body := testutil.UnmarshalResponse[struct {
			Token string      `json:"token"`
			User  domain.User `json:"user"`
		}](s.T(), rr)
		s.NotEmpty(body.Token)
		s.Equal("citizen-1", body.User.ID)
	})

	s.Run("never serializes the password hash", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/login",
			LoginRequest{Email: "jamie@example.com", Password: "correct-horse"})
		rr := testutil.DoRequest(s.router, req)

		s.NotContains(string(testutil.ReadBody(s.T(), rr)), "passwordHash")
	})

	s.Run("wrong password is 403", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/login",
			LoginRequest{Email: "jamie@example.com", Password: "wrong"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusForbidden)
		testutil.AssertErrorCode(s.T(), rr, "unauthorized")
	})

	s.Run("malformed email is 400", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/login",
			LoginRequest{Email: "not-an-email", Password: "whatever"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
		testutil.AssertErrorCode(s.T(), rr, "validation")
	})
}

func (s *UserHandlerSuite) TestBalance() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/points/balance")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	body := testutil.UnmarshalResponse[map[string]int](s.T(), rr)
	s.Equal(40, (*body)["points"])
}

func (s *UserHandlerSuite) TestHistory() {
	ctx := context.Background()
	emit := func(action audit.ActionType, points int) {
		s.Require().NoError(s.recorder.Emit(ctx, audit.Entry{
			ActionType:   action,
			PerformedBy:  audit.Actor{ID: "admin-1", Role: "admin"},
			AffectedUser: &audit.AffectedUser{ID: "citizen-1", PointsAwarded: points},
		}))
	}
	emit(audit.ActionIncidentResolved, 15)
	emit(audit.ActionPointsAwarded, 5)
	// Escalations carry no award and stay out of the history.
	s.Require().NoError(s.recorder.Emit(ctx, audit.Entry{
		ActionType:   audit.ActionIncidentEscalated,
		PerformedBy:  audit.Actor{ID: "SYSTEM", Role: "system"},
		AffectedUser: &audit.AffectedUser{ID: "citizen-1"},
	}))

	req := testutil.NewRequest(s.T(), http.MethodGet, "/points/history")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	body := testutil.UnmarshalResponse[struct {
		History []audit.Entry `json:"history"`
	}](s.T(), rr)
	s.Require().Len(body.History, 2)
	s.Equal(15, body.History[0].AffectedUser.PointsAwarded)
	s.Equal(5, body.History[1].AffectedUser.PointsAwarded)
}
