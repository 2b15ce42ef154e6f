// Package handler exposes login and the points surfaces.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"smartbin/internal/audit"
	"smartbin/internal/user/service"
	"smartbin/pkg/httputil"
	"smartbin/pkg/requestcontext"
)

// LoginRequest carries credentials for token issuance.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Handler struct {
	service  *service.Service
	recorder *audit.Recorder
}

func New(service *service.Service, recorder *audit.Recorder) *Handler {
	return &Handler{service: service, recorder: recorder}
}

// RegisterPublic mounts the unauthenticated endpoints.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
}

// Register mounts the authenticated points endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/points/balance", h.HandleBalance)
	r.Get("/points/history", h.HandleHistory)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[LoginRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	token, user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

func (h *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	actor := requestcontext.ActorFrom(r.Context())
	points, err := h.service.Balance(r.Context(), actor.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"points": points})
}

// HandleHistory serves the caller's award history straight from the audit
// trail, so the history can never disagree with what was audited.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	actor := requestcontext.ActorFrom(r.Context())
	entries, err := h.recorder.ListByUser(r.Context(), actor.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	history := make([]audit.Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.ActionType == audit.ActionIncidentResolved || entry.ActionType == audit.ActionPointsAwarded {
			history = append(history, entry)
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"history": history})
}
