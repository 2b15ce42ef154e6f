// Package handler exposes the admin resolution endpoints.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"smartbin/internal/resolution/service"
	"smartbin/pkg/httputil"
	"smartbin/pkg/requestcontext"
)

// ResolveRequest carries the resolution fields an administrator supplies.
type ResolveRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
	Type  string `json:"type" validate:"omitempty,oneof=completed duplicate invalid escalated-externally"`
}

// BulkResolveRequest names the reports to close.
type BulkResolveRequest struct {
	ReportIDs []string `json:"reportIds" validate:"required,min=1,max=100"`
	Notes     string   `json:"notes" validate:"max=2000"`
	Type      string   `json:"type" validate:"omitempty,oneof=completed duplicate invalid escalated-externally"`
}

type Handler struct {
	service *service.Service
}

func New(service *service.Service) *Handler {
	return &Handler{service: service}
}

// Register mounts resolution endpoints. The router gates these behind the
// admin middleware; the service re-checks the role regardless.
func (h *Handler) Register(r chi.Router) {
	r.Post("/reports/{id}/resolve", h.HandleResolve)
	r.Post("/reports/resolve/bulk", h.HandleBulkResolve)
}

func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[ResolveRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	actor := requestcontext.ActorFrom(r.Context())
	result, err := h.service.Resolve(r.Context(), chi.URLParam(r, "id"), actor, service.Input{
		Notes: req.Notes,
		Type:  req.Type,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleBulkResolve(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[BulkResolveRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	actor := requestcontext.ActorFrom(r.Context())
	result, err := h.service.BulkResolve(r.Context(), req.ReportIDs, actor, service.Input{
		Notes: req.Notes,
		Type:  req.Type,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
