// Package handler is the thin HTTP layer for report intake and queries.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"smartbin/internal/domain"
	"smartbin/internal/report/service"
	"smartbin/internal/report/store"
	"smartbin/pkg/httputil"
	"smartbin/pkg/requestcontext"
)

// CreateRequest is the report intake payload. Coordinates and photo are
// references handed over by the location and photo collaborators.
type CreateRequest struct {
	Type        string              `json:"type" validate:"required,oneof=full damaged hazardous emergency"`
	Description string              `json:"description" validate:"max=2000"`
	Location    string              `json:"location" validate:"required,max=500"`
	Coordinates *domain.Coordinates `json:"coordinates,omitempty"`
	Photo       string              `json:"photo,omitempty"`
	Priority    string              `json:"priority,omitempty" validate:"omitempty,oneof=normal urgent"`
}

type Handler struct {
	service *service.Service
}

func New(service *service.Service) *Handler {
	return &Handler{service: service}
}

// Register mounts report endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/reports", h.HandleCreate)
	r.Get("/reports", h.HandleList)
	r.Get("/reports/{id}", h.HandleGet)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[CreateRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	actor := requestcontext.ActorFrom(r.Context())
	report, err := h.service.Create(r.Context(), actor, service.CreateInput{
		Type:        domain.ReportType(req.Type),
		Description: req.Description,
		Location:    req.Location,
		Coordinates: req.Coordinates,
		Photo:       req.Photo,
		Priority:    domain.Priority(req.Priority),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, report)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var filter store.Filter
	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.ReportStatus(v)
		filter.Status = &status
	}
	if v := r.URL.Query().Get("type"); v != "" {
		typ := domain.ReportType(v)
		filter.Type = &typ
	}

	reports, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}
