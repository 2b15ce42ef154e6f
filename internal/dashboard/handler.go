package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"smartbin/internal/audit"
	"smartbin/pkg/httputil"
)

// Handler serves the admin dashboard and audit surfaces.
type Handler struct {
	service  *Service
	recorder *audit.Recorder
}

func NewHandler(service *Service, recorder *audit.Recorder) *Handler {
	return &Handler{service: service, recorder: recorder}
}

// Register mounts the admin-only read endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/dashboard/stats", h.HandleStats)
	r.Get("/audit", h.HandleAuditList)
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) HandleAuditList(w http.ResponseWriter, r *http.Request) {
	var entries []audit.Entry
	var err error
	if userID := r.URL.Query().Get("user"); userID != "" {
		entries, err = h.recorder.ListByUser(r.Context(), userID)
	} else {
		entries, err = h.recorder.List(r.Context())
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
