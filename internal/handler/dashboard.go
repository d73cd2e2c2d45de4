package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/bounty-tracker/internal/service"
)

// DashboardHandler serves the landing page overview.
type DashboardHandler struct {
	svc    *service.DashboardService
	logger *slog.Logger
}

func NewDashboardHandler(svc *service.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger}
}

// HTTP: GET /api/dashboard
func (h *DashboardHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	d, err := h.svc.Overview(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
