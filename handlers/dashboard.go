package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/team-manager/middleware"
	"github.com/Dosada05/team-manager/services"
)

type DashboardHandler struct {
	baseHandler
	dashboardService services.DashboardService
	statsService     services.StatsService
}

func NewDashboardHandler(dashboardService services.DashboardService, statsService services.StatsService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		baseHandler:      baseHandler{logger: logger},
		dashboardService: dashboardService,
		statsService:     statsService,
	}
}

func (h *DashboardHandler) Home(w http.ResponseWriter, r *http.Request) {
	home, err := h.dashboardService.GetHome(r.Context(), middleware.GetScope(r.Context()))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, home)
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.GetStats(r.Context(), middleware.GetScope(r.Context()))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"stats": stats})
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.GetStats(r.Context(), middleware.GetScope(r.Context()))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, stats)
}
