package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/team-manager/middleware"
	"github.com/Dosada05/team-manager/services"
)

type PlanHandler struct {
	baseHandler
	planService services.PlanService
}

func NewPlanHandler(planService services.PlanService, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{
		baseHandler: baseHandler{logger: logger},
		planService: planService,
	}
}

func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.planService.ListPlans(r.Context(), middleware.GetScope(r.Context()))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"plans": plans})
}

func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	plan, err := h.planService.GetPlan(r.Context(), middleware.GetScope(r.Context()), id)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, plan)
}

func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var input services.PlanInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	plan, err := h.planService.CreatePlan(r.Context(), middleware.GetScope(r.Context()), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{"plan": plan})
}

func (h *PlanHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.PlanInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	plan, err := h.planService.UpdatePlan(r.Context(), middleware.GetScope(r.Context()), id, input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"plan": plan})
}

func (h *PlanHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.planService.DeletePlan(r.Context(), middleware.GetScope(r.Context()), id); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
