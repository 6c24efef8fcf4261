package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/team-manager/middleware"
	"github.com/Dosada05/team-manager/services"
	"github.com/Dosada05/team-manager/sessions"
)

type SportHandler struct {
	baseHandler
	sportService services.SportService
	sessions     *sessions.Manager
}

func NewSportHandler(sportService services.SportService, sessionManager *sessions.Manager, logger *slog.Logger) *SportHandler {
	return &SportHandler{
		baseHandler:  baseHandler{logger: logger},
		sportService: sportService,
		sessions:     sessionManager,
	}
}

func (h *SportHandler) GetAllSports(w http.ResponseWriter, r *http.Request) {
	scope := middleware.GetScope(r.Context())
	sports, err := h.sportService.GetAllSports(r.Context(), scope)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"sports": sports, "current_sport_id": scope.SportID})
}

// SelectSport делает вид спорта активным для текущей сессии.
func (h *SportHandler) SelectSport(w http.ResponseWriter, r *http.Request) {
	sportID, err := getIDFromURL(r, "sportID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	scope := middleware.GetScope(r.Context())
	sport, err := h.sportService.SelectSport(r.Context(), scope, sportID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	state := sessions.State{UserID: scope.UserID, CurrentSportID: sport.ID}
	if err := h.sessions.Update(r.Context(), middleware.GetSessionID(r.Context()), state); err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, jsonResponse{"sport": sport, "redirect": "/"})
}

// SwitchSport сбрасывает активный вид спорта, пользователь остается в системе.
func (h *SportHandler) SwitchSport(w http.ResponseWriter, r *http.Request) {
	scope := middleware.GetScope(r.Context())
	state := sessions.State{UserID: scope.UserID}
	if err := h.sessions.Update(r.Context(), middleware.GetSessionID(r.Context()), state); err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"redirect": middleware.RedirectSports})
}
