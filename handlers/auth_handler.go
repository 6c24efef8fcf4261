package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/team-manager/middleware"
	"github.com/Dosada05/team-manager/services"
	"github.com/Dosada05/team-manager/sessions"
)

type AuthHandler struct {
	baseHandler
	authService services.AuthService
	sessions    *sessions.Manager
}

func NewAuthHandler(authService services.AuthService, sessionManager *sessions.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: baseHandler{logger: logger},
		authService: authService,
		sessions:    sessionManager,
	}
}

// Register создает пользователя и сразу открывает для него сессию.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := h.sessions.Start(w, r, sessions.State{UserID: user.ID}); err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}

	h.respond(w, r, http.StatusCreated, jsonResponse{"user": user, "redirect": middleware.RedirectSports})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.authService.Login(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	// новая сессия: вид спорта выбирается заново
	if err := h.sessions.Start(w, r, sessions.State{UserID: user.ID}); err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, jsonResponse{"user": user, "redirect": middleware.RedirectSports})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(w, r); err != nil {
		h.logger.WarnContext(r.Context(), "failed to destroy session", slog.Any("error", err))
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "logged out", "redirect": middleware.RedirectLogin})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	scope := middleware.GetScope(r.Context())
	user, err := h.authService.GetUser(r.Context(), scope)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"user": user, "current_sport_id": scope.SportID})
}
