package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/team-manager/middleware"
	"github.com/Dosada05/team-manager/services"
)

// avatarField - имя поля формы с файлом аватара.
const avatarField = "avatar"

type PlayerHandler struct {
	baseHandler
	playerService services.PlayerService
}

func NewPlayerHandler(playerService services.PlayerService, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{
		baseHandler:   baseHandler{logger: logger},
		playerService: playerService,
	}
}

func (h *PlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.playerService.ListPlayers(r.Context(), middleware.GetScope(r.Context()))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"players": players})
}

func (h *PlayerHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.GetPlayer(r.Context(), middleware.GetScope(r.Context()), id)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, player)
}

func (h *PlayerHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var input services.PlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.CreatePlayer(r.Context(), middleware.GetScope(r.Context()), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{"player": player})
}

func (h *PlayerHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.PlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.UpdatePlayer(r.Context(), middleware.GetScope(r.Context()), id, input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"player": player})
}

func (h *PlayerHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.playerService.DeletePlayer(r.Context(), middleware.GetScope(r.Context()), id); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadAvatar сохраняет файл и возвращает ключ для последующего create/update.
func (h *PlayerHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	file, closeFile, err := readUpload(w, r, avatarField)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer closeFile()

	avatar, err := h.playerService.UploadAvatar(r.Context(), middleware.GetScope(r.Context()), file)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, avatar)
}

func (h *PlayerHandler) ReplaceAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, closeFile, err := readUpload(w, r, avatarField)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer closeFile()

	player, err := h.playerService.ReplaceAvatar(r.Context(), middleware.GetScope(r.Context()), id, file)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"player": player})
}
