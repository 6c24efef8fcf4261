package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/team-manager/live"
	"github.com/Dosada05/team-manager/middleware"
)

type WebSocketHandler struct {
	baseHandler
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		baseHandler: baseHandler{logger: logger},
		hub:         hub,
	}
}

// ServeWs подписывает клиента на события активного вида спорта сессии.
// Доступ проверяется guard'ом RequireSport до апгрейда соединения.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	scope := middleware.GetScope(r.Context())
	if err := scope.RequireSport(); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.hub.ServeClient(w, r, scope.SportID)
}
