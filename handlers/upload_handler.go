package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/team-manager/middleware"
	"github.com/Dosada05/team-manager/services"
	"github.com/Dosada05/team-manager/storage"
)

type UploadHandler struct {
	baseHandler
	fileService services.FileService
}

func NewUploadHandler(fileService services.FileService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		baseHandler: baseHandler{logger: logger},
		fileService: fileService,
	}
}

// ServeFile отдает сохраненный файл по ключу из пути /uploads/{key}.
func (h *UploadHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	obj, err := h.fileService.OpenFile(r.Context(), middleware.GetScope(r.Context()), key)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.stream(w, r, obj, key, "private, max-age=3600")
}

// ServeImage отдает статические картинки видов спорта; вход не требуется.
func (h *UploadHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	obj, err := h.fileService.OpenImage(r.Context(), name)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.stream(w, r, obj, name, "public, max-age=86400")
}

func (h *UploadHandler) stream(w http.ResponseWriter, r *http.Request, obj *storage.Object, key, cacheControl string) {
	defer obj.Body.Close()

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, obj.Body); err != nil {
		h.logger.WarnContext(r.Context(), "failed to stream file", slog.String("key", key), slog.Any("error", err))
	}
}
