package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/team-manager/middleware"
	"github.com/Dosada05/team-manager/services"
	"github.com/Dosada05/team-manager/storage"
)

type jsonResponse map[string]interface{}

// maxUploadBody - лимит тела multipart-запроса: сам файл плюс поля формы.
const maxUploadBody = storage.MaxImageSize + 1<<20

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // ошибка программиста: передан не указатель
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// redirectResponse - ошибка с подсказкой, куда перейти клиенту.
func redirectResponse(w http.ResponseWriter, r *http.Request, status int, message, redirect string) {
	env := jsonResponse{"error": message, "redirect": redirect}
	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusNotFound, message)
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusForbidden, message)
}

// baseHandler carries what every handler needs to report errors.
type baseHandler struct {
	logger *slog.Logger
}

func (h baseHandler) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	errorResponse(w, r, http.StatusInternalServerError, "operation failed, please try again")
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответы
func (h baseHandler) mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		redirectResponse(w, r, http.StatusUnauthorized, err.Error(), middleware.RedirectLogin)
	case errors.Is(err, services.ErrNoActiveSport):
		redirectResponse(w, r, http.StatusConflict, err.Error(), middleware.RedirectSports)
	case errors.Is(err, services.ErrForbidden):
		forbiddenResponse(w, r, err.Error())
	case errors.Is(err, services.ErrNotFound):
		notFoundResponse(w, r, err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		badRequestResponse(w, r, err)
	case errors.Is(err, services.ErrStorageFailure):
		h.logger.ErrorContext(r.Context(), "file storage failure", slog.String("path", r.URL.Path), slog.Any("error", err))
		errorResponse(w, r, http.StatusBadGateway, err.Error())
	default:
		h.serverErrorResponse(w, r, err)
	}
}

func (h baseHandler) respond(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if err := writeJSON(w, status, data, nil); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write response", slog.Any("error", err))
	}
}

func getIDFromURL(r *http.Request, paramName string) (int, error) {
	idStr := chi.URLParam(r, paramName)
	if idStr == "" {
		return 0, fmt.Errorf("missing %s in URL path", paramName)
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %q", paramName, idStr)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s value: %d", paramName, id)
	}
	return id, nil
}

// readUpload достает файл из multipart-формы. Отсутствующий файл дает
// пустой Upload: решение об ошибке принимает сервис.
func readUpload(w http.ResponseWriter, r *http.Request, field string) (services.Upload, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return services.Upload{}, func() {}, storage.ErrFileTooLarge
		}
		return services.Upload{}, func() {}, fmt.Errorf("failed to parse multipart form: %w", err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return services.Upload{}, func() {}, nil
		}
		return services.Upload{}, func() {}, fmt.Errorf("failed to get %s file from form: %w", field, err)
	}
	return uploadFromPart(file, header), func() { file.Close() }, nil
}

func uploadFromPart(file multipart.File, header *multipart.FileHeader) services.Upload {
	return services.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Reader:   file,
	}
}
