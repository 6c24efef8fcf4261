package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/team-manager/middleware"
	"github.com/Dosada05/team-manager/services"
)

type RecordHandler struct {
	baseHandler
	recordService services.RecordService
}

func NewRecordHandler(recordService services.RecordService, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{
		baseHandler:   baseHandler{logger: logger},
		recordService: recordService,
	}
}

func (h *RecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.recordService.ListRecords(r.Context(), middleware.GetScope(r.Context()))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"records": records})
}

func (h *RecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var input services.RecordInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	record, err := h.recordService.CreateRecord(r.Context(), middleware.GetScope(r.Context()), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{"record": record})
}

func (h *RecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.recordService.DeleteRecord(r.Context(), middleware.GetScope(r.Context()), id); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
