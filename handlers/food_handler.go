package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/team-manager/middleware"
	"github.com/Dosada05/team-manager/services"
)

const foodImageField = "food_image"

type FoodHandler struct {
	baseHandler
	foodService services.FoodService
}

func NewFoodHandler(foodService services.FoodService, logger *slog.Logger) *FoodHandler {
	return &FoodHandler{
		baseHandler: baseHandler{logger: logger},
		foodService: foodService,
	}
}

func (h *FoodHandler) ListFoods(w http.ResponseWriter, r *http.Request) {
	foods, err := h.foodService.ListFoods(r.Context(), middleware.GetScope(r.Context()))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"foods": foods})
}

// Recognize принимает фото блюда и возвращает результат распознавания.
func (h *FoodHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	file, closeFile, err := readUpload(w, r, foodImageField)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer closeFile()

	result, err := h.foodService.Recognize(r.Context(), middleware.GetScope(r.Context()), file)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"success": true, "result": result})
}

func (h *FoodHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var input services.CalculateInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.foodService.Calculate(r.Context(), middleware.GetScope(r.Context()), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"success": true, "result": result})
}

func (h *FoodHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.foodService.ListRecords(r.Context(), middleware.GetScope(r.Context()))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"food_records": records})
}

func (h *FoodHandler) SaveRecord(w http.ResponseWriter, r *http.Request) {
	var input services.SaveFoodInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	record, err := h.foodService.SaveRecord(r.Context(), middleware.GetScope(r.Context()), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{"food_record": record})
}

func (h *FoodHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.foodService.DeleteRecord(r.Context(), middleware.GetScope(r.Context()), id); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
