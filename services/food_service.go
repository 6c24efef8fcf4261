package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/team-manager/calories"
	"github.com/Dosada05/team-manager/models"
	"github.com/Dosada05/team-manager/repositories"
	"github.com/Dosada05/team-manager/storage"
)

type FoodService interface {
	ListFoods(ctx context.Context, scope Scope) ([]string, error)
	Recognize(ctx context.Context, scope Scope, file Upload) (*FoodRecognition, error)
	Calculate(ctx context.Context, scope Scope, input CalculateInput) (*calories.Recognition, error)
	SaveRecord(ctx context.Context, scope Scope, input SaveFoodInput) (*models.FoodRecord, error)
	ListRecords(ctx context.Context, scope Scope) ([]models.FoodRecord, error)
	DeleteRecord(ctx context.Context, scope Scope, id int) error
}

type CalculateInput struct {
	FoodName string  `json:"food_name"`
	Weight   float64 `json:"weight"`
}

type SaveFoodInput struct {
	FoodName string  `json:"food_name"`
	Weight   float64 `json:"weight"`
	ImageKey *string `json:"image_key"`
}

// FoodRecognition is a recognition result together with the stored image.
type FoodRecognition struct {
	calories.Recognition
	ImageKey string `json:"image_key"`
	ImageURL string `json:"image_url"`
}

type foodService struct {
	foodRepo   repositories.FoodRecordRepository
	recognizer calories.FoodRecognizer
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewFoodService(
	foodRepo repositories.FoodRecordRepository,
	recognizer calories.FoodRecognizer,
	uploader storage.FileUploader,
	logger *slog.Logger,
) FoodService {
	return &foodService{
		foodRepo:   foodRepo,
		recognizer: recognizer,
		uploader:   uploader,
		logger:     logger,
	}
}

func (s *foodService) ListFoods(ctx context.Context, scope Scope) ([]string, error) {
	if err := scope.RequireSport(); err != nil {
		return nil, err
	}
	return calories.Names(), nil
}

// Recognize stores the image and runs the recognizer on it. The image is
// removed again if recognition fails.
func (s *foodService) Recognize(ctx context.Context, scope Scope, file Upload) (*FoodRecognition, error) {
	if err := scope.RequireSport(); err != nil {
		return nil, err
	}
	if file.Reader == nil {
		return nil, ErrImageRequired
	}
	ext, err := storage.ValidateImage(file.Filename, file.Size)
	if err != nil {
		return nil, invalidInput(err)
	}

	key := storage.FoodImageKey(scope.UserID, ext)
	if _, err := s.uploader.Upload(ctx, key, storage.ContentTypeForExtension(ext), file.Reader); err != nil {
		return nil, storageFailure("upload food image", err)
	}

	result, err := s.recognizer.Recognize(ctx, key)
	if err != nil {
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			s.logger.WarnContext(ctx, "Failed to delete unrecognized food image", slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, fmt.Errorf("food recognition failed: %w", err)
	}

	return &FoodRecognition{
		Recognition: *result,
		ImageKey:    key,
		ImageURL:    s.uploader.GetPublicURL(key),
	}, nil
}

func (s *foodService) Calculate(ctx context.Context, scope Scope, input CalculateInput) (*calories.Recognition, error) {
	if err := scope.RequireSport(); err != nil {
		return nil, err
	}
	name, err := requireText("food name", input.FoodName)
	if err != nil {
		return nil, err
	}
	kcal, err := calories.Compute(name, input.Weight)
	if err != nil {
		return nil, ErrInvalidWeight
	}
	return &calories.Recognition{
		FoodName: name,
		Per100g:  calories.Lookup(name),
		Weight:   input.Weight,
		Calories: kcal,
	}, nil
}

// SaveRecord stores a food record; calories are derived from the table.
func (s *foodService) SaveRecord(ctx context.Context, scope Scope, input SaveFoodInput) (*models.FoodRecord, error) {
	if err := scope.RequireSport(); err != nil {
		return nil, err
	}
	name, err := requireText("food name", input.FoodName)
	if err != nil {
		return nil, err
	}
	kcal, err := calories.Compute(name, input.Weight)
	if err != nil {
		return nil, ErrInvalidWeight
	}

	record := &models.FoodRecord{
		UserID:   scope.UserID,
		FoodName: name,
		Calories: kcal,
		Weight:   input.Weight,
	}
	if input.ImageKey != nil && *input.ImageKey != "" {
		if err := checkStoredKey(*input.ImageKey, storage.FoodImageKeyPrefix(scope.UserID)); err != nil {
			return nil, err
		}
		record.ImageKey = input.ImageKey
	}

	if err := s.foodRepo.Create(ctx, record); err != nil {
		switch {
		case errors.Is(err, repositories.ErrFoodRecordUserInvalid):
			return nil, ErrUnauthenticated
		case errors.Is(err, repositories.ErrFoodImageTaken):
			return nil, ErrImageInUse
		}
		return nil, fmt.Errorf("failed to save food record: %w", err)
	}

	populateFoodImageURL(record, s.uploader)
	return record, nil
}

func (s *foodService) ListRecords(ctx context.Context, scope Scope) ([]models.FoodRecord, error) {
	if err := scope.RequireSport(); err != nil {
		return nil, err
	}
	records, err := s.foodRepo.ListByUser(ctx, scope.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list food records of user %d: %w", scope.UserID, err)
	}
	populateFoodListImageURLs(records, s.uploader)
	return records, nil
}

func (s *foodService) DeleteRecord(ctx context.Context, scope Scope, id int) error {
	if err := scope.RequireSport(); err != nil {
		return err
	}
	record, err := s.foodRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrFoodRecordNotFound) {
			return ErrFoodRecordNotFound
		}
		return fmt.Errorf("failed to get food record %d: %w", id, err)
	}
	if err := scope.CheckUser(record.UserID); err != nil {
		return err
	}

	if key := derefString(record.ImageKey); key != "" {
		if err := s.uploader.Delete(ctx, key); err != nil {
			return storageFailure("delete food image", err)
		}
	}

	if err := s.foodRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrFoodRecordNotFound) {
			return ErrFoodRecordNotFound
		}
		return fmt.Errorf("failed to delete food record %d: %w", id, err)
	}
	return nil
}
