package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/team-manager/models"
	"github.com/Dosada05/team-manager/repositories"
)

type RecordService interface {
	ListRecords(ctx context.Context, scope Scope) ([]models.RecordView, error)
	CreateRecord(ctx context.Context, scope Scope, input RecordInput) (*models.TrainingRecord, error)
	DeleteRecord(ctx context.Context, scope Scope, id int) error
}

type RecordInput struct {
	PlayerID int    `json:"player_id"`
	PlanID   *int   `json:"plan_id"`
	Score    int    `json:"score"`
	Notes    string `json:"notes"`
}

type recordService struct {
	recordRepo repositories.RecordRepository
	playerRepo repositories.PlayerRepository
	planRepo   repositories.PlanRepository
	notifier   Notifier
	logger     *slog.Logger
}

func NewRecordService(
	recordRepo repositories.RecordRepository,
	playerRepo repositories.PlayerRepository,
	planRepo repositories.PlanRepository,
	notifier Notifier,
	logger *slog.Logger,
) RecordService {
	return &recordService{
		recordRepo: recordRepo,
		playerRepo: playerRepo,
		planRepo:   planRepo,
		notifier:   notifierOrNop(notifier),
		logger:     logger,
	}
}

func (s *recordService) ListRecords(ctx context.Context, scope Scope) ([]models.RecordView, error) {
	if err := scope.RequireSport(); err != nil {
		return nil, err
	}
	records, err := s.recordRepo.ListBySport(ctx, scope.SportID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records for sport %d: %w", scope.SportID, err)
	}
	return records, nil
}

// CreateRecord accepts only a player (and plan, if given) of the active sport.
// Scores outside 1..10 are stored but skipped by the score histogram.
func (s *recordService) CreateRecord(ctx context.Context, scope Scope, input RecordInput) (*models.TrainingRecord, error) {
	if err := scope.RequireSport(); err != nil {
		return nil, err
	}

	player, err := s.playerRepo.GetByID(ctx, input.PlayerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", input.PlayerID, err)
	}
	if err := scope.CheckSport(player.SportID); err != nil {
		return nil, err
	}

	if input.PlanID != nil {
		plan, err := s.planRepo.GetByID(ctx, *input.PlanID)
		if err != nil {
			if errors.Is(err, repositories.ErrPlanNotFound) {
				return nil, ErrPlanNotFound
			}
			return nil, fmt.Errorf("failed to get plan %d: %w", *input.PlanID, err)
		}
		if err := scope.CheckSport(plan.SportID); err != nil {
			return nil, err
		}
	}

	record := &models.TrainingRecord{
		PlayerID: player.ID,
		PlanID:   input.PlanID,
		Score:    input.Score,
		Notes:    input.Notes,
	}
	if err := s.recordRepo.Create(ctx, record); err != nil {
		if errors.Is(err, repositories.ErrRecordRefInvalid) {
			return nil, invalidInputf("player or plan no longer exists")
		}
		return nil, fmt.Errorf("failed to create training record: %w", err)
	}

	s.logger.InfoContext(ctx, "Training record created", slog.Int("record_id", record.ID), slog.Int("player_id", player.ID))
	s.notifier.Publish(player.SportID, EventRecordCreated, models.RecordView{TrainingRecord: *record, PlayerName: player.Name})
	return record, nil
}

func (s *recordService) DeleteRecord(ctx context.Context, scope Scope, id int) error {
	if err := scope.RequireSport(); err != nil {
		return err
	}

	record, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("failed to get training record %d: %w", id, err)
	}
	player, err := s.playerRepo.GetByID(ctx, record.PlayerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("failed to get player %d: %w", record.PlayerID, err)
	}
	if err := scope.CheckSport(player.SportID); err != nil {
		return err
	}

	if err := s.recordRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("failed to delete training record %d: %w", id, err)
	}

	s.notifier.Publish(player.SportID, EventRecordDeleted, deletedPayload{ID: id})
	return nil
}
