package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/team-manager/models"
	"github.com/Dosada05/team-manager/repositories"
)

type PlanService interface {
	ListPlans(ctx context.Context, scope Scope) ([]models.TrainingPlan, error)
	GetPlan(ctx context.Context, scope Scope, id int) (*models.PlanDetail, error)
	CreatePlan(ctx context.Context, scope Scope, input PlanInput) (*models.TrainingPlan, error)
	UpdatePlan(ctx context.Context, scope Scope, id int, input PlanInput) (*models.TrainingPlan, error)
	DeletePlan(ctx context.Context, scope Scope, id int) error
}

type PlanInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	PlanDate string `json:"plan_date"` // YYYY-MM-DD
}

type planService struct {
	planRepo   repositories.PlanRepository
	recordRepo repositories.RecordRepository
	notifier   Notifier
	logger     *slog.Logger
}

func NewPlanService(
	planRepo repositories.PlanRepository,
	recordRepo repositories.RecordRepository,
	notifier Notifier,
	logger *slog.Logger,
) PlanService {
	return &planService{
		planRepo:   planRepo,
		recordRepo: recordRepo,
		notifier:   notifierOrNop(notifier),
		logger:     logger,
	}
}

func (s *planService) ListPlans(ctx context.Context, scope Scope) ([]models.TrainingPlan, error) {
	if err := scope.RequireSport(); err != nil {
		return nil, err
	}
	plans, err := s.planRepo.ListBySport(ctx, scope.SportID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans for sport %d: %w", scope.SportID, err)
	}
	return plans, nil
}

func (s *planService) GetPlan(ctx context.Context, scope Scope, id int) (*models.PlanDetail, error) {
	plan, err := s.loadPlan(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	records, err := s.recordRepo.ListByPlan(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list records for plan %d: %w", id, err)
	}
	return &models.PlanDetail{TrainingPlan: *plan, Records: records}, nil
}

func (s *planService) CreatePlan(ctx context.Context, scope Scope, input PlanInput) (*models.TrainingPlan, error) {
	if err := scope.RequireSport(); err != nil {
		return nil, err
	}

	plan := &models.TrainingPlan{SportID: scope.SportID}
	if err := applyPlanInput(plan, input); err != nil {
		return nil, err
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		if errors.Is(err, repositories.ErrPlanSportInvalid) {
			return nil, ErrSportNotFound
		}
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	s.logger.InfoContext(ctx, "Training plan created", slog.Int("plan_id", plan.ID), slog.Int("sport_id", plan.SportID))
	s.notifier.Publish(plan.SportID, EventPlanCreated, plan)
	return plan, nil
}

func (s *planService) UpdatePlan(ctx context.Context, scope Scope, id int, input PlanInput) (*models.TrainingPlan, error) {
	plan, err := s.loadPlan(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := applyPlanInput(plan, input); err != nil {
		return nil, err
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		if errors.Is(err, repositories.ErrPlanNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to update plan %d: %w", id, err)
	}

	s.notifier.Publish(plan.SportID, EventPlanUpdated, plan)
	return plan, nil
}

// DeletePlan удаляет план вместе с его записями; записи без плана не затрагиваются.
func (s *planService) DeletePlan(ctx context.Context, scope Scope, id int) error {
	plan, err := s.loadPlan(ctx, scope, id)
	if err != nil {
		return err
	}
	if err := s.planRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPlanNotFound) {
			return ErrPlanNotFound
		}
		return fmt.Errorf("failed to delete plan %d: %w", id, err)
	}

	s.logger.InfoContext(ctx, "Training plan deleted", slog.Int("plan_id", id), slog.Int("sport_id", plan.SportID))
	s.notifier.Publish(plan.SportID, EventPlanDeleted, deletedPayload{ID: id})
	return nil
}

func (s *planService) loadPlan(ctx context.Context, scope Scope, id int) (*models.TrainingPlan, error) {
	if err := scope.RequireSport(); err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlanNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan %d: %w", id, err)
	}
	if err := scope.CheckSport(plan.SportID); err != nil {
		return nil, err
	}
	return plan, nil
}

func applyPlanInput(plan *models.TrainingPlan, input PlanInput) error {
	title, err := requireText("title", input.Title)
	if err != nil {
		return err
	}
	date, err := time.Parse(models.PlanDateLayout, strings.TrimSpace(input.PlanDate))
	if err != nil {
		return ErrInvalidPlanDate
	}
	plan.Title = title
	plan.Content = input.Content
	plan.PlanDate = date
	return nil
}
