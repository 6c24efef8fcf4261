package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/team-manager/models"
	"github.com/Dosada05/team-manager/repositories"
)

type SportService interface {
	GetAllSports(ctx context.Context, scope Scope) ([]models.Sport, error)
	GetSportByID(ctx context.Context, id int) (*models.Sport, error)
	SelectSport(ctx context.Context, scope Scope, sportID int) (*models.Sport, error)
	SeedDefaults(ctx context.Context) (int, error)
}

type sportService struct {
	sportRepo repositories.SportRepository
	logger    *slog.Logger
}

func NewSportService(sportRepo repositories.SportRepository, logger *slog.Logger) SportService {
	return &sportService{
		sportRepo: sportRepo,
		logger:    logger,
	}
}

func (s *sportService) GetAllSports(ctx context.Context, scope Scope) ([]models.Sport, error) {
	if err := scope.RequireUser(); err != nil {
		return nil, err
	}
	sports, err := s.sportRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all sports: %w", err)
	}
	if sports == nil {
		return []models.Sport{}, nil
	}
	return sports, nil
}

func (s *sportService) GetSportByID(ctx context.Context, id int) (*models.Sport, error) {
	sport, err := s.sportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSportNotFound) {
			return nil, ErrSportNotFound
		}
		return nil, fmt.Errorf("failed to get sport by id %d: %w", id, err)
	}
	return sport, nil
}

// SelectSport validates the sport a user wants to make active.
// Storing the choice in the session is up to the caller.
func (s *sportService) SelectSport(ctx context.Context, scope Scope, sportID int) (*models.Sport, error) {
	if err := scope.RequireUser(); err != nil {
		return nil, err
	}
	return s.GetSportByID(ctx, sportID)
}

// SeedDefaults inserts the missing default sports and reports how many were added.
func (s *sportService) SeedDefaults(ctx context.Context) (int, error) {
	added := 0
	for _, def := range models.DefaultSports {
		exists, err := s.sportRepo.ExistsByName(ctx, def.Name)
		if err != nil {
			return added, fmt.Errorf("failed to check sport %q: %w", def.Name, err)
		}
		if exists {
			continue
		}

		sport := def
		if err := s.sportRepo.Create(ctx, &sport); err != nil {
			if errors.Is(err, repositories.ErrSportNameConflict) {
				continue
			}
			return added, fmt.Errorf("failed to seed sport %q: %w", def.Name, err)
		}
		added++
		s.logger.InfoContext(ctx, "Sport seeded", slog.Int("sport_id", sport.ID), slog.String("name", sport.Name))
	}
	return added, nil
}
