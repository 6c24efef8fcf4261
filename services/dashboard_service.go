package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/team-manager/models"
	"github.com/Dosada05/team-manager/repositories"
	"github.com/Dosada05/team-manager/storage"
)

// Размеры списков на главной странице.
const (
	homeLatestRecords = 5
	homeLatestPlayers = 3
	homeLatestPlans   = 3
	homeLatestFoods   = 3
)

type DashboardService interface {
	GetStats(ctx context.Context, scope Scope) (models.DashboardStats, error)
	GetHome(ctx context.Context, scope Scope) (*models.Home, error)
}

type dashboardService struct {
	sportRepo  repositories.SportRepository
	playerRepo repositories.PlayerRepository
	planRepo   repositories.PlanRepository
	recordRepo repositories.RecordRepository
	foodRepo   repositories.FoodRecordRepository
	uploader   storage.FileUploader
}

func NewDashboardService(
	sportRepo repositories.SportRepository,
	playerRepo repositories.PlayerRepository,
	planRepo repositories.PlanRepository,
	recordRepo repositories.RecordRepository,
	foodRepo repositories.FoodRecordRepository,
	uploader storage.FileUploader,
) DashboardService {
	return &dashboardService{
		sportRepo:  sportRepo,
		playerRepo: playerRepo,
		planRepo:   planRepo,
		recordRepo: recordRepo,
		foodRepo:   foodRepo,
		uploader:   uploader,
	}
}

// GetStats counts the entities of the active sport and user. The counts run
// concurrently against the same store.
func (s *dashboardService) GetStats(ctx context.Context, scope Scope) (models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := scope.RequireSport(); err != nil {
		return stats, err
	}

	var scores []repositories.PlayerScore
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.PlayersTotal, err = s.playerRepo.CountBySport(gctx, scope.SportID)
		return err
	})
	g.Go(func() (err error) {
		stats.PlansTotal, err = s.planRepo.CountBySport(gctx, scope.SportID)
		return err
	})
	g.Go(func() (err error) {
		stats.RecordsTotal, err = s.recordRepo.CountBySport(gctx, scope.SportID)
		return err
	})
	g.Go(func() (err error) {
		stats.FoodRecordsTotal, err = s.foodRepo.CountByUser(gctx, scope.UserID)
		return err
	})
	g.Go(func() (err error) {
		scores, err = s.recordRepo.ScoresBySport(gctx, scope.SportID)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, fmt.Errorf("failed to load dashboard counts: %w", err)
	}

	stats.AverageScore = OverallAverage(flattenScores(scores))
	return stats, nil
}

func (s *dashboardService) GetHome(ctx context.Context, scope Scope) (*models.Home, error) {
	stats, err := s.GetStats(ctx, scope)
	if err != nil {
		return nil, err
	}

	home := &models.Home{Stats: stats}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		home.Sport, err = s.sportRepo.GetByID(gctx, scope.SportID)
		return err
	})
	g.Go(func() (err error) {
		home.LatestRecords, err = s.recordRepo.ListLatestBySport(gctx, scope.SportID, homeLatestRecords)
		return err
	})
	g.Go(func() (err error) {
		home.LatestPlayers, err = s.playerRepo.ListLatestBySport(gctx, scope.SportID, homeLatestPlayers)
		return err
	})
	g.Go(func() (err error) {
		home.LatestPlans, err = s.planRepo.ListLatestBySport(gctx, scope.SportID, homeLatestPlans)
		return err
	})
	g.Go(func() (err error) {
		home.LatestFoods, err = s.foodRepo.ListLatestByUser(gctx, scope.UserID, homeLatestFoods)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load home view: %w", err)
	}

	playerAvatars{uploader: s.uploader, sports: s.sportRepo}.fillAll(ctx, home.LatestPlayers)
	populateFoodListImageURLs(home.LatestFoods, s.uploader)
	return home, nil
}
