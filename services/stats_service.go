package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/team-manager/models"
	"github.com/Dosada05/team-manager/repositories"
	"github.com/Dosada05/team-manager/storage"
)

type StatsService interface {
	GetStats(ctx context.Context, scope Scope) (*models.Stats, error)
}

type statsService struct {
	playerRepo repositories.PlayerRepository
	planRepo   repositories.PlanRepository
	recordRepo repositories.RecordRepository
	avatars    playerAvatars
}

func NewStatsService(
	sportRepo repositories.SportRepository,
	playerRepo repositories.PlayerRepository,
	planRepo repositories.PlanRepository,
	recordRepo repositories.RecordRepository,
	uploader storage.FileUploader,
) StatsService {
	return &statsService{
		playerRepo: playerRepo,
		planRepo:   planRepo,
		recordRepo: recordRepo,
		avatars:    playerAvatars{uploader: uploader, sports: sportRepo},
	}
}

func (s *statsService) GetStats(ctx context.Context, scope Scope) (*models.Stats, error) {
	if err := scope.RequireSport(); err != nil {
		return nil, err
	}

	var (
		players []models.Player
		plans   []models.TrainingPlan
		scores  []repositories.PlayerScore
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		players, err = s.playerRepo.ListBySport(gctx, scope.SportID)
		return err
	})
	g.Go(func() (err error) {
		plans, err = s.planRepo.ListBySport(gctx, scope.SportID)
		return err
	})
	g.Go(func() (err error) {
		scores, err = s.recordRepo.ScoresBySport(gctx, scope.SportID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load statistics for sport %d: %w", scope.SportID, err)
	}

	s.avatars.fillAll(ctx, players)
	summaries := summarize(players, groupScores(scores))
	return &models.Stats{
		Players:        summaries,
		PositionCounts: PositionHistogram(players),
		MonthlyPlans:   MonthlyPlanHistogram(plans),
		ScoreCounts:    ScoreHistogram(flattenScores(scores)),
		Ranking:        RankPlayers(summaries),
	}, nil
}
