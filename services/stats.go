package services

import (
	"math"
	"sort"

	"github.com/Dosada05/team-manager/models"
)

const (
	MinScore = 1
	MaxScore = 10
)

// AverageScore returns the mean rounded to one decimal, or 0 for no scores.
func AverageScore(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return roundOne(float64(sum) / float64(len(scores)))
}

// OverallAverage is the dashboard average of a sport. Records scored 0 are
// treated as not rated and left out.
func OverallAverage(scores []int) float64 {
	rated := make([]int, 0, len(scores))
	for _, s := range scores {
		if s != 0 {
			rated = append(rated, s)
		}
	}
	return AverageScore(rated)
}

func roundOne(x float64) float64 {
	return math.Round(x*10) / 10
}

func PositionHistogram(players []models.Player) map[string]int {
	counts := make(map[string]int)
	for _, p := range players {
		counts[p.Position]++
	}
	return counts
}

// MonthlyPlanHistogram groups plans by "YYYY-MM" of their plan date.
func MonthlyPlanHistogram(plans []models.TrainingPlan) map[string]int {
	counts := make(map[string]int)
	for _, p := range plans {
		counts[p.PlanDate.Format("2006-01")]++
	}
	return counts
}

// ScoreHistogram counts scores into buckets 1..10. Every bucket is present;
// out-of-range scores are skipped.
func ScoreHistogram(scores []int) map[int]int {
	counts := make(map[int]int, MaxScore-MinScore+1)
	for i := MinScore; i <= MaxScore; i++ {
		counts[i] = 0
	}
	for _, s := range scores {
		if s < MinScore || s > MaxScore {
			continue
		}
		counts[s]++
	}
	return counts
}

// RankPlayers keeps players with at least one record, best average first.
func RankPlayers(summaries []models.PlayerSummary) []models.PlayerSummary {
	ranked := make([]models.PlayerSummary, 0, len(summaries))
	for _, s := range summaries {
		if s.TrainingCount > 0 {
			ranked = append(ranked, s)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AverageScore > ranked[j].AverageScore
	})
	return ranked
}

// summarize attaches aggregates to players from a flat list of scores.
func summarize(players []models.Player, scores map[int][]int) []models.PlayerSummary {
	out := make([]models.PlayerSummary, 0, len(players))
	for _, p := range players {
		s := scores[p.ID]
		out = append(out, models.PlayerSummary{
			Player:        p,
			AverageScore:  AverageScore(s),
			TrainingCount: len(s),
		})
	}
	return out
}
