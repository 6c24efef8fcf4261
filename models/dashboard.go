package models

type DashboardStats struct {
	PlayersTotal     int     `json:"players_total"`
	PlansTotal       int     `json:"plans_total"`
	RecordsTotal     int     `json:"records_total"`
	FoodRecordsTotal int     `json:"food_records_total"`
	AverageScore     float64 `json:"average_score"`
}

// Home is the landing view for a user with an active sport.
type Home struct {
	Sport         *Sport         `json:"sport"`
	Stats         DashboardStats `json:"stats"`
	LatestRecords []RecordView   `json:"latest_records"`
	LatestPlayers []Player       `json:"latest_players"`
	LatestPlans   []TrainingPlan `json:"latest_plans"`
	LatestFoods   []FoodRecord   `json:"latest_food_records"`
}

// Stats holds the histograms and ranking of one sport.
type Stats struct {
	Players        []PlayerSummary `json:"players"`
	PositionCounts map[string]int  `json:"position_stats"`
	MonthlyPlans   map[string]int  `json:"plan_stats"`
	ScoreCounts    map[int]int     `json:"score_stats"`
	Ranking        []PlayerSummary `json:"ranked_players"`
}
