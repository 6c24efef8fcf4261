package models

import "time"

// TrainingRecord представляет оценку игрока за тренировку.
// PlanID равен nil, если запись не привязана к плану.
type TrainingRecord struct {
	ID         int       `json:"id" db:"id"`
	PlayerID   int       `json:"player_id" db:"player_id"`
	PlanID     *int      `json:"plan_id,omitempty" db:"plan_id"`
	Score      int       `json:"score" db:"score"`
	Notes      string    `json:"notes" db:"notes"`
	RecordTime time.Time `json:"record_time" db:"record_time"`
}

// RecordView is a record joined with its player and plan names.
type RecordView struct {
	TrainingRecord
	PlayerName string  `json:"player_name"`
	PlanTitle  *string `json:"plan_title,omitempty"`
}
