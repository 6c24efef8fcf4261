package models

import "time"

// Player представляет спортсмена, закреплённого за одним видом спорта.
type Player struct {
	ID       int       `json:"id" db:"id"`
	Name     string    `json:"name" db:"name"`
	Number   int       `json:"number" db:"number"`
	Position string    `json:"position" db:"position"`
	Age      int       `json:"age" db:"age"`
	Height   float64   `json:"height" db:"height"`
	Weight   float64   `json:"weight" db:"weight"`
	JoinDate time.Time `json:"join_date" db:"join_date"`
	SportID  int       `json:"sport_id" db:"sport_id"`

	AvatarKey *string `json:"-" db:"avatar"`
	AvatarURL *string `json:"avatar_url,omitempty" db:"-"`
}

// PlayerSummary is a player together with its training aggregates.
type PlayerSummary struct {
	Player
	AverageScore  float64 `json:"average_score"`
	TrainingCount int     `json:"training_count"`
}

type PlayerDetail struct {
	PlayerSummary
	Records []RecordView `json:"records"`
}
