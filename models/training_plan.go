package models

import "time"

// PlanDateLayout is the wire format of TrainingPlan.PlanDate.
const PlanDateLayout = "2006-01-02"

// TrainingPlan представляет план тренировки для вида спорта.
type TrainingPlan struct {
	ID        int       `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	PlanDate  time.Time `json:"plan_date" db:"plan_date"`
	SportID   int       `json:"sport_id" db:"sport_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type PlanDetail struct {
	TrainingPlan
	Records []RecordView `json:"records"`
}
