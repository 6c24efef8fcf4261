package models

import "time"

// FoodRecord представляет запись о съеденной пище пользователя.
type FoodRecord struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	FoodName  string    `json:"food_name" db:"food_name"`
	Calories  float64   `json:"calories" db:"calories"`
	Weight    float64   `json:"weight" db:"weight"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	ImageKey *string `json:"-" db:"image_path"`
	ImageURL *string `json:"image_url,omitempty" db:"-"`
}
