// Package sessions keeps server-side session state. The browser only holds a
// signed token naming the session.
package sessions

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// State is everything remembered between requests of one browser session.
type State struct {
	UserID         int `json:"user_id"`
	CurrentSportID int `json:"current_sport_id"`
}

type Store interface {
	Get(ctx context.Context, id string) (*State, error)
	// Save stores the state and restarts its expiry.
	Save(ctx context.Context, id string, state State) error
	Delete(ctx context.Context, id string) error
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}
