package sessions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const CookieName = "session"

// Manager binds a Store to the session cookie.
type Manager struct {
	store  Store
	codec  *TokenCodec
	ttl    time.Duration
	secure bool
}

func NewManager(store Store, secret []byte, ttl time.Duration, secureCookie bool) *Manager {
	return &Manager{
		store:  store,
		codec:  NewTokenCodec(secret, ttl),
		ttl:    ttl,
		secure: secureCookie,
	}
}

// Load returns the session named by the request cookie.
// ErrSessionNotFound is returned for a missing, invalid or expired session.
func (m *Manager) Load(r *http.Request) (string, *State, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", nil, ErrSessionNotFound
	}
	id, err := m.codec.Decode(cookie.Value)
	if err != nil {
		return "", nil, ErrSessionNotFound
	}
	state, err := m.store.Get(r.Context(), id)
	if err != nil {
		return "", nil, err
	}
	return id, state, nil
}

// Start creates a new session (dropping the previous one, if any) and sets the cookie.
func (m *Manager) Start(w http.ResponseWriter, r *http.Request, state State) error {
	if oldID, _, err := m.Load(r); err == nil {
		_ = m.store.Delete(r.Context(), oldID)
	}

	id := NewID()
	if err := m.store.Save(r.Context(), id, state); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	token, err := m.codec.Encode(id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) Update(ctx context.Context, id string, state State) error {
	if err := m.store.Save(ctx, id, state); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

// Destroy removes the whole session and clears the cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	var err error
	if id, _, loadErr := m.Load(r); loadErr == nil {
		err = m.store.Delete(r.Context(), id)
	} else if !errors.Is(loadErr, ErrSessionNotFound) {
		err = loadErr
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return err
}
