package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/team-manager/services"
	"github.com/Dosada05/team-manager/sessions"
)

type contextKey string

const (
	scopeContextKey     contextKey = "scope"
	sessionIDContextKey contextKey = "session_id"
)

// Пути, куда клиенту следует перейти, если guard не пропустил запрос.
const (
	RedirectLogin  = "/login"
	RedirectSports = "/sports"
)

// SessionLoader loads the server side session named by the request.
type SessionLoader interface {
	Load(r *http.Request) (string, *sessions.State, error)
}

// Session puts the request Scope into the context. Requests without a valid
// session get an empty Scope; guards decide what to do with them.
func Session(loader SessionLoader, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			id, state, err := loader.Load(r)
			switch {
			case err == nil:
				ctx = context.WithValue(ctx, sessionIDContextKey, id)
				ctx = context.WithValue(ctx, scopeContextKey, services.Scope{
					UserID:  state.UserID,
					SportID: state.CurrentSportID,
				})
			case !errors.Is(err, sessions.ErrSessionNotFound):
				logger.Error("failed to load session", slog.String("path", r.URL.Path), slog.Any("error", err))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetScope returns the Scope stored by Session, or an empty Scope.
func GetScope(ctx context.Context) services.Scope {
	scope, _ := ctx.Value(scopeContextKey).(services.Scope)
	return scope
}

// GetSessionID returns the current session id, empty when there is no session.
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDContextKey).(string)
	return id
}

// WithScope returns a copy of ctx carrying scope and session id.
func WithScope(ctx context.Context, sessionID string, scope services.Scope) context.Context {
	ctx = context.WithValue(ctx, sessionIDContextKey, sessionID)
	return context.WithValue(ctx, scopeContextKey, scope)
}

// RequireUser rejects requests without a logged in user.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := GetScope(r.Context()).RequireUser(); err != nil {
			guardResponse(w, http.StatusUnauthorized, "authentication required", RedirectLogin)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSport rejects requests without a user or without an active sport.
func RequireSport(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := GetScope(r.Context()).RequireSport()
		switch {
		case errors.Is(err, services.ErrUnauthenticated):
			guardResponse(w, http.StatusUnauthorized, "authentication required", RedirectLogin)
			return
		case errors.Is(err, services.ErrNoActiveSport):
			guardResponse(w, http.StatusConflict, "no active sport selected", RedirectSports)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func guardResponse(w http.ResponseWriter, status int, message, redirect string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":    message,
		"redirect": redirect,
	})
}
