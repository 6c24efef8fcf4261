package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/team-manager/services"
	"github.com/Dosada05/team-manager/sessions"
	"github.com/Dosada05/team-manager/testutil"
)

type stubLoader struct {
	id    string
	state *sessions.State
	err   error
}

func (s stubLoader) Load(*http.Request) (string, *sessions.State, error) {
	return s.id, s.state, s.err
}

func scopeRecorder(got *services.Scope, gotID *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = GetScope(r.Context())
		*gotID = GetSessionID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestSessionPutsScopeIntoContext(t *testing.T) {
	var scope services.Scope
	var id string
	loader := stubLoader{id: "sid", state: &sessions.State{UserID: 4, CurrentSportID: 2}}
	h := Session(loader, testutil.NopLogger())(scopeRecorder(&scope, &id))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, services.Scope{UserID: 4, SportID: 2}, scope)
	assert.Equal(t, "sid", id)
}

func TestSessionWithoutSessionGivesEmptyScope(t *testing.T) {
	for _, loadErr := range []error{sessions.ErrSessionNotFound, errors.New("redis down")} {
		var scope services.Scope
		var id string
		h := Session(stubLoader{err: loadErr}, testutil.NopLogger())(scopeRecorder(&scope, &id))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, services.Scope{}, scope)
		assert.Empty(t, id)
	}
}

func TestGuards(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	cases := []struct {
		name     string
		guard    func(http.Handler) http.Handler
		scope    services.Scope
		status   int
		redirect string
	}{
		{"user guard without user", RequireUser, services.Scope{}, http.StatusUnauthorized, RedirectLogin},
		{"user guard with user", RequireUser, services.Scope{UserID: 1}, http.StatusOK, ""},
		{"sport guard without user", RequireSport, services.Scope{SportID: 3}, http.StatusUnauthorized, RedirectLogin},
		{"sport guard without sport", RequireSport, services.Scope{UserID: 1}, http.StatusConflict, RedirectSports},
		{"sport guard with sport", RequireSport, services.Scope{UserID: 1, SportID: 3}, http.StatusOK, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(WithScope(req.Context(), "sid", tc.scope))
			rec := httptest.NewRecorder()

			tc.guard(ok).ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			if tc.redirect != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tc.redirect, body["redirect"])
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/players", nil))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/api/players", entry["path"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
}
