package sessions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RedisStoreSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	store *RedisStore
	ctx   context.Context
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	s.store = NewRedisStoreWithClient(client, time.Hour)
	s.ctx = context.Background()
}

func (s *RedisStoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func (s *RedisStoreSuite) TestSaveAndGet() {
	s.Require().NoError(s.store.Save(s.ctx, "abc", State{UserID: 3, CurrentSportID: 2}))

	state, err := s.store.Get(s.ctx, "abc")
	s.Require().NoError(err)
	s.Equal(State{UserID: 3, CurrentSportID: 2}, *state)
	s.True(s.mini.Exists("teammgr:session:abc"))
	s.Equal(time.Hour, s.mini.TTL("teammgr:session:abc"))
}

func (s *RedisStoreSuite) TestGetMissing() {
	_, err := s.store.Get(s.ctx, "nope")
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *RedisStoreSuite) TestExpiry() {
	s.Require().NoError(s.store.Save(s.ctx, "abc", State{UserID: 1}))
	s.mini.FastForward(2 * time.Hour)

	_, err := s.store.Get(s.ctx, "abc")
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *RedisStoreSuite) TestDelete() {
	s.Require().NoError(s.store.Save(s.ctx, "abc", State{UserID: 1}))
	s.Require().NoError(s.store.Delete(s.ctx, "abc"))

	_, err := s.store.Get(s.ctx, "abc")
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *RedisStoreSuite) TestNewRedisStoreFromURL() {
	store, err := NewRedisStore(s.ctx, RedisConfig{URL: "redis://" + s.mini.Addr(), TTL: time.Minute})
	s.Require().NoError(err)
	defer store.Close()

	s.Require().NoError(store.Save(s.ctx, "x", State{UserID: 9}))
	state, err := s.store.Get(s.ctx, "x")
	s.Require().NoError(err)
	s.Equal(9, state.UserID)

	_, err = NewRedisStore(s.ctx, RedisConfig{URL: "not a url"})
	s.Error(err)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Hour)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "a", State{UserID: 1, CurrentSportID: 4}))
	state, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 4, state.CurrentSportID)

	// изменение копии не влияет на хранилище
	state.CurrentSportID = 0
	again, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 4, again.CurrentSportID)

	now = now.Add(time.Hour)
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestTokenCodec(t *testing.T) {
	codec := NewTokenCodec([]byte("secret"), time.Hour)

	token, err := codec.Encode("sid-1")
	require.NoError(t, err)

	id, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", id)

	other := NewTokenCodec([]byte("other"), time.Hour)
	_, err = other.Decode(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = codec.Decode("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenCodec([]byte("secret"), time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Encode("sid-2")
	require.NoError(t, err)
	_, err = codec.Decode(old)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManagerLifecycle(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	m := NewManager(store, []byte("secret"), time.Hour, false)

	// без cookie сессии нет
	_, _, err := m.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	require.ErrorIs(t, err, ErrSessionNotFound)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Start(rec, httptest.NewRequest(http.MethodPost, "/login", nil), State{UserID: 7}))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	id, state, err := m.Load(req)
	require.NoError(t, err)
	assert.Equal(t, 7, state.UserID)

	require.NoError(t, m.Update(context.Background(), id, State{UserID: 7, CurrentSportID: 3}))
	_, state, err = m.Load(req)
	require.NoError(t, err)
	assert.Equal(t, 3, state.CurrentSportID)

	out := httptest.NewRecorder()
	require.NoError(t, m.Destroy(out, req))
	assert.Equal(t, -1, out.Result().Cookies()[0].MaxAge)

	_, _, err = m.Load(req)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerStartReplacesPreviousSession(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	m := NewManager(store, []byte("secret"), time.Hour, false)

	first := httptest.NewRecorder()
	require.NoError(t, m.Start(first, httptest.NewRequest(http.MethodPost, "/", nil), State{UserID: 1}))
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(first.Result().Cookies()[0])
	oldID, _, err := m.Load(req)
	require.NoError(t, err)

	require.NoError(t, m.Start(httptest.NewRecorder(), req, State{UserID: 2}))
	_, err = store.Get(context.Background(), oldID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
