package workspace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"linkdash/internal/config"
	"linkdash/internal/logger"
	"linkdash/internal/mocks"
	"linkdash/internal/poller"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T, opts ...func(*config.Config)) *Registry {
	cfg := config.NewConfig()
	cfg.SessionHashKey = "very-very-very-very-secret-key32"
	cfg.SessionBlockKey = "a-lot-of-secret!"
	cfg.PollInterval = config.Duration(time.Hour)
	for _, opt := range opts {
		opt(cfg)
	}

	api := mocks.NewMockAPI(gomock.NewController(t))
	reg := NewRegistry(cfg, api, logger.NewNop())
	t.Cleanup(reg.Close)
	return reg
}

func withCookie(res *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Cookie", res.Header().Get("Set-Cookie"))
	return req
}

func TestFromRequestCreatesSession(t *testing.T) {
	reg := newRegistry(t)
	res := httptest.NewRecorder()

	ws, err := reg.FromRequest(res, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NotNil(t, ws)
	assert.NotEmpty(t, ws.ID)
	assert.Contains(t, res.Header().Get("Set-Cookie"), CookieName)
	assert.Equal(t, 1, reg.Len())

	snap := ws.Form.Snapshot()
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, 30, snap.Entries[0].ValidityMinutes)
	assert.Equal(t, 5, snap.Limits.MaxEntries)
	assert.Equal(t, poller.StateIdle, ws.Poller.State())
}

func TestFromRequestReusesSession(t *testing.T) {
	reg := newRegistry(t)
	res := httptest.NewRecorder()

	first, err := reg.FromRequest(res, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	again := httptest.NewRecorder()
	second, err := reg.FromRequest(again, withCookie(res))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Empty(t, again.Header().Get("Set-Cookie"), "no new cookie for a known session")
	assert.Equal(t, 1, reg.Len())
}

func TestFromRequestTamperedCookie(t *testing.T) {
	reg := newRegistry(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "forged"})
	_, err := reg.sessionID(req)
	require.ErrorIs(t, err, ErrNoSession)

	res := httptest.NewRecorder()
	ws, err := reg.FromRequest(res, req)
	require.NoError(t, err)
	assert.NotNil(t, ws)
	assert.NotEmpty(t, res.Header().Get("Set-Cookie"), "a fresh session replaces the forged one")
}

func TestSessionsAreIsolated(t *testing.T) {
	reg := newRegistry(t)

	a, err := reg.FromRequest(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	b, err := reg.FromRequest(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	_, err = a.Form.AddEntry()
	require.NoError(t, err)
	assert.Len(t, b.Form.Snapshot().Entries, 1)
	assert.Equal(t, 2, reg.Len())
}

func TestSweepEvictsIdleAndClosesPoller(t *testing.T) {
	reg := newRegistry(t)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	res := httptest.NewRecorder()
	idle, err := reg.FromRequest(res, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	h := idle.Poller.Start()

	now = now.Add(20 * time.Minute)
	active, err := reg.FromRequest(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, reg.Sweep())
	assert.Equal(t, 1, reg.Len())

	assert.Equal(t, poller.StateIdle, idle.Poller.State())
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("poller of evicted workspace still running")
	}

	again, err := reg.FromRequest(httptest.NewRecorder(), withCookie(res))
	require.NoError(t, err)
	assert.NotSame(t, idle, again, "evicted session starts over")
	assert.NotSame(t, active, again)
}

func TestFromRequestEvictsLeastRecentWhenFull(t *testing.T) {
	reg := newRegistry(t, func(c *config.Config) { c.MaxSessions = 2 })
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	firstRes := httptest.NewRecorder()
	first, err := reg.FromRequest(firstRes, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	h := first.Poller.Start()

	now = now.Add(time.Minute)
	secondRes := httptest.NewRecorder()
	second, err := reg.FromRequest(secondRes, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	// cookieless clients keep arriving; the registry stays bounded
	for i := 0; i < 10; i++ {
		now = now.Add(time.Minute)
		_, err := reg.FromRequest(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/stats", nil))
		require.NoError(t, err)
		assert.LessOrEqual(t, reg.Len(), 2)
	}

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("poller of evicted workspace still running")
	}

	again, err := reg.FromRequest(httptest.NewRecorder(), withCookie(secondRes))
	require.NoError(t, err)
	assert.NotSame(t, second, again, "evicted session starts over")
}

func TestFromRequestKeepsRecentlySeenWhenFull(t *testing.T) {
	reg := newRegistry(t, func(c *config.Config) { c.MaxSessions = 2 })
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	firstRes := httptest.NewRecorder()
	first, err := reg.FromRequest(firstRes, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = reg.FromRequest(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	// first is used again, so the second one is now the oldest
	now = now.Add(time.Minute)
	_, err = reg.FromRequest(httptest.NewRecorder(), withCookie(firstRes))
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = reg.FromRequest(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	kept, err := reg.FromRequest(httptest.NewRecorder(), withCookie(firstRes))
	require.NoError(t, err)
	assert.Same(t, first, kept)
}

func TestRunStopsOnContext(t *testing.T) {
	reg := newRegistry(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		reg.Run(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}

func TestCloseTearsDownEverything(t *testing.T) {
	reg := newRegistry(t)

	ws, err := reg.FromRequest(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	h := ws.Poller.Start()

	done := make(chan struct{})
	go func() {
		reg.Run(context.Background(), time.Hour)
		close(done)
	}()

	reg.Close()
	<-h.Done()
	<-done
	assert.Zero(t, reg.Len())

	_, err = reg.FromRequest(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, http.ErrServerClosed)

	reg.Close()
}
