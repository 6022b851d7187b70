package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/channels/logs/messages", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"m1","content":"code: deadbeef","createdAt":"2026-10-01T10:00:00Z"}]`))
	})
	mux.HandleFunc("/channels/chan-a", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"chan-a"}`))
	})
	mux.HandleFunc("/members/u1/roles", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"roles":["r-rioace","r-other"]}`))
	})
	mux.HandleFunc("/channels/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_RecentMessages(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL+"/", "secret", 0, zerolog.Nop())

	msgs, err := c.RecentMessages(context.Background(), "logs", 100)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "code: deadbeef", msgs[0].Content)
	assert.True(t, msgs[0].CreatedAt.Equal(time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)))
}

func TestClient_RecentMessagesUnauthorized(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, "wrong", 0, zerolog.Nop())

	_, err := c.RecentMessages(context.Background(), "logs", 100)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestClient_ChannelExists(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, "secret", 0, zerolog.Nop())
	ctx := context.Background()

	ok, err := c.ChannelExists(ctx, "chan-a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.ChannelExists(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.ChannelExists(ctx, "broken")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestClient_MemberHasRole(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, "secret", 0, zerolog.Nop())
	ctx := context.Background()

	ok, err := c.MemberHasRole(ctx, "u1", "r-rioace")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.MemberHasRole(ctx, "u1", "r-betx")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.MemberHasRole(ctx, "nobody", "r-rioace")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, "secret", 0.001, zerolog.Nop())

	_, err := c.ChannelExists(context.Background(), "chan-a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.ChannelExists(ctx, "chan-a")
	assert.Error(t, err)
}
