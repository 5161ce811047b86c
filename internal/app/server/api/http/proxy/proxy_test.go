package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"timekeeper/internal/domain/longpoll"
)

func newHandler(upstream string) (*Handler, *longpoll.Hub) {
	hub := longpoll.NewHub(slog.Default())
	return NewHandler(upstream, hub, slog.Default()), hub
}

func TestPullStatusForwardsBodyAndStatus(t *testing.T) {
	var received string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sync/pull-status", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		received = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"users":{"data":[]}}`))
	}))
	defer upstream.Close()

	h, hub := newHandler(upstream.URL)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sync/pull-status",
		strings.NewReader(`{"deviceAuthToken":"tok1"}`))
	h.PullStatus(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, received, "tok1")
	assert.JSONEq(t, `{"users":{"data":[]}}`, rec.Body.String())

	// Pull не рассылает событий.
	assert.Zero(t, hub.LastID())
}

func TestPushActionsBroadcastsOnSuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	h, hub := newHandler(upstream.URL)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sync/push-actions", strings.NewReader(`{}`))
	h.PushActions(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), hub.LastID())
}

func TestPushActionsNoBroadcastOnFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer upstream.Close()

	h, hub := newHandler(upstream.URL)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sync/push-actions", strings.NewReader(`{}`))
	h.PushActions(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, hub.LastID())
}

func TestForwardUnreachableUpstream(t *testing.T) {
	h, _ := newHandler("http://127.0.0.1:1")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sync/pull-status", strings.NewReader(`{}`))
	h.PullStatus(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSetServerSwitchesUpstream(t *testing.T) {
	h, _ := newHandler("http://old.example.com")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/set-server",
		strings.NewReader(`{"url":"http://new.example.com"}`))
	h.SetServer(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://new.example.com", h.Upstream())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestSetServerRejectsEmptyURL(t *testing.T) {
	h, _ := newHandler("http://old.example.com")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/set-server", strings.NewReader(`{}`))
	h.SetServer(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "http://old.example.com", h.Upstream())
}
