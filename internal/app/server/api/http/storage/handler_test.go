package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"timekeeper/internal/domain/longpoll"
	"timekeeper/internal/infrastructure/storage/filestore"
)

func newHandler(t *testing.T) (*Handler, *longpoll.Hub) {
	t.Helper()

	log := slog.Default()
	store := filestore.New(filepath.Join(t.TempDir(), "state.json"), log)
	hub := longpoll.NewHub(log)
	return NewHandler(store, hub, log, huma.Middlewares{}), hub
}

func TestHandler_saveAndLoad(t *testing.T) {
	h, hub := newHandler(t)

	out, err := h.save(context.Background(), &saveInput{
		Body: map[string]interface{}{"selected": "srv1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Body.Status)

	// Сохранение рассылает событие storage.
	assert.Equal(t, int64(1), hub.LastID())

	loaded, err := h.load(context.Background(), &loadInput{})
	require.NoError(t, err)
	assert.Equal(t, "srv1", loaded.Body["selected"])
	assert.NotZero(t, loaded.Body["serverTimestamp"])
}

func TestHandler_loadEmpty(t *testing.T) {
	h, _ := newHandler(t)

	loaded, err := h.load(context.Background(), &loadInput{})
	require.NoError(t, err)
	assert.Equal(t, "empty", loaded.Body["status"])
}
