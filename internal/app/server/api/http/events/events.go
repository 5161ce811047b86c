package events

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/exp/slog"

	"timekeeper/internal/domain/longpoll"
)

const (
	defaultTimeout = 25 * time.Second
	maxTimeout     = 30 * time.Second
)

// Handler отдает события обновления через long-poll.
type Handler struct {
	hub *longpoll.Hub
	log *slog.Logger
}

func NewHandler(hub *longpoll.Hub, log *slog.Logger) *Handler {
	return &Handler{hub: hub, log: log}
}

// LongPoll держит соединение до события либо таймаута.
// Параметры: since — идентификатор последнего виденного события,
// timeout — секунды ожидания (1..30).
func (h *Handler) LongPoll(w http.ResponseWriter, r *http.Request) {
	since, _ := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)

	timeout := defaultTimeout
	if raw := r.URL.Query().Get("timeout"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil {
			timeout = time.Duration(seconds) * time.Second
		}
	}
	if timeout < time.Second {
		timeout = time.Second
	}
	if timeout > maxTimeout {
		timeout = maxTimeout
	}

	w.Header().Set("Content-Type", "application/json")

	ev, ok := h.hub.Wait(r.Context(), since, timeout)
	if !ok {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "timeout",
			"id":     ev.ID,
		})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "event",
		"id":     ev.ID,
		"event":  ev.Event,
		"data":   ev.Data,
		"ts":     ev.TS,
	})
}
