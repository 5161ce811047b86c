package longpoll

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

// Hub раздает сигналы обновления всем long-poll клиентам. Хранится только
// последнее событие: клиентам важен сам факт изменения, не история.
type Hub struct {
	mu   sync.Mutex
	last Event
	wake chan struct{}
	log  *slog.Logger
}

type Event struct {
	ID    int64  `json:"id"`
	Event string `json:"event"`
	Data  string `json:"data"`
	TS    int64  `json:"ts"`
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		wake: make(chan struct{}),
		log:  log.With(slog.String("component", "longpoll")),
	}
}

// Broadcast фиксирует событие и будит всех ожидающих.
func (h *Hub) Broadcast(event, data string) {
	h.mu.Lock()
	h.last = Event{
		ID:    h.last.ID + 1,
		Event: event,
		Data:  data,
		TS:    time.Now().UnixMilli(),
	}
	close(h.wake)
	h.wake = make(chan struct{})
	h.mu.Unlock()

	h.log.Debug("событие разослано", slog.String("event", event), slog.String("data", data))
}

// Wait блокируется до события с id больше sinceID либо до истечения
// таймаута. Второй результат false означает таймаут без события.
func (h *Hub) Wait(ctx context.Context, sinceID int64, timeout time.Duration) (Event, bool) {
	h.mu.Lock()
	last, wake := h.last, h.wake
	h.mu.Unlock()

	if last.ID > sinceID && last.Event != "" {
		return last, true
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-wake:
	case <-timer.C:
		return Event{ID: last.ID}, false
	case <-ctx.Done():
		return Event{ID: last.ID}, false
	}

	h.mu.Lock()
	last = h.last
	h.mu.Unlock()

	if last.ID > sinceID && last.Event != "" {
		return last, true
	}
	return Event{ID: last.ID}, false
}

// LastID возвращает идентификатор последнего события.
func (h *Hub) LastID() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last.ID
}
