package proxy

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"timekeeper/internal/domain/longpoll"
)

// Handler пробрасывает запросы синхронизации на внешний сервер семьи.
// Адрес сервера можно переключать на лету через /set-server.
type Handler struct {
	mu       sync.RWMutex
	upstream string
	client   *http.Client
	hub      *longpoll.Hub
	log      *slog.Logger
}

func NewHandler(upstream string, hub *longpoll.Hub, log *slog.Logger) *Handler {
	return &Handler{
		upstream: upstream,
		client:   &http.Client{Timeout: 10 * time.Second},
		hub:      hub,
		log:      log.With(slog.String("component", "proxy")),
	}
}

// Upstream возвращает текущий адрес сервера семьи.
func (h *Handler) Upstream() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.upstream
}

// PullStatus пробрасывает запрос полного снимка семьи.
func (h *Handler) PullStatus(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, "/sync/pull-status", false)
}

// PushActions пробрасывает пакет действий; при успехе остальные
// клиенты получают сигнал перечитать состояние.
func (h *Handler) PushActions(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, "/sync/push-actions", true)
}

// SetServer переключает адрес сервера семьи.
func (h *Handler) SetServer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	h.upstream = req.URL
	h.mu.Unlock()

	h.log.Info("сервер семьи переключен", slog.String("url", req.URL))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "server": req.URL})
}

func (h *Handler) forward(w http.ResponseWriter, r *http.Request, path string, broadcast bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request", http.StatusBadRequest)
		return
	}

	target := h.Upstream() + path
	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		http.Error(w, "failed to build upstream request", http.StatusInternalServerError)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		h.log.Error("сервер семьи недоступен",
			slog.String("target", target),
			slog.String("error", err.Error()),
		)
		http.Error(w, "proxy connection failed", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		http.Error(w, "failed to read upstream response", http.StatusBadGateway)
		return
	}

	if broadcast && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		h.hub.Broadcast("push", "done")
	}

	h.log.Debug("запрос проброшен",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(respBody)),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	w.Write(respBody)
}
