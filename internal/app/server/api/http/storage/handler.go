package storage

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"timekeeper/internal/domain/longpoll"
	"timekeeper/internal/infrastructure/storage/filestore"
)

type Handler struct {
	store      *filestore.Store
	hub        *longpoll.Hub
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(store *filestore.Store, hub *longpoll.Hub, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		store:      store,
		hub:        hub,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.saveOp(), h.save)
	huma.Register(api, h.loadOp(), h.load)
}

func (h *Handler) save(_ context.Context, input *saveInput) (*saveOutput, error) {
	if err := h.store.Save(input.Body); err != nil {
		h.log.Error("ошибка сохранения состояния", slog.String("error", err.Error()))
		return &saveOutput{Body: SaveResponse{Status: "Error", Error: err.Error()}}, nil
	}

	// Остальные вкладки узнают об изменении через long-poll.
	h.hub.Broadcast("storage", "updated")

	return &saveOutput{Body: SaveResponse{Status: "ok"}}, nil
}

func (h *Handler) load(_ context.Context, _ *loadInput) (*loadOutput, error) {
	payload, err := h.store.Load()
	if err != nil {
		h.log.Error("ошибка чтения состояния", slog.String("error", err.Error()))
		return nil, huma.Error500InternalServerError("storage read failed")
	}

	return &loadOutput{Body: payload}, nil
}
