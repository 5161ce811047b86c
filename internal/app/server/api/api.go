//POST /calculate-sha512       # SHA-512 для подписи старого формата
//POST /calculate-hmac         # HMAC-SHA512 по ключу в base64
//POST /calculate-hmac-sha256  # Подпись действия в двоичном формате сервера
//POST /generate-hashes        # Пара bcrypt-хэшей пароля семьи
//POST /regenerate-hash        # Восстановление secondHash по соли
//GET  /ha-storage             # Теневая копия состояния панели
//POST /ha-storage             # Сохранение теневой копии
//GET  /ha-events-longpoll     # Long-poll событий между клиентами
//POST /sync/pull-status       # Прокси на сервер семьи
//POST /sync/push-actions      # Прокси на сервер семьи
//POST /set-server             # Переключение сервера семьи

package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	eventsAPI "timekeeper/internal/app/server/api/http/events"
	hashAPI "timekeeper/internal/app/server/api/http/hash"
	healthAPI "timekeeper/internal/app/server/api/http/health"
	"timekeeper/internal/app/server/api/http/middleware"
	"timekeeper/internal/app/server/api/http/middleware/logger"
	proxyAPI "timekeeper/internal/app/server/api/http/proxy"
	storageAPI "timekeeper/internal/app/server/api/http/storage"
	"timekeeper/internal/app/server/config"
	"timekeeper/internal/domain/longpoll"
	"timekeeper/internal/infrastructure/storage/filestore"
)

type Handlers struct {
	Health  *healthAPI.Handler
	Hash    *hashAPI.Handler
	Storage *storageAPI.Handler
	Proxy   *proxyAPI.Handler
	Events  *eventsAPI.Handler
}

// New создает *chi.Mux со всеми операциями. Хэши и хранилище идут через
// huma, прокси и long-poll требуют сырых обработчиков chi.
func New(cfg *config.Config, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	humaConfig := huma.DefaultConfig("TimeKeeper API", "1.0.0")
	API := humachi.New(mux, humaConfig)

	h := handlers(cfg, log)
	h.Health.SetupRoutes(API)
	h.Hash.SetupRoutes(API)
	h.Storage.SetupRoutes(API)

	mux.Post("/sync/pull-status", h.Proxy.PullStatus)
	mux.Post("/sync/push-actions", h.Proxy.PushActions)
	mux.Post("/set-server", h.Proxy.SetServer)
	mux.Get("/ha-events-longpoll", h.Events.LongPoll)

	return mux
}

func handlers(cfg *config.Config, log *slog.Logger) *Handlers {
	hub := longpoll.NewHub(log)
	store := filestore.New(cfg.Server.StoragePath, log)

	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	hashHandler := hashAPI.NewHandler(log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	storageHandler := storageAPI.NewHandler(store, hub, log, middlewares.GetAllAndClear())

	proxyHandler := proxyAPI.NewHandler(cfg.Server.UpstreamURL, hub, log)
	eventsHandler := eventsAPI.NewHandler(hub, log)

	return &Handlers{
		Health:  healthHandler,
		Hash:    hashHandler,
		Storage: storageHandler,
		Proxy:   proxyHandler,
		Events:  eventsHandler,
	}
}
