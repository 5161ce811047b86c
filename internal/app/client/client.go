package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"timekeeper/internal/app/client/config"
	"timekeeper/internal/domain/draft"
	"timekeeper/internal/domain/family"
	"timekeeper/internal/domain/sequence"
	"timekeeper/internal/domain/signing"
)

// App владеет всем состоянием клиента: черновиком, списками правок,
// счетчиком последовательности и уровнем протокола. Глобального состояния
// нет, тесты создают изолированные экземпляры.
type App struct {
	config  *config.Config
	log     *slog.Logger
	storage *SQLiteStorage
	http    *httpClient
	draft   *draft.Store
	tracker *draft.Tracker
	alloc   *sequence.Allocator
	signer  *signing.Signer
	events  *Publisher
	sync    *SyncService
}

// New собирает приложение: открывает базу, восстанавливает черновик
// и списки правок, поднимает сервис синхронизации.
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	storage, err := NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации хранилища: %w", err)
	}

	app := &App{
		config:  cfg,
		log:     log,
		storage: storage,
		http:    NewHTTPClient(cfg, log),
		draft:   draft.NewStore(),
		tracker: draft.NewTracker(),
		alloc:   sequence.New(storage),
		events:  NewPublisher(),
	}
	app.signer = signing.NewSigner(app.http, log)
	app.sync = NewSyncService(app)

	if err := app.restoreDraft(); err != nil {
		log.Warn("не удалось восстановить черновик", slog.String("error", err.Error()))
	}

	if debug, err := app.DebugMode(); err == nil && debug {
		app.http.SetDebug(true)
	}
	if server, err := storage.GetState(KeySelectedServer); err == nil && server != "" {
		app.http.SetServer(server)
	}

	return app, nil
}

// Close закрывает ресурсы приложения.
func (a *App) Close() error {
	return a.storage.Close()
}

// Sync сервис синхронизации.
func (a *App) Sync() *SyncService {
	return a.sync
}

// Events издатель событий оркестратора.
func (a *App) Events() *Publisher {
	return a.events
}

// Storage локальное хранилище состояния.
func (a *App) Storage() *SQLiteStorage {
	return a.storage
}

// Draft текущий черновик конфигурации.
func (a *App) Draft() *draft.Store {
	return a.draft
}

// Tracker списки несинхронизированных правок.
func (a *App) Tracker() *draft.Tracker {
	return a.tracker
}

// Token токен устройства из хранилища.
func (a *App) Token() (string, error) {
	return a.storage.GetState(KeyToken)
}

// Login сохраняет токен и заносит учетную запись в историю. Снимок
// счетчика прежней записи сохраняется перед переключением.
func (a *App) Login(token, email string) error {
	if !validToken(token) {
		return ErrInvalidToken
	}

	if err := a.snapshotCurrentAccount(); err != nil {
		a.log.Warn("не удалось сохранить текущую учетную запись", slog.String("error", err.Error()))
	}

	if err := a.storage.SetState(KeyToken, token); err != nil {
		return err
	}
	if email != "" {
		if err := a.storage.SetState(KeyLastEmail, email); err != nil {
			return err
		}
	}

	// Известная учетная запись возвращает свой счетчик и свой сервер,
	// новая начинает с нуля на текущем сервере.
	acc, err := a.storage.GetAccount(token)
	if err != nil {
		return err
	}
	seq := int64(0)
	server := a.ServerURL()
	if acc != nil {
		seq = acc.Seq
		if email == "" {
			email = acc.Email
		}
		if acc.ServerURL != "" {
			server = acc.ServerURL
		}
	}
	if err := a.storage.SetState(sequence.StateKey, strconv.FormatInt(seq, 10)); err != nil {
		return err
	}
	if err := a.SetServer(server); err != nil {
		return err
	}

	if err := a.storage.SaveAccount(AccountEntry{
		Token:      token,
		Email:      email,
		ServerURL:  server,
		Seq:        seq,
		LastUsedAt: time.Now().Unix(),
	}); err != nil {
		return err
	}

	a.events.SequenceChanged(seq)
	return nil
}

// snapshotCurrentAccount фиксирует счетчик активной учетной записи в истории.
func (a *App) snapshotCurrentAccount() error {
	token, err := a.Token()
	if err != nil || token == "" {
		return err
	}

	acc, err := a.storage.GetAccount(token)
	if err != nil || acc == nil {
		return err
	}

	seq, err := a.alloc.PeekNext()
	if err != nil {
		return err
	}
	acc.Seq = seq
	acc.ServerURL = a.ServerURL()
	acc.LastUsedAt = time.Now().Unix()
	return a.storage.SaveAccount(*acc)
}

// ServerURL действующий адрес семейного сервера.
func (a *App) ServerURL() string {
	return a.http.baseURL
}

// SetServer переключает адрес сервера и запоминает выбор.
func (a *App) SetServer(url string) error {
	if err := a.storage.SetState(KeySelectedServer, url); err != nil {
		return err
	}
	a.http.SetServer(url)
	return nil
}

// SecondHash секрет подписи, производный от пароля родителя.
func (a *App) SecondHash() (string, error) {
	return a.storage.GetState(KeyParentHash)
}

// SetSecondHash сохраняет секрет подписи.
func (a *App) SetSecondHash(hash string) error {
	return a.storage.SetState(KeyParentHash, hash)
}

// APILevel согласованный уровень протокола, nil пока сервер его не сообщил.
func (a *App) APILevel() (*int, error) {
	raw, err := a.storage.GetState(KeyAPILevel)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, nil
	}
	return &n, nil
}

func (a *App) setAPILevel(level int) error {
	return a.storage.SetState(KeyAPILevel, strconv.Itoa(level))
}

// DeviceID идентификатор этого устройства, определенный из снимка сервера.
func (a *App) DeviceID() (string, error) {
	return a.storage.GetState(KeyDeviceID)
}

// resolveDeviceID находит свое устройство в списке из снимка по имени
// из конфигурации и запоминает его идентификатор.
func (a *App) resolveDeviceID(devices []family.Device) error {
	for _, d := range devices {
		if d.Name == a.config.DeviceName {
			return a.storage.SetState(KeyDeviceID, string(d.DeviceID))
		}
	}
	return nil
}

// DebugMode персистентный флаг отладки.
func (a *App) DebugMode() (bool, error) {
	raw, err := a.storage.GetState(KeyDebugMode)
	if err != nil {
		return false, err
	}
	return raw == "1", nil
}

// SetDebugMode переключает флаг отладки.
func (a *App) SetDebugMode(on bool) error {
	value := "0"
	if on {
		value = "1"
	}
	if err := a.storage.SetState(KeyDebugMode, value); err != nil {
		return err
	}
	a.http.SetDebug(on)
	return nil
}

// recordAppListKeys обновляет диагностический индекс ключей кэша
// приложений. Используется только для отладочного журнала.
func (a *App) recordAppListKeys() error {
	keys, err := a.storage.ListDeviceAppKeys()
	if err != nil {
		return err
	}
	data, err := json.Marshal(keys)
	if err != nil {
		return err
	}
	return a.storage.SetState(KeyAppListKeys, string(data))
}

// UpdateRule правит правило в черновике и фиксирует диф. Неизвестное
// правило - тихий no-op, как и в самом черновике.
func (a *App) UpdateRule(categoryID, ruleID interface{}, fields map[string]interface{}) error {
	before, ok := a.draft.GetRule(categoryID, ruleID)
	if !ok {
		return nil
	}

	a.draft.UpdateRule(categoryID, ruleID, fields)

	after, _ := a.draft.GetRule(categoryID, ruleID)
	a.tracker.RecordUpdate(family.Canonical(categoryID), family.Canonical(ruleID), before, after)

	a.events.PendingChanged(a.tracker.PendingCount())
	return a.persistDraft()
}

// CreateRule создает правило в черновике с клиентским идентификатором
// и ставит создание в очередь на отправку.
func (a *App) CreateRule(categoryID interface{}, fields map[string]interface{}) (family.ID, error) {
	id := family.ID(uuid.NewString())
	rule := draft.RuleFromFields(id, fields)

	cid := family.Canonical(categoryID)
	a.draft.AddRule(cid, rule)
	a.tracker.RecordCreate(cid, rule)

	a.events.PendingChanged(a.tracker.PendingCount())
	return id, a.persistDraft()
}

// DeleteRule убирает правило из черновика и ставит удаление в очередь.
func (a *App) DeleteRule(categoryID, ruleID interface{}) error {
	cid := family.Canonical(categoryID)
	rid := family.Canonical(ruleID)

	a.draft.RemoveRule(cid, rid)
	a.tracker.RecordDelete(cid, rid)

	a.events.PendingChanged(a.tracker.PendingCount())
	return a.persistDraft()
}

// AddCategoryApps ставит в очередь добавление пакетов в категорию.
func (a *App) AddCategoryApps(categoryID interface{}, packages []string) error {
	cid := family.Canonical(categoryID)
	for _, pkg := range packages {
		a.draft.AddCategoryApp(cid, pkg)
		a.tracker.RecordAppChange(cid, pkg, draft.DirectionAdd)
	}
	a.events.PendingChanged(a.tracker.PendingCount())
	return a.persistDraft()
}

// RemoveCategoryApps ставит в очередь удаление пакетов из категории.
func (a *App) RemoveCategoryApps(categoryID interface{}, packages []string) error {
	cid := family.Canonical(categoryID)
	for _, pkg := range packages {
		a.draft.RemoveCategoryApp(cid, pkg)
		a.tracker.RecordAppChange(cid, pkg, draft.DirectionRemove)
	}
	a.events.PendingChanged(a.tracker.PendingCount())
	return a.persistDraft()
}

// RefreshHashes пересчитывает секрет подписи по паролю родителя.
// При известной соли secondHash восстанавливается байт-в-байт, иначе
// генерируется свежая пара хэшей. Сервер чеканит bcrypt с префиксом $2b$,
// проверяющая сторона понимает только $2a$.
func (a *App) RefreshHashes(ctx context.Context, password string) error {
	salt := a.parentSecondSalt()

	var secondHash string
	var err error
	if salt != "" {
		secondHash, err = a.http.RegenerateHash(ctx, password, salt)
	} else {
		_, secondHash, _, err = a.http.GenerateHashes(ctx, password)
	}
	if err != nil {
		return fmt.Errorf("ошибка получения хэшей: %w", err)
	}

	secondHash = normalizeBcryptPrefix(secondHash)
	return a.SetSecondHash(secondHash)
}

// parentSecondSalt соль второго хэша родителя из текущего черновика.
func (a *App) parentSecondSalt() string {
	snapshot := a.draft.Snapshot()
	if snapshot == nil {
		return ""
	}
	if parent, ok := snapshot.ParentUser(); ok {
		return parent.SecondPasswordSalt
	}
	return ""
}

func normalizeBcryptPrefix(hash string) string {
	if len(hash) >= 4 && hash[:4] == "$2b$" {
		return "$2a$" + hash[4:]
	}
	return hash
}

// persistDraft сохраняет черновик и списки правок между запусками.
func (a *App) persistDraft() error {
	snapshot, err := a.draft.Export()
	if err != nil {
		return err
	}
	if err := a.storage.SetState(KeyDraftSnapshot, string(snapshot)); err != nil {
		return err
	}

	pending, err := a.tracker.Export()
	if err != nil {
		return err
	}
	return a.storage.SetState(KeyPendingChanges, string(pending))
}

func (a *App) restoreDraft() error {
	snapshot, err := a.storage.GetState(KeyDraftSnapshot)
	if err != nil {
		return err
	}
	if err := a.draft.Restore([]byte(snapshot)); err != nil {
		return err
	}

	pending, err := a.storage.GetState(KeyPendingChanges)
	if err != nil {
		return err
	}
	return a.tracker.Restore([]byte(pending))
}
