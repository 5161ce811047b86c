package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	gosync "sync"
	"time"

	"golang.org/x/exp/slog"

	"timekeeper/internal/domain/action"
	"timekeeper/internal/domain/batch"
	"timekeeper/internal/domain/family"
	"timekeeper/internal/domain/signing"
)

// SyncService управляет циклами pull и push против сервера семьи.
// Обе операции ловят свои ошибки на границе потока: наружу уходит
// статус и запись в журнале, выше оркестратора ничего не поднимается.
type SyncService struct {
	app    *App
	log    *slog.Logger
	config *SyncConfig

	mu        gosync.Mutex
	isSyncing bool
	lastPull  time.Time
	tickCount int

	// Взведен после push без единого сбоя: следующий pull имеет право
	// сбросить списки правок. Раньше сбрасывать нельзя - автоматический
	// pull перезапишет несохраненные правки.
	awaitingResetPull bool

	reconcilers []Reconciler
}

// SyncConfig конфигурация синхронизации
type SyncConfig struct {
	AutoSync    bool
	Interval    time.Duration
	BatchLimit  int
	RepullDelay time.Duration
}

// SyncError сбой одного пакета при push
type SyncError struct {
	Batch     int       `json:"batch"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// PushResult агрегированный итог push-цикла
type PushResult struct {
	Batches           int           `json:"batches"`
	Succeeded         int           `json:"succeeded"`
	Failed            int           `json:"failed"`
	FullSyncRequested bool          `json:"full_sync_requested"`
	Summary           batch.Summary `json:"summary"`
	Errors            []SyncError   `json:"errors,omitempty"`
}

// SyncStatus текущее состояние синхронизации для интерфейса
type SyncStatus struct {
	PendingCount int
	NextSequence int64
	APILevel     *int
	LastPull     time.Time
	HasToken     bool
	HasSecret    bool
}

// NewSyncService создает сервис синхронизации с настройками из конфигурации
// приложения и штатным набором шагов сверки.
func NewSyncService(app *App) *SyncService {
	return &SyncService{
		app: app,
		log: app.log.With(slog.String("component", "sync")),
		config: &SyncConfig{
			AutoSync:    app.config.AutoSync,
			Interval:    time.Duration(app.config.SyncInterval) * time.Second,
			BatchLimit:  batch.DefaultLimit,
			RepullDelay: time.Duration(app.config.RepullDelay) * time.Second,
		},
		reconcilers: []Reconciler{
			creationReconciler{},
			deletionReconciler{},
			appChangeReconciler{},
		},
	}
}

// validToken проверяет токен устройства. Маркер фрагмента в токене -
// артефакт обрезанной ссылки, с таким токеном в сеть не ходим.
func validToken(token string) bool {
	return token != "" && !strings.Contains(token, "#")
}

// Pull запрашивает свежий снимок и переинициализирует черновик.
// Любой сбой оставляет черновик и списки правок нетронутыми.
func (s *SyncService) Pull(ctx context.Context) error {
	if !s.beginSync() {
		return fmt.Errorf("синхронизация уже выполняется")
	}
	defer s.endSync()

	return s.pull(ctx)
}

func (s *SyncService) pull(ctx context.Context) error {
	token, err := s.app.Token()
	if err != nil {
		return err
	}
	if !validToken(token) {
		s.app.events.BadgeChanged(BadgeNoToken, RemediationReLogin)
		return ErrInvalidToken
	}

	s.log.Info("pull: запрос снимка конфигурации")

	resp, err := s.app.http.PullStatus(ctx, family.NewPullRequest(token))
	if err != nil {
		switch {
		case errors.Is(err, ErrTransport):
			s.app.events.BadgeChanged(BadgeOffline, "")
		case errors.Is(err, ErrUnauthorized):
			s.app.events.BadgeChanged(BadgeSyncError, RemediationReLogin)
		default:
			s.app.events.BadgeChanged(BadgeSyncError, "")
		}
		s.log.Error("pull не удался", slog.String("error", err.Error()))
		return err
	}

	if err := s.applySnapshot(resp); err != nil {
		return err
	}

	s.mu.Lock()
	s.lastPull = time.Now()
	s.mu.Unlock()

	s.app.events.BadgeChanged(BadgeOnline, "")
	s.app.events.CacheUpdated()
	s.app.events.PendingChanged(s.app.tracker.PendingCount())

	s.log.Info("pull завершен",
		slog.Int("users", len(resp.Users.Data)),
		slog.Int("categories", len(resp.CategoryBase)),
		slog.Int("pending", s.app.tracker.PendingCount()))
	return nil
}

// applySnapshot вливает успешный ответ pull в локальное состояние:
// уровень протокола, кэши, черновик, затем шаги сверки.
func (s *SyncService) applySnapshot(resp *family.PullResponse) error {
	if resp.APILevel != nil {
		if err := s.app.setAPILevel(*resp.APILevel); err != nil {
			return err
		}
	}

	if err := s.app.resolveDeviceID(resp.Devices.Data); err != nil {
		return err
	}

	for _, apps := range resp.Devices2 {
		if err := s.app.storage.MergeDeviceApps(apps); err != nil {
			return err
		}
	}
	if err := s.app.recordAppListKeys(); err != nil {
		s.log.Warn("не удалось обновить диагностический индекс", slog.String("error", err.Error()))
	}

	if err := s.app.draft.Initialize(&resp.Snapshot); err != nil {
		return err
	}

	snapshot := s.app.draft.Snapshot()
	for _, r := range s.reconcilers {
		r.Reconcile(snapshot, s.app.tracker)
	}

	s.mu.Lock()
	resetDue := s.awaitingResetPull
	s.awaitingResetPull = false
	s.mu.Unlock()

	if resetDue {
		s.app.tracker.ResetAll()
		s.log.Debug("списки правок сброшены после успешного push")
	}

	return s.app.persistDraft()
}

// Preview строит план отправки с номерами от PeekNext, не двигая состояние.
func (s *SyncService) Preview(ctx context.Context) (*batch.Plan, error) {
	_ = ctx
	batcher := batch.NewBatcher(s.app.alloc, s.config.BatchLimit)
	return batcher.Build(s.collectActions(), true)
}

// Push подписывает и отправляет все ожидающие правки. Пакеты идут строго
// последовательно; сбой пакета не прерывает остальные. Списки правок
// сбрасывает только последующий pull, и только если сбоев не было.
func (s *SyncService) Push(ctx context.Context) (*PushResult, error) {
	if !s.beginSync() {
		return nil, fmt.Errorf("синхронизация уже выполняется")
	}
	defer s.endSync()

	token, err := s.app.Token()
	if err != nil {
		return nil, err
	}
	if !validToken(token) {
		s.app.events.BadgeChanged(BadgeNoToken, RemediationReLogin)
		return nil, ErrInvalidToken
	}

	secondHash, err := s.app.SecondHash()
	if err != nil {
		return nil, err
	}
	if secondHash == "" {
		s.app.events.BadgeChanged(BadgeSyncError, RemediationRefreshHashes)
		return nil, ErrMissingSigningSecret
	}

	batcher := batch.NewBatcher(s.app.alloc, s.config.BatchLimit)
	plan, err := batcher.Build(s.collectActions(), false)
	if err != nil {
		return nil, err
	}

	result := &PushResult{Batches: len(plan.Batches), Summary: plan.Summary}
	if len(plan.Batches) == 0 {
		s.log.Info("push: нет ожидающих правок")
		return result, nil
	}

	if next, err := s.app.alloc.PeekNext(); err == nil {
		s.app.events.SequenceChanged(next)
	}

	apiLevel, err := s.app.APILevel()
	if err != nil {
		return nil, err
	}
	deviceID, err := s.app.DeviceID()
	if err != nil {
		return nil, err
	}

	userID := ""
	if parent, ok := s.parentUser(); ok {
		userID = string(parent.ID)
	} else {
		s.log.Warn("в черновике нет родителя, userId останется пустым")
	}

	s.log.Info("push: отправка правок",
		slog.Int("actions", plan.Summary.Total),
		slog.Int("batches", len(plan.Batches)))

	for i, items := range plan.Batches {
		if err := s.pushBatch(ctx, token, apiLevel, secondHash, deviceID, userID, items, result); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, SyncError{
				Batch:     i + 1,
				Error:     err.Error(),
				Timestamp: time.Now(),
			})
			s.log.Error("пакет не доставлен",
				slog.Int("batch", i+1),
				slog.String("error", err.Error()))
			continue
		}
		result.Succeeded++
	}

	if result.Failed == 0 {
		// Взводим сброс и переанкериваем черновик отложенным pull,
		// пауза дает интерфейсу показать итог отправки.
		s.mu.Lock()
		s.awaitingResetPull = true
		s.mu.Unlock()
		s.app.events.BadgeChanged(BadgeOnline, "")

		time.Sleep(s.config.RepullDelay)
		if err := s.pull(ctx); err != nil {
			s.log.Warn("повторный pull после push не удался", slog.String("error", err.Error()))
		}
	} else {
		s.app.events.BadgeChanged(BadgeSyncError, "")
	}

	s.app.events.PendingChanged(s.app.tracker.PendingCount())
	return result, nil
}

// pushBatch подписывает действия пакета по одному и делает один сетевой запрос.
func (s *SyncService) pushBatch(ctx context.Context, token string, apiLevel *int, secondHash, deviceID, userID string, items []batch.Item, result *PushResult) error {
	envelopes := make([]family.SignedActionEnvelope, 0, len(items))
	for _, item := range items {
		res := s.app.signer.Sign(ctx, apiLevel, secondHash, signing.Request{
			SequenceNumber: item.SequenceNumber,
			DeviceID:       deviceID,
			EncodedAction:  item.EncodedAction,
		})
		if !res.Signed {
			// Мягкий отказ: действие уходит с сентинелом, сервер его отклонит.
			s.log.Warn("действие уйдет с заведомо плохой подписью",
				slog.Int64("sequence", item.SequenceNumber),
				slog.String("reason", res.Reason.Error()))
		}
		envelopes = append(envelopes, family.SignedActionEnvelope{
			SequenceNumber: item.SequenceNumber,
			EncodedAction:  item.EncodedAction,
			Integrity:      res.Integrity,
			Type:           "parent",
			UserID:         userID,
		})
	}

	resp, err := s.app.http.PushActions(ctx, family.PushRequest{
		DeviceAuthToken: token,
		Actions:         envelopes,
	})
	if err != nil {
		return err
	}

	if resp.ShouldDoFullSync {
		result.FullSyncRequested = true
		s.log.Info("сервер запросил полную синхронизацию")
	}
	return nil
}

// collectActions собирает ожидающие действия в протокольном порядке:
// обновления, создания, удаления, затем привязки пакетов.
func (s *SyncService) collectActions() []action.Action {
	tr := s.app.tracker

	var actions []action.Action
	for _, rec := range tr.Changes() {
		actions = append(actions, action.NewUpdateFromRule(rec.RuleID, rec.Current))
	}
	for _, rec := range tr.NewRules() {
		actions = append(actions, action.NewCreateFromRule(rec.CategoryID, rec.Rule))
	}
	for _, rec := range tr.DeletedRules() {
		actions = append(actions, action.NewDelete(rec.RuleID))
	}

	appChanges := make([]action.AppChange, 0, len(tr.AppChanges()))
	for _, ch := range tr.AppChanges() {
		appChanges = append(appChanges, action.AppChange{
			CategoryID:  ch.CategoryID,
			PackageName: ch.PackageName,
			Remove:      ch.Direction == "remove",
		})
	}
	actions = append(actions, action.BuildAppAssociations(appChanges)...)

	return actions
}

// Status сводка состояния для команды sync --status.
func (s *SyncService) Status() (*SyncStatus, error) {
	token, err := s.app.Token()
	if err != nil {
		return nil, err
	}
	secondHash, err := s.app.SecondHash()
	if err != nil {
		return nil, err
	}
	next, err := s.app.alloc.PeekNext()
	if err != nil {
		return nil, err
	}
	apiLevel, err := s.app.APILevel()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	lastPull := s.lastPull
	s.mu.Unlock()

	return &SyncStatus{
		PendingCount: s.app.tracker.PendingCount(),
		NextSequence: next,
		APILevel:     apiLevel,
		LastPull:     lastPull,
		HasToken:     validToken(token),
		HasSecret:    secondHash != "",
	}, nil
}

// StartAutoSync крутит таймер автоматической синхронизации: тик раз в
// секунду, pull при накоплении интервала. Счетчик сбрасывается, пока
// переключатель выключен или нет токена. Блокирует до отмены контекста.
func (s *SyncService) StartAutoSync(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	s.log.Info("автосинхронизация запущена",
		slog.Duration("interval", s.config.Interval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("автосинхронизация остановлена")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *SyncService) tick(ctx context.Context) {
	token, err := s.app.Token()
	if err != nil || !s.config.AutoSync || !validToken(token) {
		s.mu.Lock()
		s.tickCount = 0
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.tickCount++
	due := s.tickCount >= int(s.config.Interval/time.Second)
	if due {
		s.tickCount = 0
	}
	s.mu.Unlock()

	if !due {
		return
	}
	if err := s.Pull(ctx); err != nil {
		s.log.Debug("автоматический pull не удался", slog.String("error", err.Error()))
	}
}

func (s *SyncService) parentUser() (family.User, bool) {
	snapshot := s.app.draft.Snapshot()
	if snapshot == nil {
		return family.User{}, false
	}
	return snapshot.ParentUser()
}

func (s *SyncService) beginSync() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isSyncing {
		return false
	}
	s.isSyncing = true
	return true
}

func (s *SyncService) endSync() {
	s.mu.Lock()
	s.isSyncing = false
	s.mu.Unlock()
}
