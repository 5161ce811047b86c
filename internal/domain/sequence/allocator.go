package sequence

import (
	"fmt"
	"strconv"
)

// StateKey ключ счетчика в персистентном хранилище состояния.
const StateKey = "nextSyncSequenceNumber"

// Store минимальный контракт хранилища ключ-значение для счетчика.
// Пустая строка означает отсутствие значения.
type Store interface {
	GetState(key string) (string, error)
	SetState(key, value string) error
}

// Allocator выдает глобально возрастающие номера для подписанных действий.
// Выданный номер никогда не переиспользуется, даже если пакет с ним
// не дошел до сервера: сервер проверяет монотонность, пропуски допустимы.
type Allocator struct {
	store Store
}

// New создает аллокатор поверх персистентного хранилища.
func New(store Store) *Allocator {
	return &Allocator{store: store}
}

// PeekNext читает текущее значение счетчика без изменения состояния.
// Отсутствующее, отрицательное или нечисловое значение считается нулем.
func (a *Allocator) PeekNext() (int64, error) {
	raw, err := a.store.GetState(StateKey)
	if err != nil {
		return 0, fmt.Errorf("ошибка чтения счетчика последовательности: %w", err)
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

// ConsumeNext возвращает текущее значение и сохраняет следующее.
// Сначала персистится current+1, затем значение отдается вызывающему,
// чтобы сбой после выдачи не привел к повторному использованию номера.
func (a *Allocator) ConsumeNext() (int64, error) {
	n, err := a.PeekNext()
	if err != nil {
		return 0, err
	}

	if err := a.store.SetState(StateKey, strconv.FormatInt(n+1, 10)); err != nil {
		return 0, fmt.Errorf("ошибка сохранения счетчика последовательности: %w", err)
	}
	return n, nil
}

// Reset сбрасывает счетчик к нулевой базе. Используется только при смене
// токена устройства: в рамках одной идентичности номера не откатываются.
func (a *Allocator) Reset() error {
	if err := a.store.SetState(StateKey, "0"); err != nil {
		return fmt.Errorf("ошибка сброса счетчика последовательности: %w", err)
	}
	return nil
}
