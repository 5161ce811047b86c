package batch

import (
	"fmt"

	"timekeeper/internal/domain/action"
)

// DefaultLimit максимальное число действий в одном push-запросе.
const DefaultLimit = 50

// Allocator источник номеров последовательности для действий.
type Allocator interface {
	PeekNext() (int64, error)
	ConsumeNext() (int64, error)
}

// Item одно закодированное действие с присвоенным номером
type Item struct {
	SequenceNumber int64
	EncodedAction  string
	Type           action.Type
}

// Summary сводные счетчики плана отправки
type Summary struct {
	Updates    int
	Creates    int
	Deletes    int
	AppChanges int
	Other      int
	Total      int
}

// Plan разбиение ожидающих действий на пакеты с сохранением порядка
type Plan struct {
	Batches [][]Item
	Summary Summary
}

// Batcher кодирует действия, присваивает номера и режет на пакеты.
type Batcher struct {
	alloc Allocator
	limit int
}

// NewBatcher создает батчер. Неположительный лимит заменяется стандартным.
func NewBatcher(alloc Allocator, limit int) *Batcher {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Batcher{alloc: alloc, limit: limit}
}

// Build строит план отправки. В режиме dryRun номера считаются от PeekNext
// без записи - предпросмотр никогда не двигает глобальное состояние.
// Пустой список дает план без пакетов, это не ошибка.
func (b *Batcher) Build(actions []action.Action, dryRun bool) (*Plan, error) {
	plan := &Plan{}
	if len(actions) == 0 {
		return plan, nil
	}

	var previewNext int64
	if dryRun {
		n, err := b.alloc.PeekNext()
		if err != nil {
			return nil, err
		}
		previewNext = n
	}

	items := make([]Item, 0, len(actions))
	for _, a := range actions {
		encoded, err := a.Encode()
		if err != nil {
			return nil, err
		}

		var seq int64
		if dryRun {
			seq = previewNext
			previewNext++
		} else {
			seq, err = b.alloc.ConsumeNext()
			if err != nil {
				return nil, fmt.Errorf("ошибка выделения номера действия: %w", err)
			}
		}

		items = append(items, Item{SequenceNumber: seq, EncodedAction: encoded, Type: a.Type()})
		count(&plan.Summary, a.Type())
	}

	for start := 0; start < len(items); start += b.limit {
		end := start + b.limit
		if end > len(items) {
			end = len(items)
		}
		plan.Batches = append(plan.Batches, items[start:end])
	}
	return plan, nil
}

func count(s *Summary, t action.Type) {
	switch t {
	case action.TypeUpdateRule:
		s.Updates++
	case action.TypeCreateRule:
		s.Creates++
	case action.TypeDeleteRule:
		s.Deletes++
	case action.TypeAddCategoryApps, action.TypeRemoveCategoryApp:
		s.AppChanges++
	default:
		s.Other++
	}
	s.Total++
}
