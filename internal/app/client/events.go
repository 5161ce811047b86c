package client

// EventKind тип события оркестратора
type EventKind string

const (
	EventCacheUpdated    EventKind = "cache-updated"
	EventSequenceChanged EventKind = "sequence-changed"
	EventPendingChanged  EventKind = "pending-changed"
	EventBadgeChanged    EventKind = "badge-changed"
)

// Event типизированное событие для подписчиков. Заполнены только поля,
// относящиеся к виду события.
type Event struct {
	Kind         EventKind
	Badge        Badge
	Sequence     int64
	PendingCount int
	Remediation  Remediation
}

// Publisher раздает события подписчикам. Пришел на смену глобальным
// колбэкам вида "вызови функцию, если она определена": подписка явная,
// состояние принадлежит экземпляру.
type Publisher struct {
	subscribers []func(Event)
}

// NewPublisher создает издатель событий.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// Subscribe регистрирует подписчика. Подписчики вызываются синхронно
// в порядке подписки, модель исполнения кооперативная.
func (p *Publisher) Subscribe(fn func(Event)) {
	p.subscribers = append(p.subscribers, fn)
}

func (p *Publisher) publish(e Event) {
	for _, fn := range p.subscribers {
		fn(e)
	}
}

// CacheUpdated сигнал обновления кэшей после pull.
func (p *Publisher) CacheUpdated() {
	p.publish(Event{Kind: EventCacheUpdated})
}

// SequenceChanged сигнал изменения счетчика последовательности.
func (p *Publisher) SequenceChanged(next int64) {
	p.publish(Event{Kind: EventSequenceChanged, Sequence: next})
}

// PendingChanged сигнал изменения числа несинхронизированных правок.
func (p *Publisher) PendingChanged(count int) {
	p.publish(Event{Kind: EventPendingChanged, PendingCount: count})
}

// BadgeChanged сигнал смены статуса, с необязательной подсказкой
// что делать пользователю.
func (p *Publisher) BadgeChanged(badge Badge, remediation Remediation) {
	p.publish(Event{Kind: EventBadgeChanged, Badge: badge, Remediation: remediation})
}
