package draft

import (
	"encoding/json"
	"fmt"

	"timekeeper/internal/domain/family"
)

// Direction направление изменения привязки пакета к категории
type Direction string

const (
	DirectionAdd    Direction = "add"
	DirectionRemove Direction = "remove"
)

// ChangeRecord диф одного правила относительно базовой версии
type ChangeRecord struct {
	CategoryID family.ID   `json:"categoryId"`
	RuleID     family.ID   `json:"ruleId"`
	Original   family.Rule `json:"original"`
	Current    family.Rule `json:"current"`
}

// NewRuleRecord ожидающее создание правила, еще не подтвержденное сервером
type NewRuleRecord struct {
	CategoryID family.ID   `json:"categoryId"`
	Rule       family.Rule `json:"rule"`
}

// DeletedRuleRecord ожидающее удаление правила
type DeletedRuleRecord struct {
	CategoryID family.ID `json:"categoryId"`
	RuleID     family.ID `json:"ruleId"`
}

// CategoryAppChange ожидающее изменение привязки пакета
type CategoryAppChange struct {
	CategoryID  family.ID `json:"categoryId"`
	PackageName string    `json:"packageName"`
	Direction   Direction `json:"direction"`
}

// Tracker накапливает несинхронизированные правки относительно базовой
// версии черновика. Списки живут до сброса оркестратором после pull,
// следующего за полностью успешным push.
type Tracker struct {
	changes    []ChangeRecord
	newRules   []NewRuleRecord
	deleted    []DeletedRuleRecord
	appChanges []CategoryAppChange
}

// NewTracker создает пустой трекер изменений.
func NewTracker() *Tracker {
	return &Tracker{}
}

// RecordUpdate фиксирует правку правила. Базовая версия берется из самой
// первой правки; если правило вернулось к базовой версии, запись исчезает.
func (t *Tracker) RecordUpdate(categoryID, ruleID family.ID, original, current family.Rule) {
	for i := range t.changes {
		if t.changes[i].CategoryID == categoryID && t.changes[i].RuleID == ruleID {
			if t.changes[i].Original == current {
				t.changes = append(t.changes[:i], t.changes[i+1:]...)
				return
			}
			t.changes[i].Current = current
			return
		}
	}

	if original == current {
		return
	}
	t.changes = append(t.changes, ChangeRecord{
		CategoryID: categoryID,
		RuleID:     ruleID,
		Original:   original,
		Current:    current,
	})
}

// RecordCreate фиксирует создание правила.
func (t *Tracker) RecordCreate(categoryID family.ID, rule family.Rule) {
	t.newRules = append(t.newRules, NewRuleRecord{CategoryID: categoryID, Rule: rule})
}

// RecordDelete фиксирует удаление правила. Удаление еще не отправленного
// нового правила просто снимает ожидающее создание, на сервер ничего не идет.
func (t *Tracker) RecordDelete(categoryID, ruleID family.ID) {
	for i := range t.newRules {
		if t.newRules[i].CategoryID == categoryID && t.newRules[i].Rule.ID == ruleID {
			t.newRules = append(t.newRules[:i], t.newRules[i+1:]...)
			return
		}
	}

	for i := range t.changes {
		if t.changes[i].CategoryID == categoryID && t.changes[i].RuleID == ruleID {
			t.changes = append(t.changes[:i], t.changes[i+1:]...)
			break
		}
	}

	t.deleted = append(t.deleted, DeletedRuleRecord{CategoryID: categoryID, RuleID: ruleID})
}

// RecordAppChange фиксирует изменение привязки пакета. Противоположное
// ожидающее изменение той же пары категория/пакет взаимно уничтожается.
func (t *Tracker) RecordAppChange(categoryID family.ID, packageName string, direction Direction) {
	for i := range t.appChanges {
		if t.appChanges[i].CategoryID != categoryID || t.appChanges[i].PackageName != packageName {
			continue
		}
		if t.appChanges[i].Direction == direction {
			return
		}
		t.appChanges = append(t.appChanges[:i], t.appChanges[i+1:]...)
		return
	}
	t.appChanges = append(t.appChanges, CategoryAppChange{
		CategoryID:  categoryID,
		PackageName: packageName,
		Direction:   direction,
	})
}

// Changes список правок правил в порядке первого касания.
func (t *Tracker) Changes() []ChangeRecord {
	out := make([]ChangeRecord, len(t.changes))
	copy(out, t.changes)
	return out
}

// NewRules список ожидающих созданий.
func (t *Tracker) NewRules() []NewRuleRecord {
	out := make([]NewRuleRecord, len(t.newRules))
	copy(out, t.newRules)
	return out
}

// DeletedRules список ожидающих удалений.
func (t *Tracker) DeletedRules() []DeletedRuleRecord {
	out := make([]DeletedRuleRecord, len(t.deleted))
	copy(out, t.deleted)
	return out
}

// AppChanges список ожидающих изменений привязок пакетов.
func (t *Tracker) AppChanges() []CategoryAppChange {
	out := make([]CategoryAppChange, len(t.appChanges))
	copy(out, t.appChanges)
	return out
}

// PendingCount суммарное число несинхронизированных правок.
func (t *Tracker) PendingCount() int {
	return len(t.changes) + len(t.newRules) + len(t.deleted) + len(t.appChanges)
}

// Empty сообщает, нет ли несинхронизированных правок.
func (t *Tracker) Empty() bool {
	return t.PendingCount() == 0
}

// ResetAll очищает все ожидающие списки. Вызывается оркестратором только
// после pull, который следует за push без единого сбоя - раньше нельзя,
// иначе автоматический pull перезапишет несохраненные правки.
func (t *Tracker) ResetAll() {
	t.changes = nil
	t.newRules = nil
	t.deleted = nil
	t.appChanges = nil
}

// ConfirmCreation снимает ожидающее создание: сервер уже отражает правило.
func (t *Tracker) ConfirmCreation(ruleID family.ID) {
	for i := range t.newRules {
		if t.newRules[i].Rule.ID == ruleID {
			t.newRules = append(t.newRules[:i], t.newRules[i+1:]...)
			return
		}
	}
}

// ConfirmDeletion снимает ожидающее удаление.
func (t *Tracker) ConfirmDeletion(categoryID, ruleID family.ID) {
	for i := range t.deleted {
		if t.deleted[i].CategoryID == categoryID && t.deleted[i].RuleID == ruleID {
			t.deleted = append(t.deleted[:i], t.deleted[i+1:]...)
			return
		}
	}
}

// ConfirmAppChange снимает ожидающее изменение привязки.
func (t *Tracker) ConfirmAppChange(categoryID family.ID, packageName string, direction Direction) {
	for i := range t.appChanges {
		if t.appChanges[i].CategoryID == categoryID &&
			t.appChanges[i].PackageName == packageName &&
			t.appChanges[i].Direction == direction {
			t.appChanges = append(t.appChanges[:i], t.appChanges[i+1:]...)
			return
		}
	}
}

// trackerState сериализуемая форма трекера для хранения между запусками
type trackerState struct {
	Changes    []ChangeRecord      `json:"changes,omitempty"`
	NewRules   []NewRuleRecord     `json:"newRules,omitempty"`
	Deleted    []DeletedRuleRecord `json:"deleted,omitempty"`
	AppChanges []CategoryAppChange `json:"appChanges,omitempty"`
}

// Export сериализует состояние трекера.
func (t *Tracker) Export() ([]byte, error) {
	return json.Marshal(trackerState{
		Changes:    t.changes,
		NewRules:   t.newRules,
		Deleted:    t.deleted,
		AppChanges: t.appChanges,
	})
}

// Restore восстанавливает состояние трекера.
func (t *Tracker) Restore(data []byte) error {
	if len(data) == 0 {
		t.ResetAll()
		return nil
	}

	var st trackerState
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("ошибка восстановления списка правок: %w", err)
	}
	t.changes = st.Changes
	t.newRules = st.NewRules
	t.deleted = st.Deleted
	t.appChanges = st.AppChanges
	return nil
}
