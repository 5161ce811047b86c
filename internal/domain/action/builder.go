package action

import (
	"encoding/json"

	"timekeeper/internal/domain/family"
)

// FieldsFromMap собирает канонические поля правила из loose-словаря.
// Семантическое имя важнее сырого протокольного (maxTime побеждает time,
// dayMask - days), session принимается как псевдоним pause. Отсутствующие
// числовые поля становятся нулями, булевы - false: отображение тотально.
func FieldsFromMap(in map[string]interface{}) Fields {
	return Fields{
		Time:      pickInt(in, "maxTime", "time"),
		Days:      int(pickInt(in, "dayMask", "days")),
		ExtraTime: pickInt(in, "extraTime"),
		Start:     int(pickInt(in, "start")),
		End:       int(pickInt(in, "end")),
		Dur:       pickInt(in, "dur"),
		Pause:     pickInt(in, "pause", "session"),
		PerDay:    pickBool(in, "perDay"),
		ExtraDay:  int(pickInt(in, "e")),
	}
}

// FieldsFromRule переводит типизированное правило черновика в протокольные поля.
func FieldsFromRule(r family.Rule) Fields {
	return Fields{
		Time:      r.MaxTime,
		Days:      r.DayMask,
		ExtraTime: r.ExtraTime,
		Start:     r.Start,
		End:       r.End,
		Dur:       r.Dur,
		Pause:     r.Pause,
		PerDay:    r.PerDay,
		ExtraDay:  r.ExtraDay,
	}
}

// NewUpdate строит действие обновления из loose-входа. Идентификатор
// канонизируется в строку: протокол требует строковые идентификаторы.
func NewUpdate(ruleID interface{}, fields map[string]interface{}) UpdateRule {
	return UpdateRule{
		RuleID: family.Canonical(ruleID),
		Fields: FieldsFromMap(fields),
	}
}

// NewUpdateFromRule строит действие обновления из правила черновика.
func NewUpdateFromRule(ruleID family.ID, r family.Rule) UpdateRule {
	return UpdateRule{RuleID: ruleID, Fields: FieldsFromRule(r)}
}

// NewCreate строит действие создания из loose-входа.
func NewCreate(ruleID, categoryID interface{}, fields map[string]interface{}) CreateRule {
	return CreateRule{
		RuleID:     family.Canonical(ruleID),
		CategoryID: family.Canonical(categoryID),
		Fields:     FieldsFromMap(fields),
	}
}

// NewCreateFromRule строит действие создания из правила черновика.
func NewCreateFromRule(categoryID family.ID, r family.Rule) CreateRule {
	return CreateRule{RuleID: r.ID, CategoryID: categoryID, Fields: FieldsFromRule(r)}
}

// NewDelete строит действие удаления.
func NewDelete(ruleID interface{}) DeleteRule {
	return DeleteRule{RuleID: family.Canonical(ruleID)}
}

// AppChange одно ожидающее изменение привязки пакета
type AppChange struct {
	CategoryID  family.ID
	PackageName string
	Remove      bool
}

// BuildAppAssociations сворачивает изменения привязок в действия: одно
// действие на пару категория/направление, пакеты дедуплицируются через
// множество с сохранением порядка первого появления.
func BuildAppAssociations(changes []AppChange) []Action {
	type groupKey struct {
		categoryID family.ID
		remove     bool
	}

	var order []groupKey
	groups := make(map[groupKey][]string)
	seen := make(map[groupKey]map[string]bool)

	for _, ch := range changes {
		key := groupKey{categoryID: ch.CategoryID, remove: ch.Remove}
		if seen[key] == nil {
			seen[key] = make(map[string]bool)
			order = append(order, key)
		}
		if seen[key][ch.PackageName] {
			continue
		}
		seen[key][ch.PackageName] = true
		groups[key] = append(groups[key], ch.PackageName)
	}

	actions := make([]Action, 0, len(order))
	for _, key := range order {
		actions = append(actions, CategoryApps{
			CategoryID:   key.categoryID,
			PackageNames: groups[key],
			Remove:       key.remove,
		})
	}
	return actions
}

func pickInt(in map[string]interface{}, names ...string) int64 {
	for _, name := range names {
		v, ok := in[name]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case int:
			return int64(t)
		case int64:
			return t
		case float64:
			return int64(t)
		case json.Number:
			if n, err := t.Int64(); err == nil {
				return n
			}
		}
	}
	return 0
}

func pickBool(in map[string]interface{}, name string) bool {
	if v, ok := in[name]; ok {
		if b, isBool := v.(bool); isBool {
			return b
		}
	}
	return false
}
