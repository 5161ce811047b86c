package draft

import (
	"encoding/json"
	"fmt"

	"timekeeper/internal/domain/family"
)

// Store рабочая копия последнего снимка сервера. Все правки применяются
// к черновику; оригинальный снимок остается нетронутым.
type Store struct {
	snapshot *family.Snapshot
}

// NewStore создает пустое хранилище черновика.
func NewStore() *Store {
	return &Store{}
}

// Initialize заменяет черновик глубокой, полностью независимой копией снимка.
func (s *Store) Initialize(snapshot *family.Snapshot) error {
	if snapshot == nil {
		s.snapshot = nil
		return nil
	}

	clone, err := cloneSnapshot(snapshot)
	if err != nil {
		return fmt.Errorf("ошибка копирования снимка: %w", err)
	}
	s.snapshot = clone
	return nil
}

// Initialized сообщает, загружен ли черновик.
func (s *Store) Initialized() bool {
	return s.snapshot != nil
}

// Snapshot текущий черновик. Возвращает nil до первой инициализации.
func (s *Store) Snapshot() *family.Snapshot {
	return s.snapshot
}

// GetRule возвращает копию правила. Идентификаторы сопоставляются
// по канонической форме, число и строка считаются равными.
func (s *Store) GetRule(categoryID, ruleID interface{}) (family.Rule, bool) {
	if s.snapshot == nil {
		return family.Rule{}, false
	}

	r, ok := s.snapshot.FindRule(family.Canonical(categoryID), family.Canonical(ruleID))
	if !ok {
		return family.Rule{}, false
	}
	return *r, true
}

// UpdateRule сливает поля в правило на месте. Если черновик не загружен или
// правило не найдено - тихо ничего не делает: интерфейс должен оставаться
// рабочим и с частично загруженным состоянием.
func (s *Store) UpdateRule(categoryID, ruleID interface{}, fields map[string]interface{}) {
	if s.snapshot == nil {
		return
	}

	r, ok := s.snapshot.FindRule(family.Canonical(categoryID), family.Canonical(ruleID))
	if !ok {
		return
	}
	mergeRuleFields(r, fields)
}

// AddRule добавляет правило в категорию черновика, создавая раздел правил
// категории при необходимости.
func (s *Store) AddRule(categoryID interface{}, rule family.Rule) {
	if s.snapshot == nil {
		return
	}

	cid := family.Canonical(categoryID)
	for i := range s.snapshot.Rules {
		if s.snapshot.Rules[i].CategoryID == cid {
			s.snapshot.Rules[i].Rules = append(s.snapshot.Rules[i].Rules, rule)
			return
		}
	}
	s.snapshot.Rules = append(s.snapshot.Rules, family.CategoryRules{
		CategoryID: cid,
		Rules:      []family.Rule{rule},
	})
}

// RemoveRule убирает правило из черновика. Отсутствующее правило - no-op.
func (s *Store) RemoveRule(categoryID, ruleID interface{}) {
	if s.snapshot == nil {
		return
	}

	cid := family.Canonical(categoryID)
	rid := family.Canonical(ruleID)
	for i := range s.snapshot.Rules {
		if s.snapshot.Rules[i].CategoryID != cid {
			continue
		}
		rules := s.snapshot.Rules[i].Rules
		for j := range rules {
			if rules[j].ID == rid {
				s.snapshot.Rules[i].Rules = append(rules[:j], rules[j+1:]...)
				return
			}
		}
	}
}

// AddCategoryApp добавляет привязку пакета к категории, если ее еще нет.
func (s *Store) AddCategoryApp(categoryID interface{}, packageName string) {
	if s.snapshot == nil {
		return
	}

	cid := family.Canonical(categoryID)
	if s.snapshot.HasCategoryApp(cid, packageName) {
		return
	}
	s.snapshot.CategoryApps = append(s.snapshot.CategoryApps, family.CategoryApp{
		CategoryID:  cid,
		PackageName: packageName,
	})
}

// RemoveCategoryApp убирает привязку пакета из категории.
func (s *Store) RemoveCategoryApp(categoryID interface{}, packageName string) {
	if s.snapshot == nil {
		return
	}

	cid := family.Canonical(categoryID)
	for i, ca := range s.snapshot.CategoryApps {
		if ca.CategoryID == cid && ca.PackageName == packageName {
			s.snapshot.CategoryApps = append(s.snapshot.CategoryApps[:i], s.snapshot.CategoryApps[i+1:]...)
			return
		}
	}
}

// Export сериализует черновик для сохранения между запусками.
func (s *Store) Export() ([]byte, error) {
	if s.snapshot == nil {
		return nil, nil
	}
	return json.Marshal(s.snapshot)
}

// Restore восстанавливает черновик из сериализованного состояния.
func (s *Store) Restore(data []byte) error {
	if len(data) == 0 {
		s.snapshot = nil
		return nil
	}

	var snap family.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("ошибка восстановления черновика: %w", err)
	}
	s.snapshot = &snap
	return nil
}

// RuleFromFields собирает новое правило из loose-полей. Используется при
// создании правил локально, до подтверждения сервером.
func RuleFromFields(id family.ID, fields map[string]interface{}) family.Rule {
	r := family.Rule{ID: id}
	mergeRuleFields(&r, fields)
	return r
}

// Копия через JSON-раунд: заодно канонизирует идентификаторы
// и гарантирует отсутствие общих ссылок с оригиналом.
func cloneSnapshot(snapshot *family.Snapshot) (*family.Snapshot, error) {
	b, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}

	var clone family.Snapshot
	if err := json.Unmarshal(b, &clone); err != nil {
		return nil, err
	}
	return &clone, nil
}

// mergeRuleFields применяет loose-поля к типизированному правилу.
// Принимаются и семантические имена (maxTime, dayMask, session),
// и сырые протокольные (time, days, pause).
func mergeRuleFields(r *family.Rule, fields map[string]interface{}) {
	if v, ok := intField(fields, "maxTime", "time"); ok {
		r.MaxTime = v
	}
	if v, ok := intField(fields, "dayMask", "days"); ok {
		r.DayMask = int(v)
	}
	if v, ok := intField(fields, "extraTime"); ok {
		r.ExtraTime = v
	}
	if v, ok := intField(fields, "start"); ok {
		r.Start = int(v)
	}
	if v, ok := intField(fields, "end"); ok {
		r.End = int(v)
	}
	if v, ok := intField(fields, "dur"); ok {
		r.Dur = v
	}
	if v, ok := intField(fields, "pause", "session"); ok {
		r.Pause = v
	}
	if v, ok := intField(fields, "e"); ok {
		r.ExtraDay = int(v)
	}
	if v, ok := fields["perDay"]; ok {
		if b, isBool := v.(bool); isBool {
			r.PerDay = b
		}
	}
}

// intField достает первое присутствующее поле из списка имен,
// приводя числовые представления JSON к int64.
func intField(fields map[string]interface{}, names ...string) (int64, bool) {
	for _, name := range names {
		v, ok := fields[name]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case int:
			return int64(t), true
		case int64:
			return t, true
		case float64:
			return int64(t), true
		case json.Number:
			if n, err := t.Int64(); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}
