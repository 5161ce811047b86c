package action

import (
	"encoding/json"
	"fmt"

	"timekeeper/internal/domain/family"
)

// Type тип действия в протоколе синхронизации
type Type string

const (
	TypeCreateRule        Type = "CREATE_TIMELIMIT_RULE"
	TypeUpdateRule        Type = "UPDATE_TIMELIMIT_RULE"
	TypeDeleteRule        Type = "DELETE_TIMELIMIT_RULE"
	TypeAddCategoryApps   Type = "ADD_CATEGORY_APPS"
	TypeRemoveCategoryApp Type = "REMOVE_CATEGORY_APPS"
	TypeAddUser           Type = "ADD_USER"
	TypeCreateCategory    Type = "CREATE_CATEGORY"
)

// Action одно действие протокола. Encode выдает каноническую строку -
// байт-в-байт стабильный вход для подписи.
type Action interface {
	Type() Type
	Encode() (string, error)
}

// Fields набор полей правила в каноническом протокольном виде
type Fields struct {
	Time      int64
	Days      int
	ExtraTime int64
	Start     int
	End       int
	Dur       int64
	Pause     int64
	PerDay    bool
	ExtraDay  int
}

// UpdateRule действие обновления правила
type UpdateRule struct {
	RuleID family.ID
	Fields Fields
}

func (a UpdateRule) Type() Type { return TypeUpdateRule }

func (a UpdateRule) Encode() (string, error) {
	return encode(struct {
		Type      Type      `json:"type"`
		RuleID    family.ID `json:"ruleId"`
		Time      int64     `json:"time"`
		Days      int       `json:"days"`
		ExtraTime int64     `json:"extraTime"`
		Start     int       `json:"start"`
		End       int       `json:"end"`
		Dur       int64     `json:"dur"`
		Pause     int64     `json:"pause"`
		PerDay    bool      `json:"perDay"`
		ExtraDay  int       `json:"e"`
	}{
		Type:      TypeUpdateRule,
		RuleID:    a.RuleID,
		Time:      a.Fields.Time,
		Days:      a.Fields.Days,
		ExtraTime: a.Fields.ExtraTime,
		Start:     a.Fields.Start,
		End:       a.Fields.End,
		Dur:       a.Fields.Dur,
		Pause:     a.Fields.Pause,
		PerDay:    a.Fields.PerDay,
		ExtraDay:  a.Fields.ExtraDay,
	})
}

// CreateRule действие создания правила
type CreateRule struct {
	RuleID     family.ID
	CategoryID family.ID
	Fields     Fields
}

func (a CreateRule) Type() Type { return TypeCreateRule }

func (a CreateRule) Encode() (string, error) {
	type wireRule struct {
		RuleID     family.ID `json:"ruleId"`
		CategoryID family.ID `json:"categoryId"`
		Time       int64     `json:"time"`
		Days       int       `json:"days"`
		ExtraTime  int64     `json:"extraTime"`
		Start      int       `json:"start"`
		End        int       `json:"end"`
		Dur        int64     `json:"dur"`
		Pause      int64     `json:"pause"`
		PerDay     bool      `json:"perDay"`
		ExtraDay   int       `json:"e"`
	}
	return encode(struct {
		Type Type     `json:"type"`
		Rule wireRule `json:"rule"`
	}{
		Type: TypeCreateRule,
		Rule: wireRule{
			RuleID:     a.RuleID,
			CategoryID: a.CategoryID,
			Time:       a.Fields.Time,
			Days:       a.Fields.Days,
			ExtraTime:  a.Fields.ExtraTime,
			Start:      a.Fields.Start,
			End:        a.Fields.End,
			Dur:        a.Fields.Dur,
			Pause:      a.Fields.Pause,
			PerDay:     a.Fields.PerDay,
			ExtraDay:   a.Fields.ExtraDay,
		},
	})
}

// DeleteRule действие удаления правила
type DeleteRule struct {
	RuleID family.ID
}

func (a DeleteRule) Type() Type { return TypeDeleteRule }

func (a DeleteRule) Encode() (string, error) {
	return encode(struct {
		Type   Type      `json:"type"`
		RuleID family.ID `json:"ruleId"`
	}{Type: TypeDeleteRule, RuleID: a.RuleID})
}

// CategoryApps действие добавления или удаления пакетов категории
type CategoryApps struct {
	CategoryID   family.ID
	PackageNames []string
	Remove       bool
}

func (a CategoryApps) Type() Type {
	if a.Remove {
		return TypeRemoveCategoryApp
	}
	return TypeAddCategoryApps
}

func (a CategoryApps) Encode() (string, error) {
	return encode(struct {
		Type         Type      `json:"type"`
		CategoryID   family.ID `json:"categoryId"`
		PackageNames []string  `json:"packageNames"`
	}{Type: a.Type(), CategoryID: a.CategoryID, PackageNames: a.PackageNames})
}

// AddUser действие добавления пользователя семьи
type AddUser struct {
	Name     string
	UserType string
}

func (a AddUser) Type() Type { return TypeAddUser }

func (a AddUser) Encode() (string, error) {
	return encode(struct {
		Type     Type   `json:"type"`
		Name     string `json:"name"`
		UserType string `json:"userType"`
	}{Type: TypeAddUser, Name: a.Name, UserType: a.UserType})
}

// CreateCategory действие создания категории
type CreateCategory struct {
	ChildID family.ID
	Title   string
}

func (a CreateCategory) Type() Type { return TypeCreateCategory }

func (a CreateCategory) Encode() (string, error) {
	return encode(struct {
		Type    Type      `json:"type"`
		ChildID family.ID `json:"childId"`
		Title   string    `json:"title"`
	}{Type: TypeCreateCategory, ChildID: a.ChildID, Title: a.Title})
}

func encode(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("ошибка кодирования действия: %w", err)
	}
	return string(b), nil
}
