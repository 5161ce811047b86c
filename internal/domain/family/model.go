package family

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID идентификатор сущности в снимке конфигурации. Сервер и мобильный клиент
// присылают идентификаторы то строками, то числами, поэтому значение
// нормализуется к канонической строке уже при декодировании.
type ID string

// Canonical приводит произвольное значение идентификатора к канонической
// строковой форме: числа становятся десятичным текстом, строки остаются как есть.
func Canonical(v interface{}) ID {
	switch t := v.(type) {
	case nil:
		return ""
	case ID:
		return t
	case string:
		return ID(t)
	case int:
		return ID(strconv.Itoa(t))
	case int64:
		return ID(strconv.FormatInt(t, 10))
	case float64:
		if t == float64(int64(t)) {
			return ID(strconv.FormatInt(int64(t), 10))
		}
		return ID(strconv.FormatFloat(t, 'f', -1, 64))
	case json.Number:
		return ID(t.String())
	default:
		return ID(fmt.Sprintf("%v", t))
	}
}

// UnmarshalJSON принимает и строку, и число.
func (id *ID) UnmarshalJSON(data []byte) error {
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*id = Canonical(raw)
	return nil
}

// MarshalJSON всегда отдает строку: протокол требует строковые идентификаторы.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

// User участник семьи (родитель или ребенок)
type User struct {
	ID                 ID     `json:"id"`
	Name               string `json:"name"`
	Type               string `json:"type"` // parent, child
	Mail               string `json:"mail,omitempty"`
	SecondPasswordSalt string `json:"secondPasswordSalt,omitempty"`
}

// Category категория приложений с общими ограничениями
type Category struct {
	CategoryID       ID     `json:"categoryId"`
	ChildID          ID     `json:"childId,omitempty"`
	Title            string `json:"title"`
	ParentCategoryID ID     `json:"parentCategoryId,omitempty"`
	Sort             int    `json:"sort,omitempty"`
}

// Rule правило ограничения времени внутри категории
type Rule struct {
	ID        ID    `json:"id"`
	MaxTime   int64 `json:"maxTime"`
	DayMask   int   `json:"dayMask"`
	ExtraTime int64 `json:"extraTime,omitempty"`
	Start     int   `json:"start,omitempty"`
	End       int   `json:"end,omitempty"`
	Dur       int64 `json:"dur,omitempty"`
	Pause     int64 `json:"pause,omitempty"`
	PerDay    bool  `json:"perDay,omitempty"`
	ExtraDay  int   `json:"e,omitempty"`
}

// CategoryRules правила одной категории в том виде, как их отдает сервер
type CategoryRules struct {
	CategoryID ID     `json:"categoryId"`
	Rules      []Rule `json:"rules"`
}

// CategoryApp привязка пакета приложения к категории
type CategoryApp struct {
	CategoryID  ID     `json:"categoryId"`
	PackageName string `json:"packageName"`
}

// Device зарегистрированное устройство семьи
type Device struct {
	DeviceID    ID     `json:"deviceId"`
	Name        string `json:"name"`
	CurrentUser ID     `json:"currentUserId,omitempty"`
	Model       string `json:"model,omitempty"`
	AppVersion  int    `json:"appVersion,omitempty"`
}

// Snapshot полный снимок конфигурации семьи, как его возвращает pull-status
type Snapshot struct {
	APILevel     *int            `json:"apiLevel,omitempty"`
	Users        UserList        `json:"users,omitempty"`
	Devices      DeviceList      `json:"devices,omitempty"`
	CategoryBase []Category      `json:"categoryBase,omitempty"`
	Rules        []CategoryRules `json:"rules,omitempty"`
	CategoryApps []CategoryApp   `json:"categoryApp,omitempty"`
}

// UserList обертка сервера вокруг списка пользователей
type UserList struct {
	Data    []User `json:"data,omitempty"`
	Version string `json:"version,omitempty"`
}

// DeviceList обертка сервера вокруг списка устройств
type DeviceList struct {
	Data    []Device `json:"data,omitempty"`
	Version string   `json:"version,omitempty"`
}

// ParentUser возвращает первого пользователя с типом parent, от имени
// которого подписываются и отправляются действия.
func (s *Snapshot) ParentUser() (User, bool) {
	for _, u := range s.Users.Data {
		if u.Type == "parent" {
			return u, true
		}
	}
	return User{}, false
}

// FindRule ищет правило по паре категория/правило с учетом канонизации
// идентификаторов.
func (s *Snapshot) FindRule(categoryID, ruleID ID) (*Rule, bool) {
	for i := range s.Rules {
		if s.Rules[i].CategoryID != categoryID {
			continue
		}
		for j := range s.Rules[i].Rules {
			if s.Rules[i].Rules[j].ID == ruleID {
				return &s.Rules[i].Rules[j], true
			}
		}
	}
	return nil, false
}

// HasCategoryApp проверяет, числится ли пакет в категории.
func (s *Snapshot) HasCategoryApp(categoryID ID, packageName string) bool {
	for _, ca := range s.CategoryApps {
		if ca.CategoryID == categoryID && ca.PackageName == packageName {
			return true
		}
	}
	return false
}
