package family

import "encoding/json"

// ClientLevel уровень протокола, который клиент заявляет серверу при pull.
const ClientLevel = 8

// PullRequest тело запроса sync/pull-status. Статусная часть содержит
// нулевые версии, чтобы сервер вернул полный снимок.
type PullRequest struct {
	DeviceAuthToken string     `json:"deviceAuthToken"`
	Status          PullStatus `json:"status"`
}

// PullStatus статусный заполнитель запроса pull-status
type PullStatus struct {
	Apps          map[string]string `json:"apps"`
	Categories    map[string]string `json:"categories"`
	Devices       string            `json:"devices"`
	Users         string            `json:"users"`
	ClientLevel   int               `json:"clientLevel"`
	DevicesDetail map[string]string `json:"devicesDetail"`
}

// NewPullRequest собирает минимальный pull-status запрос для полного снимка.
func NewPullRequest(token string) PullRequest {
	return PullRequest{
		DeviceAuthToken: token,
		Status: PullStatus{
			Apps:          map[string]string{},
			Categories:    map[string]string{},
			Devices:       "0",
			Users:         "0",
			ClientLevel:   ClientLevel,
			DevicesDetail: map[string]string{},
		},
	}
}

// AppsBlob непрозрачный блок списка приложений устройства (base или diff)
type AppsBlob struct {
	Version string          `json:"version,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// DeviceApps зашифрованные списки приложений одного устройства из devices2
type DeviceApps struct {
	DeviceID ID        `json:"deviceId"`
	AppsBase *AppsBlob `json:"appsBase,omitempty"`
	AppsDiff *AppsBlob `json:"appsDiff,omitempty"`
}

// PullResponse ответ sync/pull-status: снимок конфигурации плюс служебные
// разделы ключей и зашифрованных списков приложений.
type PullResponse struct {
	Snapshot
	Krq      json.RawMessage `json:"krq,omitempty"`
	Kr       json.RawMessage `json:"kr,omitempty"`
	Kri      json.RawMessage `json:"kri,omitempty"`
	Devices2 []DeviceApps    `json:"devices2,omitempty"`
}

// SignedActionEnvelope одно подписанное действие в push-actions
type SignedActionEnvelope struct {
	SequenceNumber int64  `json:"sequenceNumber"`
	EncodedAction  string `json:"encodedAction"`
	Integrity      string `json:"integrity"`
	Type           string `json:"type"`
	UserID         string `json:"userId"`
}

// PushRequest тело запроса sync/push-actions
type PushRequest struct {
	DeviceAuthToken string                 `json:"deviceAuthToken"`
	Actions         []SignedActionEnvelope `json:"actions"`
}

// PushResponse ответ sync/push-actions
type PushResponse struct {
	ShouldDoFullSync bool `json:"shouldDoFullSync,omitempty"`
}
