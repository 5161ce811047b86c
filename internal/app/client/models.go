package client

// AccountEntry одна запись локальной истории учетных записей.
// Seq хранит снимок счетчика последовательности на момент переключения,
// чтобы возврат к учетной записи не откатил ее номера.
type AccountEntry struct {
	Token       string
	Email       string
	ServerURL   string
	ServerLabel string
	Seq         int64
	LastUsedAt  int64
}

// EncryptedAppsEntry кэшированные непрозрачные списки приложений одного
// устройства: базовый блок и дифф, каждый со своей версией.
type EncryptedAppsEntry struct {
	DeviceID    string
	BaseVersion string
	BaseData    string
	DiffVersion string
	DiffData    string
}

// Badge статус синхронизации для интерфейса
type Badge string

const (
	BadgeOnline    Badge = "online"
	BadgeOffline   Badge = "offline"
	BadgeSyncError Badge = "sync-error"
	BadgeNoToken   Badge = "no-token"
)

// Remediation действие, которое требуется от пользователя для продолжения
type Remediation string

const (
	RemediationReLogin       Remediation = "re-login"
	RemediationRefreshHashes Remediation = "refresh-hashes"
)
