package client

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"timekeeper/internal/domain/family"
	"timekeeper/internal/infrastructure/migration"
)

// Ключи персистентного состояния клиента.
const (
	KeyToken          = "token"
	KeyParentHash     = "parentPasswordHash"
	KeyAPILevel       = "serverApiLevel"
	KeyLastEmail      = "lastEmail"
	KeySelectedServer = "selectedServer"
	KeyDebugMode      = "debugMode"
	KeyDeviceID       = "deviceId"
	KeyAppListKeys    = "appListKeys"
	KeyDraftSnapshot  = "draftSnapshot"
	KeyPendingChanges = "pendingChanges"
)

// maxAccountHistory максимум запоминаемых учетных записей.
const maxAccountHistory = 20

// SQLiteStorage локальное состояние клиента: ключ-значение, история
// учетных записей и кэш зашифрованных списков приложений.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage открывает базу и накатывает миграции схемы.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	mg := migration.NewMigration("sqlite3://"+path, migration.DefaultEngine)
	if err := mg.Up(); err != nil {
		return nil, fmt.Errorf("ошибка миграции базы данных: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// GetState читает значение по ключу. Отсутствующий ключ - пустая строка без ошибки.
func (s *SQLiteStorage) GetState(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("ошибка чтения состояния %s: %w", key, err)
	}
	return value, nil
}

// SetState сохраняет значение по ключу.
func (s *SQLiteStorage) SetState(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("ошибка сохранения состояния %s: %w", key, err)
	}
	return nil
}

// DeleteState убирает ключ из состояния.
func (s *SQLiteStorage) DeleteState(key string) error {
	if _, err := s.db.Exec("DELETE FROM state WHERE key = ?", key); err != nil {
		return fmt.Errorf("ошибка удаления состояния %s: %w", key, err)
	}
	return nil
}

// SaveAccount записывает учетную запись в историю и обрезает историю
// до последних использованных записей.
func (s *SQLiteStorage) SaveAccount(acc AccountEntry) error {
	if acc.LastUsedAt == 0 {
		acc.LastUsedAt = time.Now().Unix()
	}

	_, err := s.db.Exec(`
		INSERT INTO account_history (token, email, server_url, server_label, seq, last_used_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO UPDATE SET
			email = excluded.email,
			server_url = excluded.server_url,
			server_label = excluded.server_label,
			seq = excluded.seq,
			last_used_at = excluded.last_used_at
	`, acc.Token, acc.Email, acc.ServerURL, acc.ServerLabel, acc.Seq, acc.LastUsedAt)
	if err != nil {
		return fmt.Errorf("ошибка сохранения учетной записи: %w", err)
	}

	_, err = s.db.Exec(`
		DELETE FROM account_history WHERE token NOT IN (
			SELECT token FROM account_history ORDER BY last_used_at DESC LIMIT ?
		)
	`, maxAccountHistory)
	if err != nil {
		return fmt.Errorf("ошибка обрезки истории учетных записей: %w", err)
	}
	return nil
}

// GetAccount возвращает запись истории по токену.
func (s *SQLiteStorage) GetAccount(token string) (*AccountEntry, error) {
	var acc AccountEntry
	err := s.db.QueryRow(`
		SELECT token, email, server_url, server_label, seq, last_used_at
		FROM account_history WHERE token = ?
	`, token).Scan(&acc.Token, &acc.Email, &acc.ServerURL, &acc.ServerLabel, &acc.Seq, &acc.LastUsedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения учетной записи: %w", err)
	}
	return &acc, nil
}

// ListAccounts история учетных записей, свежие первыми.
func (s *SQLiteStorage) ListAccounts() ([]AccountEntry, error) {
	rows, err := s.db.Query(`
		SELECT token, email, server_url, server_label, seq, last_used_at
		FROM account_history ORDER BY last_used_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения истории учетных записей: %w", err)
	}
	defer rows.Close()

	var accounts []AccountEntry
	for rows.Next() {
		var acc AccountEntry
		if err := rows.Scan(&acc.Token, &acc.Email, &acc.ServerURL, &acc.ServerLabel, &acc.Seq, &acc.LastUsedAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения строки истории: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обхода истории: %w", err)
	}
	return accounts, nil
}

// MergeDeviceApps вливает блоки devices2 в кэш. Присутствующее поле
// перезаписывает сохраненное, отсутствующее никогда не затирается.
func (s *SQLiteStorage) MergeDeviceApps(apps family.DeviceApps) error {
	entry := EncryptedAppsEntry{DeviceID: string(apps.DeviceID)}

	existing, err := s.GetDeviceApps(entry.DeviceID)
	if err != nil {
		return err
	}
	if existing != nil {
		entry = *existing
	}

	if apps.AppsBase != nil {
		entry.BaseVersion = apps.AppsBase.Version
		entry.BaseData = string(apps.AppsBase.Data)
	}
	if apps.AppsDiff != nil {
		entry.DiffVersion = apps.AppsDiff.Version
		entry.DiffData = string(apps.AppsDiff.Data)
	}

	_, err = s.db.Exec(`
		INSERT INTO encrypted_apps (device_id, base_version, base_data, diff_version, diff_data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(device_id) DO UPDATE SET
			base_version = excluded.base_version,
			base_data = excluded.base_data,
			diff_version = excluded.diff_version,
			diff_data = excluded.diff_data
	`, entry.DeviceID, entry.BaseVersion, entry.BaseData, entry.DiffVersion, entry.DiffData)
	if err != nil {
		return fmt.Errorf("ошибка сохранения кэша приложений устройства %s: %w", entry.DeviceID, err)
	}
	return nil
}

// GetDeviceApps возвращает кэш списков приложений устройства, nil если кэша нет.
func (s *SQLiteStorage) GetDeviceApps(deviceID string) (*EncryptedAppsEntry, error) {
	var entry EncryptedAppsEntry
	err := s.db.QueryRow(`
		SELECT device_id, base_version, base_data, diff_version, diff_data
		FROM encrypted_apps WHERE device_id = ?
	`, deviceID).Scan(&entry.DeviceID, &entry.BaseVersion, &entry.BaseData, &entry.DiffVersion, &entry.DiffData)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения кэша приложений устройства %s: %w", deviceID, err)
	}
	return &entry, nil
}

// ListDeviceAppKeys идентификаторы устройств с кэшем, для диагностики.
func (s *SQLiteStorage) ListDeviceAppKeys() ([]string, error) {
	rows, err := s.db.Query("SELECT device_id FROM encrypted_apps ORDER BY device_id")
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ключей кэша приложений: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("ошибка чтения ключа кэша: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Close закрывает базу данных.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
