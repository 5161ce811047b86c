package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

// Store хранит теневую копию состояния панели в одном JSON-файле.
// Запись атомарна: сначала во временный файл, затем rename.
type Store struct {
	mu   sync.Mutex
	path string
	log  *slog.Logger
}

func New(path string, log *slog.Logger) *Store {
	return &Store{
		path: path,
		log:  log.With(slog.String("component", "filestore")),
	}
}

// Save сериализует payload, добавляя serverTimestamp в миллисекундах.
func (s *Store) Save(payload map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if payload == nil {
		payload = map[string]interface{}{}
	}
	payload["serverTimestamp"] = time.Now().UnixMilli()

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации состояния: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("ошибка создания каталога хранилища: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("ошибка записи состояния: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("ошибка замены файла состояния: %w", err)
	}

	s.log.Debug("состояние сохранено", slog.Int("bytes", len(data)))
	return nil
}

// Load возвращает сохраненное состояние. Если файла еще нет,
// возвращается {"status":"empty"}.
func (s *Store) Load() (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]interface{}{"status": "empty"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения состояния: %w", err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("ошибка разбора состояния: %w", err)
	}
	return payload, nil
}
