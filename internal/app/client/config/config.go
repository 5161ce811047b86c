package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerURL    = "http://localhost:8099"
	defaultSignerURL    = ""
	defaultEnv          = "local"
	defaultConfigDir    = ".timekeeper"
	defaultDeviceName   = "timekeeper"
	defaultSyncInterval = 30
	defaultRepullDelay  = 2
)

// Config конфигурация клиента синхронизации
type Config struct {
	Env          string `mapstructure:"app_env"`
	ServerURL    string `mapstructure:"server_url"`
	SignerURL    string `mapstructure:"signer_url"`
	ConfigDir    string `mapstructure:"config_dir"`
	DBPath       string `mapstructure:"db_path"`
	DeviceName   string `mapstructure:"device_name"`
	SyncInterval int    `mapstructure:"sync_interval_seconds"`
	RepullDelay  int    `mapstructure:"repull_delay_seconds"`
	AutoSync     bool   `mapstructure:"auto_sync"`
	Debug        bool   `mapstructure:"debug"`
}

// MustLoad загружает конфигурацию клиента
func MustLoad() *Config {
	// Определяем путь к .env файлу (относительно места запуска)
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		// Пробуем найти .env в родительской директории
		envPath = "../.env"
	}

	// Загружаем .env файл если существует
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Ошибка загрузки .env файла: %v\n", err)
		}
	}

	viper.AutomaticEnv()

	// Устанавливаем значения по умолчанию
	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("SERVER_URL", defaultServerURL)
	viper.SetDefault("SIGNER_URL", defaultSignerURL)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("DEVICE_NAME", defaultDeviceName)
	viper.SetDefault("SYNC_INTERVAL_SECONDS", defaultSyncInterval)
	viper.SetDefault("REPULL_DELAY_SECONDS", defaultRepullDelay)
	viper.SetDefault("AUTO_SYNC", true)
	viper.SetDefault("DEBUG", false)

	// Получаем домашнюю директорию пользователя
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	// Вычисляем пути для хранения данных
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	// Создаем директории если их нет
	if err := os.MkdirAll(configDir, 0700); err != nil {
		fmt.Printf("Ошибка создания директории конфигурации: %v\n", err)
	}

	config := &Config{
		Env:          viper.GetString("APP_ENV"),
		ServerURL:    viper.GetString("SERVER_URL"),
		SignerURL:    viper.GetString("SIGNER_URL"),
		ConfigDir:    configDir,
		DBPath:       filepath.Join(configDir, "state.db"),
		DeviceName:   viper.GetString("DEVICE_NAME"),
		SyncInterval: viper.GetInt("SYNC_INTERVAL_SECONDS"),
		RepullDelay:  viper.GetInt("REPULL_DELAY_SECONDS"),
		AutoSync:     viper.GetBool("AUTO_SYNC"),
		Debug:        viper.GetBool("DEBUG"),
	}

	// Подписывающий сервис по умолчанию живет на том же адресе, что и релей.
	if config.SignerURL == "" {
		config.SignerURL = config.ServerURL
	}

	// Валидация конфигурации
	if err := config.validate(); err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}

	return config
}

func (c *Config) validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url не может быть пустым")
	}
	if c.SyncInterval <= 0 {
		return fmt.Errorf("sync_interval_seconds должен быть положительным")
	}
	return nil
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// IsDev проверяет, dev ли окружение
func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
