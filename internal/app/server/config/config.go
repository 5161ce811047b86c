package config

import (
	"log"
	"net/url"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = "../../.env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env    string
	Server server
	Logger logger
}

type server struct {
	RunAddress  string `env:"RUN_ADDRESS"`
	UpstreamURL string `env:"UPSTREAM_URL"`
	StoragePath string `env:"STORAGE_PATH"`
}

type logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// MustLoad читает .env и переменные окружения, падает при невалидной конфигурации.
func MustLoad() *Config {
	if err := godotenv.Load(envPath); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	viper.AutomaticEnv()
	viper.SetDefault("run_address", ":8099")
	viper.SetDefault("upstream_url", "https://server.timelimit.io")
	viper.SetDefault("storage_path", "/data/ha-storage.json")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("app_env", EnvProd)

	config := Config{
		Env: viper.GetString("app_env"),
		Server: server{
			RunAddress:  viper.GetString("run_address"),
			UpstreamURL: viper.GetString("upstream_url"),
			StoragePath: viper.GetString("storage_path"),
		},
		Logger: logger{LogLevel: viper.GetString("log_level")},
	}

	if err := validate(&config); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	return &config
}

func validate(c *Config) error {
	if _, err := url.ParseRequestURI(c.Server.UpstreamURL); err != nil {
		return err
	}
	return nil
}
