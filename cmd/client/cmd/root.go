// cmd/client/cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"timekeeper/cmd/client/cmd/types"
	"timekeeper/internal/app/client"
	"timekeeper/internal/app/client/config"
	"timekeeper/internal/utils/logger"
)

var (
	cfg       *config.Config
	log       *slog.Logger
	app       *client.App
	debug     bool
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "timekeeper",
	Short: "TimeKeeper - клиент настройки родительского контроля",
	Long: `TimeKeeper — консольный клиент для настройки лимитов экранного времени.

Клиент работает офлайн: полный снимок конфигурации семьи загружается с
сервера, правки накапливаются локально и отправляются пакетами подписанных
действий. После успешной отправки состояние перечитывается с сервера.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg = config.MustLoad()

	// Переопределяем настройки из флагов командной строки
	if serverURL != "" {
		cfg.ServerURL = serverURL
		cfg.SignerURL = serverURL
	}
	if debug {
		cfg.Debug = true
	}

	log = logger.New(cfg.Env)

	var err error
	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	// Явно заданные флаги запоминаются и действуют в следующих запусках.
	if serverURL != "" {
		if err := app.SetServer(serverURL); err != nil {
			return fmt.Errorf("ошибка смены сервера: %w", err)
		}
	}
	if cmd.Flags().Changed("debug") {
		if err := app.SetDebugMode(debug); err != nil {
			return fmt.Errorf("ошибка переключения отладки: %w", err)
		}
	}

	cmd.SetContext(context.WithValue(cmd.Context(), types.ClientAppKey, app))

	return nil
}

func init() {
	cobra.OnInitialize()

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "URL сервера TimeKeeper")

	// Команды добавляются в init() соответствующих файлов
}
