package rule

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"timekeeper/cmd/client/cmd/types"
	"timekeeper/internal/app/client"
)

// RuleCmd - родительская команда для работы с правилами лимитов
var RuleCmd = &cobra.Command{
	Use:   "rule",
	Short: "Управление правилами лимитов времени",
	Long: `Просмотр и правка правил лимитов экранного времени.

Правки применяются к локальному черновику и попадают на сервер только
после команды "timekeeper sync --push".`,
}

func appFromContext(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok {
		return nil, fmt.Errorf("приложение не инициализировано")
	}
	if !app.Draft().Initialized() {
		return nil, fmt.Errorf("конфигурация не загружена. Выполните: timekeeper sync")
	}
	return app, nil
}

func formatDuration(ms int64) string {
	return time.Duration(ms * int64(time.Millisecond)).String()
}
