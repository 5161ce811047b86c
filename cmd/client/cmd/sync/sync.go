package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"timekeeper/cmd/client/cmd/types"
	"timekeeper/internal/app/client"
)

var (
	doPush     bool
	doPreview  bool
	showStatus bool
	watchMode  bool
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Синхронизация с сервером семьи",
	Long: `Синхронизация локального черновика с сервером семьи.

Без флагов загружает свежий снимок конфигурации. С флагом --push отправляет
накопленные правки пакетами подписанных действий и затем перечитывает
состояние с сервера.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("приложение не инициализировано")
		}

		switch {
		case showStatus:
			return printStatus(app)
		case doPreview:
			return runPreview(cmd.Context(), app)
		case doPush:
			return runPush(cmd.Context(), app)
		case watchMode:
			return runWatch(cmd.Context(), app)
		default:
			return runPull(cmd.Context(), app)
		}
	},
}

func runPull(ctx context.Context, app *client.App) error {
	fmt.Println("Загрузка конфигурации...")
	start := time.Now()

	if err := app.Sync().Pull(ctx); err != nil {
		return fmt.Errorf("ошибка загрузки: %w", err)
	}

	snapshot := app.Draft().Snapshot()
	fmt.Println()
	color.Green("✅ Конфигурация загружена за %v", time.Since(start).Round(time.Millisecond))
	fmt.Printf("Пользователей: %d, устройств: %d, категорий: %d\n",
		len(snapshot.Users.Data), len(snapshot.Devices.Data), len(snapshot.CategoryBase))

	return nil
}

func runPreview(ctx context.Context, app *client.App) error {
	plan, err := app.Sync().Preview(ctx)
	if err != nil {
		return fmt.Errorf("ошибка подготовки пакетов: %w", err)
	}

	if plan.Summary.Total == 0 {
		fmt.Println("Нет неотправленных правок")
		return nil
	}

	fmt.Printf("Действий к отправке: %d (изменений %d, создано %d, удалено %d, приложений %d)\n",
		plan.Summary.Total, plan.Summary.Updates, plan.Summary.Creates,
		plan.Summary.Deletes, plan.Summary.AppChanges)

	for i, batch := range plan.Batches {
		fmt.Printf("\nПакет %d (%d действий):\n", i+1, len(batch))
		for _, item := range batch {
			fmt.Printf("  #%d %s\n", item.SequenceNumber, item.EncodedAction)
		}
	}

	return nil
}

func runPush(ctx context.Context, app *client.App) error {
	fmt.Println("Отправка правок...")
	start := time.Now()

	result, err := app.Sync().Push(ctx)
	if err != nil {
		return fmt.Errorf("ошибка отправки: %w", err)
	}

	fmt.Println()
	if result.Batches == 0 {
		fmt.Println("Нет неотправленных правок")
		return nil
	}

	if result.Failed == 0 {
		color.Green("✅ Отправлено пакетов: %d за %v",
			result.Succeeded, time.Since(start).Round(time.Millisecond))
	} else {
		color.Yellow("⚠️  Пакетов отправлено: %d, с ошибками: %d", result.Succeeded, result.Failed)
		for _, e := range result.Errors {
			fmt.Printf("  пакет %d: %s\n", e.Batch, e.Error)
		}
		fmt.Println("Неотправленные правки сохранены, повторите: timekeeper sync --push")
	}

	if result.FullSyncRequested {
		color.Yellow("Сервер запросил полную синхронизацию")
	}

	return nil
}

func printStatus(app *client.App) error {
	status, err := app.Sync().Status()
	if err != nil {
		return fmt.Errorf("ошибка чтения статуса: %w", err)
	}

	fmt.Println("=== Статус синхронизации ===")

	fmt.Printf("Токен: %s\n", yesNo(status.HasToken))
	fmt.Printf("Хэш для подписи: %s\n", yesNo(status.HasSecret))
	fmt.Printf("Неотправленных правок: %d\n", status.PendingCount)
	fmt.Printf("Следующий номер действия: %d\n", status.NextSequence)

	if status.APILevel != nil {
		fmt.Printf("Уровень API сервера: %d\n", *status.APILevel)
	} else {
		fmt.Println("Уровень API сервера: неизвестен")
	}

	if status.LastPull.IsZero() {
		fmt.Println("Последняя загрузка: не выполнялась")
	} else {
		fmt.Printf("Последняя загрузка: %s\n", status.LastPull.Format("2006-01-02 15:04:05"))
	}

	return nil
}

func runWatch(ctx context.Context, app *client.App) error {
	fmt.Println("Фоновая синхронизация запущена, Ctrl+C для выхода")

	app.Events().Subscribe(func(ev client.Event) {
		switch ev.Kind {
		case client.EventBadgeChanged:
			printBadge(ev)
		case client.EventPendingChanged:
			fmt.Printf("  неотправленных правок: %d\n", ev.PendingCount)
		case client.EventCacheUpdated:
			fmt.Println("  конфигурация обновлена")
		}
	})

	app.Sync().StartAutoSync(ctx)
	return nil
}

func printBadge(ev client.Event) {
	switch ev.Badge {
	case client.BadgeOnline:
		color.Green("  статус: онлайн")
	case client.BadgeOffline:
		color.Yellow("  статус: офлайн")
	case client.BadgeSyncError:
		color.Red("  статус: ошибка синхронизации")
	case client.BadgeNoToken:
		color.Red("  статус: нет токена (timekeeper auth login)")
	}

	if ev.Remediation != "" {
		fmt.Printf("  подсказка: %s\n", ev.Remediation)
	}
}

func yesNo(v bool) string {
	if v {
		return color.GreenString("есть")
	}
	return color.RedString("нет")
}

func init() {
	SyncCmd.Flags().BoolVar(&doPush, "push", false, "отправить накопленные правки")
	SyncCmd.Flags().BoolVar(&doPreview, "preview", false, "показать пакеты без отправки")
	SyncCmd.Flags().BoolVar(&showStatus, "status", false, "показать статус синхронизации")
	SyncCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "фоновая синхронизация с выводом событий")
}
