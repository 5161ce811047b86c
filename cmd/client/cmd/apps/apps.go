package apps

import (
	"fmt"

	"github.com/spf13/cobra"

	"timekeeper/cmd/client/cmd/types"
	"timekeeper/internal/app/client"
)

var (
	category string
	packages []string
)

// AppsCmd - родительская команда для привязки приложений к категориям
var AppsCmd = &cobra.Command{
	Use:   "apps",
	Short: "Привязка приложений к категориям",
	Long: `Добавление и удаление приложений в категориях лимитов.

Как и правки правил, изменения копятся в черновике до "sync --push".`,
}

var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Добавить приложения в категорию",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		if err := app.AddCategoryApps(category, packages); err != nil {
			return fmt.Errorf("ошибка добавления приложений: %w", err)
		}

		fmt.Printf("✅ Добавлено приложений: %d\n", len(packages))
		return nil
	},
}

var RemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Убрать приложения из категории",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		if err := app.RemoveCategoryApps(category, packages); err != nil {
			return fmt.Errorf("ошибка удаления приложений: %w", err)
		}

		fmt.Printf("✅ Убрано приложений: %d\n", len(packages))
		return nil
	},
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

func init() {
	for _, c := range []*cobra.Command{AddCmd, RemoveCmd} {
		c.Flags().StringVarP(&category, "category", "c", "", "идентификатор категории")
		c.Flags().StringSliceVarP(&packages, "package", "p", nil, "имя пакета приложения (можно несколько)")
		c.MarkFlagRequired("category")
		c.MarkFlagRequired("package")
	}
}
