package rule

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	deleteCategory string
	deleteRule     string
)

var DeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Удалить правило из черновика",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		if err := app.DeleteRule(deleteCategory, deleteRule); err != nil {
			return fmt.Errorf("ошибка удаления правила: %w", err)
		}

		fmt.Println("✅ Правило удалено из черновика")
		return nil
	},
}

func init() {
	DeleteCmd.Flags().StringVarP(&deleteCategory, "category", "c", "", "идентификатор категории")
	DeleteCmd.Flags().StringVarP(&deleteRule, "rule", "r", "", "идентификатор правила")

	DeleteCmd.MarkFlagRequired("category")
	DeleteCmd.MarkFlagRequired("rule")
}
