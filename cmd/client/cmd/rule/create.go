package rule

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	createCategory string
	createTime     int64
	createDays     int
)

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Создать правило в черновике",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		id, err := app.CreateRule(createCategory, map[string]interface{}{
			"maxTime": createTime,
			"dayMask": createDays,
		})
		if err != nil {
			return fmt.Errorf("ошибка создания правила: %w", err)
		}

		fmt.Printf("✅ Правило %s создано в черновике\n", id)
		return nil
	},
}

func init() {
	CreateCmd.Flags().StringVarP(&createCategory, "category", "c", "", "идентификатор категории")
	CreateCmd.Flags().Int64Var(&createTime, "time", 0, "лимит времени в миллисекундах")
	CreateCmd.Flags().IntVar(&createDays, "days", 127, "битовая маска дней недели")

	CreateCmd.MarkFlagRequired("category")
	CreateCmd.MarkFlagRequired("time")
}
