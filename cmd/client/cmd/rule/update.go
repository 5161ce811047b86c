package rule

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	updateCategory string
	updateRule     string
	updateTime     int64
	updateDays     int
	updateExtra    int
	updateStart    int
	updateEnd      int
	updateDur      int
	updatePause    int
	updatePerDay   bool
)

var UpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Изменить правило в черновике",
	Long: `Меняет поля правила. Учитываются только явно переданные флаги:
неуказанные поля сохраняют текущие значения.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		fields := map[string]interface{}{}
		if cmd.Flags().Changed("time") {
			fields["maxTime"] = updateTime
		}
		if cmd.Flags().Changed("days") {
			fields["dayMask"] = updateDays
		}
		if cmd.Flags().Changed("extra-time") {
			fields["extraTime"] = updateExtra
		}
		if cmd.Flags().Changed("start") {
			fields["start"] = updateStart
		}
		if cmd.Flags().Changed("end") {
			fields["end"] = updateEnd
		}
		if cmd.Flags().Changed("duration") {
			fields["dur"] = updateDur
		}
		if cmd.Flags().Changed("pause") {
			fields["pause"] = updatePause
		}
		if cmd.Flags().Changed("per-day") {
			fields["perDay"] = updatePerDay
		}

		if len(fields) == 0 {
			return fmt.Errorf("не переданы поля для изменения")
		}

		if err := app.UpdateRule(updateCategory, updateRule, fields); err != nil {
			return fmt.Errorf("ошибка изменения правила: %w", err)
		}

		fmt.Println("✅ Правило изменено в черновике")
		return nil
	},
}

func init() {
	UpdateCmd.Flags().StringVarP(&updateCategory, "category", "c", "", "идентификатор категории")
	UpdateCmd.Flags().StringVarP(&updateRule, "rule", "r", "", "идентификатор правила")
	UpdateCmd.Flags().Int64Var(&updateTime, "time", 0, "лимит времени в миллисекундах")
	UpdateCmd.Flags().IntVar(&updateDays, "days", 0, "битовая маска дней недели")
	UpdateCmd.Flags().IntVar(&updateExtra, "extra-time", 0, "дополнительное время в миллисекундах")
	UpdateCmd.Flags().IntVar(&updateStart, "start", 0, "начало окна в минутах от полуночи")
	UpdateCmd.Flags().IntVar(&updateEnd, "end", 0, "конец окна в минутах от полуночи")
	UpdateCmd.Flags().IntVar(&updateDur, "duration", 0, "длительность сессии в миллисекундах")
	UpdateCmd.Flags().IntVar(&updatePause, "pause", 0, "пауза между сессиями в миллисекундах")
	UpdateCmd.Flags().BoolVar(&updatePerDay, "per-day", false, "дополнительное время на каждый день")

	UpdateCmd.MarkFlagRequired("category")
	UpdateCmd.MarkFlagRequired("rule")
}
