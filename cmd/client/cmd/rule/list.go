package rule

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать категории и правила",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		snapshot := app.Draft().Snapshot()
		changes := app.Tracker()

		for _, category := range snapshot.CategoryBase {
			title := color.CyanString(category.Title)
			fmt.Printf("%s (id=%s)\n", title, category.CategoryID)

			for _, section := range snapshot.Rules {
				if section.CategoryID != category.CategoryID {
					continue
				}
				for _, r := range section.Rules {
					fmt.Printf("  правило %s: лимит %s, дни %07b\n",
						r.ID, formatDuration(r.MaxTime), r.DayMask)
				}
			}

			for _, capp := range snapshot.CategoryApps {
				if capp.CategoryID == category.CategoryID {
					fmt.Printf("  приложение %s\n", capp.PackageName)
				}
			}
			fmt.Println()
		}

		if pending := changes.PendingCount(); pending > 0 {
			color.Yellow("Неотправленных правок: %d (timekeeper sync --push)", pending)
		}

		return nil
	},
}
