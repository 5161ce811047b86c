// cmd/client/cmd/auth/accounts.go
package auth

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"timekeeper/cmd/client/cmd/types"
	"timekeeper/internal/app/client"
)

var AccountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "История учетных записей",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("приложение не инициализировано")
		}

		accounts, err := app.Storage().ListAccounts()
		if err != nil {
			return fmt.Errorf("ошибка чтения истории: %w", err)
		}
		if len(accounts) == 0 {
			fmt.Println("История пуста. Выполните: timekeeper auth login")
			return nil
		}

		current, _ := app.Token()

		for _, acc := range accounts {
			marker := "  "
			if acc.Token == current {
				marker = color.GreenString("* ")
			}

			email := acc.Email
			if email == "" {
				email = "(без email)"
			}

			fmt.Printf("%s%s  seq=%d  %s\n",
				marker, email, acc.Seq,
				time.Unix(acc.LastUsedAt, 0).Format("2006-01-02 15:04"))
		}

		return nil
	},
}
