// cmd/client/cmd/auth/refresh.go
package auth

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"timekeeper/cmd/client/cmd/types"
	"timekeeper/internal/app/client"
)

var RefreshCmd = &cobra.Command{
	Use:   "refresh-hashes",
	Short: "Обновить хэши пароля для подписи действий",
	Long: `Пересчитывает secondHash пароля родителя.

Если в загруженном снимке есть соль родителя, хэш восстанавливается по ней,
иначе генерируется новая пара хэшей. Без secondHash отправка действий
невозможна.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("приложение не инициализировано")
		}

		fmt.Print("Пароль родителя: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения пароля: %w", err)
		}
		fmt.Println()

		if err := app.RefreshHashes(cmd.Context(), string(password)); err != nil {
			return fmt.Errorf("ошибка обновления хэшей: %w", err)
		}

		fmt.Println("✅ Хэши обновлены, действия будут подписываться")
		return nil
	},
}
