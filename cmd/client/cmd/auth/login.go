// cmd/client/cmd/auth/login.go
package auth

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"timekeeper/cmd/client/cmd/types"
	"timekeeper/internal/app/client"
)

var (
	loginEmail string
	loginToken string
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти по токену устройства",
	Long: `Сохраняет токен устройства и загружает конфигурацию семьи.

Токен выдает сервер семьи при регистрации устройства. Если токен уже
использовался раньше, восстанавливаются счетчик действий и сервер этой
записи. Без флага --token токен запрашивается со скрытым вводом.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("приложение не инициализировано")
		}

		token := loginToken
		if token == "" {
			fmt.Println("=== Вход в систему ===")
			fmt.Println()

			fmt.Print("Токен устройства: ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				return fmt.Errorf("ошибка чтения токена: %w", err)
			}
			fmt.Println()
			token = string(raw)
		}

		if err := app.Login(strings.TrimSpace(token), loginEmail); err != nil {
			return fmt.Errorf("ошибка входа: %w", err)
		}

		fmt.Println()
		fmt.Println("✅ Токен сохранен!")
		fmt.Println()

		fmt.Println("Загружаю конфигурацию с сервера...")
		if err := app.Sync().Pull(cmd.Context()); err != nil {
			fmt.Printf("⚠  Не удалось загрузить конфигурацию: %v\n", err)
			fmt.Println("Повторите позже: timekeeper sync")
		} else {
			fmt.Println("✅ Конфигурация загружена")
		}

		fmt.Println()
		fmt.Println("Что дальше:")
		fmt.Println("1. Обновите хэши пароля: timekeeper auth refresh-hashes")
		fmt.Println("2. Посмотрите правила: timekeeper rule list")

		return nil
	},
}

func init() {
	LoginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "email для истории учетных записей")
	LoginCmd.Flags().StringVarP(&loginToken, "token", "t", "", "токен устройства (иначе скрытый ввод)")
}
