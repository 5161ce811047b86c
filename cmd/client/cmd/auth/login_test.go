package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"timekeeper/cmd/client/cmd/types"
	"timekeeper/internal/app/client"
	"timekeeper/internal/app/client/config"
)

func TestLoginCmdTokenFlagPullsConfig(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sync/pull-status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"apiLevel": 6,
			"users": map[string]interface{}{
				"data": []map[string]interface{}{
					{"id": "p1", "name": "Ouder", "type": "parent"},
				},
			},
			"devices": map[string]interface{}{
				"data": []map[string]interface{}{
					{"deviceId": "dev1", "name": "timekeeper"},
				},
			},
			"categoryBase": []map[string]interface{}{
				{"categoryId": "c1", "title": "Games"},
			},
			"rules": []map[string]interface{}{
				{"categoryId": "c1", "rules": []map[string]interface{}{
					{"id": "r1", "maxTime": 3600000, "dayMask": 127},
				}},
			},
		})
	}))
	defer server.Close()

	dir := t.TempDir()
	cfg := &config.Config{
		Env:          "local",
		ServerURL:    server.URL,
		SignerURL:    server.URL,
		ConfigDir:    dir,
		DBPath:       filepath.Join(dir, "state.db"),
		DeviceName:   "timekeeper",
		SyncInterval: 30,
		RepullDelay:  0,
		AutoSync:     false,
	}
	app, err := client.New(cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	root := &cobra.Command{
		Use: "timekeeper",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), types.ClientAppKey, app))
		},
	}
	root.AddCommand(LoginCmd)
	root.SetArgs([]string{"login", "--token", " tok1 ", "--email", "a@example.com"})
	require.NoError(t, root.Execute())

	// Токен сохранен без окружающих пробелов, скрытый ввод не понадобился.
	token, err := app.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok1", token)

	// Сразу после входа конфигурация уже загружена с сервера.
	r, ok := app.Draft().GetRule("c1", "r1")
	require.True(t, ok)
	assert.Equal(t, int64(3600000), r.MaxTime)
}
