package client

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timekeeper/internal/domain/family"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStateRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	v, err := s.GetState("missing")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.SetState(KeyToken, "tok1"))
	require.NoError(t, s.SetState(KeyToken, "tok2"))

	v, err = s.GetState(KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok2", v)

	require.NoError(t, s.DeleteState(KeyToken))
	v, err = s.GetState(KeyToken)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestAccountHistoryPrunes(t *testing.T) {
	s := newTestStorage(t)

	base := time.Now().Add(-time.Hour).Unix()
	for i := 0; i < maxAccountHistory+5; i++ {
		require.NoError(t, s.SaveAccount(AccountEntry{
			Token:      string(rune('a'+i)) + "-token",
			Email:      "u@example.com",
			Seq:        int64(i),
			LastUsedAt: base + int64(i)*60,
		}))
	}

	accounts, err := s.ListAccounts()
	require.NoError(t, err)
	assert.Len(t, accounts, maxAccountHistory)

	// Самые старые записи вытеснены.
	oldest, err := s.GetAccount("a-token")
	require.NoError(t, err)
	assert.Nil(t, oldest)
}

func TestMergeDeviceAppsOverwritesPresentFields(t *testing.T) {
	s := newTestStorage(t)

	base := `[{"packageName":"com.example.game"}]`
	require.NoError(t, s.MergeDeviceApps(family.DeviceApps{
		DeviceID: "dev1",
		AppsBase: &family.AppsBlob{Version: "v1", Data: json.RawMessage(base)},
	}))

	diff := `[{"packageName":"com.example.chat"}]`
	require.NoError(t, s.MergeDeviceApps(family.DeviceApps{
		DeviceID: "dev1",
		AppsDiff: &family.AppsBlob{Version: "d1", Data: json.RawMessage(diff)},
	}))

	entry, err := s.GetDeviceApps("dev1")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "v1", entry.BaseVersion)
	assert.JSONEq(t, base, entry.BaseData)
	assert.Equal(t, "d1", entry.DiffVersion)
	assert.JSONEq(t, diff, entry.DiffData)
}
