package sequence

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	values map[string]string
	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]string)}
}

func (m *memStore) GetState(key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.values[key], nil
}

func (m *memStore) SetState(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func TestPeekNextDefaults(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{name: "absent", stored: ""},
		{name: "negative", stored: "-3"},
		{name: "non-numeric", stored: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			if tt.stored != "" {
				store.values[StateKey] = tt.stored
			}

			n, err := New(store).PeekNext()
			require.NoError(t, err)
			assert.Equal(t, int64(0), n)
		})
	}
}

func TestPeekDoesNotMutate(t *testing.T) {
	store := newMemStore()
	store.values[StateKey] = "7"
	a := New(store)

	for i := 0; i < 3; i++ {
		n, err := a.PeekNext()
		require.NoError(t, err)
		assert.Equal(t, int64(7), n)
	}
}

func TestConsumeNextStrictlyIncreasing(t *testing.T) {
	store := newMemStore()

	// Несколько "перезапусков процесса" поверх одного хранилища:
	// значения обязаны строго возрастать и никогда не повторяться.
	seen := make(map[int64]bool)
	var prev int64 = -1

	for restart := 0; restart < 4; restart++ {
		a := New(store)
		for i := 0; i < 10; i++ {
			n, err := a.ConsumeNext()
			require.NoError(t, err)
			assert.Greater(t, n, prev)
			assert.False(t, seen[n], "номер %d выдан повторно", n)
			seen[n] = true
			prev = n
		}
	}

	assert.Equal(t, int64(39), prev)
}

func TestConsumeNextPersistErrorBurnsNothing(t *testing.T) {
	store := newMemStore()
	store.values[StateKey] = "5"
	store.setErr = errors.New("база недоступна")

	_, err := New(store).ConsumeNext()
	require.Error(t, err)
	assert.Equal(t, "5", store.values[StateKey])
}

func TestReset(t *testing.T) {
	store := newMemStore()
	a := New(store)

	for i := 0; i < 5; i++ {
		_, err := a.ConsumeNext()
		require.NoError(t, err)
	}

	require.NoError(t, a.Reset())

	n, err := a.PeekNext()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
