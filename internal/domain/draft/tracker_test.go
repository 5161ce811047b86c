package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timekeeper/internal/domain/family"
)

func TestRecordUpdateKeepsFirstOriginal(t *testing.T) {
	tr := NewTracker()
	base := family.Rule{ID: "7", MaxTime: 3600000}

	tr.RecordUpdate("5", "7", base, family.Rule{ID: "7", MaxTime: 1800000})
	tr.RecordUpdate("5", "7", base, family.Rule{ID: "7", MaxTime: 900000})

	changes := tr.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, int64(3600000), changes[0].Original.MaxTime)
	assert.Equal(t, int64(900000), changes[0].Current.MaxTime)
}

func TestRecordUpdateBackToBaselineDropsRecord(t *testing.T) {
	tr := NewTracker()
	base := family.Rule{ID: "7", MaxTime: 3600000}

	tr.RecordUpdate("5", "7", base, family.Rule{ID: "7", MaxTime: 1800000})
	tr.RecordUpdate("5", "7", base, base)

	assert.Empty(t, tr.Changes())
	assert.True(t, tr.Empty())
}

func TestRecordDeleteCancelsPendingCreation(t *testing.T) {
	tr := NewTracker()
	tr.RecordCreate("5", family.Rule{ID: "local1"})

	tr.RecordDelete("5", "local1")

	// Еще не отправленное создание просто исчезает, удаление не копится.
	assert.Empty(t, tr.NewRules())
	assert.Empty(t, tr.DeletedRules())
}

func TestRecordDeleteDropsPendingUpdate(t *testing.T) {
	tr := NewTracker()
	tr.RecordUpdate("5", "7",
		family.Rule{ID: "7", MaxTime: 1},
		family.Rule{ID: "7", MaxTime: 2})

	tr.RecordDelete("5", "7")

	assert.Empty(t, tr.Changes())
	require.Len(t, tr.DeletedRules(), 1)
}

func TestRecordAppChangeOppositeCancels(t *testing.T) {
	tr := NewTracker()

	tr.RecordAppChange("5", "com.example.game", DirectionAdd)
	tr.RecordAppChange("5", "com.example.game", DirectionAdd) // дубликат
	require.Len(t, tr.AppChanges(), 1)

	tr.RecordAppChange("5", "com.example.game", DirectionRemove)
	assert.Empty(t, tr.AppChanges())
}

func TestConfirmHelpers(t *testing.T) {
	tr := NewTracker()
	tr.RecordCreate("5", family.Rule{ID: "n1"})
	tr.RecordDelete("5", "7")
	tr.RecordAppChange("5", "pkg", DirectionAdd)

	tr.ConfirmCreation("n1")
	tr.ConfirmDeletion("5", "7")
	tr.ConfirmAppChange("5", "pkg", DirectionAdd)

	assert.True(t, tr.Empty())
}

func TestResetAll(t *testing.T) {
	tr := NewTracker()
	tr.RecordCreate("5", family.Rule{ID: "n1"})
	tr.RecordDelete("5", "7")
	tr.RecordAppChange("5", "pkg", DirectionAdd)
	tr.RecordUpdate("5", "8", family.Rule{ID: "8"}, family.Rule{ID: "8", MaxTime: 1})
	require.Equal(t, 4, tr.PendingCount())

	tr.ResetAll()
	assert.True(t, tr.Empty())
}

func TestExportRestoreTracker(t *testing.T) {
	tr := NewTracker()
	tr.RecordUpdate("5", "7", family.Rule{ID: "7"}, family.Rule{ID: "7", MaxTime: 1})
	tr.RecordCreate("5", family.Rule{ID: "n1"})

	data, err := tr.Export()
	require.NoError(t, err)

	restored := NewTracker()
	require.NoError(t, restored.Restore(data))
	assert.Equal(t, 2, restored.PendingCount())
	require.Len(t, restored.Changes(), 1)
	assert.Equal(t, family.ID("7"), restored.Changes()[0].RuleID)
}
