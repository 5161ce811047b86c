package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timekeeper/internal/domain/family"
)

func testSnapshot() *family.Snapshot {
	return &family.Snapshot{
		Users: family.UserList{Data: []family.User{
			{ID: "p1", Name: "Ouder", Type: "parent"},
		}},
		CategoryBase: []family.Category{
			{CategoryID: "5", Title: "Games"},
		},
		Rules: []family.CategoryRules{
			{CategoryID: "5", Rules: []family.Rule{
				{ID: "7", MaxTime: 3600000, DayMask: 127},
			}},
		},
		CategoryApps: []family.CategoryApp{
			{CategoryID: "5", PackageName: "com.example.game"},
		},
	}
}

func TestInitializeDeepCopy(t *testing.T) {
	original := testSnapshot()
	s := NewStore()
	require.NoError(t, s.Initialize(original))

	// Правка черновика не должна задеть исходный снимок.
	s.UpdateRule("5", "7", map[string]interface{}{"maxTime": 1800000})

	r, ok := s.GetRule("5", "7")
	require.True(t, ok)
	assert.Equal(t, int64(1800000), r.MaxTime)
	assert.Equal(t, int64(3600000), original.Rules[0].Rules[0].MaxTime)
}

func TestUpdateRuleLooseIdentifiers(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Initialize(testSnapshot()))

	// Строковая и числовая формы идентификаторов находят одно правило.
	s.UpdateRule(5, 7, map[string]interface{}{"maxTime": 1000})
	r, ok := s.GetRule("5", "7")
	require.True(t, ok)
	assert.Equal(t, int64(1000), r.MaxTime)

	s.UpdateRule("5", "7", map[string]interface{}{"maxTime": 2000})
	r, ok = s.GetRule(5, 7)
	require.True(t, ok)
	assert.Equal(t, int64(2000), r.MaxTime)
}

func TestUpdateRuleFieldAliases(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Initialize(testSnapshot()))

	// maxTime важнее сырого time, session принимается вместо pause.
	s.UpdateRule("5", "7", map[string]interface{}{
		"maxTime": 1800000,
		"time":    999,
		"days":    31,
		"session": 600000,
		"perDay":  true,
	})

	r, ok := s.GetRule("5", "7")
	require.True(t, ok)
	assert.Equal(t, int64(1800000), r.MaxTime)
	assert.Equal(t, 31, r.DayMask)
	assert.Equal(t, int64(600000), r.Pause)
	assert.True(t, r.PerDay)
}

func TestUpdateRuleSilentNoop(t *testing.T) {
	s := NewStore()

	// Без черновика и без правила - тихий no-op, без паники.
	s.UpdateRule("5", "7", map[string]interface{}{"maxTime": 1})

	require.NoError(t, s.Initialize(testSnapshot()))
	s.UpdateRule("5", "nope", map[string]interface{}{"maxTime": 1})
	s.UpdateRule("nope", "7", map[string]interface{}{"maxTime": 1})

	r, ok := s.GetRule("5", "7")
	require.True(t, ok)
	assert.Equal(t, int64(3600000), r.MaxTime)
}

func TestAddRemoveRule(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Initialize(testSnapshot()))

	s.AddRule("5", family.Rule{ID: "new1", MaxTime: 100})
	_, ok := s.GetRule("5", "new1")
	assert.True(t, ok)

	// Новая категория создается на лету.
	s.AddRule("9", family.Rule{ID: "new2"})
	_, ok = s.GetRule("9", "new2")
	assert.True(t, ok)

	s.RemoveRule("5", "new1")
	_, ok = s.GetRule("5", "new1")
	assert.False(t, ok)
}

func TestCategoryApps(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Initialize(testSnapshot()))

	s.AddCategoryApp("5", "com.example.game") // дубликат
	s.AddCategoryApp("5", "com.example.other")
	assert.Len(t, s.Snapshot().CategoryApps, 2)

	s.RemoveCategoryApp("5", "com.example.game")
	assert.False(t, s.Snapshot().HasCategoryApp("5", "com.example.game"))
	assert.True(t, s.Snapshot().HasCategoryApp("5", "com.example.other"))
}

func TestExportRestore(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Initialize(testSnapshot()))
	s.UpdateRule("5", "7", map[string]interface{}{"maxTime": 42})

	data, err := s.Export()
	require.NoError(t, err)

	restored := NewStore()
	require.NoError(t, restored.Restore(data))
	r, ok := restored.GetRule("5", "7")
	require.True(t, ok)
	assert.Equal(t, int64(42), r.MaxTime)

	empty := NewStore()
	require.NoError(t, empty.Restore(nil))
	assert.False(t, empty.Initialized())
}
