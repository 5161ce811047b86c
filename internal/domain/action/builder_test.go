package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timekeeper/internal/domain/family"
)

func TestNewUpdateFieldPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		fields   map[string]interface{}
		expected Fields
	}{
		{
			name:     "maxTime wins over time",
			fields:   map[string]interface{}{"maxTime": 1800000, "time": 999},
			expected: Fields{Time: 1800000},
		},
		{
			name:     "dayMask wins over days",
			fields:   map[string]interface{}{"dayMask": 127, "days": 3},
			expected: Fields{Days: 127},
		},
		{
			name:     "raw protocol names accepted alone",
			fields:   map[string]interface{}{"time": 500, "days": 64},
			expected: Fields{Time: 500, Days: 64},
		},
		{
			name:     "session is an alias for pause",
			fields:   map[string]interface{}{"session": 600000},
			expected: Fields{Pause: 600000},
		},
		{
			name:     "pause wins over session",
			fields:   map[string]interface{}{"pause": 100, "session": 200},
			expected: Fields{Pause: 100},
		},
		{
			name:     "absent fields default to zero values",
			fields:   map[string]interface{}{},
			expected: Fields{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewUpdate("7", tt.fields)
			assert.Equal(t, tt.expected, a.Fields)
		})
	}
}

func TestNewUpdateStringifiesIdentifier(t *testing.T) {
	a := NewUpdate(7, nil)
	assert.Equal(t, family.ID("7"), a.RuleID)
}

func TestUpdateEncodeStableShape(t *testing.T) {
	a := NewUpdate("r1", map[string]interface{}{
		"maxTime": 1800000,
		"dayMask": 127,
		"perDay":  true,
	})

	s, err := a.Encode()
	require.NoError(t, err)
	assert.Equal(t,
		`{"type":"UPDATE_TIMELIMIT_RULE","ruleId":"r1","time":1800000,"days":127,`+
			`"extraTime":0,"start":0,"end":0,"dur":0,"pause":0,"perDay":true,"e":0}`,
		s)
}

func TestCreateEncode(t *testing.T) {
	a := NewCreateFromRule("c1", family.Rule{ID: "r9", MaxTime: 100, DayMask: 31})

	s, err := a.Encode()
	require.NoError(t, err)
	assert.Equal(t,
		`{"type":"CREATE_TIMELIMIT_RULE","rule":{"ruleId":"r9","categoryId":"c1",`+
			`"time":100,"days":31,"extraTime":0,"start":0,"end":0,"dur":0,"pause":0,`+
			`"perDay":false,"e":0}}`,
		s)
}

func TestDeleteEncode(t *testing.T) {
	s, err := NewDelete(5).Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"type":"DELETE_TIMELIMIT_RULE","ruleId":"5"}`, s)
}

func TestBuildAppAssociationsDedup(t *testing.T) {
	actions := BuildAppAssociations([]AppChange{
		{CategoryID: "c1", PackageName: "a"},
		{CategoryID: "c1", PackageName: "b"},
		{CategoryID: "c1", PackageName: "a"}, // дубликат сворачивается
		{CategoryID: "c2", PackageName: "a", Remove: true},
		{CategoryID: "c1", PackageName: "c", Remove: true},
	})

	require.Len(t, actions, 3)

	add, ok := actions[0].(CategoryApps)
	require.True(t, ok)
	assert.Equal(t, family.ID("c1"), add.CategoryID)
	assert.Equal(t, []string{"a", "b"}, add.PackageNames)
	assert.Equal(t, TypeAddCategoryApps, add.Type())

	remove, ok := actions[1].(CategoryApps)
	require.True(t, ok)
	assert.Equal(t, family.ID("c2"), remove.CategoryID)
	assert.Equal(t, TypeRemoveCategoryApp, remove.Type())

	s, err := actions[0].Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"type":"ADD_CATEGORY_APPS","categoryId":"c1","packageNames":["a","b"]}`, s)
}

func TestAddUserAndCreateCategoryEncode(t *testing.T) {
	s, err := AddUser{Name: "Kind", UserType: "child"}.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"type":"ADD_USER","name":"Kind","userType":"child"}`, s)

	s, err = CreateCategory{ChildID: "u2", Title: "Games"}.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"type":"CREATE_CATEGORY","childId":"u2","title":"Games"}`, s)
}
