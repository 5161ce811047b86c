package batch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timekeeper/internal/domain/action"
	"timekeeper/internal/domain/family"
)

type fakeAllocator struct {
	next     int64
	consumed int
}

func (f *fakeAllocator) PeekNext() (int64, error) { return f.next, nil }

func (f *fakeAllocator) ConsumeNext() (int64, error) {
	n := f.next
	f.next++
	f.consumed++
	return n, nil
}

func updates(n int) []action.Action {
	actions := make([]action.Action, 0, n)
	for i := 0; i < n; i++ {
		actions = append(actions, action.UpdateRule{RuleID: family.ID(fmt.Sprintf("r%d", i))})
	}
	return actions
}

func TestBuildSplits123IntoBatches(t *testing.T) {
	alloc := &fakeAllocator{}
	b := NewBatcher(alloc, DefaultLimit)

	plan, err := b.Build(updates(123), false)
	require.NoError(t, err)

	require.Len(t, plan.Batches, 3)
	assert.Len(t, plan.Batches[0], 50)
	assert.Len(t, plan.Batches[1], 50)
	assert.Len(t, plan.Batches[2], 23)
	assert.Equal(t, 123, plan.Summary.Total)
	assert.Equal(t, 123, plan.Summary.Updates)

	// Сквозной порядок и строго возрастающие номера через границы пакетов.
	var prev int64 = -1
	for _, batch := range plan.Batches {
		for _, item := range batch {
			assert.Equal(t, prev+1, item.SequenceNumber)
			prev = item.SequenceNumber
		}
	}
}

func TestBuildDryRunNeverConsumes(t *testing.T) {
	alloc := &fakeAllocator{next: 10}
	b := NewBatcher(alloc, DefaultLimit)

	plan, err := b.Build(updates(3), true)
	require.NoError(t, err)

	require.Len(t, plan.Batches, 1)
	assert.Equal(t, int64(10), plan.Batches[0][0].SequenceNumber)
	assert.Equal(t, int64(12), plan.Batches[0][2].SequenceNumber)
	assert.Zero(t, alloc.consumed)
	assert.Equal(t, int64(10), alloc.next)
}

func TestBuildEmptyPendingSet(t *testing.T) {
	b := NewBatcher(&fakeAllocator{}, DefaultLimit)

	plan, err := b.Build(nil, false)
	require.NoError(t, err)
	assert.Empty(t, plan.Batches)
	assert.Zero(t, plan.Summary.Total)
}

func TestBuildSummaryCounts(t *testing.T) {
	actions := []action.Action{
		action.UpdateRule{RuleID: "r1"},
		action.CreateRule{RuleID: "r2", CategoryID: "c1"},
		action.DeleteRule{RuleID: "r3"},
		action.CategoryApps{CategoryID: "c1", PackageNames: []string{"a"}},
		action.CategoryApps{CategoryID: "c1", PackageNames: []string{"b"}, Remove: true},
		action.AddUser{Name: "Kind", UserType: "child"},
	}

	plan, err := NewBatcher(&fakeAllocator{}, DefaultLimit).Build(actions, false)
	require.NoError(t, err)

	assert.Equal(t, Summary{
		Updates:    1,
		Creates:    1,
		Deletes:    1,
		AppChanges: 2,
		Other:      1,
		Total:      6,
	}, plan.Summary)
}

func TestNewBatcherDefaultLimit(t *testing.T) {
	b := NewBatcher(&fakeAllocator{}, 0)
	plan, err := b.Build(updates(51), false)
	require.NoError(t, err)
	require.Len(t, plan.Batches, 2)
	assert.Len(t, plan.Batches[0], 50)
}
