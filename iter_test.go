package genarena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect[T any](seq func(yield func(Index, T) bool)) (indices []Index, values []T) {
	seq(func(i Index, v T) bool {
		indices = append(indices, i)
		values = append(values, v)
		return true
	})
	return indices, values
}

func TestIter_AscendingOverOccupied(t *testing.T) {
	a := New[string]()
	ia := a.Insert("a")
	ib := a.Insert("b")
	ic := a.Insert("c")
	a.Remove(ib) // leave a hole at slot 1

	indices, values := collect[string](a.Iter())
	assert.Equal(t, []Index{ia, ic}, indices)
	assert.Equal(t, []string{"a", "c"}, values)
}

func TestIter_EarlyBreak(t *testing.T) {
	a := New[int]()
	for i := 0; i < 5; i++ {
		a.Insert(i)
	}

	var seen int
	for range a.Iter() {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
	assert.Equal(t, 5, a.Len())
}

func TestBackward_Descending(t *testing.T) {
	a := New[int]()
	for i := 0; i < 4; i++ {
		a.Insert(i)
	}

	_, values := collect[int](a.Backward())
	assert.Equal(t, []int{3, 2, 1, 0}, values)
}

func TestIterMut_UpdatesInPlace(t *testing.T) {
	a := New[int]()
	for i := 1; i <= 3; i++ {
		a.Insert(i)
	}

	for _, v := range a.IterMut() {
		*v *= 100
	}

	_, values := collect[int](a.Iter())
	assert.Equal(t, []int{100, 200, 300}, values)
}

func TestBackwardMut_Descending(t *testing.T) {
	a := New[int]()
	for i := 0; i < 3; i++ {
		a.Insert(i)
	}

	order := 0
	for idx, v := range a.BackwardMut() {
		slot, _ := idx.RawParts()
		assert.Equal(t, uint32(2-order), slot)
		*v = -*v
		order++
	}
	assert.Equal(t, 3, order)
}

func TestDrain_Exhaustive(t *testing.T) {
	a := New[string]()
	a.Insert("a")
	a.Insert("b")
	a.Insert("c")

	beforeIdx, beforeVals := collect[string](a.Iter())

	drainedIdx, drainedVals := collect[string](a.Drain())
	assert.Equal(t, beforeIdx, drainedIdx)
	assert.Equal(t, beforeVals, drainedVals)

	assert.Equal(t, 0, a.Len())
	assert.True(t, a.IsEmpty())
	for _, idx := range drainedIdx {
		assert.False(t, a.Contains(idx))
	}
}

func TestDrain_Partial(t *testing.T) {
	a := New[int]()
	var indices []Index
	for i := 0; i < 5; i++ {
		indices = append(indices, a.Insert(i))
	}

	drained := 0
	for idx := range a.Drain() {
		// Each yielded element is already gone.
		assert.False(t, a.Contains(idx))
		drained++
		if drained == 2 {
			break
		}
	}

	// The remainder is intact and still valid under the original indices.
	require.Equal(t, 3, a.Len())
	for i, idx := range indices[2:] {
		v, ok := a.Get(idx)
		require.True(t, ok)
		assert.Equal(t, i+2, *v)
	}
}

func TestIter_Restartable(t *testing.T) {
	a := New[int]()
	a.Insert(1)
	a.Insert(2)

	_, first := collect[int](a.Iter())
	_, second := collect[int](a.Iter())
	assert.Equal(t, first, second)
}
