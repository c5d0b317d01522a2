package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArray(items ...any) *Array {
	s := append([]any{}, items...)
	return Reactive(&s).(*Array)
}

func TestArrayLengthTracking(t *testing.T) {
	arr := newTestArray(1, 2, 3)

	var lengths []int
	CreateEffect(func() {
		lengths = append(lengths, arr.Len())
	})
	require.Equal(t, []int{3}, lengths)

	arr.Push(4)
	assert.Equal(t, []int{3, 4}, lengths)
}

func TestArrayIndexTracking(t *testing.T) {
	arr := newTestArray(1, 2, 3)

	var seen []any
	CreateEffect(func() {
		seen = append(seen, arr.Get(0))
	})
	require.Equal(t, []any{1}, seen)

	arr.Set(0, 10)
	assert.Equal(t, []any{1, 10}, seen)

	// Same value: no re-run.
	arr.Set(0, 10)
	assert.Equal(t, []any{1, 10}, seen)

	// Writes to other indices don't touch this effect.
	arr.Set(1, 20)
	assert.Equal(t, []any{1, 10}, seen)
}

func TestArraySetPastEndIsAdd(t *testing.T) {
	arr := newTestArray(1)

	var lengths []int
	CreateEffect(func() {
		lengths = append(lengths, arr.Len())
	})
	require.Equal(t, []int{1}, lengths)

	arr.Set(3, 4)
	assert.Equal(t, []int{1, 4}, lengths)
	assert.Nil(t, arr.Get(2))
	assert.Equal(t, 4, arr.Get(3))
}

func TestArrayPopShiftUnshift(t *testing.T) {
	arr := newTestArray(1, 2, 3)

	var firsts []any
	CreateEffect(func() {
		firsts = append(firsts, arr.Get(0))
	})
	require.Equal(t, []any{1}, firsts)

	assert.Equal(t, 1, arr.Shift())
	assert.Equal(t, []any{1, 2}, firsts)

	arr.Unshift(0)
	assert.Equal(t, []any{1, 2, 0}, firsts)

	assert.Equal(t, 3, arr.Pop())
	assert.Equal(t, 2, arr.Len())
}

func TestArraySplice(t *testing.T) {
	arr := newTestArray(1, 2, 3, 4)

	removed := arr.Splice(1, 2, 9)
	assert.Equal(t, []any{2, 3}, removed)
	assert.Equal(t, []any{1, 9, 4}, arr.Values())
}

func TestArrayTruncateTriggersRemovedIndices(t *testing.T) {
	arr := newTestArray(1, 2, 3)

	var seen []any
	CreateEffect(func() {
		seen = append(seen, arr.Get(2))
	})
	require.Equal(t, []any{3}, seen)

	arr.SetLen(1)
	assert.Equal(t, []any{3, nil}, seen)
	assert.Equal(t, 1, arr.Len())
}

func TestArrayMutatorsDoNotTrackInternally(t *testing.T) {
	arr := newTestArray(1)
	other := newTestArray(1)

	runs := 0
	CreateEffect(func() {
		runs++
		_ = other.Get(0)
		// Mutating inside an effect must not subscribe the effect to the
		// mutated array's length.
		arr.Push(runs)
	})
	require.Equal(t, 1, runs)

	arr.Push(99)
	assert.Equal(t, 1, runs, "push internals must not have tracked")

	other.Set(0, 2)
	assert.Equal(t, 2, runs)
}

func TestArrayIncludesIndexOf(t *testing.T) {
	inner := map[string]any{"id": 1}
	arr := newTestArray(inner, "x")

	assert.True(t, arr.Includes("x"))
	assert.Equal(t, 1, arr.IndexOf("x"))
	assert.Equal(t, -1, arr.IndexOf("missing"))

	// Lookup succeeds with the wrapper of a stored raw value.
	wrapped := Reactive(inner)
	assert.True(t, arr.Includes(wrapped))
	assert.Equal(t, 0, arr.IndexOf(wrapped))
	assert.Equal(t, 0, arr.LastIndexOf(wrapped))
}

func TestArraySearchTracksIndices(t *testing.T) {
	arr := newTestArray(1, 2)

	runs := 0
	CreateEffect(func() {
		runs++
		_ = arr.Includes(2)
	})
	require.Equal(t, 1, runs)

	arr.Set(0, 5)
	assert.Equal(t, 2, runs)

	arr.Push(7)
	assert.Equal(t, 3, runs)
}

func TestArrayDeepWrapsElements(t *testing.T) {
	arr := newTestArray(map[string]any{"n": 1})

	el := arr.Get(0)
	require.IsType(t, &Object{}, el)

	runs := 0
	CreateEffect(func() {
		runs++
		_ = el.(*Object).Get("n")
	})
	el.(*Object).Set("n", 2)
	assert.Equal(t, 2, runs)
}

func TestArrayRefsNotUnwrappedByIndex(t *testing.T) {
	r := NewRef(1)
	arr := newTestArray(r)

	got := arr.Get(0)
	assert.Same(t, r, got, "refs stay wrapped for integer indices")
}

func TestReadonlyArray(t *testing.T) {
	var warnings []string
	SetWarnHandler(func(msg string) { warnings = append(warnings, msg) })
	defer SetWarnHandler(nil)

	s := []any{1, 2}
	ro := Readonly(&s).(*Array)

	ro.Set(0, 9)
	ro.Push(3)
	assert.Equal(t, 1, ro.Get(0))
	assert.Equal(t, 2, ro.Len())
	assert.Len(t, warnings, 2)
}
