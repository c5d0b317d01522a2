package reactive

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func newTestMap() *Map {
	return Reactive(orderedmap.New[any, any]()).(*Map)
}

func newTestSet() *Set {
	return Reactive(mapset.NewSet[any]()).(*Set)
}

func TestMapGetSet(t *testing.T) {
	m := newTestMap()

	var seen []any
	CreateEffect(func() {
		v, _ := m.Get("a")
		seen = append(seen, v)
	})
	require.Equal(t, []any{nil}, seen)

	m.Set("a", 1)
	assert.Equal(t, []any{nil, 1}, seen)

	m.Set("a", 1)
	assert.Equal(t, []any{nil, 1}, seen, "same value must not trigger")

	m.Set("a", 2)
	assert.Equal(t, []any{nil, 1, 2}, seen)
}

func TestMapHas(t *testing.T) {
	m := newTestMap()

	var checks []bool
	CreateEffect(func() {
		checks = append(checks, m.Has("k"))
	})
	require.Equal(t, []bool{false}, checks)

	m.Set("k", 1)
	assert.Equal(t, []bool{false, true}, checks)

	m.Delete("k")
	assert.Equal(t, []bool{false, true, false}, checks)
}

func TestMapSizeTracksIteration(t *testing.T) {
	m := newTestMap()
	m.Set("a", 1)

	var sizes []int
	CreateEffect(func() {
		sizes = append(sizes, m.Len())
	})
	require.Equal(t, []int{1}, sizes)

	// Value-only write still notifies size dependents (iteration dep).
	m.Set("a", 2)
	assert.Equal(t, []int{1, 1}, sizes)

	m.Set("b", 2)
	assert.Equal(t, []int{1, 1, 2}, sizes)

	m.Delete("a")
	assert.Equal(t, []int{1, 1, 2, 1}, sizes)
}

func TestMapKeysIgnoreValueWrites(t *testing.T) {
	m := newTestMap()
	m.Set("a", 1)

	runs := 0
	CreateEffect(func() {
		runs++
		_ = m.Keys()
	})
	require.Equal(t, 1, runs)

	// Key-only iteration is not invalidated by value writes.
	m.Set("a", 99)
	assert.Equal(t, 1, runs)

	m.Set("b", 1)
	assert.Equal(t, 2, runs)

	m.Delete("b")
	assert.Equal(t, 3, runs)
}

func TestMapClearNotifiesEverything(t *testing.T) {
	m := newTestMap()
	m.Set("a", 1)
	m.Set("b", 2)

	aRuns := 0
	CreateEffect(func() {
		aRuns++
		m.Get("a")
	})
	sizeRuns := 0
	CreateEffect(func() {
		sizeRuns++
		m.Len()
	})
	require.Equal(t, 1, aRuns)
	require.Equal(t, 1, sizeRuns)

	m.Clear()
	assert.Equal(t, 2, aRuns)
	assert.Equal(t, 2, sizeRuns)
	assert.Equal(t, 0, m.Len())
}

func TestMapForEachAndEntries(t *testing.T) {
	m := newTestMap()
	m.Set("a", 1)
	m.Set("b", map[string]any{"n": 1})

	var order []any
	m.ForEach(func(value, key any) {
		order = append(order, key)
		if key == "b" {
			assert.IsType(t, &Object{}, value, "yielded values wrap per flavor")
		}
	})
	assert.Equal(t, []any{"a", "b"}, order, "insertion order")

	entries := m.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0][0])
	assert.Equal(t, 1, entries[0][1])
}

func TestMapReactiveKeyLookup(t *testing.T) {
	key := &testConfig{Name: "k"}
	m := newTestMap()
	m.Set(key, "value")

	wrapped := Reactive(key)
	v, ok := m.Get(wrapped)
	assert.True(t, ok, "lookup by wrapper finds raw-keyed entry")
	assert.Equal(t, "value", v)
	assert.True(t, m.Has(wrapped))
}

func TestReadonlyMapRefusesWrites(t *testing.T) {
	var warnings []string
	SetWarnHandler(func(msg string) { warnings = append(warnings, msg) })
	defer SetWarnHandler(nil)

	om := orderedmap.New[any, any]()
	om.Set("a", 1)
	ro := Readonly(om).(*Map)

	ro.Set("a", 2)
	assert.False(t, ro.Delete("a"))
	ro.Clear()

	v, _ := ro.Get("a")
	assert.Equal(t, 1, v)
	assert.Len(t, warnings, 3)
}

func TestSetMembership(t *testing.T) {
	s := newTestSet()

	var checks []bool
	CreateEffect(func() {
		checks = append(checks, s.Has("x"))
	})
	require.Equal(t, []bool{false}, checks)

	s.Add("x")
	assert.Equal(t, []bool{false, true}, checks)

	// Re-adding is inert.
	s.Add("x")
	assert.Equal(t, []bool{false, true}, checks)

	s.Delete("x")
	assert.Equal(t, []bool{false, true, false}, checks)
}

func TestSetSizeAndClear(t *testing.T) {
	s := newTestSet()
	s.Add(1)
	s.Add(2)

	var sizes []int
	CreateEffect(func() {
		sizes = append(sizes, s.Len())
	})
	require.Equal(t, []int{2}, sizes)

	s.Add(3)
	assert.Equal(t, []int{2, 3}, sizes)

	s.Clear()
	assert.Equal(t, []int{2, 3, 0}, sizes)
}

func TestSetStoresRawValues(t *testing.T) {
	member := &testConfig{Name: "m"}
	wrapped := Reactive(member)

	s := newTestSet()
	s.Add(wrapped)

	assert.True(t, s.Has(member))
	assert.True(t, s.Has(wrapped))
	assert.True(t, s.Delete(wrapped))
	assert.Equal(t, 0, s.Len())
}

func TestReadonlySetRefusesWrites(t *testing.T) {
	var warnings []string
	SetWarnHandler(func(msg string) { warnings = append(warnings, msg) })
	defer SetWarnHandler(nil)

	raw := mapset.NewSet[any]()
	raw.Add("x")
	ro := Readonly(raw).(*Set)

	ro.Add("y")
	assert.False(t, ro.Delete("x"))
	ro.Clear()

	assert.Equal(t, 1, ro.Len())
	assert.Len(t, warnings, 3)
}
