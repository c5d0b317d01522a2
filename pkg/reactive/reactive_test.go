package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxyIdentity(t *testing.T) {
	m := map[string]any{"a": 1}

	p := Reactive(m)
	assert.Same(t, p, Reactive(m))
	assert.Same(t, p, Reactive(p))

	ro := Readonly(m)
	assert.Same(t, ro, Readonly(m))
	assert.NotSame(t, p, ro)
}

func TestRawRoundTrip(t *testing.T) {
	m := map[string]any{"a": 1}

	p := Reactive(m).(*Object)
	raw := ToRaw(p).(map[string]any)
	assert.True(t, sameValue(m, raw), "ToRaw must return the original map")

	ro := Readonly(m)
	assert.True(t, sameValue(m, ToRaw(ro)))

	// Idempotent.
	assert.True(t, sameValue(ToRaw(p), ToRaw(ToRaw(p))))
}

func TestReadonlyOverReactive(t *testing.T) {
	m := map[string]any{"a": 1}

	p := Reactive(m)
	ro := Readonly(p)

	assert.NotSame(t, p, ro)
	assert.True(t, IsReadonly(ro))
	assert.True(t, IsReactive(ro), "readonly over reactive is still reactive")
	assert.True(t, sameValue(m, ToRaw(ro)))

	// Reads through the readonly view track via the mutable wrapper.
	runs := 0
	CreateEffect(func() {
		runs++
		_ = ro.(*Object).Get("a")
	})
	require.Equal(t, 1, runs)

	p.(*Object).Set("a", 2)
	assert.Equal(t, 2, runs)
	assert.Equal(t, 2, ro.(*Object).Get("a"))
}

func TestReactivityFlags(t *testing.T) {
	m := map[string]any{"a": 1}

	p := Reactive(m)
	assert.True(t, IsReactive(p))
	assert.False(t, IsReadonly(p))
	assert.False(t, IsShallow(p))
	assert.True(t, IsProxy(p))

	ro := Readonly(m)
	assert.False(t, IsReactive(ro))
	assert.True(t, IsReadonly(ro))

	sh := ShallowReactive(map[string]any{"a": 1})
	assert.True(t, IsShallow(sh))
	assert.True(t, IsReactive(sh))

	sro := ShallowReadonly(map[string]any{"a": 1})
	assert.True(t, IsShallow(sro))
	assert.True(t, IsReadonly(sro))

	assert.False(t, IsProxy(m))
	assert.False(t, IsProxy(nil))
}

func TestReadonlyRefusesWrites(t *testing.T) {
	var warnings []string
	SetWarnHandler(func(msg string) { warnings = append(warnings, msg) })
	defer SetWarnHandler(nil)

	ro := Readonly(map[string]any{"a": 1}).(*Object)

	ro.Set("a", 2)
	assert.Equal(t, 1, ro.Get("a"), "write must silently refuse")
	assert.Len(t, warnings, 1)

	assert.True(t, ro.Delete("a"), "delete reports success")
	assert.Equal(t, 1, ro.Get("a"))
	assert.Len(t, warnings, 2)
}

func TestDeepWrapOnRead(t *testing.T) {
	p := Reactive(map[string]any{
		"nested": map[string]any{"n": 1},
	}).(*Object)

	nested := p.Get("nested")
	require.IsType(t, &Object{}, nested)
	assert.Same(t, nested, p.Get("nested"), "nested wrapper is cached")

	runs := 0
	CreateEffect(func() {
		runs++
		_ = nested.(*Object).Get("n")
	})
	nested.(*Object).Set("n", 2)
	assert.Equal(t, 2, runs)
}

func TestShallowDoesNotWrap(t *testing.T) {
	inner := map[string]any{"n": 1}
	p := ShallowReactive(map[string]any{"nested": inner}).(*Object)

	nested := p.Get("nested")
	assert.IsType(t, map[string]any{}, nested)
	assert.True(t, sameValue(inner, nested))
}

func TestReadonlyDeepWrapsReadonly(t *testing.T) {
	ro := Readonly(map[string]any{
		"nested": map[string]any{"n": 1},
	}).(*Object)

	nested := ro.Get("nested")
	require.IsType(t, &Object{}, nested)
	assert.True(t, IsReadonly(nested))
}

func TestMarkRaw(t *testing.T) {
	m := MarkRaw(map[string]any{"a": 1})
	p := Reactive(m)
	assert.True(t, sameValue(m, p), "marked values stay raw")
}

func TestNonObjectInputReturnedUnchanged(t *testing.T) {
	var warnings []string
	SetWarnHandler(func(msg string) { warnings = append(warnings, msg) })
	defer SetWarnHandler(nil)

	assert.Equal(t, 42, Reactive(42))
	assert.Equal(t, "s", Reactive("s"))
	assert.Len(t, warnings, 2)
}

func TestObjectHasAndKeys(t *testing.T) {
	p := Reactive(map[string]any{"a": 1, "b": 2}).(*Object)

	hasRuns := 0
	CreateEffect(func() {
		hasRuns++
		_ = p.Has("c")
	})
	require.Equal(t, 1, hasRuns)

	// Adding the checked key re-runs the existence check.
	p.Set("c", 3)
	assert.Equal(t, 2, hasRuns)

	keysRuns := 0
	var lastKeys []string
	CreateEffect(func() {
		keysRuns++
		lastKeys = p.Keys()
	})
	require.Equal(t, 1, keysRuns)
	assert.Equal(t, []string{"a", "b", "c"}, lastKeys)

	// Value-only write does not invalidate iteration.
	p.Set("a", 100)
	assert.Equal(t, 1, keysRuns)

	p.Set("d", 4)
	assert.Equal(t, 2, keysRuns)
	assert.Equal(t, []string{"a", "b", "c", "d"}, lastKeys)

	require.True(t, p.Delete("d"))
	assert.Equal(t, 3, keysRuns)
}

func TestDeleteTriggersKeyDependents(t *testing.T) {
	p := Reactive(map[string]any{"a": 1}).(*Object)

	var seen []any
	CreateEffect(func() {
		seen = append(seen, p.Get("a"))
	})
	require.Equal(t, []any{1}, seen)

	p.Delete("a")
	assert.Equal(t, []any{1, nil}, seen)

	// Deleting a missing key is inert.
	assert.False(t, p.Delete("a"))
	assert.Equal(t, []any{1, nil}, seen)
}

func TestDepVersionMonotonic(t *testing.T) {
	p := Reactive(map[string]any{"n": 1}).(*Object)

	CreateEffect(func() {
		_ = p.Get("n")
	})

	d := p.store.lookup("n")
	require.NotNil(t, d)
	v1 := d.Version()

	p.Set("n", 2)
	assert.Greater(t, d.Version(), v1)

	p.Set("n", 3)
	assert.Greater(t, d.Version(), v1+1)
}

type testConfig struct {
	Name  string
	Count int
}

func TestStructObject(t *testing.T) {
	cfg := &testConfig{Name: "x", Count: 1}
	p := Reactive(cfg).(*Object)

	var runs []any
	CreateEffect(func() {
		runs = append(runs, p.Get("Count"))
	})
	require.Equal(t, []any{1}, runs)

	p.Set("Count", 2)
	assert.Equal(t, []any{1, 2}, runs)
	assert.Equal(t, 2, cfg.Count, "writes reach the underlying struct")

	assert.True(t, p.Has("Name"))
	assert.False(t, p.Has("Missing"))
	assert.Equal(t, []string{"Name", "Count"}, p.Keys())
}
