package reactive

// Array is the reactive wrapper over a *[]any. Integer indices and the
// length are independently trackable keys; mutating methods pause tracking
// for their duration so internal length reads do not leak into the running
// effect's dependencies.
//
// Refs stored in arrays are returned as refs, not unwrapped: unwrapping
// breaks index-based algorithms.
type Array struct {
	// target is the wrapped slice, or the inner *Array for a readonly view
	// over a reactive array.
	target any

	items *[]any

	h     handler
	store *depStore
}

func newArray(items *[]any, h handler) *Array {
	return &Array{
		target: items,
		items:  items,
		h:      h,
		store:  newDepStore(kindArray),
	}
}

func (a *Array) inner() any     { return a.target }
func (a *Array) flags() handler { return a.h }

func (a *Array) innerArray() *Array {
	w, _ := a.target.(*Array)
	return w
}

// Get reads the element at index i, tracking the index. Out-of-range reads
// return nil. Refs are not unwrapped for integer indices.
func (a *Array) Get(i int) any {
	if a.h.readonly {
		var v any
		if in := a.innerArray(); in != nil {
			v = in.Get(i)
		} else {
			v = a.at(i)
		}
		if _, isRef := v.(RefLike); isRef {
			return v
		}
		return wrapResult(a.h, v)
	}

	track(a.store, TrackGet, i)
	v := a.at(i)
	if _, isRef := v.(RefLike); isRef {
		return v
	}
	return wrapResult(a.h, v)
}

func (a *Array) at(i int) any {
	items := *a.items
	if i < 0 || i >= len(items) {
		return nil
	}
	return items[i]
}

// Len returns the length, tracking the length key.
func (a *Array) Len() int {
	if in := a.innerArray(); in != nil {
		return in.Len()
	}
	track(a.store, TrackGet, lengthKey)
	return len(*a.items)
}

// Values returns every element, tracking the length and each index.
func (a *Array) Values() []any {
	n := a.Len()
	out := make([]any, n)
	for i := 0; i < n; i++ {
		out[i] = a.Get(i)
	}
	return out
}

// Set writes the element at index i. Writing past the end extends the
// array (an ADD, which also notifies length dependents); writing in range
// is a SET fired only when the value changed.
func (a *Array) Set(i int, value any) {
	if a.h.readonly {
		warnf("set index %d failed: target is readonly", i)
		return
	}
	if in := a.innerArray(); in != nil {
		in.Set(i, value)
		return
	}
	if i < 0 {
		warnf("set index %d failed: negative index", i)
		return
	}

	if !a.h.shallow {
		value = ToRaw(value)
	}

	items := *a.items
	if i >= len(items) {
		grown := append(items, make([]any, i+1-len(items))...)
		grown[i] = value
		*a.items = grown
		trigger(a.store, TriggerAdd, i, value, nil)
		return
	}

	oldValue := items[i]
	items[i] = value
	if !sameValue(oldValue, value) {
		trigger(a.store, TriggerSet, i, value, oldValue)
	}
}

// SetLen resizes the array. Shrinking notifies dependents of the length and
// of every removed index.
func (a *Array) SetLen(n int) {
	if a.h.readonly {
		warnf("set length failed: target is readonly")
		return
	}
	if in := a.innerArray(); in != nil {
		in.SetLen(n)
		return
	}
	if n < 0 {
		n = 0
	}

	items := *a.items
	oldLen := len(items)
	if n == oldLen {
		return
	}
	if n < oldLen {
		*a.items = items[:n]
	} else {
		*a.items = append(items, make([]any, n-oldLen)...)
	}
	trigger(a.store, TriggerSet, lengthKey, n, oldLen)
}

// Push appends items and returns the new length.
func (a *Array) Push(values ...any) int {
	if a.h.readonly {
		warnf("push failed: target is readonly")
		return len(*a.resolveItems())
	}
	if in := a.innerArray(); in != nil {
		return in.Push(values...)
	}

	PauseTracking()
	defer ResetTracking()

	for _, v := range values {
		if !a.h.shallow {
			v = ToRaw(v)
		}
		idx := len(*a.items)
		*a.items = append(*a.items, v)
		trigger(a.store, TriggerAdd, idx, v, nil)
	}
	return len(*a.items)
}

// Pop removes and returns the last element, or nil on an empty array.
func (a *Array) Pop() any {
	if a.h.readonly {
		warnf("pop failed: target is readonly")
		return nil
	}
	if in := a.innerArray(); in != nil {
		return in.Pop()
	}

	PauseTracking()
	defer ResetTracking()

	items := *a.items
	if len(items) == 0 {
		return nil
	}
	idx := len(items) - 1
	v := items[idx]
	*a.items = items[:idx]
	trigger(a.store, TriggerDelete, idx, nil, v)
	return v
}

// Shift removes and returns the first element, or nil on an empty array.
func (a *Array) Shift() any {
	if a.h.readonly {
		warnf("shift failed: target is readonly")
		return nil
	}
	if in := a.innerArray(); in != nil {
		return in.Shift()
	}

	PauseTracking()
	defer ResetTracking()

	items := *a.items
	if len(items) == 0 {
		return nil
	}
	v := items[0]
	old := snapshot(items)
	*a.items = items[1:]
	a.triggerDiff(old)
	return v
}

// Unshift prepends items and returns the new length.
func (a *Array) Unshift(values ...any) int {
	if a.h.readonly {
		warnf("unshift failed: target is readonly")
		return len(*a.resolveItems())
	}
	if in := a.innerArray(); in != nil {
		return in.Unshift(values...)
	}

	PauseTracking()
	defer ResetTracking()

	if !a.h.shallow {
		for i, v := range values {
			values[i] = ToRaw(v)
		}
	}

	items := *a.items
	old := snapshot(items)
	next := make([]any, 0, len(values)+len(items))
	next = append(next, values...)
	next = append(next, items...)
	*a.items = next
	a.triggerDiff(old)
	return len(next)
}

// Splice removes deleteCount elements starting at start, inserts values in
// their place, and returns the removed elements.
func (a *Array) Splice(start, deleteCount int, values ...any) []any {
	if a.h.readonly {
		warnf("splice failed: target is readonly")
		return nil
	}
	if in := a.innerArray(); in != nil {
		return in.Splice(start, deleteCount, values...)
	}

	PauseTracking()
	defer ResetTracking()

	items := *a.items
	n := len(items)
	if start < 0 {
		start += n
		if start < 0 {
			start = 0
		}
	}
	if start > n {
		start = n
	}
	if deleteCount < 0 {
		deleteCount = 0
	}
	if start+deleteCount > n {
		deleteCount = n - start
	}

	if !a.h.shallow {
		for i, v := range values {
			values[i] = ToRaw(v)
		}
	}

	old := snapshot(items)
	removed := snapshot(items[start : start+deleteCount])

	next := make([]any, 0, n-deleteCount+len(values))
	next = append(next, items[:start]...)
	next = append(next, values...)
	next = append(next, items[start+deleteCount:]...)
	*a.items = next
	a.triggerDiff(old)
	return removed
}

// Includes reports whether the array contains value, tracking the length
// and every index. A miss is retried with the raw form of the argument so
// lookups succeed with either the raw value or its wrapper.
func (a *Array) Includes(value any) bool {
	return a.IndexOf(value) >= 0
}

// IndexOf returns the first index holding value, or -1.
func (a *Array) IndexOf(value any) int {
	if in := a.innerArray(); in != nil {
		return in.IndexOf(value)
	}

	track(a.store, TrackGet, lengthKey)
	items := *a.items
	for i := range items {
		track(a.store, TrackGet, i)
	}

	if i := indexOfValue(items, value); i >= 0 {
		return i
	}
	if raw := ToRaw(value); !sameValue(raw, value) {
		return indexOfValue(items, raw)
	}
	return -1
}

// LastIndexOf returns the last index holding value, or -1.
func (a *Array) LastIndexOf(value any) int {
	if in := a.innerArray(); in != nil {
		return in.LastIndexOf(value)
	}

	track(a.store, TrackGet, lengthKey)
	items := *a.items
	for i := range items {
		track(a.store, TrackGet, i)
	}

	if i := lastIndexOfValue(items, value); i >= 0 {
		return i
	}
	if raw := ToRaw(value); !sameValue(raw, value) {
		return lastIndexOfValue(items, raw)
	}
	return -1
}

func indexOfValue(items []any, value any) int {
	for i, v := range items {
		if sameValue(v, value) {
			return i
		}
	}
	return -1
}

func lastIndexOfValue(items []any, value any) int {
	for i := len(items) - 1; i >= 0; i-- {
		if sameValue(items[i], value) {
			return i
		}
	}
	return -1
}

// resolveItems follows readonly views down to the backing slice.
func (a *Array) resolveItems() *[]any {
	cur := a
	for {
		in := cur.innerArray()
		if in == nil {
			return cur.items
		}
		cur = in
	}
}

func snapshot(items []any) []any {
	out := make([]any, len(items))
	copy(out, items)
	return out
}

// triggerDiff fires the triggers implied by an in-place structural
// mutation: SET for changed surviving indices, ADD for appended ones,
// DELETE for removed ones. ADD/DELETE with an integer key also notify
// length dependents.
func (a *Array) triggerDiff(old []any) {
	cur := *a.items

	common := len(old)
	if len(cur) < common {
		common = len(cur)
	}
	for i := 0; i < common; i++ {
		if !sameValue(old[i], cur[i]) {
			trigger(a.store, TriggerSet, i, cur[i], old[i])
		}
	}
	for i := len(old); i < len(cur); i++ {
		trigger(a.store, TriggerAdd, i, cur[i], nil)
	}
	for i := len(cur); i < len(old); i++ {
		trigger(a.store, TriggerDelete, i, nil, old[i])
	}
}
