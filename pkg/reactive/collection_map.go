package reactive

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is the reactive wrapper over an insertion-ordered keyed collection
// (*orderedmap.OrderedMap[any, any]). Mutation happens through methods, so
// every method is a shim that tracks or triggers before touching the raw
// collection.
//
// Lookups accept either a raw key or its reactive wrapper: a key that is a
// wrapper is retried in raw form on a miss.
type Map struct {
	// target is the wrapped collection, or the inner *Map for a readonly
	// view over a reactive map.
	target any

	om *orderedmap.OrderedMap[any, any]

	h     handler
	store *depStore
}

func newMapWrapper(om *orderedmap.OrderedMap[any, any], h handler) *Map {
	return &Map{
		target: om,
		om:     om,
		h:      h,
		store:  newDepStore(kindMap),
	}
}

func (m *Map) inner() any     { return m.target }
func (m *Map) flags() handler { return m.h }

func (m *Map) innerMap() *Map {
	w, _ := m.target.(*Map)
	return w
}

// lookupKey resolves the stored form of a key: the key itself if present,
// otherwise its raw form.
func (m *Map) lookupKey(key any) (any, bool) {
	if _, ok := m.om.Get(key); ok {
		return key, true
	}
	if raw := ToRaw(key); !sameValue(raw, key) {
		if _, ok := m.om.Get(raw); ok {
			return raw, true
		}
		return raw, false
	}
	return key, false
}

// Get reads the value for key, tracking the key (and its raw form when the
// key is itself a wrapper).
func (m *Map) Get(key any) (any, bool) {
	if in := m.innerMap(); in != nil {
		v, ok := in.Get(key)
		return wrapResult(m.h, v), ok
	}

	raw := ToRaw(key)
	if !m.h.readonly {
		track(m.store, TrackGet, raw)
		if !sameValue(raw, key) {
			track(m.store, TrackGet, key)
		}
	}

	stored, ok := m.lookupKey(key)
	if !ok {
		return nil, false
	}
	v, _ := m.om.Get(stored)
	return wrapResult(m.h, v), true
}

// Has reports key existence, tracking it.
func (m *Map) Has(key any) bool {
	if in := m.innerMap(); in != nil {
		return in.Has(key)
	}

	raw := ToRaw(key)
	if !m.h.readonly {
		track(m.store, TrackHas, raw)
		if !sameValue(raw, key) {
			track(m.store, TrackHas, key)
		}
	}
	_, ok := m.lookupKey(key)
	return ok
}

// Len returns the entry count, tracking iteration.
func (m *Map) Len() int {
	if in := m.innerMap(); in != nil {
		return in.Len()
	}
	if !m.h.readonly {
		track(m.store, TrackIterate, iterateKey)
	}
	return m.om.Len()
}

// Set writes a key. ADD versus SET is decided by pre-existence; SET fires
// only when the raw old and new values differ (NaN-aware).
func (m *Map) Set(key, value any) *Map {
	if m.h.readonly {
		warnf("map set failed: target is readonly")
		return m
	}
	if in := m.innerMap(); in != nil {
		in.Set(key, value)
		return m
	}

	value = ToRaw(value)
	stored, had := m.lookupKey(key)

	if !had {
		m.om.Set(stored, value)
		trigger(m.store, TriggerAdd, stored, value, nil)
		return m
	}

	oldValue, _ := m.om.Get(stored)
	m.om.Set(stored, value)
	if !sameValue(ToRaw(oldValue), value) {
		trigger(m.store, TriggerSet, stored, value, oldValue)
	}
	return m
}

// Delete removes a key, triggering dependents when it existed. Deleting on
// a readonly wrapper warns and returns false.
func (m *Map) Delete(key any) bool {
	if m.h.readonly {
		warnf("map delete failed: target is readonly")
		return false
	}
	if in := m.innerMap(); in != nil {
		return in.Delete(key)
	}

	stored, had := m.lookupKey(key)
	if !had {
		return false
	}
	oldValue, _ := m.om.Get(stored)
	m.om.Delete(stored)
	trigger(m.store, TriggerDelete, stored, nil, oldValue)
	return true
}

// Clear empties the collection and triggers every dep of the target.
// Clearing a readonly wrapper is a no-op warning.
func (m *Map) Clear() {
	if m.h.readonly {
		warnf("map clear failed: target is readonly")
		return
	}
	if in := m.innerMap(); in != nil {
		in.Clear()
		return
	}

	if m.om.Len() == 0 {
		return
	}
	for pair := m.om.Oldest(); pair != nil; {
		key := pair.Key
		pair = pair.Next()
		m.om.Delete(key)
	}
	trigger(m.store, TriggerClear, nil, nil, nil)
}

// ForEach visits every entry in insertion order, tracking iteration.
// Yielded keys and values are wrapped per the wrapper's flavor.
func (m *Map) ForEach(fn func(value, key any)) {
	if in := m.innerMap(); in != nil {
		in.ForEach(func(value, key any) {
			fn(wrapResult(m.h, value), wrapResult(m.h, key))
		})
		return
	}

	if !m.h.readonly {
		track(m.store, TrackIterate, iterateKey)
	}
	for pair := m.om.Oldest(); pair != nil; pair = pair.Next() {
		fn(wrapResult(m.h, pair.Value), wrapResult(m.h, pair.Key))
	}
}

// Keys returns the keys in insertion order, tracking key-only iteration:
// value-only writes do not re-run dependents.
func (m *Map) Keys() []any {
	if in := m.innerMap(); in != nil {
		keys := in.Keys()
		for i, k := range keys {
			keys[i] = wrapResult(m.h, k)
		}
		return keys
	}

	if !m.h.readonly {
		track(m.store, TrackIterate, mapKeyIterateKey)
	}
	keys := make([]any, 0, m.om.Len())
	for pair := m.om.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, wrapResult(m.h, pair.Key))
	}
	return keys
}

// Values returns the values in insertion order, tracking iteration.
func (m *Map) Values() []any {
	if in := m.innerMap(); in != nil {
		values := in.Values()
		for i, v := range values {
			values[i] = wrapResult(m.h, v)
		}
		return values
	}

	if !m.h.readonly {
		track(m.store, TrackIterate, iterateKey)
	}
	values := make([]any, 0, m.om.Len())
	for pair := m.om.Oldest(); pair != nil; pair = pair.Next() {
		values = append(values, wrapResult(m.h, pair.Value))
	}
	return values
}

// Entries returns key/value pairs in insertion order, tracking iteration.
func (m *Map) Entries() [][2]any {
	if in := m.innerMap(); in != nil {
		entries := in.Entries()
		for i, e := range entries {
			entries[i] = [2]any{wrapResult(m.h, e[0]), wrapResult(m.h, e[1])}
		}
		return entries
	}

	if !m.h.readonly {
		track(m.store, TrackIterate, iterateKey)
	}
	entries := make([][2]any, 0, m.om.Len())
	for pair := m.om.Oldest(); pair != nil; pair = pair.Next() {
		entries = append(entries, [2]any{wrapResult(m.h, pair.Key), wrapResult(m.h, pair.Value)})
	}
	return entries
}
