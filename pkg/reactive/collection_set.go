package reactive

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Set is the reactive wrapper over a mapset.Set[any]. Membership per value
// is an independently trackable key; iteration and size track the iterate
// sentinel.
type Set struct {
	// target is the wrapped collection, or the inner *Set for a readonly
	// view over a reactive set.
	target any

	set mapset.Set[any]

	h     handler
	store *depStore
}

func newSetWrapper(set mapset.Set[any], h handler) *Set {
	return &Set{
		target: set,
		set:    set,
		h:      h,
		store:  newDepStore(kindSet),
	}
}

func (s *Set) inner() any     { return s.target }
func (s *Set) flags() handler { return s.h }

func (s *Set) innerSet() *Set {
	w, _ := s.target.(*Set)
	return w
}

// Has reports membership, tracking the value (and its raw form when the
// value is a wrapper).
func (s *Set) Has(value any) bool {
	if in := s.innerSet(); in != nil {
		return in.Has(value)
	}

	raw := ToRaw(value)
	if !s.h.readonly {
		track(s.store, TrackHas, raw)
		if !sameValue(raw, value) {
			track(s.store, TrackHas, value)
		}
	}
	if s.set.Contains(value) {
		return true
	}
	if !sameValue(raw, value) {
		return s.set.Contains(raw)
	}
	return false
}

// Len returns the cardinality, tracking iteration.
func (s *Set) Len() int {
	if in := s.innerSet(); in != nil {
		return in.Len()
	}
	if !s.h.readonly {
		track(s.store, TrackIterate, iterateKey)
	}
	return s.set.Cardinality()
}

// Add inserts a value in raw form, triggering only when it was absent.
func (s *Set) Add(value any) *Set {
	if s.h.readonly {
		warnf("set add failed: target is readonly")
		return s
	}
	if in := s.innerSet(); in != nil {
		in.Add(value)
		return s
	}

	value = ToRaw(value)
	if s.set.Contains(value) {
		return s
	}
	s.set.Add(value)
	trigger(s.store, TriggerAdd, value, value, nil)
	return s
}

// Delete removes a value, triggering dependents when it was present.
func (s *Set) Delete(value any) bool {
	if s.h.readonly {
		warnf("set delete failed: target is readonly")
		return false
	}
	if in := s.innerSet(); in != nil {
		return in.Delete(value)
	}

	stored := value
	if !s.set.Contains(stored) {
		raw := ToRaw(value)
		if sameValue(raw, stored) || !s.set.Contains(raw) {
			return false
		}
		stored = raw
	}
	s.set.Remove(stored)
	trigger(s.store, TriggerDelete, stored, nil, stored)
	return true
}

// Clear empties the set and triggers every dep of the target. Clearing a
// readonly wrapper is a no-op warning.
func (s *Set) Clear() {
	if s.h.readonly {
		warnf("set clear failed: target is readonly")
		return
	}
	if in := s.innerSet(); in != nil {
		in.Clear()
		return
	}

	if s.set.Cardinality() == 0 {
		return
	}
	s.set.Clear()
	trigger(s.store, TriggerClear, nil, nil, nil)
}

// Each visits every value, tracking iteration. Yielded values are wrapped
// per the wrapper's flavor.
func (s *Set) Each(fn func(value any)) {
	if in := s.innerSet(); in != nil {
		in.Each(func(value any) {
			fn(wrapResult(s.h, value))
		})
		return
	}

	if !s.h.readonly {
		track(s.store, TrackIterate, iterateKey)
	}
	s.set.Each(func(v any) bool {
		fn(wrapResult(s.h, v))
		return false
	})
}

// Values returns the members, tracking iteration.
func (s *Set) Values() []any {
	if in := s.innerSet(); in != nil {
		values := in.Values()
		for i, v := range values {
			values[i] = wrapResult(s.h, v)
		}
		return values
	}

	if !s.h.readonly {
		track(s.store, TrackIterate, iterateKey)
	}
	values := s.set.ToSlice()
	for i, v := range values {
		values[i] = wrapResult(s.h, v)
	}
	return values
}
