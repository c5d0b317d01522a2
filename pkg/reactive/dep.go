package reactive

import "sync"

// Dep is the set of effects depending on a particular (target, key) pair.
//
// Effects are kept in insertion order so notification order is stable. The
// version counter increases monotonically on every trigger that touches
// this dep.
type Dep struct {
	// effects are the subscribers, in insertion order.
	effects []*Effect

	// version counts triggers that touched this dep.
	version uint64

	// mu protects the effects slice.
	mu sync.Mutex
}

func newDep() *Dep {
	return &Dep{}
}

// Version returns the dep's trigger version.
func (d *Dep) Version() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// add subscribes an effect, deduplicating by identity.
func (d *Dep) add(e *Effect) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.effects {
		if existing == e {
			return
		}
	}
	d.effects = append(d.effects, e)
}

// remove unsubscribes an effect. Order of the remaining effects is preserved
// so trigger order stays stable across partial detaches.
func (d *Dep) remove(e *Effect) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, existing := range d.effects {
		if existing == e {
			d.effects = append(d.effects[:i], d.effects[i+1:]...)
			return
		}
	}
}

// snapshot copies the subscriber list so notification happens lock-free.
func (d *Dep) snapshot() []*Effect {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Effect, len(d.effects))
	copy(out, d.effects)
	return out
}

// bumpVersion records that a trigger touched this dep.
func (d *Dep) bumpVersion() {
	d.mu.Lock()
	d.version++
	d.mu.Unlock()
}

// targetKind classifies the shape of a wrapped target, which decides the
// extra deps a mutation notifies.
type targetKind uint8

const (
	kindObject targetKind = iota + 1
	kindArray
	kindMap
	kindSet
)

// depStore is the per-target dependency registry: one dep per key that has
// ever been read while an effect was active, plus the iteration sentinels.
//
// The store is owned by the wrapper for its target, so it becomes
// collectable exactly when the target does.
type depStore struct {
	kind targetKind

	mu   sync.Mutex
	deps map[any]*Dep
}

func newDepStore(kind targetKind) *depStore {
	return &depStore{kind: kind}
}

// depFor returns the dep for a key, creating it lazily.
func (s *depStore) depFor(key any) *Dep {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deps == nil {
		s.deps = make(map[any]*Dep)
	}
	d, ok := s.deps[key]
	if !ok {
		d = newDep()
		s.deps[key] = d
	}
	return d
}

// lookup returns the dep for a key if one exists.
func (s *depStore) lookup(key any) *Dep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deps[key]
}

// allDeps returns every dep in the store.
func (s *depStore) allDeps() []*Dep {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Dep, 0, len(s.deps))
	for _, d := range s.deps {
		out = append(out, d)
	}
	return out
}

// integerKeyDepsAtLeast returns deps for integer keys >= n. Used when an
// array is truncated: dependents of removed indices must re-run.
func (s *depStore) integerKeyDepsAtLeast(n int) []*Dep {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Dep
	for key, d := range s.deps {
		if idx, ok := key.(int); ok && idx >= n {
			out = append(out, d)
		}
	}
	return out
}
