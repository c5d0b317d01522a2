package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for a goroutine: the active
// effect stack top and the tracking-enabled flag with its save stack.
type trackingContext struct {
	// activeEffect is the topmost running effect. Reads performed while it
	// is set subscribe it to the dep being read. nil means no tracking.
	activeEffect *Effect

	// shouldTrack gates tracking independently of the active effect.
	// Paused around mutating array methods that read length internally.
	shouldTrack bool

	// trackStack saves shouldTrack across PauseTracking/EnableTracking so
	// ResetTracking can restore the prior state on every exit path.
	trackStack []bool

	// scope is the effect scope that owns newly created effects.
	scope *Scope
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns a unique identifier for the current goroutine,
// parsed from the runtime stack header.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	// The stack starts with "goroutine <id> "
	var id uint64
	for i := 10; i < n; i++ { // Skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// currentContext returns the tracking context for the current goroutine,
// creating it on first use.
func currentContext() *trackingContext {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{shouldTrack: true}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// activeEffect returns the effect currently capturing dependencies, or nil.
func activeEffect() *Effect {
	return currentContext().activeEffect
}

// PauseTracking disables dependency tracking until the matching
// ResetTracking. Pairs must be balanced on every exit path.
func PauseTracking() {
	ctx := currentContext()
	ctx.trackStack = append(ctx.trackStack, ctx.shouldTrack)
	ctx.shouldTrack = false
}

// EnableTracking re-enables dependency tracking until the matching
// ResetTracking.
func EnableTracking() {
	ctx := currentContext()
	ctx.trackStack = append(ctx.trackStack, ctx.shouldTrack)
	ctx.shouldTrack = true
}

// ResetTracking restores the tracking state saved by the last PauseTracking
// or EnableTracking.
func ResetTracking() {
	ctx := currentContext()
	if n := len(ctx.trackStack); n > 0 {
		ctx.shouldTrack = ctx.trackStack[n-1]
		ctx.trackStack = ctx.trackStack[:n-1]
	} else {
		ctx.shouldTrack = true
	}
}

// Untracked runs fn without tracking reads as dependencies.
//
// Example:
//
//	reactive.Untracked(func() {
//	    // Reading state here won't subscribe the running effect
//	    value := count.Value()
//	    fmt.Println("current:", value)
//	})
func Untracked(fn func()) {
	PauseTracking()
	defer ResetTracking()
	fn()
}

// track records an edge from the active effect to the dep for (store, key).
func track(s *depStore, op TrackOp, key any) {
	ctx := currentContext()
	e := ctx.activeEffect
	if e == nil || !ctx.shouldTrack {
		return
	}
	trackEffect(e, s.depFor(key), op, key)
}

// trackEffect inserts the effect into the dep and stamps the dep with the
// effect's current run epoch. Deps not re-stamped by the end of a run are
// swept afterwards.
func trackEffect(e *Effect, d *Dep, op TrackOp, key any) {
	if e.deps[d] == e.epoch {
		return
	}
	d.add(e)
	e.deps[d] = e.epoch
	recordTrack(op)
	if e.onTrack != nil {
		e.onTrack(DebugEvent{Effect: e, TrackOp: op, Key: key})
	}
}

// trigger collects the deps affected by a mutation on (store, key) and
// notifies every effect in them.
func trigger(s *depStore, op TriggerOp, key any, newValue, oldValue any) {
	var deps []*Dep

	switch {
	case op == TriggerClear:
		deps = s.allDeps()
	case key == lengthKey && s.kind == kindArray:
		// Length write: the length dep plus every integer key at or past
		// the new length.
		if d := s.lookup(lengthKey); d != nil {
			deps = append(deps, d)
		}
		if newLen, ok := newValue.(int); ok {
			deps = append(deps, s.integerKeyDepsAtLeast(newLen)...)
		}
	default:
		if key != nil {
			if d := s.lookup(key); d != nil {
				deps = append(deps, d)
			}
		}

		switch op {
		case TriggerAdd:
			if s.kind == kindArray {
				if _, ok := key.(int); ok {
					if d := s.lookup(lengthKey); d != nil {
						deps = append(deps, d)
					}
				}
			} else {
				if d := s.lookup(iterateKey); d != nil {
					deps = append(deps, d)
				}
				if s.kind == kindMap {
					if d := s.lookup(mapKeyIterateKey); d != nil {
						deps = append(deps, d)
					}
				}
			}
		case TriggerDelete:
			if s.kind == kindArray {
				if _, ok := key.(int); ok {
					if d := s.lookup(lengthKey); d != nil {
						deps = append(deps, d)
					}
				}
			} else {
				if d := s.lookup(iterateKey); d != nil {
					deps = append(deps, d)
				}
				if s.kind == kindMap {
					if d := s.lookup(mapKeyIterateKey); d != nil {
						deps = append(deps, d)
					}
				}
			}
		case TriggerSet:
			if s.kind == kindMap {
				if d := s.lookup(iterateKey); d != nil {
					deps = append(deps, d)
				}
			}
		}
	}

	if len(deps) == 0 {
		return
	}
	recordTrigger(op)
	triggerEffects(deps, DebugEvent{TriggerOp: op, Key: key, NewValue: newValue, OldValue: oldValue})
}

// triggerEffects flattens the deps into a unique effect list and schedules
// each one. Computed effects go first so their dependents observe the dirty
// bit before re-running.
func triggerEffects(deps []*Dep, ev DebugEvent) {
	seen := make(map[*Effect]bool)
	var computed, plain []*Effect

	for _, d := range deps {
		d.bumpVersion()
		for _, e := range d.snapshot() {
			if seen[e] {
				continue
			}
			seen[e] = true
			if e.isComputed {
				computed = append(computed, e)
			} else {
				plain = append(plain, e)
			}
		}
	}

	for _, e := range computed {
		notifyEffect(e, ev)
	}
	for _, e := range plain {
		notifyEffect(e, ev)
	}
}

// notifyEffect schedules a single effect. An effect is never re-entered by
// its own trigger unless it opts into recursion. A panicking scheduler is
// reported and must not prevent the rest of the batch from being notified.
func notifyEffect(e *Effect, ev DebugEvent) {
	if e == activeEffect() && !e.allowRecurse {
		return
	}
	if e.onTrigger != nil {
		ev.Effect = e
		e.onTrigger(ev)
	}
	if e.scheduler != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					reportError(recoveredError(r), ErrCodeScheduler)
				}
			}()
			e.scheduler()
		}()
		return
	}
	e.Run()
}
