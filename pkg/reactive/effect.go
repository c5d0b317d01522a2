package reactive

import "sync/atomic"

// globalIDCounter is the source of unique IDs for all reactive primitives.
var globalIDCounter uint64

// nextID returns the next unique ID for a reactive primitive.
// IDs are monotonically increasing and never reused.
func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}

// DebugEvent describes a track or trigger delivered to debug hooks.
type DebugEvent struct {
	// Effect is the effect being tracked or triggered.
	Effect *Effect

	// TrackOp is set for track events.
	TrackOp TrackOp

	// TriggerOp is set for trigger events.
	TriggerOp TriggerOp

	// Key is the observable key involved, if any.
	Key any

	// NewValue and OldValue carry the mutation values on trigger events.
	NewValue any
	OldValue any
}

// DebugHook receives track/trigger events when attached to an effect.
type DebugHook func(DebugEvent)

// Effect is a tracked computation. Reads performed while it runs subscribe
// it to the deps being read; when any of those deps triggers, the effect is
// re-run (or handed to its scheduler).
type Effect struct {
	id uint64

	// fn is the computation body.
	fn func() any

	// scheduler, when set, is invoked on trigger instead of Run.
	scheduler func()

	// onStop runs once when the effect is stopped.
	onStop func()

	// active is false after Stop. An inactive effect still evaluates fn on
	// Run, but without tracking.
	active bool

	// deps maps each subscribed dep to the run epoch that last touched it.
	// Deps not re-stamped during a run are swept after it.
	deps map[*Dep]uint64

	// epoch increments on every run; it is the stamp for dep pruning.
	epoch uint64

	// parent is the effect that was active when this one started running,
	// restored on exit. The parent chain doubles as the re-entrancy guard.
	parent *Effect

	// running is true while fn executes.
	running bool

	// deferStop is set when Stop is called mid-run; teardown happens after
	// the run completes.
	deferStop bool

	// allowRecurse permits the effect to be re-scheduled by its own trigger.
	allowRecurse bool

	// isComputed orders this effect before plain effects during trigger.
	isComputed bool

	onTrack   DebugHook
	onTrigger DebugHook
}

// newEffect creates an effect without running it. Used internally by
// computed cells and watchers; user effects go through CreateEffect.
func newEffect(fn func() any) *Effect {
	return &Effect{
		id:     nextID(),
		fn:     fn,
		active: true,
		deps:   make(map[*Dep]uint64),
	}
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Active reports whether the effect is still attached to the dep graph.
func (e *Effect) Active() bool {
	return e.active
}

// Run executes the effect body while capturing dependencies.
//
// An inactive effect evaluates the body without tracking. A running effect
// triggered by its own writes is not re-entered unless allowRecurse is set.
func (e *Effect) Run() any {
	if !e.active {
		return e.fn()
	}

	ctx := currentContext()

	// Cycle guard: walk the parent chain.
	for p := ctx.activeEffect; p != nil; p = p.parent {
		if p == e && !e.allowRecurse {
			return nil
		}
	}

	e.parent = ctx.activeEffect
	ctx.activeEffect = e
	prevShouldTrack := ctx.shouldTrack
	ctx.shouldTrack = true
	e.epoch++
	e.running = true
	recordEffectRun()

	defer func() {
		e.running = false
		ctx.activeEffect = e.parent
		ctx.shouldTrack = prevShouldTrack
		e.parent = nil

		// Post-run sweep: drop deps the body no longer reads.
		for d, stamp := range e.deps {
			if stamp != e.epoch {
				d.remove(e)
				delete(e.deps, d)
			}
		}

		if e.deferStop {
			e.Stop()
		}
	}()

	return e.fn()
}

// Stop detaches the effect from every dep and marks it inactive. Stopping a
// running effect defers the teardown to the end of the current run. Stop is
// idempotent.
func (e *Effect) Stop() {
	if e.running {
		e.deferStop = true
		return
	}
	if !e.active {
		return
	}

	for d := range e.deps {
		d.remove(e)
	}
	e.deps = make(map[*Dep]uint64)
	e.active = false
	e.deferStop = false

	if e.onStop != nil {
		e.onStop()
	}
}

// EffectOption configures an effect created by CreateEffect.
type EffectOption func(*Effect)

// WithScheduler makes triggers invoke fn instead of re-running the effect.
// The effect owner decides when (and whether) to call Run.
func WithScheduler(fn func()) EffectOption {
	return func(e *Effect) {
		e.scheduler = fn
	}
}

// OnStop registers a handler invoked once when the effect is stopped.
func OnStop(fn func()) EffectOption {
	return func(e *Effect) {
		e.onStop = fn
	}
}

// AllowRecurse permits the effect to be re-scheduled by its own trigger.
// Needed for effects that write to state they also read.
func AllowRecurse() EffectOption {
	return func(e *Effect) {
		e.allowRecurse = true
	}
}

// OnTrack attaches a debug hook invoked on every dependency recorded.
func OnTrack(h DebugHook) EffectOption {
	return func(e *Effect) {
		e.onTrack = h
	}
}

// OnTrigger attaches a debug hook invoked whenever the effect is triggered.
func OnTrigger(h DebugHook) EffectOption {
	return func(e *Effect) {
		e.onTrigger = h
	}
}

// CreateEffect creates an effect from fn, registers it with the current
// scope, and runs it immediately.
//
// Example:
//
//	runner := reactive.CreateEffect(func() {
//	    fmt.Println("count is", count.Value())
//	})
//	...
//	reactive.Stop(runner)
func CreateEffect(fn func(), opts ...EffectOption) *Effect {
	e := newEffect(func() any {
		fn()
		return nil
	})
	for _, opt := range opts {
		opt(e)
	}

	if scope := CurrentScope(); scope != nil {
		scope.registerEffect(e)
	}

	e.Run()
	return e
}

// Stop stops a runner returned by CreateEffect.
func Stop(e *Effect) {
	e.Stop()
}
