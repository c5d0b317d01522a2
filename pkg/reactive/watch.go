package reactive

import (
	"github.com/Tajigaqzh/vue-core/pkg/scheduler"
)

// FlushTiming decides when a watcher's job runs relative to the host's
// flush cycle.
type FlushTiming uint8

const (
	// FlushPre queues the job before render-phase work. The default.
	FlushPre FlushTiming = iota

	// FlushPost queues the job after render-phase work.
	FlushPost

	// FlushSync runs the job inline, inside the mutating call.
	FlushSync
)

// OnCleanup registers a function to run before the watcher fires again and
// when it stops.
type OnCleanup func(cleanup func())

// WatchCallback receives the new and previous values of the watched
// source. On the first immediate invocation the previous value is nil (or
// a slice of nils for multi-source watchers).
type WatchCallback func(newValue, oldValue any, onCleanup OnCleanup)

// StopHandle detaches a watcher from the dep graph and from its scope.
type StopHandle func()

// watchOptions collects the watcher configuration.
type watchOptions struct {
	immediate bool
	deep      bool
	flush     FlushTiming
	onTrack   DebugHook
	onTrigger DebugHook
}

// WatchOption configures Watch and WatchEffect.
type WatchOption func(*watchOptions)

// Immediate fires the callback once upon creation, with nil as the old
// value.
func Immediate() WatchOption {
	return func(o *watchOptions) {
		o.immediate = true
	}
}

// Deep makes the watcher traverse the source recursively, so nested
// mutations fire the callback.
func Deep() WatchOption {
	return func(o *watchOptions) {
		o.deep = true
	}
}

// Flush selects when the watcher's job runs.
func Flush(t FlushTiming) WatchOption {
	return func(o *watchOptions) {
		o.flush = t
	}
}

// WatchDebug attaches track/trigger hooks to the watcher's effect.
func WatchDebug(onTrack, onTrigger DebugHook) WatchOption {
	return func(o *watchOptions) {
		o.onTrack = onTrack
		o.onTrigger = onTrigger
	}
}

// initialWatchValue marks "no previous value yet" so the first comparison
// always reports a change.
var initialWatchValue any = &struct{ name string }{"initial"}

// Watch observes a source and invokes cb when it changes.
//
// Accepted sources: a ref or computed, a reactive wrapper (implies Deep),
// a getter func() any, or a []any of those (multi-source). Anything else
// warns and produces a watcher that never fires.
//
// Example:
//
//	stop := reactive.Watch(count, func(newV, oldV any, _ reactive.OnCleanup) {
//	    fmt.Println(oldV, "->", newV)
//	}, reactive.Flush(reactive.FlushSync))
func Watch(source any, cb WatchCallback, opts ...WatchOption) StopHandle {
	if cb == nil {
		warnf("Watch requires a callback; use WatchEffect for callback-less watchers")
		return func() {}
	}
	return doWatch(source, cb, opts)
}

// WatchEffect runs fn immediately while tracking its reads, and re-runs it
// whenever any of them change. fn receives an OnCleanup to register
// teardown between runs.
func WatchEffect(fn func(OnCleanup), opts ...WatchOption) StopHandle {
	return doWatch(fn, nil, opts)
}

// WatchPostEffect is WatchEffect with post-flush timing.
func WatchPostEffect(fn func(OnCleanup), opts ...WatchOption) StopHandle {
	return doWatch(fn, nil, append(opts, Flush(FlushPost)))
}

// WatchSyncEffect is WatchEffect with synchronous timing.
func WatchSyncEffect(fn func(OnCleanup), opts ...WatchOption) StopHandle {
	return doWatch(fn, nil, append(opts, Flush(FlushSync)))
}

func doWatch(source any, cb WatchCallback, opts []WatchOption) StopHandle {
	var o watchOptions
	for _, opt := range opts {
		opt(&o)
	}

	var cleanup func()
	onCleanup := func(fn func()) {
		cleanup = func() {
			callWithErrorHandling(fn, ErrCodeWatchCleanup)
		}
	}

	var getter func() any
	forceTrigger := false
	multiSource := false

	switch s := source.(type) {
	case RefLike:
		getter = func() any { return s.Value() }
		forceTrigger = IsShallow(s)

	case func() any:
		if cb != nil {
			getter = func() any {
				var out any
				callWithErrorHandling(func() { out = s() }, ErrCodeWatchGetter)
				return out
			}
		} else {
			getter = func() any {
				if cleanup != nil {
					cleanup()
					cleanup = nil
				}
				callWithErrorHandling(func() { s() }, ErrCodeWatchCallback)
				return nil
			}
		}

	case func(OnCleanup):
		// Watch-effect body: runs with cleanup registration, no callback.
		getter = func() any {
			if cleanup != nil {
				cleanup()
				cleanup = nil
			}
			callWithErrorHandling(func() { s(onCleanup) }, ErrCodeWatchCallback)
			return nil
		}

	case []any:
		multiSource = true
		getters := make([]func() any, len(s))
		for i, el := range s {
			switch el := el.(type) {
			case RefLike:
				getters[i] = el.Value
				forceTrigger = forceTrigger || IsShallow(el)
			case func() any:
				fn := el
				getters[i] = func() any {
					var out any
					callWithErrorHandling(func() { out = fn() }, ErrCodeWatchGetter)
					return out
				}
			default:
				if IsProxy(el) {
					proxy := el
					forceTrigger = forceTrigger || IsReactive(el) || IsShallow(el)
					getters[i] = func() any { return traverse(proxy) }
				} else {
					warnf("invalid watch source at index %d: %T", i, el)
					getters[i] = func() any { return nil }
				}
			}
		}
		getter = func() any {
			out := make([]any, len(getters))
			for i, g := range getters {
				out[i] = g()
			}
			return out
		}

	default:
		if IsProxy(source) {
			getter = func() any { return source }
			o.deep = true
		} else {
			warnf("invalid watch source: %T (%v)", source, ErrInvalidWatchSource)
			getter = func() any { return nil }
		}
	}

	if cb != nil && o.deep {
		baseGetter := getter
		getter = func() any {
			return traverse(baseGetter())
		}
	}

	var oldValue any = initialWatchValue
	if multiSource {
		slots := make([]any, len(source.([]any)))
		for i := range slots {
			slots[i] = initialWatchValue
		}
		oldValue = slots
	}

	effect := newEffect(getter)
	effect.onTrack = o.onTrack
	effect.onTrigger = o.onTrigger

	job := func() {
		if !effect.active {
			return
		}
		if cb == nil {
			effect.Run()
			return
		}

		newValue := effect.Run()
		if !(o.deep || forceTrigger || watchChanged(newValue, oldValue, multiSource)) {
			return
		}
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
		callWithErrorHandling(func() {
			cb(newValue, presentedOldValue(oldValue, multiSource), onCleanup)
		}, ErrCodeWatchCallback)
		oldValue = newValue
	}

	ownerID := OwnerID()
	if ownerID == 0 {
		ownerID = effect.id
	}
	jobHandle := &scheduler.Job{
		ID:     ownerID,
		Pre:    o.flush == FlushPre,
		Active: func() bool { return effect.active },
		Run:    job,
	}

	switch o.flush {
	case FlushSync:
		effect.scheduler = job
	case FlushPost:
		effect.scheduler = func() { QueuePost(jobHandle) }
	default:
		effect.scheduler = func() { QueueJob(jobHandle) }
	}

	scope := CurrentScope()
	if scope != nil {
		scope.registerEffect(effect)
	}
	effect.onStop = func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	}

	// Initial run.
	if cb != nil {
		if o.immediate {
			job()
		} else {
			oldValue = effect.Run()
		}
	} else if o.flush == FlushPost {
		QueuePost(&scheduler.Job{
			ID:     ownerID,
			Active: func() bool { return effect.active },
			Run:    func() { effect.Run() },
		})
	} else {
		effect.Run()
	}

	return func() {
		effect.Stop()
		if scope != nil {
			scope.removeEffect(effect)
		}
	}
}

// watchChanged reports whether the watched value changed since the last
// run. Multi-source watchers compare elementwise.
func watchChanged(newValue, oldValue any, multiSource bool) bool {
	if !multiSource {
		return !sameValue(newValue, oldValue)
	}
	newSlice, ok := newValue.([]any)
	if !ok {
		return true
	}
	oldSlice, ok := oldValue.([]any)
	if !ok || len(oldSlice) != len(newSlice) {
		return true
	}
	for i := range newSlice {
		if !sameValue(newSlice[i], oldSlice[i]) {
			return true
		}
	}
	return false
}

// presentedOldValue converts the initial sentinel to nil so the first
// callback sees "no previous value".
func presentedOldValue(oldValue any, multiSource bool) any {
	if !multiSource {
		if oldValue == initialWatchValue {
			return nil
		}
		return oldValue
	}
	slots, ok := oldValue.([]any)
	if !ok {
		return oldValue
	}
	out := make([]any, len(slots))
	for i, v := range slots {
		if v != initialWatchValue {
			out[i] = v
		}
	}
	return out
}
