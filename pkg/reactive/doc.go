// Package reactive implements a fine-grained reactivity runtime.
//
// The runtime tracks reads of observable values, records dependencies from
// running computations onto those values, and re-runs dependent computations
// when the values change.
//
// # Core Types
//
// Reactive wrappers intercept reads and writes on plain data:
//
//	state := reactive.Reactive(map[string]any{"n": 1}).(*reactive.Object)
//	n := state.Get("n")  // Read (tracks the "n" key)
//	state.Set("n", 2)    // Write (triggers dependents of "n")
//
// Ref is a single-slot observable:
//
//	count := reactive.NewRef(0)
//	value := count.Value()  // Read (tracks the ref)
//	count.SetValue(5)       // Write (triggers dependents)
//
// Computed is a lazily recomputed derived observable:
//
//	doubled := reactive.NewComputed(func() any { return count.Value().(int) * 2 })
//
// Effects are tracked computations that re-run when dependencies change:
//
//	reactive.CreateEffect(func() {
//	    fmt.Println("count is", count.Value())
//	})
//
// Watchers observe a source and run a callback per change, or re-run an
// arbitrary effect body while auto-tracking reads:
//
//	stop := reactive.Watch(count, func(newV, oldV any, onCleanup reactive.OnCleanup) {
//	    fmt.Println(oldV, "->", newV)
//	})
//
// # Flavors
//
// Every wrapper exists in four flavors: mutable or readonly, deep or
// shallow. Deep wrappers lazily wrap nested objects on read; shallow
// wrappers apply reactivity one level deep. Readonly wrappers refuse
// writes with a dev warning.
//
// # Tracking Model
//
// The active effect is per-goroutine. Reads performed while an effect runs
// subscribe that effect to the (target, key) pair; dependencies that are no
// longer read are pruned after each run. Spawning goroutines does not carry
// the tracking context over.
package reactive
