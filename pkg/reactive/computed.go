package reactive

// Computed is a derived observable: a reference-cell-shaped wrapper over an
// internal effect. The value is recomputed lazily on read when an upstream
// dependency has changed since the last read.
type Computed struct {
	dep    *Dep
	effect *Effect

	value any

	// dirty is set by the inner effect's scheduler on upstream change and
	// cleared on read.
	dirty bool

	// cacheable is false when the cell must recompute on every read (no
	// subscriptions are established either); used under SSR.
	cacheable bool

	readonly bool
	setter   func(any)
}

// ComputedOption configures a computed cell.
type ComputedOption func(*Computed)

// WithSetter makes the computed writable: SetValue invokes fn instead of
// warning.
func WithSetter(fn func(value any)) ComputedOption {
	return func(c *Computed) {
		c.setter = fn
		c.readonly = false
	}
}

// WithNoCache disables caching and dependency subscription: every read
// recomputes. Used when rendering server-side, where no invalidation pass
// will ever run.
func WithNoCache() ComputedOption {
	return func(c *Computed) {
		c.cacheable = false
		c.effect.active = false
	}
}

// WithComputedDebug attaches track/trigger debug hooks to the inner effect.
func WithComputedDebug(onTrack, onTrigger DebugHook) ComputedOption {
	return func(c *Computed) {
		c.effect.onTrack = onTrack
		c.effect.onTrigger = onTrigger
	}
}

// NewComputed creates a computed cell from a getter. The getter does not
// run until the first read.
//
// Example:
//
//	count := reactive.NewRef(1)
//	double := reactive.NewComputed(func() any {
//	    return count.Value().(int) * 2
//	})
func NewComputed(getter func() any, opts ...ComputedOption) *Computed {
	c := &Computed{
		dirty:     true,
		cacheable: true,
		readonly:  true,
	}

	c.effect = newEffect(func() any {
		return getter()
	})
	c.effect.isComputed = true
	c.effect.scheduler = func() {
		if !c.dirty {
			c.dirty = true
			triggerRefValue(c)
		}
	}

	for _, opt := range opts {
		opt(c)
	}

	if scope := CurrentScope(); scope != nil {
		scope.registerEffect(c.effect)
	}

	return c
}

func (c *Computed) refDep() *Dep {
	if c.dep == nil {
		c.dep = newDep()
	}
	return c.dep
}

// Value returns the computed value, tracking the cell and recomputing if an
// upstream dependency changed since the last read. A cell built with
// WithNoCache recomputes on every read, and neither the cell nor the
// getter's reads are tracked by the running effect.
func (c *Computed) Value() any {
	if !c.cacheable {
		Untracked(func() { c.value = c.effect.Run() })
		return c.value
	}
	trackRefValue(c)
	if c.dirty {
		c.dirty = false
		c.value = c.effect.Run()
	}
	return c.value
}

// SetValue invokes the setter of a writable computed; on a readonly
// computed it warns.
func (c *Computed) SetValue(value any) {
	if c.setter == nil {
		warnf("write to readonly computed ignored")
		return
	}
	c.setter(value)
}

// Effect exposes the inner effect, mainly so callers can stop the cell.
func (c *Computed) Effect() *Effect {
	return c.effect
}
