package reactive

// RefLike is implemented by every reference-cell-shaped observable: Ref,
// CustomRef, ObjectRef, and Computed.
type RefLike interface {
	// Value returns the current value, tracking the cell.
	Value() any

	// SetValue replaces the current value, triggering dependents.
	SetValue(value any)

	// refDep returns the cell's private dep, creating it lazily.
	refDep() *Dep
}

// trackRefValue subscribes the active effect to a cell's private dep.
func trackRefValue(r RefLike) {
	ctx := currentContext()
	e := ctx.activeEffect
	if e == nil || !ctx.shouldTrack {
		return
	}
	trackEffect(e, r.refDep(), TrackGet, "value")
}

// triggerRefValue notifies every effect subscribed to a cell.
func triggerRefValue(r RefLike) {
	recordTrigger(TriggerSet)
	triggerEffects([]*Dep{r.refDep()}, DebugEvent{TriggerOp: TriggerSet, Key: "value"})
}

// Ref is a single-slot observable. Deep refs wrap object values as
// reactive on write; shallow refs store values untouched.
type Ref struct {
	dep      *Dep
	value    any
	rawValue any
	shallow  bool
}

// NewRef creates a deep ref. An object value is stored as its reactive
// wrapper.
func NewRef(value any) *Ref {
	return &Ref{
		rawValue: ToRaw(value),
		value:    toReactive(value),
	}
}

// NewShallowRef creates a shallow ref: the value is stored as-is and only
// whole-value replacement triggers dependents.
func NewShallowRef(value any) *Ref {
	return &Ref{
		rawValue: value,
		value:    value,
		shallow:  true,
	}
}

func (r *Ref) refDep() *Dep {
	if r.dep == nil {
		r.dep = newDep()
	}
	return r.dep
}

// Value returns the current value and tracks the ref.
func (r *Ref) Value() any {
	trackRefValue(r)
	return r.value
}

// SetValue replaces the value. Dependents are triggered only when the value
// changed (NaN-aware); for deep refs the comparison is against the raw
// form, and object values are wrapped as reactive.
func (r *Ref) SetValue(value any) {
	useDirect := r.shallow || IsShallow(value) || IsReadonly(value)

	if useDirect {
		if sameValue(r.value, value) {
			return
		}
		r.rawValue = value
		r.value = value
	} else {
		raw := ToRaw(value)
		if sameValue(r.rawValue, raw) {
			return
		}
		r.rawValue = raw
		r.value = toReactive(raw)
	}
	triggerRefValue(r)
}

// IsRef reports whether value is a reference cell of any kind, including
// computed cells.
func IsRef(value any) bool {
	_, ok := value.(RefLike)
	return ok
}

// Unref returns value itself unless it is a ref, in which case the ref's
// current value (tracked) is returned.
func Unref(value any) any {
	if r, ok := value.(RefLike); ok {
		return r.Value()
	}
	return value
}

// TriggerRef forces the dependents of a ref to re-run, regardless of value
// identity. Useful after deep-mutating the inner value of a shallow ref.
func TriggerRef(r RefLike) {
	triggerRefValue(r)
}

// CustomRef is a ref with user-controlled track and trigger timing, built
// by NewCustomRef.
type CustomRef struct {
	dep *Dep
	get func() any
	set func(any)
}

// CustomRefFactory receives explicit track and trigger functions and
// returns the getter and setter for the cell.
type CustomRefFactory func(track func(), trigger func()) (get func() any, set func(value any))

// NewCustomRef creates a ref whose tracking and triggering are controlled
// by the factory. Example, a debounced ref:
//
//	r := reactive.NewCustomRef(func(track, trigger func()) (func() any, func(any)) {
//	    value := any(0)
//	    return func() any { track(); return value },
//	        func(v any) { value = v; debounce(trigger) }
//	})
func NewCustomRef(factory CustomRefFactory) *CustomRef {
	r := &CustomRef{}
	r.get, r.set = factory(
		func() { trackRefValue(r) },
		func() { triggerRefValue(r) },
	)
	return r
}

func (r *CustomRef) refDep() *Dep {
	if r.dep == nil {
		r.dep = newDep()
	}
	return r.dep
}

// Value invokes the factory getter.
func (r *CustomRef) Value() any {
	return r.get()
}

// SetValue invokes the factory setter.
func (r *CustomRef) SetValue(value any) {
	r.set(value)
}

// ObjectRef is a ref view over a single key of a reactive object, created
// by ToRef. Reads and writes pass through the wrapper, so tracking and
// triggering stay keyed to the source.
type ObjectRef struct {
	dep    *Dep
	source *Object
	key    string
}

// ToRef creates a ref for a key on a reactive object.
func ToRef(source *Object, key string) *ObjectRef {
	return &ObjectRef{source: source, key: key}
}

// ToRefs creates a ref per key of a reactive object.
func ToRefs(source *Object) map[string]*ObjectRef {
	out := make(map[string]*ObjectRef)
	for _, key := range source.rawKeys() {
		out[key] = ToRef(source, key)
	}
	return out
}

func (r *ObjectRef) refDep() *Dep {
	if r.dep == nil {
		r.dep = newDep()
	}
	return r.dep
}

// Value reads the key through the source wrapper.
func (r *ObjectRef) Value() any {
	return r.source.Get(r.key)
}

// SetValue writes the key through the source wrapper.
func (r *ObjectRef) SetValue(value any) {
	r.source.Set(r.key, value)
}
