package reactive

import (
	"reflect"
	"sort"
)

// Object is the reactive wrapper over keyed plain data: a map[string]any or
// a pointer to a struct. Every accessor is a trap that translates the
// access into track/trigger calls per the wrapper's flavor.
type Object struct {
	// target is the wrapped value. For a readonly view over a reactive
	// object this is the inner *Object; reads delegate to it so tracking
	// reaches the mutable wrapper's registry.
	target any

	h     handler
	store *depStore
}

func newObject(target any, h handler) *Object {
	return &Object{
		target: target,
		h:      h,
		store:  newDepStore(kindObject),
	}
}

func (o *Object) inner() any     { return o.target }
func (o *Object) flags() handler { return o.h }

// innerObject returns the wrapped inner wrapper, if this is a readonly
// view over a reactive object.
func (o *Object) innerObject() *Object {
	w, _ := o.target.(*Object)
	return w
}

// isStructPointer reports whether v is a non-nil pointer to a struct.
func isStructPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct
}

// rawGet reads a key from the underlying storage without tracking.
func (o *Object) rawGet(key string) any {
	switch t := o.target.(type) {
	case *Object:
		return t.rawGet(key)
	case map[string]any:
		return t[key]
	default:
		f := reflect.ValueOf(t).Elem().FieldByName(key)
		if !f.IsValid() || !f.CanInterface() {
			return nil
		}
		return f.Interface()
	}
}

// rawHas reports key existence without tracking.
func (o *Object) rawHas(key string) bool {
	switch t := o.target.(type) {
	case *Object:
		return t.rawHas(key)
	case map[string]any:
		_, ok := t[key]
		return ok
	default:
		return reflect.ValueOf(t).Elem().FieldByName(key).IsValid()
	}
}

// rawKeys enumerates keys without tracking. Map keys are sorted so
// iteration is deterministic.
func (o *Object) rawKeys() []string {
	switch t := o.target.(type) {
	case *Object:
		return t.rawKeys()
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	default:
		rt := reflect.ValueOf(t).Elem().Type()
		keys := make([]string, 0, rt.NumField())
		for i := 0; i < rt.NumField(); i++ {
			if f := rt.Field(i); f.IsExported() {
				keys = append(keys, f.Name)
			}
		}
		return keys
	}
}

// Get reads a key. In tracked contexts the running effect subscribes to the
// key. Deep flavors unwrap refs and lazily wrap object results; shallow
// flavors return the stored value untouched.
func (o *Object) Get(key string) any {
	if o.h.readonly {
		var v any
		if in := o.innerObject(); in != nil {
			v = in.Get(key)
		} else {
			v = o.rawGet(key)
		}
		if r, ok := v.(RefLike); ok && !o.h.shallow {
			return r.Value()
		}
		return wrapResult(o.h, v)
	}

	track(o.store, TrackGet, key)
	v := o.rawGet(key)

	if !o.h.shallow {
		if r, ok := v.(RefLike); ok {
			return r.Value()
		}
	}
	return wrapResult(o.h, v)
}

// Set writes a key. ADD versus SET is decided by pre-existence; dependents
// are triggered only when the value actually changed (NaN-aware). In deep
// mode, assigning a plain value over a stored ref writes through the ref.
// Writes to readonly wrappers warn and silently refuse.
func (o *Object) Set(key string, value any) {
	if o.h.readonly {
		warnf("set %q failed: target is readonly", key)
		return
	}
	if in := o.innerObject(); in != nil {
		in.Set(key, value)
		return
	}

	oldValue := o.rawGet(key)

	if !o.h.shallow {
		if r, ok := oldValue.(RefLike); ok {
			if _, newIsRef := value.(RefLike); !newIsRef {
				r.SetValue(value)
				return
			}
		}
		value = ToRaw(value)
	}

	hadKey := o.rawHas(key)

	switch t := o.target.(type) {
	case map[string]any:
		t[key] = value
	default:
		f := reflect.ValueOf(t).Elem().FieldByName(key)
		if !f.IsValid() || !f.CanSet() {
			warnf("set %q failed: no settable field on %T", key, t)
			return
		}
		rv := reflect.ValueOf(value)
		if !rv.IsValid() {
			f.Set(reflect.Zero(f.Type()))
		} else if rv.Type().AssignableTo(f.Type()) {
			f.Set(rv)
		} else {
			warnf("set %q failed: %T is not assignable to field type %s", key, value, f.Type())
			return
		}
	}

	if !hadKey {
		trigger(o.store, TriggerAdd, key, value, nil)
	} else if !sameValue(oldValue, value) {
		trigger(o.store, TriggerSet, key, value, oldValue)
	}
}

// Has reports key existence and tracks it.
func (o *Object) Has(key string) bool {
	if in := o.innerObject(); in != nil {
		return in.Has(key)
	}
	track(o.store, TrackHas, key)
	return o.rawHas(key)
}

// Delete removes a key. Dependents of the key and of iteration are
// triggered when the key existed. Deleting on a readonly wrapper warns and
// reports success so code paths remain uniform.
func (o *Object) Delete(key string) bool {
	if o.h.readonly {
		warnf("delete %q failed: target is readonly", key)
		return true
	}
	if in := o.innerObject(); in != nil {
		return in.Delete(key)
	}

	m, ok := o.target.(map[string]any)
	if !ok {
		warnf("delete %q failed: struct fields cannot be deleted", key)
		return false
	}

	oldValue, hadKey := m[key]
	if !hadKey {
		return false
	}
	delete(m, key)
	trigger(o.store, TriggerDelete, key, nil, oldValue)
	return true
}

// Keys enumerates keys and tracks iteration: any key added or removed later
// re-runs dependents.
func (o *Object) Keys() []string {
	if in := o.innerObject(); in != nil {
		return in.Keys()
	}
	track(o.store, TrackIterate, iterateKey)
	return o.rawKeys()
}
