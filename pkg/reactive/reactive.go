package reactive

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// handler selects one of the four wrapper flavors. The flavor decides
// whether writes are refused, whether nested values are wrapped on read,
// and whether refs are unwrapped.
type handler struct {
	readonly bool
	shallow  bool
}

// wrapper is implemented by every reactive wrapper type (Object, Array,
// Map, Set). The inner value may itself be a wrapper: readonly-over-reactive
// layers a readonly wrapper on top of the mutable one.
type wrapper interface {
	// inner returns the wrapped value, one layer down.
	inner() any

	// flags returns the wrapper's flavor.
	flags() handler
}

// The four flavor caches: target identity -> wrapper. A target has at most
// one wrapper per (readonly, shallow) flavor.
//
// The caches hold their targets strongly; Go offers no weak identity map
// over arbitrary values. The per-target dep registry lives on the wrapper
// itself, so it is released together with the cache entry.
var (
	proxyCacheMu         sync.Mutex
	reactiveCache        = map[uintptr]any{}
	shallowCache         = map[uintptr]any{}
	readonlyCache        = map[uintptr]any{}
	shallowReadonlyCache = map[uintptr]any{}
)

func cacheFor(h handler) map[uintptr]any {
	switch {
	case h.readonly && h.shallow:
		return shallowReadonlyCache
	case h.readonly:
		return readonlyCache
	case h.shallow:
		return shallowCache
	default:
		return reactiveCache
	}
}

// skipSet holds identities marked opaque by MarkRaw.
var skipSet = mapset.NewSet[uintptr]()

// MarkRaw marks a value as opaque so it is never wrapped. Returns the value
// unchanged. Only values with pointer identity (maps, slices, pointers,
// containers) can be marked.
func MarkRaw[T any](value T) T {
	id := identityOf(value)
	if id == 0 {
		warnf("value cannot be marked raw: %T", value)
		return value
	}
	skipSet.Add(id)
	return value
}

func markedRaw(value any) bool {
	id := identityOf(value)
	return id != 0 && skipSet.Contains(id)
}

// classify determines whether a value can be wrapped and as what. A value
// that is already a wrapper classifies as its own kind, so readonly views
// can be layered over reactive wrappers.
func classify(target any) (targetKind, bool) {
	switch target.(type) {
	case map[string]any:
		return kindObject, true
	case *[]any:
		return kindArray, true
	case []any:
		return kindArray, true
	case *orderedmap.OrderedMap[any, any]:
		return kindMap, true
	case mapset.Set[any]:
		return kindSet, true
	case *Object:
		return kindObject, true
	case *Array:
		return kindArray, true
	case *Map:
		return kindMap, true
	case *Set:
		return kindSet, true
	}
	if isStructPointer(target) {
		return kindObject, true
	}
	return 0, false
}

// Reactive returns a deep mutable wrapper over target. Reads through the
// wrapper are tracked; writes trigger dependents. Nested objects are
// wrapped lazily on read.
//
// Supported targets: map[string]any, *[]any (or []any), pointer-to-struct,
// *orderedmap.OrderedMap[any, any], mapset.Set[any]. Anything else is
// returned unchanged with a dev warning.
//
// Calling Reactive on a value that is already a wrapper of any flavor
// returns it unchanged.
func Reactive(target any) any {
	// Already a proxy of some flavor: return as-is.
	if _, ok := target.(wrapper); ok {
		return target
	}
	return createWrapper(target, handler{})
}

// ShallowReactive is Reactive with reactivity applied only one level deep:
// nested values are returned as-is and refs are not unwrapped.
func ShallowReactive(target any) any {
	if w, ok := target.(wrapper); ok && !w.flags().readonly {
		return target
	}
	return createWrapper(target, handler{shallow: true})
}

// Readonly returns a deep readonly wrapper over target. Writes are refused
// with a dev warning. Get does not track unless it passes through an
// underlying reactive wrapper; on Object and Array wrappers over plain data,
// Has, Keys, Len and the array search methods still record a dependency on
// the readonly wrapper itself. Calling Readonly on a reactive wrapper
// produces a distinct readonly view over it.
func Readonly(target any) any {
	if w, ok := target.(wrapper); ok && w.flags().readonly {
		return target
	}
	return createWrapper(target, handler{readonly: true})
}

// ShallowReadonly is Readonly applied only one level deep.
func ShallowReadonly(target any) any {
	if w, ok := target.(wrapper); ok && w.flags().readonly {
		return target
	}
	return createWrapper(target, handler{readonly: true, shallow: true})
}

// createWrapper builds (or returns the cached) wrapper for target in the
// given flavor.
func createWrapper(target any, h handler) any {
	if markedRaw(target) {
		return target
	}

	kind, ok := classify(target)
	if !ok {
		warnf("value cannot be made reactive: %T", target)
		return target
	}

	// Normalize []any to a stable *[]any so mutations that grow the array
	// stay visible through the wrapper.
	if s, ok := target.([]any); ok {
		p := new([]any)
		*p = s
		target = p
	}

	id := identityOf(target)

	proxyCacheMu.Lock()
	defer proxyCacheMu.Unlock()

	cache := cacheFor(h)
	if id != 0 {
		if existing, ok := cache[id]; ok {
			return existing
		}
	}

	var w any
	switch kind {
	case kindObject:
		w = newObject(target, h)
	case kindArray:
		if in, ok := target.(*Array); ok {
			w = &Array{target: in, items: in.resolveItems(), h: h, store: newDepStore(kindArray)}
		} else {
			w = newArray(target.(*[]any), h)
		}
	case kindMap:
		if in, ok := target.(*Map); ok {
			w = &Map{target: in, om: in.om, h: h, store: newDepStore(kindMap)}
		} else {
			w = newMapWrapper(target.(*orderedmap.OrderedMap[any, any]), h)
		}
	case kindSet:
		if in, ok := target.(*Set); ok {
			w = &Set{target: in, set: in.set, h: h, store: newDepStore(kindSet)}
		} else {
			w = newSetWrapper(target.(mapset.Set[any]), h)
		}
	}

	if id != 0 {
		cache[id] = w
	}
	return w
}

// IsReactive reports whether value is a reactive wrapper, including a
// readonly wrapper layered over a reactive one.
func IsReactive(value any) bool {
	w, ok := value.(wrapper)
	if !ok {
		return false
	}
	if w.flags().readonly {
		return IsReactive(w.inner())
	}
	return true
}

// IsReadonly reports whether value is a readonly wrapper or a readonly ref.
func IsReadonly(value any) bool {
	if w, ok := value.(wrapper); ok {
		return w.flags().readonly
	}
	if c, ok := value.(*Computed); ok {
		return c.readonly
	}
	return false
}

// IsShallow reports whether value is a shallow wrapper or shallow ref.
func IsShallow(value any) bool {
	if w, ok := value.(wrapper); ok {
		return w.flags().shallow
	}
	if r, ok := value.(*Ref); ok {
		return r.shallow
	}
	return false
}

// IsProxy reports whether value is any reactive or readonly wrapper.
func IsProxy(value any) bool {
	_, ok := value.(wrapper)
	return ok
}

// ToRaw returns the untouched source behind any chain of wrappers.
// ToRaw(ToRaw(x)) is idempotent.
func ToRaw(value any) any {
	if w, ok := value.(wrapper); ok {
		return ToRaw(w.inner())
	}
	return value
}

// toReactive wraps a value deeply if it is wrappable, otherwise returns it.
func toReactive(value any) any {
	if _, ok := classify(value); ok {
		return Reactive(value)
	}
	return value
}

// toReadonly wraps a value in a deep readonly wrapper if wrappable.
func toReadonly(value any) any {
	if _, ok := classify(value); ok {
		return Readonly(value)
	}
	return value
}

// wrapResult applies the deep-wrapping rule of a handler to a value fetched
// from a target: shallow handlers return it untouched, deep readonly
// handlers recurse via Readonly, deep mutable handlers via Reactive.
func wrapResult(h handler, value any) any {
	if h.shallow {
		return value
	}
	if h.readonly {
		return toReadonly(value)
	}
	return toReactive(value)
}
