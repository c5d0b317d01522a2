package reactive

import (
	"reflect"

	mapset "github.com/deckarep/golang-set/v2"
)

// traverse recursively reads every property and entry reachable from value
// so a deep watcher subscribes to all of them. A seen-set of identities
// breaks cycles; values marked raw are opaque and not entered.
func traverse(value any) any {
	seen := mapset.NewThreadUnsafeSet[uintptr]()
	doTraverse(value, seen)
	return value
}

func doTraverse(value any, seen mapset.Set[uintptr]) {
	if value == nil || markedRaw(value) {
		return
	}

	if id := identityOf(value); id != 0 {
		if seen.Contains(id) {
			return
		}
		seen.Add(id)
	}

	switch v := value.(type) {
	case RefLike:
		doTraverse(v.Value(), seen)
		return
	case *Object:
		for _, key := range v.Keys() {
			doTraverse(v.Get(key), seen)
		}
		return
	case *Array:
		n := v.Len()
		for i := 0; i < n; i++ {
			doTraverse(v.Get(i), seen)
		}
		return
	case *Map:
		v.ForEach(func(val, key any) {
			doTraverse(key, seen)
			doTraverse(val, seen)
		})
		return
	case *Set:
		v.Each(func(val any) {
			doTraverse(val, seen)
		})
		return
	}

	// Plain nested data reachable from a shallow boundary: walk it without
	// tracking so cycles through it still terminate.
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			doTraverse(iter.Value().Interface(), seen)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			doTraverse(rv.Index(i).Interface(), seen)
		}
	case reflect.Pointer:
		if !rv.IsNil() {
			doTraverse(rv.Elem().Interface(), seen)
		}
	}
}
