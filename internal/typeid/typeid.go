// Package typeid assigns stable api.TypeID values to reflect.Types. It is
// the Go stand-in for the reference implementation's
// std::intrinsics::type_name-based Id: this module always uses the stable,
// debuggable string form, since Go has no equivalent of the release-mode
// u128 intrinsic-type-id branch worth reproducing (see SPEC_FULL.md §4.C).
package typeid

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gramfuzz/engine/api"
)

var (
	mu       sync.Mutex
	byType   = map[reflect.Type]api.TypeID{}
	nameSeen = map[string]int{}
)

// Of returns the canonical TypeID for t, assigning one on first use. Two
// values of the same reflect.Type always receive the same TypeID.
func Of(t reflect.Type) api.TypeID {
	mu.Lock()
	defer mu.Unlock()
	if id, ok := byType[t]; ok {
		return id
	}
	name := qualifiedName(t)
	id := api.TypeID(name)
	if n, clash := nameSeen[name]; clash {
		// Two distinct reflect.Types stringified to the same qualified
		// name (possible for anonymous generic instantiations); disambiguate
		// deterministically rather than silently colliding on disk.
		nameSeen[name] = n + 1
		id = api.TypeID(fmt.Sprintf("%s#%d", name, n+1))
	} else {
		nameSeen[name] = 0
	}
	byType[t] = id
	return id
}

// OfValue is a convenience wrapper around Of(reflect.TypeOf(v)).
func OfValue(v any) api.TypeID {
	return Of(reflect.TypeOf(v))
}

// Named assigns (or looks up) a TypeID for a synthetic composite shape
// (e.g. Slice[T], Optional[T]) that has no single reflect.Type of its own
// in the way a derived struct does. kind and inner together form the
// lookup key so e.g. Slice[Int32] and Optional[Int32] never collide.
func Named(kind string, inner api.TypeID) api.TypeID {
	mu.Lock()
	defer mu.Unlock()
	name := fmt.Sprintf("%s<%s>", kind, inner)
	return api.TypeID(name)
}

// NamedMulti is Named generalized to composite shapes with more than one
// type parameter (Either[L,R], the TupleN family).
func NamedMulti(kind string, parts ...api.TypeID) api.TypeID {
	strs := make([]string, len(parts))
	for i, p := range parts {
		strs[i] = string(p)
	}
	return api.TypeID(fmt.Sprintf("%s<%s>", kind, strings.Join(strs, ",")))
}

func qualifiedName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
