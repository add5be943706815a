package equatable

import (
	"math"
	"reflect"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/mitchellh/hashstructure/v2"
)

// Hash is the universal hash. It accepts any value and returns 0 for nil. It
// follows the rules of Equal at every depth, so values that Equal reports as
// equal hash equal: pointers and interfaces hash what they hold, slices,
// arrays, maps and structs fold their elements, a value with its own Hash
// method uses it and time.Time hashes by instant. A type that declares an
// Equal method without a Hash method hashes to a constant for the type.
func Hash(v any) int {
	switch v := v.(type) {
	case nil:
		return 0
	case int:
		return v
	case string:
		return HashString(v, Ordinal)
	case bool:
		return hashBool(v)
	case float64:
		return hashFloat(v)
	case []byte:
		if v == nil {
			return 0
		}
		return int(xxhash.Sum64(v))
	case time.Time:
		return hashTime(v)
	}
	h := hasher{seen: make(map[visit]bool)}
	return h.hash(reflect.ValueOf(v))
}

// visit is a reference already on the path being hashed.
type visit struct {
	ptr uintptr
	typ reflect.Type
}

type hasher struct {
	seen map[visit]bool
}

var (
	hasherType = reflect.TypeFor[Hasher]()
	timeType   = reflect.TypeFor[time.Time]()
)

func (h *hasher) hash(rv reflect.Value) int {
	if !rv.IsValid() {
		return 0
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return 0
		}
	}
	t := rv.Type()
	if rv.CanInterface() {
		switch {
		case t == timeType:
			return hashTime(rv.Interface().(time.Time))
		case t.Implements(hasherType):
			return rv.Interface().(Hasher).Hash()
		}
	}
	if declaresEqual(t) {
		return typeHash(t)
	}
	switch rv.Kind() {
	case reflect.Bool:
		return hashBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return int(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return hashFloat(rv.Float())
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		return Mix(hashFloat(real(c)), hashFloat(imag(c)))
	case reflect.String:
		return HashString(rv.String(), Ordinal)
	case reflect.Interface:
		return h.hash(rv.Elem())
	case reflect.Pointer:
		v := visit{ptr: rv.Pointer(), typ: t}
		if h.seen[v] {
			return 0
		}
		h.seen[v] = true
		defer delete(h.seen, v)
		return h.hash(rv.Elem())
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 && t.Elem().NumMethod() == 0 && !declaresEqual(t.Elem()) {
			return int(xxhash.Sum64(rv.Bytes()))
		}
		return h.elements(rv)
	case reflect.Array:
		return h.elements(rv)
	case reflect.Map:
		v := visit{ptr: rv.Pointer(), typ: t}
		if h.seen[v] {
			return 0
		}
		h.seen[v] = true
		defer delete(h.seen, v)
		// Entries are summed so iteration order does not matter.
		sum := 0
		iter := rv.MapRange()
		for iter.Next() {
			sum += Mix(h.hash(iter.Key()), h.hash(iter.Value()))
		}
		return Mix(Seed, sum)
	case reflect.Struct:
		if rv.CanInterface() && flat(t) {
			if sum, err := hashstructure.Hash(rv.Interface(), hashstructure.FormatV2, nil); err == nil {
				return int(sum)
			}
		}
		hash := Seed
		for i := 0; i < rv.NumField(); i++ {
			hash = Mix(hash, h.hash(rv.Field(i)))
		}
		return hash
	}
	// Non-nil funcs never compare equal and channels compare by identity.
	return typeHash(t)
}

func (h *hasher) elements(rv reflect.Value) int {
	hash := Seed
	for i := 0; i < rv.Len(); i++ {
		hash = Mix(hash, h.hash(rv.Index(i)))
	}
	return hash
}

// declaresEqual reports whether values of t are compared by an Equal
// method. A pointer counts only when its Equal takes the pointer itself,
// otherwise the pointee decides.
func declaresEqual(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface:
		return false
	case reflect.Pointer:
		m, ok := t.MethodByName("Equal")
		return ok && comparesTo(m.Type, t)
	}
	_, onValue := t.MethodByName("Equal")
	_, onPointer := reflect.PointerTo(t).MethodByName("Equal")
	return onValue || onPointer
}

// comparesTo reports whether the method type fn, receiver included, is
// Equal(t) bool or Equal(I) bool for an interface I that t implements.
func comparesTo(fn, t reflect.Type) bool {
	if fn.NumIn() != 2 || fn.NumOut() != 1 || fn.Out(0).Kind() != reflect.Bool {
		return false
	}
	in := fn.In(1)
	return in == t || in.Kind() == reflect.Interface && t.Implements(in)
}

// flat reports whether t is a struct of exported fields that are, all the
// way down, booleans, integers, strings or flat structs and arrays, none of
// them with methods of their own. Such structs hash the same way Equal
// compares them.
func flat(t reflect.Type) bool {
	if t.NumMethod() > 0 || reflect.PointerTo(t).NumMethod() > 0 {
		return false
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Array:
		return flat(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || f.Tag.Get("hash") != "" || !flat(f.Type) {
				return false
			}
		}
		return true
	}
	return false
}

// typeHash is the hash shared by every value of t.
func typeHash(t reflect.Type) int {
	return HashString(t.String(), Ordinal)
}

func hashBool(b bool) int {
	if b {
		return 1
	}
	return 0
}

// hashFloat hashes f by its bits, folding -0 onto +0 and every NaN onto one
// value.
func hashFloat(f float64) int {
	switch {
	case f == 0:
		return 0
	case math.IsNaN(f):
		return int(math.Float64bits(math.NaN()))
	}
	return int(math.Float64bits(f))
}

// hashTime hashes the instant, ignoring location and monotonic reading, the
// same way time.Time.Equal compares.
func hashTime(t time.Time) int {
	if t.IsZero() {
		return 0
	}
	return Mix(int(t.Unix()), t.Nanosecond())
}
