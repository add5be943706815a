package equatable

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// exportAll lets structural comparison look into unexported fields.
var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

// Equal is the universal equality. It accepts any two values, is nil-safe and
// compares structurally: an Equal method on a compared type is honoured,
// pointers are compared by what they point to, and unexported fields are
// compared too.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return isNil(a) && isNil(b)
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return cmp.Equal(a, b, exportAll)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
