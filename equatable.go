package equatable

// Seed is the odd constant every generated hash starts from.
const Seed = 397

// Mix folds b into the running hash a. Arithmetic wraps on overflow.
func Mix(a, b int) int {
	return ((a << 5) + a) ^ b
}

// Hasher is implemented by values that provide their own hash code.
type Hasher interface {
	Hash() int
}

// Equatable is the structural-equality contract implemented by generated
// code. T is the declaring type for value types and a pointer to it for
// reference types.
type Equatable[T any] interface {
	Hasher
	// Equal reports whether other is structurally equal to the receiver.
	Equal(other T) bool
	// EqualAny reports whether other holds a T that is structurally equal to
	// the receiver. It returns false for values of any other type.
	EqualAny(other any) bool
}

// Comparer is satisfied by nillable types carrying their own equality
// operator, such as pointers to generated reference types.
type Comparer[T any] interface {
	comparable
	Equal(other T) bool
}

// EqualRef compares two nillable operands through their equality operator.
// Identical operands are equal, a nil operand is equal only to nil, and the
// operator is only invoked with two non-nil operands.
func EqualRef[T Comparer[T]](a, b T) bool {
	if a == b {
		return true
	}
	var zero T
	if a == zero || b == zero {
		return false
	}
	return a.Equal(b)
}

// EqualPtr compares the values behind two pointers through their value
// equality operator. Two nil pointers are equal.
func EqualPtr[T interface{ Equal(T) bool }](a, b *T) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return (*a).Equal(*b)
}

// EqualValue compares two values whose equality operator is declared on
// the pointer receiver, such as getter results that are not addressable.
func EqualValue[T any, P interface {
	*T
	Equal(T) bool
}](a, b T) bool {
	return P(&a).Equal(b)
}
