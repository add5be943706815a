package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/equatable"
	"github.com/syssam/equatable/compiler/gen"
)

// test is a boolean condition that is either an == comparison of two
// operands or a call.
type test struct {
	left, right jen.Code
	call        *jen.Statement
}

func (c test) equal() *jen.Statement {
	if c.call != nil {
		return c.call
	}
	return jen.Add(c.left).Op("==").Add(c.right)
}

func (c test) differ() *jen.Statement {
	if c.call != nil {
		return jen.Op("!").Add(c.call)
	}
	return jen.Add(c.left).Op("!=").Add(c.right)
}

// load reads member m of operand o.
func (l *lowering) load(m *gen.Member, o gen.Operand) *jen.Statement {
	s := l.id(o).Dot(m.Name)
	if m.Getter() {
		s.Call()
	}
	return s
}

// str converts a named string member to string.
func str(m *gen.Member, v *jen.Statement) *jen.Statement {
	if m.Info.Named {
		return jen.String().Call(v)
	}
	return v
}

func (l *lowering) collation(c equatable.Collation) jen.Code {
	return jen.Qual(l.rt, c.GoString())
}

// compareMember returns the comparison of member m of a and b.
func (l *lowering) compareMember(m *gen.Member, a, b gen.Operand) test {
	x, y := l.load(m, a), l.load(m, b)
	switch m.Bucket {
	case gen.BucketString:
		if m.Collation == equatable.Ordinal {
			return test{left: x, right: y}
		}
		return test{call: jen.Qual(l.rt, "EqualString").Call(str(m, x), str(m, y), l.collation(m.Collation))}
	case gen.BucketPrimitive:
		return test{left: x, right: y}
	case gen.BucketValueOperator:
		if m.Getter() && m.Info.Equal.PointerRecv {
			// Results of getters are not addressable.
			return test{call: jen.Qual(l.rt, "EqualValue").Call(x, y)}
		}
		return test{call: x.Dot("Equal").Call(y)}
	case gen.BucketReferenceOperator:
		return test{call: jen.Qual(l.rt, "EqualRef").Call(x, y)}
	}
	return test{call: jen.Qual(l.rt, "Equal").Call(x, y)}
}

// hashMember returns the hash contribution of member m of o.
func (l *lowering) hashMember(m *gen.Member, o gen.Operand) jen.Code {
	v := l.load(m, o)
	switch {
	case m.Bucket == gen.BucketString:
		return jen.Qual(l.rt, "HashString").Call(str(m, v), l.collation(m.Collation))
	case m.PlainInt():
		return v
	}
	return jen.Qual(l.rt, "Hash").Call(v)
}

// compareBase returns the comparison of the embedded base of a and b.
func (l *lowering) compareBase(a, b gen.Operand) test {
	base := l.set.Policy.Base
	x, y := l.id(a).Dot(base.Field), l.id(b).Dot(base.Field)
	switch {
	case base.Pointer && base.ParamPointer:
		return test{call: jen.Qual(l.rt, "EqualRef").Call(x, y)}
	case base.Pointer:
		return test{call: jen.Qual(l.rt, "EqualPtr").Call(x, y)}
	case base.ParamPointer:
		return test{call: x.Dot("Equal").Call(jen.Op("&").Add(y))}
	}
	return test{call: x.Dot("Equal").Call(y)}
}

// hashBase returns the hash contribution of the embedded base of o.
func (l *lowering) hashBase(o gen.Operand) jen.Code {
	base := l.set.Policy.Base
	x := l.id(o).Dot(base.Field)
	if base.Pointer {
		return jen.Qual(l.rt, "Hash").Call(x)
	}
	return x.Dot("Hash").Call()
}
