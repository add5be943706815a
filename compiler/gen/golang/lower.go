package golang

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/equatable/compiler/gen"
)

// hashVar is the accumulator of generated Hash methods.
const hashVar = "hash"

// lowering turns the IR routines of one set into declarations.
type lowering struct {
	helper gen.GeneratorHelper
	rt     string
	set    *gen.RoutineSet
	t      *gen.Type
	// current is the routine being lowered.
	current *gen.Routine
}

func (l *lowering) routine(r *gen.Routine) jen.Code {
	l.current = r
	self := l.helper.SelfType(l.t)
	def := jen.Func()
	if r.Receiver == gen.OperandSelf {
		def.Params(jen.Id(l.name(gen.OperandSelf)).Add(self)).Id(r.Name)
	} else {
		def.Id(r.Name)
		if l.t.Generic() {
			def.Types(l.helper.TypeParams(l.t)...)
		}
	}
	def.Params(l.params(r)...)
	if r.Kind == gen.RoutineHash {
		def.Int()
	} else {
		def.Bool()
	}
	body := make([]jen.Code, 0, len(r.Body))
	for _, i := range r.Body {
		body = append(body, l.instr(i))
	}
	return jen.Comment(l.doc(r)).Line().Add(def.Block(body...))
}

func (l *lowering) params(r *gen.Routine) []jen.Code {
	self := l.helper.SelfType(l.t)
	switch {
	case r.Kind == gen.RoutineEqualAny:
		return []jen.Code{jen.Id(l.name(gen.OperandOther)).Any()}
	case len(r.Params) == 2:
		return []jen.Code{jen.List(jen.Id(l.name(r.Params[0])), jen.Id(l.name(r.Params[1]))).Add(self)}
	case len(r.Params) == 1:
		return []jen.Code{jen.Id(l.name(r.Params[0])).Add(self)}
	}
	return nil
}

func (l *lowering) doc(r *gen.Routine) string {
	t := l.t.Name
	switch r.Kind {
	case gen.RoutineInternal:
		return fmt.Sprintf("%s reports whether two non-nil %s values are equal.", r.Name, t)
	case gen.RoutineEqual:
		return fmt.Sprintf("Equal reports whether other is equal to %s.", l.name(gen.OperandSelf))
	case gen.RoutineEqualAny:
		return fmt.Sprintf("EqualAny reports whether other holds a %s equal to %s.", l.operandType(), l.name(gen.OperandSelf))
	case gen.RoutineEqualOp:
		return fmt.Sprintf("%s reports whether left and right are equal.", r.Name)
	case gen.RoutineNotEqualOp:
		return fmt.Sprintf("%s reports whether left and right differ.", r.Name)
	case gen.RoutineHash:
		return fmt.Sprintf("Hash returns the hash code of %s, consistent with Equal.", l.name(gen.OperandSelf))
	}
	return r.Name
}

func (l *lowering) operandType() string {
	if l.t.Reference() {
		return "*" + l.t.Name
	}
	return l.t.Name
}

func (l *lowering) name(o gen.Operand) string {
	return o.Name(l.t)
}

func (l *lowering) id(o gen.Operand) *jen.Statement {
	return jen.Id(l.name(o))
}

func (l *lowering) instr(i gen.Instr) jen.Code {
	switch i.Op {
	case gen.OpReturnIfIdentical:
		return jen.If(l.id(i.A).Op("==").Add(l.id(i.B))).Block(jen.Return(jen.Lit(i.Value)))
	case gen.OpReturnIfNil:
		var res jen.Code = jen.Lit(i.Value)
		if l.hashing() {
			res = jen.Lit(0)
		}
		return jen.If(l.id(i.A).Op("==").Nil()).Block(jen.Return(res))
	case gen.OpAssertType:
		return jen.List(l.id(i.A), jen.Id("ok")).Op(":=").Add(l.id(i.B)).Assert(l.helper.SelfType(l.t)).Line().
			If(jen.Op("!").Id("ok")).Block(jen.Return(jen.Lit(i.Value)))
	case gen.OpCompareBase:
		return l.check(i, l.compareBase(i.A, i.B))
	case gen.OpCallCustomEquals:
		return l.check(i, test{call: l.id(i.A).Dot(l.set.Policy.CustomEquals.Name).Call(l.id(i.B))})
	case gen.OpCompareMember:
		return l.check(i, l.compareMember(i.Member, i.A, i.B))
	case gen.OpReturnBool:
		return jen.Return(jen.Lit(i.Value))
	case gen.OpDelegate:
		call := l.delegate(i)
		if i.Negate {
			return jen.Return(jen.Op("!").Add(call))
		}
		return jen.Return(call)
	case gen.OpSeed:
		return jen.Id(hashVar).Op(":=").Qual(l.rt, "Seed")
	case gen.OpMixBase:
		return l.mix(l.hashBase(i.A))
	case gen.OpMixCustomHash:
		return l.mix(l.id(i.A).Dot(l.set.Policy.CustomHash.Name).Call())
	case gen.OpMixMember:
		return l.mix(l.hashMember(i.Member, i.A))
	case gen.OpReturnHash:
		return jen.Return(jen.Id(hashVar))
	}
	panic(fmt.Sprintf("golang: unexpected opcode %s", i.Op))
}

func (l *lowering) hashing() bool {
	return l.set.Hash != nil && l.current == l.set.Hash
}

// check lowers one link of an equality chain: tail links are returned,
// others return false on mismatch.
func (l *lowering) check(i gen.Instr, c test) jen.Code {
	if i.Tail {
		return jen.Return(c.equal())
	}
	return jen.If(c.differ()).Block(jen.Return(jen.False()))
}

func (l *lowering) mix(v jen.Code) jen.Code {
	return jen.Id(hashVar).Op("=").Qual(l.rt, "Mix").Call(jen.Id(hashVar), v)
}

func (l *lowering) delegate(i gen.Instr) *jen.Statement {
	a, b := l.id(i.A), l.id(i.B)
	switch i.Target {
	case gen.RoutineInternal:
		return jen.Id(l.t.InternalName()).Call(a, b)
	case gen.RoutineEqual:
		return a.Dot("Equal").Call(b)
	case gen.RoutineEqualOp:
		return jen.Id(l.t.EqualOpName()).Call(a, b)
	}
	panic(fmt.Sprintf("golang: unexpected delegate target %s", i.Target))
}
