package gen

import (
	"fmt"
	"strings"
)

// RoutineKind identifies a routine of the generated set.
type RoutineKind uint8

// Routine kinds, in emission order.
const (
	// RoutineInternal is the two-operand predicate every equality variant
	// delegates to. It assumes non-nil operands.
	RoutineInternal RoutineKind = iota
	// RoutineEqual is the typed Equal method.
	RoutineEqual
	// RoutineEqualAny is the untyped EqualAny method.
	RoutineEqualAny
	// RoutineEqualOp is the equality operator function.
	RoutineEqualOp
	// RoutineNotEqualOp is the inequality operator function.
	RoutineNotEqualOp
	// RoutineHash is the Hash method.
	RoutineHash
)

var routineKindNames = [...]string{
	RoutineInternal:   "internal",
	RoutineEqual:      "equal",
	RoutineEqualAny:   "equal-any",
	RoutineEqualOp:    "equal-op",
	RoutineNotEqualOp: "not-equal-op",
	RoutineHash:       "hash",
}

// String returns the routine kind name.
func (k RoutineKind) String() string {
	if int(k) < len(routineKindNames) {
		return routineKindNames[k]
	}
	return fmt.Sprintf("RoutineKind(%d)", k)
}

// Method reports whether routines of the kind have a receiver.
func (k RoutineKind) Method() bool {
	return k == RoutineEqual || k == RoutineEqualAny || k == RoutineHash
}

// Operand names a value a routine works on.
type Operand uint8

// Routine operands.
const (
	OperandNone Operand = iota
	// OperandLeft and OperandRight are the parameters of two-operand functions.
	OperandLeft
	OperandRight
	// OperandSelf is the receiver of a method.
	OperandSelf
	// OperandOther is the parameter of Equal and EqualAny.
	OperandOther
	// OperandCast is the result of the type assertion in EqualAny.
	OperandCast
)

// Name returns the Go identifier of the operand within routines of t.
func (o Operand) Name(t *Type) string {
	switch o {
	case OperandLeft:
		return "left"
	case OperandRight:
		return "right"
	case OperandSelf:
		return t.Receiver()
	case OperandOther:
		return "other"
	case OperandCast:
		return "typed"
	}
	return "_"
}

// String returns the operand name used in disassembly.
func (o Operand) String() string {
	switch o {
	case OperandLeft:
		return "left"
	case OperandRight:
		return "right"
	case OperandSelf:
		return "self"
	case OperandOther:
		return "other"
	case OperandCast:
		return "cast"
	}
	return "none"
}

// Op is an IR opcode.
type Op uint8

// IR opcodes.
const (
	// OpReturnIfIdentical returns Value when A and B are the same instance.
	OpReturnIfIdentical Op = iota + 1
	// OpReturnIfNil returns Value when A is nil. Hash routines return 0.
	OpReturnIfNil
	// OpAssertType asserts B to the routine type into A, returning false
	// when B holds another type.
	OpAssertType
	// OpCompareBase compares the base of A and B.
	OpCompareBase
	// OpCallCustomEquals calls the custom equals hook on A with B.
	OpCallCustomEquals
	// OpCompareMember compares Member of A and B.
	OpCompareMember
	// OpReturnBool returns Value.
	OpReturnBool
	// OpDelegate returns the result of routine Target applied to A and B,
	// negated when Negate is set.
	OpDelegate
	// OpSeed initialises the hash accumulator.
	OpSeed
	// OpMixBase mixes the base hash of A into the accumulator.
	OpMixBase
	// OpMixCustomHash mixes the custom hash hook result of A.
	OpMixCustomHash
	// OpMixMember mixes the hash of Member of A.
	OpMixMember
	// OpReturnHash returns the accumulator.
	OpReturnHash
)

var opNames = map[Op]string{
	OpReturnIfIdentical: "ReturnIfIdentical",
	OpReturnIfNil:       "ReturnIfNil",
	OpAssertType:        "AssertType",
	OpCompareBase:       "CompareBase",
	OpCallCustomEquals:  "CallCustomEquals",
	OpCompareMember:     "CompareMember",
	OpReturnBool:        "ReturnBool",
	OpDelegate:          "Delegate",
	OpSeed:              "Seed",
	OpMixBase:           "MixBase",
	OpMixCustomHash:     "MixCustomHash",
	OpMixMember:         "MixMember",
	OpReturnHash:        "ReturnHash",
}

// String returns the opcode mnemonic.
func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return fmt.Sprintf("Op(%d)", op)
}

// Comparison reports whether the opcode is a link of an equality chain.
func (op Op) Comparison() bool {
	return op == OpCompareBase || op == OpCallCustomEquals || op == OpCompareMember
}

// Mixing reports whether the opcode contributes to a hash.
func (op Op) Mixing() bool {
	return op == OpMixBase || op == OpMixCustomHash || op == OpMixMember
}

// Instr is a single IR instruction.
type Instr struct {
	Op   Op
	A, B Operand
	// Member is the operand member of CompareMember and MixMember.
	Member *Member
	// Target is the routine called by Delegate.
	Target RoutineKind
	Negate bool
	// Tail is set on the last comparison of a chain, whose result is
	// returned as is. Other comparisons return false on mismatch.
	Tail bool
	// Value is the result of early returns.
	Value bool
}

// Terminal reports whether control never falls through the instruction.
func (i Instr) Terminal() bool {
	switch i.Op {
	case OpReturnBool, OpDelegate, OpReturnHash:
		return true
	}
	return i.Tail
}

// Routine is the abstract description of one generated function or method.
type Routine struct {
	Kind RoutineKind
	Name string
	// Receiver is OperandSelf for methods.
	Receiver Operand
	Params   []Operand
	Body     []Instr
}

// Result returns the Go result type of the routine.
func (r *Routine) Result() string {
	if r.Kind == RoutineHash {
		return "int"
	}
	return "bool"
}

func (r *Routine) emit(i Instr) {
	r.Body = append(r.Body, i)
}

// count returns the number of instructions matching f.
func (r *Routine) count(f func(Op) bool) int {
	n := 0
	for _, i := range r.Body {
		if f(i.Op) {
			n++
		}
	}
	return n
}

// RoutineSet is the generated routine set of a type.
type RoutineSet struct {
	Type       *Type
	Policy     *Policy
	Internal   *Routine
	Equal      *Routine
	EqualAny   *Routine
	EqualOp    *Routine
	NotEqualOp *Routine
	Hash       *Routine
}

// Routines returns the routines of the set in emission order.
func (s *RoutineSet) Routines() []*Routine {
	all := []*Routine{s.Internal, s.Equal, s.EqualAny, s.EqualOp, s.NotEqualOp, s.Hash}
	rs := all[:0]
	for _, r := range all {
		if r != nil {
			rs = append(rs, r)
		}
	}
	return rs
}

// Routine returns the routine of the given kind.
func (s *RoutineSet) Routine(k RoutineKind) *Routine {
	for _, r := range s.Routines() {
		if r.Kind == k {
			return r
		}
	}
	return nil
}

// Validate checks the structural invariants of the set.
func (s *RoutineSet) Validate() error {
	if s.Internal == nil || s.Equal == nil || s.EqualAny == nil || s.EqualOp == nil || s.NotEqualOp == nil || s.Hash == nil {
		return NewInternalError(s.Type.Name, "", "incomplete routine set")
	}
	for _, r := range s.Routines() {
		if err := s.validate(r); err != nil {
			return err
		}
	}
	if n, want := s.Internal.count(Op.Comparison), s.Policy.Len(); n != want {
		return NewInternalError(s.Type.Name, s.Internal.Name,
			fmt.Sprintf("chain has %d comparisons, policy has %d", n, want))
	}
	want := len(s.Policy.Members)
	if s.Policy.Base != nil {
		want++
	}
	if s.Policy.CustomHash != nil {
		want++
	}
	if n := s.Hash.count(Op.Mixing); n != want {
		return NewInternalError(s.Type.Name, s.Hash.Name,
			fmt.Sprintf("hash mixes %d contributions, policy has %d", n, want))
	}
	return nil
}

func (s *RoutineSet) validate(r *Routine) error {
	fail := func(format string, args ...any) error {
		return NewInternalError(s.Type.Name, r.Name, fmt.Sprintf(format, args...))
	}
	if len(r.Body) == 0 {
		return fail("empty body")
	}
	if r.Kind.Method() != (r.Receiver == OperandSelf) {
		return fail("receiver mismatch for %s routine", r.Kind)
	}
	for idx, i := range r.Body {
		last := idx == len(r.Body)-1
		if i.Terminal() != last {
			if last {
				return fail("missing terminating instruction")
			}
			return fail("unreachable instructions after %d", idx)
		}
		if i.Tail && !i.Op.Comparison() {
			return fail("tail flag on %s", i.Op)
		}
		if (i.Op == OpCompareMember || i.Op == OpMixMember) && (i.Member == nil || !i.Member.Participates) {
			return fail("instruction %d refers to a non-participating member", idx)
		}
		if i.Op == OpDelegate && i.Target == r.Kind {
			return fail("routine delegates to itself")
		}
	}
	return nil
}

// String returns a disassembly of the set.
func (s *RoutineSet) String() string {
	var b strings.Builder
	for i, r := range s.Routines() {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(r.String())
	}
	return b.String()
}

// String returns a disassembly of the routine.
func (r *Routine) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s(", r.Kind, r.Name)
	for i, p := range r.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	fmt.Fprintf(&b, ") %s\n", r.Result())
	for idx, i := range r.Body {
		fmt.Fprintf(&b, "  %02d %s\n", idx, i)
	}
	return b.String()
}

// String returns the textual form of the instruction.
func (i Instr) String() string {
	var b strings.Builder
	b.WriteString(i.Op.String())
	var args []string
	for _, o := range []Operand{i.A, i.B} {
		if o != OperandNone {
			args = append(args, o.String())
		}
	}
	if i.Member != nil {
		m := fmt.Sprintf("%s:%s", i.Member.Name, i.Member.Bucket)
		if i.Member.Bucket == BucketString {
			m += "/" + i.Member.Collation.String()
		}
		args = append(args, m)
	}
	if i.Op == OpDelegate {
		t := i.Target.String()
		if i.Negate {
			t = "!" + t
		}
		args = append(args, t)
	}
	if len(args) > 0 {
		b.WriteByte(' ')
		b.WriteString(strings.Join(args, ", "))
	}
	switch {
	case i.Op == OpReturnIfIdentical || i.Op == OpReturnIfNil || i.Op == OpReturnBool || i.Op == OpAssertType:
		fmt.Fprintf(&b, " -> %t", i.Value)
	case i.Tail:
		b.WriteString(" tail")
	}
	return b.String()
}
