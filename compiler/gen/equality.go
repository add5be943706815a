package gen

// EqualityRoutines synthesizes the equality routines of a policy: the
// internal predicate, Equal, EqualAny and the two operators.
func EqualityRoutines(p *Policy) (internal, equal, equalAny, eqOp, neOp *Routine) {
	t := p.Type
	return internalRoutine(p),
		equalRoutine(t),
		equalAnyRoutine(t),
		equalOpRoutine(t),
		&Routine{
			Kind:   RoutineNotEqualOp,
			Name:   t.NotEqualOpName(),
			Params: []Operand{OperandLeft, OperandRight},
			Body: []Instr{
				{Op: OpDelegate, A: OperandLeft, B: OperandRight, Target: RoutineEqualOp, Negate: true},
			},
		}
}

// internalRoutine builds the kernel predicate. Operands are never nil:
// every caller checks them first.
func internalRoutine(p *Policy) *Routine {
	t := p.Type
	r := &Routine{
		Kind:   RoutineInternal,
		Name:   t.InternalName(),
		Params: []Operand{OperandLeft, OperandRight},
	}
	if t.Reference() {
		r.emit(Instr{Op: OpReturnIfIdentical, A: OperandLeft, B: OperandRight, Value: true})
	}
	var chain []Instr
	if p.Base != nil {
		chain = append(chain, Instr{Op: OpCompareBase, A: OperandLeft, B: OperandRight})
	}
	if p.CustomEquals != nil {
		chain = append(chain, Instr{Op: OpCallCustomEquals, A: OperandLeft, B: OperandRight})
	}
	for _, m := range p.Members {
		chain = append(chain, Instr{Op: OpCompareMember, A: OperandLeft, B: OperandRight, Member: m})
	}
	if len(chain) == 0 {
		// All instances of a type without comparisons are equal.
		r.emit(Instr{Op: OpReturnBool, Value: true})
		return r
	}
	chain[len(chain)-1].Tail = true
	r.Body = append(r.Body, chain...)
	return r
}

func equalRoutine(t *Type) *Routine {
	r := &Routine{
		Kind:     RoutineEqual,
		Name:     "Equal",
		Receiver: OperandSelf,
		Params:   []Operand{OperandOther},
	}
	if t.Reference() {
		r.emit(Instr{Op: OpReturnIfIdentical, A: OperandSelf, B: OperandOther, Value: true})
		r.emit(Instr{Op: OpReturnIfNil, A: OperandSelf, Value: false})
		r.emit(Instr{Op: OpReturnIfNil, A: OperandOther, Value: false})
	}
	r.emit(Instr{Op: OpDelegate, A: OperandSelf, B: OperandOther, Target: RoutineInternal})
	return r
}

func equalAnyRoutine(t *Type) *Routine {
	r := &Routine{
		Kind:     RoutineEqualAny,
		Name:     "EqualAny",
		Receiver: OperandSelf,
		Params:   []Operand{OperandOther},
	}
	r.emit(Instr{Op: OpAssertType, A: OperandCast, B: OperandOther, Value: false})
	if t.Reference() {
		r.emit(Instr{Op: OpReturnIfNil, A: OperandCast, Value: false})
	}
	r.emit(Instr{Op: OpDelegate, A: OperandSelf, B: OperandCast, Target: RoutineEqual})
	return r
}

func equalOpRoutine(t *Type) *Routine {
	r := &Routine{
		Kind:   RoutineEqualOp,
		Name:   t.EqualOpName(),
		Params: []Operand{OperandLeft, OperandRight},
	}
	if t.Reference() {
		r.emit(Instr{Op: OpReturnIfIdentical, A: OperandLeft, B: OperandRight, Value: true})
		r.emit(Instr{Op: OpReturnIfNil, A: OperandLeft, Value: false})
		r.emit(Instr{Op: OpReturnIfNil, A: OperandRight, Value: false})
	}
	r.emit(Instr{Op: OpDelegate, A: OperandLeft, B: OperandRight, Target: RoutineInternal})
	return r
}
