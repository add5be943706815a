package gen

// HashRoutine synthesizes the Hash method of a policy. Contributions are
// mixed in the order base, custom hook, members, so that they pair with
// the comparisons of the internal predicate.
func HashRoutine(p *Policy) *Routine {
	r := &Routine{
		Kind:     RoutineHash,
		Name:     "Hash",
		Receiver: OperandSelf,
	}
	if p.Type.Reference() {
		r.emit(Instr{Op: OpReturnIfNil, A: OperandSelf})
	}
	r.emit(Instr{Op: OpSeed})
	if p.Base != nil {
		r.emit(Instr{Op: OpMixBase, A: OperandSelf})
	}
	if p.CustomHash != nil {
		r.emit(Instr{Op: OpMixCustomHash, A: OperandSelf})
	}
	for _, m := range p.Members {
		r.emit(Instr{Op: OpMixMember, A: OperandSelf, Member: m})
	}
	r.emit(Instr{Op: OpReturnHash})
	return r
}

// Synthesize builds and validates the routine set of a policy.
func Synthesize(p *Policy) (*RoutineSet, error) {
	s := &RoutineSet{Type: p.Type, Policy: p, Hash: HashRoutine(p)}
	s.Internal, s.Equal, s.EqualAny, s.EqualOp, s.NotEqualOp = EqualityRoutines(p)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
