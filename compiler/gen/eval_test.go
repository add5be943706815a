package gen

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/equatable"
	"github.com/syssam/equatable/compiler/load"
	"github.com/syssam/equatable/schema"
	"github.com/syssam/equatable/schema/field"
)

// object is an in-memory instance of a synthesized type. Members are keyed
// by name; base holds the members of the embedded ancestor.
type object struct {
	members map[string]any
	base    map[string]any
}

// machine interprets the routines of a set against objects, the way the
// lowered Go code behaves.
type machine struct {
	set *RoutineSet
	// Hooks and base routines standing in for user code.
	customEquals func(a, b *object) bool
	customHash   func(a *object) int
	baseEqual    func(a, b *object) bool
	baseHash     func(a *object) int
}

type frame map[Operand]any

func (m *machine) call(k RoutineKind, args ...any) any {
	r := m.set.Routine(k)
	f := frame{}
	ops := r.Params
	if r.Receiver == OperandSelf {
		ops = append([]Operand{OperandSelf}, ops...)
	}
	for i, o := range ops {
		f[o] = args[i]
	}
	return m.run(r, f)
}

func obj(v any) *object {
	o, _ := v.(*object)
	return o
}

func (m *machine) run(r *Routine, f frame) any {
	hash := 0
	for _, in := range r.Body {
		switch in.Op {
		case OpReturnIfIdentical:
			if obj(f[in.A]) == obj(f[in.B]) {
				return in.Value
			}
		case OpReturnIfNil:
			if obj(f[in.A]) == nil {
				if r.Kind == RoutineHash {
					return 0
				}
				return in.Value
			}
		case OpAssertType:
			o, ok := f[in.B].(*object)
			if !ok {
				return in.Value
			}
			f[in.A] = o
		case OpCompareBase, OpCallCustomEquals, OpCompareMember:
			ok := m.compare(in, obj(f[in.A]), obj(f[in.B]))
			if in.Tail {
				return ok
			}
			if !ok {
				return false
			}
		case OpReturnBool:
			return in.Value
		case OpDelegate:
			res := m.call(in.Target, f[in.A], f[in.B]).(bool)
			if in.Negate {
				return !res
			}
			return res
		case OpSeed:
			hash = equatable.Seed
		case OpMixBase:
			hash = equatable.Mix(hash, m.baseHash(obj(f[in.A])))
		case OpMixCustomHash:
			hash = equatable.Mix(hash, m.customHash(obj(f[in.A])))
		case OpMixMember:
			hash = equatable.Mix(hash, hashOf(in.Member, obj(f[in.A]).members[in.Member.Name]))
		case OpReturnHash:
			return hash
		default:
			panic(fmt.Sprintf("unexpected opcode %s", in.Op))
		}
	}
	panic("routine fell off its end")
}

func (m *machine) compare(in Instr, a, b *object) bool {
	switch in.Op {
	case OpCompareBase:
		return m.baseEqual(a, b)
	case OpCallCustomEquals:
		return m.customEquals(a, b)
	}
	mem := in.Member
	x, y := a.members[mem.Name], b.members[mem.Name]
	switch mem.Bucket {
	case BucketString:
		return equatable.EqualString(x.(string), y.(string), mem.Collation)
	case BucketPrimitive:
		return x == y
	}
	return equatable.Equal(x, y)
}

func hashOf(mem *Member, v any) int {
	switch {
	case mem.Bucket == BucketString:
		return equatable.HashString(v.(string), mem.Collation)
	case mem.PlainInt():
		return v.(int)
	}
	return equatable.Hash(v)
}

func (m *machine) equal(a, b *object) bool   { return m.call(RoutineEqual, a, b).(bool) }
func (m *machine) equalOp(a, b *object) bool { return m.call(RoutineEqualOp, a, b).(bool) }
func (m *machine) hash(a *object) int        { return m.call(RoutineHash, a).(int) }

// entityBase mirrors a hand-written ancestor comparing and hashing its ID.
func entityBase(m *machine) {
	m.baseEqual = func(a, b *object) bool { return a.base["ID"] == b.base["ID"] }
	m.baseHash = func(a *object) int { return a.base["ID"].(int) }
}

func personMachine(t *testing.T) *machine {
	t.Helper()
	set := synthesize(t, &load.Type{
		Name:        "Person",
		Annotations: generateAnn(schema.KindReference, true),
		Base:        &load.Base{Field: "Entity", Ident: "Entity", Equal: &load.BaseEqual{ParamPointer: true}, Hash: true},
		Fields: []*load.Field{
			{Name: "Entity", Info: structInfo, Embedded: true},
			member("Name", stringInfo, equatable.OrdinalIgnoreCase),
			member("Age", intInfo, equatable.Ordinal),
			member("Score", float64Info, equatable.Ordinal),
			member("Tags", sliceInfo, equatable.Ordinal),
			plain("Notes", stringInfo),
		},
	})
	m := &machine{set: set}
	entityBase(m)
	return m
}

var (
	sampleNames = []string{"ada", "Ada", "ADA", "bob", "Bob", "straße", "STRASSE"}
	sampleTags  = [][]string{nil, {}, {"x"}, {"x", "y"}, {"y", "x"}}
)

func randomPerson(r *rand.Rand) *object {
	return &object{
		members: map[string]any{
			"Name":  sampleNames[r.IntN(len(sampleNames))],
			"Age":   r.IntN(3),
			"Score": float64(r.IntN(2)) / 2,
			"Tags":  sampleTags[r.IntN(len(sampleTags))],
			"Notes": sampleNames[r.IntN(len(sampleNames))],
		},
		base: map[string]any{"ID": r.IntN(2)},
	}
}

func clone(o *object) *object {
	c := &object{members: map[string]any{}, base: map[string]any{}}
	for k, v := range o.members {
		c.members[k] = v
	}
	for k, v := range o.base {
		c.base[k] = v
	}
	return c
}

func TestEval_Properties(t *testing.T) {
	m := personMachine(t)
	r := rand.New(rand.NewPCG(1, 2))
	pool := make([]*object, 64)
	for i := range pool {
		pool[i] = randomPerson(r)
	}
	var equalPairs int
	for _, x := range pool {
		assert.True(t, m.equal(x, x), "reflexivity")
		assert.True(t, m.equal(x, clone(x)), "reflexivity on copies")
		for _, y := range pool {
			xy, yx := m.equal(x, y), m.equal(y, x)
			assert.Equal(t, xy, yx, "symmetry")
			assert.Equal(t, xy, m.equalOp(x, y), "operator agrees with Equal")
			assert.Equal(t, !xy, m.call(RoutineNotEqualOp, x, y), "inequality is the negation")
			assert.Equal(t, xy, m.call(RoutineEqualAny, x, any(y)), "EqualAny agrees with Equal")
			if xy {
				equalPairs++
				assert.Equal(t, m.hash(x), m.hash(y), "equal values hash equal")
			}
		}
	}
	require.Greater(t, equalPairs, len(pool), "the pool must produce non-trivial equal pairs")
}

func TestEval_Nil(t *testing.T) {
	m := personMachine(t)
	x := randomPerson(rand.New(rand.NewPCG(3, 4)))
	var null *object

	assert.False(t, m.equal(x, null))
	assert.False(t, m.equal(null, x))
	assert.True(t, m.equal(null, null), "nil equals nil through identity")
	assert.False(t, m.equalOp(x, null))
	assert.False(t, m.equalOp(null, x))
	assert.True(t, m.equalOp(null, null))
	assert.Equal(t, true, m.call(RoutineNotEqualOp, x, null))
	assert.Equal(t, 0, m.hash(null))
	assert.Equal(t, false, m.call(RoutineEqualAny, x, any(null)))
	assert.Equal(t, false, m.call(RoutineEqualAny, x, nil))
	assert.Equal(t, false, m.call(RoutineEqualAny, x, "not a person"))
}

func TestEval_NonParticipating(t *testing.T) {
	m := personMachine(t)
	x := randomPerson(rand.New(rand.NewPCG(5, 6)))
	y := clone(x)
	y.members["Notes"] = "something else entirely"
	assert.True(t, m.equal(x, y))
	assert.Equal(t, m.hash(x), m.hash(y))
}

func TestEval_Collation(t *testing.T) {
	m := personMachine(t)
	x := randomPerson(rand.New(rand.NewPCG(7, 8)))
	x.members["Name"] = "Test"
	y := clone(x)
	y.members["Name"] = "tEST"
	assert.True(t, m.equal(x, y), "names differing in case compare equal")
	assert.Equal(t, m.hash(x), m.hash(y), "and hash equal")

	y.members["Name"] = "Tost"
	assert.False(t, m.equal(x, y))

	x.members["Name"] = "straße"
	y.members["Name"] = "STRASSE"
	assert.False(t, m.equal(x, y), "ordinal case-insensitivity maps rune by rune")
}

func TestEval_BaseDelegation(t *testing.T) {
	m := personMachine(t)
	x := randomPerson(rand.New(rand.NewPCG(9, 10)))
	y := clone(x)
	require.True(t, m.equal(x, y))
	y.base["ID"] = x.base["ID"].(int) + 1
	assert.False(t, m.equal(x, y), "a change of the ancestor flips equality")
	assert.NotEqual(t, m.hash(x), m.hash(y))
}

func TestEval_Scenario(t *testing.T) {
	set := synthesize(t, &load.Type{
		Name:        "Record",
		Annotations: generateAnn(schema.KindReference, true),
		Fields: []*load.Field{
			member("Name", stringInfo, equatable.OrdinalIgnoreCase),
			member("ID", int32Info, equatable.Ordinal),
		},
	})
	m := &machine{set: set}
	rec := func(name string, id int32) *object {
		return &object{members: map[string]any{"Name": name, "ID": id}}
	}
	a, b, c := rec("Test", 5), rec("test", 5), rec("Test", 6)
	assert.True(t, m.equal(a, b))
	assert.Equal(t, m.hash(a), m.hash(b))
	assert.False(t, m.equal(a, c))
	assert.NotEqual(t, m.hash(a), m.hash(c))
}

func TestEval_CustomEqualsOnly(t *testing.T) {
	set := synthesize(t, &load.Type{
		Name:        "Lenient",
		Annotations: generateAnn(schema.KindReference, true),
		Fields:      []*load.Field{plain("X", intInfo), plain("Z", intInfo)},
		Methods:     []*load.Method{equalsHook("customLogic")},
	})
	m := &machine{set: set}
	m.customEquals = func(a, b *object) bool {
		z, oz := a.members["Z"].(int), b.members["Z"].(int)
		return z == oz || z == 0 || oz == 0
	}
	lenient := func(x, z int) *object { return &object{members: map[string]any{"X": x, "Z": z}} }

	assert.True(t, m.equal(lenient(1, 3), lenient(2, 3)), "X does not take part")
	assert.True(t, m.equal(lenient(1, 0), lenient(1, 7)))
	assert.False(t, m.equal(lenient(1, 3), lenient(1, 4)))
	assert.Equal(t, m.hash(lenient(1, 3)), m.hash(lenient(9, 4)), "no member contributes to the hash")
}

func TestEval_CustomHash(t *testing.T) {
	set := synthesize(t, &load.Type{
		Name:        "Tagged",
		Annotations: generateAnn(schema.KindValue, true),
		Fields:      []*load.Field{member("Label", stringInfo, equatable.Ordinal)},
		Methods:     []*load.Method{hashHook("salt")},
	})
	m := &machine{set: set, customHash: func(a *object) int { return len(a.members["Label"].(string)) }}
	x := &object{members: map[string]any{"Label": "abc"}}
	want := equatable.Mix(equatable.Mix(equatable.Seed, 3), equatable.HashString("abc", equatable.Ordinal))
	assert.Equal(t, want, m.hash(x))
}

func TestEval_EmptyChain(t *testing.T) {
	set, err := Synthesize(&Policy{Type: &Type{Name: "Unit", Kind: schema.KindValue}})
	require.NoError(t, err)
	m := &machine{set: set}
	a := &object{members: map[string]any{"A": 1}}
	b := &object{members: map[string]any{"A": 2}}
	assert.True(t, m.equal(a, b), "all instances of a type without comparisons are equal")
	assert.Equal(t, m.hash(a), m.hash(b))
	assert.Equal(t, equatable.Seed, m.hash(a))
}

func TestEval_FloatIEEE(t *testing.T) {
	set := synthesize(t, &load.Type{
		Name:        "Reading",
		Annotations: generateAnn(schema.KindValue, true),
		Fields:      []*load.Field{member("V", &field.TypeInfo{Type: field.TypeFloat64, Ident: "float64"}, equatable.Ordinal)},
	})
	m := &machine{set: set}
	zero := &object{members: map[string]any{"V": 0.0}}
	negZero := &object{members: map[string]any{"V": math.Copysign(0, -1)}}
	assert.True(t, m.equal(zero, negZero))
	assert.Equal(t, m.hash(zero), m.hash(negZero))
}
