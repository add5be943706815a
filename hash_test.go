package equatable

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	myInt   int
	myName  string
	fixed   struct{}
	inner   struct{ a int }
	wrapper struct {
		Name  string
		Inner inner
		Tags  []string
	}
)

func (fixed) Hash() int { return 42 }

type (
	folded struct{ s string }
	stamp  struct {
		At time.Time
		N  int
	}
	vec    struct{ X, Y float64 }
	record struct {
		ID   int
		Name string
		Code [2]uint8
	}
	cycle struct {
		V    int
		Next *cycle
	}
)

func (f *folded) Equal(o *folded) bool { return strings.EqualFold(f.s, o.s) }
func (f *folded) Hash() int            { return HashString(f.s, OrdinalIgnoreCase) }

func TestHash(t *testing.T) {
	t.Run("nil values hash to zero", func(t *testing.T) {
		assert.Zero(t, Hash(nil))
		assert.Zero(t, Hash((*int)(nil)))
		assert.Zero(t, Hash([]byte(nil)))
		assert.Zero(t, Hash(map[string]int(nil)))
		assert.Zero(t, Hash((*fixed)(nil)))
	})
	t.Run("plain integers pass through", func(t *testing.T) {
		assert.Equal(t, 5, Hash(5))
		assert.Equal(t, 7, Hash(myInt(7)))
		assert.Equal(t, 3, Hash(uint8(3)))
	})
	t.Run("booleans", func(t *testing.T) {
		assert.Equal(t, 1, Hash(true))
		assert.Equal(t, 0, Hash(false))
	})
	t.Run("strings", func(t *testing.T) {
		assert.Equal(t, HashString("abc", Ordinal), Hash("abc"))
		assert.Equal(t, Hash("abc"), Hash(myName("abc")))
		assert.NotEqual(t, Hash("abc"), Hash("abd"))
	})
	t.Run("floats", func(t *testing.T) {
		assert.Equal(t, Hash(0.0), Hash(math.Copysign(0, -1)))
		assert.Equal(t, Hash(math.NaN()), Hash(-math.NaN()))
		assert.NotEqual(t, Hash(1.5), Hash(2.5))
	})
	t.Run("hasher", func(t *testing.T) {
		assert.Equal(t, 42, Hash(fixed{}))
		assert.Equal(t, 42, Hash(&fixed{}))
	})
	t.Run("time by instant", func(t *testing.T) {
		now := time.Date(2024, 3, 1, 12, 0, 0, 5, time.UTC)
		other := now.In(time.FixedZone("x", 3600))
		assert.Equal(t, Hash(now), Hash(other))
		assert.Zero(t, Hash(time.Time{}))
	})
	t.Run("structural", func(t *testing.T) {
		a := wrapper{Name: "a", Inner: inner{a: 1}, Tags: []string{"x"}}
		b := wrapper{Name: "a", Inner: inner{a: 1}, Tags: []string{"x"}}
		c := wrapper{Name: "c", Inner: inner{a: 1}, Tags: []string{"x"}}
		assert.Equal(t, Hash(a), Hash(b))
		assert.Equal(t, Hash(&a), Hash(&b))
		assert.NotEqual(t, Hash(a), Hash(c))
	})
}

func TestEqual(t *testing.T) {
	t.Run("nil safety", func(t *testing.T) {
		assert.True(t, Equal(nil, nil))
		assert.True(t, Equal(nil, (*int)(nil)))
		assert.False(t, Equal(nil, 0))
		x := 1
		assert.False(t, Equal(&x, nil))
	})
	t.Run("types must match", func(t *testing.T) {
		assert.True(t, Equal(1, 1))
		assert.False(t, Equal(1, int64(1)))
	})
	t.Run("structural", func(t *testing.T) {
		x, y := 1, 1
		assert.True(t, Equal(&x, &y))
		assert.True(t, Equal([]int{1, 2}, []int{1, 2}))
		assert.False(t, Equal([]int{1, 2}, []int{2, 1}))
		assert.True(t, Equal(inner{a: 1}, inner{a: 1}))
		assert.False(t, Equal(inner{a: 1}, inner{a: 2}))
		assert.True(t, Equal(
			wrapper{Name: "a", Tags: []string{"x"}},
			wrapper{Name: "a", Tags: []string{"x"}},
		))
	})
	t.Run("equal methods are honoured", func(t *testing.T) {
		a := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		assert.True(t, Equal(a, a.In(time.FixedZone("x", 3600))))
		assert.True(t, Equal(&node{v: 3}, &node{v: 3}))
	})
	t.Run("consistent with hash", func(t *testing.T) {
		a := wrapper{Name: "n", Inner: inner{a: 2}}
		b := wrapper{Name: "n", Inner: inner{a: 2}}
		assert.True(t, Equal(a, b))
		assert.Equal(t, Hash(a), Hash(b))
	})
}

func TestHash_ConsistentWithEqual(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cet := now.In(time.FixedZone("CET", 3600))
	tests := []struct {
		name string
		a, b any
	}{
		{"slice of hashers", []*folded{{s: "Ada"}, {s: "bob"}}, []*folded{{s: "ADA"}, {s: "Bob"}}},
		{"struct holding time", stamp{At: now, N: 1}, stamp{At: cet, N: 1}},
		{"pointer to time", &now, &cet},
		{"map of times", map[string]time.Time{"a": now, "b": now.Add(time.Hour)}, map[string]time.Time{"a": cet, "b": cet.Add(time.Hour)}},
		{"interface elements", []any{now, 1, "x"}, []any{cet, 1, "x"}},
		{"nested signed zero", vec{X: 0, Y: 1}, vec{X: math.Copysign(0, -1), Y: 1}},
		{"equal method without hash", []*node{{v: 1}}, []*node{{v: 1}}},
		{"flat struct", record{ID: 1, Name: "a", Code: [2]uint8{1, 2}}, record{ID: 1, Name: "a", Code: [2]uint8{1, 2}}},
		{"unexported time", struct{ at time.Time }{now}, struct{ at time.Time }{cet}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, Equal(tt.a, tt.b))
			assert.Equal(t, Hash(tt.a), Hash(tt.b))
		})
	}
}

func TestHash_Distinguishes(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.NotEqual(t, Hash(stamp{At: now}), Hash(stamp{At: now.Add(time.Second)}))
	assert.NotEqual(t, Hash([]*folded{{s: "Ada"}}), Hash([]*folded{{s: "Eve"}}))
	assert.NotEqual(t, Hash(record{ID: 1}), Hash(record{ID: 2}))
	assert.NotEqual(t, Hash([]int{1, 2}), Hash([]int{2, 1}))
}

func TestHash_FlatStruct(t *testing.T) {
	rec := record{ID: 3, Name: "x", Code: [2]uint8{4, 5}}
	want, err := hashstructure.Hash(rec, hashstructure.FormatV2, nil)
	require.NoError(t, err)
	assert.Equal(t, int(want), Hash(rec))
}

func TestHash_Cycle(t *testing.T) {
	c := &cycle{V: 1}
	c.Next = c
	assert.NotPanics(t, func() { Hash(c) })
}
