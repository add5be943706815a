package valid

import (
	"fmt"
	"time"
)

// Entity is the common ancestor of identified types.
type Entity struct {
	ID int
}

func (e *Entity) Equal(other *Entity) bool { return e.ID == other.ID }

func (e *Entity) Hash() int { return e.ID }

// Person is a person.
//
//equatable:generate
type Person struct {
	Entity
	Name  string    `equatable:"ignorecase"`
	Born  time.Time `equatable:""`
	Tags  []string  `json:"tags" equatable:""`
	Notes string
	Skip  int `equatable:"-"`
}

//equatable:equals
func (p *Person) Initial() byte {
	if p.Name == "" {
		return 0
	}
	return p.Name[0]
}

//equatable:customequals
func (p *Person) sameNotes(other *Person) bool { return len(p.Notes) == len(other.Notes) }

//equatable:customhash
func (p *Person) notesHash() int { return len(p.Notes) }

// Point is compared by value.
//
//equatable:generate value
type Point struct {
	X, Y int `equatable:""`
}

// Pair is a generic pair.
type Pair[K comparable, V fmt.Stringer] struct {
	Key   K `equatable:""`
	Value V `equatable:""`
}

//equatable:customhash
func staticHash(p *Person) int { return p.ID }

//equatable:customequals
func orphan(x int) bool { return x > 0 }

// Plain has no annotations.
type Plain struct {
	A int
}

// Reader is not a struct.
type Reader interface {
	Read() error
}
