package equatable

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collation selects how string members are compared and hashed.
type Collation uint8

// Supported collations. The zero value is Ordinal.
const (
	Ordinal Collation = iota
	OrdinalIgnoreCase
	Culture
	CultureIgnoreCase
	Invariant
	InvariantIgnoreCase
)

var collationNames = [...]string{
	Ordinal:             "ordinal",
	OrdinalIgnoreCase:   "ordinalignorecase",
	Culture:             "culture",
	CultureIgnoreCase:   "cultureignorecase",
	Invariant:           "invariant",
	InvariantIgnoreCase: "invariantignorecase",
}

// String returns the collation name as accepted by ParseCollation.
func (c Collation) String() string {
	if int(c) < len(collationNames) {
		return collationNames[c]
	}
	return fmt.Sprintf("Collation(%d)", c)
}

// GoString returns the Go identifier of the collation constant.
func (c Collation) GoString() string {
	switch c {
	case Ordinal:
		return "Ordinal"
	case OrdinalIgnoreCase:
		return "OrdinalIgnoreCase"
	case Culture:
		return "Culture"
	case CultureIgnoreCase:
		return "CultureIgnoreCase"
	case Invariant:
		return "Invariant"
	case InvariantIgnoreCase:
		return "InvariantIgnoreCase"
	}
	return c.String()
}

// IgnoreCase reports whether the collation is case-insensitive.
func (c Collation) IgnoreCase() bool {
	return c == OrdinalIgnoreCase || c == CultureIgnoreCase || c == InvariantIgnoreCase
}

// Valid reports whether c is one of the defined collations.
func (c Collation) Valid() bool {
	return int(c) < len(collationNames)
}

// ParseCollation parses a collation name. Matching is case-insensitive and
// the empty string denotes Ordinal.
func ParseCollation(s string) (Collation, error) {
	switch name := strings.ToLower(strings.TrimSpace(s)); name {
	case "":
		return Ordinal, nil
	case "ignorecase":
		return OrdinalIgnoreCase, nil
	default:
		for c, n := range collationNames {
			if n == name {
				return Collation(c), nil
			}
		}
	}
	return Ordinal, fmt.Errorf("equatable: unknown collation %q", s)
}

// EqualString reports whether a and b are equal under collation c.
func EqualString(a, b string, c Collation) bool {
	if a == b {
		return true
	}
	switch c {
	case Ordinal:
		return false
	case OrdinalIgnoreCase:
		return strings.EqualFold(a, b)
	}
	return normalize(a, c) == normalize(b, c)
}

// HashString returns the hash of s under collation c. Strings that are equal
// under c hash equal.
func HashString(s string, c Collation) int {
	if c == Ordinal {
		return int(xxhash.Sum64String(s))
	}
	return int(xxhash.Sum64String(normalize(s, c)))
}

// normalize maps s to a form whose byte equality is equality under c.
func normalize(s string, c Collation) string {
	switch c {
	case OrdinalIgnoreCase:
		return foldRunes(s)
	case Culture, CultureIgnoreCase:
		return collators.key(currentCulture(), c.IgnoreCase(), s)
	case Invariant, InvariantIgnoreCase:
		return collators.key(language.Und, c.IgnoreCase(), s)
	default:
		return s
	}
}

// foldRunes maps every rune of s to the smallest rune of its simple case
// folding orbit. strings.EqualFold(a, b) holds exactly when foldRunes(a)
// equals foldRunes(b); the length of s in runes never changes.
func foldRunes(s string) string {
	return strings.Map(func(r rune) rune {
		lo := r
		for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
			if f < lo {
				lo = f
			}
		}
		return lo
	}, s)
}

var culture struct {
	sync.RWMutex
	tag language.Tag
	set bool
}

// SetCulture sets the process-wide culture used by Culture and
// CultureIgnoreCase.
func SetCulture(tag language.Tag) {
	culture.Lock()
	culture.tag, culture.set = tag, true
	culture.Unlock()
}

// CurrentCulture returns the culture used by the culture-sensitive
// collations. Unless SetCulture was called, it is derived from the LC_ALL,
// LC_COLLATE or LANG environment variables.
func CurrentCulture() language.Tag {
	return currentCulture()
}

func currentCulture() language.Tag {
	culture.RLock()
	tag, set := culture.tag, culture.set
	culture.RUnlock()
	if set {
		return tag
	}
	tag = cultureFromEnv()
	culture.Lock()
	if !culture.set {
		culture.tag, culture.set = tag, true
	}
	tag = culture.tag
	culture.Unlock()
	return tag
}

func cultureFromEnv() language.Tag {
	for _, key := range []string{"LC_ALL", "LC_COLLATE", "LANG"} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if v == "C" || v == "POSIX" {
			return language.Und
		}
		if tag, err := language.Parse(strings.ReplaceAll(v, "_", "-")); err == nil {
			return tag
		}
	}
	return language.Und
}

// collators caches one collator per culture and case mode. A
// collate.Collator is not safe for concurrent use, so each is guarded.
var collators = &collatorCache{m: make(map[collatorKey]*lockedCollator)}

type collatorKey struct {
	tag        language.Tag
	ignoreCase bool
}

type lockedCollator struct {
	mu  sync.Mutex
	c   *collate.Collator
	buf collate.Buffer
}

type collatorCache struct {
	mu sync.RWMutex
	m  map[collatorKey]*lockedCollator
}

func (cc *collatorCache) get(tag language.Tag, ignoreCase bool) *lockedCollator {
	k := collatorKey{tag: tag, ignoreCase: ignoreCase}
	cc.mu.RLock()
	lc, ok := cc.m[k]
	cc.mu.RUnlock()
	if ok {
		return lc
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if lc, ok := cc.m[k]; ok {
		return lc
	}
	var opts []collate.Option
	if ignoreCase {
		opts = append(opts, collate.IgnoreCase)
	}
	lc = &lockedCollator{c: collate.New(tag, opts...)}
	cc.m[k] = lc
	return lc
}

// key returns the collation key of s. Two strings compare equal under the
// collator exactly when their keys are equal.
func (cc *collatorCache) key(tag language.Tag, ignoreCase bool, s string) string {
	lc := cc.get(tag, ignoreCase)
	lc.mu.Lock()
	defer lc.mu.Unlock()
	k := string(lc.c.KeyFromString(&lc.buf, s))
	lc.buf.Reset()
	return k
}
