package schema

import (
	"fmt"
	"strings"

	"github.com/syssam/equatable"
)

// DirectivePrefix starts every equatable comment directive. Like other Go
// directives it has no space after the slashes.
const DirectivePrefix = "//equatable:"

// Directive verbs.
const (
	VerbGenerate     = "generate"
	VerbEquals       = "equals"
	VerbCustomEquals = "customequals"
	VerbCustomHash   = "customhash"
)

// Directive is a single //equatable: comment line.
type Directive struct {
	Verb string
	Args []string
	// Text is the comment line as written.
	Text string
}

// IsDirective reports whether the raw comment text is an equatable
// directive.
func IsDirective(comment string) bool {
	return strings.HasPrefix(comment, DirectivePrefix)
}

// ParseDirective parses a raw comment line such as "//equatable:equals
// ignorecase". It reports false for comments that are not directives.
func ParseDirective(comment string) (Directive, bool) {
	if !IsDirective(comment) {
		return Directive{}, false
	}
	fields := strings.Fields(strings.TrimPrefix(comment, DirectivePrefix))
	if len(fields) == 0 {
		return Directive{Text: comment}, true
	}
	return Directive{Verb: fields[0], Args: fields[1:], Text: comment}, true
}

// Annotation converts the directive to its annotation.
func (d Directive) Annotation() (Annotation, error) {
	switch d.Verb {
	case VerbGenerate:
		if len(d.Args) > 1 {
			return nil, d.errorf("expects at most one argument")
		}
		var g Generate
		if len(d.Args) == 1 {
			k, err := ParseKind(d.Args[0])
			if err != nil {
				return nil, d.errorf("%v", err)
			}
			g.Kind, g.Explicit = k, true
		}
		return g, nil
	case VerbEquals:
		if len(d.Args) > 1 {
			return nil, d.errorf("expects at most one argument")
		}
		var e Equals
		if len(d.Args) == 1 {
			c, err := equatable.ParseCollation(d.Args[0])
			if err != nil {
				return nil, d.errorf("%v", err)
			}
			e.Collation, e.Raw = c, d.Args[0]
		}
		return e, nil
	case VerbCustomEquals, VerbCustomHash:
		if len(d.Args) > 0 {
			return nil, d.errorf("takes no arguments")
		}
		if d.Verb == VerbCustomEquals {
			return CustomEquals{}, nil
		}
		return CustomHash{}, nil
	case "":
		return nil, d.errorf("missing verb")
	}
	return nil, d.errorf("unknown verb %q", d.Verb)
}

func (d Directive) errorf(format string, args ...any) error {
	return fmt.Errorf("directive %q: %s", d.Text, fmt.Sprintf(format, args...))
}

// ParseAnnotations reads every directive among the raw comment lines and
// returns the resulting annotations keyed by name. Repeated annotations are
// merged when they implement Merger and are rejected otherwise.
func ParseAnnotations(comments []string) (map[string]Annotation, error) {
	var anns map[string]Annotation
	for _, c := range comments {
		d, ok := ParseDirective(c)
		if !ok {
			continue
		}
		ann, err := d.Annotation()
		if err != nil {
			return nil, err
		}
		if anns == nil {
			anns = make(map[string]Annotation)
		}
		prev, exists := anns[ann.Name()]
		switch m, ok := prev.(Merger); {
		case !exists:
			anns[ann.Name()] = ann
		case ok:
			anns[ann.Name()] = m.Merge(ann)
		default:
			return nil, d.errorf("duplicate %s annotation", ann.Name())
		}
	}
	return anns, nil
}
