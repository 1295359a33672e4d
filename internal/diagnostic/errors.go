// Package diagnostic implements the structured error taxonomy of spec §7,
// modeled on the teacher's internal/types/errors.go TypeCheckError: a kind
// enum, a source Path, a Position, Expected/Actual types with Greek-letter
// variable renaming for display, and a one-line Suggestion.
package diagnostic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/types"
)

// Kind enumerates the error taxonomy named in spec §7.
type Kind string

const (
	KindParseError              Kind = "parse_error"
	KindTypeMismatch            Kind = "type_mismatch"
	KindOccursCheck             Kind = "occurs_check"
	KindUndefinedVariable       Kind = "undefined_variable"
	KindArityMismatch           Kind = "arity_mismatch"
	KindRowMissingField         Kind = "row_missing_field"
	KindNoImplementation        Kind = "no_implementation"
	KindAmbiguousImplementation Kind = "ambiguous_implementation"
	KindConstraintUnsolved      Kind = "constraint_unsolved"
	KindRuntimeError            Kind = "runtime_error"
)

// Error is the single structured diagnostic type all subsystems raise.
// Kind selects which fields are meaningful, mirroring the teacher's single
// TypeCheckError struct carrying a kind-dependent payload rather than a Go
// error-wrapping hierarchy per kind.
type Error struct {
	Kind       Kind
	Pos        ast.Pos
	Path       []string
	Expected   types.Type
	Actual     types.Type
	Name       string   // UndefinedVariable / NoImplementation function name / ArityMismatch context
	Trait      string   // NoImplementation / AmbiguousImplementation / ConstraintUnsolved
	TypeName   string   // NoImplementation / AmbiguousImplementation dispatch type
	Available  []string // NoImplementation availableImpls / AmbiguousImplementation traits
	WantArity  int
	GotArity   int
	Field      string // RowMissingField
	RecordType types.Type
	Constraint types.Constraint // ConstraintUnsolved
	Message    string
	Suggestion string
}

func (e *Error) Error() string {
	var parts []string
	if e.Pos.Line != 0 {
		parts = append(parts, e.Pos.String())
	}
	if len(e.Path) > 0 {
		parts = append(parts, fmt.Sprintf("at %s", strings.Join(e.Path, ".")))
	}
	parts = append(parts, e.message())
	if e.Expected != nil && e.Actual != nil {
		re := renameGreek(e.Expected, e.Actual)
		parts = append(parts, fmt.Sprintf("\n  Expected: %s\n  Actual:   %s", re.expected, re.actual))
	}
	if hint := e.hint(); hint != "" {
		parts = append(parts, fmt.Sprintf("\n  Suggestion: %s", hint))
	}
	return strings.Join(parts, ": ")
}

func (e *Error) message() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case KindParseError:
		return "parse error"
	case KindTypeMismatch:
		return "type mismatch"
	case KindOccursCheck:
		return fmt.Sprintf("occurs check failed: %s occurs in %s", e.Name, e.Actual)
	case KindUndefinedVariable:
		return fmt.Sprintf("undefined variable %q", e.Name)
	case KindArityMismatch:
		return fmt.Sprintf("arity mismatch in %s: expected %d argument(s), got %d", e.Name, e.WantArity, e.GotArity)
	case KindRowMissingField:
		return fmt.Sprintf("record %s has no field @%s", e.RecordType, e.Field)
	case KindNoImplementation:
		return fmt.Sprintf("no implementation of %s.%s for type %s", e.Trait, e.Name, e.TypeName)
	case KindAmbiguousImplementation:
		return fmt.Sprintf("ambiguous implementation of %s for type %s: matches traits %v", e.Name, e.TypeName, e.Available)
	case KindConstraintUnsolved:
		return fmt.Sprintf("unresolved constraint %s", e.Constraint)
	case KindRuntimeError:
		return "runtime error"
	}
	return "error"
}

func (e *Error) hint() string {
	if e.Suggestion != "" {
		return e.Suggestion
	}
	switch e.Kind {
	case KindUndefinedVariable:
		return "check for a typo, or a missing import"
	case KindRowMissingField:
		return fmt.Sprintf("add field @%s to the record, or use @%s? for an optional lookup", e.Field, e.Field)
	case KindNoImplementation:
		if len(e.Available) > 0 {
			return fmt.Sprintf("available implementations of %s: %s", e.Trait, strings.Join(e.Available, ", "))
		}
		return fmt.Sprintf("implement %s %s (...) to provide %s", e.Trait, e.TypeName, e.Name)
	case KindArityMismatch:
		return "check the number of arguments supplied"
	}
	return ""
}

// New* constructors mirror the teacher's NewTypeMismatchError-family
// helpers in internal/types/errors.go.

func NewTypeMismatch(pos ast.Pos, expected, actual types.Type, path []string) *Error {
	return &Error{Kind: KindTypeMismatch, Pos: pos, Expected: expected, Actual: actual, Path: path}
}

func NewOccursCheck(pos ast.Pos, v string, in types.Type) *Error {
	return &Error{Kind: KindOccursCheck, Pos: pos, Name: v, Actual: in}
}

func NewUndefinedVariable(pos ast.Pos, name string, known []string) *Error {
	return &Error{Kind: KindUndefinedVariable, Pos: pos, Name: name, Suggestion: suggestName(name, known)}
}

func NewArityMismatch(pos ast.Pos, context string, want, got int) *Error {
	return &Error{Kind: KindArityMismatch, Pos: pos, Name: context, WantArity: want, GotArity: got}
}

func NewRowMissingField(pos ast.Pos, record types.Type, field string) *Error {
	return &Error{Kind: KindRowMissingField, Pos: pos, RecordType: record, Field: field}
}

func NewNoImplementation(pos ast.Pos, trait, function, typeName string, available []string) *Error {
	return &Error{Kind: KindNoImplementation, Pos: pos, Trait: trait, Name: function, TypeName: typeName, Available: available}
}

func NewAmbiguousImplementation(pos ast.Pos, function, typeName string, traits []string) *Error {
	return &Error{Kind: KindAmbiguousImplementation, Pos: pos, Name: function, TypeName: typeName, Available: traits}
}

func NewConstraintUnsolved(pos ast.Pos, c types.Constraint) *Error {
	return &Error{Kind: KindConstraintUnsolved, Pos: pos, Constraint: c}
}

func NewRuntimeError(pos ast.Pos, message string) *Error {
	return &Error{Kind: KindRuntimeError, Pos: pos, Message: message}
}

// suggestName does a cheap edit-distance-free "did you mean" by prefix/
// substring match; a full edit-distance implementation is unnecessary
// texture for a one-line hint.
func suggestName(name string, known []string) string {
	for _, k := range known {
		if strings.HasPrefix(k, name) || strings.HasPrefix(name, k) {
			return fmt.Sprintf("did you mean %q?", k)
		}
	}
	return ""
}

type renamed struct{ expected, actual string }

// renameGreek normalizes both types' free variable names to sequential
// Greek letters for readability, per spec §7: "the normalized conflicting
// types (Greek-letter renaming for readability)".
func renameGreek(expected, actual types.Type) renamed {
	letters := []string{"α", "β", "γ", "δ", "ε", "ζ", "η", "θ", "ι", "κ"}
	free := map[string]bool{}
	expected.FreeVars(free)
	actual.FreeVars(free)
	names := make([]string, 0, len(free))
	for n := range free {
		names = append(names, n)
	}
	sort.Strings(names)
	sub := types.Substitution{}
	for i, n := range names {
		letter := letters[i%len(letters)]
		if i >= len(letters) {
			letter = fmt.Sprintf("%s%d", letter, i/len(letters))
		}
		sub[n] = types.NewVar(letter)
	}
	return renamed{
		expected: expected.Substitute(sub).String(),
		actual:   actual.Substitute(sub).String(),
	}
}
