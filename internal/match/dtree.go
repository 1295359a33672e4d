// Package match compiles `match` arms into a decision tree (SPEC_FULL.md
// §3, modeled on the teacher's internal/dtree + internal/eval/decision_tree.go
// LeafNode/SwitchNode/FailNode idiom). Compile does no caching: its caller
// in internal/eval compiles the arms each time a match is evaluated.
package match

import (
	"fmt"

	"github.com/jethrolarson/noolang-sub003/internal/ast"
)

// Path addresses a position within the scrutinee: an empty path is the
// scrutinee itself; each further element is an argument index into the
// constructor found by following the prior elements, always measured from
// the root scrutinee (Path{0, 1} is "arg 1 of arg 0 of the scrutinee", not
// "arg 1 of whatever Switch node came before").
type Path []int

func (p Path) child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// Tree is the compiled decision tree.
type Tree interface{ treeNode() }

// Leaf means "this arm's pattern is irrefutable from here" — dispatch to
// CaseIndex, binding whatever variable/tuple/record sub-patterns exist
// beneath this node (the evaluator re-walks the matched arm's Pattern
// against the live Value to gather those bindings, since the tree itself
// only needs to decide *which* arm, not *how* it destructures).
type Leaf struct{ CaseIndex int }

func (*Leaf) treeNode() {}

// Switch discriminates on the constructor tag / literal value found at
// Path, dispatching to the matching subtree or Default if none matches.
type Switch struct {
	Path    Path
	Cases   map[string]Tree
	Default Tree
}

func (*Switch) treeNode() {}

// Fail means no arm can match from here: a non-exhaustive match error at
// runtime (spec §9: "exhaustiveness checking of pattern matches" is an
// explicit non-goal, so this is a runtime RuntimeError, not a compile
// error).
type Fail struct{}

func (*Fail) treeNode() {}

// literalKey formats a literal pattern's value the same way the evaluator
// formats runtime Number/String values, so Switch-node keys agree with
// eval_patterns.go's dispatchKey regardless of the literal's original
// lexical form (e.g. "1.0" in source vs "1" from %g formatting).
func literalKey(e ast.Expr) string {
	switch lit := e.(type) {
	case *ast.NumberLit:
		return fmt.Sprintf("%g", lit.Value)
	case *ast.StringLit:
		return lit.Value
	}
	return e.String()
}

// discriminatorKey returns the dispatch key a pattern tests at its own
// node, and whether the pattern is refutable at all (wildcards/variables
// are irrefutable and short-circuit compilation of remaining cases at this
// path).
func discriminatorKey(p *ast.Pattern) (string, bool) {
	switch p.Kind {
	case ast.PatConstructor:
		return p.Name, true
	case ast.PatLiteral:
		return literalKey(p.Lit), true
	default:
		return "", false
	}
}

// pending is one still-unresolved test an arm still owes the compiler: the
// pattern found at path, not yet discriminated on.
type pending struct {
	path Path
	pat  *ast.Pattern
}

// Compile builds a decision tree for the ordered list of match cases.
func Compile(cases []ast.MatchCase) Tree {
	indices := make([]int, len(cases))
	queues := map[int][]pending{}
	for i := range cases {
		indices[i] = i
		queues[i] = []pending{{path: Path{}, pat: cases[i].Pattern}}
	}
	return compile(cases, indices, queues)
}

// compile picks the first still-pending test for the textually-first
// remaining case and, if it can discriminate (constructor/literal), groups
// every candidate by the value found at that same path. Tuples and records
// are irrefutable shape-wise (the parser only produces these from valid
// positional/keyed patterns) and are skipped without narrowing the
// candidate set, deferring their field bindings to the evaluator's pattern
// walk. A constructor match expands its own arguments as further pending
// tests at child paths, so patterns nested arbitrarily deep (e.g.
// `Ok (Some y)` vs `Ok None`) are told apart instead of the first candidate
// sharing an outer tag silently winning.
func compile(cases []ast.MatchCase, indices []int, queues map[int][]pending) Tree {
	if len(indices) == 0 {
		return &Fail{}
	}
	firstIdx := indices[0]
	firstQueue := queues[firstIdx]
	if len(firstQueue) == 0 {
		return &Leaf{CaseIndex: firstIdx}
	}
	head := firstQueue[0]
	if _, refutable := discriminatorKey(head.pat); !refutable || head.pat.Kind == ast.PatTuple || head.pat.Kind == ast.PatRecord {
		next := map[int][]pending{}
		for _, idx := range indices {
			next[idx] = queues[idx][1:]
		}
		return compile(cases, indices, next)
	}

	cs := map[string]Tree{}
	consumedKeys := map[string]bool{}
	var remaining []int
	for _, idx := range indices {
		ihead := queues[idx][0]
		key, refutable := discriminatorKey(ihead.pat)
		if !refutable {
			// First irrefutable pattern encountered becomes the default for
			// every key not already claimed by an earlier, more specific case.
			remaining = append(remaining, idx)
			break
		}
		if consumedKeys[key] {
			continue // shadowed by an earlier identical key, unreachable
		}
		consumedKeys[key] = true

		var subIndices []int
		nextQueues := map[int][]pending{}
		for _, j := range indices {
			jq := queues[j]
			jhead := jq[0]
			jkey, jrefutable := discriminatorKey(jhead.pat)
			switch {
			case jrefutable && jkey == key:
				expanded := make([]pending, 0, len(jhead.pat.Args)+len(jq)-1)
				for i, arg := range jhead.pat.Args {
					expanded = append(expanded, pending{path: jhead.path.child(i), pat: arg})
				}
				expanded = append(expanded, jq[1:]...)
				subIndices = append(subIndices, j)
				nextQueues[j] = expanded
			case !jrefutable:
				// An irrefutable pattern at this slot still satisfies this
				// branch; just drop the now-satisfied test.
				subIndices = append(subIndices, j)
				nextQueues[j] = jq[1:]
			}
		}
		cs[key] = compile(cases, subIndices, nextQueues)
	}

	var def Tree
	if len(remaining) > 0 {
		def = compile(cases, remaining, queues)
	} else {
		def = &Fail{}
	}
	return &Switch{Path: head.path, Cases: cs, Default: def}
}

// String renders the tree for debugging/tests.
func String(t Tree) string {
	switch n := t.(type) {
	case *Leaf:
		return fmt.Sprintf("leaf(%d)", n.CaseIndex)
	case *Fail:
		return "fail"
	case *Switch:
		s := fmt.Sprintf("switch@%v{", []int(n.Path))
		first := true
		for k, sub := range n.Cases {
			if !first {
				s += ", "
			}
			first = false
			s += fmt.Sprintf("%s: %s", k, String(sub))
		}
		s += fmt.Sprintf(", default: %s}", String(n.Default))
		return s
	}
	return "?"
}
