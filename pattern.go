package sexp

import "bytes"

// Pattern matching (component 9): patterns are ordinary Values, with
// special symbols giving them wildcard/capture meaning (spec §4.7).
//   _       wildcard, matches exactly one element
//   _*      rest wildcard, matches zero or more trailing list elements;
//           must be the last element of its enclosing list pattern
//   ?name   capture single
//   ??name  capture rest
// Anything else is a literal, matched by Equal.

// MatchResult carries capture bindings from a successful match (spec §4.7's
// conformance level (b): captures are extracted, not merely parsed and
// discarded).
type MatchResult struct {
	Matched      bool
	Captures     map[string]Value
	RestCaptures map[string][]Value
}

func newMatchResult() *MatchResult {
	return &MatchResult{
		Captures:     make(map[string]Value),
		RestCaptures: make(map[string][]Value),
	}
}

// Match reports whether expr matches pat at the root (spec §4.7).
func Match(expr, pat Value) (*MatchResult, error) {
	res := newMatchResult()
	ok, err := matchValue(expr, pat, res)
	if err != nil {
		return nil, err
	}
	res.Matched = ok
	return res, nil
}

// FindFirst returns the first subtree of expr, visited depth-first
// pre-order left-to-right, that matches pat, or absent.
func FindFirst(expr, pat Value) (Value, *MatchResult, bool, error) {
	r, err := expr.reader()
	if err != nil {
		return Value{}, nil, false, err
	}
	return findFirstAt(r, rootOffset, pat)
}

func findFirstAt(r *reader, off int, pat Value) (Value, *MatchResult, bool, error) {
	candidate, err := r.extractChild(off)
	if err != nil {
		return Value{}, nil, false, err
	}
	res := newMatchResult()
	ok, err := matchValue(candidate, pat, res)
	if err != nil {
		return Value{}, nil, false, err
	}
	if ok {
		res.Matched = true
		return candidate, res, true, nil
	}

	k, err := r.kindAt(off)
	if err != nil {
		return Value{}, nil, false, err
	}
	if k != KindList {
		return Value{}, nil, false, nil
	}
	h, err := r.listHeaderAt(off)
	if err != nil {
		return Value{}, nil, false, err
	}
	for i := 0; i < h.count; i++ {
		childOff, err := r.nthChild(h, i)
		if err != nil {
			return Value{}, nil, false, err
		}
		found, fres, ok, err := findFirstAt(r, childOff, pat)
		if err != nil {
			return Value{}, nil, false, err
		}
		if ok {
			return found, fres, true, nil
		}
	}
	return Value{}, nil, false, nil
}

// patternClass classifies a pattern symbol; symbols other than these four
// shapes are literals.
type patternClass int

const (
	patLiteral patternClass = iota
	patWildcard
	patRestWildcard
	patCapture
	patRestCapture
)

func classifyPattern(pat Value) (patternClass, string) {
	if !pat.IsSymbol() {
		return patLiteral, ""
	}
	text, err := pat.SymbolText()
	if err != nil {
		return patLiteral, ""
	}
	switch {
	case bytes.Equal(text, []byte("_")):
		return patWildcard, ""
	case bytes.Equal(text, []byte("_*")):
		return patRestWildcard, ""
	case len(text) > 2 && text[0] == '?' && text[1] == '?':
		return patRestCapture, string(text[2:])
	case len(text) > 1 && text[0] == '?':
		return patCapture, string(text[1:])
	default:
		return patLiteral, ""
	}
}

func matchValue(expr, pat Value, res *MatchResult) (bool, error) {
	class, name := classifyPattern(pat)
	switch class {
	case patWildcard:
		return true, nil
	case patCapture:
		res.Captures[name] = expr
		return true, nil
	case patRestWildcard, patRestCapture:
		// A rest token appearing as a whole-value pattern (not inside a
		// list pattern's tail) has no enclosing siblings to consume; it
		// behaves as a plain wildcard/capture over the single value.
		if class == patRestCapture {
			res.RestCaptures[name] = []Value{expr}
		}
		return true, nil
	}

	if pat.IsList() {
		if !expr.IsList() {
			return false, nil
		}
		return matchList(expr, pat, res)
	}

	return Equal(expr, pat)
}

func matchList(expr, pat Value, res *MatchResult) (bool, error) {
	pr, err := pat.reader()
	if err != nil {
		return false, err
	}
	ph, err := pr.listHeaderAt(rootOffset)
	if err != nil {
		return false, err
	}

	restIdx := -1
	for i := 0; i < ph.count; i++ {
		childOff, err := pr.nthChild(ph, i)
		if err != nil {
			return false, err
		}
		child, err := pr.extractChild(childOff)
		if err != nil {
			return false, err
		}
		class, _ := classifyPattern(child)
		if class == patRestWildcard || class == patRestCapture {
			if i != ph.count-1 {
				return false, errRestNotTerminal
			}
			restIdx = i
		}
	}

	er, err := expr.reader()
	if err != nil {
		return false, err
	}
	eh, err := er.listHeaderAt(rootOffset)
	if err != nil {
		return false, err
	}

	fixedCount := ph.count
	if restIdx >= 0 {
		fixedCount--
	}
	if restIdx < 0 {
		if eh.count != ph.count {
			return false, nil
		}
	} else if eh.count < fixedCount {
		return false, nil
	}

	for i := 0; i < fixedCount; i++ {
		pChildOff, err := pr.nthChild(ph, i)
		if err != nil {
			return false, err
		}
		pChild, err := pr.extractChild(pChildOff)
		if err != nil {
			return false, err
		}
		eChildOff, err := er.nthChild(eh, i)
		if err != nil {
			return false, err
		}
		eChild, err := er.extractChild(eChildOff)
		if err != nil {
			return false, err
		}
		ok, err := matchValue(eChild, pChild, res)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	if restIdx >= 0 {
		restChildOff, err := pr.nthChild(ph, restIdx)
		if err != nil {
			return false, err
		}
		restPat, err := pr.extractChild(restChildOff)
		if err != nil {
			return false, err
		}
		_, name := classifyPattern(restPat)
		if name != "" {
			rest := make([]Value, 0, eh.count-fixedCount)
			for i := fixedCount; i < eh.count; i++ {
				eChildOff, err := er.nthChild(eh, i)
				if err != nil {
					return false, err
				}
				eChild, err := er.extractChild(eChildOff)
				if err != nil {
					return false, err
				}
				rest = append(rest, eChild)
			}
			res.RestCaptures[name] = rest
		}
	}

	return true, nil
}
