package ltl

import "sort"

// Canonical returns a normal form of f suitable for structural comparison:
// nested conjunctions and disjunctions are flattened, their operands sorted
// and deduplicated, and double negations removed. Canonical does not perform
// semantic rewriting (no De Morgan, no temporal identities); two formulas
// with equal canonical forms differ at most in conjunct/disjunct order.
func Canonical(f Formula) Formula {
	switch v := f.(type) {
	case Atom, Const:
		return f
	case Not:
		inner := Canonical(v.F)
		if n, ok := inner.(Not); ok {
			return n.F
		}
		return Not{F: inner}
	case And:
		return canonNary(v.Fs, true)
	case Or:
		return canonNary(v.Fs, false)
	case Implies:
		return Implies{L: Canonical(v.L), R: Canonical(v.R)}
	case Iff:
		return Iff{L: Canonical(v.L), R: Canonical(v.R)}
	case Next:
		return Next{F: Canonical(v.F)}
	case Always:
		return Always{F: Canonical(v.F)}
	case Eventually:
		return Eventually{F: Canonical(v.F)}
	case Until:
		return Until{L: Canonical(v.L), R: Canonical(v.R)}
	case WeakUntil:
		return WeakUntil{L: Canonical(v.L), R: Canonical(v.R)}
	case Release:
		return Release{L: Canonical(v.L), R: Canonical(v.R)}
	default:
		return f
	}
}

func canonNary(fs []Formula, isAnd bool) Formula {
	var flat []Formula
	for _, f := range fs {
		c := Canonical(f)
		switch inner := c.(type) {
		case And:
			if isAnd {
				flat = append(flat, inner.Fs...)
				continue
			}
		case Or:
			if !isAnd {
				flat = append(flat, inner.Fs...)
				continue
			}
		}
		flat = append(flat, c)
	}

	sort.Slice(flat, func(i, j int) bool { return flat[i].String() < flat[j].String() })

	// Deduplicate adjacent equal operands.
	out := flat[:0]
	prev := ""
	for _, f := range flat {
		s := f.String()
		if s == prev {
			continue
		}
		out = append(out, f)
		prev = s
	}

	if isAnd {
		return AndAll(out...)
	}
	return OrAll(out...)
}

// Equivalent reports whether a and b have the same canonical form, i.e. are
// structurally equal up to conjunction/disjunction commutativity,
// associativity, and double negation.
func Equivalent(a, b Formula) bool {
	return Canonical(a).String() == Canonical(b).String()
}

// IsNegationOf reports whether a is structurally the negation of b,
// up to the same reordering Equivalent allows.
func IsNegationOf(a, b Formula) bool {
	return Equivalent(a, Not{F: b})
}
