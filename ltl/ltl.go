// Package ltl provides an immutable AST for linear temporal logic formulas
// over named atoms, with parsing, printing, and structural equivalence
// up to conjunction/disjunction reordering.
package ltl

import (
	"sort"
	"strings"
)

// Formula is an immutable LTL expression. Formulas are never mutated;
// combinators build new values.
type Formula interface {
	// String renders the formula in infix notation that round-trips
	// through Parse.
	String() string

	// prec returns the operator precedence used for printing.
	prec() int
}

// Printing precedence, loosest binding first.
const (
	precIff = iota
	precImplies
	precOr
	precAnd
	precBinaryTemporal
	precUnary
	precAtom
)

// Atom is a named proposition.
type Atom string

func (a Atom) String() string { return string(a) }
func (a Atom) prec() int      { return precAtom }

// Const is a boolean constant.
type Const bool

// The two constant formulas.
const (
	True  = Const(true)
	False = Const(false)
)

func (c Const) String() string {
	if bool(c) {
		return "true"
	}
	return "false"
}
func (c Const) prec() int { return precAtom }

// Not is negation.
type Not struct{ F Formula }

// Negations of anything but an atom or constant print parenthesized.
func (n Not) String() string { return "!" + child(n.F, precAtom) }
func (n Not) prec() int      { return precUnary }

// And is an n-ary conjunction. An empty And prints as true but should be
// avoided; use AndAll to construct conjunctions.
type And struct{ Fs []Formula }

func (a And) String() string { return joinNary(a.Fs, " & ", precAnd, "true") }
func (a And) prec() int      { return precAnd }

// Or is an n-ary disjunction.
type Or struct{ Fs []Formula }

func (o Or) String() string { return joinNary(o.Fs, " | ", precOr, "false") }
func (o Or) prec() int      { return precOr }

// Implies is material implication.
type Implies struct{ L, R Formula }

func (i Implies) String() string {
	return child(i.L, precImplies+1) + " -> " + child(i.R, precImplies)
}
func (i Implies) prec() int { return precImplies }

// Iff is biconditional.
type Iff struct{ L, R Formula }

func (i Iff) String() string {
	return child(i.L, precIff+1) + " <-> " + child(i.R, precIff)
}
func (i Iff) prec() int { return precIff }

// Next is the X operator.
type Next struct{ F Formula }

func (x Next) String() string { return "X " + child(x.F, precUnary) }
func (x Next) prec() int      { return precUnary }

// Always is the G operator.
type Always struct{ F Formula }

func (g Always) String() string { return "G " + child(g.F, precUnary) }
func (g Always) prec() int      { return precUnary }

// Eventually is the F operator.
type Eventually struct{ F Formula }

func (f Eventually) String() string { return "F " + child(f.F, precUnary) }
func (f Eventually) prec() int      { return precUnary }

// Until is the strong until operator.
type Until struct{ L, R Formula }

func (u Until) String() string {
	return child(u.L, precBinaryTemporal+1) + " U " + child(u.R, precBinaryTemporal+1)
}
func (u Until) prec() int { return precBinaryTemporal }

// WeakUntil is the weak until operator.
type WeakUntil struct{ L, R Formula }

func (w WeakUntil) String() string {
	return child(w.L, precBinaryTemporal+1) + " W " + child(w.R, precBinaryTemporal+1)
}
func (w WeakUntil) prec() int { return precBinaryTemporal }

// Release is the release operator.
type Release struct{ L, R Formula }

func (r Release) String() string {
	return child(r.L, precBinaryTemporal+1) + " R " + child(r.R, precBinaryTemporal+1)
}
func (r Release) prec() int { return precBinaryTemporal }

// child prints f, parenthesizing when it binds looser than the context.
func child(f Formula, ctx int) string {
	if f.prec() < ctx {
		return "(" + f.String() + ")"
	}
	return f.String()
}

func joinNary(fs []Formula, sep string, ctx int, empty string) string {
	switch len(fs) {
	case 0:
		return empty
	case 1:
		return fs[0].String()
	}
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = child(f, ctx+1)
	}
	return strings.Join(parts, sep)
}

// AndAll builds the conjunction of fs, collapsing the empty and singleton
// cases to True and the single operand respectively.
func AndAll(fs ...Formula) Formula {
	switch len(fs) {
	case 0:
		return True
	case 1:
		return fs[0]
	}
	out := make([]Formula, len(fs))
	copy(out, fs)
	return And{Fs: out}
}

// OrAll builds the disjunction of fs, collapsing the empty and singleton
// cases to False and the single operand respectively.
func OrAll(fs ...Formula) Formula {
	switch len(fs) {
	case 0:
		return False
	case 1:
		return fs[0]
	}
	out := make([]Formula, len(fs))
	copy(out, fs)
	return Or{Fs: out}
}

// Negate returns the negation of f, eliminating a double negation.
func Negate(f Formula) Formula {
	if n, ok := f.(Not); ok {
		return n.F
	}
	return Not{F: f}
}

// Atoms returns the sorted set of atom names referenced by f.
func Atoms(f Formula) []string {
	set := map[string]struct{}{}
	collectAtoms(f, set)
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collectAtoms(f Formula, set map[string]struct{}) {
	switch v := f.(type) {
	case Atom:
		set[string(v)] = struct{}{}
	case Const:
	case Not:
		collectAtoms(v.F, set)
	case Next:
		collectAtoms(v.F, set)
	case Always:
		collectAtoms(v.F, set)
	case Eventually:
		collectAtoms(v.F, set)
	case And:
		for _, g := range v.Fs {
			collectAtoms(g, set)
		}
	case Or:
		for _, g := range v.Fs {
			collectAtoms(g, set)
		}
	case Implies:
		collectAtoms(v.L, set)
		collectAtoms(v.R, set)
	case Iff:
		collectAtoms(v.L, set)
		collectAtoms(v.R, set)
	case Until:
		collectAtoms(v.L, set)
		collectAtoms(v.R, set)
	case WeakUntil:
		collectAtoms(v.L, set)
		collectAtoms(v.R, set)
	case Release:
		collectAtoms(v.L, set)
		collectAtoms(v.R, set)
	}
}

// IsPropositional reports whether f contains no temporal operators.
func IsPropositional(f Formula) bool {
	switch v := f.(type) {
	case Atom, Const:
		return true
	case Not:
		return IsPropositional(v.F)
	case And:
		for _, g := range v.Fs {
			if !IsPropositional(g) {
				return false
			}
		}
		return true
	case Or:
		for _, g := range v.Fs {
			if !IsPropositional(g) {
				return false
			}
		}
		return true
	case Implies:
		return IsPropositional(v.L) && IsPropositional(v.R)
	case Iff:
		return IsPropositional(v.L) && IsPropositional(v.R)
	default:
		return false
	}
}
