// Package spec defines the reactive specification model consumed by the
// boundary-condition engine: named input/output atoms, domain assumptions,
// and goals, all expressed as LTL formulas.
package spec

import (
	"fmt"

	"github.com/alexanderbira/benchmark-specs/ltl"
)

// Type identifies the specification logic fragment.
type Type string

// Supported specification types.
const (
	TypeLTL Type = "LTL"
	TypeGR1 Type = "GR1"
)

// Specification is an immutable reactive specification. It is loaded once
// per run and only read afterwards; all analysis phases produce new derived
// values rather than mutating it.
type Specification struct {
	Name    string
	Type    Type
	Ins     []string
	Outs    []string
	Domains []ltl.Formula
	Goals   []ltl.Formula
}

// Validate checks the structural invariants: a known type, at least one
// goal, disjoint input/output atom sets, and every formula drawn from
// ins ∪ outs.
func (s *Specification) Validate() error {
	if s.Type != TypeLTL && s.Type != TypeGR1 {
		return fmt.Errorf("spec %q: unknown type %q", s.Name, s.Type)
	}
	if len(s.Goals) == 0 {
		return fmt.Errorf("spec %q: must contain at least one goal", s.Name)
	}

	vocab := make(map[string]bool, len(s.Ins)+len(s.Outs))
	for _, name := range s.Ins {
		if vocab[name] {
			return fmt.Errorf("spec %q: duplicate input atom %q", s.Name, name)
		}
		vocab[name] = true
	}
	for _, name := range s.Outs {
		if vocab[name] {
			return fmt.Errorf("spec %q: output atom %q duplicates an input or output", s.Name, name)
		}
		vocab[name] = true
	}

	check := func(kind string, i int, f ltl.Formula) error {
		for _, atom := range ltl.Atoms(f) {
			if !vocab[atom] {
				return fmt.Errorf("spec %q: %s %d references unknown atom %q", s.Name, kind, i, atom)
			}
		}
		return nil
	}
	for i, d := range s.Domains {
		if err := check("domain", i, d); err != nil {
			return err
		}
	}
	for i, g := range s.Goals {
		if err := check("goal", i, g); err != nil {
			return err
		}
	}
	return nil
}

// Vocabulary returns the set of atom names formulas may reference.
func (s *Specification) Vocabulary() map[string]bool {
	vocab := make(map[string]bool, len(s.Ins)+len(s.Outs))
	for _, name := range s.Ins {
		vocab[name] = true
	}
	for _, name := range s.Outs {
		vocab[name] = true
	}
	return vocab
}

// GoalConjunction returns the conjunction of the goals selected by indices,
// or of all goals when indices is nil.
func (s *Specification) GoalConjunction(indices []int) ltl.Formula {
	if indices == nil {
		return ltl.AndAll(s.Goals...)
	}
	fs := make([]ltl.Formula, 0, len(indices))
	for _, i := range indices {
		fs = append(fs, s.Goals[i])
	}
	return ltl.AndAll(fs...)
}

// DomainConjunction returns the conjunction of all domain assumptions
// (true when there are none).
func (s *Specification) DomainConjunction() ltl.Formula {
	return ltl.AndAll(s.Domains...)
}

// Implication returns domains -> goals, the realizability-check form.
// Goals may be restricted to a subset via indices (nil means all).
func (s *Specification) Implication(indices []int) ltl.Formula {
	return ltl.Implies{L: s.DomainConjunction(), R: s.GoalConjunction(indices)}
}
