package boundary

import (
	"fmt"

	"github.com/alexanderbira/benchmark-specs/ltl"
	"github.com/alexanderbira/benchmark-specs/refine"
	"github.com/alexanderbira/benchmark-specs/spec"
)

// Strategy names recorded in candidate provenance.
const (
	StrategyPattern       = "pattern"
	StrategyInterpolation = "interpolation"
	StrategyCustom        = "custom"
)

// Candidate is a formula under test plus the provenance needed to explain
// where it came from.
type Candidate struct {
	Formula  ltl.Formula
	Strategy string

	// NodeID identifies the refinement node an interpolation-derived
	// candidate originated from. Empty for other strategies.
	NodeID string

	// Core is the unrealizable core the candidate was generated against,
	// when the search was core-directed. Nil otherwise.
	Core GoalSet
}

// MalformedCandidateError reports a candidate referencing atoms outside the
// specification's vocabulary. It is a caller error, rejected before any
// oracle call.
type MalformedCandidateError struct {
	Candidate Candidate
	Atom      string
}

func (e *MalformedCandidateError) Error() string {
	return fmt.Sprintf("malformed candidate %s: unknown atom %q", e.Candidate.Formula, e.Atom)
}

// validateCandidate checks the candidate's atoms against the spec vocabulary.
func validateCandidate(s *spec.Specification, c Candidate) error {
	vocab := s.Vocabulary()
	for _, atom := range ltl.Atoms(c.Formula) {
		if !vocab[atom] {
			return &MalformedCandidateError{Candidate: c, Atom: atom}
		}
	}
	return nil
}

// CandidateGenerator produces the finite, deterministically ordered sequence
// of candidates to test against one goal set. Generation is a pure function
// of its inputs: re-invoking with the same arguments yields the same
// sequence, and never depends on prior verdicts.
type CandidateGenerator interface {
	Generate(s *spec.Specification, gs GoalSet) ([]Candidate, error)
}

// PatternGenerator enumerates candidates of the shape
// "F (conjunction of input literals)": every non-empty combination of input
// atoms up to MaxConjuncts, in every polarity. Enumeration order is
// increasing conjunct count, then lexicographic atom order, then polarity
// (all-positive first, last atom's polarity varying fastest).
type PatternGenerator struct {
	// MaxConjuncts bounds the conjunction size. It is mandatory: without a
	// bound the enumeration is exponential in the number of inputs.
	MaxConjuncts int
}

// Generate enumerates the pattern candidates for s. The goal set does not
// influence the shapes, only the provenance.
func (g PatternGenerator) Generate(s *spec.Specification, gs GoalSet) ([]Candidate, error) {
	if g.MaxConjuncts < 1 {
		return nil, fmt.Errorf("pattern generator: MaxConjuncts must be at least 1, got %d", g.MaxConjuncts)
	}
	if len(s.Ins) == 0 {
		return nil, fmt.Errorf("pattern generator: specification %q has no input atoms", s.Name)
	}

	max := g.MaxConjuncts
	if max > len(s.Ins) {
		max = len(s.Ins)
	}

	var out []Candidate
	for size := 1; size <= max; size++ {
		combinations(len(s.Ins), size, func(combo []int) {
			// Polarity masks count up with the last atom varying
			// fastest and 0 = positive, so all-positive comes first.
			for mask := 0; mask < 1<<size; mask++ {
				literals := make([]ltl.Formula, size)
				for i, atomIdx := range combo {
					var lit ltl.Formula = ltl.Atom(s.Ins[atomIdx])
					if mask&(1<<(size-1-i)) != 0 {
						lit = ltl.Not{F: lit}
					}
					literals[i] = lit
				}
				out = append(out, Candidate{
					Formula:  ltl.Eventually{F: ltl.AndAll(literals...)},
					Strategy: StrategyPattern,
					Core:     gs,
				})
			}
		})
	}
	return out, nil
}

// InterpolationGenerator derives candidates from an external table of
// assumption-refinement rows: for each row marked realizable it emits the
// negation of the refinement formula (a realizable strengthening's negation
// is a plausible unavoidable obstruction). Unrealizable rows are skipped.
type InterpolationGenerator struct {
	Rows []refine.Row
}

// Generate emits one candidate per realizable refinement row, in row order.
func (g InterpolationGenerator) Generate(s *spec.Specification, gs GoalSet) ([]Candidate, error) {
	var out []Candidate
	for _, row := range g.Rows {
		if !row.Realizable || row.Formula == nil {
			continue
		}
		out = append(out, Candidate{
			Formula:  ltl.Negate(row.Formula),
			Strategy: StrategyInterpolation,
			NodeID:   row.NodeID,
			Core:     gs,
		})
	}
	return out, nil
}

// CustomGenerator wraps a caller-supplied list of formulas verbatim.
type CustomGenerator struct {
	Formulas []ltl.Formula
}

// Generate wraps the configured formulas, in order.
func (g CustomGenerator) Generate(s *spec.Specification, gs GoalSet) ([]Candidate, error) {
	out := make([]Candidate, len(g.Formulas))
	for i, f := range g.Formulas {
		out[i] = Candidate{Formula: f, Strategy: StrategyCustom, Core: gs}
	}
	return out, nil
}
