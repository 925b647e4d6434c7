// Package refine models the interpolation-refinement boundary: tables of
// assumption-strengthening formulas proposed by an external repair engine,
// consumed by the interpolation candidate generator.
package refine

import (
	"context"
	"regexp"

	"github.com/alexanderbira/benchmark-specs/ltl"
	"github.com/alexanderbira/benchmark-specs/spec"
)

// Row is one refinement proposed by the repair engine: a strengthening
// formula for a refinement-tree node together with the engine's
// realizability verdict for the strengthened specification.
type Row struct {
	NodeID     string
	Formula    ltl.Formula
	Realizable bool
}

// Engine produces refinement rows for a specification. Implementations wrap
// external repair tools (which consume a boolean-converted form of the
// specification); the core only ever reads the resulting rows.
type Engine interface {
	Refine(ctx context.Context, s *spec.Specification) ([]Row, error)
}

// StaticRows is an Engine over precomputed rows, typically loaded from a
// refinement CSV export.
type StaticRows []Row

func (r StaticRows) Refine(ctx context.Context, s *spec.Specification) ([]Row, error) {
	return r, nil
}

var operatorWords = regexp.MustCompile(`\b(alw|ev|next)\b`)

// NormalizeOperators rewrites the repair engine's spelled-out temporal
// operators (alw, ev, next) to standard LTL notation (G, F, X).
func NormalizeOperators(formula string) string {
	return operatorWords.ReplaceAllStringFunc(formula, func(m string) string {
		switch m {
		case "alw":
			return "G"
		case "ev":
			return "F"
		default:
			return "X"
		}
	})
}
