package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/alexanderbira/benchmark-specs/ltl"
)

// ErrNotPropositional is returned by GiniSolver for formulas containing
// temporal operators, which are outside its fragment.
var ErrNotPropositional = errors.New("oracle: formula is not propositional")

// GiniSolver is an in-process SatOracle for the propositional fragment,
// built on the gini SAT solver. Each queried formula becomes one assumption
// literal over a shared circuit, so an UNSAT answer comes with the failed
// assumptions as a minimal unsatisfiable subset of the input formulas.
//
// GiniSolver is stateless between calls and safe for concurrent use; every
// call builds a fresh circuit and solver.
type GiniSolver struct{}

// NewGiniSolver returns a propositional SAT oracle.
func NewGiniSolver() *GiniSolver { return &GiniSolver{} }

// CheckSat decides joint satisfiability of formulas. Formulas with temporal
// operators yield SatUnknown and an error wrapping ErrNotPropositional.
func (s *GiniSolver) CheckSat(ctx context.Context, formulas []ltl.Formula) (SatOutcome, error) {
	for i, f := range formulas {
		if !ltl.IsPropositional(f) {
			return SatOutcome{}, fmt.Errorf("formula %d (%s): %w", i, f, ErrNotPropositional)
		}
	}

	c := logic.NewC()
	vars := map[string]z.Lit{}
	assumptions := make([]z.Lit, len(formulas))
	for i, f := range formulas {
		assumptions[i] = encode(c, f, vars)
	}

	g := gini.New()
	c.ToCnf(g)
	for _, m := range assumptions {
		g.Assume(m)
	}

	res, err := solve(ctx, g)
	if err != nil {
		return SatOutcome{}, err
	}

	switch res {
	case 1:
		return SatOutcome{Result: Sat}, nil
	case -1:
		return SatOutcome{Result: Unsat, Core: core(g, assumptions)}, nil
	default:
		return SatOutcome{}, fmt.Errorf("gini: %w", ErrOracleTimeout)
	}
}

// solve runs the solver, respecting a context deadline when one is set.
func solve(ctx context.Context, g *gini.Gini) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, wrapCtxErr(err)
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return g.Solve(), nil
	}
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return 0, wrapCtxErr(context.DeadlineExceeded)
	}
	return g.GoSolve().Try(remaining), nil
}

// core maps the failed assumptions back to indices into the input slice.
func core(g *gini.Gini, assumptions []z.Lit) []int {
	failed := g.Why(nil)
	if len(failed) == 0 {
		return nil
	}
	byLit := make(map[z.Lit]int, len(assumptions))
	for i, m := range assumptions {
		byLit[m] = i
	}
	var idx []int
	for _, m := range failed {
		if i, ok := byLit[m]; ok {
			idx = append(idx, i)
		}
	}
	return idx
}

// encode translates a propositional formula into a circuit literal.
func encode(c *logic.C, f ltl.Formula, vars map[string]z.Lit) z.Lit {
	switch v := f.(type) {
	case ltl.Const:
		if bool(v) {
			return c.T
		}
		return c.F
	case ltl.Atom:
		lit, ok := vars[string(v)]
		if !ok {
			lit = c.Lit()
			vars[string(v)] = lit
		}
		return lit
	case ltl.Not:
		return encode(c, v.F, vars).Not()
	case ltl.And:
		lits := make([]z.Lit, len(v.Fs))
		for i, g := range v.Fs {
			lits[i] = encode(c, g, vars)
		}
		return c.Ands(lits...)
	case ltl.Or:
		lits := make([]z.Lit, len(v.Fs))
		for i, g := range v.Fs {
			lits[i] = encode(c, g, vars)
		}
		return c.Ors(lits...)
	case ltl.Implies:
		return c.Ors(encode(c, v.L, vars).Not(), encode(c, v.R, vars))
	case ltl.Iff:
		l := encode(c, v.L, vars)
		r := encode(c, v.R, vars)
		return c.Ands(c.Ors(l.Not(), r), c.Ors(l, r.Not()))
	default:
		// Unreachable: CheckSat rejects temporal formulas up front.
		return c.F
	}
}
