package boundary

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/alexanderbira/benchmark-specs/ltl"
	"github.com/alexanderbira/benchmark-specs/oracle"
	"github.com/alexanderbira/benchmark-specs/spec"
)

// Checker computes boundary-condition verdicts through the two oracles.
// Evaluations are pure functions of their inputs and the oracles: a Checker
// holds no per-evaluation state and may be shared across goroutines.
type Checker struct {
	sat  oracle.SatOracle
	real oracle.RealizabilityOracle

	satTimeout  time.Duration
	realTimeout time.Duration
	logger      *zap.Logger
}

// NewChecker creates a checker over the given oracles.
func NewChecker(sat oracle.SatOracle, real oracle.RealizabilityOracle) *Checker {
	return &Checker{sat: sat, real: real, logger: zap.NewNop()}
}

// WithTimeouts sets per-call deadlines for satisfiability and realizability
// queries. Zero means no per-call deadline beyond the caller's context.
func (c *Checker) WithTimeouts(sat, real time.Duration) *Checker {
	c.satTimeout = sat
	c.realTimeout = real
	return c
}

// WithLogger sets the structured logger for per-predicate progress.
func (c *Checker) WithLogger(logger *zap.Logger) *Checker {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Evaluate runs the four-predicate protocol for one
// (specification, goal set, candidate) cell, in cost-ascending order with
// short-circuiting:
//
//  1. inconsistency: SAT query over domains, goals, and the candidate; a SAT
//     answer ends the evaluation (nothing inconsistent to explain).
//  2. minimality: removing any single goal must restore satisfiability;
//     the responding unsat core can disprove this without further queries.
//  3. non-triviality, syntactic: the candidate must not merely restate the
//     negated goal conjunction. No oracle call.
//  4. unavoidability, only for confirmed BCs: realizability of
//     domains -> !candidate. Unrealizable means the candidate cannot be
//     engineered away.
//
// The returned error is non-nil only for caller mistakes (invalid goal set,
// candidate over unknown atoms), rejected before any oracle call. Oracle
// timeouts and failures degrade the verdict to StatusIndeterminate instead.
func (c *Checker) Evaluate(ctx context.Context, s *spec.Specification, gs GoalSet, cand Candidate) (Verdict, error) {
	if err := gs.Validate(len(s.Goals)); err != nil {
		return Verdict{}, err
	}
	if err := validateCandidate(s, cand); err != nil {
		return Verdict{}, err
	}

	v := Verdict{Spec: s.Name, GoalSet: gs, Candidate: cand, BlockingGoal: -1}

	// Stage 1: inconsistency.
	conjunction := c.conjunction(s, gs, cand, -1)
	out, err := c.checkSat(ctx, conjunction)
	if err != nil {
		return c.indeterminate(v, StageInconsistency, err), nil
	}
	v.Inconsistent = out.Result == oracle.Unsat
	if !v.Inconsistent {
		// SAT: the candidate cannot be a BC for this goal set; no further
		// oracle calls.
		v.derive()
		return v, nil
	}

	// Stage 2: minimality.
	if done := c.checkMinimality(ctx, s, gs, cand, out.Core, &v); done {
		return v, nil
	}

	// Stage 3: non-triviality, purely syntactic.
	v.NonTrivial = !ltl.IsNegationOf(cand.Formula, s.GoalConjunction(gs))

	if !(v.Minimal && v.NonTrivial) {
		v.derive()
		return v, nil
	}

	// Stage 4: unavoidability, only for confirmed BCs.
	avoid := ltl.Implies{L: s.DomainConjunction(), R: ltl.Negate(cand.Formula)}
	res, err := c.checkReal(ctx, avoid, s.Ins, s.Outs)
	if err != nil || res == oracle.RealIndeterminate {
		v.derive() // BC status stands; only unavoidability is unresolved
		return c.indeterminate(v, StageUnavoidability, err), nil
	}
	v.Unavoidable = res == oracle.Unrealizable
	v.derive()

	c.logger.Debug("evaluated candidate",
		zap.String("spec", s.Name),
		zap.String("candidate", cand.Formula.String()),
		zap.Ints("goals", gs),
		zap.String("verdict", v.Classification()))
	return v, nil
}

// checkMinimality fills v.Minimal and evidence. It returns true when the
// evaluation is finished (an oracle degraded it to indeterminate).
func (c *Checker) checkMinimality(ctx context.Context, s *spec.Specification, gs GoalSet, cand Candidate, core []int, v *Verdict) bool {
	// A singleton goal set is vacuously minimal: there is no goal whose
	// removal could be tested.
	if len(gs) == 1 {
		v.Minimal = true
		return false
	}

	// Core fast path: the inconsistency query's minimal unsat core indexes
	// into domains ++ goals ++ {candidate}. A goal absent from the core is
	// removable without restoring satisfiability, which disproves
	// minimality with no further queries. (One core cannot *prove*
	// minimality; other cores may exist.)
	if core != nil {
		inCore := map[int]bool{}
		for _, idx := range core {
			if g := idx - len(s.Domains); g >= 0 && g < len(gs) {
				inCore[gs[g]] = true
			}
		}
		for _, goal := range gs {
			if !inCore[goal] {
				v.Minimal = false
				v.BlockingGoal = goal
				return false
			}
		}
	}

	for _, goal := range gs {
		out, err := c.checkSat(ctx, c.conjunction(s, gs, cand, goal))
		if err != nil {
			*v = c.indeterminate(*v, StageMinimality, err)
			return true
		}
		if out.Result == oracle.Unsat {
			// Removing this goal kept the conjunction inconsistent.
			v.Minimal = false
			v.BlockingGoal = goal
			return false
		}
	}
	v.Minimal = true
	return false
}

// conjunction assembles domains ++ selected goals ++ candidate, skipping
// goal index skip (-1 keeps all).
func (c *Checker) conjunction(s *spec.Specification, gs GoalSet, cand Candidate, skip int) []ltl.Formula {
	fs := make([]ltl.Formula, 0, len(s.Domains)+len(gs)+1)
	fs = append(fs, s.Domains...)
	for _, i := range gs {
		if i != skip {
			fs = append(fs, s.Goals[i])
		}
	}
	return append(fs, cand.Formula)
}

func (c *Checker) checkSat(ctx context.Context, fs []ltl.Formula) (oracle.SatOutcome, error) {
	if c.satTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.satTimeout)
		defer cancel()
	}
	out, err := c.sat.CheckSat(ctx, fs)
	if err == nil && out.Result == oracle.SatUnknown {
		err = oracle.ErrOracleFailure
	}
	return out, err
}

func (c *Checker) checkReal(ctx context.Context, f ltl.Formula, ins, outs []string) (oracle.RealResult, error) {
	if c.realTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.realTimeout)
		defer cancel()
	}
	return c.real.CheckRealizability(ctx, f, ins, outs)
}

func (c *Checker) indeterminate(v Verdict, stage string, err error) Verdict {
	v.Status = StatusIndeterminate
	v.Stage = stage
	v.Err = err
	c.logger.Warn("evaluation indeterminate",
		zap.String("spec", v.Spec),
		zap.String("candidate", v.Candidate.Formula.String()),
		zap.Ints("goals", v.GoalSet),
		zap.String("stage", stage),
		zap.Error(err))
	return v
}
