package boundary

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderbira/benchmark-specs/ltl"
	"github.com/alexanderbira/benchmark-specs/oracle"
	"github.com/alexanderbira/benchmark-specs/spec"
)

// stubSat decides queries by the string forms of the queried formulas and
// counts its calls.
type stubSat struct {
	calls int32
	fn    func(fs []ltl.Formula) (oracle.SatOutcome, error)
}

func (s *stubSat) CheckSat(ctx context.Context, fs []ltl.Formula) (oracle.SatOutcome, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.fn(fs)
}

// stubReal returns a fixed realizability answer and counts its calls.
type stubReal struct {
	calls  int32
	result oracle.RealResult
	err    error
}

func (s *stubReal) CheckRealizability(ctx context.Context, f ltl.Formula, ins, outs []string) (oracle.RealResult, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.result, s.err
}

func satAlways(result oracle.SatResult) *stubSat {
	return &stubSat{fn: func([]ltl.Formula) (oracle.SatOutcome, error) {
		return oracle.SatOutcome{Result: result}, nil
	}}
}

// satUnsatWhenAll returns UNSAT exactly when every formula in keys is
// present in the query.
func satUnsatWhenAll(keys ...string) *stubSat {
	return &stubSat{fn: func(fs []ltl.Formula) (oracle.SatOutcome, error) {
		have := map[string]bool{}
		for _, f := range fs {
			have[f.String()] = true
		}
		for _, k := range keys {
			if !have[k] {
				return oracle.SatOutcome{Result: oracle.Sat}, nil
			}
		}
		return oracle.SatOutcome{Result: oracle.Unsat}, nil
	}}
}

// eventuallySpec is end-to-end scenario material: one goal "F a" over a
// single output atom, no domains, no inputs.
func eventuallySpec() *spec.Specification {
	return &spec.Specification{
		Name:  "eventually-a",
		Type:  spec.TypeLTL,
		Outs:  []string{"a"},
		Goals: []ltl.Formula{ltl.MustParse("F a")},
	}
}

func custom(src string) Candidate {
	return Candidate{Formula: ltl.MustParse(src), Strategy: StrategyCustom}
}

func TestEvaluateConsistentShortCircuits(t *testing.T) {
	sat := satAlways(oracle.Sat)
	real := &stubReal{result: oracle.Unrealizable}
	c := NewChecker(sat, real)

	v, err := c.Evaluate(context.Background(), eventuallySpec(), GoalSet{0}, custom("G !a"))
	require.NoError(t, err)

	assert.False(t, v.Inconsistent)
	assert.False(t, v.IsBC)
	assert.False(t, v.IsUBC)
	assert.Equal(t, StatusConfirmed, v.Status)
	// Monotonicity: one SAT answer means no further oracle traffic.
	assert.EqualValues(t, 1, sat.calls)
	assert.EqualValues(t, 0, real.calls, "unavoidability must not be computed for a non-BC")
}

func TestEvaluateBoundaryCondition(t *testing.T) {
	// "G !a" against goal "F a": jointly UNSAT, vacuously minimal
	// (singleton), syntactically distinct from !(F a).
	sat := satUnsatWhenAll("F a", "G !a")
	real := &stubReal{result: oracle.Realizable}
	c := NewChecker(sat, real)

	v, err := c.Evaluate(context.Background(), eventuallySpec(), GoalSet{0}, custom("G !a"))
	require.NoError(t, err)

	assert.True(t, v.Inconsistent)
	assert.True(t, v.Minimal, "singleton goal set is vacuously minimal")
	assert.True(t, v.NonTrivial)
	assert.True(t, v.IsBC)
	assert.False(t, v.IsUBC, "avoidance is realizable")
	assert.EqualValues(t, 1, real.calls)
}

func TestEvaluateUnavoidable(t *testing.T) {
	sat := satUnsatWhenAll("F a", "G !a")
	c := NewChecker(sat, &stubReal{result: oracle.Unrealizable})

	v, err := c.Evaluate(context.Background(), eventuallySpec(), GoalSet{0}, custom("G !a"))
	require.NoError(t, err)
	assert.True(t, v.IsBC)
	assert.True(t, v.Unavoidable)
	assert.True(t, v.IsUBC)
}

func TestEvaluateTrivialCandidate(t *testing.T) {
	// The candidate exactly restates the negated goal: inconsistent and
	// minimal, but trivial, so not a BC and no realizability query.
	sat := satAlways(oracle.Unsat)
	real := &stubReal{result: oracle.Unrealizable}
	c := NewChecker(sat, real)

	v, err := c.Evaluate(context.Background(), eventuallySpec(), GoalSet{0}, custom("!(F a)"))
	require.NoError(t, err)

	assert.True(t, v.Inconsistent)
	assert.True(t, v.Minimal)
	assert.False(t, v.NonTrivial)
	assert.False(t, v.IsBC)
	assert.EqualValues(t, 0, real.calls)
}

func twoGoalSpec() *spec.Specification {
	return &spec.Specification{
		Name:  "two-goals",
		Type:  spec.TypeLTL,
		Ins:   []string{"p"},
		Outs:  []string{"q"},
		Goals: []ltl.Formula{ltl.MustParse("G (p -> q)"), ltl.MustParse("F !q")},
	}
}

func TestNonTrivialityIgnoresConjunctOrder(t *testing.T) {
	g := twoGoalSpec()
	sat := satAlways(oracle.Unsat)

	for _, src := range []string{"!(G (p -> q) & F !q)", "!(F !q & G (p -> q))"} {
		// Removal queries must come back SAT for minimality to hold; use a
		// stub keyed on both goals being present.
		sat = satUnsatWhenAll("G (p -> q)", "F !q")
		c := NewChecker(sat, &stubReal{result: oracle.Unrealizable})
		v, err := c.Evaluate(context.Background(), g, GoalSet{0, 1}, custom(src))
		require.NoError(t, err)
		assert.True(t, v.Inconsistent)
		assert.False(t, v.NonTrivial, "conjunct order must not affect triviality: %s", src)
		assert.False(t, v.IsBC)
	}
}

func TestMinimalityEvidence(t *testing.T) {
	// UNSAT whenever goal 0 is present: removing goal 1 keeps the
	// conjunction inconsistent, so the pair is not minimal and goal 1 is
	// the witness.
	sat := satUnsatWhenAll("G (p -> q)")
	c := NewChecker(sat, &stubReal{result: oracle.Unrealizable})

	v, err := c.Evaluate(context.Background(), twoGoalSpec(), GoalSet{0, 1}, custom("F p"))
	require.NoError(t, err)

	assert.True(t, v.Inconsistent)
	assert.False(t, v.Minimal)
	assert.Equal(t, 1, v.BlockingGoal)
	assert.False(t, v.IsBC)
}

func TestMinimalityCoreFastPath(t *testing.T) {
	// The inconsistency query reports a minimal unsat core that leaves out
	// goal 1 (indices: goal 0 at 0, goal 1 at 1, candidate at 2). The
	// checker must disprove minimality from the core alone.
	sat := &stubSat{fn: func(fs []ltl.Formula) (oracle.SatOutcome, error) {
		return oracle.SatOutcome{Result: oracle.Unsat, Core: []int{0, 2}}, nil
	}}
	c := NewChecker(sat, &stubReal{result: oracle.Unrealizable})

	v, err := c.Evaluate(context.Background(), twoGoalSpec(), GoalSet{0, 1}, custom("F p"))
	require.NoError(t, err)

	assert.False(t, v.Minimal)
	assert.Equal(t, 1, v.BlockingGoal)
	assert.EqualValues(t, 1, sat.calls, "core must replace the per-goal removal queries")
}

func TestEvaluateRejectsInvalidGoalSet(t *testing.T) {
	c := NewChecker(satAlways(oracle.Sat), &stubReal{})
	var invalid *InvalidGoalSetError

	_, err := c.Evaluate(context.Background(), eventuallySpec(), GoalSet{3}, custom("G !a"))
	require.ErrorAs(t, err, &invalid)

	_, err = c.Evaluate(context.Background(), eventuallySpec(), GoalSet{0, 0}, custom("G !a"))
	require.ErrorAs(t, err, &invalid)

	_, err = c.Evaluate(context.Background(), eventuallySpec(), GoalSet{}, custom("G !a"))
	require.ErrorAs(t, err, &invalid)
}

func TestEvaluateRejectsMalformedCandidate(t *testing.T) {
	sat := satAlways(oracle.Sat)
	c := NewChecker(sat, &stubReal{})

	_, err := c.Evaluate(context.Background(), eventuallySpec(), GoalSet{0}, custom("G !zz"))
	var malformed *MalformedCandidateError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "zz", malformed.Atom)
	assert.EqualValues(t, 0, sat.calls, "rejected before any oracle call")
}

func TestEvaluateIndeterminateSat(t *testing.T) {
	sat := &stubSat{fn: func([]ltl.Formula) (oracle.SatOutcome, error) {
		return oracle.SatOutcome{}, oracle.ErrOracleTimeout
	}}
	c := NewChecker(sat, &stubReal{})

	v, err := c.Evaluate(context.Background(), eventuallySpec(), GoalSet{0}, custom("G !a"))
	require.NoError(t, err)
	assert.Equal(t, StatusIndeterminate, v.Status)
	assert.Equal(t, StageInconsistency, v.Stage)
	assert.ErrorIs(t, v.Err, oracle.ErrOracleTimeout)
	assert.False(t, v.IsBC)
}

func TestEvaluateIndeterminateRealizability(t *testing.T) {
	sat := satUnsatWhenAll("F a", "G !a")
	c := NewChecker(sat, &stubReal{result: oracle.RealIndeterminate, err: errors.New("solver crashed")})

	v, err := c.Evaluate(context.Background(), eventuallySpec(), GoalSet{0}, custom("G !a"))
	require.NoError(t, err)

	// The three SAT-level predicates stand; only unavoidability is open.
	assert.True(t, v.IsBC)
	assert.False(t, v.IsUBC)
	assert.Equal(t, StatusIndeterminate, v.Status)
	assert.Equal(t, StageUnavoidability, v.Stage)
}
