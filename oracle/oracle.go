// Package oracle defines the two external decision capabilities the
// boundary-condition engine depends on: satisfiability checking and
// realizability checking. Implementations may run in-process or drive
// external solver processes; either way each call is independent, safe for
// concurrent use, and honors context cancellation.
package oracle

import (
	"context"
	"errors"

	"github.com/alexanderbira/benchmark-specs/ltl"
)

// SatResult is the tri-state outcome of a satisfiability query.
type SatResult int

const (
	// SatUnknown means the query timed out or the solver failed.
	SatUnknown SatResult = iota
	Sat
	Unsat
)

func (r SatResult) String() string {
	switch r {
	case Sat:
		return "SAT"
	case Unsat:
		return "UNSAT"
	default:
		return "UNKNOWN"
	}
}

// RealResult is the tri-state outcome of a realizability query.
type RealResult int

const (
	// RealIndeterminate means the query timed out or the solver failed.
	RealIndeterminate RealResult = iota
	Realizable
	Unrealizable
)

func (r RealResult) String() string {
	switch r {
	case Realizable:
		return "REALIZABLE"
	case Unrealizable:
		return "UNREALIZABLE"
	default:
		return "INDETERMINATE"
	}
}

// SatOutcome is the answer to one satisfiability query. When Result is
// Unsat, Core optionally holds a minimal unsatisfiable subset as indices
// into the queried formula slice; a nil Core means the solver did not
// produce one. Which minimal subset is returned may vary between solvers.
type SatOutcome struct {
	Result SatResult
	Core   []int
}

// SatOracle decides joint satisfiability of a finite set of formulas.
// Implementations must be deterministic for a fixed input set, modulo which
// minimal core is reported.
type SatOracle interface {
	CheckSat(ctx context.Context, formulas []ltl.Formula) (SatOutcome, error)
}

// RealizabilityOracle decides whether a reactive system over the given
// input/output atom partition can realize f against an adversarial
// environment. Calls may be very expensive; callers set a deadline on ctx
// and treat RealIndeterminate as a first-class answer, not a failure of
// the whole run.
type RealizabilityOracle interface {
	CheckRealizability(ctx context.Context, f ltl.Formula, ins, outs []string) (RealResult, error)
}

// Sentinel errors distinguishing why an oracle degraded to an unknown
// result. Callers classify with errors.Is.
var (
	ErrOracleTimeout = errors.New("oracle: query timed out")
	ErrOracleFailure = errors.New("oracle: solver failed")
)

// wrapCtxErr maps a context error onto the oracle taxonomy.
func wrapCtxErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errors.Join(ErrOracleTimeout, err)
	}
	return errors.Join(ErrOracleFailure, err)
}
