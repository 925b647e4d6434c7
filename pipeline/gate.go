package pipeline

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/alexanderbira/benchmark-specs/ltl"
	"github.com/alexanderbira/benchmark-specs/oracle"
)

// gatedSat and gatedReal share one weighted semaphore so that the total
// number of concurrent oracle invocations stays under Config.MaxOracleCalls
// no matter how many workers are evaluating candidates. Acquisition honors
// the caller's context, so a cancelled run never queues new solver work.

type gatedSat struct {
	sem   *semaphore.Weighted
	inner oracle.SatOracle
}

func (g *gatedSat) CheckSat(ctx context.Context, fs []ltl.Formula) (oracle.SatOutcome, error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return oracle.SatOutcome{}, err
	}
	defer g.sem.Release(1)
	return g.inner.CheckSat(ctx, fs)
}

type gatedReal struct {
	sem   *semaphore.Weighted
	inner oracle.RealizabilityOracle
}

func (g *gatedReal) CheckRealizability(ctx context.Context, f ltl.Formula, ins, outs []string) (oracle.RealResult, error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return oracle.RealIndeterminate, err
	}
	defer g.sem.Release(1)
	return g.inner.CheckRealizability(ctx, f, ins, outs)
}
