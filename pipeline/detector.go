package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/alexanderbira/benchmark-specs/boundary"
	"github.com/alexanderbira/benchmark-specs/ltl"
	"github.com/alexanderbira/benchmark-specs/oracle"
	"github.com/alexanderbira/benchmark-specs/refine"
	"github.com/alexanderbira/benchmark-specs/spec"
)

// Config tunes a detection run.
type Config struct {
	// Workers bounds the number of candidate evaluations in flight at once.
	Workers int

	// MaxOracleCalls caps concurrent oracle invocations across all workers.
	// External solver processes are the expensive resource here, not the
	// goroutines driving them.
	MaxOracleCalls int64

	// SatTimeout and RealTimeout are per-call deadlines for the two oracle
	// kinds. Zero disables the per-call deadline.
	SatTimeout  time.Duration
	RealTimeout time.Duration

	// MaxConjuncts bounds pattern-candidate size. The enumeration is
	// exponential in this value, so it is always explicit.
	MaxConjuncts int

	// StopOnFirstBC ends a search phase as soon as one candidate is
	// confirmed as a boundary condition.
	StopOnFirstBC bool

	// ProceedOnIndeterminate lets a run continue past an indeterminate
	// whole-spec realizability answer instead of failing.
	ProceedOnIndeterminate bool
}

// DefaultConfig returns the settings used by the command-line tools.
func DefaultConfig() Config {
	return Config{
		Workers:        4,
		MaxOracleCalls: 4,
		SatTimeout:     10 * time.Second,
		RealTimeout:    2 * time.Minute,
		MaxConjuncts:   2,
	}
}

// ErrSpecRealizable reports that the specification needs no conflict
// analysis: every goal can already be met under the domain assumptions.
var ErrSpecRealizable = errors.New("specification is realizable")

// Report is the outcome of one detection run over one specification.
type Report struct {
	RunID string
	Spec  string

	// Realizability of the whole specification, decided before any search.
	Realizability oracle.RealResult

	// Cores are the minimal unrealizable goal subsets the search targeted.
	Cores []boundary.GoalSet

	// Verdicts holds every evaluated cell, including non-BCs.
	Verdicts []boundary.Verdict

	// BCs, UBCs, and Indeterminate pick out the interesting verdicts.
	// UBC verdicts appear in both BCs and UBCs.
	BCs           []boundary.Verdict
	UBCs          []boundary.Verdict
	Indeterminate []boundary.Verdict

	Elapsed time.Duration
}

// Detector drives the detection phases for a specification: a whole-spec
// realizability gate, extraction of minimal unrealizable goal subsets,
// a pattern search for boundary conditions over each subset, and an
// interpolation search for unavoidable ones over the full goal set.
type Detector struct {
	cfg     Config
	real    oracle.RealizabilityOracle
	checker *boundary.Checker
	engine  refine.Engine
	logger  *zap.Logger
}

// NewDetector wires a detector over the two oracles. Both oracles are put
// behind a shared admission gate of cfg.MaxOracleCalls.
func NewDetector(sat oracle.SatOracle, real oracle.RealizabilityOracle, cfg Config) *Detector {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.MaxOracleCalls < 1 {
		cfg.MaxOracleCalls = 1
	}
	gate := semaphore.NewWeighted(cfg.MaxOracleCalls)
	gsat := &gatedSat{sem: gate, inner: sat}
	greal := &gatedReal{sem: gate, inner: real}
	return &Detector{
		cfg:     cfg,
		real:    greal,
		checker: boundary.NewChecker(gsat, greal).WithTimeouts(cfg.SatTimeout, cfg.RealTimeout),
		logger:  zap.NewNop(),
	}
}

// WithLogger sets the structured logger for run progress.
func (d *Detector) WithLogger(logger *zap.Logger) *Detector {
	if logger != nil {
		d.logger = logger
		d.checker.WithLogger(logger)
	}
	return d
}

// WithRefinementEngine enables the interpolation phase. Without an engine
// the run stops after the pattern search.
func (d *Detector) WithRefinementEngine(e refine.Engine) *Detector {
	d.engine = e
	return d
}

// Run executes the detection phases for s. It returns ErrSpecRealizable
// (wrapped) when the specification has no conflict to analyze. Oracle
// trouble on individual candidates degrades those cells to indeterminate
// verdicts; only the whole-spec realizability gate is fatal.
func (d *Detector) Run(ctx context.Context, s *spec.Specification) (*Report, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	rep := &Report{RunID: uuid.NewString(), Spec: s.Name}
	logger := d.logger.With(zap.String("run", rep.RunID), zap.String("spec", s.Name))

	// Anything still in flight dies with the run.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	res, err := d.checkReal(ctx, s.Implication(nil), s)
	rep.Realizability = res
	switch {
	case err != nil && !d.cfg.ProceedOnIndeterminate:
		return rep, fmt.Errorf("spec %s: realizability gate: %w", s.Name, err)
	case res == oracle.Realizable:
		logger.Info("specification realizable, nothing to search")
		rep.Elapsed = time.Since(start)
		return rep, fmt.Errorf("spec %s: %w", s.Name, ErrSpecRealizable)
	case res == oracle.RealIndeterminate && !d.cfg.ProceedOnIndeterminate:
		return rep, fmt.Errorf("spec %s: realizability gate: %w", s.Name, oracle.ErrOracleFailure)
	}

	rep.Cores = d.extractCores(ctx, s, logger)
	logger.Info("core extraction done", zap.Int("cores", len(rep.Cores)))

	pattern, err := d.searchPatterns(ctx, s, rep.Cores)
	if err != nil {
		return rep, err
	}
	rep.Verdicts = append(rep.Verdicts, pattern...)

	if d.engine != nil && (!d.cfg.StopOnFirstBC || !anyBC(pattern)) {
		interp, err := d.searchInterpolants(ctx, s, logger)
		if err != nil {
			return rep, err
		}
		rep.Verdicts = append(rep.Verdicts, interp...)
	}

	rep.Verdicts = dedupe(rep.Verdicts)
	for _, v := range rep.Verdicts {
		// A BC with an unresolved unavoidability check lands in both
		// BCs and Indeterminate.
		if v.IsBC {
			rep.BCs = append(rep.BCs, v)
		}
		if v.IsUBC {
			rep.UBCs = append(rep.UBCs, v)
		}
		if v.Status == boundary.StatusIndeterminate {
			rep.Indeterminate = append(rep.Indeterminate, v)
		}
	}
	logger.Info("run complete",
		zap.Int("verdicts", len(rep.Verdicts)),
		zap.Int("bcs", len(rep.BCs)),
		zap.Int("ubcs", len(rep.UBCs)),
		zap.Int("indeterminate", len(rep.Indeterminate)))
	rep.Elapsed = time.Since(start)
	return rep, nil
}

// Cores runs only the realizability gate and core extraction, skipping the
// candidate searches. Same gate semantics as Run.
func (d *Detector) Cores(ctx context.Context, s *spec.Specification) ([]boundary.GoalSet, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	res, err := d.checkReal(ctx, s.Implication(nil), s)
	switch {
	case err != nil && !d.cfg.ProceedOnIndeterminate:
		return nil, fmt.Errorf("spec %s: realizability gate: %w", s.Name, err)
	case res == oracle.Realizable:
		return nil, fmt.Errorf("spec %s: %w", s.Name, ErrSpecRealizable)
	case res == oracle.RealIndeterminate && !d.cfg.ProceedOnIndeterminate:
		return nil, fmt.Errorf("spec %s: realizability gate: %w", s.Name, oracle.ErrOracleFailure)
	}
	return d.extractCores(ctx, s, d.logger.With(zap.String("spec", s.Name))), nil
}

// Sweep evaluates a candidate generator across the goal sets a goal-set
// generator yields, without the realizability gate or core extraction. It is
// the exhaustive counterpart to Run's targeted search.
func (d *Detector) Sweep(ctx context.Context, s *spec.Specification, goals boundary.GoalSetGenerator, cands boundary.CandidateGenerator) ([]boundary.Verdict, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	goalSets, err := goals.GoalSets(len(s.Goals))
	if err != nil {
		return nil, err
	}
	return d.evaluateGrid(ctx, s, goalSets, cands)
}

// extractCores shrinks the full goal set to its minimal unrealizable
// subsets. An indeterminate answer for a subset counts as "not known
// unrealizable": the search degrades around it rather than failing.
func (d *Detector) extractCores(ctx context.Context, s *spec.Specification, logger *zap.Logger) []boundary.GoalSet {
	return shrink(ctx, len(s.Goals), func(ctx context.Context, gs boundary.GoalSet) bool {
		res, err := d.checkReal(ctx, s.Implication(gs), s)
		if err != nil {
			logger.Warn("core probe indeterminate", zap.Ints("goals", gs), zap.Error(err))
			return false
		}
		return res == oracle.Unrealizable
	})
}

// searchPatterns evaluates the pattern enumeration against each core.
func (d *Detector) searchPatterns(ctx context.Context, s *spec.Specification, cores []boundary.GoalSet) ([]boundary.Verdict, error) {
	gen := boundary.PatternGenerator{MaxConjuncts: d.cfg.MaxConjuncts}
	return d.evaluateGrid(ctx, s, cores, gen)
}

// searchInterpolants runs the refinement engine and evaluates the negated
// realizable refinements against the full goal set. Engine failure skips
// the phase; it never fails the run.
func (d *Detector) searchInterpolants(ctx context.Context, s *spec.Specification, logger *zap.Logger) ([]boundary.Verdict, error) {
	rows, err := d.engine.Refine(ctx, s)
	if err != nil {
		logger.Warn("refinement engine failed, skipping interpolation phase", zap.Error(err))
		return nil, nil
	}
	full, err := boundary.FullSet{}.GoalSets(len(s.Goals))
	if err != nil {
		return nil, err
	}
	return d.evaluateGrid(ctx, s, full, boundary.InterpolationGenerator{Rows: rows})
}

// evaluateGrid runs the checker over every (goal set, candidate) cell the
// generator yields, at most cfg.Workers cells at a time. Verdicts come back
// in enumeration order regardless of completion order. A refinement row over
// unknown atoms is logged and skipped; a custom candidate over unknown atoms
// is a caller error and aborts the grid, as does any other evaluation error.
func (d *Detector) evaluateGrid(ctx context.Context, s *spec.Specification, goalSets []boundary.GoalSet, gen boundary.CandidateGenerator) ([]boundary.Verdict, error) {
	type cell struct {
		gs   boundary.GoalSet
		cand boundary.Candidate
	}
	var cells []cell
	for _, gs := range goalSets {
		cands, err := gen.Generate(s, gs)
		if err != nil {
			return nil, err
		}
		for _, cand := range cands {
			cells = append(cells, cell{gs: gs, cand: cand})
		}
	}

	verdicts := make([]boundary.Verdict, len(cells))
	skipped := make([]bool, len(cells))
	var mu sync.Mutex
	stopped := false

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Workers)
	for i, c := range cells {
		i, c := i, c
		g.Go(func() error {
			mu.Lock()
			stop := stopped
			mu.Unlock()
			if stop || gctx.Err() != nil {
				skipped[i] = true
				return nil
			}

			v, err := d.checker.Evaluate(gctx, s, c.gs, c.cand)
			var malformed *boundary.MalformedCandidateError
			if errors.As(err, &malformed) {
				// A caller-supplied formula over unknown atoms is a
				// configuration mistake; refinement rows come from an
				// external tool and get skipped instead.
				if c.cand.Strategy == boundary.StrategyCustom {
					return err
				}
				d.logger.Warn("skipping candidate over unknown atom",
					zap.String("candidate", c.cand.Formula.String()),
					zap.String("atom", malformed.Atom))
				skipped[i] = true
				return nil
			}
			if err != nil {
				return err
			}
			verdicts[i] = v
			if d.cfg.StopOnFirstBC && v.IsBC {
				mu.Lock()
				stopped = true
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]boundary.Verdict, 0, len(cells))
	for i := range cells {
		if !skipped[i] {
			out = append(out, verdicts[i])
		}
	}
	return out, nil
}

func (d *Detector) checkReal(ctx context.Context, f ltl.Formula, s *spec.Specification) (oracle.RealResult, error) {
	if d.cfg.RealTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.RealTimeout)
		defer cancel()
	}
	return d.real.CheckRealizability(ctx, f, s.Ins, s.Outs)
}

// dedupe drops repeated (goal set, candidate) cells, keeping the first.
// Candidates are compared up to conjunct reordering and double negation.
func dedupe(vs []boundary.Verdict) []boundary.Verdict {
	seen := make(map[string]bool, len(vs))
	out := vs[:0]
	for _, v := range vs {
		key := v.GoalSet.Key() + "|" + canonicalKey(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

func canonicalKey(v boundary.Verdict) string {
	if v.Candidate.Formula == nil {
		return ""
	}
	return ltl.Canonical(v.Candidate.Formula).String()
}

func anyBC(vs []boundary.Verdict) bool {
	for _, v := range vs {
		if v.IsBC {
			return true
		}
	}
	return false
}
