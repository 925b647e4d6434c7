package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alexanderbira/benchmark-specs/boundary"
	"github.com/alexanderbira/benchmark-specs/oracle"
	"github.com/alexanderbira/benchmark-specs/pipeline"
)

// oracleFlags are the solver options shared by every verb.
type oracleFlags struct {
	strixPath   string
	satTimeout  time.Duration
	realTimeout time.Duration
	verbose     bool
}

func (o *oracleFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&o.strixPath, "strix", "strix", "Path to the strix synthesis binary")
	fs.DurationVar(&o.satTimeout, "sat-timeout", 10*time.Second, "Per-call satisfiability timeout")
	fs.DurationVar(&o.realTimeout, "real-timeout", 2*time.Minute, "Per-call realizability timeout")
	fs.BoolVar(&o.verbose, "verbose", false, "Log oracle traffic and run progress")
}

func (o *oracleFlags) logger() (*zap.Logger, error) {
	if !o.verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func (o *oracleFlags) oracles(logger *zap.Logger) (oracle.SatOracle, oracle.RealizabilityOracle) {
	strix := oracle.NewStrixProcess(logger)
	strix.Path = o.strixPath
	return oracle.NewGiniSolver(), strix
}

// pipelineFlags extend the oracle options with search tuning.
type pipelineFlags struct {
	oracleFlags
	workers       int
	maxOracle     int64
	maxConjuncts  int
	stopFirst     bool
	proceed       bool
	refinementCSV string
}

func (p *pipelineFlags) register(fs *flag.FlagSet) {
	p.oracleFlags.register(fs)
	def := pipeline.DefaultConfig()
	fs.IntVar(&p.workers, "workers", def.Workers, "Concurrent candidate evaluations")
	fs.Int64Var(&p.maxOracle, "max-oracle-calls", def.MaxOracleCalls, "Concurrent oracle invocations")
	fs.IntVar(&p.maxConjuncts, "max-conjuncts", def.MaxConjuncts, "Pattern candidate size bound")
	fs.BoolVar(&p.stopFirst, "stop-first", false, "Stop a search phase at the first confirmed BC")
	fs.BoolVar(&p.proceed, "proceed-indeterminate", false, "Continue past an indeterminate whole-spec realizability answer")
	fs.StringVar(&p.refinementCSV, "refinements", "", "Refinement CSV enabling the interpolation phase")
}

func (p *pipelineFlags) config() pipeline.Config {
	return pipeline.Config{
		Workers:                p.workers,
		MaxOracleCalls:         p.maxOracle,
		SatTimeout:             p.satTimeout,
		RealTimeout:            p.realTimeout,
		MaxConjuncts:           p.maxConjuncts,
		StopOnFirstBC:          p.stopFirst,
		ProceedOnIndeterminate: p.proceed,
	}
}

// parseGoalSet parses "0,2,5" into a validated-later goal set.
func parseGoalSet(arg string) (boundary.GoalSet, error) {
	if strings.TrimSpace(arg) == "" {
		return nil, fmt.Errorf("empty goal set")
	}
	var indices []int
	for _, part := range strings.Split(arg, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("goal index %q: %w", part, err)
		}
		indices = append(indices, i)
	}
	return boundary.NewGoalSet(indices...), nil
}

func formatGoalSet(indices []int) string {
	parts := make([]string, len(indices))
	for i, g := range indices {
		parts[i] = strconv.Itoa(g)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
