package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/alexanderbira/benchmark-specs/boundary"
	"github.com/alexanderbira/benchmark-specs/ltl"
	"github.com/alexanderbira/benchmark-specs/pipeline"
	"github.com/alexanderbira/benchmark-specs/spec"
)

func sweep(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	formulaSrc := fs.String("formula", "", "Candidate formula to sweep (default: pattern enumeration)")
	goalSetsArg := fs.String("goal-sets", "", "Explicit goal sets, semicolon-separated (e.g. \"0,2;1,3\")")
	maxGoals := fs.Int("max-goals", 0, "Sweep every goal subset up to this size")
	singletons := fs.Bool("singletons", false, "Sweep each goal on its own")
	showAll := fs.Bool("all", false, "Print every verdict, not only BCs and UBCs")
	var opts pipelineFlags
	opts.register(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: bcfind sweep <spec.json> [options]

Evaluate candidates against a sweep of goal subsets, without the
realizability gate or core extraction. By default the full goal set is the
only subset and the pattern enumeration supplies the candidates.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Pattern candidates against every subset of up to 2 goals
  bcfind sweep minepump.json --max-goals 2

  # One candidate against chosen goal sets
  bcfind sweep minepump.json --formula "F (highwater & methane)" --goal-sets "0,1;0,2"

  # Which single goals does a candidate already conflict with?
  bcfind sweep minepump.json --formula "F methane" --singletons --all
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("spec file required")
	}

	s, err := spec.LoadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("load spec: %w", err)
	}

	var goalGen boundary.GoalSetGenerator
	switch {
	case *goalSetsArg != "":
		var sets [][]int
		for _, part := range strings.Split(*goalSetsArg, ";") {
			gs, err := parseGoalSet(part)
			if err != nil {
				return err
			}
			sets = append(sets, gs)
		}
		goalGen = boundary.IndexSets{Sets: sets}
	case *singletons:
		goalGen = boundary.Singletons{}
	case *maxGoals > 0:
		goalGen = boundary.Subsets{MaxGoals: *maxGoals}
	default:
		goalGen = boundary.FullSet{}
	}

	var candGen boundary.CandidateGenerator
	if *formulaSrc != "" {
		f, err := ltl.Parse(*formulaSrc)
		if err != nil {
			return fmt.Errorf("parse candidate: %w", err)
		}
		candGen = boundary.CustomGenerator{Formulas: []ltl.Formula{f}}
	} else {
		candGen = boundary.PatternGenerator{MaxConjuncts: opts.maxConjuncts}
	}

	logger, err := opts.logger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	sat, real := opts.oracles(logger)
	d := pipeline.NewDetector(sat, real, opts.config()).WithLogger(logger)

	verdicts, err := d.Sweep(context.Background(), s, goalGen, candGen)
	if err != nil {
		return err
	}

	fmt.Printf("=== Sweep: %s (%d cells) ===\n", s.Name, len(verdicts))
	found := 0
	for _, v := range verdicts {
		if !*showAll && !v.IsBC && v.Status != boundary.StatusIndeterminate {
			continue
		}
		found++
		fmt.Printf("  [%-10s] goals %s  %s\n", v.Classification(), formatGoalSet(v.GoalSet), v.Candidate.Formula)
	}
	if found == 0 {
		fmt.Println("  no boundary conditions found")
	}
	return nil
}
