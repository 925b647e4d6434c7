package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/alexanderbira/benchmark-specs/boundary"
	"github.com/alexanderbira/benchmark-specs/ltl"
	"github.com/alexanderbira/benchmark-specs/spec"
)

func check(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	formulaSrc := fs.String("formula", "", "Candidate formula to evaluate (required)")
	goalsArg := fs.String("goals", "", "Comma-separated goal indices (default: all goals)")
	outputJSON := fs.Bool("json", false, "Output the verdict as JSON")
	var opts oracleFlags
	opts.register(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: bcfind check <spec.json> --formula <ltl> [options]

Evaluate one candidate formula against a specification's goals: joint
inconsistency, minimality of the goal set, non-triviality, and (for confirmed
boundary conditions) unavoidability.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Against all goals
  bcfind check minepump.json --formula "F (highwater & methane)"

  # Against a goal subset, with a local strix build
  bcfind check minepump.json --formula "F (highwater & methane)" \
      --goals 0,2 --strix ./bin/strix
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("spec file required")
	}
	if *formulaSrc == "" {
		fs.Usage()
		return fmt.Errorf("--formula required")
	}

	s, err := spec.LoadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("load spec: %w", err)
	}

	candidate, err := ltl.Parse(*formulaSrc)
	if err != nil {
		return fmt.Errorf("parse candidate: %w", err)
	}

	gs := boundary.NewGoalSet()
	if *goalsArg == "" {
		for i := range s.Goals {
			gs = append(gs, i)
		}
	} else {
		if gs, err = parseGoalSet(*goalsArg); err != nil {
			return err
		}
	}

	logger, err := opts.logger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	sat, real := opts.oracles(logger)
	checker := boundary.NewChecker(sat, real).
		WithTimeouts(opts.satTimeout, opts.realTimeout).
		WithLogger(logger)

	v, err := checker.Evaluate(context.Background(), s, gs, boundary.Candidate{
		Formula:  candidate,
		Strategy: boundary.StrategyCustom,
	})
	if err != nil {
		return err
	}

	if *outputJSON {
		data, err := json.MarshalIndent(verdictOutput(v), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printVerdict(v)
	return nil
}

func verdictOutput(v boundary.Verdict) map[string]any {
	out := map[string]any{
		"spec":           v.Spec,
		"goalSet":        []int(v.GoalSet),
		"candidate":      v.Candidate.Formula.String(),
		"inconsistent":   v.Inconsistent,
		"minimal":        v.Minimal,
		"nonTrivial":     v.NonTrivial,
		"unavoidable":    v.Unavoidable,
		"classification": v.Classification(),
		"status":         v.Status.String(),
	}
	if v.BlockingGoal >= 0 {
		out["blockingGoal"] = v.BlockingGoal
	}
	if v.Stage != "" {
		out["stage"] = v.Stage
	}
	if v.Err != nil {
		out["error"] = v.Err.Error()
	}
	return out
}

func printVerdict(v boundary.Verdict) {
	fmt.Println("=== Candidate Evaluation ===")
	fmt.Printf("Spec:       %s\n", v.Spec)
	fmt.Printf("Goals:      %s\n", formatGoalSet(v.GoalSet))
	fmt.Printf("Candidate:  %s\n", v.Candidate.Formula)
	fmt.Println()
	fmt.Printf("  inconsistent:  %v\n", v.Inconsistent)
	fmt.Printf("  minimal:       %v\n", v.Minimal)
	if v.BlockingGoal >= 0 {
		fmt.Printf("    blocking goal: %d (conflict persists without it)\n", v.BlockingGoal)
	}
	fmt.Printf("  non-trivial:   %v\n", v.NonTrivial)
	if v.IsBC {
		fmt.Printf("  unavoidable:   %v\n", v.Unavoidable)
	}
	fmt.Println()
	if v.Status == boundary.StatusIndeterminate {
		fmt.Printf("Result: indeterminate at %s stage (%v)\n", v.Stage, v.Err)
		return
	}
	fmt.Printf("Result: %s\n", v.Classification())
}
