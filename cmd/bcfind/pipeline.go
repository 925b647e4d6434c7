package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/alexanderbira/benchmark-specs/pipeline"
	"github.com/alexanderbira/benchmark-specs/refine"
	"github.com/alexanderbira/benchmark-specs/results"
	"github.com/alexanderbira/benchmark-specs/spec"
)

func runPipeline(args []string) error {
	fs := flag.NewFlagSet("pipeline", flag.ExitOnError)
	outputJSON := fs.Bool("json", false, "Output the report as JSON")
	outputFile := fs.String("output", "", "Write the JSON report to file")
	dbPath := fs.String("db", "", "Persist the report to a SQLite database")
	var opts pipelineFlags
	opts.register(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: bcfind pipeline <spec.json> [options]

Run the full detection pipeline: realizability gate, unrealizable-core
extraction, pattern search for boundary conditions over each core, and (with
--refinements) interpolation search for unavoidable boundary conditions.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Pattern search only
  bcfind pipeline minepump.json

  # With the interpolation phase and persistence
  bcfind pipeline minepump.json --refinements refinements.csv --db runs.db

  # Wider patterns, stop at the first hit
  bcfind pipeline minepump.json --max-conjuncts 3 --stop-first
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

	logger, err := opts.logger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	sat, real := opts.oracles(logger)
	d := pipeline.NewDetector(sat, real, opts.config()).WithLogger(logger)

	if opts.refinementCSV != "" {
		rows, err := refine.ReadCSVFile(opts.refinementCSV)
		if err != nil {
			return fmt.Errorf("read refinements: %w", err)
		}
		d.WithRefinementEngine(refine.StaticRows(rows))
	}

	run, err := d.Run(context.Background(), s)
	if err != nil && !errors.Is(err, pipeline.ErrSpecRealizable) {
		return err
	}

	report := results.FromRun(run)
	if err := emitReport(report, *outputJSON, *outputFile, *dbPath); err != nil {
		return err
	}
	if !*outputJSON && *outputFile == "" {
		printReport(report)
	}
	return nil
}

// emitReport handles the persistence and JSON output options shared by the
// pipeline and batch verbs.
func emitReport(report *results.Report, asJSON bool, outputFile, dbPath string) error {
	if dbPath != "" {
		store, err := results.NewStore(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.SaveReport(report); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
	}
	if outputFile != "" {
		if err := results.WriteJSON(report, outputFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", outputFile)
		return nil
	}
	if asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}
	return nil
}

func printReport(r *results.Report) {
	fmt.Printf("=== Detection Report: %s ===\n", r.Spec)
	fmt.Printf("Run:            %s\n", r.RunID)
	fmt.Printf("Realizability:  %s\n", r.Realizability)
	if r.Realizability == "realizable" {
		fmt.Println("Specification is realizable: nothing to search.")
		return
	}
	if len(r.Cores) > 0 {
		fmt.Printf("Cores:          ")
		for i, core := range r.Cores {
			if i > 0 {
				fmt.Print(" ")
			}
			fmt.Print(formatGoalSet(core))
		}
		fmt.Println()
	}
	fmt.Printf("Evaluated:      %d candidates in %.2fs\n", r.Summary.Evaluated, r.ElapsedSeconds)
	fmt.Printf("Found:          %d BC, %d UBC, %d indeterminate\n",
		r.Summary.BCs, r.Summary.UBCs, r.Summary.Indeterminate)

	for _, rec := range r.Records {
		if rec.Classification == "not a BC" {
			continue
		}
		fmt.Println()
		fmt.Printf("  [%s] %s\n", rec.Classification, rec.Candidate)
		fmt.Printf("    goals %s, via %s", formatGoalSet(rec.GoalSet), rec.Strategy)
		if rec.NodeID != "" {
			fmt.Printf(" (node %s)", rec.NodeID)
		}
		fmt.Println()
		if rec.Status == "indeterminate" {
			fmt.Printf("    indeterminate at %s stage: %s\n", rec.Stage, rec.Error)
		}
	}
}
