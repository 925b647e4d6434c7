package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderbira/benchmark-specs/pipeline"
	"github.com/alexanderbira/benchmark-specs/refine"
	"github.com/alexanderbira/benchmark-specs/results"
	"github.com/alexanderbira/benchmark-specs/spec"
)

func batch(args []string) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	outputDir := fs.String("output-dir", "", "Write one JSON report per specification")
	dbPath := fs.String("db", "", "Persist all reports to a SQLite database")
	var opts pipelineFlags
	opts.register(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: bcfind batch <spec-dir> [options]

Run the detection pipeline over every specification JSON file under a
directory. Realizable and failing specifications are reported and skipped;
the sweep continues.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  bcfind batch specs/ --output-dir reports/
  bcfind batch specs/ --db runs.db --max-conjuncts 2
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("spec directory required")
	}

	paths, err := spec.FindSpecFiles(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("scan specs: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no specification files under %s", fs.Arg(0))
	}

	logger, err := opts.logger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	var engine refine.Engine
	if opts.refinementCSV != "" {
		rows, err := refine.ReadCSVFile(opts.refinementCSV)
		if err != nil {
			return fmt.Errorf("read refinements: %w", err)
		}
		engine = refine.StaticRows(rows)
	}

	var store *results.Store
	if *dbPath != "" {
		if store, err = results.NewStore(*dbPath); err != nil {
			return err
		}
		defer store.Close()
	}
	if *outputDir != "" {
		if err := os.MkdirAll(*outputDir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	fmt.Printf("=== Batch Detection: %d specifications ===\n\n", len(paths))
	var realizable, withBC, withUBC, failed int
	for _, path := range paths {
		s, err := spec.LoadFile(path)
		if err != nil {
			fmt.Printf("%-30s load failed: %v\n", filepath.Base(path), err)
			failed++
			continue
		}

		sat, real := opts.oracles(logger)
		d := pipeline.NewDetector(sat, real, opts.config()).WithLogger(logger)
		if engine != nil {
			d.WithRefinementEngine(engine)
		}

		run, err := d.Run(context.Background(), s)
		switch {
		case errors.Is(err, pipeline.ErrSpecRealizable):
			fmt.Printf("%-30s realizable\n", s.Name)
			realizable++
			continue
		case err != nil:
			fmt.Printf("%-30s failed: %v\n", s.Name, err)
			failed++
			continue
		}

		report := results.FromRun(run)
		fmt.Printf("%-30s %d BC, %d UBC (%d candidates, %.1fs)\n",
			s.Name, report.Summary.BCs, report.Summary.UBCs,
			report.Summary.Evaluated, report.ElapsedSeconds)
		if report.Summary.BCs > 0 {
			withBC++
		}
		if report.Summary.UBCs > 0 {
			withUBC++
		}

		if store != nil {
			if err := store.SaveReport(report); err != nil {
				return fmt.Errorf("save report for %s: %w", s.Name, err)
			}
		}
		if *outputDir != "" {
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".report.json"
			if err := results.WriteJSON(report, filepath.Join(*outputDir, name)); err != nil {
				return err
			}
		}
	}

	fmt.Println()
	fmt.Printf("Done: %d specs, %d realizable, %d with BCs, %d with UBCs, %d failed\n",
		len(paths), realizable, withBC, withUBC, failed)
	return nil
}
