package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/alexanderbira/benchmark-specs/pipeline"
	"github.com/alexanderbira/benchmark-specs/spec"
)

func cores(args []string) error {
	fs := flag.NewFlagSet("cores", flag.ExitOnError)
	outputJSON := fs.Bool("json", false, "Output cores as JSON")
	var opts pipelineFlags
	opts.register(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: bcfind cores <spec.json> [options]

Extract the minimal unrealizable goal subsets of a specification: the goal
combinations that stay unrealizable under the domain assumptions and from
which no single goal can be dropped.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  bcfind cores minepump.json
  bcfind cores minepump.json --real-timeout 30s --json
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

	found, err := d.Cores(context.Background(), s)
	if errors.Is(err, pipeline.ErrSpecRealizable) {
		fmt.Printf("%s is realizable: no unrealizable cores\n", s.Name)
		return nil
	}
	if err != nil {
		return err
	}

	if *outputJSON {
		out := make([][]int, 0, len(found))
		for _, gs := range found {
			out = append(out, []int(gs))
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("=== Unrealizable Cores: %s ===\n", s.Name)
	if len(found) == 0 {
		fmt.Println("No unrealizable goal subset could be confirmed.")
		return nil
	}
	for _, gs := range found {
		fmt.Printf("  %s\n", formatGoalSet(gs))
		for _, i := range gs {
			fmt.Printf("    goal %d: %s\n", i, s.Goals[i])
		}
	}
	return nil
}
