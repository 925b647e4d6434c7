package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "check":
		if err := check(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "cores":
		if err := cores(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "pipeline":
		if err := runPipeline(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "sweep":
		if err := sweep(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "batch":
		if err := batch(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("bcfind version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`bcfind - boundary condition detection for reactive specifications

Usage:
  bcfind <command> [options]

Commands:
  check      Evaluate one candidate formula against a specification
  cores      Extract minimal unrealizable goal subsets
  pipeline   Run the full detection pipeline on one specification
  sweep      Evaluate candidates across goal subsets
  batch      Run the pipeline over a directory of specifications
  help       Show this help message
  version    Show version information

Examples:
  # Check a hand-written candidate against goals 0 and 2
  bcfind check minepump.json --formula "F (highwater & methane)" --goals 0,2

  # Extract the unrealizable cores
  bcfind cores minepump.json

  # Full run with refinement interpolation, persisted to SQLite
  bcfind pipeline minepump.json --refinements refinements.csv --db runs.db

  # Evaluate pattern candidates against every singleton goal set
  bcfind sweep minepump.json --singletons

  # Run the pipeline over a benchmark directory
  bcfind batch specs/ --output-dir reports/

For command-specific help, run:
  bcfind <command> --help`)
}
