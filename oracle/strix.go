package oracle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/alexanderbira/benchmark-specs/ltl"
)

// StrixProcess is a RealizabilityOracle that shells out to the Strix
// synthesis tool. It runs one process per query with
//
//	strix -f <formula> --ins=<a,b> --outs=<c> -r
//
// and interprets the REALIZABLE/UNREALIZABLE marker on stdout. A context
// deadline bounds the process lifetime; a killed or failed run degrades to
// RealIndeterminate rather than an aborted search.
type StrixProcess struct {
	// Path is the strix binary to invoke (default "strix").
	Path string
	// ExtraArgs are appended to every invocation.
	ExtraArgs []string
	// Logger receives one debug entry per query. Nil disables logging.
	Logger *zap.Logger
}

// NewStrixProcess returns a realizability oracle backed by the strix binary
// found on PATH.
func NewStrixProcess(logger *zap.Logger) *StrixProcess {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StrixProcess{Path: "strix", Logger: logger}
}

// CheckRealizability runs one strix query for f over the ins/outs partition.
func (s *StrixProcess) CheckRealizability(ctx context.Context, f ltl.Formula, ins, outs []string) (RealResult, error) {
	path := s.Path
	if path == "" {
		path = "strix"
	}
	args := []string{
		"-f", f.String(),
		"--ins=" + strings.Join(ins, ","),
		"--outs=" + strings.Join(outs, ","),
		"-r",
	}
	args = append(args, s.ExtraArgs...)

	cmd := exec.CommandContext(ctx, path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	result := parseStrixOutput(stdout.String())

	if s.Logger != nil {
		s.Logger.Debug("strix query",
			zap.String("formula", f.String()),
			zap.Stringer("result", result),
			zap.Error(runErr))
	}

	if result != RealIndeterminate {
		// Strix may exit nonzero while still printing a verdict; trust the
		// marker when present.
		return result, nil
	}
	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return RealIndeterminate, wrapCtxErr(ctxErr)
		}
		return RealIndeterminate, errors.Join(ErrOracleFailure,
			fmt.Errorf("strix: %w (stderr: %s)", runErr, strings.TrimSpace(stderr.String())))
	}
	return RealIndeterminate, fmt.Errorf("strix: no verdict in output %q: %w",
		strings.TrimSpace(stdout.String()), ErrOracleFailure)
}

func parseStrixOutput(out string) RealResult {
	for _, line := range strings.Split(out, "\n") {
		switch strings.TrimSpace(line) {
		case "REALIZABLE":
			return Realizable
		case "UNREALIZABLE":
			return Unrealizable
		}
	}
	return RealIndeterminate
}
