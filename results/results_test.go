package results

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderbira/benchmark-specs/boundary"
	"github.com/alexanderbira/benchmark-specs/ltl"
	"github.com/alexanderbira/benchmark-specs/oracle"
	"github.com/alexanderbira/benchmark-specs/pipeline"
)

func sampleRun() *pipeline.Report {
	bc := boundary.Verdict{
		Spec:         "minepump",
		GoalSet:      boundary.GoalSet{0, 2},
		Candidate:    boundary.Candidate{Formula: ltl.MustParse("F (highwater & methane)"), Strategy: boundary.StrategyPattern},
		Inconsistent: true,
		Minimal:      true,
		NonTrivial:   true,
		IsBC:         true,
		BlockingGoal: -1,
	}
	stuck := boundary.Verdict{
		Spec:         "minepump",
		GoalSet:      boundary.GoalSet{0, 2},
		Candidate:    boundary.Candidate{Formula: ltl.MustParse("F !pumpon"), Strategy: boundary.StrategyPattern},
		BlockingGoal: -1,
		Status:       boundary.StatusIndeterminate,
		Stage:        boundary.StageInconsistency,
		Err:          errors.New("sat oracle timed out"),
	}
	return &pipeline.Report{
		RunID:         "run-1",
		Spec:          "minepump",
		Realizability: oracle.Unrealizable,
		Cores:         []boundary.GoalSet{{0, 2}},
		Verdicts:      []boundary.Verdict{bc, stuck},
		BCs:           []boundary.Verdict{bc},
		Indeterminate: []boundary.Verdict{stuck},
		Elapsed:       1500 * time.Millisecond,
	}
}

func TestFromRunFlattens(t *testing.T) {
	rep := FromRun(sampleRun())

	assert.Equal(t, SchemaVersion, rep.Version)
	assert.Equal(t, "run-1", rep.RunID)
	assert.Equal(t, "unrealizable", rep.Realizability)
	assert.Equal(t, [][]int{{0, 2}}, rep.Cores)
	assert.Equal(t, Summary{Evaluated: 2, BCs: 1, Indeterminate: 1}, rep.Summary)
	assert.InDelta(t, 1.5, rep.ElapsedSeconds, 1e-9)

	require.Len(t, rep.Records, 2)
	assert.Equal(t, "F (highwater & methane)", rep.Records[0].Candidate)
	assert.Equal(t, "BC", rep.Records[0].Classification)
	assert.Equal(t, "confirmed", rep.Records[0].Status)
	assert.Equal(t, "indeterminate", rep.Records[1].Classification)
	assert.Equal(t, "inconsistency", rep.Records[1].Stage)
	assert.Equal(t, "sat oracle timed out", rep.Records[1].Error)
}

func TestJSONRoundTrip(t *testing.T) {
	rep := FromRun(sampleRun())
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, WriteJSON(rep, path))
	got, err := ReadJSON(path)
	require.NoError(t, err)

	assert.Equal(t, rep.RunID, got.RunID)
	assert.Equal(t, rep.Summary, got.Summary)
	assert.Equal(t, rep.Records, got.Records)
}

func TestReadJSONRejectsForeignSchemaVersion(t *testing.T) {
	rep := FromRun(sampleRun())
	rep.Version = "2.0.0"
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSON(rep, path))

	_, err := ReadJSON(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version")
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	rep := FromRun(sampleRun())
	require.NoError(t, store.SaveReport(rep))

	got, err := store.GetReport(rep.RunID)
	require.NoError(t, err)
	assert.Equal(t, rep.Spec, got.Spec)
	assert.Equal(t, rep.Realizability, got.Realizability)
	assert.Equal(t, rep.Cores, got.Cores)
	assert.Equal(t, rep.Summary, got.Summary)
	assert.Equal(t, rep.Records, got.Records)

	runs, err := store.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, rep.RunID, runs[0].RunID)
	assert.Equal(t, 1, runs[0].BCs)
}
