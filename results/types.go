// Package results defines the structured output format for detection runs
// and their persistence.
package results

import (
	"strings"
	"time"

	"github.com/alexanderbira/benchmark-specs/boundary"
	"github.com/alexanderbira/benchmark-specs/pipeline"
)

const SchemaVersion = "1.0.0"

// Report is the serializable form of one detection run.
type Report struct {
	Version   string    `json:"version"`
	RunID     string    `json:"runId"`
	Spec      string    `json:"spec"`
	Timestamp time.Time `json:"timestamp"`

	// Realizability of the whole specification: "realizable",
	// "unrealizable", or "indeterminate".
	Realizability string `json:"realizability"`

	// Cores are the minimal unrealizable goal subsets, as goal indices.
	Cores [][]int `json:"cores,omitempty"`

	Summary Summary  `json:"summary"`
	Records []Record `json:"records,omitempty"`

	// ElapsedSeconds is wall-clock run time.
	ElapsedSeconds float64 `json:"elapsedSeconds"`
}

// Summary provides quick overview counts.
type Summary struct {
	Evaluated     int `json:"evaluated"`
	BCs           int `json:"bcs"`
	UBCs          int `json:"ubcs"`
	Indeterminate int `json:"indeterminate"`
}

// Record flattens one verdict for storage.
type Record struct {
	GoalSet   []int  `json:"goalSet"`
	Candidate string `json:"candidate"`
	Strategy  string `json:"strategy"`
	NodeID    string `json:"nodeId,omitempty"`

	Inconsistent bool `json:"inconsistent"`
	Minimal      bool `json:"minimal"`
	NonTrivial   bool `json:"nonTrivial"`
	Unavoidable  bool `json:"unavoidable"`

	// Classification is "BC", "UBC", "not a BC", or "indeterminate".
	Classification string `json:"classification"`

	// BlockingGoal is the goal index that disproved minimality, -1 otherwise.
	BlockingGoal int `json:"blockingGoal"`

	Status string `json:"status"`
	Stage  string `json:"stage,omitempty"`
	Error  string `json:"error,omitempty"`
}

// FromRun converts a detection run into its serializable report.
func FromRun(rep *pipeline.Report) *Report {
	out := &Report{
		Version:        SchemaVersion,
		RunID:          rep.RunID,
		Spec:           rep.Spec,
		Timestamp:      time.Now().UTC(),
		Realizability:  strings.ToLower(rep.Realizability.String()),
		ElapsedSeconds: rep.Elapsed.Seconds(),
		Summary: Summary{
			Evaluated:     len(rep.Verdicts),
			BCs:           len(rep.BCs),
			UBCs:          len(rep.UBCs),
			Indeterminate: len(rep.Indeterminate),
		},
	}
	for _, core := range rep.Cores {
		out.Cores = append(out.Cores, []int(core))
	}
	for _, v := range rep.Verdicts {
		out.Records = append(out.Records, flatten(v))
	}
	return out
}

func flatten(v boundary.Verdict) Record {
	r := Record{
		GoalSet:        []int(v.GoalSet),
		Strategy:       v.Candidate.Strategy,
		NodeID:         v.Candidate.NodeID,
		Inconsistent:   v.Inconsistent,
		Minimal:        v.Minimal,
		NonTrivial:     v.NonTrivial,
		Unavoidable:    v.Unavoidable,
		Classification: v.Classification(),
		BlockingGoal:   v.BlockingGoal,
		Status:         v.Status.String(),
		Stage:          v.Stage,
	}
	if v.Candidate.Formula != nil {
		r.Candidate = v.Candidate.Formula.String()
	}
	if v.Err != nil {
		r.Error = v.Err.Error()
	}
	return r
}
