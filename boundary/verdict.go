package boundary

// Status says how far an evaluation got.
type Status int

const (
	// StatusConfirmed means every predicate the protocol required was
	// answered by an oracle or decided syntactically.
	StatusConfirmed Status = iota
	// StatusIndeterminate means an oracle timed out or failed partway;
	// Stage records where, and Err carries the cause.
	StatusIndeterminate
)

func (s Status) String() string {
	if s == StatusConfirmed {
		return "confirmed"
	}
	return "indeterminate"
}

// Evaluation stages recorded in Verdict.Stage when an oracle degrades.
const (
	StageInconsistency  = "inconsistency"
	StageMinimality     = "minimality"
	StageUnavoidability = "unavoidability"
)

// Verdict is the immutable result of evaluating one
// (specification, goal set, candidate) cell: the four predicate booleans,
// the two derived classifications, and enough evidence to explain a
// negative answer without re-querying the oracles.
type Verdict struct {
	Spec      string
	GoalSet   GoalSet
	Candidate Candidate

	Inconsistent bool
	Minimal      bool
	NonTrivial   bool
	Unavoidable  bool

	// IsBC = Inconsistent ∧ Minimal ∧ NonTrivial.
	IsBC bool
	// IsUBC = IsBC ∧ Unavoidable.
	IsUBC bool

	// BlockingGoal is the goal index whose removal left the conjunction
	// unsatisfiable, disproving minimality. -1 when minimality held or was
	// never reached.
	BlockingGoal int

	Status Status
	// Stage is the evaluation stage at which the verdict went
	// indeterminate. Empty when Status is StatusConfirmed.
	Stage string
	// Err is the oracle error behind an indeterminate verdict.
	Err error
}

// derive fills the derived classification booleans.
func (v *Verdict) derive() {
	v.IsBC = v.Inconsistent && v.Minimal && v.NonTrivial
	v.IsUBC = v.IsBC && v.Unavoidable
}

// Classification renders the verdict the way result tables do.
func (v *Verdict) Classification() string {
	switch {
	case v.Status == StatusIndeterminate:
		return "indeterminate"
	case v.IsUBC:
		return "UBC"
	case v.IsBC:
		return "BC"
	default:
		return "not a BC"
	}
}
