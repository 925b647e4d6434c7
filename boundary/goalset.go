// Package boundary implements the boundary-condition decision engine: the
// four-predicate verdict checker and the pluggable candidate and goal-set
// generation strategies that feed it.
package boundary

import (
	"fmt"
	"sort"
)

// GoalSet is a set of unique indices into a specification's goals,
// kept sorted for deterministic iteration. Order carries no meaning.
type GoalSet []int

// NewGoalSet returns a sorted copy of indices. Duplicates are preserved
// so that Validate can reject them.
func NewGoalSet(indices ...int) GoalSet {
	gs := make(GoalSet, len(indices))
	copy(gs, indices)
	sort.Ints(gs)
	return gs
}

// InvalidGoalSetError reports an out-of-range or duplicate goal index.
// It is a caller error, rejected before any oracle call.
type InvalidGoalSetError struct {
	GoalSet  GoalSet
	NumGoals int
	Reason   string
}

func (e *InvalidGoalSetError) Error() string {
	return fmt.Sprintf("invalid goal set %v over %d goals: %s", e.GoalSet, e.NumGoals, e.Reason)
}

// Validate checks that the set is non-empty with unique indices in
// [0, numGoals).
func (gs GoalSet) Validate(numGoals int) error {
	if len(gs) == 0 {
		return &InvalidGoalSetError{GoalSet: gs, NumGoals: numGoals, Reason: "empty"}
	}
	seen := make(map[int]bool, len(gs))
	for _, i := range gs {
		if i < 0 || i >= numGoals {
			return &InvalidGoalSetError{GoalSet: gs, NumGoals: numGoals,
				Reason: fmt.Sprintf("index %d out of range", i)}
		}
		if seen[i] {
			return &InvalidGoalSetError{GoalSet: gs, NumGoals: numGoals,
				Reason: fmt.Sprintf("duplicate index %d", i)}
		}
		seen[i] = true
	}
	return nil
}

// Contains reports whether the set holds index i.
func (gs GoalSet) Contains(i int) bool {
	for _, j := range gs {
		if j == i {
			return true
		}
	}
	return false
}

// Without returns a copy of the set with index i removed.
func (gs GoalSet) Without(i int) GoalSet {
	out := make(GoalSet, 0, len(gs)-1)
	for _, j := range gs {
		if j != i {
			out = append(out, j)
		}
	}
	return out
}

// Key returns a canonical string form usable as a map key.
func (gs GoalSet) Key() string { return fmt.Sprint([]int(gs)) }

// GoalSetGenerator produces the sequence of goal index-subsets one verdict
// sweep tests against. Generators are pure: the same numGoals always yields
// the same sequence, in the same order.
type GoalSetGenerator interface {
	GoalSets(numGoals int) ([]GoalSet, error)
}

// IndexSets replays an explicit list of index sets verbatim, after
// validating each one. Useful when goal conflicts are already suspected.
type IndexSets struct {
	Sets [][]int
}

// GoalSets validates and returns the configured sets.
func (g IndexSets) GoalSets(numGoals int) ([]GoalSet, error) {
	out := make([]GoalSet, 0, len(g.Sets))
	for _, indices := range g.Sets {
		gs := NewGoalSet(indices...)
		if err := gs.Validate(numGoals); err != nil {
			return nil, err
		}
		out = append(out, gs)
	}
	return out, nil
}

// Subsets enumerates every non-empty subset of {0..numGoals-1} with size at
// most MaxGoals, in increasing size order with lexicographic ties. Smaller
// sets come first because the checker's minimality predicate is cheaper to
// falsify on them, and the smallest conflicting sets are the interesting
// ones.
type Subsets struct {
	// MaxGoals bounds subset size. It is mandatory: without a bound the
	// enumeration is exponential in the number of goals. Values above
	// numGoals are clamped.
	MaxGoals int
}

// GoalSets enumerates the bounded subsets.
func (g Subsets) GoalSets(numGoals int) ([]GoalSet, error) {
	if g.MaxGoals < 1 {
		return nil, fmt.Errorf("subsets: MaxGoals must be at least 1, got %d", g.MaxGoals)
	}
	if numGoals < 1 {
		return nil, fmt.Errorf("subsets: need at least one goal, have %d", numGoals)
	}
	max := g.MaxGoals
	if max > numGoals {
		max = numGoals
	}
	var out []GoalSet
	for size := 1; size <= max; size++ {
		combinations(numGoals, size, func(combo []int) {
			out = append(out, NewGoalSet(combo...))
		})
	}
	return out, nil
}

// Singletons emits one singleton set per goal, in index order.
type Singletons struct{}

// GoalSets emits the numGoals singleton sets.
func (Singletons) GoalSets(numGoals int) ([]GoalSet, error) {
	if numGoals < 1 {
		return nil, fmt.Errorf("singletons: need at least one goal, have %d", numGoals)
	}
	out := make([]GoalSet, numGoals)
	for i := range out {
		out[i] = GoalSet{i}
	}
	return out, nil
}

// FullSet emits exactly one set containing every goal index.
type FullSet struct{}

// GoalSets emits {0..numGoals-1}.
func (FullSet) GoalSets(numGoals int) ([]GoalSet, error) {
	if numGoals < 1 {
		return nil, fmt.Errorf("full set: need at least one goal, have %d", numGoals)
	}
	gs := make(GoalSet, numGoals)
	for i := range gs {
		gs[i] = i
	}
	return []GoalSet{gs}, nil
}

// combinations calls fn with each size-k subset of {0..n-1} in lexicographic
// order. The slice passed to fn is reused between calls.
func combinations(n, k int, fn func([]int)) {
	combo := make([]int, k)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == k {
			fn(combo)
			return
		}
		for i := start; i <= n-(k-depth); i++ {
			combo[depth] = i
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
}
