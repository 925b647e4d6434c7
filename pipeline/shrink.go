package pipeline

import (
	"context"
	"sort"

	"github.com/alexanderbira/benchmark-specs/boundary"
)

// shrink finds every minimal subset of {0..n-1} still satisfying pred,
// starting from the full set and repeatedly attempting single-element
// removals that preserve the property. The predicate is memoized, so each
// distinct subset is queried at most once. Results come back sorted by size
// then lexicographically.
//
// This is the one minimal-subset search in the engine; the checker's
// minimality predicate stays separate because its evidence and unsat-core
// shortcut semantics are fixed by the verdict protocol.
func shrink(ctx context.Context, n int, pred func(context.Context, boundary.GoalSet) bool) []boundary.GoalSet {
	if n == 0 {
		return nil
	}

	cache := map[string]bool{}
	memo := func(gs boundary.GoalSet) bool {
		key := gs.Key()
		if v, ok := cache[key]; ok {
			return v
		}
		v := pred(ctx, gs)
		cache[key] = v
		return v
	}

	full := make(boundary.GoalSet, n)
	for i := range full {
		full[i] = i
	}
	if !memo(full) {
		return nil
	}

	seen := map[string]bool{}
	minimal := map[string]boundary.GoalSet{}

	var walk func(gs boundary.GoalSet)
	walk = func(gs boundary.GoalSet) {
		if seen[gs.Key()] || ctx.Err() != nil {
			return
		}
		seen[gs.Key()] = true

		removedAny := false
		for _, i := range gs {
			sub := gs.Without(i)
			if len(sub) == 0 {
				continue
			}
			if memo(sub) {
				removedAny = true
				walk(sub)
			}
		}
		if !removedAny {
			minimal[gs.Key()] = gs
		}
	}
	walk(full)

	out := make([]boundary.GoalSet, 0, len(minimal))
	for _, gs := range minimal {
		out = append(out, gs)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
	return out
}
