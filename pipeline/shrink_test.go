package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderbira/benchmark-specs/boundary"
)

func contains(gs boundary.GoalSet, want ...int) bool {
	have := map[int]bool{}
	for _, i := range gs {
		have[i] = true
	}
	for _, w := range want {
		if !have[w] {
			return false
		}
	}
	return true
}

func TestShrinkSingleCore(t *testing.T) {
	calls := map[string]int{}
	cores := shrink(context.Background(), 4, func(_ context.Context, gs boundary.GoalSet) bool {
		calls[gs.Key()]++
		return contains(gs, 0, 2)
	})

	assert.Equal(t, []boundary.GoalSet{{0, 2}}, cores)
	for key, n := range calls {
		assert.Equal(t, 1, n, "subset %s probed more than once", key)
	}
}

func TestShrinkMultipleCores(t *testing.T) {
	cores := shrink(context.Background(), 4, func(_ context.Context, gs boundary.GoalSet) bool {
		return contains(gs, 0) || contains(gs, 1, 2)
	})
	assert.Equal(t, []boundary.GoalSet{{0}, {1, 2}}, cores)
}

func TestShrinkFullSetFails(t *testing.T) {
	probes := 0
	cores := shrink(context.Background(), 3, func(_ context.Context, gs boundary.GoalSet) bool {
		probes++
		return false
	})
	assert.Empty(t, cores)
	assert.Equal(t, 1, probes)
}

func TestShrinkZeroGoals(t *testing.T) {
	cores := shrink(context.Background(), 0, func(_ context.Context, gs boundary.GoalSet) bool {
		t.Fatal("predicate should not be consulted")
		return false
	})
	assert.Empty(t, cores)
}
