package boundary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullSet(t *testing.T) {
	sets, err := FullSet{}.GoalSets(4)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, GoalSet{0, 1, 2, 3}, sets[0])

	_, err = FullSet{}.GoalSets(0)
	assert.Error(t, err)
}

func TestSingletons(t *testing.T) {
	sets, err := Singletons{}.GoalSets(3)
	require.NoError(t, err)
	require.Len(t, sets, 3)

	covered := map[int]int{}
	for _, gs := range sets {
		require.Len(t, gs, 1)
		covered[gs[0]]++
	}
	assert.Equal(t, map[int]int{0: 1, 1: 1, 2: 1}, covered)
}

func binomial(n, k int) int {
	if k > n {
		return 0
	}
	out := 1
	for i := 0; i < k; i++ {
		out = out * (n - i) / (i + 1)
	}
	return out
}

func TestSubsetsCardinality(t *testing.T) {
	for _, tc := range []struct{ n, max int }{
		{4, 2}, {5, 3}, {3, 3}, {6, 1}, {3, 9},
	} {
		sets, err := Subsets{MaxGoals: tc.max}.GoalSets(tc.n)
		require.NoError(t, err)

		max := tc.max
		if max > tc.n {
			max = tc.n
		}
		want := 0
		for i := 1; i <= max; i++ {
			want += binomial(tc.n, i)
		}
		assert.Len(t, sets, want, "n=%d max=%d", tc.n, tc.max)

		seen := map[string]bool{}
		for _, gs := range sets {
			require.NoError(t, gs.Validate(tc.n))
			require.LessOrEqual(t, len(gs), max)
			require.False(t, seen[gs.Key()], "duplicate subset %v", gs)
			seen[gs.Key()] = true
		}
	}
}

func TestSubsetsRequiresBound(t *testing.T) {
	// The zero value must not default to the exponential full enumeration.
	_, err := Subsets{}.GoalSets(4)
	require.Error(t, err)

	_, err = Subsets{MaxGoals: -1}.GoalSets(4)
	require.Error(t, err)
}

func TestSubsetsOrdering(t *testing.T) {
	sets, err := Subsets{MaxGoals: 2}.GoalSets(3)
	require.NoError(t, err)

	// Increasing size, lexicographic within a size.
	want := []GoalSet{{0}, {1}, {2}, {0, 1}, {0, 2}, {1, 2}}
	assert.Equal(t, want, sets)
}

func TestIndexSets(t *testing.T) {
	sets, err := IndexSets{Sets: [][]int{{2, 0}, {1}}}.GoalSets(3)
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, GoalSet{0, 2}, sets[0], "indices come back sorted")
	assert.Equal(t, GoalSet{1}, sets[1])

	_, err = IndexSets{Sets: [][]int{{0, 3}}}.GoalSets(3)
	assert.Error(t, err, "out of range")

	_, err = IndexSets{Sets: [][]int{{1, 1}}}.GoalSets(3)
	assert.Error(t, err, "duplicate")
}

func TestGoalSetHelpers(t *testing.T) {
	gs := NewGoalSet(2, 0, 1)
	assert.Equal(t, GoalSet{0, 1, 2}, gs)
	assert.True(t, gs.Contains(1))
	assert.False(t, gs.Contains(3))
	assert.Equal(t, GoalSet{0, 2}, gs.Without(1))
	assert.Equal(t, GoalSet{0, 1, 2}, gs, "Without must not mutate")
}
