package spec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderbira/benchmark-specs/ltl"
)

const minepumpJSON = `{
	"name": "minepump",
	"type": "LTL",
	"ins": ["highwater", "methane"],
	"outs": ["pumpon"],
	"domains": ["G (!highwater | !methane)"],
	"goals": ["G (highwater -> pumpon)", "G (methane -> !pumpon)"]
}`

func TestRead(t *testing.T) {
	s, err := Read(strings.NewReader(minepumpJSON))
	require.NoError(t, err)

	assert.Equal(t, "minepump", s.Name)
	assert.Equal(t, TypeLTL, s.Type)
	assert.Len(t, s.Domains, 1)
	assert.Len(t, s.Goals, 2)
	assert.Equal(t, "G (highwater -> pumpon)", s.Goals[0].String())
}

func TestReadRejectsUnknownAtom(t *testing.T) {
	bad := strings.Replace(minepumpJSON, "pumpon\"]", "pump\"]", 1)
	_, err := Read(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown atom")
}

func TestReadRejectsBadFormula(t *testing.T) {
	bad := strings.Replace(minepumpJSON, "G (methane -> !pumpon)", "G (methane -> !", 1)
	_, err := Read(strings.NewReader(bad))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Specification {
		return &Specification{
			Name:  "t",
			Type:  TypeLTL,
			Ins:   []string{"a"},
			Outs:  []string{"b"},
			Goals: []ltl.Formula{ltl.MustParse("G (a -> b)")},
		}
	}

	require.NoError(t, base().Validate())

	s := base()
	s.Type = "CTL"
	assert.Error(t, s.Validate())

	s = base()
	s.Goals = nil
	assert.Error(t, s.Validate())

	s = base()
	s.Outs = []string{"a"}
	assert.Error(t, s.Validate(), "ins and outs must be disjoint")

	s = base()
	s.Domains = []ltl.Formula{ltl.MustParse("G c")}
	assert.Error(t, s.Validate())
}

func TestConjunctions(t *testing.T) {
	s, err := Read(strings.NewReader(minepumpJSON))
	require.NoError(t, err)

	assert.Equal(t,
		"G (highwater -> pumpon) & G (methane -> !pumpon)",
		s.GoalConjunction(nil).String())
	assert.Equal(t, "G (methane -> !pumpon)", s.GoalConjunction([]int{1}).String())
	assert.Equal(t, "G (!highwater | !methane)", s.DomainConjunction().String())
	assert.Equal(t,
		"G (!highwater | !methane) -> G (highwater -> pumpon)",
		s.Implication([]int{0}).String())

	empty := &Specification{Name: "e", Type: TypeLTL, Goals: []ltl.Formula{ltl.True}}
	assert.Equal(t, "true", empty.DomainConjunction().String())
}

func TestFindSpecFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.json"), []byte(minepumpJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"name":"x"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("n/a"), 0o644))
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "also.json"), []byte(minepumpJSON), 0o644))

	paths, err := FindSpecFiles(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "good.json"), paths[0])
	assert.Equal(t, filepath.Join(sub, "also.json"), paths[1])
}
