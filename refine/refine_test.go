package refine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOperators(t *testing.T) {
	cases := map[string]string{
		"alw (p -> next q)":   "G (p -> X q)",
		"ev (a & b)":          "F (a & b)",
		"alw ev p":            "G F p",
		"G (p -> X q)":        "G (p -> X q)",
		"clever & everybody":  "clever & everybody", // word boundaries only
		"alw (ev p | next q)": "G (F p | X q)",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeOperators(in), "normalize %q", in)
	}
}

const sampleCSV = `node_id,refinement,is_realizable
n0,"[""alw (p -> next q)"", ""ev r""]",true
n1,"alw !p",false
n2,"[]",true
n3,"[""not a formula (""]",true
n4,"G (p & q)",TRUE
`

func TestReadCSV(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(sampleCSV), DefaultCSVConfig())
	require.NoError(t, err)

	// n0 expands to two rows, n1 is kept (unrealizable, filtered later by
	// the generator), n2 is empty, n3 is malformed and skipped, n4 is one.
	require.Len(t, rows, 4)

	assert.Equal(t, "n0", rows[0].NodeID)
	assert.Equal(t, "G (p -> X q)", rows[0].Formula.String())
	assert.True(t, rows[0].Realizable)

	assert.Equal(t, "n0", rows[1].NodeID)
	assert.Equal(t, "F r", rows[1].Formula.String())

	assert.Equal(t, "n1", rows[2].NodeID)
	assert.False(t, rows[2].Realizable)

	assert.Equal(t, "n4", rows[3].NodeID)
	assert.True(t, rows[3].Realizable)
}

func TestReadCSVMissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("node_id,refinement\nn0,p\n"), DefaultCSVConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is_realizable")
}
