package ltl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	cases := []string{
		"a",
		"true",
		"false",
		"!a",
		"a & b",
		"a & b & c",
		"a | b",
		"a -> b",
		"a <-> b",
		"G a",
		"F (a & !b)",
		"X a",
		"a U b",
		"a W b",
		"a R b",
		"G (p -> X q)",
		"F (c1 & (!c2 U G !c1))",
		"(a | b) & c",
		"!(a & b)",
	}
	for _, in := range cases {
		f, err := Parse(in)
		require.NoError(t, err, "parse %q", in)

		again, err := Parse(f.String())
		require.NoError(t, err, "reparse %q from %q", f.String(), in)
		assert.Equal(t, f.String(), again.String(), "round trip %q", in)
	}
}

func TestParsePrecedence(t *testing.T) {
	cases := map[string]string{
		"a & b | c":    "(a & b) | c",
		"a | b -> c":   "(a | b) -> c",
		"a -> b <-> c": "(a -> b) <-> c",
		"G a & b":      "(G a) & b",
		"!a & b":       "(!a) & b",
		"a U b & c":    "(a U b) & c",
		"F a U b":      "(F a) U b",
		"a -> b -> c":  "a -> (b -> c)",
		"a && b":       "a & b",
		"a || b":       "a | b",
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, "parse %q", in)
		expect, err := Parse(want)
		require.NoError(t, err, "parse %q", want)
		assert.Equal(t, expect.String(), got.String(), "%q should parse as %q", in, want)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "a &", "(a", "a b", "& a", "a @ b"} {
		_, err := Parse(in)
		assert.Error(t, err, "parse %q", in)
	}
}

func TestAtoms(t *testing.T) {
	f := MustParse("G (p -> X q) & F (p & !r)")
	assert.Equal(t, []string{"p", "q", "r"}, Atoms(f))
	assert.Empty(t, Atoms(True))
}

func TestIsPropositional(t *testing.T) {
	assert.True(t, IsPropositional(MustParse("a & (b | !c) -> d")))
	assert.False(t, IsPropositional(MustParse("G a")))
	assert.False(t, IsPropositional(MustParse("a & F b")))
	assert.False(t, IsPropositional(MustParse("a U b")))
}

func TestEquivalentReordering(t *testing.T) {
	assert.True(t, Equivalent(MustParse("a & b & c"), MustParse("c & (b & a)")))
	assert.True(t, Equivalent(MustParse("a | b"), MustParse("b | a")))
	assert.True(t, Equivalent(MustParse("!!a"), MustParse("a")))
	assert.False(t, Equivalent(MustParse("a & b"), MustParse("a | b")))
	assert.False(t, Equivalent(MustParse("a -> b"), MustParse("b -> a")))
}

func TestIsNegationOf(t *testing.T) {
	g1 := MustParse("G a")
	g2 := MustParse("F b")

	// Non-triviality symmetry: the negated goal conjunction matches in
	// either conjunct order.
	assert.True(t, IsNegationOf(MustParse("!(G a & F b)"), AndAll(g1, g2)))
	assert.True(t, IsNegationOf(MustParse("!(F b & G a)"), AndAll(g1, g2)))
	assert.False(t, IsNegationOf(MustParse("!(G a)"), AndAll(g1, g2)))
	assert.False(t, IsNegationOf(MustParse("G a & F b"), AndAll(g1, g2)))

	// Double negation on the tested side.
	assert.True(t, IsNegationOf(g1, Negate(g1)))
}

func TestNegate(t *testing.T) {
	a := Atom("a")
	assert.Equal(t, "!a", Negate(a).String())
	assert.Equal(t, "a", Negate(Negate(a)).String())
}

func TestAndAllCollapse(t *testing.T) {
	assert.Equal(t, "true", AndAll().String())
	assert.Equal(t, "a", AndAll(Atom("a")).String())
	assert.Equal(t, "a & b", AndAll(Atom("a"), Atom("b")).String())
	assert.Equal(t, "false", OrAll().String())
}
