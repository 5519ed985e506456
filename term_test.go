package latfix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNatTermRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7} {
		got := NatValue(NatTerm(n))
		assert.Equal(t, n, got)
	}
}

func TestNatValuePanicsOnMalformed(t *testing.T) {
	malformed := Term{Kind: KindVar, Name: "x", Sort: NatSort()}
	require.Panics(t, func() { NatValue(malformed) })
}

func TestIsConcrete(t *testing.T) {
	assert.True(t, NatTerm(3).IsConcrete())
	assert.True(t, TupleTerm(NatTerm(1), TrueTerm()).IsConcrete())
	assert.False(t, VarTerm("X", NatSort()).IsConcrete())
	assert.False(t, AppTerm("plus", NatSort(), NatTerm(1), NatTerm(2)).IsConcrete())
	// a constructor with a non-concrete argument is itself non-concrete
	assert.False(t, SucTerm(VarTerm("X", NatSort())).IsConcrete())
}

func TestSortEqual(t *testing.T) {
	assert.True(t, NatSort().Equal(NatSort()))
	assert.False(t, NatSort().Equal(BoolSort()))
	assert.True(t, TupleSort(NatSort(), BoolSort()).Equal(TupleSort(NatSort(), BoolSort())))
	assert.False(t, TupleSort(NatSort(), BoolSort()).Equal(TupleSort(BoolSort(), NatSort())))
	assert.True(t, PredicateSort("edge").Equal(PredicateSort("edge")))
	assert.False(t, PredicateSort("edge").Equal(PredicateSort("path")))
}

func TestPartialRuleIsAddressable(t *testing.T) {
	rule := ConcludeRule(Proposition{Relation: "foo", Arg: UnitTerm()})
	pr := PartialRule{Name: "r1", Body: rule}
	assert.Equal(t, "r1", pr.Name)
	assert.Equal(t, rule, pr.Body)
}
