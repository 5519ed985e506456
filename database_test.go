package latfix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func prop(relation Name, n int) Proposition {
	return Proposition{Relation: relation, Arg: NatTerm(n)}
}

func TestDatabaseInsertRejectsExactDuplicate(t *testing.T) {
	db := NewDatabase()
	assert.True(t, db.Insert(prop("foo", 1)))
	assert.False(t, db.Insert(prop("foo", 1)))
	assert.Len(t, db.Propositions(), 1)
}

func TestDatabaseInsertEvictsDominated(t *testing.T) {
	db := NewDatabase()
	assert.True(t, db.Insert(prop("foo", 1)))
	assert.True(t, db.Insert(prop("foo", 5)), "5 > 1 in Nat order, so foo(5) is inserted and evicts foo(1)")

	// foo(5) dominates foo(1): inserting foo(5) should have evicted foo(1)
	// since ComparePartial(5,1) == GT
	props := db.Propositions()
	assert.Len(t, props, 1)
	assert.Equal(t, prop("foo", 5), props[0])
}

func TestDatabaseInsertRejectsDominatedNewcomer(t *testing.T) {
	db := NewDatabase()
	assert.True(t, db.Insert(prop("foo", 9)))
	assert.False(t, db.Insert(prop("foo", 2)), "foo(9) already dominates foo(2)")
	assert.Len(t, db.Propositions(), 1)
}

// A relation whose argument sort is totally ordered (Nat, Bool, or a Tuple
// of those) can hold at most one proposition at a time: any two distinct
// concrete values of such a sort are always comparable under ComparePartial,
// so the anti-chain invariant collapses them to the dominant one as soon as
// both have been inserted, regardless of insertion order.
func TestDatabaseTotallyOrderedRelationCollapsesToOneFact(t *testing.T) {
	db := NewDatabase()
	a := Proposition{Relation: "pair", Arg: TupleTerm(TrueTerm(), NatTerm(1))}
	b := Proposition{Relation: "pair", Arg: TupleTerm(FalseTerm(), NatTerm(9))}
	assert.True(t, db.Insert(a))
	assert.False(t, db.Insert(b), "a dominates b: TrueTerm > FalseTerm decides the tuple order")
	assert.Equal(t, []Proposition{a}, db.Propositions())
}

func TestDatabaseDistinctRelationsDoNotInteract(t *testing.T) {
	db := NewDatabase()
	a := Proposition{Relation: "pair", Arg: TupleTerm(TrueTerm(), NatTerm(1))}
	c := Proposition{Relation: "other", Arg: TupleTerm(FalseTerm(), NatTerm(9))}
	assert.True(t, db.Insert(a))
	assert.True(t, db.Insert(c))
	assert.Len(t, db.Propositions(), 2)
}

func TestDatabaseDominates(t *testing.T) {
	db := NewDatabase()
	db.Insert(prop("foo", 5))
	assert.True(t, db.Dominates(prop("foo", 5)))
	assert.True(t, db.Dominates(prop("foo", 2)))
	assert.False(t, db.Dominates(prop("foo", 9)))
	assert.False(t, db.Dominates(prop("bar", 0)))
}

func TestDatabaseBucketsByRelation(t *testing.T) {
	db := NewDatabase()
	db.Insert(prop("foo", 1))
	db.Insert(prop("bar", 1))
	props := db.Propositions()
	assert.Len(t, props, 2)
}
