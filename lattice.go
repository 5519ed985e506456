package latfix

// Ordering is the result of ComparePartial: the four-valued outcome of
// comparing two terms under the lattice partial order.
type Ordering uint8

const (
	LT Ordering = iota
	EQ
	GT
	Incomparable
)

// ComparePartial compares two well-sorted CONCRETE terms of the same
// sort. A sort mismatch is a bug, not Incomparable, and panics with
// KindSortMismatch. Encountering an unreduced Application is likewise a
// bug and panics with KindNonConcreteResult. Two Vars compare EQ if they
// share a name; any other comparison involving a Var is Incomparable.
func ComparePartial(a, b Term) Ordering {
	if !a.Sort.Equal(b.Sort) {
		panicInvariant(KindSortMismatch, "ComparePartial: sort mismatch: %s vs %s", a.Sort, b.Sort)
	}
	if a.Kind == KindApplication || b.Kind == KindApplication {
		panicInvariant(KindNonConcreteResult, "ComparePartial: unreduced application: %s vs %s", a, b)
	}
	if a.Kind == KindVar || b.Kind == KindVar {
		if a.Kind == KindVar && b.Kind == KindVar && a.Name == b.Name {
			return EQ
		}
		return Incomparable
	}

	switch a.Sort.Kind {
	case SortUnit:
		return EQ
	case SortBool:
		return compareBool(a, b)
	case SortNat:
		return compareNat(a, b)
	case SortTuple:
		return compareTuple(a, b)
	case SortPredicate:
		return comparePredicate(a, b)
	default:
		panicInvariant(KindSortMismatch, "ComparePartial: unknown sort kind %v", a.Sort.Kind)
		return Incomparable
	}
}

func compareBool(a, b Term) Ordering {
	av, bv := a.Ctor == CtorTrue, b.Ctor == CtorTrue
	switch {
	case av == bv:
		return EQ
	case av:
		return GT
	default:
		return LT
	}
}

func compareNat(a, b Term) Ordering {
	for {
		switch {
		case a.Ctor == CtorZero && b.Ctor == CtorZero:
			return EQ
		case a.Ctor == CtorZero:
			return LT
		case b.Ctor == CtorZero:
			return GT
		default:
			a, b = a.Args[0], b.Args[0]
		}
	}
}

// comparePredicate compares two PredicateSort-tagged constructor terms.
// CtorAtom has no built-in ordering: two atoms are EQ only if they share
// the same identity, and Incomparable otherwise, which is what lets a
// relation over an atom-valued sort hold several live, mutually
// non-dominating facts at once (unlike Unit/Bool/Nat/Tuple, which are
// total orders). Any other constructor tag falls back to structural
// comparison of its arguments.
func comparePredicate(a, b Term) Ordering {
	if a.Ctor != b.Ctor || len(a.Args) != len(b.Args) {
		return Incomparable
	}
	if a.Ctor == CtorAtom {
		if a.Atom == b.Atom {
			return EQ
		}
		return Incomparable
	}
	return compareArgsLex(a.Args, b.Args)
}

func compareTuple(a, b Term) Ordering {
	if len(a.Args) != len(b.Args) {
		panicInvariant(KindSortMismatch, "ComparePartial: tuple arity mismatch: %d vs %d", len(a.Args), len(b.Args))
	}
	return compareArgsLex(a.Args, b.Args)
}

// compareArgsLex implements "first non-EQ decides": components are
// compared left to right; the first one that is not EQ determines the
// overall result, whether that result is LT/GT (decisive) or Incomparable
//.
func compareArgsLex(as, bs []Term) Ordering {
	for i := range as {
		if c := ComparePartial(as[i], bs[i]); c != EQ {
			return c
		}
	}
	return EQ
}

// ComparePartialProposition lifts ComparePartial to propositions:
// p >= q iff they share a relation name and p.Arg >= q.Arg; otherwise
// Incomparable.
func ComparePartialProposition(a, b Proposition) Ordering {
	if a.Relation != b.Relation {
		return Incomparable
	}
	return ComparePartial(a.Arg, b.Arg)
}
