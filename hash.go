package latfix

import (
	"encoding/binary"

	uuid "github.com/satori/go.uuid"
	"github.com/spaolacci/murmur3"
)

// idFromInts packs a murmur3 128-bit sum into a uuid.UUID so content
// hashes can serve directly as map keys.
func idFromInts(a, b uint64) uuid.UUID {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[:8], a)
	binary.LittleEndian.PutUint64(buf[8:], b)
	var u uuid.UUID
	_ = u.UnmarshalBinary(buf)
	return u
}

// writeTerm hashes a term's structure: kind, sort tag, and (for Var) its
// name or (for Constructor/Application) its tag/function name followed by
// each argument, recursively.
func writeTerm(h murmur3.Hash128, t Term) {
	_, _ = h.Write([]byte{byte(t.Kind)})
	writeSort(h, t.Sort)
	switch t.Kind {
	case KindVar:
		_, _ = h.Write([]byte(t.Name))
	case KindConstructor:
		_, _ = h.Write([]byte{byte(t.Ctor)})
		if t.Ctor == CtorAtom {
			_, _ = h.Write([]byte(t.Atom))
		}
		for _, a := range t.Args {
			writeTerm(h, a)
		}
	case KindApplication:
		_, _ = h.Write([]byte(t.Function))
		for _, a := range t.Args {
			writeTerm(h, a)
		}
	}
}

func writeSort(h murmur3.Hash128, s Sort) {
	_, _ = h.Write([]byte{byte(s.Kind)})
	switch s.Kind {
	case SortTuple:
		_, _ = h.Write([]byte{byte(s.Ordering)})
		for _, e := range s.Elems {
			writeSort(h, e)
		}
	case SortPredicate:
		_, _ = h.Write([]byte(s.Predicate))
	}
}

func writeProposition(h murmur3.Hash128, p Proposition) {
	_, _ = h.Write([]byte(p.Relation))
	writeTerm(h, p.Arg)
}

// hashProposition content-addresses a proposition: two propositions hash
// equal iff they are structurally identical.
func hashProposition(p Proposition) uuid.UUID {
	h := murmur3.New128()
	writeProposition(h, p)
	a, b := h.Sum128()
	return idFromInts(a, b)
}

// writeRule hashes a clause tree, used both to content-address a
// PartialRule (so a residual rule re-derived two different ways collapses
// to one registration) and, recursively, as part of that hash.
func writeRule(h murmur3.Hash128, r *Rule) {
	if r == nil {
		_, _ = h.Write([]byte{0xff})
		return
	}
	_, _ = h.Write([]byte{byte(r.Kind)})
	switch r.Kind {
	case ClauseQuantification:
		_, _ = h.Write([]byte(r.Quant.Name))
		writeSort(h, r.Quant.Sort)
	case ClausePremise:
		writeProposition(h, r.Premise)
	case ClauseLet:
		_, _ = h.Write([]byte(r.LetName))
		writeTerm(h, r.LetTerm)
	case ClauseFilter:
		writeTerm(h, r.Cond)
	case ClauseConclusion:
		writeProposition(h, r.Conclusion)
	}
	writeRule(h, r.Rest)
}

func hashPartialRule(pr PartialRule) uuid.UUID {
	h := murmur3.New128()
	_, _ = h.Write([]byte(pr.Name))
	writeRule(h, pr.Body)
	a, b := h.Sum128()
	return idFromInts(a, b)
}

// patchID content-addresses a Patch for logging and for the Queue's
// duplicate-apply-patch collapsing.
func patchID(p Patch) uuid.UUID {
	switch p.Kind {
	case PatchConclusion:
		return hashProposition(p.Conclusion)
	case PatchApply:
		return hashPartialRule(p.Apply)
	default:
		return uuid.Nil
	}
}
