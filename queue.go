package latfix

import (
	"container/heap"

	uuid "github.com/satori/go.uuid"
)

// PatchKind discriminates the two variants of Patch.
type PatchKind uint8

const (
	PatchConclusion PatchKind = iota
	PatchApply
)

// Patch is the worklist element: either a new fact to learn, or a
// partial rule that is live and should try to match its next premise
// against the current database.
type Patch struct {
	Kind       PatchKind
	Conclusion Proposition // PatchConclusion
	Apply      PartialRule // PatchApply
}

func ConclusionPatch(p Proposition) Patch { return Patch{Kind: PatchConclusion, Conclusion: p} }
func ApplyPatch(pr PartialRule) Patch     { return Patch{Kind: PatchApply, Apply: pr} }

// PatchOrder is a caller-supplied total preorder on patches: negative
// means a should pop before b, positive means b should pop before a,
// zero is a tie. The engine is correct for any such
// order; different choices only affect performance and intermediate
// queue size. DefaultPatchOrder treats every pair as tied, which lets the
// Queue's built-in tie-break rule (FIFO among conclusions, LIFO among
// applies — the safe default names) decide.
type PatchOrder func(a, b Patch) int

func DefaultPatchOrder(a, b Patch) int { return 0 }

type patchEntry struct {
	patch Patch
	seq   uint64
}

type patchHeap struct {
	entries []patchEntry
	order   PatchOrder
}

func (h *patchHeap) Len() int { return len(h.entries) }

func (h *patchHeap) Less(i, j int) bool {
	a, b := h.entries[i], h.entries[j]
	if c := h.order(a.patch, b.patch); c != 0 {
		return c < 0
	}
	if a.patch.Kind == PatchApply && b.patch.Kind == PatchApply {
		return a.seq > b.seq // LIFO among applies
	}
	return a.seq < b.seq // FIFO among conclusions (and across kinds, by default)
}

func (h *patchHeap) Swap(i, j int) { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }

func (h *patchHeap) Push(x interface{}) { h.entries = append(h.entries, x.(patchEntry)) }

func (h *patchHeap) Pop() interface{} {
	n := len(h.entries)
	e := h.entries[n-1]
	h.entries = h.entries[:n-1]
	return e
}

// Queue is the priority-ordered worklist of patches: a
// caller-supplied PatchOrder governs stable-by-priority insertion, and
// Pop applies the subsumption filter before returning an element. Built
// over container/heap; see DESIGN.md for why.
type Queue struct {
	h         patchHeap
	seq       uint64
	seenApply map[uuid.UUID]bool
}

func NewQueue(order PatchOrder) *Queue {
	if order == nil {
		order = DefaultPatchOrder
	}
	q := &Queue{h: patchHeap{order: order}, seenApply: map[uuid.UUID]bool{}}
	heap.Init(&q.h)
	return q
}

// Insert splices patch into priority order. An ApplyPatch whose
// PartialRule has already been enqueued once (same rule name, same
// residual body) is dropped: it would only re-derive the same set of
// children a later Pop of the first copy already produces. ConclusionPatch
// values are not deduplicated here since Pop's subsumption check against
// the database already catches a stale duplicate before it can fire twice.
func (q *Queue) Insert(patch Patch) {
	if patch.Kind == PatchApply {
		id := patchID(patch)
		if q.seenApply[id] {
			return
		}
		q.seenApply[id] = true
	}
	heap.Push(&q.h, patchEntry{patch: patch, seq: q.seq})
	q.seq++
}

// Pop removes the highest-priority element, discarding any ConclusionPatch
// already subsumed by db, and returns the first survivor. It returns
// (Patch{}, false) once the queue drains.
func (q *Queue) Pop(db *Database) (Patch, bool) {
	for q.h.Len() > 0 {
		e := heap.Pop(&q.h).(patchEntry)
		if !isSubsumed(e.patch, db) {
			return e.patch, true
		}
	}
	return Patch{}, false
}

// Len reports the number of patches currently queued (ignoring
// subsumption, which is only checked on Pop).
func (q *Queue) Len() int { return q.h.Len() }

// isSubsumed reports whether a patch is already implied by the database:
// an ApplyPatch is never subsumed by
// facts alone; a ConclusionPatch(p) is subsumed iff some q already in db
// has q >= p.
func isSubsumed(p Patch, db *Database) bool {
	if p.Kind != PatchConclusion {
		return false
	}
	return db.Dominates(p.Conclusion)
}
