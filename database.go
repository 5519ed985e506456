package latfix

import (
	"sync"

	uuid "github.com/satori/go.uuid"
)

// Database is an unordered collection of concrete propositions
// maintaining the anti-chain invariant under the lattice order: no two
// distinct propositions p, q have p >= q. It has no
// incremental invalidation or proof bookkeeping; see DESIGN.md.
type Database struct {
	mu sync.RWMutex
	// relations buckets propositions by relation name, each keyed by its
	// content hash. Bucketing by relation name is the "candidates"
	// indexing hook calls out as a non-observable efficiency
	// optimization: subsumption only ever compares propositions sharing a
	// relation name, so propositions of other relations never need to be
	// scanned.
	relations map[Name]map[uuid.UUID]Proposition
}

func NewDatabase() *Database {
	return &Database{relations: map[Name]map[uuid.UUID]Proposition{}}
}

// Propositions returns every proposition currently in the database, in
// no particular order.
func (db *Database) Propositions() []Proposition {
	db.mu.RLock()
	defer db.mu.RUnlock()
	var out []Proposition
	for _, bucket := range db.relations {
		for _, p := range bucket {
			out = append(out, p)
		}
	}
	return out
}

// Candidates returns the propositions eligible for premise matching
// against a live rule. The reference implementation (and this one)
// returns all of them; notes a production engine might index
// by relation name or restrict to recently-changed facts for semi-naive
// efficiency, without changing observable behavior. Database already
// keeps the by-relation index Insert uses; a future caller that wants
// only one relation's candidates can read that index directly.
func (db *Database) Candidates() []Proposition {
	return db.Propositions()
}

// Dominates reports whether some q already in the database satisfies
// q >= p.
func (db *Database) Dominates(p Proposition) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	bucket := db.relations[p.Relation]
	for _, q := range bucket {
		switch ComparePartialProposition(q, p) {
		case EQ, GT:
			return true
		}
	}
	return false
}

// Insert attempts to add p, maintaining the anti-chain invariant:
//   - if some existing q dominates p (q >= p, including ties), p is
//     discarded and Insert returns false;
//   - otherwise every existing q dominated by p (p >= q) is evicted, p is
//     added, and Insert returns true.
func (db *Database) Insert(p Proposition) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	id := hashProposition(p)
	bucket := db.relations[p.Relation]
	if bucket == nil {
		bucket = map[uuid.UUID]Proposition{}
		db.relations[p.Relation] = bucket
	}

	if _, exact := bucket[id]; exact {
		return false
	}
	for _, q := range bucket {
		switch ComparePartialProposition(q, p) {
		case EQ, GT:
			return false
		}
	}
	for qid, q := range bucket {
		if ComparePartialProposition(p, q) == GT {
			delete(bucket, qid)
		}
	}
	bucket[id] = p
	return true
}
