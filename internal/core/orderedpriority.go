package core

import "math"

// DefaultArenaSize is the typical Dietz-Sleator label arena (M = 2^46),
// per spec §3. Tests use a much smaller arena (via WithArenaSize) to
// exercise PriorityExhaustion without allocating billions of labels.
const DefaultArenaSize uint64 = 1 << 46

// priorityBase anchors one circular, doubly-linked priority list. Two
// Priority values are comparable only if they share a base (spec §4.1
// PriorityMisuse).
type priorityBase struct {
	arena uint64
	live  int       // live nodes, including the base node itself
	head  *Priority // the base node; labels are compared relative to its label
}

// Priority is a node in the order-maintenance list described in spec §3.
// It supports O(log n) amortized InsertAfter and O(1) Less/Delete.
// The zero value is not usable; obtain one from NewBase or InsertAfter.
type Priority struct {
	base    *priorityBase
	label   uint64
	prev    *Priority
	next    *Priority
	deleted bool
}

// NewBase creates an empty circular list containing only the base node
// and returns a first usable priority just after base, per spec §4.1.
func NewBase() (*Priority, error) {
	return NewBaseWithArena(DefaultArenaSize)
}

// NewBaseWithArena is NewBase parameterized by label-space size, used by
// tests to force small-arena exhaustion deterministically.
func NewBaseWithArena(arena uint64) (*Priority, error) {
	b := &priorityBase{arena: arena, live: 1}
	base := &Priority{base: b, label: 0}
	base.prev, base.next = base, base
	b.head = base
	return base.InsertAfter()
}

// relDist returns (q.label - p.label) mod M, the relative label of q with
// respect to p.
func relDist(p, q *Priority) uint64 {
	m := p.base.arena
	return (q.label + m - p.label) % m
}

func addMod(label, delta, m uint64) uint64 {
	return (label + delta) % m
}

// gapAfter is relDist(p, q), except when q is p itself (p is currently
// the list's only node) in which case the available gap is the full
// arena rather than the trivially-zero self-distance.
func gapAfter(p, q *Priority) uint64 {
	if q == p {
		return p.base.arena
	}
	return relDist(p, q)
}

// maxLivePriorities is the "roughly sqrt(M)" ceiling from spec §4.1 at
// which arena overflow must be detected explicitly, independent of
// whatever headroom a particular relabel pass happens to find.
func maxLivePriorities(arena uint64) int {
	return int(math.Sqrt(float64(arena)))
}

// InsertAfter returns a new priority q such that p < q and, for every
// pre-existing priority r with p < r, q < r. Amortized O(log n); O(1) if
// no relabel is required.
func (p *Priority) InsertAfter() (*Priority, error) {
	if p.deleted {
		return nil, fatal(ErrPriorityMisuse, "InsertAfter", nil)
	}
	b := p.base
	if b.live+1 > maxLivePriorities(b.arena) {
		return nil, fatal(ErrPriorityExhaustion, "InsertAfter", nil)
	}

	succ := p.next
	gap := gapAfter(p, succ)
	if gap <= 1 {
		if err := p.relabel(); err != nil {
			return nil, err
		}
		succ = p.next
		gap = gapAfter(p, succ)
		if gap <= 1 {
			return nil, fatal(ErrPriorityExhaustion, "InsertAfter", nil)
		}
	}

	q := &Priority{base: b, label: addMod(p.label, gap/2, b.arena)}
	q.prev, q.next = p, succ
	p.next = q
	succ.prev = q
	b.live++
	return q, nil
}

// relabel implements the Dietz-Sleator tag-range redistribution described
// in spec §3: scan forward from p counting steps j until the relative
// label of the j-th successor exceeds j^2, then spread labels evenly
// across those j successors, leaving room to insert after p with a plain
// midpoint split.
func (p *Priority) relabel() error {
	b := p.base
	if p.next == p {
		// p is the list's only node (the bootstrap case in
		// NewBaseWithArena): the entire arena is free, so the "gap" to
		// redistribute across is the full circle rather than 0.
		return nil
	}

	j := 1
	cur := p.next
	for {
		w := gapAfter(p, cur)
		if w > uint64(j*j) {
			break
		}
		j++
		cur = cur.next
		if cur == p || j > b.live+1 {
			return fatal(ErrPriorityExhaustion, "relabel", nil)
		}
	}

	span := gapAfter(p, cur)
	step := span / uint64(j+1)
	if step == 0 {
		return fatal(ErrPriorityExhaustion, "relabel", nil)
	}
	node := p.next
	for k := 1; k <= j; k++ {
		node.label = addMod(p.label, step*uint64(k), b.arena)
		node = node.next
	}
	return nil
}

// Less compares a and b by relative label against their shared base.
// Returns false (never true) if the two priorities have distinct bases —
// per spec §4.1, callers that need to detect that programming error
// should use LessStrict instead.
func (a *Priority) Less(other *Priority) bool {
	ok, less := a.compare(other)
	return ok && less
}

// LessStrict is Less but reports PriorityMisuse instead of silently
// returning false when the bases differ.
func (a *Priority) LessStrict(other *Priority) (bool, error) {
	ok, less := a.compare(other)
	if !ok {
		return false, fatal(ErrPriorityMisuse, "LessStrict", nil)
	}
	return less, nil
}

func (a *Priority) compare(other *Priority) (comparable bool, less bool) {
	if a.base != other.base {
		return false, false
	}
	if a == other {
		return true, false
	}
	// Labels are compared relative to the base node's label, (label -
	// base.label) mod M. relabel may carry its redistribution across the
	// base node and give it a nonzero label, and InsertAfter's midpoint may
	// then wrap past M, so raw label order alone is not the forward-from-base
	// order; the relative label is.
	h := a.base.head
	return true, relDist(h, a) < relDist(h, other)
}

// Delete unlinks p from its circular list. Subsequent use of p is a
// programming error (InsertAfter/Less on a deleted priority fails).
func (p *Priority) Delete() {
	if p.deleted {
		return
	}
	p.prev.next = p.next
	p.next.prev = p.prev
	p.deleted = true
	p.base.live--
}

// Deleted reports whether p has been unlinked.
func (p *Priority) Deleted() bool { return p.deleted }
