package device

import "sync"

// Item identifies one work item within a dispatch. Kernels query their
// position through it and synchronize with their group through Barrier.
type Item struct {
	dims      int
	global    [maxDims]int
	local     [maxDims]int
	group     [maxDims]int
	localSize [maxDims]int
	bar       *barrier
}

// GlobalID returns the item's position in the global index space along dim.
// Dimensions beyond the dispatch rank report zero.
func (it *Item) GlobalID(dim int) int { return it.at(it.global, dim) }

// LocalID returns the item's position within its work group along dim.
func (it *Item) LocalID(dim int) int { return it.at(it.local, dim) }

// GroupID returns the item's work group index along dim.
func (it *Item) GroupID(dim int) int { return it.at(it.group, dim) }

// LocalSize returns the work group extent along dim.
func (it *Item) LocalSize(dim int) int {
	if dim < 0 || dim >= it.dims {
		return 1
	}
	return it.localSize[dim]
}

// Barrier blocks until every live work item in the group has arrived. Items
// that returned from the kernel no longer count toward the group, so a
// bounds-guarded early return in a padded dispatch cannot wedge the rest of
// the group.
func (it *Item) Barrier() { it.bar.wait() }

func (it *Item) at(ids [maxDims]int, dim int) int {
	if dim < 0 || dim >= it.dims {
		return 0
	}
	return ids[dim]
}

// barrier is a reusable full-group rendezvous. members shrinks as items
// finish, which releases waiters that would otherwise outnumber the group.
type barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	members int
	waiting int
	phase   int
}

func newBarrier(members int) *barrier {
	b := &barrier{members: members}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *barrier) wait() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.waiting++
	if b.waiting >= b.members {
		b.advance()
		return
	}
	phase := b.phase
	for phase == b.phase {
		b.cond.Wait()
	}
}

// leave removes a finished item from the group. If everyone else is already
// parked at the barrier, the departure completes the rendezvous.
func (b *barrier) leave() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.members--
	if b.members > 0 && b.waiting >= b.members {
		b.advance()
	}
}

func (b *barrier) advance() {
	b.waiting = 0
	b.phase++
	b.cond.Broadcast()
}
