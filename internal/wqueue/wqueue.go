// Package wqueue implements the per-radio work queue collaborator named
// in spec.md §6.2: a FIFO with integer priorities that grants exclusive
// execution rights to one item at a time, preempting a lower-priority
// item before its first unit of work starts.
package wqueue

import "container/heap"

// ID identifies a queued item, unique within one Queue.
type ID uint64

// Item is a unit of work submitted to a Queue. DoWork is called when the
// queue grants the item execution; returning true means the item
// completed synchronously and should be evicted immediately. Destroy is
// called exactly once, when the item is evicted for any reason (normal
// completion, preemption never evicts a started item, or queue
// teardown).
type Item interface {
	DoWork() bool
	Destroy()
}

type entry struct {
	id       ID
	item     Item
	priority int
	seq      uint64 // admission order, for FIFO among equal priorities
	index    int    // heap.Interface bookkeeping
}

type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority // higher priority first
	}
	return h[i].seq < h[j].seq
}
func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Queue is a single radio's work queue. It is not safe for concurrent
// use; callers (internal/scan's per-radio event loop) serialize access.
type Queue struct {
	pending entryHeap
	byID    map[ID]*entry
	running *entry
	nextID  ID
	nextSeq uint64
}

// New returns an empty, ready-to-use Queue.
func New() *Queue {
	return &Queue{byID: make(map[ID]*entry)}
}

// Insert admits item at priority, returning its ID. The item waits in
// the pending set until a RunNext call finds nothing running and picks
// it as the highest-priority pending item; a running item is never
// displaced, whatever its priority. Insert itself never calls DoWork
// synchronously so callers can finish bookkeeping for the admitted item
// before it runs.
func (q *Queue) Insert(item Item, priority int) ID {
	q.nextID++
	id := q.nextID
	e := &entry{id: id, item: item, priority: priority, seq: q.nextSeq}
	q.nextSeq++
	heap.Push(&q.pending, e)
	q.byID[id] = e
	return id
}

// IsRunning reports whether id is the item currently granted execution.
func (q *Queue) IsRunning(id ID) bool {
	return q.running != nil && q.running.id == id
}

// RunningID returns the ID of the currently running item and true, or
// (0, false) if nothing is running.
func (q *Queue) RunningID() (ID, bool) {
	if q.running == nil {
		return 0, false
	}
	return q.running.id, true
}

// Done evicts id, calling its Destroy exactly once. If id was the running
// item, the queue is freed up to run its next-highest-priority pending
// item on the next call to RunNext.
func (q *Queue) Done(id ID) {
	e, ok := q.byID[id]
	if !ok {
		return
	}
	delete(q.byID, id)
	if q.running == e {
		q.running = nil
	} else if e.index >= 0 {
		heap.Remove(&q.pending, e.index)
	}
	e.item.Destroy()
}

// RunNext grants execution to the highest-priority pending item if
// nothing is currently running, returning its ID and true. If that item
// completes synchronously (DoWork returns true) it is evicted (Destroy
// called) and RunNext returns (0, false) so the caller can call RunNext
// again to pick up whatever runs next. If something is already running,
// or the pending set is empty, RunNext returns (0, false) without side
// effects.
func (q *Queue) RunNext() (ID, bool) {
	if q.running != nil || len(q.pending) == 0 {
		return 0, false
	}

	e := heap.Pop(&q.pending).(*entry)
	e.index = -1
	q.running = e

	if e.item.DoWork() {
		delete(q.byID, e.id)
		q.running = nil
		e.item.Destroy()
		return 0, false
	}

	return e.id, true
}

// Len returns the number of items awaiting execution (not counting the
// currently running item).
func (q *Queue) Len() int {
	return len(q.pending)
}

// Close evicts every item, pending or running, calling each Destroy
// exactly once. Used when a Scan Context is destroyed (spec.md §3
// Lifecycle).
func (q *Queue) Close() {
	for _, e := range q.byID {
		e.item.Destroy()
	}
	q.running = nil
	q.byID = make(map[ID]*entry)
	q.pending = nil
}
