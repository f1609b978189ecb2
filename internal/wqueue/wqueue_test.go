package wqueue

import "testing"

type fakeItem struct {
	name      string
	completes bool
	destroyed int
	ran       int
}

func (f *fakeItem) DoWork() bool {
	f.ran++
	return f.completes
}
func (f *fakeItem) Destroy() {
	f.destroyed++
}

func TestFIFOOrderAmongEqualPriority(t *testing.T) {
	q := New()
	a := &fakeItem{name: "a"}
	b := &fakeItem{name: "b"}
	idA := q.Insert(a, 0)
	q.Insert(b, 0)

	gotID, ok := q.RunNext()
	if !ok || gotID != idA {
		t.Fatalf("RunNext() = (%v, %v), want (%v, true)", gotID, ok, idA)
	}
}

func TestHigherPriorityRunsFirst(t *testing.T) {
	q := New()
	low := &fakeItem{name: "low"}
	high := &fakeItem{name: "high"}
	q.Insert(low, 0)
	idHigh := q.Insert(high, 10)

	gotID, ok := q.RunNext()
	if !ok || gotID != idHigh {
		t.Fatalf("RunNext() = (%v, %v), want (%v, true) — higher priority should preempt", gotID, ok, idHigh)
	}
}

func TestRunNextNoOpWhileSomethingRunning(t *testing.T) {
	q := New()
	a := &fakeItem{name: "a"}
	b := &fakeItem{name: "b"}
	idA := q.Insert(a, 0)

	gotID, ok := q.RunNext()
	if !ok || gotID != idA {
		t.Fatalf("first RunNext() = (%v,%v)", gotID, ok)
	}
	q.Insert(b, 5)

	if _, ok := q.RunNext(); ok {
		t.Fatal("RunNext() should be a no-op while a (lower or higher priority) item is running")
	}
}

func TestSynchronousCompletionEvicts(t *testing.T) {
	q := New()
	done := &fakeItem{completes: true}
	q.Insert(done, 0)

	if _, ok := q.RunNext(); ok {
		t.Fatal("RunNext() should report nothing running once the item completes synchronously")
	}
	if done.destroyed != 1 {
		t.Fatalf("Destroy called %d times, want 1", done.destroyed)
	}
}

func TestDoneEvictsRunningItemExactlyOnce(t *testing.T) {
	q := New()
	a := &fakeItem{}
	id := q.Insert(a, 0)
	q.RunNext()

	q.Done(id)
	q.Done(id) // idempotent: second call is a no-op

	if a.destroyed != 1 {
		t.Fatalf("Destroy called %d times, want exactly 1", a.destroyed)
	}
	if q.IsRunning(id) {
		t.Fatal("item should no longer be running after Done")
	}
}

func TestDonePendingItemRemovesWithoutRunning(t *testing.T) {
	q := New()
	a := &fakeItem{}
	b := &fakeItem{}
	q.Insert(a, 0)
	idB := q.Insert(b, 0)

	q.Done(idB)

	if b.ran != 0 {
		t.Fatal("pending item removed via Done should never have DoWork called")
	}
	if b.destroyed != 1 {
		t.Fatalf("Destroy called %d times, want 1", b.destroyed)
	}
}

func TestCloseDestroysEverythingExactlyOnce(t *testing.T) {
	q := New()
	running := &fakeItem{}
	pending := &fakeItem{}
	q.Insert(running, 0)
	q.RunNext()
	q.Insert(pending, 0)

	q.Close()

	if running.destroyed != 1 || pending.destroyed != 1 {
		t.Fatalf("destroyed counts: running=%d pending=%d, want 1,1", running.destroyed, pending.destroyed)
	}
}
