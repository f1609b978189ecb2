package scan

import (
	"context"
	"time"

	"github.com/openwscand/scand/internal/bss"
	"github.com/openwscand/scand/internal/genl"
	"github.com/openwscand/scand/internal/wqueue"
)

// request is one admitted Scan Request (spec.md §3), and the
// wqueue.Item the radio's work queue schedules. It is only ever touched
// from its owning Context's loop goroutine.
type request struct {
	requestID RequestID
	queueID   wqueue.ID
	ctx       *Context

	passive  bool
	periodic bool

	cmds []genl.TriggerAttrs // remaining trigger segments, head sent next

	triggered bool
	started   bool
	canceled  bool
	inCallback bool
	destroyed bool

	// firmwareOnly marks a scan_get_firmware_scan request (spec.md
	// §6.4): a dump with no records means the kernel's scan cache is
	// empty, reported as ErrNoEntry rather than an empty result set.
	firmwareOnly bool

	startTimeTSF uint64
	wantFreqs    []uint32 // the freqs the caller asked for, echoed to Notify

	firstTriggerAt time.Time // wall-clock time of the first sendTrigger call, for scan_last_duration_seconds

	cb Callbacks

	cancelFn context.CancelFunc
}

// DoWork sends this request's first trigger segment. Every request in
// this core completes asynchronously via a kernel reply, so DoWork
// always returns false (spec.md §6.2's "synchronously completed" case
// never applies here).
func (r *request) DoWork() bool {
	r.ctx.sendTrigger(r)
	return false
}

// Destroy invokes the user's destroy callback exactly once (spec.md §8
// property 1), regardless of how many paths attempt to finalize this
// request (normal completion, explicit cancellation, queue teardown).
func (r *request) Destroy() {
	r.fireDestroy()
}

func (r *request) fireDestroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	if r.cb.Destroy != nil {
		r.cb.Destroy()
	}
}

func (r *request) fireTrigger() {
	if r.cb.Trigger != nil {
		cb := r.cb.Trigger
		r.cb.Trigger = nil // at most once (spec.md §3 Scan Request fields)
		cb()
	}
}

// fireNotify invokes Notify under the in_callback re-entrancy guard
// (spec.md §3, §4.7) and clears it so it can never fire twice.
func (r *request) fireNotify(err error, results []*bss.Record, freqs []uint32) {
	cb := r.cb.Notify
	if cb == nil {
		return
	}
	r.cb.Notify = nil
	r.inCallback = true
	cb(err, results, freqs)
	r.inCallback = false
}
