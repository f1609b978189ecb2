package scan

import (
	"context"
	"errors"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/openwscand/scand/internal/bss"
	"github.com/openwscand/scand/internal/genl"
	"github.com/openwscand/scand/internal/metrics"
	"github.com/openwscand/scand/internal/scanconfig"
	"github.com/openwscand/scand/internal/wiphy"
	"github.com/openwscand/scand/internal/wqueue"
)

// Context is one radio's Scan Context (spec.md §3): it owns the work
// queue, the current kernel-facing state, and the single loop goroutine
// that is the only place this radio's bookkeeping is mutated (spec.md
// §5, single-threaded cooperative). All public methods on Registry reach
// a Context only by posting a closure to cmdCh.
type Context struct {
	radioID uint32
	conn    genl.Conn
	wq      *wqueue.Queue
	log     *logrus.Entry
	mc      *metrics.Collector

	wp    wiphy.Wiphy
	known wiphy.KnownNetworks

	cfg          func() scanconfig.Config
	rank5GFactor func() float64
	now          func() uint64 // microseconds, monotonic enough for time_stamp synthesis

	state   State
	current *request
	byID    map[RequestID]*request

	periodic *periodicState

	cmdCh            chan func(*Context)
	externalNotifyCh <-chan genl.Notification
	stopCh           chan struct{}
	doneCh           chan struct{}
}

func newContext(radioID uint32, conn genl.Conn, notifyCh <-chan genl.Notification, wp wiphy.Wiphy, known wiphy.KnownNetworks, cfg func() scanconfig.Config, rank5GFactor func() float64, mc *metrics.Collector, log *logrus.Entry) *Context {
	c := &Context{
		radioID:          radioID,
		conn:             conn,
		wq:               wqueue.New(),
		log:              log,
		mc:               mc,
		wp:               wp,
		known:            known,
		cfg:              cfg,
		rank5GFactor:     rank5GFactor,
		now:              func() uint64 { return uint64(time.Now().UnixMicro()) },
		byID:             make(map[RequestID]*request),
		cmdCh:            make(chan func(*Context), 16),
		externalNotifyCh: notifyCh,
		stopCh:           make(chan struct{}),
		doneCh:           make(chan struct{}),
	}
	if mc != nil {
		mc.AddRadio(radioID)
	}
	go c.run()
	return c
}

// run is the single-threaded cooperative loop (spec.md §5): every
// mutation of this Context's fields happens on this goroutine, driven
// by commands from the public API, kernel notifications, and the
// periodic timer.
func (c *Context) run() {
	defer close(c.doneCh)
	notifyCh := c.externalNotifyCh
	for {
		var timerCh <-chan time.Time
		if c.periodic != nil && c.periodic.timer != nil {
			timerCh = c.periodic.timer.C
		}
		select {
		case cmd := <-c.cmdCh:
			cmd(c)
		case n, ok := <-notifyCh:
			if !ok {
				notifyCh = nil
				continue
			}
			c.handleNotification(n)
		case <-timerCh:
			c.onPeriodicTimer()
		case <-c.stopCh:
			for _, r := range c.byID {
				if r.cancelFn != nil {
					r.cancelFn()
				}
			}
			c.wq.Close()
			return
		}
	}
}

// stop tears down the Context's loop and evicts every queued request
// (spec.md §3 Lifecycle: "destruction cancels all in-flight kernel
// commands and silently drops queued requests").
func (c *Context) stop() {
	close(c.stopCh)
	<-c.doneCh
}

func (c *Context) pump() {
	if c.current != nil {
		return
	}
	id, ok := c.wq.RunNext()
	if !ok {
		return
	}
	for _, r := range c.byID {
		if r.queueID == id {
			c.current = r
			return
		}
	}
}

func (c *Context) submit(passive, periodic bool, cmds []genl.TriggerAttrs, wantFreqs []uint32, priority int, cb Callbacks) RequestID {
	reqID := RequestID(xid.New())
	r := &request{
		requestID: reqID,
		ctx:       c,
		passive:   passive,
		periodic:  periodic,
		cmds:      cmds,
		wantFreqs: wantFreqs,
		cb:        cb,
	}
	r.queueID = c.wq.Insert(r, priority)
	c.byID[reqID] = r
	c.pump()
	return reqID
}

func (c *Context) sendTrigger(r *request) {
	if len(r.cmds) == 0 {
		return
	}
	attrs := r.cmds[0]

	if r.firstTriggerAt.IsZero() {
		r.firstTriggerAt = time.Now()
	}
	if c.mc != nil {
		c.mc.SetState(c.radioID, metrics.RadioTriggering)
	}

	cctx, cancel := context.WithCancel(context.Background())
	r.cancelFn = cancel

	go func() {
		err := c.conn.Trigger(cctx, c.radioID, attrs)
		c.cmdCh <- func(c *Context) { c.onTriggerResult(r, err) }
	}()
}

func (c *Context) onTriggerResult(r *request, err error) {
	if r.canceled {
		c.finishRequest(r)
		return
	}

	if err == nil {
		r.cmds = r.cmds[1:]
		r.started = true
		if r.passive {
			c.state = StatePassive
		} else {
			c.state = StateActive
		}
		if !r.triggered {
			r.triggered = true
			r.fireTrigger()
		}
		if c.mc != nil {
			c.mc.SetState(c.radioID, stateToMetric(c.state))
		}
		if len(r.cmds) > 0 {
			c.sendTrigger(r)
		}
		return
	}

	if errors.Is(err, context.Canceled) {
		return
	}
	if errors.Is(err, genl.ErrBusy) {
		r.started = true // picked up once, deferred until the external scan finishes
		c.state = StatePassive
		if c.mc != nil {
			c.mc.SetState(c.radioID, metrics.RadioSuspended)
		}
		return // wait for an external scan's completion notification to retry
	}

	c.failRequest(r, err)
}

func stateToMetric(s State) metrics.RadioState {
	switch s {
	case StateActive:
		return metrics.RadioScanning
	case StatePassive:
		return metrics.RadioScanning
	default:
		return metrics.RadioIdle
	}
}

func (c *Context) retryRequest(r *request) {
	if r == nil || len(r.cmds) == 0 {
		return
	}
	c.sendTrigger(r)
}

func (c *Context) startResultDump(r *request, flushedByOther bool) {
	cctx, cancel := context.WithCancel(context.Background())
	r.cancelFn = cancel

	go func() {
		results, err := c.conn.GetScan(cctx, c.radioID)
		c.cmdCh <- func(c *Context) { c.onDumpResult(r, results, err) }
	}()
}

func (c *Context) onDumpResult(r *request, attrsList []bss.Attrs, err error) {
	if r.canceled {
		c.finishRequest(r)
		return
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			r.fireNotify(err, nil, nil)
		}
		c.finishRequest(r)
		return
	}

	scanTime := c.now()
	records := make([]*bss.Record, 0, len(attrsList))
	sawHiddenSSID := false
	for _, a := range attrsList {
		rec, buildErr := bss.Build(a, scanTime, c.wp, c.rank5GFactor())
		if buildErr != nil {
			continue // malformed BSS records are dropped silently (spec.md §7)
		}
		records = append(records, rec)
		if rec.SSID == "" {
			sawHiddenSSID = true
		}
		if c.mc != nil {
			c.mc.ObserveBSS(rec)
		}
	}
	bss.SortByRank(records)

	if c.periodic != nil && c.periodic.currentID == r.requestID {
		c.periodic.needsActiveScan = sawHiddenSSID
	}

	if r.firmwareOnly && len(records) == 0 {
		r.fireNotify(ErrNoEntry, nil, nil)
		c.finishRequest(r)
		return
	}

	r.fireNotify(nil, records, r.wantFreqs)
	c.finishRequest(r)
}

func (c *Context) failRequest(r *request, err error) {
	r.fireNotify(err, nil, nil)
	c.finishRequest(r)
}

// finishRequest evicts r from the work queue, freeing the radio for the
// next admitted request (spec.md §4.4 "Ordering guarantees").
func (c *Context) finishRequest(r *request) {
	delete(c.byID, r.requestID)
	if c.current == r {
		c.current = nil
	}
	if c.mc != nil && !r.firstTriggerAt.IsZero() {
		c.mc.ObserveScanDuration(c.radioID, time.Since(r.firstTriggerAt).Seconds())
	}
	c.wq.Done(r.queueID)
	c.pump()
}

func (c *Context) cancel(id RequestID) bool {
	r, ok := c.byID[id]
	if !ok {
		return false
	}

	if r.inCallback {
		r.fireDestroy()
		return true
	}
	if r.triggered {
		r.cb.Notify = nil
		r.fireDestroy()
		return true
	}
	if c.wq.IsRunning(r.queueID) {
		r.canceled = true
		if r.cancelFn != nil {
			r.cancelFn()
		}
		return true
	}

	delete(c.byID, id)
	c.wq.Done(r.queueID)
	c.pump()
	return true
}

// failImmediately reports a request that could never be admitted (e.g.
// address-randomization failed to read entropy, or an OWE target list
// was empty) without ever touching the work queue. err nil means "no
// error, just nothing to do" (an empty command list); it is still
// reported through Notify, as ErrIO, so callers always get exactly one
// callback.
func (c *Context) failImmediately(cb Callbacks, err error) {
	if err == nil {
		err = ErrIO
	}
	if cb.Notify != nil {
		cb.Notify(err, nil, nil)
	}
	if cb.Destroy != nil {
		cb.Destroy()
	}
}

func (c *Context) triggeredTime(id RequestID) (uint64, bool) {
	r, ok := c.byID[id]
	if !ok || !r.triggered {
		return 0, false
	}
	return r.startTimeTSF, true
}

func (c *Context) handleNotification(n genl.Notification) {
	switch n.Kind {
	case genl.NotifyTriggerScan:
		if n.ActiveScan {
			c.state = StateActive
		} else {
			c.state = StatePassive
		}
		if c.current != nil && c.current.triggered {
			c.current.startTimeTSF = n.StartTSF
		}

	case genl.NotifyNewScanResults:
		c.state = StateNotRunning
		if c.mc != nil {
			c.mc.SetState(c.radioID, metrics.RadioIdle)
		}
		if c.current != nil && c.current.triggered {
			switch {
			case c.current.cb.Notify == nil:
				c.finishRequest(c.current)
			case len(c.current.cmds) > 0:
				c.sendTrigger(c.current)
			default:
				c.startResultDump(c.current, n.Flush)
			}
			return
		}
		if c.current != nil && !c.current.triggered && c.current.started && n.Flush {
			c.failRequest(c.current, ErrAgain)
			return
		}
		c.retryRequest(c.current)

	case genl.NotifyScanAborted:
		c.state = StateNotRunning
		if c.current != nil && c.current.triggered {
			if c.current.periodic {
				c.finishRequest(c.current)
			} else {
				c.failRequest(c.current, ErrCanceled)
			}
			return
		}
		if c.current != nil && c.wq.IsRunning(c.current.queueID) {
			c.retryRequest(c.current)
		}
	}
}
