package scan

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/openwscand/scand/internal/bss"
	"github.com/openwscand/scand/internal/freqset"
	"github.com/openwscand/scand/internal/genl"
	"github.com/openwscand/scand/internal/metrics"
	"github.com/openwscand/scand/internal/scanconfig"
	"github.com/openwscand/scand/internal/wiphy"
)

// RadioLookup resolves the wiphy collaborators for a radio id; callers
// supply this so Registry stays decoupled from however the rest of the
// daemon tracks known networks and capability sets (spec.md §6).
type RadioLookup interface {
	Wiphy(radioID uint32) (wiphy.Wiphy, bool)
	KnownNetworks(radioID uint32) (wiphy.KnownNetworks, bool)
}

// Registry is the Notification Multiplexer (spec.md §4.5): it owns one
// Context per attached radio and a single goroutine that reads the
// shared genl.Conn's notification stream and routes each notification to
// its radio's Context by RadioID.
type Registry struct {
	conn   genl.Conn
	lookup RadioLookup
	cfgMgr *scanconfig.Manager
	mc     *metrics.Collector
	log    *logrus.Entry

	mu      sync.Mutex
	radios  map[uint32]*Context
	notifCh map[uint32]chan genl.Notification

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewRegistry constructs a Registry and starts its notification
// fan-out loop. Callers attach radios with AddDevice as they are
// discovered.
func NewRegistry(conn genl.Conn, lookup RadioLookup, cfgMgr *scanconfig.Manager, mc *metrics.Collector, log *logrus.Entry) *Registry {
	r := &Registry{
		conn:    conn,
		lookup:  lookup,
		cfgMgr:  cfgMgr,
		mc:      mc,
		log:     log,
		radios:  make(map[uint32]*Context),
		notifCh: make(map[uint32]chan genl.Notification),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go r.fanOut()
	return r
}

// fanOut is the Notification Multiplexer's dispatch loop: it owns the
// single read of conn.Notifications() and routes every message to the
// per-radio channel its Context reads from (spec.md §4.5).
func (r *Registry) fanOut() {
	defer close(r.doneCh)
	for {
		select {
		case n, ok := <-r.conn.Notifications():
			if !ok {
				return
			}
			r.mu.Lock()
			ch := r.notifCh[n.RadioID]
			r.mu.Unlock()
			if ch == nil {
				continue // no attached Context for this radio; drop
			}
			select {
			case ch <- n:
			case <-r.stopCh:
				return
			}
		case <-r.stopCh:
			return
		}
	}
}

// Close tears down the multiplexer and every attached radio's Context.
func (r *Registry) Close() {
	close(r.stopCh)
	<-r.doneCh

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.radios {
		c.stop()
		delete(r.radios, id)
		delete(r.notifCh, id)
	}
}

// AddDevice attaches a new radio, starting its Scan Context loop.
func (r *Registry) AddDevice(radioID uint32) *Context {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.radios[radioID]; ok {
		return c
	}

	wp, _ := r.lookup.Wiphy(radioID)
	known, _ := r.lookup.KnownNetworks(radioID)

	ch := make(chan genl.Notification, 16)
	c := newContext(radioID, r.conn, ch, wp, known, r.cfg, r.rank5GFactor, r.mc, r.log.WithField("radio", radioID))

	r.radios[radioID] = c
	r.notifCh[radioID] = ch
	return c
}

// RemoveDevice detaches a radio, stopping its Context and evicting all
// of its in-flight and queued requests (spec.md §3 Lifecycle).
func (r *Registry) RemoveDevice(radioID uint32) bool {
	r.mu.Lock()
	c, ok := r.radios[radioID]
	if ok {
		delete(r.radios, radioID)
		delete(r.notifCh, radioID)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	c.stop()
	if r.mc != nil {
		r.mc.RemoveRadio(radioID)
	}
	return true
}

func (r *Registry) cfg() scanconfig.Config {
	if r.cfgMgr == nil {
		return scanconfig.Config{}
	}
	return r.cfgMgr.Get()
}

func (r *Registry) rank5GFactor() float64 {
	return r.cfg().Rank.BandModifier5Ghz
}

func (r *Registry) context(radioID uint32) (*Context, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.radios[radioID]
	return c, ok
}

// call posts fn to c's loop and blocks for its result, the pattern every
// public Registry method uses to reach into a single-threaded Context
// (spec.md §5).
func call[T any](c *Context, fn func(c *Context) T) T {
	resultCh := make(chan T, 1)
	c.cmdCh <- func(c *Context) { resultCh <- fn(c) }
	return <-resultCh
}

func (r *Registry) ScanPassive(radioID uint32, freqs *freqset.Set, cb Callbacks) (RequestID, error) {
	p := Parameters{}
	if freqs != nil {
		p.Freqs = freqs.Slice()
	}
	return r.ScanPassiveFull(radioID, p, cb)
}

func (r *Registry) ScanPassiveFull(radioID uint32, p Parameters, cb Callbacks) (RequestID, error) {
	c, ok := r.context(radioID)
	if !ok {
		return RequestID{}, ErrUnknownRadio
	}
	return call(c, func(c *Context) RequestID {
		cfg := c.cfg()
		cmds, err := buildCommands(c.wp, c.known, true, p, addressingConfig{disableRandomization: cfg.Scan.DisableMacAddressRandomization})
		if err != nil || len(cmds) == 0 {
			c.failImmediately(cb, err)
			return RequestID{}
		}
		return c.submit(true, false, cmds, p.Freqs, DefaultPriority, cb)
	}), nil
}

func (r *Registry) ScanActive(radioID uint32, extraIE []byte, cb Callbacks) (RequestID, error) {
	return r.ScanActiveFull(radioID, Parameters{ExtraIE: extraIE, RandomizeMACHint: true}, cb)
}

func (r *Registry) ScanActiveFull(radioID uint32, p Parameters, cb Callbacks) (RequestID, error) {
	c, ok := r.context(radioID)
	if !ok {
		return RequestID{}, ErrUnknownRadio
	}
	return call(c, func(c *Context) RequestID {
		cfg := c.cfg()
		cmds, err := buildCommands(c.wp, c.known, false, p, addressingConfig{disableRandomization: cfg.Scan.DisableMacAddressRandomization})
		if err != nil || len(cmds) == 0 {
			c.failImmediately(cb, err)
			return RequestID{}
		}
		return c.submit(false, false, cmds, p.Freqs, DefaultPriority, cb)
	}), nil
}

// ScanOWEHidden implements scan_owe_hidden (spec.md §6.4): probes the
// hidden BSSes behind an OWE transition, grouping same-SSID targets
// into one trigger.
func (r *Registry) ScanOWEHidden(radioID uint32, targets []*bss.Record, cb Callbacks) (RequestID, error) {
	c, ok := r.context(radioID)
	if !ok {
		return RequestID{}, ErrUnknownRadio
	}

	oweTargets := make([]oweTarget, 0, len(targets))
	for _, t := range targets {
		oweTargets = append(oweTargets, oweTarget{ssid: []byte(t.SSID), frequency: t.Frequency})
	}

	return call(c, func(c *Context) RequestID {
		cfg := c.cfg()
		cmds, err := buildOWEHiddenCommands(c.wp, oweTargets, addressingConfig{disableRandomization: cfg.Scan.DisableMacAddressRandomization})
		if err != nil || len(cmds) == 0 {
			c.failImmediately(cb, err)
			return RequestID{}
		}
		return c.submit(false, false, cmds, nil, HighPriority, cb)
	}), nil
}

func (r *Registry) Cancel(radioID uint32, id RequestID) bool {
	c, ok := r.context(radioID)
	if !ok {
		return false
	}
	return call(c, func(c *Context) bool { return c.cancel(id) })
}

func (r *Registry) PeriodicStart(radioID uint32, cb PeriodicCallbacks) error {
	c, ok := r.context(radioID)
	if !ok {
		return ErrUnknownRadio
	}
	return call(c, func(c *Context) error { return c.periodicStart(cb) })
}

func (r *Registry) PeriodicStop(radioID uint32) {
	c, ok := r.context(radioID)
	if !ok {
		return
	}
	call(c, func(c *Context) struct{} { c.periodicStop(); return struct{}{} })
}

func (r *Registry) TriggeredTime(radioID uint32, id RequestID) (uint64, bool) {
	c, ok := r.context(radioID)
	if !ok {
		return 0, false
	}
	type result struct {
		tsf uint64
		ok  bool
	}
	res := call(c, func(c *Context) result {
		tsf, ok := c.triggeredTime(id)
		return result{tsf, ok}
	})
	return res.tsf, res.ok
}

// FirmwareScan implements scan_get_firmware_scan (spec.md §6.4): a
// dump-only request with no preceding trigger, used to read out
// results the kernel is already holding (e.g. from a scan triggered by
// another user of the radio).
func (r *Registry) FirmwareScan(radioID uint32, cb Callbacks) bool {
	c, ok := r.context(radioID)
	if !ok {
		return false
	}
	return call(c, func(c *Context) bool {
		id := c.submit(true, false, nil, nil, DefaultPriority, cb)
		req, ok := c.byID[id]
		if !ok {
			return false
		}
		req.triggered = true
		req.firmwareOnly = true
		c.startResultDump(req, false)
		return true
	})
}
