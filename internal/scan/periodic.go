package scan

import (
	"time"

	"github.com/openwscand/scand/internal/bss"
)

// periodicState is the Periodic Scan Driver's bookkeeping (spec.md §4.6).
type periodicState struct {
	interval int // seconds, current backoff value
	max      int

	timer   *time.Timer
	running bool

	needsActiveScan bool
	currentID       RequestID

	cb PeriodicCallbacks
}

// periodicStart arms the driver and submits the first request at
// PeriodicPriority (spec.md §4.6). A no-op if DisablePeriodicScan is set.
func (c *Context) periodicStart(cb PeriodicCallbacks) error {
	cfg := c.cfg().Scan
	if cfg.DisablePeriodicScan {
		return nil
	}
	if c.periodic != nil {
		c.periodicStop()
	}
	c.periodic = &periodicState{
		interval: cfg.InitialPeriodicScanInterval,
		max:      cfg.MaximumPeriodicScanInterval,
		cb:       cb,
	}
	c.periodicSubmit()
	return nil
}

func (c *Context) periodicStop() {
	p := c.periodic
	if p == nil {
		return
	}
	c.periodic = nil // armPeriodicTimer no-ops against a nil c.periodic from here on
	if p.timer != nil {
		p.timer.Stop()
	}
	if p.running {
		c.cancel(p.currentID)
	}
}

func (c *Context) periodicSubmit() {
	p := c.periodic
	cfg := c.cfg()

	hiddenDiscovery := p.needsActiveScan && c.known != nil && c.known.HasHidden()
	active := cfg.Scan.EnableActiveScanning || hiddenDiscovery
	p.needsActiveScan = false

	params := Parameters{Flush: true, HiddenScan: active && hiddenDiscovery}
	cmds, err := buildCommands(c.wp, c.known, !active, params, addressingConfig{disableRandomization: cfg.Scan.DisableMacAddressRandomization})
	if err != nil {
		return
	}

	id := c.submit(!active, true, cmds, params.Freqs, PeriodicPriority, Callbacks{
		Notify: func(err error, results []*bss.Record, freqs []uint32) bool {
			claimed := false
			if p.cb.Notify != nil {
				claimed = p.cb.Notify(err, results, freqs)
			}
			return claimed
		},
		Destroy: func() {
			p.running = false
			c.armPeriodicTimer()
			if p.cb.Destroy != nil {
				p.cb.Destroy()
			}
		},
	})
	p.currentID = id
	p.running = true
}

func (c *Context) armPeriodicTimer() {
	p := c.periodic
	if p == nil {
		return
	}
	d := time.Duration(p.interval) * time.Second
	if p.timer == nil {
		p.timer = time.NewTimer(d)
	} else {
		p.timer.Reset(d)
	}
	if c.mc != nil {
		c.mc.SetPeriodicInterval(c.radioID, float64(p.interval))
	}
}

func (c *Context) onPeriodicTimer() {
	p := c.periodic
	if p == nil || p.running {
		return
	}
	if p.interval*2 > p.max {
		p.interval = p.max
	} else {
		p.interval *= 2
	}
	c.periodicSubmit()
}
