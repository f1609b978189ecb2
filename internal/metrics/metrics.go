// Package metrics is the Prometheus exporter for this scan core, in the
// Describe/Collect shape of the teacher's pkg/exporter.TCPInfoCollector:
// a mutex-guarded map keyed by radio id instead of by net.Conn, walked
// fresh on every Collect rather than pushed on every state change.
package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/openwscand/scand/internal/bss"
)

// RadioState is the coarse state of one radio's scan context, for the
// scan_radio_state gauge (1 for the active state, 0 otherwise, following
// Prometheus's enum-via-multiple-gauges convention).
type RadioState int

const (
	RadioIdle RadioState = iota
	RadioTriggering
	RadioScanning
	RadioSuspended
)

func (s RadioState) String() string {
	switch s {
	case RadioTriggering:
		return "triggering"
	case RadioScanning:
		return "scanning"
	case RadioSuspended:
		return "suspended"
	default:
		return "idle"
	}
}

var allStates = []RadioState{RadioIdle, RadioTriggering, RadioScanning, RadioSuspended}

type radioEntry struct {
	state                   RadioState
	periodicIntervalSeconds float64
	lastScanDurationSeconds float64
}

// Collector exports per-radio scan state and per-BSS ranking metrics. Add
// radios explicitly (mirroring TCPInfoCollector.Add), then call SetState /
// SetPeriodicInterval / ObserveScanDuration / ObserveBSS as the scan core
// drives each radio; Collect walks the current snapshot on every scrape.
type Collector struct {
	mu     sync.Mutex
	radios map[uint32]*radioEntry
	logger func(error)

	stateDesc    *prometheus.Desc
	intervalDesc *prometheus.Desc
	durationDesc *prometheus.Desc
	rankHist     prometheus.Histogram
	bssMetrics   []bssMetric
}

// NewCollector constructs a Collector. errorLoggingCallback is stored on
// the Collector and may be nil; no code path in this package calls it.
func NewCollector(constLabels prometheus.Labels, errorLoggingCallback func(error)) *Collector {
	c := &Collector{
		radios: make(map[uint32]*radioEntry),
		logger: errorLoggingCallback,
		stateDesc: prometheus.NewDesc(
			"scan_radio_state", "Current scan-context state for a radio (1 for the active state).",
			[]string{"radio_id", "state"}, constLabels,
		),
		intervalDesc: prometheus.NewDesc(
			"scan_periodic_interval_seconds", "Current periodic-scan backoff interval for a radio.",
			[]string{"radio_id"}, constLabels,
		),
		durationDesc: prometheus.NewDesc(
			"scan_last_duration_seconds", "Wall-clock duration of the most recently completed scan for a radio.",
			[]string{"radio_id"}, constLabels,
		),
		rankHist: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "bss_rank_observed",
			Help:        "Distribution of rank scores computed for observed BSSes.",
			Buckets:     prometheus.LinearBuckets(0, 65535.0/10, 11),
			ConstLabels: constLabels,
		}),
	}
	c.bssMetrics = newBSSMetrics(constLabels)
	return c
}

func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.stateDesc
	descs <- c.intervalDesc
	descs <- c.durationDesc
	c.rankHist.Describe(descs)
	for _, m := range c.bssMetrics {
		m.collector.Describe(descs)
	}
}

func (c *Collector) Collect(out chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for radioID, e := range c.radios {
		label := strconv.FormatUint(uint64(radioID), 10)
		for _, s := range allStates {
			v := 0.0
			if s == e.state {
				v = 1.0
			}
			out <- prometheus.MustNewConstMetric(c.stateDesc, prometheus.GaugeValue, v, label, s.String())
		}
		out <- prometheus.MustNewConstMetric(c.intervalDesc, prometheus.GaugeValue, e.periodicIntervalSeconds, label)
		out <- prometheus.MustNewConstMetric(c.durationDesc, prometheus.GaugeValue, e.lastScanDurationSeconds, label)
	}
	c.rankHist.Collect(out)
	for _, m := range c.bssMetrics {
		m.collector.Collect(out)
	}
}

// AddRadio registers radioID with the collector, in the idle state.
func (c *Collector) AddRadio(radioID uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.radios[radioID] = &radioEntry{}
}

// RemoveRadio drops radioID, mirroring TCPInfoCollector.Remove.
func (c *Collector) RemoveRadio(radioID uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.radios, radioID)
}

func (c *Collector) SetState(radioID uint32, state RadioState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.radios[radioID]; ok {
		e.state = state
	}
}

func (c *Collector) SetPeriodicInterval(radioID uint32, seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.radios[radioID]; ok {
		e.periodicIntervalSeconds = seconds
	}
}

func (c *Collector) ObserveScanDuration(radioID uint32, seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.radios[radioID]; ok {
		e.lastScanDurationSeconds = seconds
	}
}

// ObserveBSS records one parsed BSS record's metric-tagged fields into
// the generated per-field HistogramVecs (generated_metrics.go), the way
// TCPInfoCollector.Collect walks t.infos for a fresh tcpInfo sample —
// except each field is observed as it is produced rather than re-read at
// scrape time, since a BSS record is a point-in-time event, not a
// standing connection Collect can poll.
func (c *Collector) ObserveBSS(r *bss.Record) {
	c.rankHist.Observe(float64(r.Rank))

	bssidLabel := bssidString(r.BSSID)
	for _, m := range c.bssMetrics {
		m.observe(r, bssidLabel)
	}
}

func bssidString(bssid [6]byte) string {
	const hex = "0123456789abcdef"
	b := make([]byte, 0, 17)
	for i, v := range bssid {
		if i > 0 {
			b = append(b, ':')
		}
		b = append(b, hex[v>>4], hex[v&0xf])
	}
	return string(b)
}
