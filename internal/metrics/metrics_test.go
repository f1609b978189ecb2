package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/openwscand/scand/internal/bss"
)

func collectAll(t *testing.T, c *Collector) []*dto.MetricFamily {
	t.Helper()
	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	return mfs
}

func findFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func TestCollectorReportsRadioState(t *testing.T) {
	c := NewCollector(nil, nil)
	c.AddRadio(0)
	c.SetState(0, RadioScanning)
	c.SetPeriodicInterval(0, 42.5)

	mfs := collectAll(t, c)

	stateFamily := findFamily(mfs, "scan_radio_state")
	if stateFamily == nil {
		t.Fatal("scan_radio_state family not found")
	}
	var sawActive bool
	for _, m := range stateFamily.Metric {
		var state string
		for _, l := range m.Label {
			if l.GetName() == "state" {
				state = l.GetValue()
			}
		}
		if state == "scanning" && m.GetGauge().GetValue() == 1 {
			sawActive = true
		}
	}
	if !sawActive {
		t.Fatal("expected scan_radio_state{state=\"scanning\"} == 1 after SetState")
	}

	intervalFamily := findFamily(mfs, "scan_periodic_interval_seconds")
	if intervalFamily == nil || intervalFamily.Metric[0].GetGauge().GetValue() != 42.5 {
		t.Fatalf("scan_periodic_interval_seconds = %+v, want 42.5", intervalFamily)
	}
}

func TestCollectorRemoveRadioDropsIt(t *testing.T) {
	c := NewCollector(nil, nil)
	c.AddRadio(1)
	c.RemoveRadio(1)

	mfs := collectAll(t, c)
	stateFamily := findFamily(mfs, "scan_radio_state")
	if stateFamily != nil && len(stateFamily.Metric) != 0 {
		t.Fatalf("expected no scan_radio_state samples after RemoveRadio, got %d", len(stateFamily.Metric))
	}
}

func TestObserveBSSFeedsRankHistogram(t *testing.T) {
	c := NewCollector(nil, nil)
	r := &bss.Record{BSSID: [6]byte{1, 2, 3, 4, 5, 6}, Rank: 50000, Frequency: 5180}
	c.ObserveBSS(r)

	mfs := collectAll(t, c)
	rankFamily := findFamily(mfs, "bss_rank_observed")
	if rankFamily == nil || rankFamily.Metric[0].GetHistogram().GetSampleCount() != 1 {
		t.Fatalf("expected one sample in bss_rank_observed, got %+v", rankFamily)
	}

	freqFamily := findFamily(mfs, "bss_frequency_mhz")
	if freqFamily == nil || freqFamily.Metric[0].GetHistogram().GetSampleCount() != 1 {
		t.Fatalf("expected one sample in bss_frequency_mhz, got %+v", freqFamily)
	}
}
