package main

import (
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openwscand/scand/internal/bss"
	"github.com/openwscand/scand/internal/freqset"
	"github.com/openwscand/scand/internal/genl"
	"github.com/openwscand/scand/internal/metrics"
	"github.com/openwscand/scand/internal/scan"
	"github.com/openwscand/scand/internal/scanconfig"
	"github.com/openwscand/scand/internal/wiphy"
)

// demoRadioID stands in for whatever radio-enumeration component would
// exist in a full daemon (spec.md §12 Non-goals: capability discovery is
// out of scope here); this binary wires one hard-coded radio so the
// scan core has something to drive.
const demoRadioID uint32 = 0

// staticWiphy is a fixed capability set for the demo radio, standing in
// for real nl80211 capability discovery (non-goal, spec.md §12).
type staticWiphy struct{}

func (staticWiphy) MaxSSIDsPerScan() int         { return 4 }
func (staticWiphy) MaxScanIELen() int            { return 512 }
func (staticWiphy) CanRandomizeMACAddr() bool    { return true }
func (staticWiphy) HasExtFeature(wiphy.Feature) bool { return true }
func (staticWiphy) ExtendedCapabilities(bool) []byte { return []byte{0, 0, 0, 0x80} }
func (staticWiphy) SupportedRates(band wiphy.Band) []uint16 {
	if band == wiphy.Band5GHz {
		return []uint16{120, 180, 240, 360, 480, 540}
	}
	return append([]uint16{10, 20, 55, 110}, 60, 90, 120, 180, 240, 360, 480, 540)
}
func (staticWiphy) EstimateDataRate(ies []byte, htCapable, vhtCapable bool) (uint64, bool) {
	switch {
	case vhtCapable:
		return 866_700_000, true
	case htCapable:
		return 150_000_000, true
	default:
		return 54_000_000, true
	}
}

// emptyKnownNetworks reports no known hidden networks, standing in for
// the daemon's real credential/known-network store (non-goal, spec.md §12).
type emptyKnownNetworks struct{}

func (emptyKnownNetworks) ForEach(func(ssid string, hidden bool)) {}
func (emptyKnownNetworks) HasHidden() bool                        { return false }

type staticLookup struct{}

func (staticLookup) Wiphy(radioID uint32) (wiphy.Wiphy, bool) {
	if radioID != demoRadioID {
		return nil, false
	}
	return staticWiphy{}, true
}

func (staticLookup) KnownNetworks(radioID uint32) (wiphy.KnownNetworks, bool) {
	if radioID != demoRadioID {
		return nil, false
	}
	return emptyKnownNetworks{}, true
}

func main() {
	log := logrus.New()
	entry := logrus.NewEntry(log)

	hostname, err := os.Hostname()
	if err != nil {
		log.Fatal(err)
	}

	conn, err := genl.DialKernelConn()
	if err != nil {
		log.Fatalf("dial nl80211: %v", err)
	}
	defer conn.Close()

	cfgMgr, err := scanconfig.NewManager("/etc/scand/scanconfig.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	mc := metrics.NewCollector(
		prometheus.Labels{"app": "scand", "hostname": hostname},
		func(err error) { entry.WithError(err).Warn("metrics collector error") },
	)
	prometheus.MustRegister(mc)

	reg := scan.NewRegistry(conn, staticLookup{}, cfgMgr, mc, entry)
	defer reg.Close()

	reg.AddDevice(demoRadioID)

	_, err = reg.ScanPassive(demoRadioID, freqset.New(2412, 2437, 2462), scan.Callbacks{
		Trigger: func() { entry.Info("scan triggered") },
		Notify: func(err error, results []*bss.Record, freqs []uint32) bool {
			if err != nil {
				entry.WithError(err).Warn("scan failed")
				return false
			}
			entry.Infof("scan complete: %d BSSes", len(results))
			return false
		},
		Destroy: func() { entry.Info("scan request destroyed") },
	})
	if err != nil {
		entry.WithError(err).Warn("scan request rejected")
	}

	http.Handle("/metrics", promhttp.Handler())
	log.Fatal(http.ListenAndServe(":18080", nil))
}
