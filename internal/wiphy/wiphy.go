// Package wiphy defines the radio-capability and known-network
// collaborators named in spec.md §6.3. Full capability discovery is out
// of scope for the scan core (spec.md §1); this package only specifies
// the narrow interfaces the scan core consumes, plus a kernel-version
// gated feature table in the style of the teacher's tcp_info struct-size
// table.
package wiphy

// KnownNetworks iterates the configured known networks and reports
// whether any of them is hidden.
type KnownNetworks interface {
	ForEach(fn func(ssid string, hidden bool))
	HasHidden() bool
}

// Wiphy is the radio-capability collaborator consumed while building scan
// trigger commands (spec.md §4.4) and estimating a BSS's data rate
// (spec.md §4.3).
type Wiphy interface {
	MaxSSIDsPerScan() int
	MaxScanIELen() int
	CanRandomizeMACAddr() bool
	HasExtFeature(feature Feature) bool
	ExtendedCapabilities(stationMode bool) []byte
	SupportedRates(band Band) []uint16
	EstimateDataRate(ies []byte, htCapable, vhtCapable bool) (bitsPerSecond uint64, ok bool)
}

// Feature names an NL80211_EXT_FEATURE-equivalent boolean the core checks
// before attaching an optional trigger attribute (randomization,
// random-sequence-number, scan-dwell control).
type Feature string

const (
	FeatureScanRandomMACAddr Feature = "scan_random_mac_addr"
	FeatureRandomSequenceNum Feature = "random_sn"
	FeatureScanDwellControl  Feature = "low_span_scan"
)

// Band identifies a PHY band for SupportedRates.
type Band string

const (
	Band2GHz Band = "2.4GHz"
	Band5GHz Band = "5GHz"
)

// CCKRates are the 802.11b rates (half-Mbit/s units as the kernel reports
// them: 2, 4, 11, 22 meaning 1, 2, 5.5, 11 Mbit/s) excluded by the
// no_cck_rates trigger option (spec.md §4.4, §8 property 7).
var CCKRates = map[uint16]bool{2: true, 4: true, 11: true, 22: true}

// NonCCKRates returns the subset of rates that are not 802.11b CCK rates,
// preserving order. If the result is empty, callers must omit the
// no-CCK clause entirely (spec.md §8 property 7).
func NonCCKRates(rates []uint16) []uint16 {
	var out []uint16
	for _, r := range rates {
		if !CCKRates[r] {
			out = append(out, r)
		}
	}
	return out
}
