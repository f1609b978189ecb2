// Package bss assembles parsed BSS records from scan-result attribute
// blobs (spec.md §4.3) and ranks them for delivery to scan request
// callbacks.
package bss

import "github.com/openwscand/scand/internal/ie"

// SourceFrame identifies which 802.11 management frame subtype a Record
// was built from. Per spec.md §3 invariant (iii), this is a best-effort
// guess from attribute hints and frame-subtype-only IE signatures; it is
// not safety-critical.
type SourceFrame int

const (
	SourceUnknown SourceFrame = iota
	SourceBeacon
	SourceProbeResponse
	SourceProbeRequest
)

func (s SourceFrame) String() string {
	switch s {
	case SourceBeacon:
		return "beacon"
	case SourceProbeResponse:
		return "probe-response"
	case SourceProbeRequest:
		return "probe-request"
	default:
		return "unknown"
	}
}

// Record is one observed basic service set, per spec.md §3.
type Record struct {
	BSSID      [6]byte
	Frequency  uint32 `metric:"name=bss_frequency_mhz,prom_type=histogram,prom_help='Center frequency of the last observation of this BSS, in MHz.',buckets='[]float64{2412, 2437, 2462, 5180, 5220, 5500, 5745, 5825}'"`
	Capability uint16
	SignalMBm  int32 `metric:"name=bss_signal_mbm,prom_type=histogram,prom_help='Last observed signal strength, in milli-dBm.',buckets='prometheus.LinearBuckets(-10000, 1000, 11)'"`
	SSID       string
	Utilization uint8 `metric:"name=bss_utilization_ratio,prom_type=histogram,prom_help='Channel utilization on a 0-255 scale reported in the BSS load element, or 127 when absent.',buckets='prometheus.LinearBuckets(0, 25.5, 11)'"`
	DataRate    uint64 `metric:"name=bss_data_rate_bps,prom_type=histogram,prom_help='Estimated achievable data rate for this BSS, in bits per second.',buckets='prometheus.ExponentialBuckets(2_000_000, 4, 8)'"`
	Rank        uint16 `metric:"name=bss_rank_by_bssid,prom_type=histogram,prom_help='Scan-result ranking score used to order scan callback delivery.',buckets='prometheus.LinearBuckets(0, 65535.0/10, 11)'"`
	SourceFrame SourceFrame
	TimeStampUs uint64
	StartTSF    uint64

	RSN               []byte
	RSNX              []byte
	WPA               []byte
	OSEN              []byte
	WSC               []byte
	RoamingConsortium []byte
	WFD               []byte

	P2PProbeResponse []byte
	P2PProbeRequest  []byte
	P2PBeacon        []byte

	OWETransition *ie.OWETransition

	HS20Version     uint8
	HS20Capable     bool
	HS20DGAFDisable bool

	HESSID        [6]byte
	HESSIDPresent bool

	MobilityDomain [3]byte
	MDEPresent     bool

	CountryCode    [3]byte
	CountryPresent bool

	ANQPCapable             bool
	HTCapable               bool
	VHTCapable              bool
	ProxyARP                bool
	CapRMNeighborReport     bool
	DPPConfigurator         bool
	ForceDefaultSAEGroup    bool

	OptionalIE map[ie.Tag][][]byte
}
