package bss

import "github.com/openwscand/scand/internal/ie"

const (
	defaultUtilization = 127
	defaultDataRateBps = 2_000_000
)

// RateEstimator estimates a BSS's achievable data rate from its raw IEs,
// matching the wiphy_estimate_data_rate collaborator of spec.md §6.3. It
// is defined here, at the point of use, so this package never needs to
// import the wiphy package; any type satisfying this signature (in
// particular *wiphy.Device) can be passed to Build.
type RateEstimator interface {
	EstimateDataRate(ies []byte, htCapable, vhtCapable bool) (bitsPerSecond uint64, ok bool)
}

// Attrs holds the kernel attributes consumed per BSS (spec.md §6.1):
// BSSID, capability, frequency, signal (either mBm or an 8-bit unitless
// strength), information elements (generic or beacon-specific), the
// parent TSF, whether the IEs came from a probe response, and the two
// forms in which "when was this last seen" can be reported.
type Attrs struct {
	BSSID      [6]byte
	Frequency  uint32
	Capability uint16

	HaveSignalMBm bool
	SignalMBm     int32
	HaveSignalU8  bool
	SignalU8      uint8

	IEs       []byte
	BeaconIEs []byte
	PrespData bool

	ParentTSF uint64

	HaveSeenMsAgo bool
	SeenMsAgo     uint32

	HaveLastSeenBootUs bool
	LastSeenBootUs     uint64
}

// Build assembles a Record from attrs, parsing whichever IE blob is
// present (information-elements attribute if set, else beacon-IEs) and
// tagging source_frame per spec.md §3 invariant (iii): probe-response if
// the presp-data flag accompanied generic IEs, beacon otherwise. scanTime
// is used to synthesize time_stamp when the kernel reported an elapsed
// "seen ms ago" instead of an absolute boottime. rate estimates the data
// rate; a nil rate or a failed estimate falls back to 2 Mbit/s.
//
// Build returns ie.ErrNoSSID / ie.ErrSSIDTooLong / ie.ErrTruncated when
// the IE blob is malformed; callers must drop such BSSes silently per
// spec.md §7, not surface the error to the user.
func Build(attrs Attrs, scanTimeUs uint64, rate RateEstimator, rank5GFactor float64) (*Record, error) {
	iesUsed := attrs.IEs
	source := SourceProbeResponse
	if len(iesUsed) == 0 {
		iesUsed = attrs.BeaconIEs
		source = SourceBeacon
	} else if !attrs.PrespData {
		source = SourceBeacon
	}

	frags, err := ie.Parse(iesUsed)
	if err != nil {
		return nil, err
	}

	r := &Record{
		BSSID:       attrs.BSSID,
		Frequency:   attrs.Frequency,
		Capability:  attrs.Capability,
		SSID:        frags.SSID,
		SourceFrame: source,
		StartTSF:    attrs.ParentTSF,

		RSN:               frags.RSN,
		RSNX:              frags.RSNX,
		WPA:               frags.WPA,
		OSEN:              frags.OSEN,
		WSC:               frags.WSC,
		RoamingConsortium: frags.RoamingConsortium,
		WFD:               frags.WFD,
		OWETransition:     frags.OWETransitionInfo,

		HS20Version:     frags.HS20Version,
		HS20Capable:     frags.HS20Capable,
		HS20DGAFDisable: frags.HS20DGAFDisable,

		HESSID:        frags.HESSID,
		HESSIDPresent: frags.HESSIDPresent,

		MobilityDomain: frags.MDE,
		MDEPresent:     frags.MDEPresent,

		CountryCode:    frags.CountryCode,
		CountryPresent: frags.CountryPresent,

		ANQPCapable:          frags.ANQPCapable,
		HTCapable:            frags.HTCapable,
		VHTCapable:           frags.VHTCapable,
		ProxyARP:             frags.ProxyARP,
		CapRMNeighborReport:  frags.CapRMNeighborReport,
		DPPConfigurator:      frags.DPPConfigurator,
		ForceDefaultSAEGroup: frags.ForceDefaultSAEGroup,

		OptionalIE: frags.OptionalIE,
	}

	switch source {
	case SourceProbeResponse:
		r.P2PProbeResponse = frags.P2P
	case SourceBeacon:
		r.P2PBeacon = frags.P2P
	case SourceProbeRequest:
		r.P2PProbeRequest = frags.P2P
	}

	if frags.HaveUtilization {
		r.Utilization = frags.Utilization
	} else {
		r.Utilization = defaultUtilization
	}

	r.SignalMBm = signalMBm(attrs)

	r.DataRate = defaultDataRateBps
	if rate != nil {
		if estimated, ok := rate.EstimateDataRate(iesUsed, r.HTCapable, r.VHTCapable); ok && estimated > 0 {
			r.DataRate = estimated
		}
	}

	r.Rank = Rank(r.DataRate, r.Frequency, r.Utilization, rank5GFactor)

	r.TimeStampUs = timeStamp(attrs, scanTimeUs)

	return r, nil
}

func signalMBm(attrs Attrs) int32 {
	if attrs.HaveSignalMBm {
		return attrs.SignalMBm
	}
	if attrs.HaveSignalU8 {
		return int32(attrs.SignalU8)*100 - 10000
	}
	return 0
}

func timeStamp(attrs Attrs, scanTimeUs uint64) uint64 {
	if attrs.HaveLastSeenBootUs {
		return attrs.LastSeenBootUs
	}
	if attrs.HaveSeenMsAgo {
		elapsedUs := uint64(attrs.SeenMsAgo) * 1000
		if elapsedUs > scanTimeUs {
			return 0
		}
		return scanTimeUs - elapsedUs
	}
	return scanTimeUs
}
