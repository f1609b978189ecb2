package wiphy

// Device is a concrete Wiphy backed by static capability fields (as
// reported by the out-of-scope capability-discovery collaborator named
// in spec.md §1) plus the kernel-version feature-table fallback for
// anything the discovery layer didn't report.
type Device struct {
	RadioID uint32

	MaxSSIDs    int
	MaxIELength int
	CanRandMAC  bool

	ExtFeatures map[Feature]bool
	Features    *KernelFeatureTable

	ExtCapsStation []byte
	ExtCapsAP      []byte

	Rates2GHz []uint16
	Rates5GHz []uint16
}

func (d *Device) ID() uint32 { return d.RadioID }

func (d *Device) MaxSSIDsPerScan() int { return d.MaxSSIDs }

func (d *Device) MaxScanIELen() int { return d.MaxIELength }

func (d *Device) CanRandomizeMACAddr() bool { return d.CanRandMAC }

func (d *Device) HasExtFeature(feature Feature) bool {
	if d.ExtFeatures != nil {
		if v, ok := d.ExtFeatures[feature]; ok {
			return v
		}
	}
	if d.Features != nil {
		return d.Features.Supports(feature)
	}
	return false
}

func (d *Device) ExtendedCapabilities(stationMode bool) []byte {
	if stationMode {
		return d.ExtCapsStation
	}
	return d.ExtCapsAP
}

func (d *Device) SupportedRates(band Band) []uint16 {
	switch band {
	case Band2GHz:
		return d.Rates2GHz
	case Band5GHz:
		return d.Rates5GHz
	default:
		return nil
	}
}

// Legacy PHY rate tags carried in Supported Rates (1) / Extended
// Supported Rates (50) elements, in 500 kbit/s units; EstimateDataRate
// masks off the basic-rate bit (0x80) of each rate byte itself.
const (
	tagSupportedRates    = 1
	tagExtSupportedRates = 50
)

// Nominal PHY ceilings used when HT/VHT capability flags are present but
// the exact MCS table is unavailable (capability-discovery is out of
// scope, spec.md §1).
const (
	htNominalRateBps  = 150_000_000
	vhtNominalRateBps = 780_000_000
)

// EstimateDataRate implements bss.RateEstimator: VHT/HT capability flags
// take priority as a coarse ceiling; otherwise the highest legacy rate
// advertised in the Supported Rates / Extended Supported Rates elements
// is used. Returns ok=false if neither source yields a rate, letting the
// caller fall back to the spec's default of 2 Mbit/s.
func (d *Device) EstimateDataRate(ies []byte, htCapable, vhtCapable bool) (uint64, bool) {
	if vhtCapable {
		return vhtNominalRateBps, true
	}
	if htCapable {
		return htNominalRateBps, true
	}

	var maxHalfMbit uint8
	for len(ies) >= 2 {
		tag, length := ies[0], int(ies[1])
		if len(ies) < 2+length {
			break
		}
		if tag == tagSupportedRates || tag == tagExtSupportedRates {
			for _, r := range ies[2 : 2+length] {
				r &^= 0x80 // clear basic-rate bit
				if r > maxHalfMbit {
					maxHalfMbit = r
				}
			}
		}
		ies = ies[2+length:]
	}

	if maxHalfMbit == 0 {
		return 0, false
	}
	return uint64(maxHalfMbit) * 500_000, true
}
