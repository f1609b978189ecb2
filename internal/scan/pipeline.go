package scan

import (
	"crypto/rand"

	"github.com/openwscand/scand/internal/genl"
	"github.com/openwscand/scand/internal/wiphy"
)

// IE tags used when assembling the probe-request extra-IE blob (spec.md
// §4.4 Table 9-33 ordering); named rather than left as magic literals,
// matching the teacher's convention of naming every packed field.
const (
	tagInterworking        = 107
	tagExtendedCapabilities = 127
)

// accessNetworkTypePrivate is the Interworking descriptor's access
// network type value for "Private network" (spec.md §4.4: "access
// network type 'private'").
const accessNetworkTypePrivate = 0x00

// interworkingCapByteIndex and interworkingCapBitMask locate the
// Interworking capability flag within Extended Capabilities: bit
// [3*8+7] = byte 3, bit 7.
const (
	interworkingCapByteIndex = 3
	interworkingCapBitMask   = 0x80
)

// buildExtraIE assembles the extended-capabilities + interworking +
// user extra-IE blob attached to every trigger in strict Table 9-33
// order (spec.md §4.4), but only when the radio advertises a nonzero
// max probe-request IE length.
func buildExtraIE(wp wiphy.Wiphy, userExtraIE []byte) []byte {
	if wp == nil || wp.MaxScanIELen() <= 0 {
		return nil
	}

	var out []byte

	extCaps := wp.ExtendedCapabilities(true)
	if len(extCaps) > 0 {
		out = append(out, tagExtendedCapabilities, byte(len(extCaps)))
		out = append(out, extCaps...)

		if len(extCaps) > interworkingCapByteIndex &&
			extCaps[interworkingCapByteIndex]&interworkingCapBitMask != 0 {
			interworking := []byte{accessNetworkTypePrivate}
			out = append(out, tagInterworking, byte(len(interworking)))
			out = append(out, interworking...)
		}
	}

	out = append(out, userExtraIE...)
	return out
}

// randomMAC generates the address-randomization hint: 46 random bits
// with the locally-administered bit set and the multicast bit clear
// (spec.md §4.4), expressed as a MAC + mask pair where a 1 mask bit
// means "the kernel must use the paired address bit as-is" and a 0 mask
// bit means "the kernel should randomize this bit".
func randomMAC() (mac, mask [6]byte, err error) {
	if _, err := rand.Read(mac[:]); err != nil {
		return mac, mask, err
	}
	mac[0] = (mac[0] &^ 0x03) | 0x02 // locally administered, unicast
	mask[0] = 0x03
	return mac, mask, nil
}

// applyAddressing sets the trigger's MAC/MAC-mask attributes: a caller
// fixed source MAC always wins (all-ones mask); otherwise randomization
// is applied when the radio supports it, it was requested, and
// configuration does not disable it.
func applyAddressing(attrs *genl.TriggerAttrs, wp wiphy.Wiphy, p Parameters, disableRandomization bool) error {
	if p.SourceMAC != nil {
		attrs.HaveMAC = true
		attrs.MAC = *p.SourceMAC
		attrs.MACMask = [6]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
		return nil
	}
	if p.RandomizeMACHint && wp != nil && wp.CanRandomizeMACAddr() && !disableRandomization {
		mac, mask, err := randomMAC()
		if err != nil {
			return err
		}
		attrs.HaveMAC = true
		attrs.MAC = mac
		attrs.MACMask = mask
		attrs.RandomAddr = true
	}
	return nil
}

// ssidSegment is one trigger's worth of SSIDs, used only to stage
// hidden-network batching before flattening into genl.TriggerAttrs.
type ssidSegment [][]byte

// buildSSIDSegments implements spec.md §4.4 "SSID list assembly": nil
// for passive, a single explicit SSID for a targeted active scan, or a
// batched sequence of hidden-known-network segments (each capped at
// maxPerScan, the final segment padded with the wildcard empty SSID)
// for hidden-network discovery.
func buildSSIDSegments(passive bool, p Parameters, known wiphy.KnownNetworks, maxPerScan int) []ssidSegment {
	if passive {
		return []ssidSegment{nil}
	}

	if p.HiddenScan {
		return buildHiddenSegments(known, maxPerScan)
	}

	if len(p.SSID) > 0 {
		return []ssidSegment{{append([]byte(nil), p.SSID...)}}
	}

	return []ssidSegment{{{}}} // wildcard broadcast probe
}

func buildHiddenSegments(known wiphy.KnownNetworks, maxPerScan int) []ssidSegment {
	if maxPerScan <= 0 {
		maxPerScan = 1
	}

	var hidden [][]byte
	if known != nil {
		known.ForEach(func(ssid string, isHidden bool) {
			if isHidden {
				hidden = append(hidden, []byte(ssid))
			}
		})
	}

	var segments []ssidSegment
	var cur ssidSegment
	for _, ssid := range hidden {
		cur = append(cur, ssid)
		if len(cur) == maxPerScan {
			segments = append(segments, cur)
			cur = nil
		}
	}

	cur = append(cur, []byte{}) // final wildcard
	segments = append(segments, cur)

	return segments
}

// buildCommands assembles the ordered sequence of genl.TriggerAttrs for
// one request (spec.md §4.4): one per SSID segment, sharing frequencies,
// extra IE, addressing, duration, and no-CCK settings, with FLUSH set
// only on the first segment of a multi-segment batch.
func buildCommands(wp wiphy.Wiphy, known wiphy.KnownNetworks, passive bool, p Parameters, cfg addressingConfig) ([]genl.TriggerAttrs, error) {
	maxSSIDs := 1
	if wp != nil {
		maxSSIDs = wp.MaxSSIDsPerScan()
	}
	segments := buildSSIDSegments(passive, p, known, maxSSIDs)

	extraIE := buildExtraIE(wp, p.ExtraIE)

	var noCCKRates []uint16
	if !passive && p.NoCCK && wp != nil {
		noCCKRates = wiphy.NonCCKRates(wp.SupportedRates(wiphy.Band2GHz))
	}

	cmds := make([]genl.TriggerAttrs, 0, len(segments))
	for i, seg := range segments {
		attrs := genl.TriggerAttrs{
			Freqs: p.Freqs,
			IE:    extraIE,
			Flush: p.Flush && i == 0,
		}
		if seg != nil {
			attrs.SSIDs = seg
		}

		if !passive {
			if err := applyAddressing(&attrs, wp, p, cfg.disableRandomization); err != nil {
				return nil, err
			}
			if wp != nil && wp.HasExtFeature(wiphy.FeatureRandomSequenceNum) {
				attrs.RandomSN = true
			}
			if len(noCCKRates) > 0 {
				attrs.NoCCK = true
				attrs.NoCCKRates = noCCKRates
			}
		}

		if wp != nil && wp.HasExtFeature(wiphy.FeatureScanDwellControl) && p.Duration != 0 {
			attrs.HaveDuration = true
			attrs.Duration = p.Duration
			attrs.DurationMandatory = p.DurationMandatory
		}

		cmds = append(cmds, attrs)
	}

	return cmds, nil
}

type addressingConfig struct {
	disableRandomization bool
}

// buildOWEHiddenCommands implements scan_owe_hidden (spec.md §6.4): one
// command if every target shares an SSID (frequencies combined, single
// FLUSH-enabled trigger), else one command per target (first
// FLUSH-enabled, the rest FLUSH-ignored so results accumulate).
func buildOWEHiddenCommands(wp wiphy.Wiphy, targets []oweTarget, cfg addressingConfig) ([]genl.TriggerAttrs, error) {
	if len(targets) == 0 {
		return nil, nil
	}

	sameSSID := true
	for _, t := range targets[1:] {
		if string(t.ssid) != string(targets[0].ssid) {
			sameSSID = false
			break
		}
	}

	if sameSSID {
		var freqs []uint32
		seen := make(map[uint32]bool)
		for _, t := range targets {
			if !seen[t.frequency] {
				seen[t.frequency] = true
				freqs = append(freqs, t.frequency)
			}
		}
		attrs := genl.TriggerAttrs{
			Freqs: freqs,
			SSIDs: [][]byte{append([]byte(nil), targets[0].ssid...)},
			Flush: true,
		}
		if err := applyAddressing(&attrs, wp, Parameters{RandomizeMACHint: true}, cfg.disableRandomization); err != nil {
			return nil, err
		}
		return []genl.TriggerAttrs{attrs}, nil
	}

	cmds := make([]genl.TriggerAttrs, 0, len(targets))
	for i, t := range targets {
		attrs := genl.TriggerAttrs{
			Freqs: []uint32{t.frequency},
			SSIDs: [][]byte{append([]byte(nil), t.ssid...)},
			Flush: i == 0,
		}
		if err := applyAddressing(&attrs, wp, Parameters{RandomizeMACHint: true}, cfg.disableRandomization); err != nil {
			return nil, err
		}
		cmds = append(cmds, attrs)
	}
	return cmds, nil
}

type oweTarget struct {
	ssid      []byte
	frequency uint32
}
