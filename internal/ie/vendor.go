package ie

import "bytes"

// Organizationally unique identifiers used by the vendor-specific element
// (tag 221) dispatcher.
var (
	ouiMicrosoft = [3]byte{0x00, 0x50, 0xf2}
	ouiWFA       = [3]byte{0x50, 0x6f, 0x9a}
)

// Microsoft OUI vendor-specific types.
const (
	msftTypeWPA = 1
	msftTypeWSC = 4
)

// WFA OUI vendor-specific types.
const (
	wfaTypeP2P                   = 9
	wfaTypeWFD                   = 10
	wfaTypeHS20Indication        = 0x10
	wfaTypeOSEN                  = 0x12
	wfaTypeDPPConfigConnectivity = 0x1a
	wfaTypeNetworkCost           = 0x1b
	wfaTypeOWETransition         = 0x1c
	wfaTypeDefaultSAEGroup       = 0x1f
)

func matchOUI(data []byte, oui [3]byte, typ byte) bool {
	return len(data) >= 4 && bytes.Equal(data[:3], oui[:]) && data[3] == typ
}

// parseVendorSpecific dispatches a vendor-specific element (tag 221) by its
// OUI and type byte, mirroring the original's scan_parse_vendor_specific
// cascade: one element matches at most one case and dispatch stops there.
// Several vendor elements can coexist on one BSS; each is dispatched on
// its own, and the first occurrence wins for the single-valued fields.
func parseVendorSpecific(f *Fragments, data []byte) {
	if len(data) < 4 {
		return
	}

	switch {
	case matchOUI(data, ouiMicrosoft, msftTypeWPA):
		if f.WPA == nil {
			f.WPA = rawVendor(data)
		}
		return

	case matchOUI(data, ouiWFA, wfaTypeOSEN):
		if f.OSEN == nil {
			f.OSEN = rawVendor(data)
		}
		return

	case matchOUI(data, ouiWFA, wfaTypeHS20Indication):
		parseHS20Indication(f, data[4:])
		return

	case matchOUI(data, ouiWFA, wfaTypeOWETransition):
		parseOWETransition(f, data[4:])
		return

	case matchOUI(data, ouiWFA, wfaTypeDPPConfigConnectivity):
		f.DPPConfigurator = true
		return

	case matchOUI(data, ouiWFA, wfaTypeNetworkCost):
		// Carried through OptionalIE: the core has no typed cost field,
		// matching spec.md's optional_ie escape hatch (SPEC_FULL.md §5).
		addOptional(f, TagVendorSpecific, data)
		return

	case matchOUI(data, ouiWFA, wfaTypeDefaultSAEGroup):
		f.ForceDefaultSAEGroup = true
		return

	case matchOUI(data, ouiMicrosoft, msftTypeWSC):
		if f.WSC == nil {
			f.WSC = rawVendor(data)
		}
		return

	case matchOUI(data, ouiWFA, wfaTypeWFD):
		if f.WFD == nil {
			f.WFD = rawVendor(data)
		}
		return

	case matchOUI(data, ouiWFA, wfaTypeP2P):
		parseP2P(f, data)
		return
	}
}

func rawVendor(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	return out
}

// parseHS20Indication reads the Hotspot 2.0 Indication element's payload
// (immediately after the OUI+type): one flags byte whose low nibble is the
// release version, bit 4 of which is DGAF Disable.
func parseHS20Indication(f *Fragments, payload []byte) {
	if len(payload) < 1 {
		return
	}
	flags := payload[0]
	f.HS20Version = flags & 0x0f
	f.HS20DGAFDisable = flags&0x10 != 0
	f.HS20Capable = true
}

// parseOWETransition reads an OWE Transition Mode element's payload: a
// 6-byte BSSID, a length-prefixed SSID, and an optional operating-class +
// channel pair.
func parseOWETransition(f *Fragments, payload []byte) {
	if len(payload) < 7 {
		return
	}
	info := &OWETransition{}
	copy(info.BSSID[:], payload[:6])

	ssidLen := int(payload[6])
	payload = payload[7:]
	if len(payload) < ssidLen {
		return
	}
	info.SSID = string(payload[:ssidLen])
	payload = payload[ssidLen:]

	if len(payload) >= 2 {
		info.HasOperClass = true
		info.OperatingClass = payload[0]
		info.Channel = payload[1]
	}

	f.OWETransitionInfo = info
}
