package ie

// Advertisement Protocol tuple IDs (IEEE 802.11-2016 Table 9-278).
const (
	advANQP          = 0x00
	advMIHService    = 0x01
	advMIHDiscovery  = 0x02
	advEAS           = 0x03
	advRLQP          = 0x04
	advVendorSpecific = 0xDC
)

// parseAdvertisementProtocol walks the Advertisement Protocol element's
// sub-tuples looking for an ANQP protocol id; the search stops as soon as
// one is found, matching the original's early-return once anqp_capable is
// known. Each tuple is (query-response info byte, protocol id byte,
// optional vendor length+OUI for the vendor-specific id).
func parseAdvertisementProtocol(f *Fragments, data []byte) {
	for len(data) >= 2 {
		id := data[1]

		switch id {
		case advANQP:
			f.ANQPCapable = true
			return
		case advVendorSpecific:
			if len(data) < 3 {
				return
			}
			vendorLen := int(data[2])
			if len(data) < 3+vendorLen {
				return
			}
			data = data[3+vendorLen:]
		default:
			data = data[2:]
		}
	}
}
