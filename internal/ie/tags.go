// Package ie implements total, non-panicking decoders over IEEE 802.11
// information-element (TLV) byte streams, as described in spec.md §4.2.
// Every exported Parse* function either returns a populated fragment or
// reports that the input is malformed; none of them retain allocations
// from the input slice on the malformed path, and none of them panic on
// truncated or adversarial input.
package ie

// Tag identifies an IEEE 802.11 information element by its tag number.
type Tag uint8

// Information element tags used by the scan core (IEEE 802.11-2016 Table 9-77
// unless noted).
const (
	TagSSID                  Tag = 0
	TagBSSLoad               Tag = 11
	TagRSN                   Tag = 48
	TagMobilityDomain        Tag = 54
	TagHTCapabilities        Tag = 45
	TagRMEnabledCapabilities Tag = 70
	TagCountry               Tag = 7
	TagRoamingConsortium     Tag = 111
	TagInterworking          Tag = 107
	TagAdvertisementProtocol Tag = 108
	TagVHTCapabilities       Tag = 191
	TagExtendedCapabilities  Tag = 127
	TagVendorSpecific        Tag = 221
	TagRSNX                  Tag = 244
)

// Element is one raw (tag, payload) tuple from a TLV stream. Data borrows
// from the slice passed to Iterate and must not be retained past the
// iteration unless copied.
type Element struct {
	Tag  Tag
	Data []byte
}

// bit reports whether bit n (0-indexed, as in IEEE 802.11 Extended
// Capabilities numbering) is set in data, treating any byte beyond the end
// of data as zero.
func bit(data []byte, n int) bool {
	byteIdx := n / 8
	if byteIdx >= len(data) {
		return false
	}
	return data[byteIdx]&(1<<uint(n%8)) != 0
}
