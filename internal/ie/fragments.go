package ie

import "errors"

// ErrSSIDTooLong is returned when an SSID element's length exceeds 32
// bytes (spec.md §4.2, §8 property 8).
var ErrSSIDTooLong = errors.New("ie: ssid longer than 32 bytes")

// ErrNoSSID is returned when the information-element stream never carried
// an SSID element. spec.md §4.2 requires this to reject the record
// outright rather than return a partially-populated one.
var ErrNoSSID = errors.New("ie: no ssid element present")

// OWETransition carries the fields of an OWE transition-mode vendor IE
// (Opportunistic Wireless Encryption discovery hint).
type OWETransition struct {
	SSID            string
	BSSID           [6]byte
	HasOperClass    bool
	OperatingClass  uint8
	Channel         uint8
}

// Fragments is the full set of typed payloads a Parse pass can extract
// from one BSS's information-element blob. Exactly the fields spec.md §3
// lists as "optional IE-derived payloads", plus SSID/utilization/MDE/
// country/RM which spec.md treats as always-considered.
type Fragments struct {
	SSID    string
	Utilization  uint8
	HaveUtilization bool

	RSN  []byte // raw bytes including tag+length header
	RSNX []byte
	WPA  []byte
	OSEN []byte

	MDE        [3]byte
	MDEPresent bool

	CapRMNeighborReport bool

	CountryCode     [3]byte
	CountryPresent  bool

	HTCapable  bool
	VHTCapable bool

	ANQPCapable bool

	HESSID        [6]byte
	HESSIDPresent bool

	RoamingConsortium []byte // raw bytes including header

	ProxyARP bool

	HS20Capable     bool
	HS20DGAFDisable bool
	HS20Version     uint8

	OWETransitionInfo *OWETransition

	DPPConfigurator         bool
	ForceDefaultSAEGroup    bool

	WSC []byte
	WFD []byte

	// P2P holds the concatenated payload of every P2P vendor-specific
	// element found (802.11 allows a P2P attribute stream to be split
	// across consecutive vendor IEs). Which BSS field it ends up in
	// (probe-response/request/beacon) depends on the frame the IE blob
	// came from, which this package does not know; see
	// bss.Record.SourceFrame and the builder in internal/bss.
	P2P []byte

	// OptionalIE carries vendor-specific payloads whose OUI and type the
	// dispatcher recognizes but has no typed field for (currently the
	// network-cost element); vendor elements with an unrecognized OUI or
	// type are not kept here. Callers needing
	// a raw tag/value escape hatch can inspect it instead of requiring
	// the parser to grow an unbounded field list (see SPEC_FULL.md §5).
	OptionalIE map[Tag][][]byte
}

// Parse decodes the information-element stream in data. It applies the
// same element rules whatever frame type the blob came from; tagging the
// source frame is left to the builder in internal/bss (see
// bss.Record.SourceFrame). Parse is pure and total: any input either
// produces *Fragments with SSID populated, or a non-nil error.
func Parse(data []byte) (*Fragments, error) {
	f := &Fragments{}
	haveSSID := false
	var parseErr error

	err := Iterate(data, func(el Element) bool {
		switch el.Tag {
		case TagSSID:
			if len(el.Data) > 32 {
				parseErr = ErrSSIDTooLong
				return false
			}
			f.SSID = string(el.Data)
			haveSSID = true

		case TagRSN:
			if f.RSN == nil {
				f.RSN = rawWithHeader(el)
			}

		case TagRSNX:
			if f.RSNX == nil {
				f.RSNX = rawWithHeader(el)
			}

		case TagBSSLoad:
			if len(el.Data) >= 3 {
				f.Utilization = el.Data[2]
				f.HaveUtilization = true
			}

		case TagMobilityDomain:
			if !f.MDEPresent && len(el.Data) == 3 {
				copy(f.MDE[:], el.Data)
				f.MDEPresent = true
			}

		case TagRMEnabledCapabilities:
			if len(el.Data) == 5 {
				f.CapRMNeighborReport = el.Data[0]&0x02 != 0
			}

		case TagCountry:
			if !f.CountryPresent && len(el.Data) >= 6 {
				copy(f.CountryCode[:], el.Data[:3])
				f.CountryPresent = true
			}

		case TagHTCapabilities:
			f.HTCapable = true

		case TagVHTCapabilities:
			f.VHTCapable = true

		case TagAdvertisementProtocol:
			if len(el.Data) >= 2 {
				parseAdvertisementProtocol(f, el.Data)
			}

		case TagInterworking:
			switch len(el.Data) {
			case 9:
				copy(f.HESSID[:], el.Data[3:9])
				f.HESSIDPresent = true
			case 7:
				copy(f.HESSID[:], el.Data[1:7])
				f.HESSIDPresent = true
			}

		case TagRoamingConsortium:
			if len(el.Data) >= 2 {
				f.RoamingConsortium = rawWithHeader(el)
			}

		case TagExtendedCapabilities:
			f.ProxyARP = bit(el.Data, 12)

		case TagVendorSpecific:
			parseVendorSpecific(f, el.Data)
		}

		return true
	})
	if err != nil {
		return nil, err
	}
	if parseErr != nil {
		return nil, parseErr
	}
	if !haveSSID {
		return nil, ErrNoSSID
	}

	return f, nil
}

func rawWithHeader(el Element) []byte {
	out := make([]byte, 2+len(el.Data))
	out[0] = byte(el.Tag)
	out[1] = byte(len(el.Data))
	copy(out[2:], el.Data)
	return out
}

func addOptional(f *Fragments, tag Tag, data []byte) {
	if f.OptionalIE == nil {
		f.OptionalIE = make(map[Tag][][]byte)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	f.OptionalIE[tag] = append(f.OptionalIE[tag], cp)
}
