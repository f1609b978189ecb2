package ie

import "testing"

func tlv(tag Tag, data []byte) []byte {
	return append([]byte{byte(tag), byte(len(data))}, data...)
}

func TestParseRejectsTruncatedElement(t *testing.T) {
	data := []byte{byte(TagSSID), 5, 'a', 'b'} // claims 5 bytes, has 2
	if _, err := Parse(data); err != ErrTruncated {
		t.Fatalf("Parse() error = %v, want ErrTruncated", err)
	}
}

func TestParseRejectsOversizedSSID(t *testing.T) {
	long := make([]byte, 33)
	data := tlv(TagSSID, long)
	if _, err := Parse(data); err != ErrSSIDTooLong {
		t.Fatalf("Parse() error = %v, want ErrSSIDTooLong", err)
	}
}

func TestParseRequiresSSID(t *testing.T) {
	data := tlv(TagHTCapabilities, nil)
	if _, err := Parse(data); err != ErrNoSSID {
		t.Fatalf("Parse() error = %v, want ErrNoSSID", err)
	}
}

func TestParseSSID(t *testing.T) {
	data := tlv(TagSSID, []byte("myssid"))
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.SSID != "myssid" {
		t.Fatalf("SSID = %q, want %q", f.SSID, "myssid")
	}
}

func TestParseRSNFirstWins(t *testing.T) {
	data := append(tlv(TagSSID, []byte("s")), tlv(TagRSN, []byte{0x01, 0x02})...)
	data = append(data, tlv(TagRSN, []byte{0x03, 0x04})...)

	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []byte{byte(TagRSN), 2, 0x01, 0x02}
	if string(f.RSN) != string(want) {
		t.Fatalf("RSN = %v, want %v (first occurrence)", f.RSN, want)
	}
}

func TestParseMobilityDomainRequiresExactLength(t *testing.T) {
	data := append(tlv(TagSSID, []byte("s")), tlv(TagMobilityDomain, []byte{1, 2})...)
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.MDEPresent {
		t.Fatal("MDEPresent should be false for a 2-byte (wrong-length) MDE")
	}

	data = append(tlv(TagSSID, []byte("s")), tlv(TagMobilityDomain, []byte{1, 2, 3})...)
	f, err = Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !f.MDEPresent || f.MDE != [3]byte{1, 2, 3} {
		t.Fatalf("MDE = %v present=%v, want {1,2,3} present=true", f.MDE, f.MDEPresent)
	}
}

func TestParseRMEnabledCapabilities(t *testing.T) {
	data := append(tlv(TagSSID, []byte("s")), tlv(TagRMEnabledCapabilities, []byte{0x02, 0, 0, 0, 0})...)
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !f.CapRMNeighborReport {
		t.Fatal("expected CapRMNeighborReport set from bit 1 of byte 0")
	}
}

func TestParseExtendedCapabilitiesShortTreatedAsZero(t *testing.T) {
	// Only 1 byte supplied (bits 0-7); bit 12 (proxy ARP) is beyond it and
	// must read as zero rather than error or panic (spec.md §8 property 8).
	data := append(tlv(TagSSID, []byte("s")), tlv(TagExtendedCapabilities, []byte{0xff})...)
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.ProxyARP {
		t.Fatal("ProxyARP should be false when byte covering bit 12 is absent")
	}

	data = append(tlv(TagSSID, []byte("s")), tlv(TagExtendedCapabilities, []byte{0, 0x10})...)
	f, err = Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !f.ProxyARP {
		t.Fatal("expected ProxyARP set from bit 12")
	}
}

func TestParseInterworkingHESSIDOffsets(t *testing.T) {
	hessid := []byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}

	data := append(tlv(TagSSID, []byte("s")), tlv(TagInterworking, append([]byte{0, 0, 0}, hessid...))...)
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !f.HESSIDPresent || f.HESSID != [6]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff} {
		t.Fatalf("HESSID (len 9) = %v present=%v", f.HESSID, f.HESSIDPresent)
	}

	data = append(tlv(TagSSID, []byte("s")), tlv(TagInterworking, append([]byte{0}, hessid...))...)
	f, err = Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !f.HESSIDPresent || f.HESSID != [6]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff} {
		t.Fatalf("HESSID (len 7) = %v present=%v", f.HESSID, f.HESSIDPresent)
	}
}

func TestParseAdvertisementProtocolANQP(t *testing.T) {
	adv := []byte{0x00, 0x00} // info byte, ANQP id
	data := append(tlv(TagSSID, []byte("s")), tlv(TagAdvertisementProtocol, adv)...)
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !f.ANQPCapable {
		t.Fatal("expected ANQPCapable from advertisement protocol id 0")
	}
}

func TestParseVendorSpecificWPA(t *testing.T) {
	wpa := append([]byte{0x00, 0x50, 0xf2, 0x01}, []byte{1, 2, 3}...)
	data := append(tlv(TagSSID, []byte("s")), tlv(TagVendorSpecific, wpa)...)
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(f.WPA) != len(wpa) {
		t.Fatalf("WPA len = %d, want %d", len(f.WPA), len(wpa))
	}
}

func TestParseVendorSpecificOWETransition(t *testing.T) {
	bssid := []byte{1, 2, 3, 4, 5, 6}
	ssid := []byte("open")
	payload := append(append(bssid, byte(len(ssid))), ssid...)
	owe := append([]byte{0x50, 0x6f, 0x9a, wfaTypeOWETransition}, payload...)

	data := append(tlv(TagSSID, []byte("s")), tlv(TagVendorSpecific, owe)...)
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.OWETransitionInfo == nil {
		t.Fatal("expected OWETransitionInfo to be populated")
	}
	if f.OWETransitionInfo.SSID != "open" {
		t.Fatalf("OWETransitionInfo.SSID = %q, want %q", f.OWETransitionInfo.SSID, "open")
	}
}

func TestParseVendorSpecificHS20(t *testing.T) {
	hs20 := []byte{0x50, 0x6f, 0x9a, wfaTypeHS20Indication, 0x12} // version=2, dgaf disable bit set
	data := append(tlv(TagSSID, []byte("s")), tlv(TagVendorSpecific, hs20)...)
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !f.HS20Capable || !f.HS20DGAFDisable || f.HS20Version != 2 {
		t.Fatalf("HS20: capable=%v dgaf=%v version=%d", f.HS20Capable, f.HS20DGAFDisable, f.HS20Version)
	}
}
