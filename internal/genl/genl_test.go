package genl

import (
	"testing"

	"github.com/mdlayher/netlink"
)

func TestEncodeTriggerAttrsRoundTrip(t *testing.T) {
	attrs := TriggerAttrs{
		Freqs:   []uint32{2412000 / 1000, 5180},
		SSIDs:   [][]byte{[]byte("home"), {}},
		IE:      []byte{0xdd, 0x02, 0xaa, 0xbb},
		Flush:   true,
		HaveMAC: true,
	}
	attrs.MAC = [6]byte{0, 1, 2, 3, 4, 5}
	attrs.MACMask = [6]byte{0xff, 0xff, 0xff, 0, 0, 0}

	payload, err := encodeTriggerAttrs(7, attrs)
	if err != nil {
		t.Fatalf("encodeTriggerAttrs() error = %v", err)
	}

	ad, err := netlink.NewAttributeDecoder(payload)
	if err != nil {
		t.Fatalf("NewAttributeDecoder() error = %v", err)
	}

	var sawWiphy, sawFreqs, sawSSIDs, sawIE, sawFlush, sawMAC bool
	for ad.Next() {
		switch ad.Type() {
		case attrWiphy:
			sawWiphy = true
			if got := ad.Uint32(); got != 7 {
				t.Fatalf("wiphy attr = %d, want 7", got)
			}
		case attrScanFrequencies:
			sawFreqs = true
		case attrScanSSIDs:
			sawSSIDs = true
		case attrIE:
			sawIE = true
			if len(ad.Bytes()) != 4 {
				t.Fatalf("IE attr length = %d, want 4", len(ad.Bytes()))
			}
		case attrScanFlush:
			sawFlush = true
		case attrMAC:
			sawMAC = true
		}
	}
	if err := ad.Err(); err != nil {
		t.Fatalf("decoder error = %v", err)
	}
	if !sawWiphy || !sawFreqs || !sawSSIDs || !sawIE || !sawFlush || !sawMAC {
		t.Fatalf("missing expected attributes: wiphy=%v freqs=%v ssids=%v ie=%v flush=%v mac=%v",
			sawWiphy, sawFreqs, sawSSIDs, sawIE, sawFlush, sawMAC)
	}
}

func TestDecodeBSSAttrsBasicFields(t *testing.T) {
	bssAE := netlink.NewAttributeEncoder()
	bssAE.Bytes(attrBSSBSSID, []byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff})
	bssAE.Uint32(attrBSSFrequency, 5180)
	bssAE.Uint16(attrBSSCapability, 0x0011)
	bssAE.Bytes(attrBSSInformationElements, []byte{0, 4, 't', 'e', 's', 't'})
	bssAE.Int32(attrBSSSignalMBm, -4500)
	bssPayload, err := bssAE.Encode()
	if err != nil {
		t.Fatalf("encoding nested bss attrs: %v", err)
	}

	outerAE := netlink.NewAttributeEncoder()
	outerAE.Bytes(attrBSS, bssPayload)
	outer, err := outerAE.Encode()
	if err != nil {
		t.Fatalf("encoding outer attrs: %v", err)
	}

	got, ok := decodeBSSAttrs(outer)
	if !ok {
		t.Fatal("decodeBSSAttrs() ok = false, want true")
	}
	if got.Frequency != 5180 {
		t.Fatalf("Frequency = %d, want 5180", got.Frequency)
	}
	if got.Capability != 0x0011 {
		t.Fatalf("Capability = %#x, want 0x11", got.Capability)
	}
	if !got.HaveSignalMBm || got.SignalMBm != -4500 {
		t.Fatalf("SignalMBm = (%d,%v), want (-4500,true)", got.SignalMBm, got.HaveSignalMBm)
	}
	if string(got.IEs) != "\x00\x04test" {
		t.Fatalf("IEs = %q, want %q", got.IEs, "\x00\x04test")
	}
}

func TestDecodeBSSAttrsNoBSSAttrYieldsNotOK(t *testing.T) {
	ae := netlink.NewAttributeEncoder()
	ae.Uint32(attrWiphy, 3)
	payload, err := ae.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, ok := decodeBSSAttrs(payload); ok {
		t.Fatal("decodeBSSAttrs() ok = true, want false when no BSS attribute present")
	}
}
