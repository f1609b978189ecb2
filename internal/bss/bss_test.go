package bss

import "testing"

func tlv(tag byte, data []byte) []byte {
	return append([]byte{tag, byte(len(data))}, data...)
}

const tagSSID = 0

func ssidIEs(ssid string) []byte {
	return tlv(tagSSID, []byte(ssid))
}

type fixedRate struct {
	rate uint64
	ok   bool
}

func (f fixedRate) EstimateDataRate([]byte, bool, bool) (uint64, bool) {
	return f.rate, f.ok
}

func TestBuildDefaultsUtilizationAndDataRate(t *testing.T) {
	attrs := Attrs{
		BSSID:     [6]byte{1, 2, 3, 4, 5, 6},
		Frequency: 2412,
		IEs:       ssidIEs("net"),
		PrespData: true,
	}
	r, err := Build(attrs, 1_000_000, nil, 1.0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if r.Utilization != defaultUtilization {
		t.Fatalf("Utilization = %d, want %d", r.Utilization, defaultUtilization)
	}
	if r.DataRate != defaultDataRateBps {
		t.Fatalf("DataRate = %d, want %d", r.DataRate, defaultDataRateBps)
	}
}

func TestBuildSourceFrameFromPrespFlag(t *testing.T) {
	attrs := Attrs{IEs: ssidIEs("net"), PrespData: true}
	r, err := Build(attrs, 0, nil, 1.0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if r.SourceFrame != SourceProbeResponse {
		t.Fatalf("SourceFrame = %v, want probe-response", r.SourceFrame)
	}

	attrs = Attrs{IEs: ssidIEs("net"), PrespData: false}
	r, err = Build(attrs, 0, nil, 1.0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if r.SourceFrame != SourceBeacon {
		t.Fatalf("SourceFrame = %v, want beacon", r.SourceFrame)
	}
}

func TestBuildSignalMapping(t *testing.T) {
	attrs := Attrs{IEs: ssidIEs("net"), HaveSignalU8: true, SignalU8: 80}
	r, err := Build(attrs, 0, nil, 1.0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := int32(80)*100 - 10000
	if r.SignalMBm != want {
		t.Fatalf("SignalMBm = %d, want %d", r.SignalMBm, want)
	}
}

func TestBuildTimeStampSynthesized(t *testing.T) {
	attrs := Attrs{IEs: ssidIEs("net"), HaveSeenMsAgo: true, SeenMsAgo: 500}
	r, err := Build(attrs, 10_000_000, nil, 1.0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := uint64(10_000_000 - 500*1000)
	if r.TimeStampUs != want {
		t.Fatalf("TimeStampUs = %d, want %d", r.TimeStampUs, want)
	}
}

func TestBuildRejectsMalformedIEs(t *testing.T) {
	attrs := Attrs{IEs: []byte{0, 5, 1, 2}} // truncated
	if _, err := Build(attrs, 0, nil, 1.0); err == nil {
		t.Fatal("expected error for truncated IE blob")
	}
}

func TestBuildUsesRateEstimator(t *testing.T) {
	attrs := Attrs{IEs: ssidIEs("net")}
	r, err := Build(attrs, 0, fixedRate{rate: 54_000_000, ok: true}, 1.0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if r.DataRate != 54_000_000 {
		t.Fatalf("DataRate = %d, want 54000000", r.DataRate)
	}
}

func TestRankPrefers5GHz(t *testing.T) {
	fiveG := Rank(866_000_000, 5200, 10, 1.2)
	twoG := Rank(866_000_000, 2437, 10, 1.2)
	if fiveG <= twoG {
		t.Fatalf("expected 5GHz rank (%d) to strictly exceed 2.4GHz rank (%d)", fiveG, twoG)
	}
}

func TestRankSaturates(t *testing.T) {
	r := Rank(10_000_000_000, 5200, 10, 5.0)
	if r != 65535 {
		t.Fatalf("Rank() = %d, want 65535 (saturated)", r)
	}
}

func TestRankUtilizationFactors(t *testing.T) {
	low := Rank(500_000_000, 2412, 50, 1.0)
	mid := Rank(500_000_000, 2412, 100, 1.0)
	high := Rank(500_000_000, 2412, 200, 1.0)
	if !(low > mid && mid > high) {
		t.Fatalf("expected low < mid < high utilization to rank low > mid > high, got %d %d %d", low, mid, high)
	}
}

func TestSortByRankOrdersDescendingWithSignalTiebreak(t *testing.T) {
	a := &Record{Rank: 100, SignalMBm: -50}
	b := &Record{Rank: 100, SignalMBm: -30}
	c := &Record{Rank: 200, SignalMBm: -90}
	recs := []*Record{a, b, c}
	SortByRank(recs)
	if recs[0] != c || recs[1] != b || recs[2] != a {
		t.Fatalf("unexpected order: %+v %+v %+v", recs[0], recs[1], recs[2])
	}
}
