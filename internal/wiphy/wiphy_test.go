package wiphy

import (
	"reflect"
	"testing"
)

func TestNonCCKRatesExcludesCCKSet(t *testing.T) {
	rates := []uint16{2, 4, 11, 12, 18, 22, 24}
	got := NonCCKRates(rates)
	want := []uint16{12, 18, 24}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NonCCKRates() = %v, want %v", got, want)
	}
}

func TestNonCCKRatesAllCCKYieldsEmpty(t *testing.T) {
	got := NonCCKRates([]uint16{2, 4, 11, 22})
	if len(got) != 0 {
		t.Fatalf("NonCCKRates() = %v, want empty (no-CCK clause should be omitted)", got)
	}
}

func TestDeviceEstimateDataRateVHTCeiling(t *testing.T) {
	d := &Device{}
	rate, ok := d.EstimateDataRate(nil, false, true)
	if !ok || rate != vhtNominalRateBps {
		t.Fatalf("EstimateDataRate(vht) = (%d,%v), want (%d,true)", rate, ok, vhtNominalRateBps)
	}
}

func TestDeviceEstimateDataRateFromLegacyRates(t *testing.T) {
	d := &Device{}
	ies := []byte{tagSupportedRates, 3, 2, 11, 0x80 | 108} // 108 half-Mbit basic rate -> 54 Mbit/s
	rate, ok := d.EstimateDataRate(ies, false, false)
	if !ok {
		t.Fatal("expected a rate estimate from legacy rates IE")
	}
	if want := uint64(108) * 500_000; rate != want {
		t.Fatalf("EstimateDataRate() = %d, want %d", rate, want)
	}
}

func TestDeviceEstimateDataRateNoSignalFails(t *testing.T) {
	d := &Device{}
	if _, ok := d.EstimateDataRate(nil, false, false); ok {
		t.Fatal("expected no rate estimate without HT/VHT flags or legacy rates")
	}
}

func TestDeviceHasExtFeatureExplicitOverridesFallback(t *testing.T) {
	d := &Device{ExtFeatures: map[Feature]bool{FeatureScanDwellControl: false}}
	if d.HasExtFeature(FeatureScanDwellControl) {
		t.Fatal("explicit false override should win over any fallback")
	}
}

func TestStaticKnownNetworksHasHidden(t *testing.T) {
	k := &StaticKnownNetworks{Networks: map[string]bool{"a": false, "b": true}}
	if !k.HasHidden() {
		t.Fatal("expected HasHidden() true when at least one hidden network exists")
	}

	none := &StaticKnownNetworks{Networks: map[string]bool{"a": false}}
	if none.HasHidden() {
		t.Fatal("expected HasHidden() false when no hidden networks exist")
	}
}
