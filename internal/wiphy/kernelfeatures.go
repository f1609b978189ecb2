package wiphy

import (
	"fmt"

	"github.com/docker/docker/pkg/parsers/kernel"
)

// versionedFeature gates a Feature's availability on a minimum kernel
// version, in the same shape as the teacher's tcpInfoSizes table
// (pkg/linux/init.go) that gates RawTCPInfo's size by kernel version.
type versionedFeature struct {
	feature Feature
	since   kernel.VersionInfo
}

// minKernelVersion lists the earliest upstream kernel release in which
// each NL80211_EXT_FEATURE-equivalent boolean this core cares about
// first appeared, used as a fallback when a driver's actual
// advertised-features bitmap (out of scope, see spec.md §6.3) is
// unavailable.
var minKernelVersion = []versionedFeature{
	{feature: FeatureScanRandomMACAddr, since: kernel.VersionInfo{Kernel: 4, Major: 4, Minor: 0}},
	{feature: FeatureRandomSequenceNum, since: kernel.VersionInfo{Kernel: 4, Major: 19, Minor: 0}},
	{feature: FeatureScanDwellControl, since: kernel.VersionInfo{Kernel: 5, Major: 5, Minor: 0}},
}

// KernelFeatureTable answers HasExtFeature fallback queries by comparing
// the running kernel's version against minKernelVersion.
type KernelFeatureTable struct {
	version *kernel.VersionInfo
}

// NewKernelFeatureTable queries the running kernel's version once, the
// way the teacher's pkg/linux init() does, and returns a table ready to
// answer Supports queries.
func NewKernelFeatureTable() (*KernelFeatureTable, error) {
	v, err := kernel.GetKernelVersion()
	if err != nil {
		return nil, fmt.Errorf("wiphy: getting kernel version: %w", err)
	}
	return &KernelFeatureTable{version: v}, nil
}

// Supports reports whether the running kernel is new enough to plausibly
// support feature. This is only a fallback: a driver's actual advertised
// feature bitmap, when available, always takes precedence.
func (t *KernelFeatureTable) Supports(feature Feature) bool {
	for _, vf := range minKernelVersion {
		if vf.feature == feature {
			return kernel.CompareKernelVersion(*t.version, vf.since) >= 0
		}
	}
	return false
}
