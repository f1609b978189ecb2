package bss

import "sort"

// maxDataRateBps is the theoretical maximum PHY rate (VHT) used to
// normalize data_rate into the [0, 65535] rank range.
const maxDataRateBps = 2_340_000_000

const (
	rankHighUtilizationFactor = 0.8
	rankLowUtilizationFactor  = 1.2
	highUtilizationThreshold  = 192
	lowUtilizationThreshold   = 63
	fiveGHzThresholdMHz       = 4000
)

// Rank computes the spec.md §4.3 rank for a BSS with the given data rate
// (bits/s), frequency (MHz) and utilization (0..255), using rank5GFactor
// (config key Rank.BandModifier5Ghz) to prefer 5 GHz networks. The result
// saturates at 65535.
func Rank(dataRate uint64, frequency uint32, utilization uint8, rank5GFactor float64) uint16 {
	rank := float64(dataRate) / maxDataRateBps * 65535

	if frequency > fiveGHzThresholdMHz {
		rank *= rank5GFactor
	}

	switch {
	case utilization >= highUtilizationThreshold:
		rank *= rankHighUtilizationFactor
	case utilization <= lowUtilizationThreshold:
		rank *= rankLowUtilizationFactor
	}

	if rank > 65535 {
		return 65535
	}
	if rank < 0 {
		return 0
	}
	return uint16(rank)
}

// SortByRank sorts records in place by descending rank, breaking ties by
// descending signal strength (spec.md §4.3's secondary tiebreak).
func SortByRank(records []*Record) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Rank != records[j].Rank {
			return records[i].Rank > records[j].Rank
		}
		return records[i].SignalMBm > records[j].SignalMBm
	})
}

// Less reports whether a should sort before b under the rank comparator,
// for callers that maintain their own sorted insertion (spec.md §4.4
// "Result collection": inserted into the result list sorted by rank).
func Less(a, b *Record) bool {
	if a.Rank != b.Rank {
		return a.Rank > b.Rank
	}
	return a.SignalMBm > b.SignalMBm
}
