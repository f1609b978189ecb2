// Code generated by cmd/scanmetrics-gen from internal/bss/record.go's
// `metric` struct tags. DO NOT EDIT.
//
// To regenerate: go run ./cmd/scanmetrics-gen

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/openwscand/scand/internal/bss"
)

// bssMetric pairs a registerable prometheus.Collector with the function
// that feeds it one BSS record's tagged field.
type bssMetric struct {
	collector prometheus.Collector
	observe   func(r *bss.Record, bssid string)
}

func newBSSMetrics(constLabels prometheus.Labels) []bssMetric {
	frequency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "bss_frequency_mhz",
		Help:        "Center frequency of the last observation of this BSS, in MHz.",
		Buckets:     []float64{2412, 2437, 2462, 5180, 5220, 5500, 5745, 5825},
		ConstLabels: constLabels,
	}, []string{"bssid"})

	signalMBm := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "bss_signal_mbm",
		Help:        "Last observed signal strength, in milli-dBm.",
		Buckets:     prometheus.LinearBuckets(-10000, 1000, 11),
		ConstLabels: constLabels,
	}, []string{"bssid"})

	utilization := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "bss_utilization_ratio",
		Help:        "Channel utilization on a 0-255 scale reported in the BSS load element, or 127 when absent.",
		Buckets:     prometheus.LinearBuckets(0, 25.5, 11),
		ConstLabels: constLabels,
	}, []string{"bssid"})

	dataRate := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "bss_data_rate_bps",
		Help:        "Estimated achievable data rate for this BSS, in bits per second.",
		Buckets:     prometheus.ExponentialBuckets(2_000_000, 4, 8),
		ConstLabels: constLabels,
	}, []string{"bssid"})

	rank := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "bss_rank_by_bssid",
		Help:        "Scan-result ranking score used to order scan callback delivery.",
		Buckets:     prometheus.LinearBuckets(0, 65535.0/10, 11),
		ConstLabels: constLabels,
	}, []string{"bssid"})

	return []bssMetric{
		{collector: frequency, observe: func(r *bss.Record, bssid string) {
			frequency.WithLabelValues(bssid).Observe(float64(r.Frequency))
		}},
		{collector: signalMBm, observe: func(r *bss.Record, bssid string) {
			signalMBm.WithLabelValues(bssid).Observe(float64(r.SignalMBm))
		}},
		{collector: utilization, observe: func(r *bss.Record, bssid string) {
			utilization.WithLabelValues(bssid).Observe(float64(r.Utilization))
		}},
		{collector: dataRate, observe: func(r *bss.Record, bssid string) {
			dataRate.WithLabelValues(bssid).Observe(float64(r.DataRate))
		}},
		{collector: rank, observe: func(r *bss.Record, bssid string) {
			rank.WithLabelValues(bssid).Observe(float64(r.Rank))
		}},
	}
}
