// Package metrics exposes Prometheus collectors for memory pool and batch
// activity.
//
// # Overview
//
// Collectors are registered on the default registry at package init through
// promauto, so importing the package is enough to have them scraped:
//
//	http.Handle("/metrics", promhttp.Handler())
//
// The memory pool reports bytes in use and allocation outcomes; batches
// report resizes and releases per kind.
package metrics

import (
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "orcvector"

// Allocation results
const (
	ResultOK     = "ok"
	ResultDenied = "denied"
)

var (
	// MemoryBytesInUse tracks bytes currently reserved across all pools
	MemoryBytesInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "memory",
			Name:      "bytes_in_use",
			Help:      "Bytes currently reserved from memory pools",
		},
	)

	// MemoryAllocations counts allocation requests by result
	MemoryAllocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "memory",
			Name:      "allocations_total",
			Help:      "Memory pool allocation requests",
		},
		[]string{"result"},
	)

	// BatchResizes counts effective (growing) resizes by batch kind
	BatchResizes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "resizes_total",
			Help:      "Batch resizes that grew capacity",
		},
		[]string{"kind"},
	)

	// BatchesReleased counts released batches by kind
	BatchesReleased = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "released_total",
			Help:      "Batches released back to their pool",
		},
		[]string{"kind"},
	)
)

// RecordAllocation records the outcome of a pool allocation.
func RecordAllocation(bytes int64, ok bool) {
	if !ok {
		MemoryAllocations.WithLabelValues(ResultDenied).Inc()
		return
	}
	MemoryAllocations.WithLabelValues(ResultOK).Inc()
	MemoryBytesInUse.Add(float64(bytes))
}

// RecordFree records bytes returned to a pool.
func RecordFree(bytes int64) {
	MemoryBytesInUse.Sub(float64(bytes))
}

// RecordResize records a growing resize for the given batch kind.
func RecordResize(kind string) {
	BatchResizes.WithLabelValues(kind).Inc()
}

// RecordRelease records a released batch of the given kind.
func RecordRelease(kind string) {
	BatchesReleased.WithLabelValues(kind).Inc()
}

// Snapshot gathers the orcvector collectors from the default registry. Keys
// are metric names followed by their labels, e.g.
// orcvector_batch_resizes_total{kind="long"}.
func Snapshot() (map[string]float64, error) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), namespace+"_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			key := mf.GetName() + labelString(m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				out[key] = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				out[key] = m.GetGauge().GetValue()
			}
		}
	}
	return out, nil
}

func labelString(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.GetName()+"=\""+p.GetValue()+"\"")
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}
