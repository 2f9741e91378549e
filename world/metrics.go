package world

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "luminacraft"

// Metrics holds the streaming collectors of one Region.
type Metrics struct {
	Resident  prometheus.Gauge
	Rendered  prometheus.Gauge
	Loading   prometheus.Gauge
	QueueLen  prometheus.Gauge
	Generated prometheus.Counter
	Evicted   prometheus.Counter
	GenTime   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Resident: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "chunks_resident",
			Help:      "Number of chunks held in the chunk store",
		}),
		Rendered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "chunks_rendered",
			Help:      "Number of chunks drawn in the last frame",
		}),
		Loading: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "chunks_loading",
			Help:      "Number of resident chunks that are not ready yet",
		}),
		QueueLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "chunk_queue_length",
			Help:      "Number of chunk coordinates waiting for generation",
		}),
		Generated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "chunks_generated_total",
			Help:      "Total number of chunks generated and meshed",
		}),
		Evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "chunks_evicted_total",
			Help:      "Total number of chunks evicted for distance",
		}),
		GenTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "chunk_generation_seconds",
			Help:      "Time spent generating and meshing one chunk",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Resident, m.Rendered, m.Loading, m.QueueLen, m.Generated, m.Evicted, m.GenTime} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
