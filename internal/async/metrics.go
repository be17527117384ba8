package async

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the queue's prometheus collectors.
type Metrics struct {
	enqueued prometheus.Counter
	results  *prometheus.CounterVec
	duration prometheus.Histogram
	depth    prometheus.Gauge
	inflight prometheus.Gauge
}

// NewMetrics creates the queue collectors and registers them on reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		enqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "careermate",
			Subsystem: "queue",
			Name:      "jobs_enqueued_total",
			Help:      "Documents accepted by the batch queue.",
		}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careermate",
			Subsystem: "queue",
			Name:      "jobs_processed_total",
			Help:      "Documents processed, by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "careermate",
			Subsystem: "queue",
			Name:      "job_duration_seconds",
			Help:      "Time spent processing one document.",
			Buckets:   []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 180},
		}),
		depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "careermate",
			Subsystem: "queue",
			Name:      "depth",
			Help:      "Jobs waiting for a worker.",
		}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "careermate",
			Subsystem: "queue",
			Name:      "jobs_inflight",
			Help:      "Jobs currently being processed.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.enqueued, m.results, m.duration, m.depth, m.inflight)
	}
	return m
}
