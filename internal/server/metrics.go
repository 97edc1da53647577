package server

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	exports  *prometheus.CounterVec
	duration prometheus.Histogram
	size     prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradesheet_exports_total",
			Help: "Exports by result.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gradesheet_export_duration_seconds",
			Help:    "Time spent building and serializing workbooks.",
			Buckets: prometheus.DefBuckets,
		}),
		size: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gradesheet_export_bytes",
			Help:    "Size of produced workbooks.",
			Buckets: prometheus.ExponentialBuckets(4096, 4, 8),
		}),
	}
	reg.MustRegister(m.exports, m.duration, m.size)
	return m
}

func (m *metrics) observe(seconds float64, size int, err error) {
	if err != nil {
		m.exports.WithLabelValues("error").Inc()
		return
	}
	m.exports.WithLabelValues("ok").Inc()
	m.duration.Observe(seconds)
	m.size.Observe(float64(size))
}
