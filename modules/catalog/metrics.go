package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "stationgo"

var (
	metricURLs = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: module,
		Name:      "urls",
		Help:      "Station URLs in the last catalog pass by scheme.",
	}, []string{"scheme"})

	metricFailedFiles = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: module,
		Name:      "failed_files",
		Help:      "Documents that could not be read in the last catalog pass.",
	})

	metricDuplicates = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: module,
		Name:      "duplicate_stations",
		Help:      "Station names listed more than once in the last catalog pass.",
	})
)

func observe(s *Summary) {
	metricURLs.Reset()
	for scheme, n := range s.Schemes {
		metricURLs.WithLabelValues(scheme).Set(float64(n))
	}
	metricFailedFiles.Set(float64(len(s.Failures)))
	metricDuplicates.Set(float64(len(s.Duplicates)))
}
