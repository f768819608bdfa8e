package extractor

import (
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zachfi/stationgo/pkg/fmstream"
)

const metricsNamespace = "stationgo"

var (
	metricStations = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: module,
		Name:      "stations",
		Help:      "Stations in the last extracted document.",
	})

	metricSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: module,
		Name:      "skipped_records_total",
		Help:      "Records skipped for lacking a usable first candidate.",
	})

	metricSchemes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: module,
		Name:      "scheme_stations",
		Help:      "Stations in the last extracted document by URL scheme.",
	}, []string{"scheme"})

	metricRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: module,
		Name:      "runs_total",
		Help:      "Extraction runs by result.",
	}, []string{"result"})
)

func observe(doc *fmstream.Document, stats fmstream.Stats, err error) {
	metricRuns.WithLabelValues(result(err)).Inc()
	if err != nil {
		return
	}

	metricStations.Set(float64(stats.Written - stats.Overwritten))
	metricSkipped.Add(float64(stats.Skipped))

	for scheme, n := range schemeCounts(doc) {
		metricSchemes.WithLabelValues(string(scheme)).Set(float64(n))
	}
}

// schemeCounts counts the stations of doc per scheme. Every defined scheme
// is present, with zero when unused.
func schemeCounts(doc *fmstream.Document) map[fmstream.Scheme]int {
	counts := make(map[fmstream.Scheme]int)
	for _, s := range fmstream.Schemes() {
		counts[s] = 0
	}

	doc.Stations.Range(func(_, url string) bool {
		if i := strings.Index(url, "://"); i > 0 {
			counts[fmstream.Scheme(url[:i])]++
		}
		return true
	})

	return counts
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, fmstream.ErrUndefinedScheme):
		return "undefined_scheme"
	case errors.Is(err, fmstream.ErrMissingField):
		return "missing_field"
	case errors.Is(err, fmstream.ErrLengthMismatch):
		return "length_mismatch"
	case errors.Is(err, fmstream.ErrNoData):
		return "no_data"
	}
	return "error"
}
