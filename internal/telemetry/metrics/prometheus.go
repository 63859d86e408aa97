package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// SetupPrometheus builds the registry served on the metrics listener: runtime
// and process collectors, a liftbook_build_info gauge labelled with the
// running version, and any extra collectors (pgxpool stats).
func SetupPrometheus(version string, extraCollectors ...prometheus.Collector) *prometheus.Registry {
	promRegistry := prometheus.NewRegistry()

	if version == "" {
		version = "unknown"
	}
	buildInfo := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "liftbook",
		Name:        "build_info",
		Help:        "Always 1, labelled with the running version",
		ConstLabels: prometheus.Labels{"version": version},
	})
	buildInfo.Set(1)

	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		buildInfo,
	)
	promRegistry.MustRegister(extraCollectors...)

	return promRegistry
}
