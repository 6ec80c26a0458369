package correlation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "station_manager"
	subsystem = "correlation"
)

var (
	idsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ids_generated_total",
			Help:      "The number of correlation identifiers generated for inbound requests that supplied none.",
		},
	)

	idsAdopted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ids_adopted_total",
			Help:      "The number of caller-supplied correlation identifiers adopted verbatim.",
		},
	)
)
