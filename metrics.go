package logging

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

const (
	metricsNamespace = "station_manager"
	metricsSubsystem = "logging"
)

var recordsEmitted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "records_emitted_total",
		Help:      "The number of log records emitted, by level.",
	},
	[]string{"level"},
)

func recordEmitted(level zerolog.Level) {
	recordsEmitted.WithLabelValues(level.String()).Inc()
}
