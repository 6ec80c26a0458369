package correlation

import "github.com/rs/zerolog"

type inboundConfig struct {
	serviceName string
	enabled     bool
	logger      *zerolog.Logger
	extra       map[string]string
}

// InboundOption configures Handler.
type InboundOption func(*inboundConfig)

func applyInboundOptions(opts []InboundOption) inboundConfig {
	cfg := inboundConfig{enabled: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithServiceName sets the service name recorded on every RequestContext
// installed by the handler.
func WithServiceName(name string) InboundOption {
	return func(cfg *inboundConfig) {
		cfg.serviceName = name
	}
}

// WithRequestLogger enables request lifecycle logging (start, completion,
// panic) through the given logger. Events carry the request context, so a
// correlation-aware logger enriches them like any other record.
func WithRequestLogger(logger *zerolog.Logger) InboundOption {
	return func(cfg *inboundConfig) {
		cfg.logger = logger
	}
}

// WithExtra attaches additional static fields to every RequestContext
// installed by the handler.
func WithExtra(extra map[string]string) InboundOption {
	return func(cfg *inboundConfig) {
		cfg.extra = extra
	}
}

// Disabled keeps the handler in place but installs an empty identifier and
// neither reads nor writes the correlation header. Request lifecycle logging
// still runs.
func Disabled() InboundOption {
	return func(cfg *inboundConfig) {
		cfg.enabled = false
	}
}
