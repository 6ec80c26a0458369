package logging

import (
	"github.com/rs/zerolog"

	"github.com/Station-Manager/logging/correlation"
)

// correlationHook is the log record enricher: at emission time it copies the
// correlation fields from the record's request context onto the record. It
// is a pure, synchronous read; it performs no I/O and cannot fail. A record
// without a request context (startup, background work) goes out unchanged,
// never blocked or dropped.
type correlationHook struct{}

func (correlationHook) Run(e *zerolog.Event, level zerolog.Level, _ string) {
	recordEmitted(level)

	rc := correlation.FromContext(e.GetCtx())
	if rc == nil {
		return
	}
	if rc.CorrelationID != emptyString {
		e.Str(FieldCorrelationID, rc.CorrelationID)
	}
	for k, v := range rc.Extra {
		e.Str(k, v)
	}
}
