package correlation

import "context"

type ctxKey int

const requestKey ctxKey = iota

// RequestContext is the per-request bundle installed by a boundary adapter.
// It is read-only for the remainder of the request: nothing outside the
// adapter that created it may mutate it.
type RequestContext struct {
	// CorrelationID is the opaque identifier attached to all log output for
	// this request. Empty when correlation is disabled.
	CorrelationID string

	// ServiceName identifies the process that installed the context.
	ServiceName string

	// Extra carries optional additional fields copied onto every record
	// emitted during this request.
	Extra map[string]string
}

// ContextWithRequest returns a context carrying rc. The returned context is
// scoped to one logical request and should not outlive it.
func ContextWithRequest(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestKey, rc)
}

// FromContext returns the RequestContext installed on ctx, or nil when none
// was installed. Absence is a normal state, not an error: log lines emitted
// outside any request (startup, background jobs) see nil.
func FromContext(ctx context.Context) *RequestContext {
	if ctx == nil {
		return nil
	}
	rc, ok := ctx.Value(requestKey).(*RequestContext)
	if !ok {
		return nil
	}
	return rc
}

// ExtractCorrelationID returns the correlation identifier held by ctx, or the
// empty string when none is present.
func ExtractCorrelationID(ctx context.Context) string {
	rc := FromContext(ctx)
	if rc == nil {
		return ""
	}
	return rc.CorrelationID
}
