package correlation

import (
	"bufio"
	"net"
	"net/http"
	"strconv"
	"time"
)

// HeaderName is the canonical correlation header, read case-insensitively on
// inbound requests and echoed on every response. It is a constant, not
// configuration: every service in the fleet must agree on it for propagation
// to work.
const HeaderName = "X-Correlation-ID"

// ResponseTimeHeader carries the total request handling time in milliseconds.
const ResponseTimeHeader = "X-Response-Time-ms"

// Handler wraps next so every inbound request gets exactly one correlation
// identifier for the duration of its handling.
//
// A non-empty inbound X-Correlation-ID header is adopted verbatim; otherwise
// a fresh identifier is generated. The identifier is echoed on the response
// header before next runs, so it is present on every exit path including a
// panicking handler. The RequestContext is installed on the request's
// context and dies with it; Handler neither catches nor alters anything next
// does, and panics propagate unchanged after the completion log line.
func Handler(next http.Handler, opts ...InboundOption) http.Handler {
	cfg := applyInboundOptions(opts)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if cfg.enabled {
			id = ResolveID(r.Header.Get(HeaderName))
			w.Header().Set(HeaderName, id)
		}

		rc := &RequestContext{
			CorrelationID: id,
			ServiceName:   cfg.serviceName,
			Extra:         cfg.extra,
		}
		ctx := ContextWithRequest(r.Context(), rc)

		sw := &statusWriter{ResponseWriter: w, start: time.Now()}

		if cfg.logger != nil {
			cfg.logger.Info().Ctx(ctx).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Msg("request started")
		}

		defer func() {
			rec := recover()
			if cfg.logger != nil {
				elapsed := time.Since(sw.start)
				if rec != nil {
					cfg.logger.Error().Ctx(ctx).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Dur("duration", elapsed).
						Interface("panic", rec).
						Msg("request panicked")
				} else {
					cfg.logger.Info().Ctx(ctx).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Int("status", sw.Status()).
						Dur("duration", elapsed).
						Msg("request completed")
				}
			}
			if rec != nil {
				panic(rec)
			}
		}()

		next.ServeHTTP(sw, r.WithContext(ctx))
	})
}

// statusWriter records the response status and stamps the response-time
// header at the last moment headers can still be written.
type statusWriter struct {
	http.ResponseWriter
	start       time.Time
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.status = code
		elapsed := float64(time.Since(w.start)) / float64(time.Millisecond)
		w.Header().Set(ResponseTimeHeader, strconv.FormatFloat(elapsed, 'f', 2, 64))
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Flush forwards to the underlying writer so streaming handlers keep working
// behind the middleware. The response-time header must be out before the
// first byte leaves.
func (w *statusWriter) Flush() {
	f, ok := w.ResponseWriter.(http.Flusher)
	if !ok {
		return
	}
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	f.Flush()
}

// Hijack forwards to the underlying writer so websocket upgrades keep
// working behind the middleware.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return h.Hijack()
}

// Status returns the status code written by the handler, defaulting to 200
// when the handler wrote a body without an explicit WriteHeader call.
func (w *statusWriter) Status() int {
	if !w.wroteHeader {
		return http.StatusOK
	}
	return w.status
}
