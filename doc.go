// Package logging provides the shared logging configuration used by
// Station-Manager web services: a thin, concurrency-safe wrapper over
// rs/zerolog with a structured-first API, plus per-request correlation
// identifier enrichment.
//
// Key features
//   - Structured logging only: prefer typed fields over printf-style helpers
//   - Correlation enrichment: records carrying a request context (via
//     Ctx or For) automatically include the request's correlation_id
//   - Static service_name and hostname fields on every record
//   - Idempotent initialization, safe across repeated test setup or
//     framework reload, never duplicating output sinks
//   - Graceful shutdown that waits for in-flight logs (bounded timeout)
//   - File rotation via lumberjack and configurable console formatting
//   - Error history enrichment: for any Err/AnErr, the logger includes
//     the full error chain (outermost -> root), the root cause string, a
//     joined human-readable history, the operations chain (when using
//     Station-Manager DetailedError), and the root operation if available.
//
// Typical usage
//
//	cfg := logging.DefaultConfig()
//	cfg.ServiceName = "station-api"
//	svc := logging.NewService(&cfg)
//	if err := svc.Initialize(); err != nil { panic(err) }
//	defer svc.Close()
//
//	srv := &http.Server{Handler: svc.Middleware(mux)}
//
//	svc.InfoWith().Ctx(r.Context()).Str("user_id", id).Msg("processed")
//	req := svc.For(r.Context())
//	req.ErrorWith().Err(err).Msg("failed")
package logging
