// Package correlation propagates a per-request correlation identifier across
// service boundaries so one logical request can be reconstructed from logs
// alone.
//
// The identifier lives on a context.Context derived for exactly one inbound
// request. Application code never threads it through function signatures: the
// boundary adapter (HTTP middleware or gRPC interceptor) installs it, nested
// code reads it via the context it already receives, and it becomes
// unreachable when the request scope ends. Because each request owns its own
// derived context there is no shared slot to clear and no way for one
// request's identifier to leak into another, regardless of how handling
// terminates.
//
// Typical wiring
//
//	mux := http.NewServeMux()
//	srv := &http.Server{Handler: correlation.Handler(mux,
//		correlation.WithServiceName("station-api"),
//	)}
//
//	client := &http.Client{Transport: correlation.NewRoundTripper(nil)}
package correlation
