package correlation

import "net/http"

type roundTripper struct {
	delegate http.RoundTripper
}

func (rt *roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	id := ExtractCorrelationID(req.Context())
	if id != "" {
		req = req.Clone(req.Context())
		req.Header.Set(HeaderName, id)
	}
	return rt.delegate.RoundTrip(req)
}

// NewRoundTripper returns a client-side transport wrapper that passes the
// current correlation identifier to downstream services via the
// X-Correlation-ID request header. Requests whose context carries no
// identifier are forwarded untouched. A nil delegate means
// http.DefaultTransport.
func NewRoundTripper(delegate http.RoundTripper) http.RoundTripper {
	if delegate == nil {
		delegate = http.DefaultTransport
	}
	return &roundTripper{delegate: delegate}
}
