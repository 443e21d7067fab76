package http

import "net/http"

// headerTransport adds fixed headers to every outgoing request. Headers the
// request already carries win.
type headerTransport struct {
	headers   http.Header
	transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	for name, values := range t.headers {
		if reqCopy.Header.Get(name) == "" {
			reqCopy.Header[name] = values
		}
	}

	return t.transport.RoundTrip(reqCopy)
}

// WithDefaultHeaders sets headers on every request; empty values are skipped
func WithDefaultHeaders(headers map[string]string) HttpOpts {
	h := make(http.Header, len(headers))
	for name, value := range headers {
		if value != "" {
			h.Set(name, value)
		}
	}

	return func(c *httpConfig) {
		if len(h) == 0 {
			return
		}
		c.transports = append(c.transports, func(rt http.RoundTripper) http.RoundTripper {
			return &headerTransport{headers: h, transport: rt}
		})
	}
}

// WithAuthToken sends a bearer token; an empty token sends nothing
func WithAuthToken(token string) HttpOpts {
	if token == "" {
		return WithDefaultHeaders(nil)
	}
	return WithDefaultHeaders(map[string]string{"Authorization": "Bearer " + token})
}

func WithUserAgent(userAgent string) HttpOpts {
	return WithDefaultHeaders(map[string]string{"User-Agent": userAgent})
}
