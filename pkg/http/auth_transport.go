package http

import "net/http"

// authTransport adds a credential header to every outbound request.
// A header already set on the request wins.
type authTransport struct {
	header    string
	value     string
	transport http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.value == "" || req.Header.Get(t.header) != "" {
		return t.transport.RoundTrip(req)
	}

	reqCopy := req.Clone(req.Context())
	reqCopy.Header.Set(t.header, t.value)

	return t.transport.RoundTrip(reqCopy)
}

// WithAuthToken sends token as a bearer Authorization header
func WithAuthToken(token string) HttpOpts {
	if token == "" {
		return withAuth("Authorization", "")
	}
	return withAuth("Authorization", "Bearer "+token)
}

// WithAPIKey sends key verbatim in header, for generator gateways keyed like x-api-key
func WithAPIKey(header, key string) HttpOpts {
	return withAuth(http.CanonicalHeaderKey(header), key)
}

func withAuth(header, value string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &authTransport{
			header:    header,
			value:     value,
			transport: rt,
		}
	})
}
