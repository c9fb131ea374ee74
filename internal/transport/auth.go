package transport

import "net/http"

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request, apiKey string)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {}

// BearerAuth implements Bearer token authentication.
type BearerAuth struct{}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request, apiKey string) {
	req.Header.Set("Authorization", "Bearer "+apiKey)
}

// HeaderAuth implements custom header authentication.
type HeaderAuth struct {
	Header string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request, apiKey string) {
	req.Header.Set(a.Header, apiKey)
}

// MultiAuth applies several authenticators with the same key, in order.
type MultiAuth []Authenticator

// Apply implements the Authenticator interface for MultiAuth.
func (m MultiAuth) Apply(req *http.Request, apiKey string) {
	for _, a := range m {
		a.Apply(req, apiKey)
	}
}

// SupabaseAuth sends the project key both as the apikey header and as a
// bearer token, which is what the PostgREST gateway in front of Supabase expects.
func SupabaseAuth() Authenticator {
	return MultiAuth{&HeaderAuth{Header: "apikey"}, &BearerAuth{}}
}
