// Package scope implements trusted-scope matching for progressive web
// apps: an origin plus a path prefix inside which the app's chrome may
// be hidden.
package scope

import (
	"fmt"
	"net/url"
	"strings"
)

// Scope is a trusted-scope descriptor: an origin and a path prefix.
// Immutable once constructed.
type Scope struct {
	Origin     string // scheme://host[:port], lowercased
	PathPrefix string // always non-empty, "/" at minimum
}

// New derives a scope from a URL. The URL's path becomes the prefix; an
// empty path means the whole origin is in scope.
func New(rawURL string) (Scope, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Scope{}, fmt.Errorf("parse scope url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Scope{}, fmt.Errorf("scope url must be absolute: %q", rawURL)
	}

	prefix := u.Path
	if prefix == "" {
		prefix = "/"
	}

	return Scope{
		Origin:     origin(u),
		PathPrefix: prefix,
	}, nil
}

// Contains reports whether rawURL falls inside the scope: same origin
// and the path starts with the prefix. Matching is a literal string
// prefix, not segment-aware, so "/app" also matches "/app-other"; scopes
// that need a segment boundary should end in "/". Schemes are never
// treated as equivalent (http and https are distinct origins).
func (s Scope) Contains(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if origin(u) != s.Origin {
		return false
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	return strings.HasPrefix(path, s.PathPrefix)
}

// String renders the scope as a URL.
func (s Scope) String() string {
	return s.Origin + s.PathPrefix
}

func origin(u *url.URL) string {
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
}
