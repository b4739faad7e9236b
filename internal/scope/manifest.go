package scope

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
)

// Manifest is the subset of a Web App Manifest this library reads.
type Manifest struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	StartURL  string `json:"start_url"`
	Scope     string `json:"scope"`
	Display   string `json:"display"`
}

// ParseManifest decodes manifest JSON.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if m.StartURL == "" {
		return Manifest{}, fmt.Errorf("manifest has no start_url")
	}
	return m, nil
}

// LoadManifest reads and decodes a manifest file.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// TrustedScope derives the trusted-scope descriptor from the manifest.
// The scope member wins when present (resolved against start_url if
// relative); otherwise the start_url's origin and path define the
// boundary.
func (m Manifest) TrustedScope() (Scope, error) {
	start, err := url.Parse(m.StartURL)
	if err != nil {
		return Scope{}, fmt.Errorf("parse start_url: %w", err)
	}
	if start.Scheme == "" || start.Host == "" {
		return Scope{}, fmt.Errorf("start_url must be absolute: %q", m.StartURL)
	}

	if m.Scope == "" {
		return New(m.StartURL)
	}

	sc, err := url.Parse(m.Scope)
	if err != nil {
		return Scope{}, fmt.Errorf("parse scope: %w", err)
	}
	return New(start.ResolveReference(sc).String())
}
