package scope

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(`{
		"name": "Squoosh",
		"short_name": "Squoosh",
		"start_url": "https://squoosh.app/",
		"scope": "/",
		"display": "standalone"
	}`))
	require.NoError(t, err)
	assert.Equal(t, "Squoosh", m.Name)
	assert.Equal(t, "https://squoosh.app/", m.StartURL)
	assert.Equal(t, "standalone", m.Display)

	_, err = ParseManifest([]byte(`{"name": "no start url"}`))
	assert.Error(t, err)

	_, err = ParseManifest([]byte(`not json`))
	assert.Error(t, err)
}

func TestTrustedScope(t *testing.T) {
	tests := []struct {
		name     string
		startURL string
		scope    string
		want     string
	}{
		{"scope from start_url", "https://example.org/app/index.html", "", "https://example.org/app/index.html"},
		{"relative scope resolved against start_url", "https://example.org/app/index.html", "/app/", "https://example.org/app/"},
		{"absolute scope wins", "https://example.org/deep/start", "https://example.org/", "https://example.org/"},
		{"scope without trailing path", "https://example.org/x", "https://example.org", "https://example.org/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Manifest{StartURL: tt.startURL, Scope: tt.scope}
			sc, err := m.TrustedScope()
			require.NoError(t, err)
			assert.Equal(t, tt.want, sc.String())
		})
	}

	_, err := Manifest{StartURL: "/relative"}.TrustedScope()
	assert.Error(t, err, "relative start_url has no origin")
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"start_url": "https://example.org/app/"}`), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)

	sc, err := m.TrustedScope()
	require.NoError(t, err)
	assert.True(t, sc.Contains("https://example.org/app/settings"))
	assert.False(t, sc.Contains("https://example.org/login"))

	_, err = LoadManifest(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
