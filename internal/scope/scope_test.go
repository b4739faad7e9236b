package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	sc, err := New("https://example.org/app/")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org", sc.Origin)
	assert.Equal(t, "/app/", sc.PathPrefix)

	sc, err = New("https://example.org")
	require.NoError(t, err)
	assert.Equal(t, "/", sc.PathPrefix, "empty path defaults to /")

	_, err = New("/relative/only")
	assert.Error(t, err, "relative URLs cannot define a scope")

	_, err = New("://nonsense")
	assert.Error(t, err)
}

func TestContains(t *testing.T) {
	tests := []struct {
		name  string
		scope string
		url   string
		want  bool
	}{
		{"root scope matches origin root", "https://example.org/", "https://example.org/", true},
		{"root scope matches any path", "https://example.org/", "https://example.org/deep/path?q=1", true},
		{"empty path on target treated as root", "https://example.org/", "https://example.org", true},
		{"prefix match", "https://example.org/app/", "https://example.org/app/page", true},
		{"exact prefix", "https://example.org/app/", "https://example.org/app/", true},
		{"outside prefix", "https://example.org/app/", "https://example.org/other", false},
		{"different origin", "https://example.org/", "https://example.com/", false},
		{"scheme is part of the origin", "https://example.org/", "http://example.org/", false},
		{"port is part of the origin", "https://example.org/", "https://example.org:8443/", false},
		{"host case-insensitive", "https://example.org/", "https://EXAMPLE.ORG/x", true},
		{"unparsable target", "https://example.org/", "://bad", false},

		// Literal prefix matching: no path-segment awareness. Scopes
		// that need a segment boundary must end in "/".
		{"literal prefix crosses segment", "https://example.org/appscope", "https://example.org/appscope-other", true},
		{"trailing slash enforces segment", "https://example.org/appscope/", "https://example.org/appscope-other", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := New(tt.scope)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sc.Contains(tt.url))
		})
	}
}

func TestString(t *testing.T) {
	sc, err := New("https://example.org/app/")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/app/", sc.String())
}
