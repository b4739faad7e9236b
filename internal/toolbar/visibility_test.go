package toolbar

import (
	"testing"

	"github.com/driftbrowser/drift/internal/scope"
)

func TestVisible(t *testing.T) {
	appScope, err := scope.New("https://example.org/app/")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		url        string
		fullscreen bool
		pip        bool
		scope      *scope.Scope
		want       bool
	}{
		{"outside scope", "https://example.org/login", false, false, &appScope, true},
		{"inside scope", "https://example.org/app/page", false, false, &appScope, false},
		{"inside scope, deep path", "https://example.org/app/a/b/c?x=1", false, false, &appScope, false},
		{"fullscreen overrides outside scope", "https://example.org/login", true, false, &appScope, false},
		{"pip overrides outside scope", "https://example.org/login", false, true, &appScope, false},
		{"fullscreen without scope", "https://example.org/login", true, false, nil, false},
		{"pip without scope", "https://example.org/login", false, true, nil, false},
		{"no scope, plain page", "https://example.org/app/page", false, false, nil, true},
		{"no scope, any url", "https://whatever.example/x", false, false, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Visible(tt.url, tt.fullscreen, tt.pip, tt.scope)
			if got != tt.want {
				t.Errorf("Visible(%q, fs=%v, pip=%v) = %v, want %v",
					tt.url, tt.fullscreen, tt.pip, got, tt.want)
			}
		})
	}
}
