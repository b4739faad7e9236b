package engine

import "testing"

func TestLoadFlags(t *testing.T) {
	if LoadFlagsNone.Has(LoadFlagBypassCache) {
		t.Error("none should carry no flags")
	}

	f := LoadFlagBypassCache | LoadFlagExternal
	if !f.Has(LoadFlagBypassCache) {
		t.Error("expected bypass-cache to be set")
	}
	if !f.Has(LoadFlagExternal) {
		t.Error("expected external to be set")
	}
	if LoadFlagBypassCache.Has(LoadFlagExternal) {
		t.Error("bypass-cache alone should not report external")
	}
}

func TestNewSessionIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := newSessionID()
		if seen[id] {
			t.Fatalf("duplicate session id: %s", id)
		}
		seen[id] = true
	}
}
