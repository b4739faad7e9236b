// Package toolbar decides whether the URL/toolbar bar should be shown
// for a session, and keeps that decision current as session state
// changes.
package toolbar

import "github.com/driftbrowser/drift/internal/scope"

// Visible derives the toolbar visibility for one session state.
// Fullscreen and picture-in-picture always hide the toolbar; otherwise
// it is hidden exactly when the URL is inside the trusted scope. A nil
// scope (no PWA context) means the toolbar is always shown.
func Visible(url string, fullscreen, pip bool, sc *scope.Scope) bool {
	switch {
	case fullscreen:
		return false
	case pip:
		return false
	case sc != nil && sc.Contains(url):
		return false
	default:
		return true
	}
}
