package events

// Topics published by the session manager and the scope watcher.
const (
	TopicSessionAdded    = "session.added"
	TopicSessionRemoved  = "session.removed"
	TopicSessionSelected = "session.selected"
	TopicScopeReloaded   = "scope.reloaded"
)

// SessionEvent is the payload for the session.* topics.
type SessionEvent struct {
	ID      string
	URL     string
	Private bool
}
